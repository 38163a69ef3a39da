// Copyright 2025 The dictv Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config manages the TOML runtime configuration stored under
// the data root.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileName is the config file name under the data root.
const FileName = "config.toml"

// Config holds the runtime configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Index  IndexConfig  `toml:"index"`
	Search SearchConfig `toml:"search"`
}

// ServerConfig has HTTP server options.
type ServerConfig struct {
	Port int `toml:"port"`
}

// IndexConfig holds index build options.
type IndexConfig struct {
	// WriterBufferMiB bounds writer memory during a build. Values below
	// 50 are clamped up at build time.
	WriterBufferMiB int `toml:"writer_buffer_mib"`
}

// SearchConfig holds query defaults.
type SearchConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 3000},
		Index:  IndexConfig{WriterBufferMiB: 100},
		Search: SearchConfig{DefaultLimit: 20},
	}
}

// Load reads a config file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}
	return cfg, nil
}

// LoadWithPriority loads configuration with the priority: explicit
// path, then <root>/config.toml, then built-in defaults.
func LoadWithPriority(customPath, root string) *Config {
	if customPath != "" {
		cfg, err := Load(customPath)
		if err == nil {
			log.Debug("loaded config", "path", customPath)
			return cfg
		}
		log.Warn("failed to load config; trying default path", "path", customPath, "err", err)
	}

	defaultPath := filepath.Join(root, FileName)
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := Load(defaultPath)
		if err == nil {
			log.Debug("loaded config", "path", defaultPath)
			return cfg
		}
		log.Warn("failed to load config; using built-in defaults", "path", defaultPath, "err", err)
	}
	return Default()
}

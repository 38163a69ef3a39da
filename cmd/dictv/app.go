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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dictv/dictv/config"
	"github.com/dictv/dictv/index"
	"github.com/dictv/dictv/internal/logger"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "German-English dictionary server.",
		Description: strings.Join([]string{
			"Self-hosted bilingual dictionary lookup over DICTD dictionaries.",
			"https://github.com/dictv/dictv",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Usage:   "data root `DIR` (default: ~/.dictv)",
				Aliases: []string{"r"},
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "config `FILE` (default: <root>/config.toml)",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Aliases: []string{"d"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Init(c.Bool("debug"))
			return nil
		},
		HideHelpCommand: true,
		Commands: []*cli.Command{
			importCommand,
			rebuildCommand,
			statsCommand,
			serveCommand,
			queryCommand,
			versionCommand,
		},
	}
}

// openManager resolves the data root and configuration and opens the
// index manager.
func openManager(c *cli.Context) (*index.Manager, *config.Config, error) {
	root := c.String("root")
	if root == "" {
		var err error
		root, err = index.DefaultRoot()
		if err != nil {
			return nil, nil, err
		}
	}

	cfg := config.LoadWithPriority(c.String("config"), root)

	m, err := index.NewManager(root, &index.BuilderOptions{
		BufferMiB: cfg.Index.WriterBufferMiB,
	})
	if err != nil {
		return nil, nil, err
	}
	return m, cfg, nil
}

func printDataRoot(m *index.Manager) {
	fmt.Printf("Data root: %s\n", m.Root())
	fmt.Printf("  dictionaries: %s\n", m.DataDir())
	fmt.Printf("  search index: %s\n\n", m.IndexDir())
}

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

package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MetaFile is the metadata file name inside the index directory.
const MetaFile = "meta.json"

// Meta describes a committed index. The analyzer name is load-bearing:
// a reader must refuse an index whose analyzer it does not implement,
// because querying with a different pipeline silently breaks
// diacritic-insensitive matching.
type Meta struct {
	SchemaVersion int            `json:"schema_version"`
	Analyzer      string         `json:"analyzer"`
	Counts        map[string]int `json:"counts"`
	TotalEntries  int            `json:"total_entries"`
	BuiltAt       time.Time      `json:"built_at"`
	Sources       []SourceMeta   `json:"sources,omitempty"`
}

// SourceMeta records one ingested dictionary pair.
type SourceMeta struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Entries  int    `json:"entries"`
	Skipped  int    `json:"skipped,omitempty"`

	// RandomAccess records whether the dict body was read through the
	// dictzip chunk table or fully decompressed.
	RandomAccess bool `json:"random_access"`
}

// Count returns the entry count for the given language.
func (m *Meta) Count(lang Language) int {
	return m.Counts[string(lang)]
}

// ReadMeta reads the metadata file from an index directory.
func ReadMeta(dir string) (*Meta, error) {
	b, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if err != nil {
		return nil, fmt.Errorf("reading index metadata: %w", err)
	}
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parsing index metadata: %w", err)
	}
	return &m, nil
}

// WriteMeta writes the metadata file into an index directory.
func WriteMeta(dir string, m *Meta) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetaFile), append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing index metadata: %w", err)
	}
	return nil
}

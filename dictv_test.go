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

package dictv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dictv/dictv"
	"github.com/dictv/dictv/index"
	"github.com/dictv/dictv/internal/testutil"
	"github.com/dictv/dictv/search"
)

// TestOpen tests opening a data root and querying through the facade.
func TestOpen(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.BuildIndex(t, root, map[index.Language][]testutil.Entry{
		index.LangDeEn: {
			{Headword: "Haus", Definition: "house, building, home"},
		},
	})

	d, err := dictv.Open(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	results, elapsed, err := d.Search(context.Background(), "Haus", search.ModeExact, index.LangDeEn, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Word != "Haus" {
		t.Errorf("results = %+v, expected a single Haus match", results)
	}
	if elapsed <= 0 {
		t.Errorf("elapsed = %v, expected > 0", elapsed)
	}

	stats, err := d.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, expected 1", stats.TotalEntries)
	}
}

// TestOpen_noIndex tests that opening a root without a committed index
// fails.
func TestOpen_noIndex(t *testing.T) {
	t.Parallel()

	_, err := dictv.Open(t.TempDir(), nil)
	if !errors.Is(err, index.ErrCorrupt) {
		t.Errorf("Open error = %v, expected %v", err, index.ErrCorrupt)
	}
}

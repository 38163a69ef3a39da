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

package search_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dictv/dictv/index"
	"github.com/dictv/dictv/internal/analysis"
	"github.com/dictv/dictv/internal/testutil"
	"github.com/dictv/dictv/search"
)

var corpus = map[index.Language][]testutil.Entry{
	index.LangDeEn: {
		{Headword: "Haus", Definition: "house, building, home"},
		{Headword: "Häuser", Definition: "houses, buildings"},
		{Headword: "Hand", Definition: "hand"},
		{Headword: "grüßen", Definition: "to greet, to salute"},
		{Headword: "Straße", Definition: "street, road"},
		{Headword: "Auto", Definition: "car, automobile"},
	},
	index.LangEnDe: {
		{Headword: "house", Definition: "Haus, Gebäude"},
		{Headword: "hand", Definition: "Hand"},
		{Headword: "car", Definition: "Auto, Wagen"},
	},
}

var (
	engineOnce sync.Once
	engine     *search.Engine
	engineErr  error
	engineDir  string
)

// testEngine builds one shared index for the package's query tests.
func testEngine(t *testing.T) *search.Engine {
	t.Helper()

	engineOnce.Do(func() {
		m := testutil.BuildIndex(t, engineDir, corpus)
		engine, engineErr = search.Open(m)
	})
	if engineErr != nil {
		t.Fatal(engineErr)
	}
	return engine
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "dictv-search-test.*")
	if err != nil {
		panic(err)
	}
	engineDir = dir
	code := m.Run()
	if engine != nil {
		engine.Close()
	}
	os.RemoveAll(dir)
	os.Exit(code)
}

func words(results []search.Result) []string {
	w := make([]string, len(results))
	for i, r := range results {
		w[i] = r.Word
	}
	return w
}

func findWord(results []search.Result, word string) (search.Result, bool) {
	for _, r := range results {
		if r.Word == word {
			return r, true
		}
	}
	return search.Result{}, false
}

// TestSearch_exact tests exact mode.
func TestSearch_exact(t *testing.T) {
	e := testEngine(t)

	results, _, err := e.Search(context.Background(), "Haus", search.ModeExact, index.LangDeEn, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if results[0].Word != "Haus" {
		t.Errorf("first result = %q, expected Haus (all: %v)", results[0].Word, words(results))
	}
	if results[0].EditDistance != 0 {
		t.Errorf("EditDistance = %d, expected 0", results[0].EditDistance)
	}
	if !strings.Contains(results[0].Definition, "house") {
		t.Errorf("Definition = %q, expected to contain house", results[0].Definition)
	}
	if results[0].Language != index.LangDeEn {
		t.Errorf("Language = %q, expected de-en", results[0].Language)
	}
}

// TestSearch_exact_otherDirection tests the language filter.
func TestSearch_exact_otherDirection(t *testing.T) {
	e := testEngine(t)

	results, _, err := e.Search(context.Background(), "house", search.ModeExact, index.LangEnDe, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if results[0].Word != "house" || results[0].Language != index.LangEnDe {
		t.Errorf("first result = %q (%s), expected house (en-de)", results[0].Word, results[0].Language)
	}

	// The same headword must not leak across directions.
	for _, r := range results {
		if r.Language != index.LangEnDe {
			t.Errorf("result %q has language %q", r.Word, r.Language)
		}
	}
}

// TestSearch_exact_diacriticInsensitive tests that exact matching
// works in the analyzed space.
func TestSearch_exact_diacriticInsensitive(t *testing.T) {
	e := testEngine(t)

	for _, q := range []string{"grüßen", "grussen", "GRUSSEN"} {
		results, _, err := e.Search(context.Background(), q, search.ModeExact, index.LangDeEn, 2, 10)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := findWord(results, "grüßen"); !ok {
			t.Errorf("Search(%q, exact): missing grüßen (got %v)", q, words(results))
		}
	}
}

// TestSearch_fuzzy tests fuzzy mode against the seed scenarios.
func TestSearch_fuzzy(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		name        string
		query       string
		maxDistance int

		word     string
		distance int
	}{
		{
			name:        "single insertion",
			query:       "Hauss",
			maxDistance: 1,
			word:        "Haus",
			distance:    1,
		},
		{
			name:        "doubled letter",
			query:       "Haaus",
			maxDistance: 2,
			word:        "Haus",
			distance:    1,
		},
		{
			name:        "diacritic mismatch is distance zero",
			query:       "grussen",
			maxDistance: 2,
			word:        "grüßen",
			distance:    0,
		},
		{
			name:        "sharp s folds to ss",
			query:       "Strasse",
			maxDistance: 1,
			word:        "Straße",
			distance:    0,
		},
		{
			name:        "transposition is one edit",
			query:       "Huas",
			maxDistance: 1,
			word:        "Haus",
			distance:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, _, err := e.Search(context.Background(), tt.query, search.ModeFuzzy, index.LangDeEn, tt.maxDistance, 10)
			if err != nil {
				t.Fatal(err)
			}
			r, ok := findWord(results, tt.word)
			if !ok {
				t.Fatalf("Search(%q, fuzzy, %d): missing %q (got %v)", tt.query, tt.maxDistance, tt.word, words(results))
			}
			if r.EditDistance != tt.distance {
				t.Errorf("EditDistance = %d, expected %d", r.EditDistance, tt.distance)
			}
		})
	}
}

// TestSearch_fuzzy_respectsMaxDistance tests the distance bound.
func TestSearch_fuzzy_respectsMaxDistance(t *testing.T) {
	e := testEngine(t)

	// "Haaus" is distance 1 from "Haus". Candidates are generated at
	// automaton distance 2, but none farther than 1 may be returned at
	// maxDistance 1.
	results, _, err := e.Search(context.Background(), "Haaus", search.ModeFuzzy, index.LangDeEn, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.EditDistance > 1 {
			t.Errorf("result %q has EditDistance %d > 1", r.Word, r.EditDistance)
		}
	}
}

// TestSearch_prefix tests prefix mode.
func TestSearch_prefix(t *testing.T) {
	e := testEngine(t)

	results, _, err := e.Search(context.Background(), "Ha", search.ModePrefix, index.LangDeEn, 2, 200)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if len(results) > 200 {
		t.Errorf("len(results) = %d, expected <= 200", len(results))
	}
	for _, r := range results {
		analyzed := analysis.AnalyzeString(r.Word)
		if !strings.HasPrefix(analyzed, "ha") {
			t.Errorf("result %q (analyzed %q) does not start with ha", r.Word, analyzed)
		}
		if r.EditDistance != 0 {
			t.Errorf("result %q has EditDistance %d, expected 0", r.Word, r.EditDistance)
		}
	}
	if _, ok := findWord(results, "Häuser"); !ok {
		t.Errorf("prefix ha should match folded Häuser (got %v)", words(results))
	}
}

// TestSearch_prefix_regexMetacharacters tests that regex
// metacharacters in a prefix query are inert.
func TestSearch_prefix_regexMetacharacters(t *testing.T) {
	e := testEngine(t)

	// ".*" has no letters or digits, so it analyzes to nothing and must
	// return no results rather than match everything.
	results, _, err := e.Search(context.Background(), ".*", search.ModePrefix, index.LangDeEn, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("Search(.*, prefix) = %v, expected no results", words(results))
	}
}

// TestSearch_ordering tests the result ordering invariant: score
// descending, then edit distance ascending, then word ascending.
func TestSearch_ordering(t *testing.T) {
	e := testEngine(t)

	results, _, err := e.Search(context.Background(), "Hauss", search.ModeFuzzy, index.LangDeEn, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		if cur.Score > prev.Score {
			t.Errorf("scores increase at %d: %f < %f", i, prev.Score, cur.Score)
		}
		if cur.Score == prev.Score && cur.EditDistance < prev.EditDistance {
			t.Errorf("edit distance decreases within a score tie at %d", i)
		}
		if cur.Score == prev.Score && cur.EditDistance == prev.EditDistance && cur.Word < prev.Word {
			t.Errorf("words out of order within a tie at %d", i)
		}
	}
}

// TestSearch_determinism tests that identical inputs return identical
// result sequences.
func TestSearch_determinism(t *testing.T) {
	e := testEngine(t)

	first, _, err := e.Search(context.Background(), "Hauss", search.ModeFuzzy, index.LangDeEn, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, _, err := e.Search(context.Background(), "Hauss", search.ModeFuzzy, index.LangDeEn, 2, 10)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("results differ across runs (-first, +again):\n%s", diff)
		}
	}
}

// TestSearch_roundtrip tests that stored fields come back byte for
// byte.
func TestSearch_roundtrip(t *testing.T) {
	e := testEngine(t)

	for _, entry := range corpus[index.LangDeEn] {
		results, _, err := e.Search(context.Background(), entry.Headword, search.ModeExact, index.LangDeEn, 2, 10)
		if err != nil {
			t.Fatal(err)
		}
		r, ok := findWord(results, entry.Headword)
		if !ok {
			t.Errorf("Search(%q, exact): entry not found", entry.Headword)
			continue
		}
		if r.Definition != entry.Definition {
			t.Errorf("Definition = %q, expected %q", r.Definition, entry.Definition)
		}
		if r.Language != index.LangDeEn {
			t.Errorf("Language = %q, expected de-en", r.Language)
		}
	}
}

// TestSearch_boundaries tests boundary inputs.
func TestSearch_boundaries(t *testing.T) {
	e := testEngine(t)
	ctx := context.Background()

	t.Run("empty query", func(t *testing.T) {
		results, _, err := e.Search(ctx, "", search.ModeFuzzy, index.LangDeEn, 2, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("results = %v, expected none", words(results))
		}
	})

	t.Run("whitespace query", func(t *testing.T) {
		results, _, err := e.Search(ctx, "   ", search.ModeFuzzy, index.LangDeEn, 2, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("results = %v, expected none", words(results))
		}
	})

	t.Run("punctuation only", func(t *testing.T) {
		results, _, err := e.Search(ctx, "?!...", search.ModeFuzzy, index.LangDeEn, 2, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("results = %v, expected none", words(results))
		}
	})

	t.Run("limit zero", func(t *testing.T) {
		results, _, err := e.Search(ctx, "Haus", search.ModeFuzzy, index.LangDeEn, 2, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("results = %v, expected none", words(results))
		}
	})

	t.Run("limit bounds results", func(t *testing.T) {
		results, _, err := e.Search(ctx, "Ha", search.ModePrefix, index.LangDeEn, 2, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) > 1 {
			t.Errorf("len(results) = %d, expected <= 1", len(results))
		}
	})

	t.Run("max distance zero rejected", func(t *testing.T) {
		_, _, err := e.Search(ctx, "Haus", search.ModeFuzzy, index.LangDeEn, 0, 10)
		if !errors.Is(err, index.ErrValidation) {
			t.Errorf("error = %v, expected %v", err, index.ErrValidation)
		}
	})

	t.Run("max distance three rejected", func(t *testing.T) {
		_, _, err := e.Search(ctx, "Haus", search.ModeFuzzy, index.LangDeEn, 3, 10)
		if !errors.Is(err, index.ErrValidation) {
			t.Errorf("error = %v, expected %v", err, index.ErrValidation)
		}
	})

	t.Run("negative limit rejected", func(t *testing.T) {
		_, _, err := e.Search(ctx, "Haus", search.ModeFuzzy, index.LangDeEn, 2, -1)
		if !errors.Is(err, index.ErrValidation) {
			t.Errorf("error = %v, expected %v", err, index.ErrValidation)
		}
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		_, _, err := e.Search(ctx, "Haus", search.Mode("regex"), index.LangDeEn, 2, 10)
		if !errors.Is(err, index.ErrValidation) {
			t.Errorf("error = %v, expected %v", err, index.ErrValidation)
		}
	})

	t.Run("unknown language rejected", func(t *testing.T) {
		_, _, err := e.Search(ctx, "Haus", search.ModeFuzzy, index.Language("fr-en"), 2, 10)
		if !errors.Is(err, index.ErrValidation) {
			t.Errorf("error = %v, expected %v", err, index.ErrValidation)
		}
	})
}

// TestParseMode tests mode parsing.
func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, good := range []string{"exact", "fuzzy", "prefix"} {
		if _, err := search.ParseMode(good); err != nil {
			t.Errorf("ParseMode(%q): %v", good, err)
		}
	}
	for _, bad := range []string{"", "EXACT", "regex"} {
		if _, err := search.ParseMode(bad); !errors.Is(err, index.ErrValidation) {
			t.Errorf("ParseMode(%q) error = %v, expected %v", bad, err, index.ErrValidation)
		}
	}
}

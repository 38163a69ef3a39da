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

package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestEnginePipelineMatchesAnalyze verifies that the engine-registered
// tokenizer and filter produce exactly the tokens Analyze produces.
// The indexer runs the former and the query compiler the latter; any
// difference between them silently breaks diacritic matching.
func TestEnginePipelineMatchesAnalyze(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Haus",
		"grüßen",
		"Straße",
		"guten Tag, liebe Grüße!",
		"Boeing 747",
		"?!...",
		"",
		"œuvre d'art",
		"日本語 Haus",
	}

	tok := alnumTokenizer{}
	filter := foldFilter{}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			stream := filter.Filter(tok.Tokenize([]byte(input)))
			var engineTokens []string
			for _, tk := range stream {
				engineTokens = append(engineTokens, string(tk.Term))
			}

			if diff := cmp.Diff(Analyze(input), engineTokens); diff != "" {
				t.Errorf("pipelines diverge for %q (-Analyze, +engine):\n%s", input, diff)
			}
		})
	}
}

// TestTokenizerOffsets verifies byte offsets and positions on the
// emitted token stream.
func TestTokenizerOffsets(t *testing.T) {
	t.Parallel()

	stream := alnumTokenizer{}.Tokenize([]byte("ab, cd"))
	if len(stream) != 2 {
		t.Fatalf("got %d tokens, expected 2", len(stream))
	}
	first, second := stream[0], stream[1]
	if string(first.Term) != "ab" || first.Start != 0 || first.End != 2 || first.Position != 1 {
		t.Errorf("first token = %+v", first)
	}
	if string(second.Term) != "cd" || second.Start != 4 || second.End != 6 || second.Position != 2 {
		t.Errorf("second token = %+v", second)
	}
}

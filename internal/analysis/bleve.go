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
	"fmt"
	"unicode"

	bleveanalysis "github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
)

// Engine component names. The analyzer itself is assembled from these
// in [RegisterWith]. The filter calls the same Fold function the query
// compiler calls; the tokenizer applies the same split rule as Tokenize
// in its own loop so it can record byte offsets.
const (
	TokenizerName = "dictv_alnum"
	FilterName    = "dictv_ascii_fold"
)

func init() {
	registry.RegisterTokenizer(TokenizerName, tokenizerConstructor)
	registry.RegisterTokenFilter(FilterName, filterConstructor)
}

// RegisterWith adds the analyzer to the given index mapping under
// [Name].
func RegisterWith(m *mapping.IndexMappingImpl) error {
	err := m.AddCustomAnalyzer(Name, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     TokenizerName,
		"token_filters": []interface{}{FilterName},
	})
	if err != nil {
		return fmt.Errorf("registering analyzer %q: %w", Name, err)
	}
	return nil
}

// alnumTokenizer emits maximal runs of letters and digits.
type alnumTokenizer struct{}

func tokenizerConstructor(_ map[string]interface{}, _ *registry.Cache) (bleveanalysis.Tokenizer, error) {
	return alnumTokenizer{}, nil
}

func (alnumTokenizer) Tokenize(input []byte) bleveanalysis.TokenStream {
	var stream bleveanalysis.TokenStream
	text := string(input)

	start := -1
	pos := 0
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			pos++
			stream = append(stream, &bleveanalysis.Token{
				Term:     []byte(text[start:i]),
				Start:    start,
				End:      i,
				Position: pos,
				Type:     bleveanalysis.AlphaNumeric,
			})
			start = -1
		}
	}
	if start >= 0 {
		pos++
		stream = append(stream, &bleveanalysis.Token{
			Term:     []byte(text[start:]),
			Start:    start,
			End:      len(text),
			Position: pos,
			Type:     bleveanalysis.AlphaNumeric,
		})
	}
	return stream
}

// foldFilter applies Fold to every token and drops tokens that fold to
// nothing.
type foldFilter struct{}

func filterConstructor(_ map[string]interface{}, _ *registry.Cache) (bleveanalysis.TokenFilter, error) {
	return foldFilter{}, nil
}

func (foldFilter) Filter(input bleveanalysis.TokenStream) bleveanalysis.TokenStream {
	out := input[:0]
	for _, tok := range input {
		folded := Fold(string(tok.Term))
		if folded == "" {
			continue
		}
		tok.Term = []byte(folded)
		out = append(out, tok)
	}
	return out
}

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

// Package analysis implements the text pipeline shared by the indexer
// and the query engine: tokenize on non-alphanumerics, Unicode case
// folding, ASCII folding of diacritics.
//
// Both sides must run the exact same pipeline. Headwords are indexed
// through it and queries are compiled through it; any divergence makes
// diacritic-insensitive matching fail silently. The pipeline is
// registered with the index engine under the name [Name], which is
// persisted in the index metadata so a reader can refuse an index built
// with an analyzer it does not implement.
package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name identifies this analyzer configuration in index metadata.
const Name = "ascii_folding_v1"

// asciiMap maps the non-ASCII Latin letters that survive combining-mark
// removal. Case folding runs first, so only lowercase forms appear.
// Letters with no mapping fold to nothing.
var asciiMap = map[rune]string{
	'æ': "ae",
	'œ': "oe",
	'ø': "o",
	'đ': "d",
	'ð': "d",
	'þ': "th",
	'ħ': "h",
	'ı': "i",
	'ĸ': "k",
	'ł': "l",
	'ŋ': "n",
	'ſ': "s",
	'ß': "ss",
}

// markStripper removes combining marks left by canonical decomposition,
// turning ü into u and é into e. Chained transformers carry state, so a
// fresh one is built per call rather than shared across goroutines.
func markStripper() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Tokenize splits text on any codepoint that is not a letter or digit,
// discarding the delimiters and preserving token order. Text with no
// tokens yields nil.
func Tokenize(text string) []string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// Fold case-folds a single token and maps it to its closest ASCII
// representation. Tokens that fold to nothing produce an empty string.
func Fold(token string) string {
	// Unicode case folding. This also expands sharp s to "ss".
	folded := cases.Fold().String(token)

	stripped, _, err := transform.String(markStripper(), folded)
	if err != nil {
		// Invalid UTF-8 passes through; non-ASCII bytes drop below.
		stripped = folded
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if repl, ok := asciiMap[r]; ok {
			b.WriteString(repl)
		}
	}
	return b.String()
}

// Analyze runs the full pipeline and returns the resulting tokens.
// Tokens that fold to empty are dropped.
func Analyze(text string) []string {
	var tokens []string
	for _, t := range Tokenize(text) {
		if f := Fold(t); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// AnalyzeString returns the analyzed form of text as a single
// space-joined string. Edit distances are measured in this space.
func AnalyzeString(text string) string {
	return strings.Join(Analyze(text), " ")
}

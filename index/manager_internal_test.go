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

import "testing"

// TestInferLanguage tests language inference from file names.
func TestInferLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected Language
	}{
		{"freedict-deu-eng", LangDeEn},
		{"freedict-eng-deu", LangEnDe},
		{"de-en.mydict", LangDeEn},
		{"en-de.mydict", LangEnDe},
		{"mydict", ""},
		{"eng-fra", ""},
		// An explicit direction prefix wins over feed substrings.
		{"en-de.freedict-deu-eng", LangEnDe},
	}

	for _, tt := range tests {
		if got := inferLanguage(tt.name); got != tt.expected {
			t.Errorf("inferLanguage(%q) = %q, expected %q", tt.name, got, tt.expected)
		}
	}
}

// TestDataFileName tests storage names for imported pairs.
func TestDataFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lang     Language
		expected string
	}{
		{"freedict-deu-eng.dict.dz", LangDeEn, "freedict-deu-eng.dict.dz"},
		{"mydict.dict.dz", LangDeEn, "de-en.mydict.dict.dz"},
		{"mydict.dict.dz", LangEnDe, "en-de.mydict.dict.dz"},
		// A name claiming the opposite direction is re-tagged.
		{"freedict-deu-eng.dict.dz", LangEnDe, "en-de.freedict-deu-eng.dict.dz"},
	}

	for _, tt := range tests {
		if got := dataFileName(tt.name, tt.lang); got != tt.expected {
			t.Errorf("dataFileName(%q, %q) = %q, expected %q", tt.name, tt.lang, got, tt.expected)
		}
	}
}

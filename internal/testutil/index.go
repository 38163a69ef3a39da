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

package testutil

import (
	"testing"

	"github.com/dictv/dictv/index"
)

// fixtureNames carry the direction so rebuild-by-scan can infer it.
var fixtureNames = map[index.Language]string{
	index.LangDeEn: "test-deu-eng",
	index.LangEnDe: "test-eng-deu",
}

// BuildIndex writes dictionary fixtures for each language into a fresh
// data root and builds a committed index from them. It returns the
// manager for the root.
func BuildIndex(t *testing.T, root string, entries map[index.Language][]Entry) *index.Manager {
	t.Helper()

	m, err := index.NewManager(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	for lang, es := range entries {
		MakeDictd(t, m.DataDir(), fixtureNames[lang], es)
	}
	if err := m.Rebuild(); err != nil {
		t.Fatal(err)
	}
	return m
}

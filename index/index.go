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

// Package index owns the inverted index over dictionary entries: the
// engine schema, the bounded-memory builder, and the lifecycle of the
// on-disk layout under a per-user data root.
package index

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates invalid caller input. It is surfaced to
	// callers as a 4xx-class failure and never logged as an alert.
	ErrValidation = errors.New("validation")

	// ErrCorrupt indicates the index cannot be opened or read.
	ErrCorrupt = errors.New("index corrupt")

	// ErrBuildInProgress indicates an index build was requested while
	// another one is active for the same data root.
	ErrBuildInProgress = errors.New("index build already in progress")
)

// Language is a dictionary direction tag. It is an opaque exact-match
// key, never analyzed.
type Language string

const (
	// LangDeEn is German to English.
	LangDeEn = Language("de-en")

	// LangEnDe is English to German.
	LangEnDe = Language("en-de")
)

// Languages is the closed set of supported directions.
var Languages = []Language{LangDeEn, LangEnDe}

// ParseLanguage parses a language tag.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LangDeEn:
		return LangDeEn, nil
	case LangEnDe:
		return LangEnDe, nil
	}
	return "", fmt.Errorf("%w: unknown language %q", ErrValidation, s)
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// Entry is a dictionary entry to be indexed. Word and Definition are
// stored verbatim; analysis applies to the indexed terms only.
type Entry struct {
	Word       string
	Definition string
	Language   Language
}

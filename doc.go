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

// Package dictv implements a self-hosted bilingual dictionary lookup
// service over DICTD dictionaries in pure Go.
//
// A DICTD dictionary pair contains two files:
//  1. A .index file listing headwords with the offset and length of
//     each definition, encoded as base-64 positional integers.
//  2. A .dict.dz file containing the definition bodies, compressed with
//     dictzip (gzip with a random-access chunk table).
//
// Imported dictionaries are parsed into an inverted index over three
// fields: the headword, the definition and the language direction.
// Headwords and definitions are analyzed with a shared
// tokenize/lowercase/ASCII-fold pipeline so queries match independent
// of case and diacritics; queries may be exact, fuzzy by bounded edit
// distance, or prefix.
package dictv

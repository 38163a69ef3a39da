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
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/dictv/dictv/internal/analysis"
)

// Indexed field names.
const (
	FieldWord       = "word"
	FieldDefinition = "definition"
	FieldLanguage   = "language"
)

// SchemaVersion is bumped whenever the field layout or analyzer
// pipeline changes incompatibly.
const SchemaVersion = 1

// buildMapping returns the engine mapping: word and definition indexed
// through the shared analyzer with positions and frequencies and
// stored, language indexed as an exact key and stored.
func buildMapping() (mapping.IndexMapping, error) {
	im := bleve.NewIndexMapping()
	if err := analysis.RegisterWith(im); err != nil {
		return nil, err
	}
	im.DefaultAnalyzer = analysis.Name

	text := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = analysis.Name
		fm.Store = true
		fm.IncludeTermVectors = true
		fm.IncludeInAll = false
		return fm
	}

	lang := bleve.NewTextFieldMapping()
	lang.Analyzer = keyword.Name
	lang.Store = true
	lang.IncludeTermVectors = false
	lang.IncludeInAll = false

	doc := bleve.NewDocumentStaticMapping()
	doc.AddFieldMappingsAt(FieldWord, text())
	doc.AddFieldMappingsAt(FieldDefinition, text())
	doc.AddFieldMappingsAt(FieldLanguage, lang)

	im.DefaultMapping = doc
	if err := im.Validate(); err != nil {
		return nil, fmt.Errorf("validating index mapping: %w", err)
	}
	return im, nil
}

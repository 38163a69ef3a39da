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

// Package search compiles user queries into term, fuzzy or prefix
// query shapes over the dictionary index and collects ranked results.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	bquery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/dictv/dictv/index"
	"github.com/dictv/dictv/internal/analysis"
)

// Mode selects the headword query shape.
type Mode string

const (
	// ModeExact matches the analyzed query as an exact term.
	ModeExact = Mode("exact")

	// ModeFuzzy matches terms within a bounded edit distance.
	ModeFuzzy = Mode("fuzzy")

	// ModePrefix matches terms beginning with the analyzed query.
	ModePrefix = Mode("prefix")
)

// ParseMode parses a search mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeExact, ModeFuzzy, ModePrefix:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", index.ErrValidation, s)
}

// Result is a single ranked match.
type Result struct {
	Word       string         `json:"word"`
	Definition string         `json:"definition"`
	Language   index.Language `json:"language"`

	// EditDistance is measured between the analyzed query and the
	// analyzed headword, transposition counted as one edit. It is 0 by
	// definition for exact and prefix hits.
	EditDistance int `json:"edit_distance"`

	// Score is the engine's term-frequency relevance score.
	Score float64 `json:"score"`
}

// candidateFuzziness is the automaton distance used to generate fuzzy
// candidates. The engine automaton counts a transposition as two edits
// while the reported distance counts it as one, so candidates are
// always generated at the engine maximum and filtered down by the
// reported distance afterwards.
const candidateFuzziness = 2

// Engine executes searches against one open index snapshot. It is safe
// for concurrent use; the underlying segments are immutable for the
// reader's lifetime.
type Engine struct {
	idx bleve.Index
}

// NewEngine returns an engine over an open index handle.
func NewEngine(idx bleve.Index) *Engine {
	return &Engine{idx: idx}
}

// Open opens the committed index under the manager's root and returns
// an engine over it.
func Open(m *index.Manager) (*Engine, error) {
	idx, _, err := m.OpenReader()
	if err != nil {
		return nil, err
	}
	return &Engine{idx: idx}, nil
}

// Close releases the index snapshot.
func (e *Engine) Close() error {
	if err := e.idx.Close(); err != nil {
		return fmt.Errorf("closing index: %w", err)
	}
	return nil
}

// Search runs a query and returns ranked results along with the elapsed
// wall time. maxDistance must be 1 or 2 and is only consulted in fuzzy
// mode. limit bounds the returned slice; limit 0 returns no results.
// A query that analyzes to nothing returns no results and no error.
func (e *Engine) Search(ctx context.Context, raw string, mode Mode, lang index.Language, maxDistance, limit int) ([]Result, time.Duration, error) {
	start := time.Now()

	if _, err := ParseMode(string(mode)); err != nil {
		return nil, 0, err
	}
	if maxDistance < 1 || maxDistance > candidateFuzziness {
		return nil, 0, fmt.Errorf("%w: max_distance must be 1 or 2, got %d", index.ErrValidation, maxDistance)
	}
	if limit < 0 {
		return nil, 0, fmt.Errorf("%w: limit must not be negative, got %d", index.ErrValidation, limit)
	}
	if _, err := index.ParseLanguage(string(lang)); err != nil {
		return nil, 0, err
	}
	if limit == 0 {
		return nil, time.Since(start), nil
	}

	analyzed := analysis.AnalyzeString(strings.TrimSpace(raw))
	if analyzed == "" {
		return nil, time.Since(start), nil
	}

	q, fetch := e.compile(analyzed, mode, lang, limit)

	req := bleve.NewSearchRequestOptions(q, fetch, 0, false)
	req.Fields = []string{index.FieldWord, index.FieldDefinition, index.FieldLanguage}

	res, err := e.idx.SearchInContext(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, fmt.Errorf("%w: %v", index.ErrCorrupt, err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		r := Result{
			Word:       fieldString(hit.Fields, index.FieldWord),
			Definition: fieldString(hit.Fields, index.FieldDefinition),
			Language:   index.Language(fieldString(hit.Fields, index.FieldLanguage)),
			Score:      hit.Score,
		}
		if mode == ModeFuzzy {
			r.EditDistance = Distance(analyzed, analysis.AnalyzeString(r.Word))
			if r.EditDistance > maxDistance {
				continue
			}
		}
		results = append(results, r)
	}

	// Score descending, then edit distance ascending, then word
	// ascending.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].EditDistance != results[j].EditDistance {
			return results[i].EditDistance < results[j].EditDistance
		}
		return results[i].Word < results[j].Word
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, time.Since(start), nil
}

// compile builds the conjoined headword and language query. The fetch
// size over-collects so the re-rank has enough candidates to choose
// from.
func (e *Engine) compile(analyzed string, mode Mode, lang index.Language, limit int) (bquery.Query, int) {
	var head bquery.Query
	fetch := limit * 2

	switch mode {
	case ModeFuzzy:
		fq := bleve.NewFuzzyQuery(analyzed)
		fq.SetField(index.FieldWord)
		fq.SetFuzziness(candidateFuzziness)
		head = fq
		fetch = limit * 10
	case ModePrefix:
		// The engine's term dictionary supports prefix enumeration
		// directly; user-typed regex metacharacters are inert data.
		pq := bleve.NewPrefixQuery(analyzed)
		pq.SetField(index.FieldWord)
		head = pq
	default:
		tq := bleve.NewTermQuery(analyzed)
		tq.SetField(index.FieldWord)
		head = tq
	}

	lq := bleve.NewTermQuery(string(lang))
	lq.SetField(index.FieldLanguage)

	return bleve.NewConjunctionQuery(head, lq), fetch
}

func fieldString(fields map[string]interface{}, name string) string {
	s, _ := fields[name].(string)
	return s
}

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
	"strconv"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/index/scorch"
	"github.com/charmbracelet/log"

	"github.com/dictv/dictv/internal/analysis"
)

const (
	// DefaultBufferMiB is the default writer buffer budget.
	DefaultBufferMiB = 100

	// MinBufferMiB is the smallest writer buffer budget accepted;
	// values below it are clamped up.
	MinBufferMiB = 50

	// progressInterval is how often the builder reports throughput.
	progressInterval = 10000
)

// BuilderOptions configure an index build.
type BuilderOptions struct {
	// BufferMiB bounds the memory accumulated before a segment flush.
	BufferMiB int
}

// Builder accumulates documents into a new index at a staging path.
// Exactly one commit happens, via Commit; an abandoned builder leaves
// nothing at the final index path.
type Builder struct {
	idx  bleve.Index
	path string

	batch      *bleve.Batch
	batchBytes int
	bufferCap  int

	n      int
	counts map[string]int
	start  time.Time

	sources []SourceMeta
}

// NewBuilder creates a fresh index at the given staging path.
func NewBuilder(path string, opts *BuilderOptions) (*Builder, error) {
	bufMiB := DefaultBufferMiB
	if opts != nil && opts.BufferMiB != 0 {
		bufMiB = opts.BufferMiB
		if bufMiB < MinBufferMiB {
			bufMiB = MinBufferMiB
		}
	}

	m, err := buildMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewUsing(path, m, scorch.Name, scorch.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("creating index at %q: %w", path, err)
	}

	b := &Builder{
		idx:       idx,
		path:      path,
		bufferCap: bufMiB << 20,
		counts:    map[string]int{},
		start:     time.Now(),
	}
	b.batch = idx.NewBatch()
	return b, nil
}

// Add indexes one entry.
func (b *Builder) Add(e *Entry) error {
	doc := map[string]interface{}{
		FieldWord:       e.Word,
		FieldDefinition: e.Definition,
		FieldLanguage:   string(e.Language),
	}
	if err := b.batch.Index(strconv.Itoa(b.n), doc); err != nil {
		return fmt.Errorf("adding %q to batch: %w", e.Word, err)
	}
	b.n++
	b.counts[string(e.Language)]++
	b.batchBytes += len(e.Word) + len(e.Definition) + len(e.Language)

	if b.batchBytes >= b.bufferCap {
		if err := b.flush(); err != nil {
			return err
		}
	}

	if b.n%progressInterval == 0 {
		elapsed := time.Since(b.start).Seconds()
		log.Info("indexing", "entries", b.n, "rate", fmt.Sprintf("%.0f/s", float64(b.n)/elapsed))
	}
	return nil
}

// AddSource records provenance for one ingested dictionary pair.
func (b *Builder) AddSource(s SourceMeta) {
	b.sources = append(b.sources, s)
}

func (b *Builder) flush() error {
	if b.batch.Size() == 0 {
		return nil
	}
	if err := b.idx.Batch(b.batch); err != nil {
		return fmt.Errorf("flushing segment: %w", err)
	}
	b.batch.Reset()
	b.batchBytes = 0
	return nil
}

// Commit flushes remaining documents, writes the metadata file and
// closes the index. The staging directory is complete after Commit
// returns; moving it to the final path is the manager's job.
func (b *Builder) Commit() (*Meta, error) {
	if err := b.flush(); err != nil {
		return nil, err
	}
	if err := b.idx.Close(); err != nil {
		return nil, fmt.Errorf("closing index: %w", err)
	}

	meta := &Meta{
		SchemaVersion: SchemaVersion,
		Analyzer:      analysis.Name,
		Counts:        b.counts,
		TotalEntries:  b.n,
		BuiltAt:       time.Now().UTC(),
		Sources:       b.sources,
	}
	if err := WriteMeta(b.path, meta); err != nil {
		return nil, err
	}

	log.Info("index built", "entries", b.n, "elapsed", time.Since(b.start).Round(time.Millisecond))
	return meta, nil
}

// Abort closes the index without writing metadata. The staging
// directory is left for the manager to discard.
func (b *Builder) Abort() {
	if err := b.idx.Close(); err != nil {
		log.Warn("closing aborted index build", "err", err)
	}
}

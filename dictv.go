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

package dictv

import (
	"context"
	"time"

	"github.com/dictv/dictv/index"
	"github.com/dictv/dictv/search"
)

// Dictv fronts a data root: the index manager plus a query engine over
// the committed index snapshot.
type Dictv struct {
	manager *index.Manager
	engine  *search.Engine
}

// Open opens the data root at path and the committed index under it.
func Open(path string, opts *index.BuilderOptions) (*Dictv, error) {
	m, err := index.NewManager(path, opts)
	if err != nil {
		return nil, err
	}
	e, err := search.Open(m)
	if err != nil {
		return nil, err
	}
	return &Dictv{manager: m, engine: e}, nil
}

// Manager returns the index manager for the data root.
func (d *Dictv) Manager() *index.Manager {
	return d.manager
}

// Engine returns the query engine over the open snapshot.
func (d *Dictv) Engine() *search.Engine {
	return d.engine
}

// Search runs a query against the open snapshot.
func (d *Dictv) Search(ctx context.Context, q string, mode search.Mode, lang index.Language, maxDistance, limit int) ([]search.Result, time.Duration, error) {
	return d.engine.Search(ctx, q, mode, lang, maxDistance, limit)
}

// Stats describes the committed index.
func (d *Dictv) Stats() (*index.Stats, error) {
	return d.manager.Stats()
}

// Close releases the index snapshot.
func (d *Dictv) Close() error {
	return d.engine.Close()
}

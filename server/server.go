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

// Package server exposes the search library over HTTP. Handlers map
// 1:1 onto library operations; validation failures are 4xx, engine
// failures are 5xx.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"sigs.k8s.io/release-utils/version"

	"github.com/dictv/dictv/index"
	"github.com/dictv/dictv/search"
)

// Query parameter defaults.
const (
	DefaultMode        = search.ModeFuzzy
	DefaultLanguage    = index.LangDeEn
	DefaultMaxDistance = 2
	DefaultLimit       = 20
)

// SearchResponse is the /search payload.
type SearchResponse struct {
	Results      []search.Result `json:"results"`
	QueryTimeMs  float64         `json:"query_time_ms"`
	TotalResults int             `json:"total_results"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// StatsResponse is the /stats payload.
type StatsResponse struct {
	TotalEntries   int   `json:"total_entries"`
	EnDeEntries    int   `json:"en_de_entries"`
	DeEnEntries    int   `json:"de_en_entries"`
	IndexSizeBytes int64 `json:"index_size_bytes"`
}

// Options tune the server.
type Options struct {
	// DefaultLimit is the result limit applied when the request does
	// not carry one.
	DefaultLimit int
}

// Server serves the HTTP API over one shared index snapshot.
type Server struct {
	engine *search.Engine
	mgr    *index.Manager

	defaultLimit int
}

// New returns a server over the given engine and manager.
func New(engine *search.Engine, mgr *index.Manager, opts *Options) *Server {
	s := &Server{engine: engine, mgr: mgr, defaultLimit: DefaultLimit}
	if opts != nil && opts.DefaultLimit > 0 {
		s.defaultLimit = opts.DefaultLimit
	}
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/search", s.handleSearch)
	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)
	return r
}

// ListenAndServe serves the API on the given port until ctx is
// cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := strings.TrimSpace(params.Get("q"))

	mode := DefaultMode
	if v := params.Get("mode"); v != "" {
		var err error
		if mode, err = search.ParseMode(v); err != nil {
			writeError(w, err)
			return
		}
	}

	lang := DefaultLanguage
	if v := params.Get("lang"); v != "" {
		var err error
		if lang, err = index.ParseLanguage(v); err != nil {
			writeError(w, err)
			return
		}
	}

	maxDistance := DefaultMaxDistance
	if v := params.Get("max_distance"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, fmt.Errorf("%w: max_distance %q is not an integer", index.ErrValidation, v))
			return
		}
		maxDistance = n
	}

	limit := s.defaultLimit
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, fmt.Errorf("%w: limit %q is not an integer", index.ErrValidation, v))
			return
		}
		limit = n
	}

	results, elapsed, err := s.engine.Search(r.Context(), q, mode, lang, maxDistance, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []search.Result{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Results:      results,
		QueryTimeMs:  float64(elapsed.Microseconds()) / 1000.0,
		TotalResults: len(results),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.GetVersionInfo().GitVersion,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.mgr.Stats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		TotalEntries:   stats.TotalEntries,
		EnDeEntries:    stats.EnDeEntries,
		DeEnEntries:    stats.DeEnEntries,
		IndexSizeBytes: stats.IndexSizeBytes,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("encoding response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, index.ErrValidation) {
		status = http.StatusBadRequest
	} else {
		log.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

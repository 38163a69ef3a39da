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
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
	"github.com/charmbracelet/log"

	"github.com/dictv/dictv/dictd"
	"github.com/dictv/dictv/internal/analysis"
	"github.com/dictv/dictv/internal/fetch"
)

const (
	dataDirName  = "data"
	indexDirName = "index"

	// stagingDirName is where a build is written before the atomic
	// rename that commits it.
	stagingDirName = "index.building"

	oldDirName = "index.old"

	buildLockName = ".build.lock"
)

// feed describes a known FreeDict download.
type feed struct {
	URL      string
	Language Language
	Base     string
}

var feeds = map[string]feed{
	"freedict-eng-deu": {
		URL:      "https://download.freedict.org/dictionaries/eng-deu/1.9-fd1/freedict-eng-deu-1.9-fd1.dictd.tar.xz",
		Language: LangEnDe,
		Base:     "eng-deu",
	},
	"freedict-deu-eng": {
		URL:      "https://download.freedict.org/dictionaries/deu-eng/1.9-fd1/freedict-deu-eng-1.9-fd1.dictd.tar.xz",
		Language: LangDeEn,
		Base:     "deu-eng",
	},
}

// Feeds returns the names of the known FreeDict feeds.
func Feeds() []string {
	names := make([]string, 0, len(feeds))
	for name := range feeds {
		names = append(names, name)
	}
	return names
}

// Manager owns the on-disk layout under a data root: raw dictionaries
// under data/, the committed index under index/. Builds are
// single-writer per root and commit by atomic rename, so readers opened
// against the prior layout keep serving until dropped.
type Manager struct {
	root     string
	dataDir  string
	indexDir string

	opts BuilderOptions

	building atomic.Bool
}

// DefaultRoot returns the default data root, $HOME/.dictv.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".dictv"), nil
}

// NewManager opens a data root, creating it if necessary.
func NewManager(root string, opts *BuilderOptions) (*Manager, error) {
	m := &Manager{
		root:     root,
		dataDir:  filepath.Join(root, dataDirName),
		indexDir: filepath.Join(root, indexDirName),
	}
	if opts != nil {
		m.opts = *opts
	}
	if err := os.MkdirAll(m.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return m, nil
}

// Root returns the data root path.
func (m *Manager) Root() string { return m.root }

// DataDir returns the raw dictionary directory.
func (m *Manager) DataDir() string { return m.dataDir }

// IndexDir returns the committed index directory.
func (m *Manager) IndexDir() string { return m.indexDir }

// OpenReader opens the committed index for reading. The returned handle
// is a point-in-time snapshot, safe for concurrent queries, and remains
// valid across a concurrent rebuild until closed. A missing or
// unreadable index, or one built with an analyzer or schema this binary
// does not implement, is refused.
func (m *Manager) OpenReader() (bleve.Index, *Meta, error) {
	meta, err := ReadMeta(m.indexDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: no index at %q; run import or rebuild first", ErrCorrupt, m.indexDir)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if meta.Analyzer != analysis.Name {
		return nil, nil, fmt.Errorf("%w: index built with analyzer %q, this binary implements %q",
			ErrCorrupt, meta.Analyzer, analysis.Name)
	}
	if meta.SchemaVersion != SchemaVersion {
		return nil, nil, fmt.Errorf("%w: index schema version %d, this binary implements %d",
			ErrCorrupt, meta.SchemaVersion, SchemaVersion)
	}

	idx, err := bleve.Open(m.indexDir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening %q: %v", ErrCorrupt, m.indexDir, err)
	}
	return idx, meta, nil
}

// ImportLocal copies a dictionary pair into the data directory and
// rebuilds the index from everything under it.
func (m *Manager) ImportLocal(dictPath, indexPath string, lang Language) error {
	name := dataFileName(filepath.Base(dictPath), lang)
	base := strings.TrimSuffix(name, ".dict.dz")

	if err := copyFile(dictPath, filepath.Join(m.dataDir, base+".dict.dz")); err != nil {
		return err
	}
	if err := copyFile(indexPath, filepath.Join(m.dataDir, base+".index")); err != nil {
		return err
	}
	log.Info("imported dictionary files", "name", base, "language", lang)

	return m.Rebuild()
}

// ImportDownload downloads a known FreeDict feed into the data
// directory and rebuilds the index.
func (m *Manager) ImportDownload(ctx context.Context, name string) error {
	fd, ok := feeds[name]
	if !ok {
		return fmt.Errorf("%w: unknown dictionary feed %q", ErrValidation, name)
	}

	archive := filepath.Join(m.dataDir, name+".tar.xz")
	if err := fetch.Download(ctx, fd.URL, archive); err != nil {
		return err
	}
	defer os.Remove(archive)

	extractDir := filepath.Join(m.dataDir, name+".extract")
	defer os.RemoveAll(extractDir)
	if err := fetch.ExtractTarXz(archive, extractDir); err != nil {
		return err
	}

	dictPath, indexPath, err := fetch.FindDictPair(extractDir, fd.Base)
	if err != nil {
		return err
	}

	if err := copyFile(dictPath, filepath.Join(m.dataDir, name+".dict.dz")); err != nil {
		return err
	}
	if err := copyFile(indexPath, filepath.Join(m.dataDir, name+".index")); err != nil {
		return err
	}
	log.Info("downloaded dictionary", "feed", name, "language", fd.Language)

	return m.Rebuild()
}

// Rebuild builds a fresh index from every dictionary pair under the
// data directory and commits it atomically. Only one build may be
// active per data root; concurrent attempts are rejected.
func (m *Manager) Rebuild() error {
	if !m.building.CompareAndSwap(false, true) {
		return ErrBuildInProgress
	}
	defer m.building.Store(false)

	unlock, err := m.lockBuild()
	if err != nil {
		return err
	}
	defer unlock()

	pairs, err := m.findPairs()
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return fmt.Errorf("no dictionary files under %q; run import first", m.dataDir)
	}

	staging := filepath.Join(m.root, stagingDirName)
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("clearing staging directory: %w", err)
	}

	b, err := NewBuilder(staging, &m.opts)
	if err != nil {
		return err
	}

	for _, p := range pairs {
		if err := m.ingest(b, p); err != nil {
			b.Abort()
			os.RemoveAll(staging)
			return err
		}
	}

	if _, err := b.Commit(); err != nil {
		os.RemoveAll(staging)
		return err
	}
	return m.commitStaging(staging)
}

// Delete removes the committed index, leaving raw dictionaries in
// place.
func (m *Manager) Delete() error {
	if err := os.RemoveAll(m.indexDir); err != nil {
		return fmt.Errorf("deleting index: %w", err)
	}
	return nil
}

// Stats describes the committed index.
type Stats struct {
	TotalEntries   int
	EnDeEntries    int
	DeEnEntries    int
	IndexSizeBytes int64
}

// Stats reads entry counts from the index metadata and measures the
// on-disk index size.
func (m *Manager) Stats() (*Stats, error) {
	meta, err := ReadMeta(m.indexDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no index at %q", ErrCorrupt, m.indexDir)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	size, err := dirSize(m.indexDir)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalEntries:   meta.TotalEntries,
		EnDeEntries:    meta.Count(LangEnDe),
		DeEnEntries:    meta.Count(LangDeEn),
		IndexSizeBytes: size,
	}, nil
}

// pair is a dictionary file pair found under the data directory.
type pair struct {
	name      string
	dictPath  string
	indexPath string
	lang      Language
}

// findPairs locates .dict.dz files with a sibling .index and infers
// their language direction from the file name. Pairs whose direction
// cannot be inferred are skipped with a warning.
func (m *Manager) findPairs() ([]pair, error) {
	entries, err := os.ReadDir(m.dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var pairs []pair
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".dict.dz") {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".dict.dz")
		indexPath := filepath.Join(m.dataDir, base+".index")
		if _, err := os.Stat(indexPath); err != nil {
			log.Warn("dict file has no sibling index; skipping", "name", e.Name())
			continue
		}
		lang := inferLanguage(base)
		if lang == "" {
			log.Warn("cannot infer language direction from file name; skipping", "name", e.Name())
			continue
		}
		pairs = append(pairs, pair{
			name:      base,
			dictPath:  filepath.Join(m.dataDir, e.Name()),
			indexPath: indexPath,
			lang:      lang,
		})
	}
	return pairs, nil
}

// ingest streams one dictionary pair into the builder. Per-record parse
// problems are skipped and aggregated; structural problems abort the
// build.
func (m *Manager) ingest(b *Builder, p pair) error {
	log.Info("processing dictionary", "name", p.name, "language", p.lang)

	r, err := dictd.OpenReader(p.dictPath, p.indexPath)
	if err != nil {
		return err
	}
	defer r.Close()

	n := 0
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := b.Add(&Entry{
			Word:       e.Headword,
			Definition: e.Definition,
			Language:   p.lang,
		}); err != nil {
			return err
		}
		n++
	}

	b.AddSource(SourceMeta{
		Name:         p.name,
		Language:     string(p.lang),
		Entries:      n,
		Skipped:      r.Skipped(),
		RandomAccess: r.RandomAccess(),
	})
	if r.Skipped() > 0 {
		log.Warn("ingest finished with skipped records", "name", p.name, "entries", n, "skipped", r.Skipped())
	} else {
		log.Info("ingest finished", "name", p.name, "entries", n)
	}
	return nil
}

// lockBuild takes the cross-process build lock for the data root. The
// in-process flag does not cover a second dictv process pointed at the
// same root.
func (m *Manager) lockBuild() (func(), error) {
	lockPath := filepath.Join(m.root, buildLockName)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: lock file %q exists (remove it if no build is running)",
				ErrBuildInProgress, lockPath)
		}
		return nil, fmt.Errorf("taking build lock: %w", err)
	}
	f.Close()
	return func() { os.Remove(lockPath) }, nil
}

// commitStaging atomically swaps the staging directory into the final
// index path. The previous index's files are unlinked right after the
// swap; readers holding it keep their snapshot through their open file
// handles until they close.
func (m *Manager) commitStaging(staging string) error {
	old := filepath.Join(m.root, oldDirName)
	if err := os.RemoveAll(old); err != nil {
		return fmt.Errorf("clearing old index: %w", err)
	}
	if _, err := os.Stat(m.indexDir); err == nil {
		if err := os.Rename(m.indexDir, old); err != nil {
			return fmt.Errorf("retiring old index: %w", err)
		}
	}
	if err := os.Rename(staging, m.indexDir); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	if err := os.RemoveAll(old); err != nil {
		log.Warn("removing retired index", "err", err)
	}
	return nil
}

// inferLanguage determines the direction of a dictionary from its file
// name. An explicit direction prefix takes precedence over feed-name
// substrings so a re-tagged pair keeps its declared direction.
func inferLanguage(name string) Language {
	switch {
	case strings.HasPrefix(name, string(LangDeEn)+"."):
		return LangDeEn
	case strings.HasPrefix(name, string(LangEnDe)+"."):
		return LangEnDe
	case strings.Contains(name, "deu-eng"):
		return LangDeEn
	case strings.Contains(name, "eng-deu"):
		return LangEnDe
	case strings.Contains(name, string(LangDeEn)):
		return LangDeEn
	case strings.Contains(name, string(LangEnDe)):
		return LangEnDe
	}
	return ""
}

// dataFileName returns the name a dictionary pair is stored under. If
// the language direction is not inferable from the original name, the
// direction tag is prefixed so a later rebuild-by-scan still finds it.
func dataFileName(name string, lang Language) string {
	base := strings.TrimSuffix(name, ".dict.dz")
	if inferLanguage(base) != lang {
		base = string(lang) + "." + base
	}
	return base + ".dict.dz"
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %q: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %q: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing %q: %w", dst, err)
	}
	return nil
}

func dirSize(path string) (int64, error) {
	var total int64
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		total += fi.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measuring %q: %w", path, err)
	}
	return total, nil
}

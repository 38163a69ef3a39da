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

package dictd

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/ianlewis/go-dictzip"
	"golang.org/x/text/transform"

	"github.com/dictv/dictv/internal/folding"
)

var (
	// ErrMalformedUTF8 indicates a definition that is not valid UTF-8.
	ErrMalformedUTF8 = errors.New("malformed UTF-8 in definition")

	// ErrOutOfRange indicates an index record pointing outside the
	// uncompressed dict data.
	ErrOutOfRange = errors.New("definition range outside dict data")
)

// Dict provides random access to the uncompressed body of a .dict or
// .dict.dz file.
type Dict struct {
	r io.ReaderAt

	// size is the uncompressed body length, or -1 when unknown. The
	// dictzip chunk table does not record it; range errors surface from
	// the read itself instead.
	size int64

	// randomAccess is true when the dictzip RA chunk table is used for
	// range reads. When false the whole body was inflated into memory.
	randomAccess bool

	f *os.File
}

// OpenDict opens a dictionary body file. Files with a .dz extension are
// read through the dictzip chunk table when present. A .dz file without
// the RA extra field falls back to inflating the whole body into
// memory, which is acceptable for the file sizes DICTD dictionaries
// come in.
func OpenDict(path string) (*Dict, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}

	if strings.ToLower(filepath.Ext(path)) != ".dz" {
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("stat %q: %w", path, err)
		}
		return &Dict{r: f, size: fi.Size(), f: f}, nil
	}

	z, zErr := dictzip.NewReader(f)
	if zErr == nil {
		return &Dict{r: z, size: -1, randomAccess: true, f: f}, nil
	}

	// No RA subfield. Inflate the whole body once and slice.
	log.Warn("dict file lacks dictzip random access data; decompressing fully", "path", path, "err", zErr)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("seeking %q: %w", path, err)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading gzip data from %q: %w", path, err)
	}
	body, err := io.ReadAll(gz)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decompressing %q: %w", path, err)
	}
	f.Close()
	return &Dict{r: bytes.NewReader(body), size: int64(len(body))}, nil
}

// RandomAccess reports whether definitions are read through the dictzip
// chunk table rather than a fully inflated in-memory copy.
func (d *Dict) RandomAccess() bool {
	return d.randomAccess
}

// Definition reads the definition for the given index entry and decodes
// it as UTF-8.
func (d *Dict) Definition(e *IndexEntry) (string, error) {
	if d.size >= 0 && e.Offset+e.Size > uint64(d.size) {
		return "", fmt.Errorf("%w: %q at [%d, %d), data is %d bytes",
			ErrOutOfRange, e.Headword, e.Offset, e.Offset+e.Size, d.size)
	}
	b := make([]byte, e.Size)
	//nolint:gosec // offset is bounds checked above.
	if _, err := d.r.ReadAt(b, int64(e.Offset)); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return "", fmt.Errorf("%w: %q at [%d, %d)",
				ErrOutOfRange, e.Headword, e.Offset, e.Offset+e.Size)
		}
		return "", fmt.Errorf("reading definition for %q: %w", e.Headword, err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %q at offset %d", ErrMalformedUTF8, e.Headword, e.Offset)
	}
	return string(b), nil
}

// Close closes the underlying file.
func (d *Dict) Close() error {
	if d.f == nil {
		return nil
	}
	if err := d.f.Close(); err != nil {
		return fmt.Errorf("closing dict file: %w", err)
	}
	return nil
}

// Entry is a parsed dictionary entry.
type Entry struct {
	// Headword is the entry's headword as written.
	Headword string

	// Definition is the cleaned definition text.
	Definition string
}

// Reader iterates a DICTD dictionary pair, yielding entries in .index
// order.
type Reader struct {
	dict    *Dict
	idx     *os.File
	scanner *Scanner

	skipped int
}

// OpenReader opens the given .dict.dz and .index files for iteration.
func OpenReader(dictPath, indexPath string) (*Reader, error) {
	d, err := OpenDict(dictPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(indexPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("opening %q: %w", indexPath, err)
	}
	return &Reader{
		dict:    d,
		idx:     f,
		scanner: NewScanner(f),
	}, nil
}

// Next returns the next dictionary entry. Entries with an empty
// headword or a zero-length definition are skipped with a warning. Next
// returns io.EOF when the index is exhausted.
func (r *Reader) Next() (*Entry, error) {
	for r.scanner.Scan() {
		e := r.scanner.Entry()
		if e.Headword == "" || e.Size == 0 {
			r.skipped++
			log.Warn("skipping entry", "headword", e.Headword, "size", e.Size)
			continue
		}
		def, err := r.dict.Definition(e)
		if err != nil {
			return nil, err
		}
		return &Entry{
			Headword:   e.Headword,
			Definition: cleanDefinition(def),
		}, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	return nil, io.EOF
}

// Skipped returns the number of records skipped so far, counting both
// malformed index lines and empty entries.
func (r *Reader) Skipped() int {
	return r.skipped + r.scanner.Skipped()
}

// RandomAccess reports whether the dict body is read through the
// dictzip chunk table.
func (r *Reader) RandomAccess() bool {
	return r.dict.RandomAccess()
}

// Close closes the underlying files.
func (r *Reader) Close() error {
	return errors.Join(r.idx.Close(), r.dict.Close())
}

// cleanDefinition collapses whitespace runs and literal \n sequences so
// stored definitions are single-line.
func cleanDefinition(def string) string {
	folded, _, err := transform.String(&folding.WhitespaceFolder{}, def)
	if err != nil {
		return strings.Join(strings.Fields(def), " ")
	}
	return folded
}

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

// Package testutil creates DICTD dictionary fixtures for tests.
package testutil

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ianlewis/go-dictzip"
)

const b64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// EncodeNumber encodes n in the DICTD base-64 positional notation.
func EncodeNumber(n uint64) string {
	if n == 0 {
		return "A"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{b64Alphabet[n&63]}, digits...)
		n >>= 6
	}
	return string(digits)
}

// Entry is a headword/definition pair to place in a fixture.
type Entry struct {
	Headword   string
	Definition string
}

// IndexLine renders one .index record.
func IndexLine(headword string, offset, size uint64) string {
	return headword + "\t" + EncodeNumber(offset) + "\t" + EncodeNumber(size) + "\n"
}

// MakeDictd writes a .dict.dz/.index pair named name under dir and
// returns both paths. The dict body is dictzip-compressed so range
// reads go through the chunk table.
func MakeDictd(t *testing.T, dir, name string, entries []Entry) (dictPath, indexPath string) {
	t.Helper()

	body, index := renderPair(entries)

	dictPath = filepath.Join(dir, name+".dict.dz")
	f, err := os.Create(dictPath)
	if err != nil {
		t.Fatal(err)
	}
	z, err := dictzip.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := z.Write(body); err != nil {
		t.Fatal(err)
	}
	if err := z.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	indexPath = filepath.Join(dir, name+".index")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		t.Fatal(err)
	}
	return dictPath, indexPath
}

// MakeDictdPlainGzip writes a pair whose dict body is a plain gzip
// member without the dictzip RA subfield, to exercise the
// full-decompression fallback.
func MakeDictdPlainGzip(t *testing.T, dir, name string, entries []Entry) (dictPath, indexPath string) {
	t.Helper()

	body, index := renderPair(entries)

	dictPath = filepath.Join(dir, name+".dict.dz")
	f, err := os.Create(dictPath)
	if err != nil {
		t.Fatal(err)
	}
	z := gzip.NewWriter(f)
	if _, err := z.Write(body); err != nil {
		t.Fatal(err)
	}
	if err := z.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	indexPath = filepath.Join(dir, name+".index")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		t.Fatal(err)
	}
	return dictPath, indexPath
}

// renderPair lays out the uncompressed dict body and its index text.
func renderPair(entries []Entry) (body []byte, index string) {
	var b strings.Builder
	var idx strings.Builder
	for _, e := range entries {
		offset := uint64(b.Len())
		b.WriteString(e.Definition)
		idx.WriteString(IndexLine(e.Headword, offset, uint64(len(e.Definition))))
	}
	return []byte(b.String()), idx.String()
}

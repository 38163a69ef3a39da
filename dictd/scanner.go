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
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrBadNumber indicates an invalid base-64 positional integer.
var ErrBadNumber = errors.New("invalid base-64 number")

// b64Alphabet is the positional base-64 alphabet used by DICTD index
// files. It is not the RFC 4648 encoding: digits are positional with the
// most significant digit first and no padding.
const b64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// DecodeNumber decodes a DICTD base-64 positional integer.
func DecodeNumber(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrBadNumber)
	}
	var n uint64
	for _, c := range s {
		i := strings.IndexRune(b64Alphabet, c)
		if i < 0 {
			return 0, fmt.Errorf("%w: %q", ErrBadNumber, s)
		}
		n = n<<6 | uint64(i)
	}
	return n, nil
}

// IndexEntry is a single .index file record.
type IndexEntry struct {
	// Headword is the entry's headword as written, case and diacritics
	// preserved.
	Headword string

	// Offset is the definition's byte offset in the uncompressed dict
	// data.
	Offset uint64

	// Size is the definition's length in bytes.
	Size uint64
}

// Scanner scans a .index file from start to end. Records that do not
// parse are skipped and counted rather than aborting the scan.
type Scanner struct {
	s       *bufio.Scanner
	line    int
	skipped int
	entry   *IndexEntry
}

// NewScanner returns a new index scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		s: bufio.NewScanner(bufio.NewReader(r)),
	}
}

// Scan advances to the next well-formed index entry. It returns false
// when the scan stops, either by reaching the end of the index or by an
// I/O error.
func (s *Scanner) Scan() bool {
	for s.s.Scan() {
		s.line++
		e, err := parseIndexLine(s.s.Text())
		if err != nil {
			s.skipped++
			log.Warn("skipping malformed index line", "line", s.line, "err", err)
			continue
		}
		s.entry = e
		return true
	}
	return false
}

// Entry returns the most recently scanned index entry.
func (s *Scanner) Entry() *IndexEntry {
	return s.entry
}

// Skipped returns the number of malformed lines skipped so far.
func (s *Scanner) Skipped() int {
	return s.skipped
}

// Err returns the first I/O error encountered.
func (s *Scanner) Err() error {
	//nolint:wrapcheck // error should not be wrapped
	return s.s.Err()
}

func parseIndexLine(line string) (*IndexEntry, error) {
	parts := strings.Split(line, "\t")
	if len(parts) < 3 {
		return nil, fmt.Errorf("expected 3 tab-separated fields, got %d", len(parts))
	}
	offset, err := DecodeNumber(parts[1])
	if err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}
	size, err := DecodeNumber(parts[2])
	if err != nil {
		return nil, fmt.Errorf("length: %w", err)
	}
	return &IndexEntry{
		Headword: parts[0],
		Offset:   offset,
		Size:     size,
	}, nil
}

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

// Package fetch downloads and unpacks FreeDict dictionary archives.
package fetch

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/ulikunitz/xz"
)

// downloadRetries bounds the retry budget for transient download
// failures.
const downloadRetries = 4

// Download fetches url into dest, retrying transient failures with
// exponential backoff. The file is written to a temporary name and
// renamed into place so a failed download leaves no partial file.
func Download(ctx context.Context, url, dest string) error {
	op := func() error {
		return downloadOnce(ctx, url, dest)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("download failed; retrying", "url", url, "wait", wait.Round(time.Second), "err", err)
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), downloadRetries), ctx)
	if err := backoff.RetryNotify(op, bo, notify); err != nil {
		return fmt.Errorf("downloading %q: %w", url, err)
	}
	return nil
}

func downloadOnce(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*")
	if err != nil {
		return backoff.Permanent(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return backoff.Permanent(err)
	}
	return nil
}

// ExtractTarXz unpacks a .tar.xz archive below destDir. Entry paths are
// confined to destDir. Only directories and regular files are
// extracted; other entry types are skipped with a warning.
func ExtractTarXz(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening %q: %w", archivePath, err)
	}
	defer f.Close()

	xzr, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading xz data from %q: %w", archivePath, err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating %q: %w", destDir, err)
	}

	tr := tar.NewReader(xzr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive %q: %w", archivePath, err)
		}

		path, err := securePath(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0o755); err != nil {
				return fmt.Errorf("creating %q: %w", path, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating %q: %w", filepath.Dir(path), err)
			}
			out, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %q: %w", path, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("extracting %q: %w", hdr.Name, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("writing %q: %w", path, err)
			}
		default:
			// Symlinks and special files are not expected in FreeDict
			// archives.
			log.Warn("skipping archive entry", "name", hdr.Name, "type", hdr.Typeflag)
		}
	}
}

// securePath joins an archive entry name under destDir. The name is
// cleaned as a rooted path first, so ".." components cannot climb above
// destDir; they are dropped rather than rejected. A joined path that
// still falls outside destDir is an error.
func securePath(destDir, name string) (string, error) {
	path := filepath.Join(destDir, filepath.Clean("/"+name))
	if path != destDir && !strings.HasPrefix(path, destDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return path, nil
}

// FindDictPair searches dir recursively for a .dict.dz and .index pair
// whose names contain base.
func FindDictPair(dir, base string) (dictPath, indexPath string, err error) {
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		switch {
		case strings.HasSuffix(name, ".dict.dz") && strings.Contains(name, base):
			dictPath = path
		case strings.HasSuffix(name, ".index") && strings.Contains(name, base):
			indexPath = path
		}
		return nil
	})
	if err != nil {
		return "", "", fmt.Errorf("searching %q: %w", dir, err)
	}
	switch {
	case dictPath == "" && indexPath == "":
		return "", "", fmt.Errorf("no dictionary files for %q under %q", base, dir)
	case dictPath == "":
		return "", "", fmt.Errorf("found .index but no .dict.dz for %q under %q", base, dir)
	case indexPath == "":
		return "", "", fmt.Errorf("found .dict.dz but no .index for %q under %q", base, dir)
	}
	return dictPath, indexPath, nil
}

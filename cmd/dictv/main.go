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

// Command dictv imports DICTD dictionaries and serves headword lookups
// over HTTP or the command line.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dictv/dictv/index"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// Exit codes.
const (
	// ExitCodeSuccess is the successful exit code.
	ExitCodeSuccess = 0

	// ExitCodeUsageError is the exit code for usage and validation
	// errors.
	ExitCodeUsageError = 1

	// ExitCodeIOError is the exit code for I/O errors.
	ExitCodeIOError = 2

	// ExitCodeIndexError is the exit code for index errors.
	ExitCodeIndexError = 3
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case errors.Is(err, index.ErrValidation):
		return ExitCodeUsageError
	case errors.Is(err, index.ErrCorrupt), errors.Is(err, index.ErrBuildInProgress):
		return ExitCodeIndexError
	}
	return ExitCodeIOError
}

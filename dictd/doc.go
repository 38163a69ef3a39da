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

// Package dictd implements reading the DICTD dictionary format as
// published by FreeDict.
//
// A DICTD dictionary is a pair of files. The .index file is UTF-8 text
// with one record per line holding three tab-separated fields: the
// headword, and the offset and length of the definition encoded as
// base-64 positional integers (alphabet A-Z a-z 0-9 + /, most
// significant digit first, no padding). The .dict.dz file is a gzip
// member whose FEXTRA field carries the dictzip "RA" subfield, allowing
// byte ranges of the uncompressed stream to be read without inflating
// the whole file.
package dictd

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

package main

import (
	"fmt"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var statsCommand = &cli.Command{
	Name:  "stats",
	Usage: "Show index statistics",
	Action: func(c *cli.Context) error {
		m, _, err := openManager(c)
		if err != nil {
			return err
		}

		stats, err := m.Stats()
		if err != nil {
			return err
		}

		printDataRoot(m)

		tbl := table.New("", "")
		tbl.AddRow("Total entries", fmt.Sprintf("%d", stats.TotalEntries))
		tbl.AddRow("English → German", fmt.Sprintf("%d", stats.EnDeEntries))
		tbl.AddRow("German → English", fmt.Sprintf("%d", stats.DeEnEntries))
		tbl.AddRow("Index size", fmt.Sprintf("%.1f MB", float64(stats.IndexSizeBytes)/1e6))
		tbl.Print()
		return nil
	},
}

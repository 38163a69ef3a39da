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
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dictv/dictv/index"
	"github.com/dictv/dictv/search"
)

var queryCommand = &cli.Command{
	Name:      "query",
	Usage:     "Query the dictionary directly",
	ArgsUsage: "WORD",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "mode",
			Usage: "search `MODE` (exact, fuzzy or prefix)",
			Value: string(search.ModeFuzzy),
		},
		&cli.StringFlag{
			Name:  "lang",
			Usage: "language direction `TAG` (de-en or en-de)",
			Value: string(index.LangDeEn),
		},
		&cli.IntFlag{
			Name:  "max-distance",
			Usage: "maximum edit distance for fuzzy search (1 or 2)",
			Value: 2,
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "maximum number of results",
			Value: 10,
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return fmt.Errorf("%w: expected exactly one query argument", index.ErrValidation)
		}
		word := c.Args().First()

		mode, err := search.ParseMode(c.String("mode"))
		if err != nil {
			return err
		}
		lang, err := index.ParseLanguage(c.String("lang"))
		if err != nil {
			return err
		}

		m, _, err := openManager(c)
		if err != nil {
			return err
		}
		engine, err := search.Open(m)
		if err != nil {
			return err
		}
		defer engine.Close()

		results, elapsed, err := engine.Search(c.Context, word, mode, lang, c.Int("max-distance"), c.Int("limit"))
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Printf("No results for %q\n", word)
			return nil
		}

		fmt.Printf("Results for %q (%s):\n\n", word, elapsed.Round(time.Microsecond))
		for _, r := range results {
			if mode == search.ModeFuzzy {
				fmt.Printf("  %s [distance %d]: %s\n", r.Word, r.EditDistance, r.Definition)
			} else {
				fmt.Printf("  %s: %s\n", r.Word, r.Definition)
			}
		}
		return nil
	},
}

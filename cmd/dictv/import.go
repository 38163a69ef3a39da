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
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dictv/dictv/index"
)

var importCommand = &cli.Command{
	Name:  "import",
	Usage: "Import a dictionary from FreeDict or local files",
	Description: strings.Join([]string{
		"Import a dictionary and rebuild the search index.",
		"",
		"Either --download with a known feed name, or --local and --index",
		"with a DICTD file pair, must be given. Known feeds:",
		"  " + strings.Join(index.Feeds(), ", "),
	}, "\n"),
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "download",
			Usage: "download `FEED` from FreeDict",
		},
		&cli.StringFlag{
			Name:  "local",
			Usage: "local dictionary `FILE` (.dict.dz)",
		},
		&cli.StringFlag{
			Name:  "index",
			Usage: "local index `FILE` (.index)",
		},
		&cli.StringFlag{
			Name:  "lang",
			Usage: "language direction `TAG` (de-en or en-de)",
			Value: string(index.LangDeEn),
		},
	},
	Action: func(c *cli.Context) error {
		m, _, err := openManager(c)
		if err != nil {
			return err
		}
		printDataRoot(m)

		switch {
		case c.String("download") != "":
			feed := c.String("download")
			if err := m.ImportDownload(c.Context, feed); err != nil {
				return err
			}
			fmt.Printf("Imported %s\n", feed)
		case c.String("local") != "" && c.String("index") != "":
			lang, err := index.ParseLanguage(c.String("lang"))
			if err != nil {
				return err
			}
			if err := m.ImportLocal(c.String("local"), c.String("index"), lang); err != nil {
				return err
			}
			fmt.Println("Imported dictionary")
		default:
			return fmt.Errorf("%w: either --download or both --local and --index must be given",
				index.ErrValidation)
		}
		return nil
	},
}

var rebuildCommand = &cli.Command{
	Name:  "rebuild",
	Usage: "Rebuild the search index from all dictionary files",
	Action: func(c *cli.Context) error {
		m, _, err := openManager(c)
		if err != nil {
			return err
		}
		printDataRoot(m)

		if err := m.Rebuild(); err != nil {
			return err
		}
		fmt.Println("Index rebuilt")
		return nil
	},
}

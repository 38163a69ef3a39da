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
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dictv/dictv/search"
	"github.com/dictv/dictv/server"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the HTTP server",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "port",
			Usage: "listen on `PORT`",
		},
	},
	Action: func(c *cli.Context) error {
		m, cfg, err := openManager(c)
		if err != nil {
			return err
		}

		engine, err := search.Open(m)
		if err != nil {
			return err
		}
		defer engine.Close()

		port := cfg.Server.Port
		if c.Int("port") != 0 {
			port = c.Int("port")
		}

		printDataRoot(m)
		fmt.Printf("Serving on http://localhost:%d\n", port)

		ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(engine, m, &server.Options{
			DefaultLimit: cfg.Search.DefaultLimit,
		})
		return srv.ListenAndServe(ctx, port)
	},
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/backend"
	applog "github.com/mstengel88/edit-my-ticket-sub000/internal/log"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/version"
)

// ticketd is the headless office server binary: template sync, the ticket
// feed, and print/email compilation behind one HTTP API.
func main() {
	args := os.Args
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println(version.String())
			return
		}
	}

	_ = godotenv.Load()
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ticketd")
	l.Info("starting", slog.String("version", version.Version))

	if err := backend.Start(); err != nil {
		l.Error("server stopped", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

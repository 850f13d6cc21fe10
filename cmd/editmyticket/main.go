/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/backend"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/config"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/crash"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/export"
	applog "github.com/mstengel88/edit-my-ticket-sub000/internal/log"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/storage"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/ui"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/version"
)

func usage() {
	fmt.Println("Edit My Ticket — delivery ticket designer")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  editmyticket version|-v|--version               Show version")
	fmt.Println("  editmyticket init <dir>                          Create a new template workspace at <dir>")
	fmt.Println("  editmyticket open <dir>                          Open workspace at <dir> and print summary")
	fmt.Println("  editmyticket save <dir>                          Re-save workspace at <dir> (creates backup)")
	fmt.Println("  editmyticket render <dir> print <ticket.json> [out.html]   Compile print HTML for a ticket")
	fmt.Println("  editmyticket render <dir> email <ticket.json> [out.html]   Compile email HTML for a ticket")
	fmt.Println("  editmyticket render <dir> svg <ticket.json> [out.svg]      Render a single-ticket SVG preview")
	fmt.Println("  editmyticket render <dir> pdf <ticket.json> [out.pdf]      Export a Letter PDF")
	fmt.Println("  editmyticket versions <dir> list                 List saved template versions")
	fmt.Println("  editmyticket versions <dir> save <name>          Archive the current template as <name>")
	fmt.Println("  editmyticket versions <dir> restore <id>         Restore version <id> and save")
	fmt.Println("  editmyticket versions <dir> delete <id>          Delete version <id>")
	fmt.Println("  editmyticket remote login [subject]              Fetch a server token and store it in the keyring")
	fmt.Println("  editmyticket remote pull <dir>                   Replace the workspace template with the server's")
	fmt.Println("  editmyticket remote push <dir> [name]            Upload the workspace template, archived as [name]")
	fmt.Println("  editmyticket remote tickets                      List recent tickets from the server feed")
	fmt.Println("  editmyticket remote email <ticketID>             Ask the server to send the ticket email")
	fmt.Println("  editmyticket serve                               Run the office HTTP server")
	fmt.Println("  editmyticket ui [<dir>]                          Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var wh *storage.WorkspaceHandle
	defer func() { crash.Recover(wh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 3 {
				fmt.Println("init requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("init workspace", slog.String("root", abs))
			h, err := storage.InitWorkspace(abs, *domain.DefaultDocument())
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			wh = h
			fmt.Println("Created workspace at", abs)
			return
		case "open":
			wh = mustOpen(l, args, 3)
			fmt.Printf("Opened template: schema v%d\n", wh.Document.SchemaVersion)
			fmt.Printf("Elements: %d (email: %d)\n", len(wh.Document.Elements), len(wh.Document.EmailElements))
			fmt.Printf("Canvas: %.0fx%.0f, copies per page: %d\n",
				wh.Document.CanvasWidth, wh.Document.CanvasHeight, wh.Document.CopiesPerPage)
			fmt.Println("Root:", wh.Root)
			return
		case "save":
			wh = mustOpen(l, args, 3)
			if err := storage.Save(wh); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved template and created a backup of the previous file (if any).")
			return
		case "render":
			if len(args) < 5 {
				fmt.Println("render requires <dir>, a format, and <ticket.json>")
				usage()
				os.Exit(2)
			}
			wh = mustOpen(l, args, 3)
			runRender(l, wh, args[3], args[4], optArg(args, 5))
			return
		case "versions":
			if len(args) < 4 {
				fmt.Println("versions requires <dir> and a subcommand")
				usage()
				os.Exit(2)
			}
			wh = mustOpen(l, args, 3)
			runVersions(wh, args[3], optArg(args, 4))
			return
		case "remote":
			if len(args) < 3 {
				fmt.Println("remote requires a subcommand")
				usage()
				os.Exit(2)
			}
			runRemote(l, args[2], args[3:])
			return
		case "serve":
			// Local .env is a convenience for development deployments.
			_ = godotenv.Load()
			if err := backend.Start(); err != nil {
				l.Error("server stopped", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func mustOpen(l *slog.Logger, args []string, need int) *storage.WorkspaceHandle {
	if len(args) < need {
		fmt.Println("command requires <dir>")
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[2])
	l.Info("open workspace", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}

func loadTicket(path string) (domain.Ticket, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t domain.Ticket
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse ticket %s: %w", path, err)
	}
	return t, nil
}

func runRender(l *slog.Logger, wh *storage.WorkspaceHandle, format, ticketPath, outPath string) {
	t, err := loadTicket(ticketPath)
	if err != nil {
		l.Error("load ticket failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	doc := &wh.Document

	logoPNG, err := storage.LoadLogo(wh)
	if err != nil {
		l.Warn("logo unreadable, rendering placeholder", slog.Any("err", err))
		logoPNG = nil
	}
	logoURI := ""
	if logoPNG != nil {
		logoURI = export.LogoDataURI(logoPNG)
	}

	var out string
	switch format {
	case "print":
		out, err = export.PrintHTML(doc, t, export.PrintOptions{LogoDataURI: logoURI})
		if outPath == "" {
			outPath = export.TicketFilename(t, "html")
		}
	case "email":
		out, err = export.EmailHTML(doc, t, export.EmailOptions{
			LogoDataURI: logoURI,
			Heading:     "Ticket " + t.Resolve("jobNumber"),
		})
		if outPath == "" {
			outPath = export.TicketFilename(t, "html")
		}
	case "svg":
		out, err = export.TicketSVG(doc, t)
		if outPath == "" {
			outPath = export.TicketFilename(t, "svg")
		}
	case "pdf":
		if outPath == "" {
			outPath = export.TicketFilename(t, "pdf")
		}
		if logoPNG != nil {
			err = export.ExportTicketPDFWithLogo(doc, t, logoPNG, outPath, export.PDFOptions{})
		} else {
			err = export.ExportTicketPDF(doc, t, outPath, export.PDFOptions{})
		}
		if err == nil {
			fmt.Println("Wrote", outPath)
		}
	default:
		fmt.Println("unknown render format:", format)
		usage()
		os.Exit(2)
	}
	if err != nil {
		l.Error("render failed", slog.String("format", format), slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if format != "pdf" {
		if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Wrote", outPath)
	}
}

func runVersions(wh *storage.WorkspaceHandle, sub, arg string) {
	ctx := context.Background()
	switch sub {
	case "list":
		entries, err := storage.ListVersions(ctx, wh, 0)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		if len(entries) == 0 {
			fmt.Println("No saved versions.")
			return
		}
		for _, e := range entries {
			fmt.Printf("%6d  %s  %s\n", e.ID, e.TS.Format("2006-01-02 15:04:05"), e.Name)
		}
	case "save":
		id, err := storage.SaveVersion(ctx, wh, arg)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Printf("Saved version %d\n", id)
	case "restore":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Println("restore requires a numeric version id")
			os.Exit(2)
		}
		if err := storage.RestoreVersion(ctx, wh, id); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		if err := storage.Save(wh); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Printf("Restored version %d and saved.\n", id)
	case "delete":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Println("delete requires a numeric version id")
			os.Exit(2)
		}
		if err := storage.DeleteVersion(ctx, wh, id); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted version %d\n", id)
	default:
		fmt.Println("unknown versions subcommand:", sub)
		usage()
		os.Exit(2)
	}
}

// runRemote drives the office server with the client from the user config.
// The bearer token lives in the OS keyring; "remote login" refreshes it.
func runRemote(l *slog.Logger, sub string, rest []string) {
	cfg, sec, err := config.Load()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Backend.TimeoutMs)*time.Millisecond)
	defer cancel()
	c := backend.NewClient(cfg.Backend.BaseURL, sec.BackendToken)

	switch sub {
	case "login":
		subject := cfg.Backend.UserKey
		if len(rest) > 0 {
			subject = rest[0]
		}
		if err := c.FetchToken(ctx, subject, 24*time.Hour); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		sec.BackendToken = c.Token
		if err := config.Save(cfg, sec); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		l.Info("token stored", slog.String("subject", subject))
		fmt.Println("Logged in to", cfg.Backend.BaseURL)
	case "pull":
		if len(rest) < 1 {
			fmt.Println("remote pull requires <dir>")
			os.Exit(2)
		}
		abs, _ := filepath.Abs(rest[0])
		wh, err := storage.Open(abs)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		raw, err := c.GetTemplate(ctx)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		doc, err := storage.LoadDocument(raw)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		wh.Document = *doc
		if err := storage.Save(wh); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Pulled server template into", abs)
	case "push":
		if len(rest) < 1 {
			fmt.Println("remote push requires <dir>")
			os.Exit(2)
		}
		abs, _ := filepath.Abs(rest[0])
		wh, err := storage.Open(abs)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		b, err := json.Marshal(wh.Document)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		name := ""
		if len(rest) > 1 {
			name = rest[1]
		}
		id, err := c.PutTemplate(ctx, b, name)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Printf("Pushed template; archived as version %d\n", id)
	case "tickets":
		list, err := c.ListTickets(ctx, 50)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		if len(list) == 0 {
			fmt.Println("No tickets.")
			return
		}
		for _, t := range list {
			fmt.Printf("%-12s %-24s %s\n", t.ID, t.Attributes["customer"], t.Email)
		}
	case "email":
		if len(rest) < 1 {
			fmt.Println("remote email requires <ticketID>")
			os.Exit(2)
		}
		if err := c.EmailTicket(ctx, rest[0]); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Email sent for ticket", rest[0])
	default:
		fmt.Println("unknown remote subcommand:", sub)
		usage()
		os.Exit(2)
	}
}

func optArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

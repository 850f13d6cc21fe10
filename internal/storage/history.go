/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "github.com/mstengel88/edit-my-ticket-sub000/internal/log"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// HistoryDirName stores per-workspace ephemeral data under the root.
	HistoryDirName = ".emt"
	historyDBName  = "history.sqlite"
)

// HistoryPath returns the full path to the workspace's version database.
func HistoryPath(root string) string {
	return filepath.Join(root, HistoryDirName, historyDBName)
}

// VersionEntry is one saved template version.
type VersionEntry struct {
	ID   int64
	Name string
	TS   time.Time
	Blob []byte
}

// language=SQL
// dialect=SQLite
const createVersionsSQL = `CREATE TABLE IF NOT EXISTS versions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	ts TEXT NOT NULL,
	doc_blob BLOB NOT NULL
)`

const insertVersionSQL = `INSERT INTO versions(name, ts, doc_blob) VALUES (?, ?, ?)`
const listVersionsSQL = `SELECT id, name, ts FROM versions ORDER BY ts DESC, id DESC LIMIT ?`
const getVersionSQL = `SELECT id, name, ts, doc_blob FROM versions WHERE id = ?`
const deleteVersionSQL = `DELETE FROM versions WHERE id = ?`
const pruneVersionsSQL = `DELETE FROM versions WHERE id NOT IN (
	SELECT id FROM versions ORDER BY ts DESC, id DESC LIMIT ?
)`

// InitOrOpenHistory ensures the per-workspace SQLite database exists, opens
// it, enables WAL mode, and ensures the versions table exists.
func InitOrOpenHistory(root string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "history_init").With(
		slog.String("root", root),
	)
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("workspace root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, HistoryDirName), 0o755); err != nil {
		l.Error("create .emt dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .emt dir: %w", err)
	}

	uriPath := filepath.ToSlash(HistoryPath(root))
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, createVersionsSQL); err != nil {
		_ = db.Close()
		l.Error("create versions table failed", slog.Any("err", err))
		return nil, fmt.Errorf("create versions table: %w", err)
	}
	return db, nil
}

// SaveVersion snapshots the handle's current document under a name.
func SaveVersion(ctx context.Context, wh *WorkspaceHandle, name string) (int64, error) {
	if wh == nil {
		return 0, errors.New("nil WorkspaceHandle")
	}
	if strings.TrimSpace(name) == "" {
		name = "unnamed"
	}
	blob, err := json.Marshal(wh.Document)
	if err != nil {
		return 0, fmt.Errorf("marshal document: %w", err)
	}
	db, err := InitOrOpenHistory(wh.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, insertVersionSQL, name, time.Now().UTC().Format(time.RFC3339Nano), blob)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListVersions returns up to limit versions, newest first, without blobs.
func ListVersions(ctx context.Context, wh *WorkspaceHandle, limit int) ([]VersionEntry, error) {
	if wh == nil {
		return nil, errors.New("nil WorkspaceHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenHistory(wh.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listVersionsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []VersionEntry
	for rows.Next() {
		var v VersionEntry
		var tsStr string
		if err := rows.Scan(&v.ID, &v.Name, &tsStr); err != nil {
			return nil, err
		}
		v.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetVersion loads one version including its document blob.
func GetVersion(ctx context.Context, wh *WorkspaceHandle, id int64) (*VersionEntry, error) {
	if wh == nil {
		return nil, errors.New("nil WorkspaceHandle")
	}
	db, err := InitOrOpenHistory(wh.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	var v VersionEntry
	var tsStr string
	err = db.QueryRowContext(ctx, getVersionSQL, id).Scan(&v.ID, &v.Name, &tsStr, &v.Blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("version %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	v.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
	return &v, nil
}

// RestoreVersion replaces the handle's in-memory document with a saved
// version after running it through validation and migration. The caller
// decides when to Save.
func RestoreVersion(ctx context.Context, wh *WorkspaceHandle, id int64) error {
	v, err := GetVersion(ctx, wh, id)
	if err != nil {
		return err
	}
	doc, err := LoadDocument(v.Blob)
	if err != nil {
		return fmt.Errorf("restore version %d: %w", id, err)
	}
	wh.Document = *doc
	return nil
}

// DeleteVersion removes one saved version.
func DeleteVersion(ctx context.Context, wh *WorkspaceHandle, id int64) error {
	if wh == nil {
		return errors.New("nil WorkspaceHandle")
	}
	db, err := InitOrOpenHistory(wh.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, deleteVersionSQL, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("version %d not found", id)
	}
	return err
}

// PruneVersions keeps at most keepLast versions and deletes older ones.
func PruneVersions(ctx context.Context, wh *WorkspaceHandle, keepLast int) (int64, error) {
	if wh == nil {
		return 0, errors.New("nil WorkspaceHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenHistory(wh.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneVersionsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

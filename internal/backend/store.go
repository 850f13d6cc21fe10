/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound marks lookups for absent tickets, templates or versions.
var ErrNotFound = errors.New("not found")

// TicketRecord is a ticket row as the scale house wrote it: a flat attribute
// bag plus the recipient address used for emailing.
type TicketRecord struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes"`
	Email      string            `json:"email"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// TemplateVersion is one archived revision of the shared template.
type TemplateVersion struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Document  []byte    `json:"document,omitempty"`
}

// Store abstracts persistence so handlers test against memory and run
// against Postgres.
type Store interface {
	GetTemplate(ctx context.Context) ([]byte, error)
	PutTemplate(ctx context.Context, doc []byte, versionName string) (int64, error)
	ListTemplateVersions(ctx context.Context, limit int) ([]TemplateVersion, error)
	GetTemplateVersion(ctx context.Context, id int64) (*TemplateVersion, error)
	DeleteTemplateVersion(ctx context.Context, id int64) error

	ListTickets(ctx context.Context, limit int) ([]TicketRecord, error)
	GetTicket(ctx context.Context, id string) (*TicketRecord, error)

	Ping(ctx context.Context) error
}

// --- Postgres ---

type pgStore struct {
	db *sql.DB
}

// OpenPG connects to Postgres via the pgx stdlib driver and applies embedded
// migrations.
func OpenPG(ctx context.Context, dbURL string) (Store, *sql.DB, error) {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping db: %w", err)
	}
	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return &pgStore{db: db}, db, nil
}

func (s *pgStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *pgStore) GetTemplate(ctx context.Context) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM template_versions ORDER BY id DESC LIMIT 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return doc, err
}

func (s *pgStore) PutTemplate(ctx context.Context, doc []byte, versionName string) (int64, error) {
	if strings.TrimSpace(versionName) == "" {
		versionName = "unnamed"
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO template_versions(name, document) VALUES ($1, $2) RETURNING id`,
		versionName, doc).Scan(&id)
	return id, err
}

func (s *pgStore) ListTemplateVersions(ctx context.Context, limit int) ([]TemplateVersion, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM template_versions ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []TemplateVersion
	for rows.Next() {
		var v TemplateVersion
		if err := rows.Scan(&v.ID, &v.Name, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *pgStore) GetTemplateVersion(ctx context.Context, id int64) (*TemplateVersion, error) {
	var v TemplateVersion
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, document FROM template_versions WHERE id = $1`, id).
		Scan(&v.ID, &v.Name, &v.CreatedAt, &v.Document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *pgStore) DeleteTemplateVersion(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM template_versions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) ListTickets(ctx context.Context, limit int) ([]TicketRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, attributes, email, updated_at FROM tickets ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []TicketRecord
	for rows.Next() {
		var t TicketRecord
		var attrs []byte
		if err := rows.Scan(&t.ID, &attrs, &t.Email, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(attrs, &t.Attributes); err != nil {
			return nil, fmt.Errorf("ticket %s attributes: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *pgStore) GetTicket(ctx context.Context, id string) (*TicketRecord, error) {
	var t TicketRecord
	var attrs []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, attributes, email, updated_at FROM tickets WHERE id = $1`, id).
		Scan(&t.ID, &attrs, &t.Email, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attrs, &t.Attributes); err != nil {
		return nil, fmt.Errorf("ticket %s attributes: %w", t.ID, err)
	}
	return &t, nil
}

// applyMigrations applies embedded SQL migrations in filename order.
func applyMigrations(ctx context.Context, db *sql.DB) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	// dialect=PostgreSQL
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	applied := map[int64]bool{}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("select schema_migrations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("rows close: %v", err)
		}
	}()
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return err
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, fname := range files {
		version, err := parseMigrationVersion(fname)
		if err != nil {
			return err
		}
		if applied[version] {
			continue
		}
		b, err := migrationsFS.ReadFile(path.Join("migrations", fname))
		if err != nil {
			return err
		}
		sqlText := string(b)
		if strings.TrimSpace(sqlText) == "" {
			continue
		}
		log.Printf("applying migration %s", fname)
		if _, err := db.ExecContext(ctx, sqlText); err != nil {
			return fmt.Errorf("apply %s: %w", fname, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO schema_migrations(version, name) VALUES ($1, $2)`, version, fname); err != nil {
			return fmt.Errorf("record %s: %w", fname, err)
		}
	}
	return nil
}

func parseMigrationVersion(name string) (int64, error) {
	base := path.Base(name)
	parts := strings.SplitN(base, "_", 2)
	if len(parts) == 0 {
		return 0, errors.New("invalid migration filename: " + name)
	}
	v, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse version from %s: %w", name, err)
	}
	return v, nil
}

// --- In-memory store for tests and offline development ---

type memStore struct {
	mu       sync.Mutex
	versions []TemplateVersion
	nextID   int64
	tickets  map[string]TicketRecord
}

// NewMemStore returns an empty in-memory Store.
func NewMemStore() Store {
	return &memStore{nextID: 1, tickets: make(map[string]TicketRecord)}
}

func (s *memStore) Ping(context.Context) error { return nil }

func (s *memStore) GetTemplate(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.versions) == 0 {
		return nil, ErrNotFound
	}
	return s.versions[len(s.versions)-1].Document, nil
}

func (s *memStore) PutTemplate(_ context.Context, doc []byte, versionName string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(versionName) == "" {
		versionName = "unnamed"
	}
	v := TemplateVersion{
		ID:        s.nextID,
		Name:      versionName,
		CreatedAt: time.Now().UTC(),
		Document:  append([]byte(nil), doc...),
	}
	s.nextID++
	s.versions = append(s.versions, v)
	return v.ID, nil
}

func (s *memStore) ListTemplateVersions(_ context.Context, limit int) ([]TemplateVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}
	out := make([]TemplateVersion, 0, limit)
	for i := len(s.versions) - 1; i >= 0 && len(out) < limit; i-- {
		v := s.versions[i]
		v.Document = nil
		out = append(out, v)
	}
	return out, nil
}

func (s *memStore) GetTemplateVersion(_ context.Context, id int64) (*TemplateVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.versions {
		if v.ID == id {
			out := v
			out.Document = append([]byte(nil), v.Document...)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) DeleteTemplateVersion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.versions {
		if v.ID == id {
			s.versions = append(s.versions[:i], s.versions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *memStore) ListTickets(_ context.Context, limit int) ([]TicketRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	out := make([]TicketRecord, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) GetTicket(_ context.Context, id string) (*TicketRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

// SeedTicket inserts a ticket into a memory store; panics on other stores.
func SeedTicket(s Store, t TicketRecord) {
	m := s.(*memStore)
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now().UTC()
	}
	m.tickets[t.ID] = t
}

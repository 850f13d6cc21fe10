/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists template documents: a human-readable JSON file
// written transactionally with timestamped backups, schema validation and
// migrations on load, and a sqlite side-table of named versions.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
)

const (
	DocumentFileName = "template.json"
	BackupsDirName   = "backups"
	AssetsDirName    = "assets"
	LogoFileName     = "logo.png"
)

var standardSubDirs = []string{
	AssetsDirName,
	"exports",
	BackupsDirName,
}

// WorkspaceHandle tracks the template workspace loaded/saved from disk.
// Root is the directory containing template.json and subfolders.
type WorkspaceHandle struct {
	Root         string
	DocumentPath string
	Document     domain.TemplateDocument
}

// InitWorkspace creates a workspace at root (creating it if absent),
// scaffolds the standard subfolders, and writes the document transactionally.
func InitWorkspace(root string, doc domain.TemplateDocument) (*WorkspaceHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	wh := &WorkspaceHandle{
		Root:         root,
		DocumentPath: filepath.Join(root, DocumentFileName),
		Document:     doc,
	}
	if err := Save(wh); err != nil {
		return nil, err
	}
	return wh, nil
}

// Open loads a workspace from root. The raw bytes are schema-validated and
// migrated to the current document version. If the current file cannot be
// read or parsed, the latest timestamped backup is tried.
func Open(root string) (*WorkspaceHandle, error) {
	dpath := filepath.Join(root, DocumentFileName)
	b, err := os.ReadFile(dpath)
	if err != nil {
		doc, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open document: %w; backup attempt: %v", err, berr)
		}
		return &WorkspaceHandle{Root: root, DocumentPath: dpath, Document: *doc}, nil
	}
	doc, merr := LoadDocument(b)
	if merr != nil {
		bdoc, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse document: %w; backup attempt: %v", merr, berr)
		}
		return &WorkspaceHandle{Root: root, DocumentPath: dpath, Document: *bdoc}, nil
	}
	return &WorkspaceHandle{Root: root, DocumentPath: dpath, Document: *doc}, nil
}

// LoadDocument validates, parses and migrates raw document bytes.
func LoadDocument(b []byte) (*domain.TemplateDocument, error) {
	if err := ValidateDocumentJSON(b); err != nil {
		return nil, err
	}
	var doc domain.TemplateDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if err := Migrate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save writes the document to disk with transactional semantics and a
// timestamped backup of the previous file (if present).
func Save(wh *WorkspaceHandle) error {
	if wh == nil {
		return errors.New("nil WorkspaceHandle")
	}
	if wh.Root == "" || wh.DocumentPath == "" {
		return errors.New("invalid WorkspaceHandle: missing paths")
	}
	data, err := json.MarshalIndent(wh.Document, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(wh.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	if _, statErr := os.Stat(wh.DocumentPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", DocumentFileName, stamp)
		if cerr := copyFile(wh.DocumentPath, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current document: %w", cerr)
		}
	}

	// Transactional write: temp file in same directory, then rename over target
	dir := filepath.Dir(wh.DocumentPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", DocumentFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp document: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(wh.DocumentPath); err == nil {
		_ = os.Remove(wh.DocumentPath)
	}
	if rerr := os.Rename(temp, wh.DocumentPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace document: %w", rerr)
	}
	return nil
}

// SaveLogo stores prepared logo PNG bytes under assets/.
func SaveLogo(wh *WorkspaceHandle, pngBytes []byte) error {
	if wh == nil {
		return errors.New("nil WorkspaceHandle")
	}
	dir := filepath.Join(wh.Root, AssetsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure assets dir: %w", err)
	}
	if err := writeFileSync(filepath.Join(dir, LogoFileName), pngBytes); err != nil {
		return fmt.Errorf("write logo: %w", err)
	}
	return nil
}

// LoadLogo reads the stored logo, returning nil without error when none
// exists yet.
func LoadLogo(wh *WorkspaceHandle) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(wh.Root, AssetsDirName, LogoFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	return b, nil
}

// EmergencySnapshot writes the in-memory document to a crash-stamped file in
// the backups dir, bypassing the usual backup rotation. Used by the panic
// handler, where the regular Save path may be the thing that is broken.
func EmergencySnapshot(wh *WorkspaceHandle) (string, error) {
	if wh == nil {
		return "", errors.New("nil WorkspaceHandle")
	}
	data, err := json.MarshalIndent(wh.Document, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	bdir := filepath.Join(wh.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("%s.crash-%s", DocumentFileName, stamp))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write emergency snapshot: %w", err)
	}
	return path, nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to open the latest timestamped backup.
func openFromLatestBackup(root string) (*domain.TemplateDocument, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, DocumentFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	return LoadDocument(b)
}

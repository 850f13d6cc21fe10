/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
)

func TestInitOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	doc := domain.DefaultDocument()
	doc.Elements[0].X = 123
	doc.Elements[0].FontSize = 17
	doc.EmailElements = []domain.CanvasElement{
		{ID: "e1", Type: domain.ElementLabel, Content: "Thanks for your business", X: 10, Y: 10, Width: 300, Height: 22},
	}

	wh, err := InitWorkspace(root, *doc)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	got, err := Open(wh.Root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !reflect.DeepEqual(got.Document.Elements, doc.Elements) {
		t.Fatalf("elements changed across save/load")
	}
	if !reflect.DeepEqual(got.Document.EmailElements, doc.EmailElements) {
		t.Fatalf("email elements changed across save/load")
	}
	if !reflect.DeepEqual(got.Document.PrintLayouts, doc.PrintLayouts) {
		t.Fatalf("print layouts changed across save/load")
	}
}

func TestOpenMergesMissingDefaults(t *testing.T) {
	root := t.TempDir()
	doc := domain.DefaultDocument()
	// Drop the customer field, keep everything else.
	kept := doc.Elements[:0:0]
	for _, el := range doc.Elements {
		if el.Key == "customer" {
			continue
		}
		kept = append(kept, el)
	}
	doc.Elements = kept

	wh, err := InitWorkspace(root, *doc)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	got, err := Open(wh.Root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	found := false
	for _, el := range got.Document.Elements {
		if el.Key == "customer" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing default should be appended on load")
	}
	// User elements stay untouched and ahead of the merged default.
	if got.Document.Elements[0].ID != kept[0].ID {
		t.Fatalf("merge must not reorder user elements")
	}
}

func TestMergeDoesNotDuplicateRestyledDefault(t *testing.T) {
	doc := domain.DefaultDocument()
	doc.Elements[0].ID = "user-moved-this"
	if err := Migrate(doc); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	seen := map[string]int{}
	for _, el := range doc.Elements {
		if el.Type == domain.ElementField {
			seen[el.Key]++
		}
	}
	for k, n := range seen {
		if n > 1 {
			t.Fatalf("field %q duplicated by merge", k)
		}
	}
}

func TestOpenFallsBackToBackupOnCorruption(t *testing.T) {
	root := t.TempDir()
	wh, err := InitWorkspace(root, *domain.DefaultDocument())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	// Second save creates a backup of the first file.
	wh.Document.CanvasWidth = 700
	if err := Save(wh); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Corrupt the live document.
	if err := os.WriteFile(wh.DocumentPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	got, err := Open(root)
	if err != nil {
		t.Fatalf("open should recover from backup: %v", err)
	}
	if got.Document.CanvasWidth != domain.DefaultCanvasWidth {
		t.Fatalf("recovered width = %v", got.Document.CanvasWidth)
	}
}

func TestMigrateVersionZeroBackfills(t *testing.T) {
	doc := &domain.TemplateDocument{
		Elements: []domain.CanvasElement{{ID: "x", Type: domain.ElementLabel, Content: "hi"}},
	}
	if err := Migrate(doc); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if doc.SchemaVersion != domain.DocSchemaVersion {
		t.Fatalf("version = %d", doc.SchemaVersion)
	}
	if doc.CanvasWidth != domain.DefaultCanvasWidth || doc.CopiesPerPage != 3 {
		t.Fatalf("structural defaults missing: %+v", doc)
	}
	for _, v := range domain.CopyVariants {
		if _, ok := doc.PrintLayouts[v]; !ok {
			t.Fatalf("layout variant %q missing", v)
		}
	}
}

func TestMigrateRejectsNewerDocument(t *testing.T) {
	doc := &domain.TemplateDocument{SchemaVersion: domain.DocSchemaVersion + 1}
	if err := Migrate(doc); err == nil {
		t.Fatalf("newer schema version should be rejected")
	}
}

func TestValidateRejectsWrongShape(t *testing.T) {
	bad := []byte(`{"elements": [{"type": "field"}]}`) // missing id
	if err := ValidateDocumentJSON(bad); err == nil {
		t.Fatalf("schema should require element ids")
	}
	bad = []byte(`{"elements": [{"id": "a", "type": "sticker"}]}`)
	if err := ValidateDocumentJSON(bad); err == nil {
		t.Fatalf("schema should reject unknown element types")
	}
}

func TestLoadDocumentPreservesReportConfig(t *testing.T) {
	doc := domain.DefaultDocument()
	doc.ReportFields = json.RawMessage(`{"columns":["jobNumber","totalAmount"]}`)
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := LoadDocument(b)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got.ReportFields) != string(doc.ReportFields) {
		t.Fatalf("opaque report config mangled: %s", got.ReportFields)
	}
}

func TestSaveLoadLogo(t *testing.T) {
	root := t.TempDir()
	wh, err := InitWorkspace(root, *domain.DefaultDocument())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if b, err := LoadLogo(wh); err != nil || b != nil {
		t.Fatalf("absent logo should be (nil, nil), got %v %v", b, err)
	}
	want := []byte{0x89, 'P', 'N', 'G'}
	if err := SaveLogo(wh, want); err != nil {
		t.Fatalf("save logo: %v", err)
	}
	got, err := LoadLogo(wh)
	if err != nil || string(got) != string(want) {
		t.Fatalf("load logo: %v %v", got, err)
	}
	if _, err := os.Stat(filepath.Join(root, AssetsDirName, LogoFileName)); err != nil {
		t.Fatalf("logo file missing: %v", err)
	}
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"fmt"
	"strconv"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
)

// Migrations run on load, never on save: each step lifts a document one
// schema version. The default-element merge is the final, always-on step so
// templates saved before a built-in field existed pick it up without losing
// user edits. The merge is strictly additive; it never moves, restyles or
// removes user elements.

type migrationStep struct {
	from int
	fn   func(*domain.TemplateDocument)
}

var migrations = []migrationStep{
	{from: 0, fn: fillStructuralDefaults},
	{from: 1, fn: fillEmailCanvas},
}

// Migrate lifts doc to the current schema version and applies the additive
// default-element merge. Documents from a newer application version are
// rejected rather than mangled.
func Migrate(doc *domain.TemplateDocument) error {
	if doc.SchemaVersion > domain.DocSchemaVersion {
		return fmt.Errorf("document schema version %d is newer than supported %d",
			doc.SchemaVersion, domain.DocSchemaVersion)
	}
	for _, step := range migrations {
		if doc.SchemaVersion != step.from {
			continue
		}
		step.fn(doc)
		doc.SchemaVersion = step.from + 1
	}
	if doc.SchemaVersion != domain.DocSchemaVersion {
		return fmt.Errorf("migration chain ended at version %d, want %d",
			doc.SchemaVersion, domain.DocSchemaVersion)
	}
	mergeDefaultElements(doc)
	return nil
}

// fillStructuralDefaults backfills fields that pre-versioned documents never
// stored: canvas dimensions, copies-per-page and print layouts.
func fillStructuralDefaults(doc *domain.TemplateDocument) {
	if doc.CanvasWidth <= 0 {
		doc.CanvasWidth = domain.DefaultCanvasWidth
	}
	if doc.CanvasHeight <= 0 {
		doc.CanvasHeight = domain.DefaultCanvasHeight
	}
	if doc.CopiesPerPage < 1 || doc.CopiesPerPage > 3 {
		doc.CopiesPerPage = 3
	}
	if doc.PrintLayouts == nil {
		doc.PrintLayouts = domain.DefaultPrintLayouts()
	}
	for _, v := range domain.CopyVariants {
		if _, ok := doc.PrintLayouts[v]; !ok {
			copies, _ := strconv.Atoi(v)
			doc.PrintLayouts[v] = domain.DefaultPrintLayout(copies)
		}
	}
}

// fillEmailCanvas leaves the email element list alone; version 2 introduced
// it as an optional, independently edited collection. Nil stays nil so the
// email compiler falls back to the print elements.
func fillEmailCanvas(doc *domain.TemplateDocument) {}

// mergeDefaultElements appends built-in default elements missing from the
// saved collection. Identity is by element id first, then by bound field key,
// so a renamed or restyled default is never duplicated.
func mergeDefaultElements(doc *domain.TemplateDocument) {
	byID := make(map[string]bool, len(doc.Elements))
	byKey := make(map[string]bool, len(doc.Elements))
	for _, el := range doc.Elements {
		byID[el.ID] = true
		if el.Type == domain.ElementField && el.Key != "" {
			byKey[el.Key] = true
		}
	}
	for _, def := range domain.DefaultElements() {
		if byID[def.ID] {
			continue
		}
		if def.Type == domain.ElementField && byKey[def.Key] {
			continue
		}
		doc.Elements = append(doc.Elements, def)
	}
}

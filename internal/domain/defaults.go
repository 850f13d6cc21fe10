/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "strconv"

// FieldDef describes one ticket attribute a field element can bind to.
type FieldDef struct {
	Key   string
	Label string
}

// FieldCatalog lists the ticket attributes offered by the element picker.
// Order matters: it is the stagger order of the default template.
var FieldCatalog = []FieldDef{
	{Key: "jobNumber", Label: "Job #"},
	{Key: "ticketDate", Label: "Date"},
	{Key: "customer", Label: "Customer"},
	{Key: "product", Label: "Product"},
	{Key: "truck", Label: "Truck"},
	{Key: "haulerName", Label: "Hauler"},
	{Key: "totalAmount", Label: "Total"},
	{Key: "totalUnit", Label: "Unit"},
}

// DefaultElements builds the built-in starter layout: one field per catalog
// entry, staggered down the page. IDs are deterministic ("default-<key>") so
// the load-time additive merge can recognize them across saves.
func DefaultElements() []CanvasElement {
	out := make([]CanvasElement, 0, len(FieldCatalog))
	for i, f := range FieldCatalog {
		y := 20.0 + 30.0*float64(i)
		if y > 300 {
			y = 300
		}
		out = append(out, CanvasElement{
			ID:         "default-" + f.Key,
			Type:       ElementField,
			Key:        f.Key,
			Label:      f.Label,
			X:          20,
			Y:          y,
			Width:      250,
			Height:     22,
			FontSize:   13,
			FontWeight: "bold",
			TextAlign:  "left",
			ShowLabel:  true,
		})
	}
	return out
}

// DefaultPrintLayout returns the starting geometry for one variant: half-inch
// margins all around and zero offsets, one per copy.
func DefaultPrintLayout(copies int) PrintLayoutConfig {
	offs := make(map[string]TicketOffset, copies)
	for i := 0; i < copies; i++ {
		offs[strconv.Itoa(i)] = TicketOffset{}
	}
	return PrintLayoutConfig{
		PageMarginTop:    0.5,
		PageMarginRight:  0.5,
		PageMarginBottom: 0.5,
		PageMarginLeft:   0.5,
		TicketOffsets:    offs,
	}
}

// DefaultPrintLayouts returns all three independent variants.
func DefaultPrintLayouts() map[string]PrintLayoutConfig {
	return map[string]PrintLayoutConfig{
		"1": DefaultPrintLayout(1),
		"2": DefaultPrintLayout(2),
		"3": DefaultPrintLayout(3),
	}
}

// DefaultDocument returns a complete fresh template document.
func DefaultDocument() *TemplateDocument {
	return &TemplateDocument{
		SchemaVersion: DocSchemaVersion,
		Elements:      DefaultElements(),
		CanvasWidth:   DefaultCanvasWidth,
		CanvasHeight:  DefaultCanvasHeight,
		CopiesPerPage: 3,
		PrintLayouts:  DefaultPrintLayouts(),
	}
}

// DocSchemaVersion is the current template document schema. Load-time
// migrations bring older documents up to this version.
const DocSchemaVersion = 2

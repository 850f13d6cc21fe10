/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for delivery-ticket templates:
// placeable canvas elements, per-variant print layout geometry, and the
// template document that aggregates both. All coordinates are canvas pixels
// with origin top-left unless a field says inches.

import "encoding/json"

// ElementType is the closed variant set of placeable units.
type ElementType string

const (
	ElementField   ElementType = "field"
	ElementLabel   ElementType = "label"
	ElementDivider ElementType = "divider"
	ElementLogo    ElementType = "logo"
)

// CanvasElement is one placeable unit on the virtual ticket page.
// Key is only meaningful for field elements; Content only for label elements.
type CanvasElement struct {
	ID         string      `json:"id"`
	Type       ElementType `json:"type"`
	Key        string      `json:"key,omitempty"`
	Label      string      `json:"label,omitempty"`
	Content    string      `json:"content,omitempty"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	FontSize   float64     `json:"fontSize,omitempty"`
	FontWeight string      `json:"fontWeight,omitempty"` // "normal" | "bold"
	TextAlign  string      `json:"textAlign,omitempty"`  // "left" | "center" | "right"
	ShowLabel  bool        `json:"showLabel,omitempty"`
}

// TicketOffset is a per-copy fine-position adjustment in inches.
type TicketOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PrintLayoutConfig holds the print-specific page geometry for one
// copies-per-page variant. Margins are inches applied as @page margins;
// TicketOffsets is keyed by copy index ("0", "1", ...) so sparse documents
// stay sparse.
type PrintLayoutConfig struct {
	PageMarginTop    float64                 `json:"pageMarginTop"`
	PageMarginRight  float64                 `json:"pageMarginRight"`
	PageMarginBottom float64                 `json:"pageMarginBottom"`
	PageMarginLeft   float64                 `json:"pageMarginLeft"`
	TicketOffsets    map[string]TicketOffset `json:"ticketOffsets"`
}

// TemplateDocument is the unit of persistence: the print element collection,
// an optional separate email collection, canvas geometry, and the three
// independent print layout variants. Report configuration is carried through
// round-trips untouched by this subsystem.
type TemplateDocument struct {
	SchemaVersion int                          `json:"schemaVersion"`
	Elements      []CanvasElement              `json:"elements"`
	EmailElements []CanvasElement              `json:"emailElements,omitempty"`
	CanvasWidth   float64                      `json:"canvasWidth"`
	CanvasHeight  float64                      `json:"canvasHeight"`
	CopiesPerPage int                          `json:"copiesPerPage"`
	PrintLayouts  map[string]PrintLayoutConfig `json:"printLayouts"`
	ReportFields  json.RawMessage              `json:"reportFields,omitempty"`
	ReportEmail   json.RawMessage              `json:"reportEmailSections,omitempty"`
}

// Geometry and interaction constants. Property edits and drag-resize have
// different floors; both clamp silently rather than reject.
const (
	MinElementWidth  = 20.0
	MinElementHeight = 10.0
	MinFontSize      = 8.0

	ResizeMinWidth  = 30.0
	ResizeMinHeight = 14.0

	CanvasMinWidth  = 300.0
	CanvasMaxWidth  = 1000.0
	CanvasMinHeight = 200.0
	CanvasMaxHeight = 1400.0

	DefaultCanvasWidth  = 600.0
	DefaultCanvasHeight = 800.0

	DefaultGridSize = 20.0

	// EmailRowTolerance is the vertical band (canvas px) within which elements
	// collapse into one email table row.
	EmailRowTolerance = 15.0
)

// Print geometry constants. The paper model is fixed US Letter portrait.
const (
	PageWidthInches  = 8.5
	PageHeightInches = 11.0
	PrintDPI         = 96.0
	// PreviewPixelsPerInch is the constant scale of the layout designer preview.
	PreviewPixelsPerInch = 60.0
	// OffsetSnapInches is the drag resolution of per-copy offsets (1/20 in).
	OffsetSnapInches = 0.05
	// OffsetMaxInches bounds offsets entered through numeric inputs.
	OffsetMaxInches = 3.0
)

// CopyVariants are the copies-per-page configurations a document carries.
var CopyVariants = []string{"1", "2", "3"}

// HasLogo reports whether the collection already contains a logo element.
func HasLogo(elements []CanvasElement) bool {
	for _, e := range elements {
		if e.Type == ElementLogo {
			return true
		}
	}
	return false
}

// FindElement returns the index of the element with the given id, or -1.
func FindElement(elements []CanvasElement, id string) int {
	for i := range elements {
		if elements[i].ID == id {
			return i
		}
	}
	return -1
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package layout compiles a template document into renderer-neutral layout
// trees. The print compiler slices a US Letter page into equal-height ticket
// slots and scales the canvas to fit each slot; the email compiler groups
// elements into reading-order rows. Both are pure functions of their inputs so
// every renderer (HTML, PDF, SVG preview) draws from the same resolved tree.
package layout

import (
	"sort"
	"strconv"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/geometry"
)

// TicketSlot is one rendered copy on the page, in print pixels (96/in).
type TicketSlot struct {
	Copy    int
	X, Y    float64 // top-left of the scaled canvas within the page
	Width   float64 // scaled canvas size
	Height  float64
	OffsetX float64 // applied nudge, print pixels
	OffsetY float64
}

// PrintPage is the resolved print layout for one ticket.
type PrintPage struct {
	Copies      int
	Scale       float64 // uniform canvas scale, may exceed 1
	PageWidth   float64 // full physical page, print pixels
	PageHeight  float64
	MarginTop   float64 // print pixels
	MarginLeft  float64
	UsableWidth float64 // page width minus horizontal margins
	SlotHeight  float64 // usable height divided by copies
	Slots       []TicketSlot
	CanvasW     float64 // unscaled canvas, for renderers that transform
	CanvasH     float64
}

// ResolvePrint compiles the print geometry for a copies-per-page choice.
// An unknown variant falls back to the three-per-page layout. Copies outside
// 1..3 clamp into range.
func ResolvePrint(doc *domain.TemplateDocument, copies int) PrintPage {
	if copies < 1 {
		copies = 1
	}
	if copies > 3 {
		copies = 3
	}
	variant := strconv.Itoa(copies)
	cfg, ok := doc.PrintLayouts[variant]
	if !ok {
		cfg, ok = doc.PrintLayouts["3"]
		if !ok {
			cfg = domain.DefaultPrintLayout(copies)
		}
	}

	canvasW := doc.CanvasWidth
	canvasH := doc.CanvasHeight
	if canvasW <= 0 {
		canvasW = domain.DefaultCanvasWidth
	}
	if canvasH <= 0 {
		canvasH = domain.DefaultCanvasHeight
	}

	pageW := geometry.InchesToPixels(domain.PageWidthInches, domain.PrintDPI)
	pageH := geometry.InchesToPixels(domain.PageHeightInches, domain.PrintDPI)
	marginL := geometry.InchesToPixels(cfg.PageMarginLeft, domain.PrintDPI)
	marginR := geometry.InchesToPixels(cfg.PageMarginRight, domain.PrintDPI)
	marginT := geometry.InchesToPixels(cfg.PageMarginTop, domain.PrintDPI)
	marginB := geometry.InchesToPixels(cfg.PageMarginBottom, domain.PrintDPI)

	// Usable area excludes all four margins; tickets split the usable
	// height into equal slots with no inter-ticket gap.
	usableW := pageW - marginL - marginR
	usableH := pageH - marginT - marginB
	slotH := usableH / float64(copies)
	scale := geometry.FitScale(usableW, slotH, canvasW, canvasH)

	scaledW := canvasW * scale
	scaledH := canvasH * scale

	slots := make([]TicketSlot, 0, copies)
	for i := 0; i < copies; i++ {
		off := cfg.TicketOffsets[strconv.Itoa(i)]
		offX := geometry.InchesToPixels(off.X, domain.PrintDPI)
		offY := geometry.InchesToPixels(off.Y, domain.PrintDPI)
		// Each canvas is centered horizontally in the usable width and
		// top-aligned in its slot (top-center transform origin).
		x := marginL + (usableW-scaledW)/2 + offX
		y := marginT + float64(i)*slotH + offY
		slots = append(slots, TicketSlot{
			Copy:    i,
			X:       x,
			Y:       y,
			Width:   scaledW,
			Height:  scaledH,
			OffsetX: offX,
			OffsetY: offY,
		})
	}

	return PrintPage{
		Copies:      copies,
		Scale:       scale,
		PageWidth:   pageW,
		PageHeight:  pageH,
		MarginTop:   marginT,
		MarginLeft:  marginL,
		UsableWidth: usableW,
		SlotHeight:  slotH,
		Slots:       slots,
		CanvasW:     canvasW,
		CanvasH:     canvasH,
	}
}

// Row is one reading-order line of elements for the email body.
type Row struct {
	Y        float64 // anchor y of the first element in the row
	Elements []domain.CanvasElement
}

// GroupRows converts free-form canvas positions into rows for linear output.
// Elements sort by (y, x); a new row starts when an element's y exceeds the
// row anchor by more than the tolerance. Ordering within a row is by x.
func GroupRows(elements []domain.CanvasElement) []Row {
	if len(elements) == 0 {
		return nil
	}
	sorted := append([]domain.CanvasElement(nil), elements...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	rows := []Row{{Y: sorted[0].Y, Elements: []domain.CanvasElement{sorted[0]}}}
	for _, el := range sorted[1:] {
		cur := &rows[len(rows)-1]
		if el.Y-cur.Y > domain.EmailRowTolerance {
			rows = append(rows, Row{Y: el.Y, Elements: []domain.CanvasElement{el}})
			continue
		}
		cur.Elements = append(cur.Elements, el)
	}
	return rows
}

// EmailElements picks the collection that feeds the email compiler: the
// dedicated email canvas when present, otherwise the print elements.
func EmailElements(doc *domain.TemplateDocument) []domain.CanvasElement {
	if len(doc.EmailElements) > 0 {
		return doc.EmailElements
	}
	return doc.Elements
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package layout

import (
	"testing"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
)

func TestResolvePrintScaleScenario(t *testing.T) {
	doc := domain.DefaultDocument()
	doc.CanvasWidth = 600
	doc.CanvasHeight = 800
	p := ResolvePrint(doc, 2)
	// 0.5in margins: usable 720x960, slot height 480, scale min(1.2, 0.6).
	if p.UsableWidth != 720 {
		t.Fatalf("usable width = %v", p.UsableWidth)
	}
	if p.SlotHeight != 480 {
		t.Fatalf("slot height = %v", p.SlotHeight)
	}
	if p.Scale != 0.6 {
		t.Fatalf("scale = %v, want 0.6", p.Scale)
	}
}

func TestResolvePrintScaleNeverExceedsFitBound(t *testing.T) {
	doc := domain.DefaultDocument()
	for copies := 1; copies <= 3; copies++ {
		p := ResolvePrint(doc, copies)
		if p.Scale > p.UsableWidth/p.CanvasW+1e-9 || p.Scale > p.SlotHeight/p.CanvasH+1e-9 {
			t.Fatalf("copies=%d scale %v exceeds fit bound", copies, p.Scale)
		}
		if len(p.Slots) != copies {
			t.Fatalf("copies=%d slot count %d", copies, len(p.Slots))
		}
	}
}

func TestResolvePrintUnknownVariantFallsBackToThree(t *testing.T) {
	doc := domain.DefaultDocument()
	doc.PrintLayouts = map[string]domain.PrintLayoutConfig{
		"3": {
			PageMarginTop: 1, PageMarginRight: 1, PageMarginBottom: 1, PageMarginLeft: 1,
			TicketOffsets: map[string]domain.TicketOffset{},
		},
	}
	p := ResolvePrint(doc, 2)
	// The 3-copy config's one-inch margins should apply.
	if p.MarginLeft != 96 || p.MarginTop != 96 {
		t.Fatalf("fallback config not applied: ml=%v mt=%v", p.MarginLeft, p.MarginTop)
	}
	if p.Copies != 2 {
		t.Fatalf("copies should stay 2, got %d", p.Copies)
	}
}

func TestResolvePrintAppliesOffsets(t *testing.T) {
	doc := domain.DefaultDocument()
	cfg := doc.PrintLayouts["2"]
	cfg.TicketOffsets["1"] = domain.TicketOffset{X: 0.25, Y: -0.5}
	doc.PrintLayouts["2"] = cfg
	p := ResolvePrint(doc, 2)
	s0, s1 := p.Slots[0], p.Slots[1]
	if s0.OffsetX != 0 || s0.OffsetY != 0 {
		t.Fatalf("first copy should be unshifted: %+v", s0)
	}
	if s1.OffsetX != 24 || s1.OffsetY != -48 {
		t.Fatalf("second copy offsets: (%v,%v)", s1.OffsetX, s1.OffsetY)
	}
	if s1.Y != p.MarginTop+p.SlotHeight-48 {
		t.Fatalf("second slot y = %v", s1.Y)
	}
}

func TestResolvePrintClampsCopies(t *testing.T) {
	doc := domain.DefaultDocument()
	if p := ResolvePrint(doc, 0); p.Copies != 1 {
		t.Fatalf("copies=0 should clamp to 1, got %d", p.Copies)
	}
	if p := ResolvePrint(doc, 9); p.Copies != 3 {
		t.Fatalf("copies=9 should clamp to 3, got %d", p.Copies)
	}
}

func TestGroupRowsTolerance(t *testing.T) {
	rows := GroupRows([]domain.CanvasElement{
		{ID: "a", Y: 10, X: 100},
		{ID: "b", Y: 23, X: 10},
		{ID: "c", Y: 50, X: 0},
	})
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	if len(rows[0].Elements) != 2 || rows[0].Elements[0].ID != "b" || rows[0].Elements[1].ID != "a" {
		t.Fatalf("first row should hold b,a by x order: %+v", rows[0].Elements)
	}
	if rows[1].Elements[0].ID != "c" {
		t.Fatalf("second row should hold c")
	}
}

func TestGroupRowsAnchorNotChained(t *testing.T) {
	// 0 and 15 share a row; 31 exceeds the anchor by more than 15 even
	// though it is within 15 of the previous element's neighborhood edge.
	rows := GroupRows([]domain.CanvasElement{
		{ID: "a", Y: 0},
		{ID: "b", Y: 15},
		{ID: "c", Y: 31},
	})
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
}

func TestGroupRowsEmpty(t *testing.T) {
	if rows := GroupRows(nil); rows != nil {
		t.Fatalf("nil input should yield nil")
	}
}

func TestEmailElementsFallback(t *testing.T) {
	doc := domain.DefaultDocument()
	if els := EmailElements(doc); len(els) != len(doc.Elements) {
		t.Fatalf("empty email canvas should fall back to print elements")
	}
	doc.EmailElements = []domain.CanvasElement{{ID: "e1", Type: domain.ElementLabel}}
	if els := EmailElements(doc); len(els) != 1 || els[0].ID != "e1" {
		t.Fatalf("dedicated email canvas should win")
	}
}

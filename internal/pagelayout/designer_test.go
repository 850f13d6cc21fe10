/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pagelayout

import (
	"testing"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/geometry"
)

func TestNewDesignerFillsMissingVariants(t *testing.T) {
	d := NewDesigner(nil)
	for _, v := range domain.CopyVariants {
		cfg, ok := d.Layout(v)
		if !ok {
			t.Fatalf("variant %q missing", v)
		}
		if cfg.PageMarginTop != 0.5 {
			t.Fatalf("default margin wrong: %v", cfg.PageMarginTop)
		}
	}
}

func TestDragSnapsToTwentiethInch(t *testing.T) {
	d := NewDesigner(nil)
	if !d.BeginDrag("3", "1", geometry.Pt{X: 100, Y: 100}) {
		t.Fatalf("drag refused")
	}
	// 20 px at 60 px/in is 0.333... in; snaps to 0.35.
	d.DragTo(geometry.Pt{X: 120, Y: 100})
	d.EndDrag()
	off := d.Offset("3", "1")
	if geometry.FloatRound(off.X, 3) != 0.35 || off.Y != 0 {
		t.Fatalf("offset = %+v", off)
	}
}

func TestDragUnclampedBeyondNumericBound(t *testing.T) {
	d := NewDesigner(nil)
	d.BeginDrag("1", "0", geometry.Pt{})
	d.DragTo(geometry.Pt{X: 300, Y: 0}) // 5 inches
	d.EndDrag()
	if off := d.Offset("1", "0"); off.X != 5 {
		t.Fatalf("drag should not clamp, got %v", off.X)
	}
}

func TestNumericEntryClampsToThreeInches(t *testing.T) {
	d := NewDesigner(nil)
	d.SetOffset("2", "1", 9, -9)
	off := d.Offset("2", "1")
	if off.X != domain.OffsetMaxInches || off.Y != -domain.OffsetMaxInches {
		t.Fatalf("offset = %+v", off)
	}
}

func TestVariantIndependence(t *testing.T) {
	d := NewDesigner(nil)
	d.SetOffset("2", "0", 0.5, 0.5)
	for _, v := range []string{"1", "3"} {
		if off := d.Offset(v, "0"); off.X != 0 || off.Y != 0 {
			t.Fatalf("variant %q contaminated: %+v", v, off)
		}
	}
}

func TestPreviewBoxGeometry(t *testing.T) {
	d := NewDesigner(nil)
	d.SetOffset("3", "2", 0.1, -0.2)
	boxes := d.PreviewBoxes("3")
	if len(boxes) != 3 {
		t.Fatalf("box count = %d", len(boxes))
	}
	// Page is 8.5x11 in at 60 px/in, 0.5 in margins: content height 600,
	// slot height 200, x = 30 + 6, third slot y = 30 + 400 - 12.
	b := boxes[2]
	if b.X != 36 || b.Y != 418 {
		t.Fatalf("third box at (%v,%v)", b.X, b.Y)
	}
	if b.W != (8.5-1)*60 || b.H != (11-1)*60/3 {
		t.Fatalf("third box %vx%v", b.W, b.H)
	}
}

func TestPreviewBoxesRespectBottomMargin(t *testing.T) {
	d := NewDesigner(nil)
	for _, v := range domain.CopyVariants {
		boxes := d.PreviewBoxes(v)
		last := boxes[len(boxes)-1]
		// Unshifted slots must end exactly at the bottom margin line.
		if got, want := last.Y+last.H, (domain.PageHeightInches-0.5)*domain.PreviewPixelsPerInch; got != want {
			t.Fatalf("variant %s: last slot bottom = %v, want %v", v, got, want)
		}
	}
}

func TestResetOffsets(t *testing.T) {
	d := NewDesigner(nil)
	d.SetOffset("3", "0", 1, 1)
	d.ResetOffsets("3")
	if off := d.Offset("3", "0"); off.X != 0 || off.Y != 0 {
		t.Fatalf("offsets survived reset: %+v", off)
	}
}

func TestUndoRedoPerVariant(t *testing.T) {
	d := NewDesigner(nil)
	d.SetOffset("2", "0", 1, 0)
	if !d.Undo("2") {
		t.Fatalf("undo refused")
	}
	if off := d.Offset("2", "0"); off.X != 0 {
		t.Fatalf("undo should zero the offset, got %v", off.X)
	}
	if !d.Redo("2") {
		t.Fatalf("redo refused")
	}
	if off := d.Offset("2", "0"); off.X != 1 {
		t.Fatalf("redo should restore, got %v", off.X)
	}
	if d.Undo("1") {
		t.Fatalf("untouched variant should have no history")
	}
}

func TestLayoutsDeepCopy(t *testing.T) {
	d := NewDesigner(nil)
	out := d.Layouts()
	out["3"].TicketOffsets["0"] = domain.TicketOffset{X: 2}
	if off := d.Offset("3", "0"); off.X != 0 {
		t.Fatalf("Layouts must return a copy")
	}
}

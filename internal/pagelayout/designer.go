/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pagelayout implements the print layout designer: page margins and
// per-copy nudge offsets for each copies-per-page variant, edited either by
// dragging ticket boxes on a miniature page preview or by numeric entry.
// Offsets are stored in inches; the preview renders at 60 px/in.
package pagelayout

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/geometry"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/undo"
)

// Box is one ticket slot on the preview page, in preview pixels.
type Box struct {
	Copy string // copy index within the variant ("0", "1", ...)
	geometry.Rect
}

type dragState struct {
	variant string
	copy    string
	startX  float64 // offset inches at pointer-down
	startY  float64
	origin  geometry.Pt // pointer at pointer-down, preview pixels
}

// Designer edits the per-variant print layouts of one template document.
// Variants are fully independent: editing "2" never touches "1" or "3".
type Designer struct {
	layouts map[string]domain.PrintLayoutConfig

	drag    *dragState
	history *undo.Manager
}

// NewDesigner copies the given layouts; missing variants are filled with
// defaults so every copies-per-page choice is editable.
func NewDesigner(layouts map[string]domain.PrintLayoutConfig) *Designer {
	d := &Designer{
		layouts: make(map[string]domain.PrintLayoutConfig, len(domain.CopyVariants)),
		history: undo.NewManager(undo.Config{MaxPerKey: 100}),
	}
	for _, v := range domain.CopyVariants {
		if cfg, ok := layouts[v]; ok {
			d.layouts[v] = cloneLayout(cfg)
		} else {
			d.layouts[v] = domain.DefaultPrintLayout(variantCopies(v))
		}
	}
	return d
}

func variantCopies(v string) int {
	switch v {
	case "1":
		return 1
	case "2":
		return 2
	default:
		return 3
	}
}

func cloneLayout(cfg domain.PrintLayoutConfig) domain.PrintLayoutConfig {
	out := cfg
	out.TicketOffsets = make(map[string]domain.TicketOffset, len(cfg.TicketOffsets))
	for k, v := range cfg.TicketOffsets {
		out.TicketOffsets[k] = v
	}
	return out
}

// Layouts returns a deep copy of all variants, suitable for storing back into
// the document.
func (d *Designer) Layouts() map[string]domain.PrintLayoutConfig {
	out := make(map[string]domain.PrintLayoutConfig, len(d.layouts))
	for k, v := range d.layouts {
		out[k] = cloneLayout(v)
	}
	return out
}

// Layout returns the config for one variant.
func (d *Designer) Layout(variant string) (domain.PrintLayoutConfig, bool) {
	cfg, ok := d.layouts[variant]
	if !ok {
		return domain.PrintLayoutConfig{}, false
	}
	return cloneLayout(cfg), true
}

// Offset returns the stored nudge for one copy, zero when unset.
func (d *Designer) Offset(variant, copy string) domain.TicketOffset {
	return d.layouts[variant].TicketOffsets[copy]
}

// SetMargins updates the page margins for one variant, clamped to [0, 2] so a
// layout can never consume the whole page. Inches.
func (d *Designer) SetMargins(variant string, top, right, bottom, left float64) bool {
	cfg, ok := d.layouts[variant]
	if !ok {
		return false
	}
	d.push(variant)
	cfg.PageMarginTop = geometry.Clamp(top, 0, 2)
	cfg.PageMarginRight = geometry.Clamp(right, 0, 2)
	cfg.PageMarginBottom = geometry.Clamp(bottom, 0, 2)
	cfg.PageMarginLeft = geometry.Clamp(left, 0, 2)
	d.layouts[variant] = cfg
	return true
}

// SetOffset sets a copy's nudge from numeric entry. Values clamp to ±3 in;
// no step snapping applies here, only to drags.
func (d *Designer) SetOffset(variant, copy string, x, y float64) bool {
	cfg, ok := d.layouts[variant]
	if !ok {
		return false
	}
	d.push(variant)
	cfg.TicketOffsets[copy] = domain.TicketOffset{
		X: geometry.Clamp(x, -domain.OffsetMaxInches, domain.OffsetMaxInches),
		Y: geometry.Clamp(y, -domain.OffsetMaxInches, domain.OffsetMaxInches),
	}
	d.layouts[variant] = cfg
	return true
}

// ResetOffsets zeroes all nudges for one variant.
func (d *Designer) ResetOffsets(variant string) bool {
	cfg, ok := d.layouts[variant]
	if !ok {
		return false
	}
	d.push(variant)
	cfg.TicketOffsets = make(map[string]domain.TicketOffset)
	d.layouts[variant] = cfg
	return true
}

// BeginDrag starts dragging one ticket box on the preview. Pointer positions
// are in preview pixels.
func (d *Designer) BeginDrag(variant, copy string, p geometry.Pt) bool {
	if d.drag != nil {
		return false
	}
	cfg, ok := d.layouts[variant]
	if !ok {
		return false
	}
	off := cfg.TicketOffsets[copy]
	d.push(variant)
	d.drag = &dragState{variant: variant, copy: copy, startX: off.X, startY: off.Y, origin: p}
	return true
}

// DragTo recomputes the dragged copy's offset from the current pointer
// position. Preview pixels convert to inches at 60 px/in, then snap to the
// 1/20-inch step. Drags are intentionally unclamped; the ±3 in bound applies
// only to numeric entry.
func (d *Designer) DragTo(p geometry.Pt) {
	if d.drag == nil {
		return
	}
	cfg := d.layouts[d.drag.variant]
	dx := geometry.PixelsToInches(p.X-d.drag.origin.X, domain.PreviewPixelsPerInch)
	dy := geometry.PixelsToInches(p.Y-d.drag.origin.Y, domain.PreviewPixelsPerInch)
	cfg.TicketOffsets[d.drag.copy] = domain.TicketOffset{
		X: geometry.SnapToStep(d.drag.startX+dx, domain.OffsetSnapInches),
		Y: geometry.SnapToStep(d.drag.startY+dy, domain.OffsetSnapInches),
	}
	d.layouts[d.drag.variant] = cfg
}

// EndDrag finishes the active drag.
func (d *Designer) EndDrag() { d.drag = nil }

// PreviewBoxes lays out the variant's ticket slots on a miniature page at
// 60 px/in, offsets applied, for rendering and hit-testing.
func (d *Designer) PreviewBoxes(variant string) []Box {
	cfg, ok := d.layouts[variant]
	if !ok {
		return nil
	}
	copies := variantCopies(variant)
	ppi := float64(domain.PreviewPixelsPerInch)
	pageW := domain.PageWidthInches * ppi
	pageH := domain.PageHeightInches * ppi
	left := cfg.PageMarginLeft * ppi
	top := cfg.PageMarginTop * ppi
	innerW := pageW - (cfg.PageMarginLeft+cfg.PageMarginRight)*ppi
	innerH := pageH - (cfg.PageMarginTop+cfg.PageMarginBottom)*ppi
	// Slots divide the content area, same as the print compiler.
	slotH := innerH / float64(copies)

	boxes := make([]Box, 0, copies)
	for i := 0; i < copies; i++ {
		key := strconv.Itoa(i)
		off := cfg.TicketOffsets[key]
		boxes = append(boxes, Box{
			Copy: key,
			Rect: geometry.R(
				left+off.X*ppi,
				top+float64(i)*slotH+off.Y*ppi,
				innerW,
				slotH,
			),
		})
	}
	return boxes
}

// Undo reverts the last edit on the variant.
func (d *Designer) Undo(variant string) bool {
	s, ok := d.history.Undo(variant, marshalLayout(d.layouts[variant]))
	if !ok {
		return false
	}
	if cfg, err := unmarshalLayout(s.Blob); err == nil {
		d.layouts[variant] = cfg
	}
	return true
}

// Redo reapplies the last undone edit on the variant.
func (d *Designer) Redo(variant string) bool {
	s, ok := d.history.Redo(variant, marshalLayout(d.layouts[variant]))
	if !ok {
		return false
	}
	if cfg, err := unmarshalLayout(s.Blob); err == nil {
		d.layouts[variant] = cfg
	}
	return true
}

func (d *Designer) push(variant string) {
	d.history.PushSnapshot(undo.Snapshot{Key: variant, Blob: marshalLayout(d.layouts[variant]), TS: time.Now()})
}

func marshalLayout(cfg domain.PrintLayoutConfig) []byte {
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil
	}
	return b
}

func unmarshalLayout(blob []byte) (domain.PrintLayoutConfig, error) {
	var cfg domain.PrintLayoutConfig
	err := json.Unmarshal(blob, &cfg)
	if cfg.TicketOffsets == nil {
		cfg.TicketOffsets = make(map[string]domain.TicketOffset)
	}
	return cfg, err
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor implements the element-collection editor as a UI-agnostic,
// deterministic state machine. Frontends feed it pointer events in device
// pixels; all element coordinates stay in canvas space. One pointer gesture
// can be active at a time; a pointer-down during an active gesture is ignored.
package editor

import (
	"encoding/json"
	"math"
	"time"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/geometry"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/undo"
)

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureMove
	gestureResize
)

type gesture struct {
	kind   gestureKind
	id     string
	start  geometry.Rect // element rect at pointer-down, canvas space
	origin geometry.Pt   // pointer at pointer-down, device space
	moved  bool
}

// Editor owns one element collection plus its interaction state.
type Editor struct {
	elements []domain.CanvasElement

	canvasW float64
	canvasH float64

	containerWidth float64
	scale          float64

	selectedID string

	gridEnabled bool
	gridSize    float64

	g gesture

	history    *undo.Manager
	historyKey string
}

// New creates an editor over the given collection. A nil or empty collection
// starts from the built-in defaults.
func New(elements []domain.CanvasElement, canvasW, canvasH float64) *Editor {
	if len(elements) == 0 {
		elements = domain.DefaultElements()
	}
	if canvasW <= 0 {
		canvasW = domain.DefaultCanvasWidth
	}
	if canvasH <= 0 {
		canvasH = domain.DefaultCanvasHeight
	}
	return &Editor{
		elements:   append([]domain.CanvasElement(nil), elements...),
		canvasW:    geometry.Clamp(canvasW, domain.CanvasMinWidth, domain.CanvasMaxWidth),
		canvasH:    geometry.Clamp(canvasH, domain.CanvasMinHeight, domain.CanvasMaxHeight),
		scale:      1,
		gridSize:   domain.DefaultGridSize,
		history:    undo.NewManager(undo.Config{MaxPerKey: 100}),
		historyKey: "elements",
	}
}

// Elements returns a copy of the collection in canonical canvas coordinates.
func (e *Editor) Elements() []domain.CanvasElement {
	return append([]domain.CanvasElement(nil), e.elements...)
}

// SetElements replaces the collection wholesale (used when staging a restored
// version or loading a document). Selection and gesture state are reset.
func (e *Editor) SetElements(elements []domain.CanvasElement) {
	e.pushHistory()
	e.elements = append([]domain.CanvasElement(nil), elements...)
	e.selectedID = ""
	e.g = gesture{}
}

// CanvasSize returns the virtual page size in pixels.
func (e *Editor) CanvasSize() (w, h float64) { return e.canvasW, e.canvasH }

// SetCanvasSize clamps to the fixed bounds. Elements are deliberately not
// repositioned; a shrink may leave them off-page.
func (e *Editor) SetCanvasSize(w, h float64) {
	e.canvasW = geometry.Clamp(w, domain.CanvasMinWidth, domain.CanvasMaxWidth)
	e.canvasH = geometry.Clamp(h, domain.CanvasMinHeight, domain.CanvasMaxHeight)
	e.updateScale()
}

// SetContainerWidth records the available display width and recomputes the
// display scale. Call it from the frontend's resize handler.
func (e *Editor) SetContainerWidth(w float64) {
	e.containerWidth = w
	e.updateScale()
}

func (e *Editor) updateScale() {
	if e.containerWidth <= 0 {
		e.scale = 1
		return
	}
	e.scale = geometry.DisplayScale(e.containerWidth, e.canvasW)
}

// Scale returns the active display scale (≤ 1).
func (e *Editor) Scale() float64 { return e.scale }

// SetGrid configures snapping. Size ≤ 0 resets to the default grid.
func (e *Editor) SetGrid(enabled bool, size float64) {
	e.gridEnabled = enabled
	if size > 0 {
		e.gridSize = size
	} else {
		e.gridSize = domain.DefaultGridSize
	}
}

// Grid returns the current snap configuration.
func (e *Editor) Grid() (enabled bool, size float64) { return e.gridEnabled, e.gridSize }

// SelectedID returns the id of the selected element, or "".
func (e *Editor) SelectedID() string { return e.selectedID }

// Selected returns the selected element, if any.
func (e *Editor) Selected() (domain.CanvasElement, bool) {
	if i := domain.FindElement(e.elements, e.selectedID); i >= 0 {
		return e.elements[i], true
	}
	return domain.CanvasElement{}, false
}

// Select marks the element as the sole selection.
func (e *Editor) Select(id string) bool {
	if domain.FindElement(e.elements, id) < 0 {
		return false
	}
	e.selectedID = id
	return true
}

// ClickBackground clears the selection (click on empty canvas).
func (e *Editor) ClickBackground() { e.selectedID = "" }

// Escape clears the selection unless a gesture is active; there is no
// escape-to-abort for a drag in flight.
func (e *Editor) Escape() {
	if e.g.kind != gestureNone {
		return
	}
	e.selectedID = ""
}

// PointerDown begins a move gesture over the element and selects it
// immediately, before any movement. Returns false for unknown ids or when a
// gesture is already active.
func (e *Editor) PointerDown(id string, device geometry.Pt) bool {
	if e.g.kind != gestureNone {
		return false
	}
	i := domain.FindElement(e.elements, id)
	if i < 0 {
		return false
	}
	e.selectedID = id
	el := e.elements[i]
	e.g = gesture{
		kind:   gestureMove,
		id:     id,
		start:  geometry.R(el.X, el.Y, el.Width, el.Height),
		origin: device,
	}
	return true
}

// PointerDownResize begins a resize gesture from the bottom-right handle of
// the selected element.
func (e *Editor) PointerDownResize(device geometry.Pt) bool {
	if e.g.kind != gestureNone {
		return false
	}
	i := domain.FindElement(e.elements, e.selectedID)
	if i < 0 {
		return false
	}
	el := e.elements[i]
	e.g = gesture{
		kind:   gestureResize,
		id:     el.ID,
		start:  geometry.R(el.X, el.Y, el.Width, el.Height),
		origin: device,
	}
	return true
}

// PointerMove applies the gesture delta. Device deltas divide by the display
// scale to reach canvas space, so the result depends only on the start state
// and the current pointer position, not on how many move events fired.
func (e *Editor) PointerMove(device geometry.Pt) {
	if e.g.kind == gestureNone {
		return
	}
	i := domain.FindElement(e.elements, e.g.id)
	if i < 0 {
		e.g = gesture{}
		return
	}
	if !e.g.moved {
		// First movement commits the gesture to history as one step.
		e.pushHistory()
		e.g.moved = true
	}
	s := e.scale
	if s <= 0 {
		s = 1
	}
	dx := (device.X - e.g.origin.X) / s
	dy := (device.Y - e.g.origin.Y) / s

	switch e.g.kind {
	case gestureMove:
		x := math.Round(e.g.start.X + dx)
		y := math.Round(e.g.start.Y + dy)
		if e.gridEnabled {
			x = geometry.SnapToGrid(x, e.gridSize)
			y = geometry.SnapToGrid(y, e.gridSize)
		}
		e.elements[i].X = geometry.ClampMin(x, 0)
		e.elements[i].Y = geometry.ClampMin(y, 0)
	case gestureResize:
		w := math.Round(e.g.start.W + dx)
		h := math.Round(e.g.start.H + dy)
		e.elements[i].Width = geometry.ClampMin(w, domain.ResizeMinWidth)
		e.elements[i].Height = geometry.ClampMin(h, domain.ResizeMinHeight)
	}
}

// PointerUp ends the active gesture. Selection persists.
func (e *Editor) PointerUp() { e.g = gesture{} }

// Delete removes the element and clears selection if it was selected.
func (e *Editor) Delete(id string) bool {
	i := domain.FindElement(e.elements, id)
	if i < 0 {
		return false
	}
	e.pushHistory()
	e.elements = append(e.elements[:i], e.elements[i+1:]...)
	if e.selectedID == id {
		e.selectedID = ""
	}
	return true
}

// Undo reverts the last mutation.
func (e *Editor) Undo() bool {
	s, ok := e.history.Undo(e.historyKey, e.snapshot())
	if !ok {
		return false
	}
	e.restore(s.Blob)
	return true
}

// Redo reapplies the last undone mutation.
func (e *Editor) Redo() bool {
	s, ok := e.history.Redo(e.historyKey, e.snapshot())
	if !ok {
		return false
	}
	e.restore(s.Blob)
	return true
}

func (e *Editor) pushHistory() {
	e.history.PushSnapshot(undo.Snapshot{Key: e.historyKey, Blob: e.snapshot(), TS: time.Now()})
}

func (e *Editor) snapshot() []byte {
	b, err := json.Marshal(e.elements)
	if err != nil {
		return nil
	}
	return b
}

func (e *Editor) restore(blob []byte) {
	var els []domain.CanvasElement
	if err := json.Unmarshal(blob, &els); err != nil {
		return
	}
	e.elements = els
	if domain.FindElement(e.elements, e.selectedID) < 0 {
		e.selectedID = ""
	}
	e.g = gesture{}
}

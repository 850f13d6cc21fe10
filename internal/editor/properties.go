/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/geometry"
)

// Property-panel mutations. Each setter targets one element by id, pushes a
// history step, and clamps to the panel's looser minimums (the 30x14 floor
// only applies to handle-drag resizing).

func (e *Editor) mutate(id string, fn func(*domain.CanvasElement)) bool {
	i := domain.FindElement(e.elements, id)
	if i < 0 {
		return false
	}
	e.pushHistory()
	fn(&e.elements[i])
	return true
}

// SetPosition moves the element to exact coordinates, clamped non-negative.
func (e *Editor) SetPosition(id string, x, y float64) bool {
	return e.mutate(id, func(el *domain.CanvasElement) {
		el.X = geometry.ClampMin(x, 0)
		el.Y = geometry.ClampMin(y, 0)
	})
}

// SetSize sets exact dimensions with the panel minimums of 20x10.
func (e *Editor) SetSize(id string, w, h float64) bool {
	return e.mutate(id, func(el *domain.CanvasElement) {
		el.Width = geometry.ClampMin(w, domain.MinElementWidth)
		el.Height = geometry.ClampMin(h, domain.MinElementHeight)
	})
}

// SetFontSize applies to field and label elements; clamped to at least 8.
func (e *Editor) SetFontSize(id string, size float64) bool {
	return e.mutate(id, func(el *domain.CanvasElement) {
		if el.Type != domain.ElementField && el.Type != domain.ElementLabel {
			return
		}
		el.FontSize = geometry.ClampMin(size, domain.MinFontSize)
	})
}

// SetFontWeight accepts "normal" or "bold"; anything else is normalized to
// "normal".
func (e *Editor) SetFontWeight(id, weight string) bool {
	return e.mutate(id, func(el *domain.CanvasElement) {
		if el.Type != domain.ElementField && el.Type != domain.ElementLabel {
			return
		}
		if weight != "bold" {
			weight = "normal"
		}
		el.FontWeight = weight
	})
}

// SetTextAlign accepts "left", "center" or "right".
func (e *Editor) SetTextAlign(id, align string) bool {
	return e.mutate(id, func(el *domain.CanvasElement) {
		if el.Type != domain.ElementField && el.Type != domain.ElementLabel {
			return
		}
		switch align {
		case "left", "center", "right":
			el.TextAlign = align
		}
	})
}

// SetContent updates a label's text. Fields keep their bound value.
func (e *Editor) SetContent(id, content string) bool {
	return e.mutate(id, func(el *domain.CanvasElement) {
		if el.Type != domain.ElementLabel {
			return
		}
		el.Content = content
	})
}

// SetShowLabel toggles the "Label:" prefix on field elements.
func (e *Editor) SetShowLabel(id string, show bool) bool {
	return e.mutate(id, func(el *domain.CanvasElement) {
		if el.Type != domain.ElementField {
			return
		}
		el.ShowLabel = show
	})
}

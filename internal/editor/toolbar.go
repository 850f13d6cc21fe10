/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"github.com/google/uuid"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
)

// Element factories backing the editor toolbar. New elements stagger down the
// left edge so consecutive additions do not stack exactly on top of each other.

const (
	staggerStep = 30
	staggerCap  = 300
)

func (e *Editor) staggerY() float64 {
	y := 20 + float64(len(e.elements))*staggerStep
	if y > staggerCap {
		y = staggerCap
	}
	return y
}

// AddField inserts a data-bound field for the given catalog key and selects
// it. Unknown keys get the key itself as label.
func (e *Editor) AddField(key string) domain.CanvasElement {
	label := key
	for _, f := range domain.FieldCatalog {
		if f.Key == key {
			label = f.Label
			break
		}
	}
	el := domain.CanvasElement{
		ID:         uuid.NewString(),
		Type:       domain.ElementField,
		Key:        key,
		Label:      label,
		X:          20,
		Y:          e.staggerY(),
		Width:      250,
		Height:     22,
		FontSize:   13,
		FontWeight: "bold",
		TextAlign:  "left",
		ShowLabel:  true,
	}
	e.insert(el)
	return el
}

// AddLabel inserts a free-text label with placeholder content.
func (e *Editor) AddLabel() domain.CanvasElement {
	el := domain.CanvasElement{
		ID:        uuid.NewString(),
		Type:      domain.ElementLabel,
		Content:   "Custom Text",
		X:         20,
		Y:         e.staggerY(),
		Width:     200,
		Height:    22,
		FontSize:  13,
		TextAlign: "left",
	}
	e.insert(el)
	return el
}

// AddDivider inserts a horizontal rule spanning most of the canvas width.
func (e *Editor) AddDivider() domain.CanvasElement {
	el := domain.CanvasElement{
		ID:     uuid.NewString(),
		Type:   domain.ElementDivider,
		X:      20,
		Y:      e.staggerY(),
		Width:  e.canvasW - 40,
		Height: 2,
	}
	e.insert(el)
	return el
}

// AddLogo inserts the logo placeholder. At most one logo exists per
// collection; if one is already present this is a no-op and the existing
// element is returned.
func (e *Editor) AddLogo() domain.CanvasElement {
	for _, el := range e.elements {
		if el.Type == domain.ElementLogo {
			return el
		}
	}
	el := domain.CanvasElement{
		ID:     uuid.NewString(),
		Type:   domain.ElementLogo,
		X:      20,
		Y:      e.staggerY(),
		Width:  80,
		Height: 60,
	}
	e.insert(el)
	return el
}

func (e *Editor) insert(el domain.CanvasElement) {
	e.pushHistory()
	e.elements = append(e.elements, el)
	e.selectedID = el.ID
}

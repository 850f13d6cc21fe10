/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/pagelayout"
)

// SVG previews: a single scaled ticket for the editor pane, and a miniature
// page with draggable slot outlines for the layout designer. Coordinates are
// emitted in source units with a viewBox, so the frontend scales for free.

// TicketSVG renders one ticket canvas with resolved field values.
func TicketSVG(doc *domain.TemplateDocument, t domain.Ticket) (string, error) {
	w := doc.CanvasWidth
	h := doc.CanvasHeight
	if w <= 0 {
		w = domain.DefaultCanvasWidth
	}
	if h <= 0 {
		h = domain.DefaultCanvasHeight
	}

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" viewBox=\"0 0 %g %g\">\n", w, h)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\" stroke=\"#ddd\"/>\n", w, h)

	for _, el := range doc.Elements {
		switch el.Type {
		case domain.ElementField, domain.ElementLabel:
			text := labelText(el)
			if el.Type == domain.ElementField {
				text = fieldText(el, t)
			}
			size := el.FontSize
			if size <= 0 {
				size = 13
			}
			weight := "normal"
			if el.FontWeight == "bold" {
				weight = "bold"
			}
			x := el.X
			anchor := "start"
			switch el.TextAlign {
			case "center":
				anchor = "middle"
				x = el.X + el.Width/2
			case "right":
				anchor = "end"
				x = el.X + el.Width
			}
			wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%g\" font-weight=\"%s\" text-anchor=\"%s\">%s</text>\n",
				x, el.Y+size, size, weight, anchor, escText(text))
		case domain.ElementDivider:
			wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"#000\" stroke-width=\"1\"/>\n",
				el.X, el.Y, el.X+el.Width, el.Y)
		case domain.ElementLogo:
			wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"#999\" stroke-dasharray=\"4 2\"/>\n",
				el.X, el.Y, el.Width, el.Height)
		}
	}

	wf("</svg>\n")
	if werr != nil {
		return "", fmt.Errorf("build ticket svg: %w", werr)
	}
	return buf.String(), nil
}

// LayoutPreviewSVG renders the designer's miniature page for one variant:
// the page outline, margin box and numbered ticket slots at 60 px/in.
func LayoutPreviewSVG(d *pagelayout.Designer, variant string) (string, error) {
	cfg, ok := d.Layout(variant)
	if !ok {
		return "", fmt.Errorf("unknown layout variant %q", variant)
	}
	ppi := float64(domain.PreviewPixelsPerInch)
	pageW := domain.PageWidthInches * ppi
	pageH := domain.PageHeightInches * ppi

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" viewBox=\"0 0 %g %g\">\n", pageW, pageH)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\" stroke=\"#888\"/>\n", pageW, pageH)
	// Margin box
	wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"#bbb\" stroke-dasharray=\"3 3\"/>\n",
		cfg.PageMarginLeft*ppi, cfg.PageMarginTop*ppi,
		pageW-(cfg.PageMarginLeft+cfg.PageMarginRight)*ppi,
		pageH-(cfg.PageMarginTop+cfg.PageMarginBottom)*ppi)

	for i, box := range d.PreviewBoxes(variant) {
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"#f3f6fa\" stroke=\"#4a78b0\"/>\n",
			box.X, box.Y, box.W, box.H)
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"14\" fill=\"#4a78b0\">%d</text>\n",
			box.X+8, box.Y+20, i+1)
	}

	wf("</svg>\n")
	if werr != nil {
		return "", fmt.Errorf("build layout preview svg: %w", werr)
	}
	return buf.String(), nil
}

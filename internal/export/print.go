/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

// Print output: an @page stylesheet plus an HTML fragment with one container
// per copy, each holding the rendered canvas scaled with a top-center
// transform. The fragment is what the desktop shell hands to the system
// print pipeline and what the backend serves for browser printing.

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/layout"
)

// PrintOptions controls print HTML generation.
type PrintOptions struct {
	Copies int
	// LogoDataURI, when set, replaces the logo placeholder with an inline
	// image so the output has no external fetches to wait for.
	LogoDataURI string
}

// PrintCSS emits the @page rule for the resolved layout: Letter portrait with
// the variant's margins in inches.
func PrintCSS(doc *domain.TemplateDocument, copies int) string {
	variant := strconv.Itoa(copies)
	cfg, ok := doc.PrintLayouts[variant]
	if !ok {
		cfg, ok = doc.PrintLayouts["3"]
		if !ok {
			cfg = domain.DefaultPrintLayout(copies)
		}
	}
	return fmt.Sprintf(
		"@page { size: letter portrait; margin: %gin %gin %gin %gin; }\n"+
			"body { margin: 0; }\n"+
			".ticket-slot { overflow: hidden; page-break-inside: avoid; }\n"+
			".ticket-canvas { transform-origin: top center; position: relative; }\n",
		cfg.PageMarginTop, cfg.PageMarginRight, cfg.PageMarginBottom, cfg.PageMarginLeft)
}

// PrintHTML renders the full print fragment for a ticket against the
// template. One .ticket-slot per copy, sized to the slot height, with the
// copy's nudge applied as a margin shift and the fit scale as a transform.
func PrintHTML(doc *domain.TemplateDocument, t domain.Ticket, opt PrintOptions) (string, error) {
	page := layout.ResolvePrint(doc, opt.Copies)

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	for _, slot := range page.Slots {
		wf("<div class=\"ticket-slot\" style=\"height:%gpx;\">\n", page.SlotHeight)
		wf("  <div class=\"ticket-canvas\" style=\"width:%gpx;height:%gpx;margin:%gpx auto 0 auto;transform:scale(%g);\">\n",
			page.CanvasW, page.CanvasH, slot.OffsetY, page.Scale)
		if werr == nil {
			werr = writeElements(&buf, doc.Elements, t, slot.OffsetX, opt.LogoDataURI)
		}
		wf("  </div>\n")
		wf("</div>\n")
	}
	if werr != nil {
		return "", fmt.Errorf("build print html: %w", werr)
	}
	return buf.String(), nil
}

func writeElements(buf *bytes.Buffer, elements []domain.CanvasElement, t domain.Ticket, shiftX float64, logoURI string) error {
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(buf, format, args...)
	}
	for _, el := range elements {
		style := fmt.Sprintf("position:absolute;left:%gpx;top:%gpx;width:%gpx;height:%gpx;",
			el.X+shiftX, el.Y, el.Width, el.Height)
		switch el.Type {
		case domain.ElementField:
			style += textStyle(el)
			wf("    <div style=\"%s\">%s</div>\n", style, escText(fieldText(el, t)))
		case domain.ElementLabel:
			style += textStyle(el)
			wf("    <div style=\"%s\">%s</div>\n", style, escText(labelText(el)))
		case domain.ElementDivider:
			wf("    <div style=\"%sborder-top:1px solid #000;\"></div>\n", style)
		case domain.ElementLogo:
			if logoURI != "" {
				wf("    <img style=\"%sobject-fit:contain;\" src=\"%s\" alt=\"logo\"/>\n", style, escAttr(logoURI))
			} else {
				wf("    <div style=\"%sborder:1px dashed #999;\"></div>\n", style)
			}
		}
	}
	return werr
}

func textStyle(el domain.CanvasElement) string {
	size := el.FontSize
	if size <= 0 {
		size = 13
	}
	weight := el.FontWeight
	if weight == "" {
		weight = "normal"
	}
	align := el.TextAlign
	if align == "" {
		align = "left"
	}
	return fmt.Sprintf("font-size:%gpx;font-weight:%s;text-align:%s;font-family:Helvetica,Arial,sans-serif;overflow:hidden;",
		size, weight, align)
}

func fieldText(el domain.CanvasElement, t domain.Ticket) string {
	v := t.Resolve(el.Key)
	if el.ShowLabel && el.Label != "" {
		return el.Label + ": " + v
	}
	return v
}

// labelText is the display text of a label element: its literal content,
// falling back to the label name when no content was entered.
func labelText(el domain.CanvasElement) string {
	if el.Content != "" {
		return el.Content
	}
	return el.Label
}

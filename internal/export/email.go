/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

// Email output: mail clients cannot be trusted with absolute positioning, so
// the free-form canvas collapses into a bordered table, one table row per
// visual row of elements.

import (
	"bytes"
	"fmt"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/layout"
)

// EmailOptions controls email HTML generation.
type EmailOptions struct {
	// LogoDataURI inlines the logo as a base64 data URI; email clients do
	// not load external images by default.
	LogoDataURI string
	// Heading is rendered above the table, typically the ticket number.
	Heading string
}

// EmailHTML renders the email body for a ticket. Elements come from the
// dedicated email canvas when the template has one, otherwise from the print
// canvas. Rows follow reading order; dividers become full-width rules.
func EmailHTML(doc *domain.TemplateDocument, t domain.Ticket, opt EmailOptions) (string, error) {
	rows := layout.GroupRows(layout.EmailElements(doc))

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<div style=\"font-family:Helvetica,Arial,sans-serif;max-width:600px;\">\n")
	if opt.Heading != "" {
		wf("  <h2 style=\"margin:0 0 12px 0;\">%s</h2>\n", escText(opt.Heading))
	}
	wf("  <table style=\"border-collapse:collapse;width:100%%;border:1px solid #ccc;\">\n")

	for _, row := range rows {
		// A row holding only dividers renders as a rule spanning the table.
		if dividersOnly(row.Elements) {
			wf("    <tr><td colspan=\"%d\" style=\"padding:0;\"><hr style=\"border:none;border-top:1px solid #999;margin:4px 0;\"/></td></tr>\n",
				maxRowWidth(rows))
			continue
		}
		wf("    <tr>\n")
		for _, el := range row.Elements {
			wf("      <td style=\"padding:6px 10px;border:1px solid #eee;%s\">", emailCellStyle(el))
			switch el.Type {
			case domain.ElementField:
				if el.ShowLabel && el.Label != "" {
					wf("<b>%s:</b> %s", escText(el.Label), escText(t.Resolve(el.Key)))
				} else {
					wf("%s", escText(t.Resolve(el.Key)))
				}
			case domain.ElementLabel:
				wf("%s", escText(labelText(el)))
			case domain.ElementLogo:
				if opt.LogoDataURI != "" {
					wf("<img src=\"%s\" alt=\"logo\" style=\"max-width:%gpx;max-height:%gpx;\"/>",
						escAttr(opt.LogoDataURI), el.Width, el.Height)
				}
			}
			wf("</td>\n")
		}
		wf("    </tr>\n")
	}

	wf("  </table>\n")
	wf("</div>\n")
	if werr != nil {
		return "", fmt.Errorf("build email html: %w", werr)
	}
	return buf.String(), nil
}

func dividersOnly(els []domain.CanvasElement) bool {
	for _, el := range els {
		if el.Type != domain.ElementDivider {
			return false
		}
	}
	return len(els) > 0
}

func maxRowWidth(rows []layout.Row) int {
	max := 1
	for _, r := range rows {
		if len(r.Elements) > max {
			max = len(r.Elements)
		}
	}
	return max
}

func emailCellStyle(el domain.CanvasElement) string {
	s := ""
	if el.Width > 0 {
		s += fmt.Sprintf("width:%gpx;", el.Width)
	}
	if el.FontSize > 0 {
		s += fmt.Sprintf("font-size:%gpx;", el.FontSize)
	}
	if el.FontWeight == "bold" {
		s += "font-weight:bold;"
	}
	switch el.TextAlign {
	case "center", "right":
		s += "text-align:" + el.TextAlign + ";"
	}
	return s
}

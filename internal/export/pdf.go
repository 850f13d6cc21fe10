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
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/layout"
)

// PDF export draws from the same resolved layout tree as the HTML path, so a
// saved PDF matches what the browser prints. Units are points; the layout
// tree is in 96 dpi pixels, converted at 72/96.

const pxToPt = 72.0 / 96.0

// PDFOptions controls PDF export behavior.
type PDFOptions struct {
	Copies int
	Title  string
}

// ExportTicketPDF writes a single-page Letter PDF with the ticket repeated
// per the copies-per-page layout.
func ExportTicketPDF(doc *domain.TemplateDocument, t domain.Ticket, outPath string, opt PDFOptions) error {
	if doc == nil {
		return fmt.Errorf("template document is nil")
	}
	page := layout.ResolvePrint(doc, opt.Copies)

	pdf := gofpdf.New("P", "pt", "Letter", "")
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, false)
	}
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Built-in Helvetica keeps text vector without embedding
	pdf.SetFont("Helvetica", "", 12)

	for _, slot := range page.Slots {
		drawSlot(pdf, doc.Elements, t, page, slot)
	}

	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawSlot(pdf *gofpdf.Fpdf, elements []domain.CanvasElement, t domain.Ticket, page layout.PrintPage, slot layout.TicketSlot) {
	s := page.Scale
	for _, el := range elements {
		x := (slot.X + el.X*s) * pxToPt
		y := (slot.Y + el.Y*s) * pxToPt
		w := el.Width * s * pxToPt
		h := el.Height * s * pxToPt

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
			style := ""
			if el.FontWeight == "bold" {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, size*s*pxToPt)
			align := "L"
			switch el.TextAlign {
			case "center":
				align = "C"
			case "right":
				align = "R"
			}
			pdf.SetXY(x, y)
			pdf.CellFormat(w, h, text, "", 0, align+"M", false, 0, "")
		case domain.ElementDivider:
			pdf.SetDrawColor(0, 0, 0)
			pdf.SetLineWidth(0.75)
			pdf.Line(x, y, x+w, y)
		case domain.ElementLogo:
			// Placeholder frame; image embedding happens when the template
			// carries a logo asset.
			pdf.SetDrawColor(153, 153, 153)
			pdf.SetLineWidth(0.5)
			pdf.Rect(x, y, w, h, "D")
		}
	}
}

// ExportTicketPDFWithLogo embeds a PNG logo asset into each copy's logo
// placeholder before writing the PDF.
func ExportTicketPDFWithLogo(doc *domain.TemplateDocument, t domain.Ticket, logoPNG []byte, outPath string, opt PDFOptions) error {
	if len(logoPNG) == 0 || !domain.HasLogo(doc.Elements) {
		return ExportTicketPDF(doc, t, outPath, opt)
	}
	page := layout.ResolvePrint(doc, opt.Copies)

	pdf := gofpdf.New("P", "pt", "Letter", "")
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, false)
	}
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)

	imgOpt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("logo", imgOpt, bytes.NewReader(logoPNG))

	for _, slot := range page.Slots {
		drawSlot(pdf, withoutLogos(doc.Elements), t, page, slot)
		for _, el := range doc.Elements {
			if el.Type != domain.ElementLogo {
				continue
			}
			x := (slot.X + el.X*page.Scale) * pxToPt
			y := (slot.Y + el.Y*page.Scale) * pxToPt
			w := el.Width * page.Scale * pxToPt
			h := el.Height * page.Scale * pxToPt
			pdf.ImageOptions("logo", x, y, w, h, false, imgOpt, 0, "")
		}
	}

	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func withoutLogos(els []domain.CanvasElement) []domain.CanvasElement {
	out := make([]domain.CanvasElement, 0, len(els))
	for _, el := range els {
		if el.Type == domain.ElementLogo {
			continue
		}
		out = append(out, el)
	}
	return out
}

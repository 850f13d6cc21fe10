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
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	// register decoders for the formats customers actually upload
	_ "image/gif"
	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/geometry"
)

// Logo pipeline: uploaded images are decoded, downscaled to the logo
// placeholder's render size and re-encoded as PNG, then inlined as a data
// URI so neither print nor email output depends on external fetches.

// maxLogoEdge bounds the stored raster; placeholders render at most 80x60
// canvas units, scaled up to print scale, so 512 leaves headroom.
const maxLogoEdge = 512

// PrepareLogo decodes an uploaded image, scales it down to fit maxLogoEdge
// preserving aspect ratio, and returns the PNG bytes. Images already within
// bounds are only re-encoded.
func PrepareLogo(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("decode logo: empty image")
	}

	if w > maxLogoEdge || h > maxLogoEdge {
		s := geometry.FitScale(maxLogoEdge, maxLogoEdge, float64(w), float64(h))
		dw := int(float64(w) * s)
		dh := int(float64(h) * s)
		if dw < 1 {
			dw = 1
		}
		if dh < 1 {
			dh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
		src = dst
	}

	var out bytes.Buffer
	if err := png.Encode(&out, src); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}
	return out.Bytes(), nil
}

// LogoDataURI wraps PNG bytes as an inline data URI for HTML output.
func LogoDataURI(pngBytes []byte) string {
	if len(pngBytes) == 0 {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

// TicketFilename builds a stable export filename from the ticket number.
func TicketFilename(t domain.Ticket, ext string) string {
	n := t.Resolve("jobNumber")
	if n == domain.MissingValue {
		n = "ticket"
	}
	return fmt.Sprintf("ticket-%s.%s", n, ext)
}

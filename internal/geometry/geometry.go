/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

// Basic 2D geometry, unit conversions and snapping for the template canvas.
// All helpers are deterministic so editor interaction is unit-testable.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y float64 }

// Size is a width/height pair.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt { return Pt{r.X + r.W, r.Y + r.H} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// DisplayScale is the editor's scale-to-fit factor: the canvas is shrunk to
// the container width but never upscaled past 1.
func DisplayScale(containerWidth, canvasWidth float64) float64 {
	if canvasWidth <= 0 || containerWidth <= 0 {
		return 1
	}
	return math.Min(1, containerWidth/canvasWidth)
}

// FitScale is the uniform scale-to-fit factor bounded by the tighter axis,
// preserving aspect ratio without overflow.
func FitScale(boxW, boxH, contentW, contentH float64) float64 {
	if contentW <= 0 || contentH <= 0 {
		return 1
	}
	return math.Min(boxW/contentW, boxH/contentH)
}

// SnapToGrid rounds v to the nearest multiple of grid. A non-positive grid
// disables snapping.
func SnapToGrid(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// SnapToStep rounds v to the nearest multiple of step, keeping sign. Used for
// the 1/20-inch offset resolution of the print layout designer.
func SnapToStep(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampMin bounds v to at least lo.
func ClampMin(v, lo float64) float64 {
	if v < lo {
		return lo
	}
	return v
}

// InchesToPixels converts inches to pixels at the given dots-per-inch.
func InchesToPixels(in, dpi float64) float64 { return in * dpi }

// PixelsToInches converts pixels to inches at the given dots-per-inch.
func PixelsToInches(px, dpi float64) float64 {
	if dpi <= 0 {
		return 0
	}
	return px / dpi
}

// InchesToPoints converts inches to PDF points (72/in).
func InchesToPoints(in float64) float64 { return in * 72 }

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

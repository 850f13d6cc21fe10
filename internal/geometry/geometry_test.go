/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import "testing"

func TestDisplayScaleNeverUpscales(t *testing.T) {
	if s := DisplayScale(1200, 600); s != 1 {
		t.Fatalf("expected 1, got %v", s)
	}
	if s := DisplayScale(300, 600); s != 0.5 {
		t.Fatalf("expected 0.5, got %v", s)
	}
	if s := DisplayScale(0, 600); s != 1 {
		t.Fatalf("degenerate container should yield 1, got %v", s)
	}
}

func TestFitScaleTighterAxisWins(t *testing.T) {
	// 720x480 box, 600x800 content: min(1.2, 0.6) = 0.6
	if s := FitScale(720, 480, 600, 800); s != 0.6 {
		t.Fatalf("expected 0.6, got %v", s)
	}
}

func TestSnapToGrid(t *testing.T) {
	if v := SnapToGrid(27, 20); v != 20 {
		t.Fatalf("27 snap 20 -> %v", v)
	}
	if v := SnapToGrid(31, 20); v != 40 {
		t.Fatalf("31 snap 20 -> %v", v)
	}
	if v := SnapToGrid(31, 0); v != 31 {
		t.Fatalf("zero grid must disable snapping, got %v", v)
	}
}

func TestSnapToStepTwentiethInch(t *testing.T) {
	if v := SnapToStep(0.337, 0.05); FloatRound(v, 3) != 0.35 {
		t.Fatalf("0.337 -> %v", v)
	}
	if v := SnapToStep(-0.12, 0.05); FloatRound(v, 3) != -0.1 {
		t.Fatalf("-0.12 -> %v", v)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Fatalf("clamp misbehaves")
	}
}

func TestUnitConversions(t *testing.T) {
	if InchesToPixels(7.5, 96) != 720 {
		t.Fatalf("7.5in at 96dpi should be 720px")
	}
	if PixelsToInches(720, 96) != 7.5 {
		t.Fatalf("720px at 96dpi should be 7.5in")
	}
	if InchesToPoints(0.5) != 36 {
		t.Fatalf("0.5in should be 36pt")
	}
}

func TestRectContains(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("edge points should be contained")
	}
	if r.Contains(Pt{9, 20}) {
		t.Fatalf("outside point contained")
	}
}

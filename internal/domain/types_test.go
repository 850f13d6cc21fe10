/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := DefaultDocument()
	doc.EmailElements = []CanvasElement{{ID: "e1", Type: ElementLabel, Content: "Thanks", X: 5, Y: 5, Width: 200, Height: 22}}
	doc.ReportFields = json.RawMessage(`{"columns":["customer","totalAmount"]}`)

	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back TemplateDocument
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(doc.Elements, back.Elements) {
		t.Fatalf("elements changed across round trip")
	}
	if !reflect.DeepEqual(doc.PrintLayouts, back.PrintLayouts) {
		t.Fatalf("print layouts changed across round trip")
	}
	if string(back.ReportFields) != string(doc.ReportFields) {
		t.Fatalf("report config not carried through: %s", back.ReportFields)
	}
}

func TestHasLogo(t *testing.T) {
	els := DefaultElements()
	if HasLogo(els) {
		t.Fatalf("default set should not contain a logo")
	}
	els = append(els, CanvasElement{ID: "l", Type: ElementLogo})
	if !HasLogo(els) {
		t.Fatalf("logo not detected")
	}
}

func TestDefaultElementsStaggerCapped(t *testing.T) {
	els := DefaultElements()
	for i, e := range els {
		if e.Y > 300 {
			t.Fatalf("element %d staggered past cap: y=%v", i, e.Y)
		}
	}
	if els[0].Y != 20 || els[1].Y != 50 {
		t.Fatalf("unexpected stagger: %v, %v", els[0].Y, els[1].Y)
	}
}

func TestTicketResolve(t *testing.T) {
	tk := Ticket{"customer": "Acme Gravel", "truck": "  "}
	if got := tk.Resolve("customer"); got != "Acme Gravel" {
		t.Fatalf("resolve: %q", got)
	}
	if got := tk.Resolve("truck"); got != MissingValue {
		t.Fatalf("blank value should resolve to placeholder, got %q", got)
	}
	if got := tk.Resolve("nope"); got != MissingValue {
		t.Fatalf("unknown key should resolve to placeholder, got %q", got)
	}
	var nilT Ticket
	if got := nilT.Resolve("x"); got != MissingValue {
		t.Fatalf("nil ticket should resolve to placeholder, got %q", got)
	}
}

func TestDefaultPrintLayoutsIndependent(t *testing.T) {
	ls := DefaultPrintLayouts()
	if len(ls["2"].TicketOffsets) != 2 || len(ls["3"].TicketOffsets) != 3 {
		t.Fatalf("offset counts wrong: %+v", ls)
	}
	two := ls["2"]
	two.TicketOffsets["0"] = TicketOffset{X: 1.5}
	if ls["3"].TicketOffsets["0"].X != 0 {
		t.Fatalf("variants must not share offset storage")
	}
}

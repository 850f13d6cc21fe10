//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/mstengel88/edit-my-ticket-sub000/internal/crash"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/domain"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/editor"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/geometry"
	applog "github.com/mstengel88/edit-my-ticket-sub000/internal/log"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/storage"
	"github.com/mstengel88/edit-my-ticket-sub000/internal/version"
)

// Run starts the Fyne-based template designer. All interaction logic lives in
// the editor package; this shell only translates widget events into editor
// calls and redraws from editor state.
func Run(workspaceDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var wh *storage.WorkspaceHandle
	defer func() { crash.Recover(wh) }()

	if workspaceDir != "" {
		opened, err := storage.Open(workspaceDir)
		if err != nil {
			l.Warn("open workspace failed, starting fresh", slog.Any("err", err))
		} else {
			wh = opened
		}
	}

	doc := domain.DefaultDocument()
	if wh != nil {
		d := wh.Document
		doc = &d
	}
	ed := editor.New(doc.Elements, doc.CanvasWidth, doc.CanvasHeight)

	fyneApp := app.NewWithID("editmyticket")
	w := fyneApp.NewWindow("Edit My Ticket " + version.Version)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	page := container.NewWithoutLayout()

	redraw := func() {
		page.Objects = nil
		cw, ch := ed.CanvasSize()
		s := float32(ed.Scale())
		bg := canvas.NewRectangle(color.White)
		bg.Resize(fyne.NewSize(float32(cw)*s, float32(ch)*s))
		page.Add(bg)
		for _, el := range ed.Elements() {
			var obj fyne.CanvasObject
			switch el.Type {
			case domain.ElementDivider:
				r := canvas.NewRectangle(color.Black)
				obj = r
			case domain.ElementLogo:
				r := canvas.NewRectangle(color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})
				r.StrokeColor = color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
				r.StrokeWidth = 1
				obj = r
			default:
				text := el.Content
				if el.Type == domain.ElementField {
					text = el.Label
				}
				t := canvas.NewText(text, color.Black)
				t.TextSize = float32(el.FontSize) * s
				if el.FontWeight == "bold" {
					t.TextStyle = fyne.TextStyle{Bold: true}
				}
				obj = t
			}
			obj.Move(fyne.NewPos(float32(el.X)*s, float32(el.Y)*s))
			obj.Resize(fyne.NewSize(float32(el.Width)*s, float32(el.Height)*s))
			page.Add(obj)
			if el.ID == ed.SelectedID() {
				sel := canvas.NewRectangle(color.Transparent)
				sel.StrokeColor = color.NRGBA{R: 0x4a, G: 0x78, B: 0xb0, A: 0xff}
				sel.StrokeWidth = 2
				sel.Move(fyne.NewPos(float32(el.X)*s, float32(el.Y)*s))
				sel.Resize(fyne.NewSize(float32(el.Width)*s, float32(el.Height)*s))
				page.Add(sel)
			}
		}
		page.Refresh()
	}

	hitTest := func(p fyne.Position) string {
		s := ed.Scale()
		pt := geometry.Pt{X: float64(p.X) / s, Y: float64(p.Y) / s}
		// Topmost element wins.
		els := ed.Elements()
		for i := len(els) - 1; i >= 0; i-- {
			el := els[i]
			if geometry.R(el.X, el.Y, el.Width, el.Height).Contains(pt) {
				return el.ID
			}
		}
		return ""
	}

	surface := newDragSurface(page,
		func(p fyne.Position) {
			id := hitTest(p)
			if id == "" {
				ed.ClickBackground()
			} else {
				ed.PointerDown(id, geometry.Pt{X: float64(p.X), Y: float64(p.Y)})
			}
			redraw()
		},
		func(p fyne.Position) {
			ed.PointerMove(geometry.Pt{X: float64(p.X), Y: float64(p.Y)})
			redraw()
		},
		func() {
			ed.PointerUp()
			redraw()
		},
	)

	addField := widget.NewButton("Add Field", func() {
		keys := make([]string, 0, len(domain.FieldCatalog))
		for _, f := range domain.FieldCatalog {
			keys = append(keys, f.Key)
		}
		sel := widget.NewSelect(keys, nil)
		dialog.ShowCustomConfirm("Add Field", "Add", "Cancel", sel, func(ok bool) {
			if ok && sel.Selected != "" {
				ed.AddField(sel.Selected)
				redraw()
			}
		}, w)
	})
	addLabel := widget.NewButton("Add Text", func() { ed.AddLabel(); redraw() })
	addDivider := widget.NewButton("Add Divider", func() { ed.AddDivider(); redraw() })
	addLogo := widget.NewButton("Add Logo", func() { ed.AddLogo(); redraw() })
	deleteBtn := widget.NewButton("Delete", func() {
		if id := ed.SelectedID(); id != "" {
			ed.Delete(id)
			redraw()
		}
	})
	undoBtn := widget.NewButton("Undo", func() { ed.Undo(); redraw() })
	redoBtn := widget.NewButton("Redo", func() { ed.Redo(); redraw() })

	gridCheck := widget.NewCheck("Snap to grid", func(on bool) {
		_, size := ed.Grid()
		ed.SetGrid(on, size)
	})

	saveBtn := widget.NewButton("Save", func() {
		if wh == nil {
			status.SetText("No workspace open")
			return
		}
		wh.Document.Elements = ed.Elements()
		wh.Document.CanvasWidth, wh.Document.CanvasHeight = ed.CanvasSize()
		if err := storage.Save(wh); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved " + wh.DocumentPath)
	})

	canvasW := widget.NewEntry()
	canvasH := widget.NewEntry()
	cw0, ch0 := ed.CanvasSize()
	canvasW.SetText(strconv.Itoa(int(cw0)))
	canvasH.SetText(strconv.Itoa(int(ch0)))
	applySize := widget.NewButton("Apply Size", func() {
		cw, errW := strconv.ParseFloat(canvasW.Text, 64)
		ch, errH := strconv.ParseFloat(canvasH.Text, 64)
		if errW != nil || errH != nil {
			status.SetText("Invalid canvas size")
			return
		}
		ed.SetCanvasSize(cw, ch)
		gotW, gotH := ed.CanvasSize()
		canvasW.SetText(strconv.Itoa(int(gotW)))
		canvasH.SetText(strconv.Itoa(int(gotH)))
		redraw()
	})

	toolbar := container.NewVBox(
		addField, addLabel, addDivider, addLogo,
		widget.NewSeparator(),
		deleteBtn, undoBtn, redoBtn, gridCheck,
		widget.NewSeparator(),
		widget.NewLabel("Canvas"), canvasW, canvasH, applySize,
		widget.NewSeparator(),
		saveBtn,
	)

	content := container.NewBorder(nil, status, toolbar, nil, container.NewScroll(surface))
	w.SetContent(content)

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	ed.SetContainerWidth(float64(winW - 240))
	redraw()
	w.ShowAndRun()
	return nil
}

// dragSurface routes raw pointer events to the editor callbacks.
type dragSurface struct {
	widget.BaseWidget
	content fyne.CanvasObject
	down    func(fyne.Position)
	move    func(fyne.Position)
	up      func()
}

func newDragSurface(content fyne.CanvasObject, down, move func(fyne.Position), up func()) *dragSurface {
	s := &dragSurface{content: content, down: down, move: move, up: up}
	s.ExtendBaseWidget(s)
	return s
}

func (s *dragSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.content)
}

func (s *dragSurface) Tapped(ev *fyne.PointEvent) {
	s.down(ev.Position)
	s.up()
}

func (s *dragSurface) Dragged(ev *fyne.DragEvent) {
	if s.move != nil {
		s.move(ev.Position)
	}
}

func (s *dragSurface) DragEnd() {
	if s.up != nil {
		s.up()
	}
}

func (s *dragSurface) MouseDown(ev *fyne.PointEvent) {
	s.down(ev.Position)
}

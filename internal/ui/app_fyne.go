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
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"comicsviewer/internal/config"
	"comicsviewer/internal/crash"
	"comicsviewer/internal/cursor"
	"comicsviewer/internal/geom"
	applog "comicsviewer/internal/log"
	"comicsviewer/internal/render"
	"comicsviewer/internal/telemetry"
	"comicsviewer/internal/view"
)

var canvasBG = color.RGBA{R: 30, G: 30, B: 34, A: 255}

// pageExts are the image formats accepted as comic pages. Archive extraction
// and catalog lookup happen outside this program; a comic here is a directory
// of page images (or a single image file).
var pageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// sidecarPath is where a page's annotations document lives, next to the page.
func sidecarPath(pagePath string) string { return pagePath + ".tiles.json" }

// listPages returns the sorted page image paths of a comic directory. A
// single image file is treated as a one-page comic.
func listPages(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		if !pageExts[strings.ToLower(filepath.Ext(path))] {
			return nil, fmt.Errorf("not a page image: %s", path)
		}
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var pages []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if pageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			pages = append(pages, filepath.Join(path, e.Name()))
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page images in %s", path)
	}
	sort.Strings(pages)
	return pages, nil
}

// Run starts the desktop viewer. Pass an optional comic directory (or single
// page image) to open immediately.
func Run(comicPath string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting viewer UI")

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	if cfg.General.TelemetryOptIn {
		tcfg := telemetry.FromEnv()
		tcfg.OptIn = true
		telemetry.NewDefault(tcfg)
	}

	vw := view.New(cfg.Viewer)
	defer func() { crash.Recover(vw.CrashDump()) }()

	fyneApp := app.NewWithID("comicsviewer")
	w := fyneApp.NewWindow("Comics Viewer")
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
	pc := NewPageCanvas(vw)
	vw.SetRedraw(func() { pc.Refresh() })

	var pagePaths []string
	pagesDisplay := []string{}
	currentPage := -1

	saveAnnotations := func() {
		if currentPage < 0 || !vw.Dirty() {
			return
		}
		doc, err := vw.AnnotationsDoc()
		if err != nil {
			l.Error("encode annotations failed", slog.Any("err", err))
			return
		}
		path := sidecarPath(pagePaths[currentPage])
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			l.Error("save annotations failed", slog.String("path", path), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		vw.MarkClean()
		l.Info("annotations saved", slog.String("path", path))
		status.SetText(fmt.Sprintf("Saved annotations for page %d", currentPage+1))
	}

	pagesList := widget.NewList(
		func() int { return len(pagesDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(pagesDisplay) {
				o.(*widget.Label).SetText(pagesDisplay[i])
			} else {
				o.(*widget.Label).SetText("")
			}
		},
	)

	openPage := func(idx int) {
		if idx < 0 || idx >= len(pagePaths) {
			return
		}
		saveAnnotations() // unsaved tile edits follow the page, never get lost
		path := pagePaths[idx]
		key := vw.PageKey(idx + 1)
		data := vw.Cache().Get(key)
		if data == nil {
			var err error
			data, err = os.ReadFile(path)
			if err != nil {
				l.Error("read page failed", slog.String("path", path), slog.Any("err", err))
				dialog.ShowError(err, w)
				return
			}
			vw.Cache().Store(key, data)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			l.Error("decode page failed", slog.String("path", path), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		doc, err := os.ReadFile(sidecarPath(path))
		if err != nil {
			doc = nil // no sidecar yet
		}
		b := img.Bounds()
		shape := geom.Size{W: float64(b.Dx()), H: float64(b.Dy())}
		if err := vw.OpenPage(idx+1, shape, doc); err != nil {
			l.Error("open page failed", slog.String("path", path), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		currentPage = idx
		pc.SetPage(img)
		status.SetText(fmt.Sprintf("%s - page %d/%d", filepath.Base(vw.Comic()), idx+1, len(pagePaths)))
	}
	pagesList.OnSelected = func(id widget.ListItemID) { openPage(int(id)) }

	openComic := func(path string) {
		pages, err := listPages(path)
		if err != nil {
			l.Error("open comic failed", slog.String("path", path), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		saveAnnotations()
		vw.OpenComic(path)
		pagePaths = pages
		pagesDisplay = pagesDisplay[:0]
		for _, p := range pages {
			pagesDisplay = append(pagesDisplay, filepath.Base(p))
		}
		currentPage = -1
		pagesList.Refresh()
		addRecentComic(prefs, path)
		w.SetTitle("Comics Viewer - " + filepath.Base(path))
		pagesList.Select(0)
	}

	nextPage := func() { openPage(currentPage + 1) }
	prevPage := func() { openPage(currentPage - 1) }

	showOpenDialog := func() {
		d := dialog.NewFolderOpen(func(lu fyne.ListableURI, err error) {
			if err != nil || lu == nil {
				return
			}
			openComic(lu.Path())
		}, w)
		d.Show()
	}

	recentMenu := fyne.NewMenuItem("Open Recent", nil)
	rebuildRecent := func() {
		items := []*fyne.MenuItem{}
		for _, p := range loadRecentComics(prefs) {
			path := p
			items = append(items, fyne.NewMenuItem(filepath.Base(path), func() { openComic(path) }))
		}
		recentMenu.ChildMenu = fyne.NewMenu("", items...)
		recentMenu.Disabled = len(items) == 0
	}
	rebuildRecent()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Comic…", showOpenDialog),
		recentMenu,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Annotations", saveAnnotations),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { vw.Undo() }),
		fyne.NewMenuItem("Redo", func() { vw.Redo() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Draw Mode", func() { vw.ToggleMode() }),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { vw.SetScale(vw.Scale() * 1.25) }),
		fyne.NewMenuItem("Zoom Out", func() { vw.SetScale(vw.Scale() / 1.25) }),
		fyne.NewMenuItem("Reset Zoom", func() { vw.SetScale(1) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Next Page", nextPage),
		fyne.NewMenuItem("Previous Page", prevPage),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu))

	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { vw.Undo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { vw.Redo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { saveAnnotations() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { showOpenDialog() })
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyRight, fyne.KeyPageDown:
			nextPage()
		case fyne.KeyLeft, fyne.KeyPageUp:
			prevPage()
		case fyne.KeyT:
			vw.ToggleMode()
		case fyne.KeySpace:
			pc.TogglePan()
			if pc.PanMode() {
				status.SetText("Pan mode")
			} else {
				status.SetText("Draw mode")
			}
		}
	})

	// Inactivity deadlines (overlay fade, cursor hide) fire from a coarse
	// ticker on the UI thread.
	ticker := time.NewTicker(time.Second)
	go func() {
		for range ticker.C {
			fyne.Do(func() { vw.Tick(time.Now()) })
		}
	}()
	w.SetOnClosed(func() {
		ticker.Stop()
		saveAnnotations()
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	split := container.NewHSplit(pagesList, pc)
	split.SetOffset(0.18)
	w.SetContent(container.NewBorder(nil, status, nil, nil, split))

	if comicPath != "" {
		openComic(comicPath)
	}

	w.ShowAndRun()
	return nil
}

// PageCanvas is the drawing surface: it warps the current page through the
// viewport affine and paints the tile overlay on top, forwarding pointer
// input to the view.
type PageCanvas struct {
	widget.BaseWidget

	view    *view.View
	src     image.Image
	backing *image.RGBA

	cursors *cursor.Cache

	panMode  bool
	dragging bool
	dragOrig fyne.Position
}

func NewPageCanvas(vw *view.View) *PageCanvas {
	pc := &PageCanvas{view: vw}
	pc.cursors = cursor.NewCache(func(ic cursor.Icon, _ float64) (any, error) {
		switch ic {
		case cursor.None:
			return desktop.HiddenCursor, nil
		case cursor.Default:
			return desktop.DefaultCursor, nil
		default:
			return desktop.CrosshairCursor, nil
		}
	})
	pc.ExtendBaseWidget(pc)
	return pc
}

// SetPage installs a freshly decoded page image.
func (p *PageCanvas) SetPage(img image.Image) {
	p.src = img
	p.Refresh()
}

// TogglePan switches between drawing and panning with the pointer.
func (p *PageCanvas) TogglePan() {
	p.panMode = !p.panMode
	if p.dragging {
		p.view.DragEnd()
		p.dragging = false
	}
}

// PanMode reports whether pointer drags pan instead of draw.
func (p *PageCanvas) PanMode() bool { return p.panMode }

func (p *PageCanvas) PreferredSize() fyne.Size { return fyne.NewSize(800, 600) }

func pt(pos fyne.Position) geom.Pt { return geom.P(float64(pos.X), float64(pos.Y)) }

// MouseDown starts a pen or eraser gesture. The secondary button always
// erases, so switching tools is not needed for quick corrections.
func (p *PageCanvas) MouseDown(e *desktop.MouseEvent) {
	if p.panMode {
		return
	}
	switch e.Button {
	case desktop.MouseButtonPrimary:
		p.view.PenDown(pt(e.Position))
	case desktop.MouseButtonSecondary:
		p.view.EraserDown(pt(e.Position))
	}
}

func (p *PageCanvas) MouseUp(e *desktop.MouseEvent) {
	if p.panMode {
		return
	}
	switch e.Button {
	case desktop.MouseButtonPrimary:
		p.view.PenUp(pt(e.Position))
	case desktop.MouseButtonSecondary:
		p.view.EraserUp(pt(e.Position))
	}
}

func (p *PageCanvas) MouseIn(e *desktop.MouseEvent) { p.view.PointerMove(pt(e.Position)) }

func (p *PageCanvas) MouseMoved(e *desktop.MouseEvent) { p.view.PointerMove(pt(e.Position)) }

func (p *PageCanvas) MouseOut() { p.view.PointerLeft() }

func (p *PageCanvas) Dragged(e *fyne.DragEvent) {
	if !p.panMode {
		p.view.PointerMove(pt(e.Position))
		return
	}
	if !p.dragging {
		p.view.DragBegin(pt(e.Position))
		p.dragOrig = e.Position
		p.dragging = true
		return
	}
	p.view.DragUpdate(geom.P(
		float64(e.Position.X-p.dragOrig.X),
		float64(e.Position.Y-p.dragOrig.Y),
	))
}

func (p *PageCanvas) DragEnd() {
	if p.dragging {
		p.view.DragEnd()
		p.dragging = false
	}
}

// Scrolled zooms with the wheel. Fyne v2.6 does not expose modifier keys on
// ScrollEvent, so the wheel always zooms and panning lives on Space.
func (p *PageCanvas) Scrolled(e *fyne.ScrollEvent) {
	p.view.SetScale(p.view.Scale() * (1 + float64(e.Scrolled.DY)*0.01))
}

// Cursor maps the view's logical cursor icon onto a desktop cursor.
func (p *PageCanvas) Cursor() desktop.Cursor {
	c, err := p.cursors.Get(p.view.CursorIcon(), p.view.Transform().Angle())
	if err != nil {
		return desktop.DefaultCursor
	}
	return c.(desktop.Cursor)
}

func (p *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(canvasBG)
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleFastest
	return &pageCanvasRenderer{pc: p, bg: bg, img: img}
}

// pageCanvasRenderer composes the frame: background, warped page raster,
// then the overlay strokes and labels rebuilt from the current plan.
type pageCanvasRenderer struct {
	pc      *PageCanvas
	bg      *canvas.Rectangle
	img     *canvas.Image
	overlay []fyne.CanvasObject
}

func (r *pageCanvasRenderer) Destroy() {}

func (r *pageCanvasRenderer) MinSize() fyne.Size { return fyne.NewSize(200, 200) }

func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.bg, r.img}
	return append(objs, r.overlay...)
}

func (r *pageCanvasRenderer) Refresh() {
	r.Layout(r.pc.Size())
	canvas.Refresh(r.pc)
}

func (r *pageCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.img.Resize(size)
	r.img.Move(fyne.NewPos(0, 0))

	pw, ph := int(size.Width), int(size.Height)
	if pw < 1 || ph < 1 {
		return
	}
	r.pc.view.SetViewportShape(geom.Size{W: float64(pw), H: float64(ph)})

	if r.pc.backing == nil || r.pc.backing.Bounds().Dx() != pw || r.pc.backing.Bounds().Dy() != ph {
		r.pc.backing = image.NewRGBA(image.Rect(0, 0, pw, ph))
	}
	clear(r.pc.backing.Pix)
	if r.pc.src != nil {
		if af, err := r.pc.view.Transform().Affine(); err == nil {
			render.Page(r.pc.backing, r.pc.src, af)
		}
	}
	r.img.Image = r.pc.backing
	r.img.Refresh()

	r.overlay = r.overlay[:0]
	plan, err := r.pc.view.OverlayPlan()
	if err != nil {
		return
	}
	for _, s := range plan.Strokes {
		n := len(s.Pts)
		if n < 2 {
			continue
		}
		last := n - 1
		if !s.Closed {
			last = n - 2
		}
		for i := 0; i <= last; i++ {
			a := s.Pts[i]
			b := s.Pts[(i+1)%n]
			ln := canvas.NewLine(s.Color)
			ln.StrokeWidth = float32(s.Width)
			ln.Position1 = fyne.NewPos(float32(a.X), float32(a.Y))
			ln.Position2 = fyne.NewPos(float32(b.X), float32(b.Y))
			r.overlay = append(r.overlay, ln)
		}
	}
	for _, lb := range plan.Labels {
		txt := canvas.NewText(lb.Text, lb.Color)
		txt.TextSize = 14
		txt.TextStyle.Bold = true
		txt.Move(fyne.NewPos(float32(lb.At.X), float32(lb.At.Y)))
		r.overlay = append(r.overlay, txt)
	}
}

// recent comics live in app preferences, newest first
const recentComicsKey = "recent.comics"

func loadRecentComics(p fyne.Preferences) []string {
	raw := p.String(recentComicsKey)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, "\n") {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func saveRecentComics(p fyne.Preferences, items []string) {
	if len(items) > 8 {
		items = items[:8]
	}
	p.SetString(recentComicsKey, strings.Join(items, "\n"))
}

func addRecentComic(p fyne.Preferences, path string) {
	items := []string{path}
	for _, it := range loadRecentComics(p) {
		if it != path {
			items = append(items, it)
		}
	}
	saveRecentComics(p, items)
}

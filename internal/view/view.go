/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package view is the façade the UI talks to. It owns the viewport
// transform, the annotation machine, the projection cache, the page byte
// cache, the undo stacks and the inactivity timers, and exposes one
// coherent surface for page switching, gestures and drawing.
package view

import (
	"fmt"
	"log/slog"
	"time"

	"comicsviewer/internal/annotations"
	"comicsviewer/internal/config"
	"comicsviewer/internal/crash"
	"comicsviewer/internal/cursor"
	"comicsviewer/internal/geom"
	"comicsviewer/internal/input"
	applog "comicsviewer/internal/log"
	"comicsviewer/internal/pagecache"
	"comicsviewer/internal/telemetry"
	"comicsviewer/internal/tiles"
	"comicsviewer/internal/undo"
	"comicsviewer/internal/viewport"
)

// dragData freezes the state of the view at drag start. The pan is computed
// against this snapshot so the moving viewport does not feed back into the
// gesture.
type dragData struct {
	startPos    geom.Pt
	affine      *viewport.Affine
	startWidget geom.Pt
	startImg    geom.Pt
}

// View wires the annotation engine to one open comic page.
type View struct {
	log *slog.Logger
	cfg config.ViewerConfig

	tr      *viewport.Transform
	machine *tiles.Machine
	proj    *tiles.ProjectionCache
	cache   *pagecache.Cache
	undoMgr *undo.Manager

	queue input.Queue
	tasks input.Tasks
	nowFn func() time.Time

	comic string
	page  int

	showTiles  bool
	cursorIcon cursor.Icon
	tileTask   input.TaskID
	cursorTask input.TaskID

	drag        *dragData
	scaleAtZoom float64

	redraw func()
}

// New builds a view from the viewer configuration.
func New(cfg config.ViewerConfig) *View {
	tr := viewport.New()
	mcfg := tiles.DefaultConfig()
	if cfg.SnapThresholdPx > 0 {
		mcfg.SnapThresholdPx = cfg.SnapThresholdPx
	}
	if cfg.CloseThresholdPx > 0 {
		mcfg.CloseThresholdPx = cfg.CloseThresholdPx
	}
	v := &View{
		log:        applog.WithComponent("view"),
		cfg:        cfg,
		tr:         tr,
		machine:    tiles.NewMachine(mcfg, tr),
		cache:      pagecache.New(cfg.CacheMaxBytes),
		undoMgr:    undo.NewManager(undo.Config{}),
		nowFn:      time.Now,
		cursorIcon: cursor.Default,
	}
	v.proj = tiles.NewProjectionCache(tr, v.machine)
	v.machine.SetOnCommit(v.onCommit)
	v.machine.SetRedraw(v.queueDraw)
	v.tr.OnChange(v.queueDraw)
	return v
}

// SetRedraw installs the callback that schedules a repaint.
func (v *View) SetRedraw(fn func()) { v.redraw = fn }

// Transform exposes the viewport transform for render consumers.
func (v *View) Transform() *viewport.Transform { return v.tr }

// Machine exposes the annotation state machine.
func (v *View) Machine() *tiles.Machine { return v.machine }

// Cache returns the page byte cache.
func (v *View) Cache() *pagecache.Cache { return v.cache }

// PageKey returns the cache key for a page of the open comic.
func (v *View) PageKey(page int) string { return fmt.Sprintf("%s#%d", v.comic, page) }

// Comic returns the open comic path.
func (v *View) Comic() string { return v.comic }

// Page returns the open page number.
func (v *View) Page() int { return v.page }

// OpenComic switches to a comic archive. The page state resets.
func (v *View) OpenComic(path string) {
	v.comic = path
	v.page = 0
	v.machine.Reset()
	v.log.Info("open comic", slog.String("path", path))
	telemetry.ComicOpened()
}

// OpenPage installs a page: its pixel shape and, when present, the stored
// annotations document. Gesture state and the dirty flag reset; the overlay
// starts hidden.
func (v *View) OpenPage(page int, shape geom.Size, doc []byte) error {
	polys := []geom.Polygon(nil)
	if len(doc) > 0 {
		p, err := annotations.Decode(doc)
		if err != nil {
			return fmt.Errorf("open page %d: %w", page, err)
		}
		polys = p
	}
	v.page = page
	v.tr.SetImageShape(shape)
	v.machine.Reset()
	v.machine.SetTiles(polys)
	v.showTiles = false
	v.proj.Invalidate()
	// seed the history with the persisted baseline so the first gesture can
	// be undone back to it
	v.undoMgr.ClearPage(page)
	if base, err := annotations.Encode(polys); err == nil {
		// backdated so an immediate first gesture never coalesces into the
		// baseline snapshot
		v.undoMgr.PushSnapshot(undo.Snapshot{Page: page, Blob: base, TS: v.nowFn().Add(-time.Minute)})
	}
	v.log.Debug("open page", slog.Int("page", page),
		slog.Int("tiles", v.machine.Set().Len()))
	telemetry.PageViewed(page)
	v.queueDraw()
	return nil
}

// SetViewportShape tells the view how large its widget is.
func (v *View) SetViewportShape(s geom.Size) { v.tr.SetViewportShape(s) }

// Scale returns the zoom factor.
func (v *View) Scale() float64 { return v.tr.Scale() }

// SetScale sets the zoom factor, clamped by the transform.
func (v *View) SetScale(s float64) { v.tr.SetScale(s) }

// Dirty reports whether the page has unpersisted annotation changes.
func (v *View) Dirty() bool { return v.machine.Dirty() }

// AnnotationsDoc encodes the current tile set for persistence.
func (v *View) AnnotationsDoc() ([]byte, error) {
	return annotations.Encode(v.machine.Tiles())
}

// MarkClean re-installs the current tiles as the persisted baseline,
// clearing the dirty flag. The host calls it after a successful save.
func (v *View) MarkClean() {
	v.machine.SetTiles(v.machine.Tiles())
}

// CrashDump captures what should survive a panic.
func (v *View) CrashDump() *crash.Dump {
	d := &crash.Dump{Comic: v.comic, Page: v.page}
	if v.machine.Dirty() {
		if doc, err := annotations.Encode(v.machine.Tiles()); err == nil {
			d.Annotations = doc
		}
	}
	return d
}

// onCommit records the post-commit document so Undo can walk back through
// commit states down to the page baseline.
func (v *View) onCommit() {
	if doc, err := annotations.Encode(v.machine.Tiles()); err == nil {
		v.undoMgr.PushSnapshot(undo.Snapshot{Page: v.page, Blob: doc, TS: v.nowFn()})
	}
	telemetry.TilesCommitted(v.machine.Set().Len())
}

// Undo restores the annotation state before the last commit. The baseline
// stays on the stack; undoing past it is not possible.
func (v *View) Undo() bool {
	if depth, _ := v.undoMgr.Depth(v.page); depth < 2 {
		return false
	}
	if _, ok := v.undoMgr.Undo(v.page); !ok {
		return false
	}
	s, ok := v.undoMgr.Peek(v.page)
	if !ok {
		return false
	}
	return v.applyDoc(s.Blob)
}

// Redo re-applies an undone commit.
func (v *View) Redo() bool {
	s, ok := v.undoMgr.Redo(v.page)
	if !ok {
		return false
	}
	return v.applyDoc(s.Blob)
}

func (v *View) applyDoc(doc []byte) bool {
	polys, err := annotations.Decode(doc)
	if err != nil {
		v.log.Warn("history blob unreadable", slog.Any("err", err))
		return false
	}
	v.machine.SetTiles(polys)
	v.proj.Invalidate()
	v.queueDraw()
	return true
}

func (v *View) queueDraw() {
	if v.redraw != nil {
		v.redraw()
	}
}

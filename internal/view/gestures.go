/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package view

import (
	"comicsviewer/internal/cursor"
	"comicsviewer/internal/geom"
	"comicsviewer/internal/input"
	"comicsviewer/internal/viewport"
)

// Pen and eraser events from the toolkit. Positions are widget coordinates.
// Events go through the queue so delivery order matches arrival order even
// when a handler pushes follow-up events.

func (v *View) PenDown(pos geom.Pt)     { v.pushEvent(input.Event{Kind: input.PenDown, Pos: pos}) }
func (v *View) PenUp(pos geom.Pt)       { v.pushEvent(input.Event{Kind: input.PenUp, Pos: pos}) }
func (v *View) EraserDown(pos geom.Pt)  { v.pushEvent(input.Event{Kind: input.EraserDown, Pos: pos}) }
func (v *View) EraserUp(pos geom.Pt)    { v.pushEvent(input.Event{Kind: input.EraserUp, Pos: pos}) }
func (v *View) PointerMove(pos geom.Pt) { v.pushEvent(input.Event{Kind: input.Move, Pos: pos}) }
func (v *View) PointerLeft()            { v.pushEvent(input.Event{Kind: input.Leave}) }

// ToggleMode forwards the mode toggle and refreshes the drawing cursor.
func (v *View) ToggleMode() {
	v.machine.ToggleMode()
	v.tileActivity()
}

func (v *View) pushEvent(ev input.Event) {
	v.queue.Push(ev)
	v.queue.Dispatch(v.machine)
	switch ev.Kind {
	case input.PenDown, input.PenUp, input.EraserDown, input.EraserUp:
		v.tileActivity()
	case input.Move:
		v.cursorActivity()
	}
}

// DragBegin starts a pan. The current affine is frozen so the gesture math
// stays stable while the view moves under the pointer.
func (v *View) DragBegin(w geom.Pt) {
	af, err := v.tr.Affine()
	if err != nil {
		return
	}
	img, err := viewport.WidgetToImageAffine(w, af)
	if err != nil {
		return
	}
	v.drag = &dragData{
		startPos:    v.tr.Position(),
		affine:      af,
		startWidget: w,
		startImg:    img,
	}
}

// DragUpdate pans by the widget-space offset from the drag start.
func (v *View) DragUpdate(offset geom.Pt) {
	if v.drag == nil {
		return
	}
	cur, err := viewport.WidgetToImageAffine(v.drag.startWidget.Add(offset), v.drag.affine)
	if err != nil {
		return
	}
	v.tr.SetPosition(v.drag.startPos.Sub(cur.Sub(v.drag.startImg)))
}

// DragEnd finishes the pan.
func (v *View) DragEnd() { v.drag = nil }

// ZoomBegin remembers the scale so a cancelled pinch can restore it.
func (v *View) ZoomBegin() { v.scaleAtZoom = v.tr.Scale() }

// ZoomChanged applies a pinch scale delta relative to the gesture start.
func (v *View) ZoomChanged(delta float64) {
	if v.scaleAtZoom == 0 {
		v.scaleAtZoom = v.tr.Scale()
	}
	v.tr.SetScale(v.scaleAtZoom * delta)
}

// ZoomCancel restores the scale from the gesture start.
func (v *View) ZoomCancel() {
	if v.scaleAtZoom != 0 {
		v.tr.SetScale(v.scaleAtZoom)
	}
	v.scaleAtZoom = 0
}

// ZoomEnd finishes the pinch, keeping the current scale.
func (v *View) ZoomEnd() { v.scaleAtZoom = 0 }

// CursorIcon returns the icon the drawing surface should show right now.
func (v *View) CursorIcon() cursor.Icon { return v.cursorIcon }

// TilesVisible reports whether the overlay should be painted.
func (v *View) TilesVisible() bool { return v.showTiles }

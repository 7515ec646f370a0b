/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package view

import (
	"time"

	"comicsviewer/internal/cursor"
	"comicsviewer/internal/render"
)

// Inactivity handling: drawing activity shows the overlay and the tool
// cursor; pointer motion shows the default cursor. Each kind of activity
// re-arms its own hide deadline, and Tick fires whatever is due.

// tileActivity marks annotation activity: the overlay becomes visible with
// the tool cursor, and the hide deadline restarts.
func (v *View) tileActivity() {
	v.cursorIcon = cursor.IconFor(v.machine.State())
	v.showTiles = true
	now := v.nowFn()
	v.tasks.Cancel(v.tileTask)
	v.tileTask = v.tasks.After(now, v.cfg.TileTimeout(), func() {
		v.showTiles = false
		v.queueDraw()
	})
	v.queueDraw()
}

// cursorActivity marks plain pointer motion: the default cursor shows and
// its hide deadline restarts.
func (v *View) cursorActivity() {
	v.cursorIcon = cursor.Default
	now := v.nowFn()
	v.tasks.Cancel(v.cursorTask)
	v.cursorTask = v.tasks.After(now, v.cfg.CursorTimeout(), func() {
		v.cursorIcon = cursor.None
		v.queueDraw()
	})
}

// Tick runs due inactivity deadlines. The host calls it from a coarse
// ticker, about once a second.
func (v *View) Tick(now time.Time) { v.tasks.RunDue(now) }

// OverlayPlan returns the strokes and labels to paint this frame. While the
// overlay is hidden the plan is empty.
func (v *View) OverlayPlan() (render.Plan, error) {
	if !v.showTiles {
		return render.Plan{}, nil
	}
	projected, err := v.proj.Tiles()
	if err != nil {
		return render.Plan{}, err
	}
	eph, err := v.proj.Gesture()
	if err != nil {
		return render.Plan{}, err
	}
	return render.BuildOverlay(projected, eph), nil
}

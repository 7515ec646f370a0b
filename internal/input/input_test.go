/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package input

import (
	"testing"
	"time"

	"comicsviewer/internal/geom"
)

// recorder logs delivered events for order assertions.
type recorder struct {
	log   []Kind
	queue *Queue // when set, PointerDown pushes a follow-up move
}

func (r *recorder) PointerDown(geom.Pt) {
	r.log = append(r.log, PenDown)
	if r.queue != nil {
		r.queue.Push(Event{Kind: Move, Pos: geom.P(1, 1)})
		r.queue = nil
	}
}
func (r *recorder) PointerMove(geom.Pt) { r.log = append(r.log, Move) }
func (r *recorder) PointerUp(geom.Pt)   { r.log = append(r.log, PenUp) }
func (r *recorder) EraserDown(geom.Pt)  { r.log = append(r.log, EraserDown) }
func (r *recorder) EraserUp(geom.Pt)    { r.log = append(r.log, EraserUp) }
func (r *recorder) PointerLeft()        { r.log = append(r.log, Leave) }

func TestQueuePreservesArrivalOrder(t *testing.T) {
	var q Queue
	q.Push(Event{Kind: PenDown, Pos: geom.P(0, 0)})
	q.Push(Event{Kind: Move, Pos: geom.P(5, 5)})
	q.Push(Event{Kind: PenUp, Pos: geom.P(10, 10)})
	q.Push(Event{Kind: Leave})

	var r recorder
	q.Dispatch(&r)
	want := []Kind{PenDown, Move, PenUp, Leave}
	if len(r.log) != len(want) {
		t.Fatalf("delivered %d events, want %d", len(r.log), len(want))
	}
	for i, k := range want {
		if r.log[i] != k {
			t.Fatalf("event %d = %v, want %v", i, r.log[i], k)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("queue must be empty after dispatch")
	}
}

func TestQueueEventsPushedDuringDispatch(t *testing.T) {
	var q Queue
	r := &recorder{queue: &q}
	q.Push(Event{Kind: PenDown, Pos: geom.P(0, 0)})
	q.Push(Event{Kind: PenUp, Pos: geom.P(10, 10)})
	q.Dispatch(r)
	// the move pushed from inside PointerDown lands after the already
	// queued pen-up, preserving arrival order
	want := []Kind{PenDown, PenUp, Move}
	for i, k := range want {
		if r.log[i] != k {
			t.Fatalf("event %d = %v, want %v", i, r.log[i], k)
		}
	}
}

func TestTasksRunInDeadlineOrder(t *testing.T) {
	var ts Tasks
	now := time.Unix(1000, 0)
	var order []string
	ts.After(now, 2*time.Second, func() { order = append(order, "b") })
	ts.After(now, 1*time.Second, func() { order = append(order, "a") })
	ts.After(now, 5*time.Second, func() { order = append(order, "late") })

	if n := ts.RunDue(now.Add(3 * time.Second)); n != 2 {
		t.Fatalf("ran %d tasks, want 2", n)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("wrong run order: %v", order)
	}
	if ts.Len() != 1 {
		t.Fatalf("undue task must stay pending")
	}
}

func TestTasksCancel(t *testing.T) {
	var ts Tasks
	now := time.Unix(1000, 0)
	fired := false
	id := ts.After(now, time.Second, func() { fired = true })
	ts.Cancel(id)
	ts.Cancel(id) // double cancel is a no-op
	ts.RunDue(now.Add(time.Minute))
	if fired {
		t.Fatalf("cancelled task must not run")
	}
}

func TestTasksNextDeadline(t *testing.T) {
	var ts Tasks
	if _, ok := ts.Next(); ok {
		t.Fatalf("empty queue has no next deadline")
	}
	now := time.Unix(1000, 0)
	ts.After(now, 5*time.Second, func() {})
	ts.After(now, 2*time.Second, func() {})
	next, ok := ts.Next()
	if !ok || !next.Equal(now.Add(2*time.Second)) {
		t.Fatalf("next = %v ok=%v", next, ok)
	}
}

func TestTasksRescheduleFromCallback(t *testing.T) {
	var ts Tasks
	now := time.Unix(1000, 0)
	runs := 0
	ts.After(now, time.Second, func() {
		runs++
		// re-arm already due: must run in the same drain
		ts.Schedule(now, func() { runs++ })
	})
	ts.RunDue(now.Add(2 * time.Second))
	if runs != 2 {
		t.Fatalf("expected chained task to run, got %d runs", runs)
	}
}

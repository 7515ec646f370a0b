/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package input decouples toolkit pointer callbacks from the annotation
// engine. Toolkit handlers push events onto a queue; the host drains the
// queue into a Sink on its own schedule. Events are always delivered in
// arrival order, including events pushed from inside a sink callback.
package input

import (
	"comicsviewer/internal/geom"
)

// Kind identifies a low-level pointer event.
type Kind int

const (
	PenDown Kind = iota
	PenUp
	EraserDown
	EraserUp
	Move
	Leave
)

func (k Kind) String() string {
	switch k {
	case PenDown:
		return "pen-down"
	case PenUp:
		return "pen-up"
	case EraserDown:
		return "eraser-down"
	case EraserUp:
		return "eraser-up"
	case Move:
		return "move"
	case Leave:
		return "leave"
	default:
		return "unknown"
	}
}

// Event is a pointer event in widget coordinates. Pos is meaningless for
// Leave.
type Event struct {
	Kind Kind
	Pos  geom.Pt
}

// Sink consumes pointer events. The annotation state machine implements it.
type Sink interface {
	PointerDown(geom.Pt)
	PointerMove(geom.Pt)
	PointerUp(geom.Pt)
	EraserDown(geom.Pt)
	EraserUp(geom.Pt)
	PointerLeft()
}

// Queue is a FIFO pointer-event queue. It is not safe for concurrent use;
// toolkit callbacks and Dispatch run on the same UI goroutine.
type Queue struct {
	events      []Event
	dispatching bool
}

// Push appends an event. Pushing from inside a Dispatch callback is fine;
// the running drain picks the event up in order.
func (q *Queue) Push(ev Event) {
	q.events = append(q.events, ev)
}

// Len returns the number of queued events.
func (q *Queue) Len() int { return len(q.events) }

// Dispatch drains the queue into sink in arrival order. Nested calls are
// no-ops so a sink callback cannot reorder delivery.
func (q *Queue) Dispatch(sink Sink) {
	if q.dispatching {
		return
	}
	q.dispatching = true
	defer func() { q.dispatching = false }()
	for len(q.events) > 0 {
		ev := q.events[0]
		q.events = q.events[1:]
		deliver(sink, ev)
	}
	q.events = nil
}

func deliver(sink Sink, ev Event) {
	switch ev.Kind {
	case PenDown:
		sink.PointerDown(ev.Pos)
	case PenUp:
		sink.PointerUp(ev.Pos)
	case EraserDown:
		sink.EraserDown(ev.Pos)
	case EraserUp:
		sink.EraserUp(ev.Pos)
	case Move:
		sink.PointerMove(ev.Pos)
	case Leave:
		sink.PointerLeft()
	}
}

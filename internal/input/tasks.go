/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package input

import (
	"sort"
	"time"
)

// TaskID identifies a scheduled task for cancellation.
type TaskID int

// Tasks is a deadline-ordered one-shot task queue. The host calls RunDue
// from its frame loop or a coarse ticker; tasks fire in deadline order once
// their deadline has passed. Time is always passed in explicitly, which
// keeps scheduling deterministic under test.
type Tasks struct {
	nextID TaskID
	tasks  []task
}

type task struct {
	id       TaskID
	deadline time.Time
	fn       func()
}

// Schedule registers fn to run once deadline has passed and returns its id.
func (t *Tasks) Schedule(deadline time.Time, fn func()) TaskID {
	t.nextID++
	t.tasks = append(t.tasks, task{id: t.nextID, deadline: deadline, fn: fn})
	return t.nextID
}

// After registers fn to run d after now.
func (t *Tasks) After(now time.Time, d time.Duration, fn func()) TaskID {
	return t.Schedule(now.Add(d), fn)
}

// Cancel removes a pending task. Cancelling an unknown or already-run id is
// a no-op.
func (t *Tasks) Cancel(id TaskID) {
	for i, tk := range t.tasks {
		if tk.id == id {
			t.tasks = append(t.tasks[:i], t.tasks[i+1:]...)
			return
		}
	}
}

// Len returns the number of pending tasks.
func (t *Tasks) Len() int { return len(t.tasks) }

// Next returns the earliest pending deadline. ok is false when no tasks are
// pending.
func (t *Tasks) Next() (time.Time, bool) {
	if len(t.tasks) == 0 {
		return time.Time{}, false
	}
	min := t.tasks[0].deadline
	for _, tk := range t.tasks[1:] {
		if tk.deadline.Before(min) {
			min = tk.deadline
		}
	}
	return min, true
}

// RunDue executes every task whose deadline is at or before now, in deadline
// order, and returns how many ran. Tasks scheduled by a running task are
// honored in the same call when already due.
func (t *Tasks) RunDue(now time.Time) int {
	ran := 0
	for {
		due := make([]task, 0, len(t.tasks))
		rest := t.tasks[:0]
		for _, tk := range t.tasks {
			if !tk.deadline.After(now) {
				due = append(due, tk)
			} else {
				rest = append(rest, tk)
			}
		}
		if len(due) == 0 {
			t.tasks = rest
			return ran
		}
		t.tasks = rest
		sort.SliceStable(due, func(i, j int) bool {
			return due[i].deadline.Before(due[j].deadline)
		})
		for _, tk := range due {
			tk.fn()
			ran++
		}
	}
}

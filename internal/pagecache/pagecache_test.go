/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package pagecache

import (
	"bytes"
	"testing"
)

func TestStoreGet(t *testing.T) {
	c := New(10)
	c.Store("a", []byte{0})
	if got := c.Get("a"); !bytes.Equal(got, []byte{0}) {
		t.Fatalf("Get returned %v", got)
	}
}

func TestLeastRecentlyUsedIsDropped(t *testing.T) {
	c := New(1)
	c.Store("a", []byte{0})
	c.Store("b", []byte{1})
	if c.Get("a") != nil {
		t.Fatalf("oldest entry should have been evicted")
	}
	if got := c.Get("b"); !bytes.Equal(got, []byte{1}) {
		t.Fatalf("newest entry lost: %v", got)
	}
}

func TestGetRefreshesRecency(t *testing.T) {
	c := New(2)
	c.Store("a", []byte{0})
	c.Store("b", []byte{1})
	c.Get("a") // a becomes most recent
	c.Store("c", []byte{2})
	if c.Get("b") != nil {
		t.Fatalf("b should have been evicted, not a")
	}
	if c.Get("a") == nil {
		t.Fatalf("recently used entry must survive")
	}
}

func TestShrinkingBudgetEvicts(t *testing.T) {
	c := New(3)
	c.Store("a", []byte{0})
	c.Store("b", []byte{1})
	c.Store("c", []byte{2})
	c.SetMaxSize(2)
	if c.Get("a") != nil {
		t.Fatalf("shrinking the budget must evict the oldest entry")
	}
	if c.Get("b") == nil || c.Get("c") == nil {
		t.Fatalf("remaining entries must survive the shrink")
	}
}

func TestFits(t *testing.T) {
	c := New(3)
	c.Store("a", []byte{0})
	if !c.Fits(2) {
		t.Fatalf("2 more bytes should fit")
	}
	if c.Fits(3) {
		t.Fatalf("3 more bytes should not fit")
	}
}

func TestZeroBudgetStoresNothing(t *testing.T) {
	c := New(0)
	c.Store("a", []byte{0})
	if c.Get("a") != nil || c.Len() != 0 || c.Size() != 0 {
		t.Fatalf("zero budget cache must stay empty")
	}
}

func TestReplaceAdjustsSize(t *testing.T) {
	c := New(10)
	c.Store("a", []byte{0, 1, 2, 3})
	c.Store("a", []byte{0})
	if c.Size() != 1 {
		t.Fatalf("size after replace = %d, want 1", c.Size())
	}
	if c.Len() != 1 {
		t.Fatalf("replace must not duplicate the entry")
	}
}

// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interval

import (
	"fmt"
	"iter"
	"slices"

	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints" //nolint:exptostd // Tries to replace w/ cmp.
)

// Endpoint is a type that may be used as an interval endpoint.
type Endpoint = constraints.Integer

// Intersect stores possibly overlapping intervals, each with a value, as a
// set of disjoint entries. Each entry holds the values of every interval
// covering it, in insertion order.
//
// A zero value is ready to use.
type Intersect[K Endpoint, V any] struct {
	// Keyed by the inclusive end of each entry.
	tree btree.Map[K, *Entry[K, []V]]
}

// Entry is a closed interval with a value.
type Entry[K Endpoint, V any] struct {
	Start, End K
	Value      V
}

// Contains returns whether point lies in the entry.
func (e Entry[K, V]) Contains(point K) bool {
	return e.Start <= point && point <= e.End
}

// Get returns the entry containing point. Its Value is nil if no interval
// contains point.
func (m *Intersect[K, V]) Get(point K) Entry[K, []V] {
	it := m.tree.Iter()
	if !it.Seek(point) || !it.Value().Contains(point) {
		return Entry[K, []V]{}
	}
	return *it.Value()
}

// Entries yields every entry in order.
func (m *Intersect[K, V]) Entries() iter.Seq[Entry[K, []V]] {
	return func(yield func(Entry[K, []V]) bool) {
		m.tree.Scan(func(_ K, e *Entry[K, []V]) bool {
			return yield(*e)
		})
	}
}

// Len returns the number of entries.
func (m *Intersect[K, V]) Len() int {
	return m.tree.Len()
}

// Insert adds the closed interval [start, end] with value, splitting the
// entries it overlaps. Returns whether it overlapped nothing.
func (m *Intersect[K, V]) Insert(start, end K, value V) (disjoint bool) {
	if start > end {
		panic(fmt.Sprintf("oak/interval: start (%#v) > end (%#v)", start, end))
	}

	hit := slices.Collect(m.intersect(start, end))
	if len(hit) == 0 {
		m.put(start, end, []V{value})
		return true
	}
	for _, e := range hit {
		m.tree.Delete(e.End)
	}

	// Every piece begins at a cut, and lies entirely inside or outside each
	// interval involved.
	cuts := []K{start, end + 1}
	for _, e := range hit {
		cuts = append(cuts, e.Start, e.End+1)
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	for i := range len(cuts) - 1 {
		lo, hi := cuts[i], cuts[i+1]-1
		var values []V
		for _, e := range hit {
			if e.Start <= lo && hi <= e.End {
				values = append(values, e.Value...)
			}
		}
		if start <= lo && hi <= end {
			values = append(values, value)
		}
		if values != nil {
			m.put(lo, hi, values)
		}
	}
	return false
}

// Overlapping yields the entries that overlap [start, end], in order.
func (m *Intersect[K, V]) Overlapping(start, end K) iter.Seq[Entry[K, []V]] {
	if start > end {
		panic(fmt.Sprintf("oak/interval: start (%#v) > end (%#v)", start, end))
	}
	return func(yield func(Entry[K, []V]) bool) {
		for e := range m.intersect(start, end) {
			if !yield(*e) {
				return
			}
		}
	}
}

func (m *Intersect[K, V]) put(start, end K, values []V) {
	m.tree.Set(end, &Entry[K, []V]{Start: start, End: end, Value: values})
}

// intersect yields the stored entries overlapping [start, end].
func (m *Intersect[K, V]) intersect(start, end K) iter.Seq[*Entry[K, []V]] {
	return func(yield func(*Entry[K, []V]) bool) {
		it := m.tree.Iter()
		for ok := it.Seek(start); ok && it.Value().Start <= end; ok = it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

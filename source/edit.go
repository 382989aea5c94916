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

package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bufbuild/oak/internal/interval"
	"github.com/bufbuild/oak/oakerr"
)

// TextEdit replaces Range, in the coordinates of the previous revision of a
// document, with Text.
type TextEdit struct {
	Range Range
	Text  string
}

// Insert returns an edit inserting text at offset.
func Insert(offset int, text string) TextEdit {
	return TextEdit{Range: Range{offset, offset}, Text: text}
}

// Replace returns an edit replacing [start, end) with text.
func Replace(start, end int, text string) TextEdit {
	return TextEdit{Range: NewRange(start, end), Text: text}
}

// Delta returns the change in document length caused by this edit.
func (e TextEdit) Delta() int {
	return len(e.Text) - e.Range.Len()
}

// String implements [fmt.Stringer].
func (e TextEdit) String() string {
	return fmt.Sprintf("%v -> %q", e.Range, e.Text)
}

// ValidateEdits checks that edits are in bounds for a document of length
// oldLen, sorted, and pairwise disjoint.
//
// Adjacent edits are allowed. Two insertions at the same offset are not,
// since their relative order would be ambiguous. Any violation is reported
// as an [oakerr.MalformedEditList] error.
func ValidateEdits(edits []TextEdit, oldLen int) error {
	_, err := NewEditSet(edits, oldLen)
	return err
}

// ApplyEdits applies edits to text.
func ApplyEdits(text string, edits []TextEdit) (string, error) {
	if err := ValidateEdits(edits, len(text)); err != nil {
		return "", err
	}

	var b strings.Builder
	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}
	b.Grow(len(text) + max(delta, 0))

	prev := 0
	for _, e := range edits {
		b.WriteString(text[prev:e.Range.Start])
		b.WriteString(e.Text)
		prev = e.Range.End
	}
	b.WriteString(text[prev:])
	return b.String(), nil
}

// EditSet is a validated list of edits, indexed for the queries incremental
// reparsing needs.
type EditSet struct {
	edits  []TextEdit
	oldLen int

	// Positions of the edits in the new document.
	newStarts, newEnds []int

	replaced interval.Map[int, int] // [Start, End-1] -> edit index.
	inserted interval.Map[int, int] // [Start, Start] -> edit index.
}

// NewEditSet validates edits against a document of length oldLen.
func NewEditSet(edits []TextEdit, oldLen int) (*EditSet, error) {
	s := &EditSet{
		edits:     edits,
		oldLen:    oldLen,
		newStarts: make([]int, len(edits)),
		newEnds:   make([]int, len(edits)),
	}

	delta := 0
	for i, e := range edits {
		r := e.Range
		if r.Start < 0 || r.End < r.Start || r.End > oldLen {
			return nil, oakerr.NewMalformedEdits(
				"edit %d (%v) is out of bounds for a document of length %d", i, r, oldLen)
		}
		if i > 0 && r.Start < edits[i-1].Range.End {
			return nil, oakerr.NewMalformedEdits(
				"edit %d (%v) starts before the end of edit %d (%v)", i, r, i-1, edits[i-1].Range)
		}

		var overlap interval.Interval[int, int]
		if r.Empty() {
			overlap = s.inserted.Insert(r.Start, r.Start, i)
		} else {
			overlap = s.replaced.Insert(r.Start, r.End-1, i)
		}
		if overlap.Value != nil {
			return nil, oakerr.NewMalformedEdits(
				"edit %d (%v) overlaps edit %d (%v)", i, r, *overlap.Value, edits[*overlap.Value].Range)
		}

		s.newStarts[i] = r.Start + delta
		s.newEnds[i] = s.newStarts[i] + len(e.Text)
		delta += e.Delta()
	}

	return s, nil
}

// Edits returns the underlying edits.
func (s *EditSet) Edits() []TextEdit {
	return s.edits
}

// Len returns the number of edits.
func (s *EditSet) Len() int {
	return len(s.edits)
}

// OldLen returns the length of the document the edits apply to.
func (s *EditSet) OldLen() int {
	return s.oldLen
}

// NewLen returns the length of the document after applying the edits.
func (s *EditSet) NewLen() int {
	return s.oldLen + s.Delta()
}

// Delta returns the net change in length.
func (s *EditSet) Delta() int {
	n := 0
	for _, e := range s.edits {
		n += e.Delta()
	}
	return n
}

// FirstChange returns the offset of the first edit, which is the same in
// both revisions. Returns the old length if there are no edits.
func (s *EditSet) FirstChange() int {
	if len(s.edits) == 0 {
		return s.oldLen
	}
	return s.edits[0].Range.Start
}

// Dirty returns whether the old range r is affected by any edit: it shares
// a byte with a replaced range, or an insertion point lies strictly inside
// it.
//
// Ranges that merely touch an edit are not dirty; callers must still verify
// that the text around them lexes the same way.
func (s *EditSet) Dirty(r Range) bool {
	if r.Empty() {
		return false
	}
	if s.replaced.Find(r.Start, r.End-1).Value != nil {
		return true
	}
	return r.Len() >= 2 && s.inserted.Find(r.Start+1, r.End-1).Value != nil
}

// NewToOld maps an offset in the new document to the old one. Returns false
// if the offset lies within text inserted by an edit.
func (s *EditSet) NewToOld(pos int) (int, bool) {
	// Index of the last edit starting at or before pos.
	i := sort.Search(len(s.edits), func(i int) bool { return s.newStarts[i] > pos }) - 1
	if i < 0 {
		return pos, true
	}
	if pos < s.newEnds[i] {
		return 0, false
	}
	return s.edits[i].Range.End + (pos - s.newEnds[i]), true
}

// OldToNew maps an offset in the old document to the new one. Returns false
// if the offset lies strictly inside a replaced range.
func (s *EditSet) OldToNew(pos int) (int, bool) {
	i := sort.Search(len(s.edits), func(i int) bool { return s.edits[i].Range.Start > pos }) - 1
	if i < 0 {
		return pos, true
	}
	e := s.edits[i].Range
	switch {
	case pos >= e.End:
		// Old text after an insertion point follows the inserted text.
		return s.newEnds[i] + (pos - e.End), true
	case pos == e.Start:
		return s.newStarts[i], true
	default:
		return 0, false
	}
}

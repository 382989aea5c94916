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

package report

import (
	"slices"

	"github.com/bufbuild/oak/internal/interval"
	"github.com/bufbuild/oak/source"
)

// Index answers positional queries over a report, such as "which
// diagnostics cover the cursor".
//
// An Index is a snapshot; diagnostics added to the report afterwards are
// not seen.
type Index struct {
	report Report
	spans  interval.Intersect[int, int]
}

// NewIndex builds an index over r.
func NewIndex(r Report) *Index {
	idx := &Index{report: r}
	for i, d := range r {
		start, end := bounds(d.Range)
		idx.spans.Insert(start, end, i)
	}
	return idx
}

// At returns the diagnostics whose range contains offset, in recording
// order. An empty range contains the offset it points at.
func (idx *Index) At(offset int) []Diagnostic {
	return idx.collect(idx.spans.Get(offset).Value)
}

// Overlapping returns the diagnostics whose range overlaps r, in recording
// order.
func (idx *Index) Overlapping(r source.Range) []Diagnostic {
	start, end := bounds(r)
	var found []int
	for entry := range idx.spans.Overlapping(start, end) {
		found = append(found, entry.Value...)
	}
	slices.Sort(found)
	return idx.collect(slices.Compact(found))
}

func (idx *Index) collect(indices []int) []Diagnostic {
	if len(indices) == 0 {
		return nil
	}
	indices = slices.Sorted(slices.Values(indices))
	out := make([]Diagnostic, len(indices))
	for i, j := range indices {
		out[i] = idx.report[j]
	}
	return out
}

// bounds converts a half-open range into the inclusive interval used by the
// index.
func bounds(r source.Range) (int, int) {
	if r.Empty() {
		return r.Start, r.Start
	}
	return r.Start, r.End - 1
}

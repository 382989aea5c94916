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

import "fmt"

// Range is a half-open byte range [Start, End).
type Range struct {
	Start, End int
}

// NewRange returns the range [start, end). Panics if end < start.
func NewRange(start, end int) Range {
	if end < start {
		panic(fmt.Sprintf("oak/source: invalid range %d..%d", start, end))
	}
	return Range{start, end}
}

// Len returns the number of bytes in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Empty returns whether the range covers no bytes.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Contains returns whether offset lies inside r. The end offset is not
// contained, except that an empty range contains its own start.
func (r Range) Contains(offset int) bool {
	if r.Empty() {
		return offset == r.Start
	}
	return r.Start <= offset && offset < r.End
}

// ContainsRange returns whether other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Overlaps returns whether r and other share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Join returns the smallest range containing both r and other.
func (r Range) Join(other Range) Range {
	return Range{min(r.Start, other.Start), max(r.End, other.End)}
}

// Shift returns r moved by delta bytes.
func (r Range) Shift(delta int) Range {
	return Range{r.Start + delta, r.End + delta}
}

// String implements [fmt.Stringer].
func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

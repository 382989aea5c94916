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

package arena

// defaultSlabLen is the number of elements in a freshly allocated slab
// chunk.
const defaultSlabLen = 1024

// Slab allocates many small slices out of a few large buffers.
//
// Returned slices have their capacity clipped, so appending to one never
// writes into a neighbor. Memory is released only when the whole Slab is
// unreachable.
//
// A zero Slab is ready to use.
type Slab[T any] struct {
	// ChunkLen overrides defaultSlabLen when positive.
	ChunkLen int

	chunk []T
	used  int
	total int
}

// Make returns a zeroed slice of length n. Returns nil for n <= 0.
func (s *Slab[T]) Make(n int) []T {
	if n <= 0 {
		return nil
	}

	if len(s.chunk)-s.used < n {
		size := s.ChunkLen
		if size <= 0 {
			size = defaultSlabLen
		}
		// Oversized requests get their own chunk; the remainder of the
		// current chunk is abandoned.
		s.chunk = make([]T, max(size, n))
		s.used = 0
	}

	start := s.used
	s.used += n
	s.total += n
	return s.chunk[start:s.used:s.used]
}

// Copy allocates a copy of src.
func (s *Slab[T]) Copy(src []T) []T {
	dst := s.Make(len(src))
	copy(dst, src)
	return dst
}

// Len returns the total number of elements handed out.
func (s *Slab[T]) Len() int {
	return s.total
}

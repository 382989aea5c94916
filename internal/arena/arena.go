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

// Package arena provides stable-address storage for tree data.
//
// An [Arena] never moves a value once allocated, so both plain pointers and
// compressed 32-bit [Pointer]s into it stay valid for the arena's lifetime.
// A [Slab] hands out short slices carved from large shared buffers.
package arena

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"
	"unsafe"
)

// pointersMinLenShift is the log2 of the size of the smallest slice in
// an Arena's table.
const (
	pointersMinLenShift = 4
	pointersMinLen      = 1 << pointersMinLenShift
)

// Untyped is an untyped arena pointer.
//
// The value of a pointer is one plus the number of elements allocated before
// it; zero is nil.
type Untyped uint32

// Nil returns whether this pointer is nil.
func (p Untyped) Nil() bool {
	return p == 0
}

// Pointer is a compressed arena pointer. The zero value is nil.
type Pointer[T any] Untyped

// Nil returns whether this pointer is nil.
func (p Pointer[T]) Nil() bool {
	return Untyped(p).Nil()
}

// Arena is a growable sequence of T that guarantees the Ts will never be
// moved.
//
// It maintains a table of slices whose capacities double, mimicking the
// resizing of an ordinary slice without ever copying. Lookup by compressed
// pointer is O(1).
//
// A zero Arena is empty and ready to use.
type Arena[T any] struct {
	// Invariants:
	// 1. cap(table[0]) == pointersMinLen.
	// 2. cap(table[n]) == 2*cap(table[n-1]).
	// 3. len(table[n]) == cap(table[n]) for n < len(table)-1.
	table [][]T
}

// New allocates a value and returns its compressed pointer.
func (a *Arena[T]) New(value T) Pointer[T] {
	if a.table == nil {
		a.table = [][]T{make([]T, 0, pointersMinLen)}
	}

	last := &a.table[len(a.table)-1]
	if len(*last) == cap(*last) {
		a.table = append(a.table, make([]T, 0, 2*cap(*last)))
		last = &a.table[len(a.table)-1]
	}

	*last = append(*last, value)
	return Pointer[T](Untyped(a.Len()))
}

// Alloc allocates a value and returns a stable pointer to it.
func (a *Arena[T]) Alloc(value T) *T {
	a.New(value)
	last := a.table[len(a.table)-1]
	return &last[len(last)-1]
}

// Deref resolves a compressed pointer allocated by this arena. Panics if p is
// nil or out of range.
func (a *Arena[T]) Deref(p Pointer[T]) *T {
	return a.At(Untyped(p))
}

// At dereferences an untyped arena pointer, as if by [Arena.Deref].
func (a *Arena[T]) At(p Untyped) *T {
	slice, idx := a.coordinates(int(p) - 1)
	return &a.table[slice][idx]
}

// Compress converts a pointer into this arena into a compressed pointer.
// Returns nil if ptr was not allocated by this arena.
func (a *Arena[T]) Compress(ptr *T) Pointer[T] {
	if ptr == nil {
		return 0
	}
	base := 0
	for _, slice := range a.table {
		if idx := indexOf(ptr, slice); idx >= 0 {
			return Pointer[T](Untyped(base + idx + 1))
		}
		base += len(slice)
	}
	return 0
}

// Owns returns whether ptr was allocated by this arena.
func (a *Arena[T]) Owns(ptr *T) bool {
	return !a.Compress(ptr).Nil()
}

// Len returns the number of values allocated so far.
func (a *Arena[T]) Len() int {
	if len(a.table) == 0 {
		return 0
	}

	// Only the last slice will be not-fully-filled.
	return a.lenOfFirstNSlices(len(a.table)-1) + len(a.table[len(a.table)-1])
}

// All yields every allocated value in allocation order.
func (a *Arena[T]) All() iter.Seq2[Pointer[T], *T] {
	return func(yield func(Pointer[T], *T) bool) {
		n := 0
		for _, slice := range a.table {
			for i := range slice {
				n++
				if !yield(Pointer[T](Untyped(n)), &slice[i]) {
					return
				}
			}
		}
	}
}

// String implements [fmt.Stringer]. Slice boundaries are shown with a |.
func (a *Arena[T]) String() string {
	var b strings.Builder
	b.WriteRune('[')
	for i, slice := range a.table {
		if i != 0 {
			b.WriteRune('|')
		}
		for i, v := range slice {
			if i != 0 {
				b.WriteRune(' ')
			}
			fmt.Fprint(&b, v)
		}
	}
	b.WriteRune(']')
	return b.String()
}

// lenOfFirstNSlices returns the length of the first n slices, even if they
// are not allocated yet.
func (*Arena[T]) lenOfFirstNSlices(n int) int {
	// 2^m + 2^(m+1) + ... + 2^(m+n-1) = 2^(m+n) - 2^m
	return max(0, pointersMinLen<<n-pointersMinLen)
}

// coordinates calculates the coordinates of the given index in table. It
// also performs a bounds check.
func (a *Arena[T]) coordinates(idx int) (int, int) {
	if idx >= a.Len() || idx < 0 {
		panic(fmt.Sprintf("oak/arena: pointer out of range: %#x", idx+1))
	}

	// With pointersMinLenShift == n, slice k starts at index (2^k - 1) << n.
	// Adding 1 << n turns the starts into 2^k << n, so the position of the
	// high bit, minus n+1, is the slice index.
	slice := bits.UintSize - bits.LeadingZeros(uint(idx)+pointersMinLen)
	slice -= pointersMinLenShift + 1

	return slice, idx - a.lenOfFirstNSlices(slice)
}

// indexOf returns n such that p == &s[n], or -1.
func indexOf[T any](p *T, s []T) int {
	size := unsafe.Sizeof(*p)
	if p == nil || len(s) == 0 || size == 0 {
		return -1
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(s)))
	addr := uintptr(unsafe.Pointer(p))
	if addr < base || addr-base >= uintptr(len(s))*size {
		return -1
	}
	return int((addr - base) / size)
}

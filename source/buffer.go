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
	"slices"
	"strings"
	"sync"
)

// ChunkSize is the largest chunk a [Buffer] stores its text in.
const ChunkSize = 4096

// Buffer is editable document text, stored as a sequence of chunks so that
// an edit copies only the chunks it touches.
//
// A Buffer implements [Source], but must not be read while it is being
// edited. Use [Buffer.Snapshot] to hand its text to other goroutines.
type Buffer struct {
	chunks
}

// Snapshot is an immutable copy of a [Buffer]'s text.
type Snapshot struct {
	chunks

	once sync.Once
	text string
}

var (
	_ Source = (*Buffer)(nil)
	_ Source = (*Snapshot)(nil)
)

// chunks is the shared representation: chunks[i] starts at starts[i], and
// no chunk is empty.
type chunks struct {
	parts  []string
	starts []int
	n      int
}

// NewBuffer returns a buffer holding text.
func NewBuffer(text string) *Buffer {
	b := new(Buffer)
	b.Append(text)
	return b
}

// Append adds text to the end of the buffer.
func (b *Buffer) Append(text string) {
	if text == "" {
		return
	}
	if last := len(b.parts) - 1; last >= 0 && len(b.parts[last])+len(text) <= ChunkSize {
		b.parts[last] += text
		b.n += len(text)
		return
	}
	b.parts = append(b.parts, split(text)...)
	b.reindex()
}

// Apply applies edits, which must be valid for the current text (see
// [ValidateEdits]). It returns the range of the new text that differs from
// the old one: from the first edit's start to the end of the last edit's
// replacement. With no edits the range is empty, at the end of the text.
//
// Invalid edits leave the buffer unchanged.
func (b *Buffer) Apply(edits []TextEdit) (Range, error) {
	set, err := NewEditSet(edits, b.n)
	if err != nil {
		return Range{}, err
	}
	if len(edits) == 0 {
		return Range{b.n, b.n}, nil
	}

	// Back to front, so earlier offsets stay valid.
	for _, e := range slices.Backward(edits) {
		b.replace(e.Range.Start, e.Range.End, e.Text)
	}

	last := edits[len(edits)-1].Range.End
	return Range{set.FirstChange(), last + set.Delta()}, nil
}

// Snapshot returns the current text as an immutable [Source].
func (b *Buffer) Snapshot() *Snapshot {
	return &Snapshot{chunks: chunks{
		parts:  slices.Clone(b.parts),
		starts: slices.Clone(b.starts),
		n:      b.n,
	}}
}

// NumChunks returns the number of chunks the text is stored in.
func (b *Buffer) NumChunks() int {
	return len(b.parts)
}

// String returns the whole text.
func (b *Buffer) String() string {
	return strings.Join(b.parts, "")
}

// String returns the whole text. It is computed once.
func (s *Snapshot) String() string {
	s.once.Do(func() { s.text = strings.Join(s.parts, "") })
	return s.text
}

func (c *chunks) Len() int {
	return c.n
}

func (c *chunks) ByteAt(i int) byte {
	if i < 0 || i >= c.n {
		panic(fmt.Sprintf("oak/source: offset %d out of range [0, %d)", i, c.n))
	}
	k := c.find(i)
	return c.parts[k][i-c.starts[k]]
}

func (c *chunks) Slice(start, end int) string {
	if start < 0 || end < start || end > c.n {
		panic(fmt.Sprintf("oak/source: invalid slice %d..%d of %d bytes", start, end, c.n))
	}
	if start == end {
		return ""
	}

	k := c.find(start)
	if rel := start - c.starts[k]; end-c.starts[k] <= len(c.parts[k]) {
		return c.parts[k][rel : end-c.starts[k]]
	}

	var out strings.Builder
	out.Grow(end - start)
	for ; k < len(c.parts) && c.starts[k] < end; k++ {
		part := c.parts[k]
		lo := max(start-c.starts[k], 0)
		hi := min(end-c.starts[k], len(part))
		out.WriteString(part[lo:hi])
	}
	return out.String()
}

// find returns the chunk containing offset, which must be in bounds.
func (c *chunks) find(offset int) int {
	k, found := slices.BinarySearch(c.starts, offset)
	if !found {
		k--
	}
	return k
}

// cut makes offset a chunk boundary and returns the index of the chunk
// starting there, or len(parts) at the end of the text.
func (c *chunks) cut(offset int) int {
	if offset >= c.n {
		return len(c.parts)
	}
	k := c.find(offset)
	rel := offset - c.starts[k]
	if rel == 0 {
		return k
	}
	part := c.parts[k]
	c.parts[k] = part[:rel]
	c.parts = slices.Insert(c.parts, k+1, part[rel:])
	c.starts = slices.Insert(c.starts, k+1, offset)
	return k + 1
}

func (c *chunks) replace(start, end int, text string) {
	i := c.cut(start)
	j := c.cut(end)
	repl := split(text)
	c.parts = slices.Replace(c.parts, i, j, repl...)

	// Merge small neighbors at the seams, so repeated edits do not leave
	// the text in tiny pieces. The cuts may have shrunk the chunks on either
	// side, so their outer neighbors are checked too.
	lo, hi := max(i-2, 0), min(i+len(repl)+1, len(c.parts)-1)
	for k := lo; k < hi; {
		if len(c.parts[k])+len(c.parts[k+1]) <= ChunkSize {
			c.parts[k] += c.parts[k+1]
			c.parts = slices.Delete(c.parts, k+1, k+2)
			hi--
			continue
		}
		k++
	}
	c.reindex()
}

func (c *chunks) reindex() {
	c.starts = c.starts[:0]
	c.n = 0
	for _, part := range c.parts {
		c.starts = append(c.starts, c.n)
		c.n += len(part)
	}
}

// split cuts text into chunks of at most ChunkSize bytes.
func split(text string) []string {
	var out []string
	for len(text) > ChunkSize {
		out = append(out, text[:ChunkSize])
		text = text[ChunkSize:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

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
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// TabstopWidth is the width tabs are rendered as when measuring columns in
// [TermWidth].
const TabstopWidth = 4

// Units selects how columns are measured by [File.Location].
type Units int8

const (
	Bytes Units = iota
	Runes
	UTF16 // Language server protocol positions.
	TermWidth
)

// Location is a user-facing position in a file.
type Location struct {
	Offset int

	// Line and Column are 1-indexed.
	Line, Column int
}

// String implements [fmt.Stringer].
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// File is a named document. It implements [Source].
//
// Files are immutable once created. A nil *File behaves like an empty file
// with the path "".
type File struct {
	path, text string

	once sync.Once
	// Offsets immediately after each \n, prefixed by 0. Binary searching it
	// recovers the line of an offset.
	lineIndex []int
}

var _ Source = (*File)(nil)

// NewFile constructs a new file.
func NewFile(path, text string) *File {
	return &File{path: path, text: text}
}

// Path returns this file's path. It doesn't need to be a real path.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Text returns this file's contents.
func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return f.text
}

func (f *File) Len() int                    { return len(f.Text()) }
func (f *File) ByteAt(i int) byte           { return f.text[i] }
func (f *File) Slice(start, end int) string { return f.Text()[start:end] }

// Lines returns the number of lines in the file. An empty file has one line.
func (f *File) Lines() int {
	return len(f.lines())
}

// LineByOffset returns the 1-indexed line containing offset.
//
// This operation is O(log n).
func (f *File) LineByOffset(offset int) int {
	lines := f.lines()
	line, exact := slices.BinarySearch(lines, offset)
	if !exact {
		line--
	}
	return line + 1
}

// Line returns the given 1-indexed line, without its trailing newline.
func (f *File) Line(line int) string {
	r := f.LineRange(line)
	return strings.TrimSuffix(f.text[r.Start:r.End], "\n")
}

// LineRange returns the range of the given 1-indexed line, including its
// trailing newline.
func (f *File) LineRange(line int) Range {
	lines := f.lines()
	if line < 1 || line > len(lines) {
		panic(fmt.Sprintf("oak/source: line %d out of range [1, %d]", line, len(lines)))
	}
	if line == len(lines) {
		return Range{lines[line-1], f.Len()}
	}
	return Range{lines[line-1], lines[line]}
}

// Location converts a byte offset into a line and column.
//
// This operation is O(log n).
func (f *File) Location(offset int, units Units) Location {
	if f == nil || offset <= 0 {
		return Location{Offset: 0, Line: 1, Column: 1}
	}
	offset = min(offset, f.Len())

	line := f.LineByOffset(offset)
	chunk := f.text[f.lines()[line-1]:offset]

	return Location{
		Offset: offset,
		Line:   line,
		Column: Width(chunk, 0, units) + 1,
	}
}

// InverseLocation converts a 1-indexed line and column back into a byte
// offset, clamping to the end of the line. Panics if units is [TermWidth].
func (f *File) InverseLocation(line, column int, units Units) int {
	if f == nil {
		return 0
	}
	line = max(1, min(line, f.Lines()))
	r := f.LineRange(line)
	chunk := f.text[r.Start:r.End]

	column-- // Zero-indexed from here on.
	offset := 0
	switch units {
	case Bytes:
		offset = min(max(column, 0), len(chunk))
	case Runes, UTF16:
		for offset < len(chunk) && column > 0 {
			r, n := utf8.DecodeRuneInString(chunk[offset:])
			if units == UTF16 {
				column -= max(1, utf16.RuneLen(r))
			} else {
				column--
			}
			offset += n
		}
	case TermWidth:
		panic("oak/source: cannot invert a TermWidth location")
	}
	return r.Start + offset
}

// Width measures text in the given units. column is the column text starts
// at, which matters for tabstops in [TermWidth].
func Width(text string, column int, units Units) int {
	switch units {
	case Bytes:
		return len(text)
	case Runes:
		return utf8.RuneCountInString(text)
	case UTF16:
		n := 0
		for _, r := range text {
			n += max(1, utf16.RuneLen(r))
		}
		return n
	default:
		start := column
		for i, part := range strings.Split(text, "\t") {
			if i > 0 {
				column += TabstopWidth - column%TabstopWidth
			}
			column += uniseg.StringWidth(part)
		}
		return column - start
	}
}

func (f *File) lines() []int {
	if f == nil {
		return []int{0}
	}

	f.once.Do(func() {
		f.lineIndex = append(f.lineIndex, 0)
		for i := 0; i < len(f.text); {
			nl := strings.IndexByte(f.text[i:], '\n')
			if nl < 0 {
				break
			}
			i += nl + 1
			f.lineIndex = append(f.lineIndex, i)
		}
	})
	return f.lineIndex
}

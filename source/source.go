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

// Package source defines the text model shared by the lexer, the parser and
// the tree layers: random-access sources, byte ranges, files with line
// information, and edits against a previous revision of a document.
package source

// Source is random-access document text.
//
// Implementations must be safe to read from multiple positions, and from
// multiple goroutines, without synchronization.
type Source interface {
	// Len returns the length of the text in bytes.
	Len() int
	// ByteAt returns the byte at offset i. Panics if i is out of bounds.
	ByteAt(i int) byte
	// Slice returns the text in [start, end). Panics if the range is out of
	// bounds.
	Slice(start, end int) string
}

// Text returns the whole text of src.
func Text(src Source) string {
	switch src := src.(type) {
	case nil:
		return ""
	case String:
		return string(src)
	case *File:
		return src.Text()
	case *Snapshot:
		return src.String()
	case *Buffer:
		return src.String()
	default:
		return src.Slice(0, src.Len())
	}
}

// String is a [Source] over an in-memory string.
type String string

func (s String) Len() int                    { return len(s) }
func (s String) ByteAt(i int) byte           { return s[i] }
func (s String) Slice(start, end int) string { return string(s[start:end]) }

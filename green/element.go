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

// Package green implements the immutable backbone of a syntax tree.
//
// Green nodes store kinds, text lengths and children, but never absolute
// positions or parents, so a subtree can appear in many trees at once: in
// two revisions of the same document, or twice within one tree when the
// [Cache] hash-conses it. Position-aware navigation lives in package red.
//
// Trees are built bottom-up with a [Builder], which allocates out of an
// [Arena].
package green

import (
	"fmt"
	"io"

	"github.com/bufbuild/oak/syntax"
)

// Token is a leaf: a kind and its text.
type Token struct {
	kind    syntax.TokenKind
	isError bool
	text    string
}

// NewToken allocates a token on the heap.
func NewToken(lang *syntax.Language, kind syntax.TokenKind, text string) *Token {
	return &Token{kind: kind, isError: lang.IsErrorToken(kind), text: text}
}

// Kind returns this token's kind.
func (t *Token) Kind() syntax.TokenKind {
	return t.kind
}

// Text returns this token's text.
func (t *Token) Text() string {
	return t.text
}

// Len returns the length of this token's text in bytes.
func (t *Token) Len() int {
	return len(t.text)
}

// IsError returns whether this is an error token.
func (t *Token) IsError() bool {
	return t.isError
}

// Element is either a [*Node] or a [*Token]. The zero value is neither.
type Element struct {
	node  *Node
	token *Token
}

// NodeElement wraps a node.
func NodeElement(n *Node) Element {
	return Element{node: n}
}

// TokenElement wraps a token.
func TokenElement(t *Token) Element {
	return Element{token: t}
}

// IsZero returns whether this is the zero element.
func (e Element) IsZero() bool {
	return e.node == nil && e.token == nil
}

// AsNode returns the wrapped node, or nil.
func (e Element) AsNode() *Node {
	return e.node
}

// AsToken returns the wrapped token, or nil.
func (e Element) AsToken() *Token {
	return e.token
}

// Len returns the length of this element's text.
func (e Element) Len() int {
	switch {
	case e.node != nil:
		return e.node.len
	case e.token != nil:
		return len(e.token.text)
	default:
		return 0
	}
}

// NumLeaves returns the number of tokens in this element.
func (e Element) NumLeaves() int {
	switch {
	case e.node != nil:
		return e.node.leaves
	case e.token != nil:
		return 1
	default:
		return 0
	}
}

// HasError returns whether this element is, or contains, an error node or
// error token.
func (e Element) HasError() bool {
	switch {
	case e.node != nil:
		return e.node.hasError
	case e.token != nil:
		return e.token.isError
	default:
		return false
	}
}

// Text returns the text of this element.
func (e Element) Text() string {
	switch {
	case e.node != nil:
		return e.node.Text()
	case e.token != nil:
		return e.token.text
	default:
		return ""
	}
}

// WriteTo writes the text of this element to w.
func (e Element) WriteTo(w io.Writer) (int64, error) {
	switch {
	case e.node != nil:
		return e.node.WriteTo(w)
	case e.token != nil:
		n, err := io.WriteString(w, e.token.text)
		return int64(n), err
	default:
		return 0, nil
	}
}

// Format implements [fmt.Formatter].
func (e Element) Format(s fmt.State, _ rune) {
	switch {
	case e.node != nil:
		fmt.Fprintf(s, "Node(%d, len=%d)", e.node.kind, e.node.len)
	case e.token != nil:
		fmt.Fprintf(s, "Token(%d, %q)", e.token.kind, e.token.text)
	default:
		fmt.Fprint(s, "<nil>")
	}
}

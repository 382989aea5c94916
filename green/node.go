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

package green

import (
	"io"
	"iter"
	"sort"
	"strings"

	"github.com/bufbuild/oak/syntax"
)

// Node is an interior node of a green tree.
//
// Nodes are immutable once built. The length, leaf count and error flag of a
// node are computed from its children when it is created.
type Node struct {
	kind     syntax.NodeKind
	hasError bool
	len      int
	leaves   int
	children []slot
}

// slot is a child together with its offset from the start of its parent.
type slot struct {
	offset int
	elem   Element
}

// NewNode allocates a node on the heap.
func NewNode(lang *syntax.Language, kind syntax.NodeKind, children ...Element) *Node {
	n := new(Node)
	n.init(lang, kind, children, make([]slot, len(children)))
	return n
}

// init fills in n, storing children in slots, which must have the same
// length.
func (n *Node) init(lang *syntax.Language, kind syntax.NodeKind, children []Element, slots []slot) {
	n.kind = kind
	n.hasError = lang.IsErrorNode(kind)
	n.children = slots

	offset := 0
	for i, child := range children {
		if child.IsZero() {
			panic(contractf("nil child %d of %s", i, lang.NodeName(kind)))
		}
		slots[i] = slot{offset: offset, elem: child}
		offset += child.Len()
		n.leaves += child.NumLeaves()
		n.hasError = n.hasError || child.HasError()
	}
	n.len = offset
}

// Kind returns this node's kind.
func (n *Node) Kind() syntax.NodeKind {
	return n.kind
}

// Len returns the length of this node's text in bytes.
func (n *Node) Len() int {
	return n.len
}

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Child returns the i-th child.
func (n *Node) Child(i int) Element {
	return n.children[i].elem
}

// ChildOffset returns the offset of the i-th child relative to the start of
// this node.
func (n *Node) ChildOffset(i int) int {
	return n.children[i].offset
}

// ChildIndexAt returns the index of the last child starting at or before
// offset, which is relative to the start of this node. Zero-length children
// are skipped over in favor of the child after them.
//
// Returns -1 if the node has no children or offset is negative.
//
// This operation is O(log n).
func (n *Node) ChildIndexAt(offset int) int {
	if offset < 0 {
		return -1
	}
	i := sort.Search(len(n.children), func(i int) bool {
		return n.children[i].offset > offset
	})
	return i - 1
}

// Children yields each child together with its relative offset.
func (n *Node) Children() iter.Seq2[int, Element] {
	return func(yield func(int, Element) bool) {
		for _, s := range n.children {
			if !yield(s.offset, s.elem) {
				return
			}
		}
	}
}

// Leaves yields every token in this subtree, in order.
func (n *Node) Leaves() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		n.leavesUntil(yield)
	}
}

func (n *Node) leavesUntil(yield func(*Token) bool) bool {
	for _, s := range n.children {
		if s.elem.token != nil {
			if !yield(s.elem.token) {
				return false
			}
			continue
		}
		if !s.elem.node.leavesUntil(yield) {
			return false
		}
	}
	return true
}

// NumLeaves returns the number of tokens in this subtree.
func (n *Node) NumLeaves() int {
	return n.leaves
}

// HasError returns whether this subtree contains an error node or error
// token.
func (n *Node) HasError() bool {
	return n.hasError
}

// Text returns the text covered by this node.
func (n *Node) Text() string {
	var b strings.Builder
	b.Grow(n.len)
	_, _ = n.WriteTo(&b)
	return b.String()
}

// WriteTo writes the text covered by this node to w.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for t := range n.Leaves() {
		m, err := io.WriteString(w, t.text)
		total += int64(m)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Equal returns whether a and b are structurally identical: same kinds, same
// token text, same shape.
func Equal(a, b Element) bool {
	switch {
	case a == b:
		return true
	case a.token != nil && b.token != nil:
		return a.token.kind == b.token.kind && a.token.text == b.token.text
	case a.node != nil && b.node != nil:
		x, y := a.node, b.node
		if x.kind != y.kind || x.len != y.len || len(x.children) != len(y.children) || x.leaves != y.leaves {
			return false
		}
		for i := range x.children {
			if !Equal(x.children[i].elem, y.children[i].elem) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

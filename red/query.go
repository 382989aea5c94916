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

package red

import (
	"iter"
	"sort"

	"github.com/bufbuild/oak/source"
	"github.com/bufbuild/oak/syntax"
)

// Cast checks that n has the given kind and, if so, wraps it with wrap.
//
// This is how typed views over a language's nodes are built:
//
//	type Func struct{ *red.Node }
//
//	func AsFunc(n *red.Node) (Func, bool) {
//		return red.Cast(n, FuncKind, func(n *red.Node) Func { return Func{n} })
//	}
func Cast[T any](n *Node, kind syntax.NodeKind, wrap func(*Node) T) (T, bool) {
	if n == nil || n.Kind() != kind {
		var zero T
		return zero, false
	}
	return wrap(n), true
}

// ChildIndexAtOffset returns the index of the child containing the absolute
// offset, or -1 if offset is outside this node.
func (n *Node) ChildIndexAtOffset(offset int) int {
	if offset < n.offset || offset >= n.End() {
		return -1
	}
	return n.green.ChildIndexAt(offset - n.offset)
}

// OffsetOfChild returns the absolute offset of the i-th child.
func (n *Node) OffsetOfChild(i int) int {
	return n.offset + n.green.ChildOffset(i)
}

// OverlappingIndices returns the half-open range of indices of the children
// that overlap r, which is in absolute offsets.
//
// An empty r selects the child containing r.Start, if any. Empty children
// strictly inside a non-empty r are included.
func (n *Node) OverlappingIndices(r source.Range) (lo, hi int) {
	g := n.green
	count := g.NumChildren()
	start := func(i int) int { return n.offset + g.ChildOffset(i) }
	end := func(i int) int { return start(i) + g.Child(i).Len() }

	lo = sort.Search(count, func(i int) bool { return end(i) > r.Start })
	if r.Empty() {
		hi = sort.Search(count, func(i int) bool { return start(i) > r.Start })
	} else {
		hi = sort.Search(count, func(i int) bool { return start(i) >= r.End })
	}
	return lo, max(lo, hi)
}

// LeafAt returns the token containing the absolute offset. At the end of
// the node, returns the last token. Returns nil if offset is out of bounds
// or the node is empty.
func (n *Node) LeafAt(offset int) *Leaf {
	if n.Len() == 0 || offset < n.offset || offset > n.End() {
		return nil
	}
	if offset == n.End() {
		offset--
	}

	node := n
	for {
		// offset is inside node, which is non-empty, so this child exists and
		// is non-empty.
		child := node.Child(node.green.ChildIndexAt(offset - node.offset))
		if child.leaf != nil {
			return child.leaf
		}
		node = child.node
	}
}

// Covering returns the smallest node within n whose span contains r, or nil
// if n itself does not.
func (n *Node) Covering(r source.Range) *Node {
	if !n.Span().ContainsRange(r) {
		return nil
	}

	node := n
outer:
	for {
		lo, hi := node.OverlappingIndices(r)
		for i := lo; i < hi; i++ {
			child := node.Child(i).node
			if child != nil && child.Span().ContainsRange(r) && child.Len() > 0 {
				node = child
				continue outer
			}
		}
		return node
	}
}

// Descendants yields n and every node below it, in preorder.
func (n *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.descendants(yield)
	}
}

func (n *Node) descendants(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for child := range n.ChildNodes() {
		if !child.descendants(yield) {
			return false
		}
	}
	return true
}

// Leaves yields every token below n, in order.
func (n *Node) Leaves() iter.Seq[*Leaf] {
	return func(yield func(*Leaf) bool) {
		n.leaves(yield)
	}
}

func (n *Node) leaves(yield func(*Leaf) bool) bool {
	for child := range n.Children() {
		if child.leaf != nil {
			if !yield(child.leaf) {
				return false
			}
		} else if !child.node.leaves(yield) {
			return false
		}
	}
	return true
}

// Ancestors yields the parent of n, its parent, and so on up to the root.
func (n *Node) Ancestors() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for p := n.parent; p != nil; p = p.parent {
			if !yield(p) {
				return
			}
		}
	}
}

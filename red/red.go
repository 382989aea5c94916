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

// Package red provides position-aware, parent-linked views over a green
// tree.
//
// A red [Node] is a cheap handle: a green node plus its absolute offset, its
// parent and its index in the parent. Red nodes are created on demand while
// walking and are never stored in the green tree, so they cost nothing until
// used and can be discarded freely.
package red

import (
	"iter"

	"github.com/bufbuild/oak/green"
	"github.com/bufbuild/oak/source"
	"github.com/bufbuild/oak/syntax"
)

// Node is a green node at a particular position in a particular tree.
type Node struct {
	green  *green.Node
	offset int
	parent *Node
	index  int
}

// NewRoot returns a view of root as the root of a tree starting at offset
// zero.
func NewRoot(root *green.Node) *Node {
	return &Node{green: root}
}

// Green returns the underlying green node.
func (n *Node) Green() *green.Node {
	return n.green
}

// Kind returns this node's kind.
func (n *Node) Kind() syntax.NodeKind {
	return n.green.Kind()
}

// Offset returns the absolute offset this node starts at.
func (n *Node) Offset() int {
	return n.offset
}

// End returns the absolute offset this node ends at.
func (n *Node) End() int {
	return n.offset + n.green.Len()
}

// Len returns the length of this node's text.
func (n *Node) Len() int {
	return n.green.Len()
}

// Span returns the range this node covers.
func (n *Node) Span() source.Range {
	return source.Range{Start: n.offset, End: n.End()}
}

// Text returns the text this node covers.
func (n *Node) Text() string {
	return n.green.Text()
}

// Parent returns this node's parent, or nil at the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Index returns this node's index in its parent. Zero at the root.
func (n *Node) Index() int {
	return n.index
}

// Equal returns whether n and other view the same green node at the same
// position.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.green == other.green && n.offset == other.offset
}

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int {
	return n.green.NumChildren()
}

// Child returns a view of the i-th child.
func (n *Node) Child(i int) Element {
	child := n.green.Child(i)
	offset := n.offset + n.green.ChildOffset(i)
	if g := child.AsNode(); g != nil {
		return Element{node: &Node{green: g, offset: offset, parent: n, index: i}}
	}
	return Element{leaf: &Leaf{green: child.AsToken(), offset: offset, parent: n, index: i}}
}

// Children yields every direct child.
func (n *Node) Children() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for i := range n.NumChildren() {
			if !yield(n.Child(i)) {
				return
			}
		}
	}
}

// ChildNodes yields the direct children that are nodes, skipping tokens.
func (n *Node) ChildNodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for i := range n.NumChildren() {
			if n.green.Child(i).AsNode() == nil {
				continue
			}
			if !yield(n.Child(i).node) {
				return
			}
		}
	}
}

// FirstChild returns the first child, or the zero Element.
func (n *Node) FirstChild() Element {
	if n.NumChildren() == 0 {
		return Element{}
	}
	return n.Child(0)
}

// LastChild returns the last child, or the zero Element.
func (n *Node) LastChild() Element {
	if n.NumChildren() == 0 {
		return Element{}
	}
	return n.Child(n.NumChildren() - 1)
}

// NextSibling returns the element after this one in its parent, or the
// zero Element.
func (n *Node) NextSibling() Element {
	return sibling(n.parent, n.index+1)
}

// PrevSibling returns the element before this one in its parent, or the
// zero Element.
func (n *Node) PrevSibling() Element {
	return sibling(n.parent, n.index-1)
}

func sibling(parent *Node, i int) Element {
	if parent == nil || i < 0 || i >= parent.NumChildren() {
		return Element{}
	}
	return parent.Child(i)
}

// Leaf is a token at a particular position in a particular tree.
type Leaf struct {
	green  *green.Token
	offset int
	parent *Node
	index  int
}

// Green returns the underlying green token.
func (l *Leaf) Green() *green.Token {
	return l.green
}

// Kind returns this token's kind.
func (l *Leaf) Kind() syntax.TokenKind {
	return l.green.Kind()
}

// Text returns this token's text.
func (l *Leaf) Text() string {
	return l.green.Text()
}

// Offset returns the absolute offset this token starts at.
func (l *Leaf) Offset() int {
	return l.offset
}

// End returns the absolute offset this token ends at.
func (l *Leaf) End() int {
	return l.offset + l.green.Len()
}

// Span returns the range this token covers.
func (l *Leaf) Span() source.Range {
	return source.Range{Start: l.offset, End: l.End()}
}

// Parent returns the node containing this token.
func (l *Leaf) Parent() *Node {
	return l.parent
}

// Index returns this token's index in its parent.
func (l *Leaf) Index() int {
	return l.index
}

// NextSibling returns the element after this one in its parent, or the
// zero Element.
func (l *Leaf) NextSibling() Element {
	return sibling(l.parent, l.index+1)
}

// PrevSibling returns the element before this one in its parent, or the
// zero Element.
func (l *Leaf) PrevSibling() Element {
	return sibling(l.parent, l.index-1)
}

// Element is either a [*Node] or a [*Leaf]. The zero value is neither.
type Element struct {
	node *Node
	leaf *Leaf
}

// IsZero returns whether this is the zero element.
func (e Element) IsZero() bool {
	return e.node == nil && e.leaf == nil
}

// AsNode returns the node, or nil if this is a leaf.
func (e Element) AsNode() *Node {
	return e.node
}

// AsLeaf returns the leaf, or nil if this is a node.
func (e Element) AsLeaf() *Leaf {
	return e.leaf
}

// Span returns the range this element covers.
func (e Element) Span() source.Range {
	switch {
	case e.node != nil:
		return e.node.Span()
	case e.leaf != nil:
		return e.leaf.Span()
	default:
		return source.Range{}
	}
}

// Text returns the text this element covers.
func (e Element) Text() string {
	switch {
	case e.node != nil:
		return e.node.Text()
	case e.leaf != nil:
		return e.leaf.Text()
	default:
		return ""
	}
}

// Parent returns the node containing this element.
func (e Element) Parent() *Node {
	switch {
	case e.node != nil:
		return e.node.parent
	case e.leaf != nil:
		return e.leaf.parent
	default:
		return nil
	}
}

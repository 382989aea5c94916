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

package parser

import (
	"github.com/bufbuild/oak/green"
	"github.com/bufbuild/oak/source"
	"github.com/bufbuild/oak/syntax"
)

// reuser finds subtrees of the previous tree that can be spliced into the
// new one.
type reuser struct {
	old   *green.Node
	edits *source.EditSet
}

// TryReuse looks for a node of the given kind in the previous tree that
// starts where the next token starts, and if one is found whose text was
// untouched by the edits, pushes it and consumes its tokens. Returns whether
// a node was reused.
//
// A grammar may only call this where the extent of a kind-node is decided
// by its own tokens: parsing the same tokens at this position would produce
// the same node no matter what precedes or follows them. Nodes containing
// errors are never reused, so diagnostics the grammar records must always
// come with an error node; see [State.Missing].
func (st *State) TryReuse(kind syntax.NodeKind) bool {
	st.flush()
	if st.reuse == nil || st.AtEnd() {
		return false
	}

	next := st.tokens[st.idx]
	old, ok := st.reuse.edits.NewToOld(next.Start)
	if !ok {
		return false
	}
	n, start := st.reuse.find(kind, old)
	if n == nil || n.HasError() || n.Len() == 0 {
		return false
	}
	if st.reuse.edits.Dirty(source.NewRange(start, start+n.Len())) {
		return false
	}

	// The edits may have shifted token boundaries without touching the
	// node's bytes, so check the new tokens against the node's leaves.
	end := st.idx + n.NumLeaves()
	if end >= len(st.tokens) {
		return false
	}
	i := st.idx
	for leaf := range n.Leaves() {
		tok := st.tokens[i]
		if tok.Kind != leaf.Kind() || st.textOf(tok) != leaf.Text() {
			return false
		}
		i++
	}
	// Trivia after the node would have been attached inside it.
	if st.lang.IsTrivia(st.tokens[end].Kind) {
		return false
	}

	st.b.Push(green.NodeElement(n))
	st.idx = end
	st.reusedNodes++
	st.reusedTokens += n.NumLeaves()
	return true
}

// Node parses a node of the given kind with parse, unless one can be reused
// from the previous tree. The same restrictions as for [State.TryReuse]
// apply.
func (st *State) Node(kind syntax.NodeKind, parse func()) *green.Node {
	if st.TryReuse(kind) {
		return st.b.Pending(st.b.Len() - 1).AsNode()
	}
	cp := st.Checkpoint()
	parse()
	return st.FinishAt(cp, kind)
}

// find returns the outermost node below the root of the old tree that has
// the given kind and starts at offset, along with its start.
func (r *reuser) find(kind syntax.NodeKind, offset int) (*green.Node, int) {
	n, start := r.old, 0
	for {
		i := n.ChildIndexAt(offset - start)
		if i < 0 {
			return nil, 0
		}
		child := n.Child(i).AsNode()
		childStart := start + n.ChildOffset(i)
		if child == nil || childStart+child.Len() <= offset {
			return nil, 0
		}

		n, start = child, childStart
		if start == offset && n.Kind() == kind {
			return n, start
		}
	}
}

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
	"fmt"
	"slices"

	"github.com/bufbuild/oak/syntax"
)

// ContractError is the panic value used when a [Builder] is misused.
//
// These panics indicate a bug in the grammar driving the builder, not a
// problem with the input, so parser drivers let them propagate.
type ContractError struct {
	msg string
}

func contractf(format string, args ...any) *ContractError {
	return &ContractError{msg: fmt.Sprintf(format, args...)}
}

// Error implements [error].
func (e *ContractError) Error() string {
	return "oak/green: " + e.msg
}

// Checkpoint marks a position in a [Builder]'s output. Everything emitted
// after it can later be wrapped into a node with [Builder.FinishAt].
//
// Checkpoints nest: only the most recently opened checkpoint that is still
// open may be finished or canceled. The zero Checkpoint is never valid.
type Checkpoint struct {
	b   *Builder
	gen uint64
	id  uint32
	pos int
}

// IsZero returns whether this is the zero checkpoint.
func (cp Checkpoint) IsZero() bool {
	return cp.b == nil
}

// Pos returns the number of elements that were pending when cp was taken.
func (cp Checkpoint) Pos() int {
	return cp.pos
}

// Builder assembles a green tree from a sequence of tokens, reused
// subtrees, and checkpoint-delimited nodes.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	lang  *syntax.Language
	arena *Arena
	cache *Cache

	pending []Element
	open    []Checkpoint
	nextID  uint32
}

// NewBuilder returns a builder allocating out of a. If a is nil, a fresh
// arena is used. cache may be nil.
func NewBuilder(lang *syntax.Language, a *Arena, cache *Cache) *Builder {
	if a == nil {
		a = NewArena()
	}
	return &Builder{lang: lang, arena: a, cache: cache}
}

// Language returns the language this builder builds trees for.
func (b *Builder) Language() *syntax.Language {
	return b.lang
}

// Arena returns the arena this builder allocates from.
func (b *Builder) Arena() *Arena {
	return b.arena
}

// Len returns the number of pending elements: emitted, but not yet wrapped
// by a finished checkpoint.
func (b *Builder) Len() int {
	return len(b.pending)
}

// Pending returns the i-th pending element.
func (b *Builder) Pending(i int) Element {
	return b.pending[i]
}

// Depth returns the number of open checkpoints.
func (b *Builder) Depth() int {
	return len(b.open)
}

// Innermost returns the most recently opened checkpoint that is still open.
func (b *Builder) Innermost() (Checkpoint, bool) {
	if len(b.open) == 0 {
		return Checkpoint{}, false
	}
	return b.open[len(b.open)-1], true
}

// Checkpoint opens a new checkpoint at the current position.
//
// This operation is O(1) and emits nothing.
func (b *Builder) Checkpoint() Checkpoint {
	return b.openAt(len(b.pending))
}

// CheckpointBefore opens a new checkpoint positioned just before n, which
// must be pending and must have been emitted after the innermost open
// checkpoint was taken. This is used to wrap an already-built left operand.
func (b *Builder) CheckpointBefore(n *Node) Checkpoint {
	floor := 0
	if cp, ok := b.Innermost(); ok {
		floor = cp.pos
	}

	for i := len(b.pending) - 1; i >= floor; i-- {
		if b.pending[i].node == n {
			return b.openAt(i)
		}
	}
	panic(contractf("CheckpointBefore: node is not pending inside the innermost checkpoint"))
}

func (b *Builder) openAt(pos int) Checkpoint {
	b.nextID++
	cp := Checkpoint{b: b, gen: b.arena.gen, id: b.nextID, pos: pos}
	b.open = append(b.open, cp)
	return cp
}

// Token emits a token.
func (b *Builder) Token(kind syntax.TokenKind, text string) *Token {
	var t *Token
	if b.cache != nil {
		t = b.cache.Token(b.lang, kind, text)
	} else {
		t = b.arena.newToken(b.lang, kind, text)
	}
	b.pending = append(b.pending, TokenElement(t))
	return t
}

// Push emits an existing element, such as a subtree reused from a previous
// tree.
func (b *Builder) Push(e Element) {
	if e.IsZero() {
		panic(contractf("pushed a zero element"))
	}
	b.pending = append(b.pending, e)
}

// FinishAt closes cp, wrapping everything emitted since it was taken in a
// new node of the given kind, which becomes pending in its place.
//
// Panics if cp is the zero checkpoint, belongs to another builder or
// generation, was already finished or rewound, or is not the innermost open
// checkpoint.
func (b *Builder) FinishAt(cp Checkpoint, kind syntax.NodeKind) *Node {
	b.pop(cp, "FinishAt")

	children := b.pending[cp.pos:]
	var n *Node
	if b.cache != nil {
		n = b.cache.node(b.lang, b.arena, kind, children)
	} else {
		n = b.arena.newNode(b.lang, kind, children)
	}

	clear(b.pending[cp.pos:])
	b.pending = append(b.pending[:cp.pos], NodeElement(n))
	return n
}

// Cancel closes cp without wrapping anything. What was emitted since it was
// taken stays pending. The same conditions as [Builder.FinishAt] apply.
func (b *Builder) Cancel(cp Checkpoint) {
	b.pop(cp, "Cancel")
}

// Rewind closes cp and every checkpoint opened after it, and discards
// everything emitted since cp was taken.
//
// Panics if cp is zero, foreign, or not open.
func (b *Builder) Rewind(cp Checkpoint) {
	b.check(cp, "Rewind")
	i := slices.IndexFunc(b.open, func(open Checkpoint) bool { return open.id == cp.id })
	if i < 0 {
		panic(contractf("Rewind: checkpoint %d is not open", cp.id))
	}

	clear(b.pending[cp.pos:])
	b.pending = b.pending[:cp.pos]
	b.open = b.open[:i]
}

// Finish returns the finished tree: the single pending node.
//
// Panics if any checkpoint is still open, or if the pending elements are not
// exactly one node.
func (b *Builder) Finish() *Node {
	if len(b.open) > 0 {
		panic(contractf("Finish: %d checkpoints still open", len(b.open)))
	}
	if len(b.pending) != 1 || b.pending[0].node == nil {
		panic(contractf("Finish: want exactly one pending node, got %d elements", len(b.pending)))
	}

	root := b.pending[0].node
	b.pending = b.pending[:0]
	return root
}

// Take removes and returns every pending element, leaving the builder
// empty. Panics if any checkpoint is still open.
func (b *Builder) Take() []Element {
	if len(b.open) > 0 {
		panic(contractf("Take: %d checkpoints still open", len(b.open)))
	}
	taken := slices.Clone(b.pending)
	clear(b.pending)
	b.pending = b.pending[:0]
	return taken
}

// check validates that cp belongs to b.
func (b *Builder) check(cp Checkpoint, op string) {
	switch {
	case cp.IsZero():
		panic(contractf("%s: zero checkpoint", op))
	case cp.b != b || cp.gen != b.arena.gen:
		panic(contractf("%s: checkpoint %d belongs to another builder", op, cp.id))
	}
}

// pop validates that cp is the innermost open checkpoint and closes it.
func (b *Builder) pop(cp Checkpoint, op string) {
	b.check(cp, op)

	top, ok := b.Innermost()
	switch {
	case ok && top.id == cp.id:
		b.open = b.open[:len(b.open)-1]
	case slices.ContainsFunc(b.open, func(open Checkpoint) bool { return open.id == cp.id }):
		panic(contractf("%s: checkpoint %d is not the innermost open checkpoint (%d is)", op, cp.id, top.id))
	default:
		panic(contractf("%s: checkpoint %d was already closed", op, cp.id))
	}
}

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
	"sync/atomic"

	"github.com/bufbuild/oak/internal/arena"
	"github.com/bufbuild/oak/syntax"
)

var generations atomic.Uint64

// NodeID is a compressed handle to a node in an [Arena]. The zero value is
// nil.
type NodeID arena.Pointer[Node]

// Nil returns whether this is the nil handle.
func (id NodeID) Nil() bool {
	return arena.Pointer[Node](id).Nil()
}

// Arena is the backing storage for one generation of green trees.
//
// Values in an Arena never move, so pointers into it stay valid for as long
// as anything refers to them; an Arena is never reset or recycled.
//
// An Arena must not be used by more than one [Builder] concurrently.
type Arena struct {
	gen    uint64
	nodes  arena.Arena[Node]
	tokens arena.Arena[Token]
	slots  arena.Slab[slot]
}

// NewArena returns a new arena with a process-unique generation number.
func NewArena() *Arena {
	return &Arena{gen: generations.Add(1)}
}

// Generation returns this arena's generation number.
func (a *Arena) Generation() uint64 {
	return a.gen
}

// Node resolves a handle returned by [Arena.ID]. Panics if id is nil or was
// not allocated by this arena.
func (a *Arena) Node(id NodeID) *Node {
	return a.nodes.Deref(arena.Pointer[Node](id))
}

// ID returns a handle for n. Returns nil if n was not allocated by this
// arena.
//
// This operation is O(log n) in the number of nodes allocated.
func (a *Arena) ID(n *Node) NodeID {
	return NodeID(a.nodes.Compress(n))
}

// Owns returns whether n was allocated by this arena.
func (a *Arena) Owns(n *Node) bool {
	return a.nodes.Owns(n)
}

// NumNodes returns the number of nodes allocated.
func (a *Arena) NumNodes() int {
	return a.nodes.Len()
}

// NumTokens returns the number of tokens allocated. Tokens interned by a
// [Cache] are not counted.
func (a *Arena) NumTokens() int {
	return a.tokens.Len()
}

func (a *Arena) newNode(lang *syntax.Language, kind syntax.NodeKind, children []Element) *Node {
	n := a.nodes.Alloc(Node{})
	n.init(lang, kind, children, a.slots.Make(len(children)))
	return n
}

func (a *Arena) newToken(lang *syntax.Language, kind syntax.TokenKind, text string) *Token {
	return a.tokens.Alloc(Token{kind: kind, isError: lang.IsErrorToken(kind), text: text})
}

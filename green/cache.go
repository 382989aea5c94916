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
	"github.com/bufbuild/oak/internal/arena"
	"github.com/bufbuild/oak/internal/intern"
	"github.com/bufbuild/oak/syntax"
)

// maxCachedChildren is the largest node the cache will hash-cons.
const maxCachedChildren = 3

// Cache deduplicates tokens and small nodes across the trees built with it.
//
// Identical tokens (same kind and text) are always shared. Nodes with at
// most three children that are themselves shared are looked up by kind and
// children, so that, for example, every `x` name expression in a document
// is the same *Node.
//
// A Cache must only ever be used with one [syntax.Language]. A zero Cache
// is empty and ready to use. A Cache must not be used by more than one
// [Builder] concurrently.
type Cache struct {
	text   intern.Table
	tokens map[tokenKey]*Token
	nodes  map[nodeKey]*Node
	store  arena.Arena[Token]

	hits int
}

type tokenKey struct {
	kind syntax.TokenKind
	text intern.ID
}

type nodeKey struct {
	kind     syntax.NodeKind
	n        int
	children [maxCachedChildren]Element
}

// Len returns the number of distinct tokens and nodes in the cache.
func (c *Cache) Len() int {
	return len(c.tokens) + len(c.nodes)
}

// Hits returns the number of lookups that found an existing value since the
// cache was created or last reset.
func (c *Cache) Hits() int {
	return c.hits
}

// Reset empties the cache. Trees built with it are unaffected.
func (c *Cache) Reset() {
	*c = Cache{}
}

// Token returns the shared token with the given kind and text.
func (c *Cache) Token(lang *syntax.Language, kind syntax.TokenKind, text string) *Token {
	key := tokenKey{kind: kind, text: c.text.Intern(text)}
	if t, ok := c.tokens[key]; ok {
		c.hits++
		return t
	}

	t := c.store.Alloc(Token{kind: kind, isError: lang.IsErrorToken(kind), text: c.text.Value(key.text)})
	if c.tokens == nil {
		c.tokens = make(map[tokenKey]*Token)
	}
	c.tokens[key] = t
	return t
}

// node returns a node with the given kind and children, allocating it in a
// if it is not cached.
func (c *Cache) node(lang *syntax.Language, a *Arena, kind syntax.NodeKind, children []Element) *Node {
	if len(children) > maxCachedChildren {
		return a.newNode(lang, kind, children)
	}

	key := nodeKey{kind: kind, n: len(children)}
	copy(key.children[:], children)
	if n, ok := c.nodes[key]; ok {
		c.hits++
		return n
	}

	n := a.newNode(lang, kind, children)
	if c.nodes == nil {
		c.nodes = make(map[nodeKey]*Node)
	}
	c.nodes[key] = n
	return n
}

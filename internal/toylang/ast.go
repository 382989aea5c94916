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

package toylang

import (
	"iter"

	"github.com/bufbuild/oak/red"
	"github.com/bufbuild/oak/syntax"
)

// FuncDecl is a typed view of a [Func] node.
type FuncDecl struct{ *red.Node }

// LetStmt is a typed view of a [Let] node.
type LetStmt struct{ *red.Node }

// AsFunc casts n to a [FuncDecl].
func AsFunc(n *red.Node) (FuncDecl, bool) {
	return red.Cast(n, Func, func(n *red.Node) FuncDecl { return FuncDecl{n} })
}

// AsLet casts n to a [LetStmt].
func AsLet(n *red.Node) (LetStmt, bool) {
	return red.Cast(n, Let, func(n *red.Node) LetStmt { return LetStmt{n} })
}

// Funcs yields every function declared anywhere under n.
func Funcs(n *red.Node) iter.Seq[FuncDecl] {
	return func(yield func(FuncDecl) bool) {
		for d := range n.Descendants() {
			if f, ok := AsFunc(d); ok && !yield(f) {
				return
			}
		}
	}
}

// Name returns the function's name, or "" if it is missing.
func (f FuncDecl) Name() string {
	return ident(childOfKind(f.Node, Name))
}

// Params returns the names of the function's parameters.
func (f FuncDecl) Params() []string {
	params := childOfKind(f.Node, Params)
	if params == nil {
		return nil
	}
	var names []string
	for n := range params.ChildNodes() {
		if n.Kind() == Name {
			names = append(names, ident(n))
		}
	}
	return names
}

// Body returns the function's block, or nil if it is missing.
func (f FuncDecl) Body() *red.Node {
	return childOfKind(f.Node, Block)
}

// Name returns the bound name, or "" if it is missing.
func (s LetStmt) Name() string {
	return ident(childOfKind(s.Node, Name))
}

// Value returns the bound expression, which may be an error node.
func (s LetStmt) Value() *red.Node {
	seenName := false
	for n := range s.ChildNodes() {
		if n.Kind() == Name && !seenName {
			seenName = true
			continue
		}
		return n
	}
	return nil
}

func childOfKind(n *red.Node, kind syntax.NodeKind) *red.Node {
	for child := range n.ChildNodes() {
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// ident returns the text of the first token of n, without trivia.
func ident(n *red.Node) string {
	if n == nil {
		return ""
	}
	for leaf := range n.Leaves() {
		return leaf.Text()
	}
	return ""
}

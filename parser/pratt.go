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
	"github.com/bufbuild/oak/syntax"
)

// Assoc is the associativity of a binary operator.
type Assoc int8

const (
	Left Assoc = iota
	Right
)

// Infix describes a binary operator for [Expr].
type Infix struct {
	// Prec is the binding power; higher binds tighter. Must be positive.
	Prec  int
	Assoc Assoc
	// Kind is the node kind to build.
	Kind syntax.NodeKind
}

// rhs returns the minimum binding power of the right operand.
func (op Infix) rhs() int {
	if op.Assoc == Right {
		return op.Prec
	}
	return op.Prec + 1
}

// Expr parses an operator-precedence expression whose binary operators all
// bind at least as tightly as minPrec.
//
// operand parses one operand, including any prefix and postfix operators,
// and returns the node it built, or nil if it could not build one. infix
// reports whether the next token is a binary operator, without consuming
// it.
//
// Binary nodes wrap their left operand, the operator token, and their right
// operand, in that order.
func Expr(st *State, minPrec int, operand func(*State) *green.Node, infix func(*State) (Infix, bool)) *green.Node {
	lhs := operand(st)
	for lhs != nil {
		op, ok := infix(st)
		if !ok || op.Prec < minPrec {
			break
		}
		lhs = st.Binary(lhs, op.Kind, func() {
			Expr(st, op.rhs(), operand, infix)
		})
	}
	return lhs
}

// Binary wraps lhs, the next token, and whatever rhs parses, into a node of
// the given kind. lhs must have just been finished.
func (st *State) Binary(lhs *green.Node, kind syntax.NodeKind, rhs func()) *green.Node {
	cp := st.CheckpointBefore(lhs)
	st.Bump()
	rhs()
	return st.FinishAt(cp, kind)
}

// Unary wraps the next token and whatever operand parses into a node of the
// given kind.
func (st *State) Unary(kind syntax.NodeKind, operand func()) *green.Node {
	cp := st.Checkpoint()
	st.Bump()
	operand()
	return st.FinishAt(cp, kind)
}

// Postfix wraps lhs and whatever rest parses into a node of the given kind,
// such as a call wrapping a callee and its arguments.
func (st *State) Postfix(lhs *green.Node, kind syntax.NodeKind, rest func()) *green.Node {
	cp := st.CheckpointBefore(lhs)
	rest()
	return st.FinishAt(cp, kind)
}

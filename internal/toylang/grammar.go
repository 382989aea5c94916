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
	"github.com/bufbuild/oak/green"
	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/parser"
	"github.com/bufbuild/oak/report"
)

// Grammar parses a toy-language file:
//
//	File     = { Func | Stmt }
//	Func     = "fn" Name Params Block
//	Params   = "(" [ Name { "," Name } ] ")"
//	Block    = "{" { Stmt } "}"
//	Stmt     = Func | Let | Return | ExprStmt
//	Let      = "let" Name "=" Expr ";"
//	Return   = "return" [ Expr ] ";"
//	ExprStmt = Expr ";"
//
// Expressions use the usual C-like precedences, with prefix "-" and "!" and
// calls binding tightest.
//
// Functions, blocks and statements are all terminated by their own last
// token, so all of them are reused from the previous tree when possible.
func Grammar(st *parser.State) (*green.Node, error) {
	file := st.Checkpoint()
	for st.NotAtEnd() {
		stmt(st)
	}
	st.FinishAt(file, File)
	return st.Finish(), nil
}

var keywords = map[string]bool{"fn": true, "let": true, "return": true}

var infixes = map[string]parser.Infix{
	"||": {Prec: 1, Kind: Binary},
	"&&": {Prec: 2, Kind: Binary},
	"==": {Prec: 3, Kind: Binary},
	"!=": {Prec: 3, Kind: Binary},
	"<":  {Prec: 3, Kind: Binary},
	">":  {Prec: 3, Kind: Binary},
	"<=": {Prec: 3, Kind: Binary},
	">=": {Prec: 3, Kind: Binary},
	"+":  {Prec: 4, Kind: Binary},
	"-":  {Prec: 4, Kind: Binary},
	"*":  {Prec: 5, Kind: Binary},
	"/":  {Prec: 5, Kind: Binary},
	"%":  {Prec: 5, Kind: Binary},
}

// prefixPrec binds tighter than any binary operator.
const prefixPrec = 6

func stmt(st *parser.State) {
	switch {
	case st.AtText("fn"):
		st.Node(Func, func() { fn(st) })
	case st.AtText("let"):
		st.Node(Let, func() {
			st.Bump()
			name(st, "a binding name")
			st.ExpectText("=")
			expr(st)
			st.ExpectText(";")
		})
	case st.AtText("return"):
		st.Node(Return, func() {
			st.Bump()
			if startsExpr(st) {
				expr(st)
			}
			st.ExpectText(";")
		})
	case startsExpr(st):
		st.Node(ExprStmt, func() {
			expr(st)
			st.ExpectText(";")
		})
	default:
		st.ErrorNode("expected a statement, found %q", st.PeekText())
	}
}

func fn(st *parser.State) {
	st.Bump()
	name(st, "a function name")
	params(st)
	block(st)
}

func params(st *parser.State) {
	if !st.AtText("(") {
		st.Missing("a parameter list")
		return
	}

	cp := st.Checkpoint()
	st.Bump()
	for isName(st) {
		name(st, "")
		if !st.AtText(",") {
			break
		}
		if st.PeekTextAt(1) == ")" {
			trailing := st.Checkpoint()
			offset := st.Offset()
			st.Bump()
			st.FinishAt(trailing, ErrorNode)
			st.Error(oakerr.NewTrailingComma(offset), report.AtOffset(offset, offset+1)).
				With(report.Help("remove the `,`"))
			break
		}
		st.Bump()
	}
	st.RecoverUntilFunc(func() bool { return st.AtText(")") || st.AtText("{") })
	st.ExpectText(")")
	st.FinishAt(cp, Params)
}

func block(st *parser.State) {
	if !st.AtText("{") {
		st.Missing("a block")
		return
	}

	st.Node(Block, func() {
		st.Bump()
		for st.NotAtEnd() && !st.AtText("}") {
			stmt(st)
		}
		st.ExpectText("}")
	})
}

func name(st *parser.State, what string) {
	if !isName(st) {
		st.Missing(what)
		return
	}
	cp := st.Checkpoint()
	st.Bump()
	st.FinishAt(cp, Name)
}

func expr(st *parser.State) *green.Node {
	return parser.Expr(st, 1, operand, infix)
}

func infix(st *parser.State) (parser.Infix, bool) {
	if !st.At(Punct) {
		return parser.Infix{}, false
	}
	op, ok := infixes[st.PeekText()]
	return op, ok
}

func operand(st *parser.State) *green.Node {
	var lhs *green.Node
	switch {
	case st.AtText("-"), st.AtText("!"):
		return st.Unary(Unary, func() {
			parser.Expr(st, prefixPrec, operand, infix)
		})
	case isName(st):
		cp := st.Checkpoint()
		st.Bump()
		lhs = st.FinishAt(cp, Name)
	case st.AtAny(Number, String):
		cp := st.Checkpoint()
		st.Bump()
		lhs = st.FinishAt(cp, Literal)
	case st.AtText("("):
		lhs = parens(st)
	default:
		return st.Missing("an expression")
	}

	for st.AtText("(") {
		lhs = st.Postfix(lhs, Call, func() { args(st) })
	}
	return lhs
}

// parens parses a parenthesized expression, or a tuple if there is a comma
// or nothing between the parentheses.
func parens(st *parser.State) *green.Node {
	cp := st.Checkpoint()
	st.Bump()
	if st.EatText(")") {
		return st.FinishAt(cp, Tuple)
	}

	expr(st)
	if !st.AtText(",") {
		st.ExpectText(")")
		return st.FinishAt(cp, Paren)
	}
	for st.EatText(",") && !st.AtText(")") {
		expr(st)
	}
	st.ExpectText(")")
	return st.FinishAt(cp, Tuple)
}

func args(st *parser.State) {
	cp := st.Checkpoint()
	st.Bump()
	for st.NotAtEnd() && !st.AtText(")") {
		if !startsExpr(st) {
			st.RecoverUntilFunc(func() bool { return st.AtText(")") || st.AtText(";") })
			break
		}
		expr(st)
		if !st.EatText(",") {
			break
		}
	}
	st.ExpectText(")")
	st.FinishAt(cp, Args)
}

func isName(st *parser.State) bool {
	return st.At(Identifier) && !keywords[st.PeekText()]
}

func startsExpr(st *parser.State) bool {
	switch {
	case isName(st), st.AtAny(Number, String):
		return true
	default:
		return st.AtText("(") || st.AtText("-") || st.AtText("!")
	}
}


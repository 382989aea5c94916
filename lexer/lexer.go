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

// Package lexer drives a language frontend's scanner over a document,
// producing a flat token stream that covers every byte of input.
//
// The frontend implements [Lexer], which recognizes one token at a time.
// [Run] owns the loop: it guarantees progress, turns anything the frontend
// cannot recognize into error tokens, and survives frontend panics. It can
// also reuse the unchanged prefix of a previous run when given the edits
// that produced the new text.
package lexer

import (
	"fmt"

	"github.com/bufbuild/oak/report"
	"github.com/bufbuild/oak/source"
	"github.com/bufbuild/oak/syntax"
)

// Token is a lexed token: a kind and the byte range it covers.
type Token struct {
	Kind       syntax.TokenKind
	Start, End int
}

// Range returns the range of this token.
func (t Token) Range() source.Range {
	return source.Range{Start: t.Start, End: t.End}
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// Text returns this token's text in src.
func (t Token) Text(src source.Source) string {
	return src.Slice(t.Start, t.End)
}

// Format implements [fmt.Formatter].
func (t Token) Format(s fmt.State, _ rune) {
	fmt.Fprintf(s, "%d@%d..%d", t.Kind, t.Start, t.End)
}

// Lexer is implemented by language frontends.
type Lexer interface {
	// Language returns the language whose token kinds this lexer emits.
	Language() *syntax.Language

	// Next recognizes the token at the cursor and pushes it with
	// [State.Push]. It may push more than one token.
	//
	// If Next does not move the cursor, the byte at the cursor is treated
	// as unrecognized.
	Next(*State)
}

// Output is the result of a [Run].
type Output struct {
	// Tokens covers the whole input in order, with no gaps, and always ends
	// with a zero-length token of the language's EOF kind.
	Tokens []Token

	Diagnostics report.Report

	// Reused is the number of tokens taken from a previous run, and Resumed
	// is the offset lexing restarted at. Both are zero for a full lex.
	Reused, Resumed int
}

// Len returns the length of the lexed text.
func (o Output) Len() int {
	if len(o.Tokens) == 0 {
		return 0
	}
	return o.Tokens[len(o.Tokens)-1].End
}

// EOF returns the trailing EOF token.
func (o Output) EOF() Token {
	return o.Tokens[len(o.Tokens)-1]
}

// Cache stores the output of the previous [Run] over a document.
type Cache interface {
	LexOutput() (Output, bool)
	SetLexOutput(Output)
}

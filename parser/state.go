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
	"fmt"

	"github.com/bufbuild/oak/green"
	"github.com/bufbuild/oak/lexer"
	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/report"
	"github.com/bufbuild/oak/source"
	"github.com/bufbuild/oak/syntax"
)

// State is the parser's view of the token stream and the tree under
// construction.
//
// Trivia is invisible to the peek and bump methods: leading trivia at the
// start of the input goes into the first node opened, and trivia after a
// token is attached right after it, inside whatever node is innermost at
// that point.
type State struct {
	lang   *syntax.Language
	src    source.Source
	text   string
	tokens []lexer.Token
	idx    int // Next token to push.
	b      *green.Builder
	diags  report.Report

	reuse                     *reuser
	reusedNodes, reusedTokens int
}

// Checkpoint marks a position in both the builder and the token stream.
type Checkpoint struct {
	cp    green.Checkpoint
	idx   int
	diags int
}

func newState(lang *syntax.Language, src source.Source, tokens []lexer.Token, b *green.Builder) *State {
	return &State{
		lang:   lang,
		src:    src,
		text:   source.Text(src),
		tokens: tokens,
		b:      b,
	}
}

// Language returns the language being parsed.
func (st *State) Language() *syntax.Language {
	return st.lang
}

// Source returns the text being parsed.
func (st *State) Source() source.Source {
	return st.src
}

// Diagnostics returns the diagnostics recorded so far.
func (st *State) Diagnostics() report.Report {
	return st.diags
}

// AtEnd returns whether every non-trivia token has been consumed.
func (st *State) AtEnd() bool {
	return st.PeekKind() == st.lang.EOF
}

// NotAtEnd is !AtEnd, for loop conditions.
func (st *State) NotAtEnd() bool {
	return !st.AtEnd()
}

// Peek returns the next non-trivia token. At the end of the input, this is
// the EOF token.
func (st *State) Peek() lexer.Token {
	return st.tokens[st.lookahead(0)]
}

// PeekAt returns the n-th non-trivia token after the next one; PeekAt(0) is
// Peek(). Past the end, this is the EOF token.
func (st *State) PeekAt(n int) lexer.Token {
	return st.tokens[st.lookahead(n)]
}

// PeekKind returns the kind of the next non-trivia token.
func (st *State) PeekKind() syntax.TokenKind {
	return st.Peek().Kind
}

// PeekKindAt returns the kind of [State.PeekAt].
func (st *State) PeekKindAt(n int) syntax.TokenKind {
	return st.PeekAt(n).Kind
}

// PeekText returns the text of the next non-trivia token.
func (st *State) PeekText() string {
	return st.textOf(st.Peek())
}

// PeekTextAt returns the text of [State.PeekAt].
func (st *State) PeekTextAt(n int) string {
	return st.textOf(st.PeekAt(n))
}

// At returns whether the next non-trivia token has the given kind.
func (st *State) At(kind syntax.TokenKind) bool {
	return st.PeekKind() == kind
}

// AtAny returns whether the next non-trivia token has one of the given
// kinds.
func (st *State) AtAny(kinds ...syntax.TokenKind) bool {
	next := st.PeekKind()
	for _, k := range kinds {
		if k == next {
			return true
		}
	}
	return false
}

// AtText returns whether the next non-trivia token is exactly text.
func (st *State) AtText(text string) bool {
	return st.PeekKind() != st.lang.EOF && st.PeekText() == text
}

// Offset returns the start of the next non-trivia token.
func (st *State) Offset() int {
	return st.Peek().Start
}

// Bump consumes the next non-trivia token, along with any trivia that
// follows it. Does nothing at the end of the input.
func (st *State) Bump() {
	st.flush()
	if st.idx >= len(st.tokens)-1 {
		return
	}
	st.push(st.tokens[st.idx])
	st.flush()
}

// Advance bumps n tokens.
func (st *State) Advance(n int) {
	for range n {
		st.Bump()
	}
}

// Eat bumps the next token if it has the given kind.
func (st *State) Eat(kind syntax.TokenKind) bool {
	if !st.At(kind) {
		return false
	}
	st.Bump()
	return true
}

// EatText bumps the next token if it is exactly text.
func (st *State) EatText(text string) bool {
	if !st.AtText(text) {
		return false
	}
	st.Bump()
	return true
}

// Expect bumps the next token if it has the given kind. Otherwise, it
// records that what was expected is missing; see [State.Missing].
func (st *State) Expect(kind syntax.TokenKind, what string) bool {
	if st.Eat(kind) {
		return true
	}
	st.Missing(what)
	return false
}

// ExpectText is like [State.Expect], but matches on the text of the token.
func (st *State) ExpectText(text string) bool {
	if st.EatText(text) {
		return true
	}
	st.Missing(fmt.Sprintf("`%s`", text))
	return false
}

// Missing emits an empty error node at the current position and records an
// [oakerr.ExpectedToken] diagnostic for it.
func (st *State) Missing(what string) *green.Node {
	at := st.missingAt()
	// Trivia at the cursor belongs before the missing token.
	st.flush()
	cp := st.Checkpoint()
	n := st.FinishAt(cp, st.lang.ErrorNode)

	d := st.diags.Error(oakerr.NewExpectedToken(at, what), report.AtOffset(at, at))
	if next := st.Peek(); next.Kind != st.lang.EOF {
		d.With(report.Note("found %q", st.textOf(next)))
	} else {
		d.With(report.Note("found end of input"))
	}
	return n
}

// missingAt is the offset a missing token is reported at: right after the
// previous non-trivia token, or the start of the input.
func (st *State) missingAt() int {
	for i := min(st.idx, len(st.tokens)) - 1; i >= 0; i-- {
		if tok := st.tokens[i]; !st.lang.IsTrivia(tok.Kind) {
			return tok.End
		}
	}
	return 0
}

// ErrorNode bumps the next token into an error node and records a diagnostic
// with the given message covering it. At the end of the input, the error
// node is empty.
func (st *State) ErrorNode(format string, args ...any) *green.Node {
	next := st.Peek()
	cp := st.Checkpoint()
	st.Bump()
	n := st.FinishAt(cp, st.lang.ErrorNode)

	st.diags.Error(
		oakerr.NewSyntax(next.Start, fmt.Sprintf(format, args...)),
		report.AtOffset(next.Start, next.End),
	)
	return n
}

// RecoverUntil bumps tokens into an error node until the next token has one
// of the given kinds, or the input ends. Returns nil, and emits nothing, if
// the next token already matches.
func (st *State) RecoverUntil(kinds ...syntax.TokenKind) *green.Node {
	return st.RecoverUntilFunc(func() bool { return st.AtAny(kinds...) })
}

// RecoverUntilFunc is like [State.RecoverUntil] with an arbitrary stopping
// condition.
func (st *State) RecoverUntilFunc(stop func() bool) *green.Node {
	if st.AtEnd() || stop() {
		return nil
	}

	start := st.Offset()
	cp := st.Checkpoint()
	end := start
	for st.NotAtEnd() && !stop() {
		end = st.Peek().End
		st.Bump()
	}
	n := st.FinishAt(cp, st.lang.ErrorNode)

	st.diags.Error(
		oakerr.NewUnexpectedToken(start, st.text[start:end]),
		report.AtOffset(start, end),
	)
	return n
}

// Errorf records a diagnostic covering the next token.
//
// The recorded diagnostic is not tied to the tree. A grammar that uses this
// must not reuse nodes containing the position the diagnostic points to;
// prefer [State.Missing], [State.ErrorNode] and [State.RecoverUntil].
func (st *State) Errorf(kind oakerr.Kind, format string, args ...any) *report.Diagnostic {
	next := st.Peek()
	return st.diags.Error(
		oakerr.At(kind, next.Start, format, args...),
		report.AtOffset(next.Start, next.End),
	)
}

// Error records a diagnostic for err. The same caveats as for
// [State.Errorf] apply.
func (st *State) Error(err error, options ...report.DiagnosticOption) *report.Diagnostic {
	return st.diags.Error(err, options...)
}

// Checkpoint opens a checkpoint at the current position.
//
// If nothing has been consumed yet, any leading trivia is consumed into the
// new checkpoint.
func (st *State) Checkpoint() Checkpoint {
	cp := Checkpoint{cp: st.b.Checkpoint(), idx: st.idx, diags: len(st.diags)}
	st.flush()
	return cp
}

// CheckpointBefore opens a checkpoint just before n, which must be the
// result of a FinishAt inside the innermost open checkpoint.
func (st *State) CheckpointBefore(n *green.Node) Checkpoint {
	return Checkpoint{cp: st.b.CheckpointBefore(n), idx: -1, diags: -1}
}

// FinishAt wraps everything consumed since cp into a node of the given kind.
func (st *State) FinishAt(cp Checkpoint, kind syntax.NodeKind) *green.Node {
	return st.b.FinishAt(cp.cp, kind)
}

// Cancel closes cp, leaving what was consumed since in place.
func (st *State) Cancel(cp Checkpoint) {
	st.b.Cancel(cp.cp)
}

// Restore backtracks to cp: tokens consumed and diagnostics recorded since cp
// are forgotten, and cp is closed. cp must not come from
// [State.CheckpointBefore].
func (st *State) Restore(cp Checkpoint) {
	if cp.idx < 0 {
		panic("oak/parser: Restore: checkpoint was taken with CheckpointBefore")
	}
	st.b.Rewind(cp.cp)
	st.idx = cp.idx
	clear(st.diags[cp.diags:])
	st.diags = st.diags[:cp.diags]
}

// Finish returns the finished tree. See [green.Builder.Finish].
func (st *State) Finish() *green.Node {
	return st.b.Finish()
}

// lookahead returns the index of the n-th non-trivia token from the cursor.
func (st *State) lookahead(n int) int {
	eof := len(st.tokens) - 1
	for i := st.idx; i < eof; i++ {
		if st.lang.IsTrivia(st.tokens[i].Kind) {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	return eof
}

// flush consumes trivia at the cursor.
func (st *State) flush() {
	for eof := len(st.tokens) - 1; st.idx < eof && st.lang.IsTrivia(st.tokens[st.idx].Kind); {
		st.push(st.tokens[st.idx])
	}
}

// push emits tok and advances past it.
func (st *State) push(tok lexer.Token) {
	st.b.Token(tok.Kind, st.textOf(tok))
	st.idx++
}

func (st *State) textOf(tok lexer.Token) string {
	return st.text[tok.Start:tok.End]
}

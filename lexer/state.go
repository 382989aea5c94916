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

package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/report"
	"github.com/bufbuild/oak/scan"
	"github.com/bufbuild/oak/source"
	"github.com/bufbuild/oak/syntax"
)

// State is the cursor a [Lexer] works against.
//
// The bytes between the start of the current token and the cursor are the
// token's text; [State.Push] emits them.
type State struct {
	lang *syntax.Language
	text string

	pos, start int
	bad        int // Start of a pending run of unrecognized bytes, or -1.

	tokens []Token
	diags  report.Report

	reused, resumed int
}

func newState(lang *syntax.Language, src source.Source) *State {
	return &State{
		lang: lang,
		text: source.Text(src),
		bad:  -1,
	}
}

// Language returns the language being lexed.
func (st *State) Language() *syntax.Language {
	return st.lang
}

// Pos returns the cursor's offset.
func (st *State) Pos() int {
	return st.pos
}

// TokenStart returns the offset the current token starts at.
func (st *State) TokenStart() int {
	return st.start
}

// Len returns the length of the input.
func (st *State) Len() int {
	return len(st.text)
}

// Done returns whether the cursor is at the end of the input.
func (st *State) Done() bool {
	return st.pos >= len(st.text)
}

// Rest returns the text after the cursor.
func (st *State) Rest() string {
	return st.text[st.pos:]
}

// Lexeme returns the text of the current token so far.
func (st *State) Lexeme() string {
	return st.text[st.start:st.pos]
}

// Peek returns the rune at the cursor.
//
// Returns -1 at the end of the input or if the cursor is not at valid UTF-8.
func (st *State) Peek() rune {
	r, n := utf8.DecodeRuneInString(st.Rest())
	if r == utf8.RuneError && n < 2 {
		return -1
	}
	return r
}

// PeekByte returns the byte n bytes past the cursor, or 0 if that is past
// the end of the input.
func (st *State) PeekByte(n int) byte {
	if i := st.pos + n; i < len(st.text) {
		return st.text[i]
	}
	return 0
}

// StartsWith returns whether the text at the cursor begins with prefix.
func (st *State) StartsWith(prefix string) bool {
	return strings.HasPrefix(st.Rest(), prefix)
}

// Advance moves the cursor n bytes forward, stopping at the end of the
// input.
func (st *State) Advance(n int) {
	st.pos = min(st.pos+max(n, 0), len(st.text))
}

// Pop consumes the rune at the cursor and returns it.
//
// Returns -1 and does not move if [State.Peek] would.
func (st *State) Pop() rune {
	r := st.Peek()
	if r != -1 {
		st.pos += utf8.RuneLen(r)
	}
	return r
}

// TakeWhile consumes runes while they match f, and returns the number of
// bytes consumed.
func (st *State) TakeWhile(f func(rune) bool) int {
	start := st.pos
	for {
		r := st.Peek()
		if r == -1 || !f(r) {
			break
		}
		st.pos += utf8.RuneLen(r)
	}
	return st.pos - start
}

// Push emits the current token with the given kind. Panics if the token is
// empty.
func (st *State) Push(kind syntax.TokenKind) {
	if st.pos == st.start {
		panic("oak/lexer: pushed an empty token")
	}

	st.flushBad()
	st.tokens = append(st.tokens, Token{Kind: kind, Start: st.start, End: st.pos})
	st.start = st.pos
}

// Unrecognized consumes n more bytes and marks them, along with any
// consumed-but-unpushed bytes, as unrecognized.
//
// Consecutive unrecognized bytes become a single error token with a single
// diagnostic.
func (st *State) Unrecognized(n int) {
	st.Advance(n)
	if st.start == st.pos {
		return
	}
	if st.bad < 0 {
		st.bad = st.start
	}
	st.start = st.pos
}

// Errorf records a diagnostic of the given kind covering the current
// token so far.
func (st *State) Errorf(kind oakerr.Kind, format string, args ...any) *report.Diagnostic {
	return st.diags.Error(
		oakerr.At(kind, st.start, format, args...),
		report.AtOffset(st.start, st.pos),
	)
}

// flushBad emits the pending run of unrecognized bytes, if any.
func (st *State) flushBad() {
	if st.bad < 0 {
		return
	}

	start, end := st.bad, st.start
	st.bad = -1

	r, _ := utf8.DecodeRuneInString(st.text[start:end])
	st.tokens = append(st.tokens, Token{Kind: st.lang.ErrorToken, Start: start, End: end})
	d := st.diags.Error(oakerr.NewUnexpectedCharacter(start, r), report.AtOffset(start, end))
	if n := utf8.RuneCountInString(st.text[start:end]); n > 1 {
		d.With(report.Note("%d unrecognized characters in a row", n))
	}
}

// SkipWhitespace consumes a run of whitespace. Returns whether anything was
// consumed.
func (st *State) SkipWhitespace() bool {
	n := scan.Whitespace(st.Rest())
	st.pos += n
	return n > 0
}

// ScanIdent consumes an identifier made of XID characters or underscores.
func (st *State) ScanIdent() bool {
	n := scan.Ident(st.Rest())
	st.pos += n
	return n > 0
}

// ScanNumber consumes a decimal integer, or a hexadecimal one with a 0x
// prefix. A 0x not followed by a hex digit is just the number 0.
func (st *State) ScanNumber() bool {
	rest := st.Rest()
	if len(rest) > 2 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') {
		if n := scan.HexDigits(rest[2:]); n > 0 {
			st.pos += 2 + n
			return true
		}
	}

	n := scan.Digits(rest)
	st.pos += n
	return n > 0
}

// ScanLineComment consumes a comment starting with prefix up to, but not
// including, the next newline.
func (st *State) ScanLineComment(prefix string) bool {
	if !st.StartsWith(prefix) {
		return false
	}
	st.pos += scan.IndexByte(st.Rest(), '\n')
	return true
}

// ScanBlockComment consumes a comment delimited by open and close. An
// unterminated comment runs to the end of the input and is diagnosed.
func (st *State) ScanBlockComment(open, close string) bool {
	if !st.StartsWith(open) {
		return false
	}

	st.pos += len(open)
	if idx := strings.Index(st.Rest(), close); idx >= 0 {
		st.pos += idx + len(close)
		return true
	}

	st.diags.Error(
		oakerr.At(oakerr.UnexpectedEOF, st.start, "unterminated block comment"),
		report.AtOffset(st.start, st.start+len(open)),
		report.Help("add a closing `%s`", close),
	)
	st.pos = len(st.text)
	return true
}

// ScanQuoted consumes a string delimited by quote. A backslash escapes the
// byte after it. A string that is not closed before a newline or the end of
// the input stops there and is diagnosed.
func (st *State) ScanQuoted(quote byte) bool {
	if st.PeekByte(0) != quote {
		return false
	}

	st.pos++
	for st.pos < len(st.text) {
		switch st.text[st.pos] {
		case quote:
			st.pos++
			return true
		case '\n':
			st.unterminated(quote)
			return true
		case '\\':
			if st.pos+1 < len(st.text) && st.text[st.pos+1] != '\n' {
				st.pos++
			}
		}
		st.pos++
	}

	st.unterminated(quote)
	return true
}

func (st *State) unterminated(quote byte) {
	st.diags.Error(
		oakerr.At(oakerr.UnexpectedEOF, st.start, "unterminated string literal"),
		report.AtOffset(st.start, st.pos),
		report.Help("add a closing `%c`", quote),
	)
}

// ScanPunct consumes the longest of puncts that the text at the cursor
// starts with.
func (st *State) ScanPunct(puncts ...string) bool {
	best := 0
	for _, p := range puncts {
		if len(p) > best && st.StartsWith(p) {
			best = len(p)
		}
	}
	st.pos += best
	return best > 0
}

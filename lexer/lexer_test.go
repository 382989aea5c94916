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

package lexer_test

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/oak/internal/toylang"
	"github.com/bufbuild/oak/lexer"
	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/source"
	"github.com/bufbuild/oak/syntax"
)

// tok is a token with its text, for readable expectations.
type tok struct {
	Kind string
	Text string
}

func tokens(t *testing.T, lang *syntax.Language, text string, out lexer.Output) []tok {
	t.Helper()
	checkPartition(t, text, out)

	var got []tok
	for _, token := range out.Tokens {
		got = append(got, tok{lang.TokenName(token.Kind), text[token.Start:token.End]})
	}
	return got
}

// checkPartition checks that the tokens cover text exactly, ending in EOF.
func checkPartition(t *testing.T, text string, out lexer.Output) {
	t.Helper()
	require.NotEmpty(t, out.Tokens)

	prev := 0
	for i, token := range out.Tokens {
		require.Equal(t, prev, token.Start, "gap before token %d", i)
		if i < len(out.Tokens)-1 {
			require.Less(t, token.Start, token.End, "empty token %d", i)
		}
		prev = token.End
	}
	eof := out.EOF()
	require.Equal(t, toylang.EOF, eof.Kind)
	require.Equal(t, len(text), eof.Start)
	require.Equal(t, len(text), eof.End)
}

func lex(text string) lexer.Output {
	return lexer.Run(toylang.Lexer{}, source.String(text), nil, nil)
}

func TestFnMain(t *testing.T) {
	t.Parallel()

	text := "fn main() {}"
	out := lex(text)
	assert.Empty(t, out.Diagnostics)
	assert.Equal(t, []tok{
		{"Identifier", "fn"},
		{"Whitespace", " "},
		{"Identifier", "main"},
		{"Delimiter", "("},
		{"Delimiter", ")"},
		{"Whitespace", " "},
		{"Delimiter", "{"},
		{"Delimiter", "}"},
		{"EOF", ""},
	}, tokens(t, toylang.Language, text, out))
	assert.Equal(t, lexer.Token{Kind: toylang.Delimiter, Start: 11, End: 12}, out.Tokens[7])
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	out := lex("")
	assert.Equal(t, []lexer.Token{{Kind: toylang.EOF}}, out.Tokens)
	assert.Empty(t, out.Diagnostics)
	assert.Equal(t, 0, out.Len())
}

func TestKinds(t *testing.T) {
	t.Parallel()

	text := "let x = 0x1F + 42; // done\n/* a\nb */ \"s\\\"t\" a->b"
	assert.Equal(t, []tok{
		{"Identifier", "let"},
		{"Whitespace", " "},
		{"Identifier", "x"},
		{"Whitespace", " "},
		{"Punct", "="},
		{"Whitespace", " "},
		{"Number", "0x1F"},
		{"Whitespace", " "},
		{"Punct", "+"},
		{"Whitespace", " "},
		{"Number", "42"},
		{"Punct", ";"},
		{"Whitespace", " "},
		{"Comment", "// done"},
		{"Whitespace", "\n"},
		{"Comment", "/* a\nb */"},
		{"Whitespace", " "},
		{"String", `"s\"t"`},
		{"Whitespace", " "},
		{"Identifier", "a"},
		{"Punct", "->"},
		{"Identifier", "b"},
		{"EOF", ""},
	}, tokens(t, toylang.Language, text, lex(text)))
}

func TestUnrecognized(t *testing.T) {
	t.Parallel()

	text := "a $$ b @"
	out := lex(text)
	assert.Equal(t, []tok{
		{"Identifier", "a"},
		{"Whitespace", " "},
		{"Error", "$$"},
		{"Whitespace", " "},
		{"Identifier", "b"},
		{"Whitespace", " "},
		{"Error", "@"},
		{"EOF", ""},
	}, tokens(t, toylang.Language, text, out))

	require.Len(t, out.Diagnostics, 2)
	assert.Equal(t, []oakerr.Kind{oakerr.UnexpectedCharacter, oakerr.UnexpectedCharacter}, out.Diagnostics.Kinds())
	assert.Equal(t, source.NewRange(2, 4), out.Diagnostics[0].Range)
	assert.Equal(t, "unexpected character '$'", out.Diagnostics[0].Message())
	assert.Equal(t, []string{"2 unrecognized characters in a row"}, out.Diagnostics[0].Notes)
	assert.Equal(t, source.NewRange(7, 8), out.Diagnostics[1].Range)
}

func TestInvalidUTF8(t *testing.T) {
	t.Parallel()

	text := "x\xff\xfe→y"
	out := lex(text)
	assert.Equal(t, []tok{
		{"Identifier", "x"},
		{"Error", "\xff\xfe→"},
		{"Identifier", "y"},
		{"EOF", ""},
	}, tokens(t, toylang.Language, text, out))
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, source.NewRange(1, 6), out.Diagnostics[0].Range)
}

func TestUnterminated(t *testing.T) {
	t.Parallel()

	text := "\"abc\nx /* never"
	out := lex(text)
	assert.Equal(t, []tok{
		{"String", "\"abc"},
		{"Whitespace", "\n"},
		{"Identifier", "x"},
		{"Whitespace", " "},
		{"Comment", "/* never"},
		{"EOF", ""},
	}, tokens(t, toylang.Language, text, out))

	require.Len(t, out.Diagnostics, 2)
	assert.Equal(t, "unterminated string literal", out.Diagnostics[0].Message())
	assert.Equal(t, source.NewRange(0, 4), out.Diagnostics[0].Range)
	assert.Equal(t, "unterminated block comment", out.Diagnostics[1].Message())
	assert.Equal(t, source.NewRange(7, 9), out.Diagnostics[1].Range)
	assert.Equal(t, []string{"add a closing `*/`"}, out.Diagnostics[1].Help)
}

// scripted is a frontend whose behavior is chosen per test.
type scripted func(*lexer.State)

func (scripted) Language() *syntax.Language { return toylang.Language }
func (f scripted) Next(st *lexer.State)     { f(st) }

func TestNoProgress(t *testing.T) {
	t.Parallel()

	text := "abc"
	out := lexer.Run(scripted(func(*lexer.State) {}), source.String(text), nil, nil)
	assert.Equal(t, []tok{
		{"Error", "abc"},
		{"EOF", ""},
	}, tokens(t, toylang.Language, text, out))
	assert.Len(t, out.Diagnostics, 1)
}

func TestUnpushed(t *testing.T) {
	t.Parallel()

	text := "aab"
	out := lexer.Run(scripted(func(st *lexer.State) {
		if st.PeekByte(0) == 'a' {
			st.Advance(1)
			st.Push(toylang.Identifier)
			return
		}
		st.Advance(1) // Forgot to push.
	}), source.String(text), nil, nil)
	assert.Equal(t, []tok{
		{"Identifier", "a"},
		{"Identifier", "a"},
		{"Error", "b"},
		{"EOF", ""},
	}, tokens(t, toylang.Language, text, out))
}

func TestFrontendPanic(t *testing.T) {
	t.Parallel()

	text := "ab!cd"
	out := lexer.Run(scripted(func(st *lexer.State) {
		if st.PeekByte(0) == '!' {
			panic("boom")
		}
		st.Advance(1)
		st.Push(toylang.Identifier)
	}), source.String(text), nil, nil)

	assert.Equal(t, []tok{
		{"Identifier", "a"},
		{"Identifier", "b"},
		{"Error", "!cd"},
		{"EOF", ""},
	}, tokens(t, toylang.Language, text, out))
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, oakerr.Internal, out.Diagnostics[0].Kind())
	assert.Equal(t, "lexer panicked: boom", out.Diagnostics[0].Message())
	assert.Equal(t, source.NewRange(2, 5), out.Diagnostics[0].Range)

	// An empty push is a frontend bug, and is treated the same way.
	out = lexer.Run(scripted(func(st *lexer.State) {
		st.Push(toylang.Identifier)
	}), source.String(text), nil, nil)
	assert.Equal(t, []tok{
		{"Error", "ab!cd"},
		{"EOF", ""},
	}, tokens(t, toylang.Language, text, out))
	assert.Equal(t, []oakerr.Kind{oakerr.Internal}, out.Diagnostics.Kinds())
}

func TestStateHelpers(t *testing.T) {
	t.Parallel()

	var checked bool
	lexer.Run(scripted(func(st *lexer.State) {
		if st.Pos() != 0 {
			st.Advance(st.Len())
			st.Push(toylang.Error)
			return
		}
		checked = true
		assert.Equal(t, toylang.Language, st.Language())
		assert.True(t, st.StartsWith("héllo"))
		assert.Equal(t, 'h', st.Pop())
		assert.Equal(t, 'é', st.Peek())
		assert.Equal(t, 5, st.TakeWhile(func(r rune) bool { return r != ' ' }))
		assert.Equal(t, "héllo", st.Lexeme())
		assert.Equal(t, " wörld\xff", st.Rest())
		assert.Equal(t, byte(' '), st.PeekByte(0))
		assert.Equal(t, byte(0), st.PeekByte(100))
		st.Push(toylang.Identifier)
		assert.Equal(t, 6, st.TokenStart())

		st.Advance(7)
		assert.Equal(t, -1, int(st.Peek()))
		assert.Equal(t, -1, int(st.Pop()))
		st.Advance(100)
		assert.True(t, st.Done())
		st.Push(toylang.Identifier)
	}), source.String("héllo wörld\xff"), nil, nil)
	assert.True(t, checked)
}

// memo is a single-entry lexer.Cache.
type memo struct {
	out lexer.Output
	ok  bool
}

func (m *memo) LexOutput() (lexer.Output, bool) { return m.out, m.ok }
func (m *memo) SetLexOutput(out lexer.Output)   { m.out, m.ok = out, true }

func TestIncremental(t *testing.T) {
	t.Parallel()

	old := "let a = 1;\nlet b = 2; $\n"
	cache := new(memo)
	first := lexer.Run(toylang.Lexer{}, source.String(old), nil, cache)
	assert.Zero(t, first.Reused)
	require.Len(t, first.Diagnostics, 1)

	edits := []source.TextEdit{source.Replace(15, 16, "bee")}
	text, err := source.ApplyEdits(old, edits)
	require.NoError(t, err)

	out := lexer.Run(toylang.Lexer{}, source.String(text), edits, cache)
	assert.Equal(t, 9, out.Reused)
	assert.Equal(t, 11, out.Resumed)
	full := lex(text)
	assert.Equal(t, full.Tokens, out.Tokens)
	assert.Equal(t, full.Diagnostics.Kinds(), out.Diagnostics.Kinds())

	// The cache now holds the new output.
	cached, ok := cache.LexOutput()
	require.True(t, ok)
	assert.Equal(t, out.Tokens, cached.Tokens)

	// Edits that do not describe the cached text disable reuse.
	out = lexer.Run(toylang.Lexer{}, source.String(text), []source.TextEdit{source.Insert(100, "x")}, cache)
	assert.Zero(t, out.Reused)
	assert.Equal(t, full.Tokens, out.Tokens)
}

func TestIncrementalKeepsDiagnostics(t *testing.T) {
	t.Parallel()

	old := "a $ b c d"
	cache := new(memo)
	lexer.Run(toylang.Lexer{}, source.String(old), nil, cache)

	edits := []source.TextEdit{source.Insert(9, "e")}
	text, _ := source.ApplyEdits(old, edits)
	out := lexer.Run(toylang.Lexer{}, source.String(text), edits, cache)
	assert.Positive(t, out.Reused)
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, source.NewRange(2, 3), out.Diagnostics[0].Range)
}

func TestIncrementalRandom(t *testing.T) {
	t.Parallel()

	fragments := []string{
		"let", " ", "\n", "x", "y1", "0x", "1", "f", "(", ")", "{", "}",
		"=", "-", ">", "/", "*", "\"", "\\", "$", "é", "\xff", "\xe2\x86", "\x92",
	}
	rng := rand.New(rand.NewPCG(1, 2))
	randText := func(n int) string {
		var b strings.Builder
		for range n {
			b.WriteString(fragments[rng.IntN(len(fragments))])
		}
		return b.String()
	}

	for i := range 300 {
		cache := new(memo)
		text := randText(rng.IntN(30))
		lexer.Run(toylang.Lexer{}, source.String(text), nil, cache)

		for step := range 5 {
			var edits []source.TextEdit
			pos := 0
			for pos <= len(text) && rng.IntN(3) != 0 {
				start := pos + rng.IntN(len(text)-pos+1)
				end := start + rng.IntN(len(text)-start+1)
				if end-start > 4 {
					end = start + 4
				}
				edits = append(edits, source.Replace(start, end, randText(rng.IntN(3))))
				pos = end + 1
			}
			next, err := source.ApplyEdits(text, edits)
			if err != nil {
				// Two insertions landed on the same offset.
				continue
			}

			name := fmt.Sprintf("%d/%d", i, step)
			got := lexer.Run(toylang.Lexer{}, source.String(next), edits, cache)
			want := lex(next)
			require.Equal(t, want.Tokens, got.Tokens, "%s: %q -> %q", name, text, next)
			require.Equal(t, want.Diagnostics.Kinds(), got.Diagnostics.Kinds(), name)
			for j := range want.Diagnostics {
				require.Equal(t, want.Diagnostics[j].Range, got.Diagnostics[j].Range, name)
			}
			text = next
		}
	}
}

func FuzzRun(f *testing.F) {
	f.Add("fn main() {}")
	f.Add("\"\\")
	f.Add("/*")
	f.Add("\xff\xfe\xfd")
	f.Add("0x")
	f.Fuzz(func(t *testing.T, text string) {
		checkPartition(t, text, lex(text))
	})
}

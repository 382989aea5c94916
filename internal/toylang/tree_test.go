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

package toylang_test

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bufbuild/oak/internal/toylang"
	"github.com/bufbuild/oak/red"
)

// checkTree parses text and checks that the tree is lossless and that every
// node's children tile its span exactly.
func checkTree(t *testing.T, text string) {
	t.Helper()

	out := parse(text)
	require.Equal(t, text, out.Root.Text(), "%q", text)
	require.Equal(t, toylang.File, out.Root.Kind(), "%q", text)

	root := red.NewRoot(out.Root)
	require.Equal(t, 0, root.Offset())
	require.Equal(t, len(text), root.End())
	checkSpans(t, text, root)
}

func checkSpans(t *testing.T, text string, n *red.Node) {
	t.Helper()

	span := n.Span()
	at := span.Start
	for child := range n.Children() {
		cs := child.Span()
		require.Equal(t, at, cs.Start, "%q: gap or overlap before child of %v", text, span)
		require.True(t, span.ContainsRange(cs), "%q: child %v escapes %v", text, cs, span)
		require.Same(t, n, child.Parent())

		if leaf := child.AsLeaf(); leaf != nil {
			require.Equal(t, text[cs.Start:cs.End], leaf.Text())
		} else {
			checkSpans(t, text, child.AsNode())
		}
		at = cs.End
	}
	require.Equal(t, span.End, at, "%q: children of %v end early", text, span)
}

func TestTreeShape(t *testing.T) {
	t.Parallel()

	entries, err := os.ReadDir("testdata")
	require.NoError(t, err)
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".toy" {
			continue
		}
		data, err := os.ReadFile(filepath.Join("testdata", e.Name()))
		require.NoError(t, err)
		checkTree(t, string(data))

		// Every prefix, which cuts constructs off at every point.
		text := string(data)
		for i := range len(text) {
			checkTree(t, text[:i])
		}
	}
}

// fragments are pieces of toy syntax, so random inputs get past the lexer
// often enough to exercise the grammar.
var fragments = []string{
	"fn", "let", "return", "f", "x1", "_", "λ", "0", "0x1f", "\"s\"", "\"",
	"(", ")", "{", "}", ",", ";", "=", "==", "+", "-", "*", "/", "%", "!",
	"&&", "||", "<", "<=", " ", "\n", "\t", "// c\n", "/* c */", "/*",
	"\xff", "\x00", "@", "é",
}

func TestRandomInputs(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 4))
	for range 2000 {
		var b strings.Builder
		for range rng.IntN(30) {
			if rng.IntN(4) == 0 {
				b.WriteByte(byte(rng.IntN(256)))
			} else {
				b.WriteString(fragments[rng.IntN(len(fragments))])
			}
		}
		checkTree(t, b.String())
	}
}

func FuzzParse(f *testing.F) {
	f.Add("fn main() {}")
	f.Add("let x = (1, 2,;\n")
	f.Add("\xff/* ")
	f.Fuzz(func(t *testing.T, text string) {
		out := parse(text)
		if out.Root.Text() != text {
			t.Fatalf("lost text: %q became %q", text, out.Root.Text())
		}
		checkSpans(t, text, red.NewRoot(out.Root))
	})
}

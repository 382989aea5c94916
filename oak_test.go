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

package oak_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/oak"
	"github.com/bufbuild/oak/internal/toylang"
	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/report"
	"github.com/bufbuild/oak/source"
)

func toy() *oak.Frontend {
	return &oak.Frontend{
		Name:       "toy",
		Extensions: []string{".toy"},
		Lexer:      toylang.Lexer{},
		Grammar:    toylang.Grammar,
	}
}

// flat returns a frontend that parses with [parser.Flat] under an enry
// language name.
func flat(name string) *oak.Frontend {
	return &oak.Frontend{Name: name, Lexer: toylang.Lexer{}}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	fe, golang, python := toy(), flat("Go"), flat("Python")
	r := oak.NewRegistry(fe, golang, python)

	got, ok := r.Lookup("a/b.TOY", nil)
	assert.True(t, ok)
	assert.Same(t, fe, got)

	got, ok = r.Lookup("cmd/main.go", nil)
	assert.True(t, ok)
	assert.Same(t, golang, got)

	got, ok = r.Lookup("bin/script", []byte("#!/usr/bin/env python3\nprint(1)\n"))
	assert.True(t, ok)
	assert.Same(t, python, got)

	_, ok = r.Lookup("notes.unknownext", nil)
	assert.False(t, ok)

	got, ok = r.Get("GO")
	assert.True(t, ok)
	assert.Same(t, golang, got)

	assert.Equal(t, []*oak.Frontend{golang, python, fe}, r.Frontends())

	assert.ErrorContains(t, r.Register(flat("python")), `frontend "python" is already registered`)
	assert.Error(t, r.Register(flat("")))
	assert.Panics(t, func() { oak.NewRegistry(toy(), toy()) })
}

func TestFrontend(t *testing.T) {
	t.Parallel()

	out := toy().Parse(source.String("let x = 1;"))
	require.NoError(t, out.Err)
	assert.Equal(t, toylang.Let, out.Root.Child(0).AsNode().Kind())

	// No grammar means a flat tree.
	out = flat("Go").Parse(source.String("let x = 1;"))
	assert.Equal(t, 8, out.Root.NumChildren())
	assert.Same(t, toylang.Language, flat("Go").Language())
}

func TestDocument(t *testing.T) {
	t.Parallel()

	doc := oak.NewDocument("a.toy", toy())
	assert.Equal(t, "", doc.Root().Text())

	doc.Set("let x = 1;\nlet y = 2;\n")
	out, err := doc.Edit(source.Replace(8, 9, "10"))
	require.NoError(t, err)
	assert.Equal(t, "let x = 10;\nlet y = 2;\n", out.Root.Text())
	assert.True(t, doc.Stats().Incremental)
	assert.Equal(t, 1, doc.Stats().ReusedNodes)
	assert.Equal(t, source.NewRange(8, 10), doc.Changed())

	_, err = doc.Edit(source.Replace(5, 100, ""))
	assert.Equal(t, oakerr.MalformedEditList, oakerr.KindOf(err))
	assert.Equal(t, "let x = 10;\nlet y = 2;\n", doc.File().Text())
	assert.Equal(t, source.NewRange(8, 10), doc.Changed())

	out = doc.Update("let x = 3;", []source.TextEdit{source.Insert(0, "?")})
	assert.Equal(t, []oakerr.Kind{oakerr.MalformedEditList}, out.Diagnostics.Kinds())
	assert.Equal(t, "let x = 3;", doc.Output().Root.Text())
	assert.Equal(t, source.NewRange(8, 10), doc.Changed())

	doc.Set("let a = 1;")
	assert.Equal(t, source.NewRange(0, 10), doc.Changed())
	out = doc.Append("let b = 2;")
	assert.Equal(t, "let a = 1;let b = 2;", out.Root.Text())
	assert.Equal(t, 2, out.Root.NumChildren())
	assert.Equal(t, source.NewRange(10, 20), doc.Changed())
	assert.True(t, doc.Stats().Incremental)

	doc.Set("let x = ;")
	assert.Equal(t,
		"a.toy:1:8: error: expected an expression\n",
		doc.Render(report.Renderer{Compact: true}),
	)
}

func TestDocumentConcurrent(t *testing.T) {
	t.Parallel()

	doc := oak.NewDocument("a.toy", toy())
	doc.Set("f();")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := doc.Edit(source.Insert(0, "g();"))
			assert.NoError(t, err)
			_ = doc.Root().Text()
		}()
	}
	wg.Wait()

	out := doc.Output()
	assert.Len(t, out.Root.Text(), 4*9)
	assert.Equal(t, 9, out.Root.NumChildren())
	assert.Empty(t, out.Diagnostics)
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	r := oak.NewRegistry(toy(), flat("Go"))

	var inputs []oak.Input
	for i := range 20 {
		inputs = append(inputs, oak.Input{
			Path: fmt.Sprintf("f%d.toy", i),
			Text: fmt.Sprintf("let x%d = %d;", i, i),
		})
	}
	inputs = append(inputs, oak.Input{Path: "main.go", Text: "package main"})

	p := oak.Parser{Registry: r, MaxParallelism: 3}
	results, err := p.ParseAll(context.Background(), inputs...)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))
	for i, res := range results {
		assert.Equal(t, inputs[i].Path, res.File.Path())
		assert.Equal(t, inputs[i].Text, res.Output.Root.Text())
		assert.Empty(t, res.Output.Diagnostics, inputs[i].Path)
	}
	assert.Equal(t, "Go", results[len(results)-1].Frontend.Name)

	_, err = oak.ParseAll(context.Background(), r, oak.Input{Path: "x.unknownext"})
	assert.ErrorIs(t, err, oak.ErrUnknownLanguage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = oak.ParseAll(ctx, r, inputs...)
	assert.ErrorIs(t, err, context.Canceled)

	results, err = oak.ParseAll(context.Background(), r)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

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

package green_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/oak/green"
	"github.com/bufbuild/oak/internal/toylang"
)

var lang = toylang.Language

// buildLet builds `let x = 1;` with trivia, as a File.
func buildLet(b *green.Builder) *green.Node {
	file := b.Checkpoint()
	let := b.Checkpoint()
	b.Token(toylang.Identifier, "let")
	b.Token(toylang.Whitespace, " ")
	name := b.Checkpoint()
	b.Token(toylang.Identifier, "x")
	b.Token(toylang.Whitespace, " ")
	b.FinishAt(name, toylang.Name)
	b.Token(toylang.Punct, "=")
	b.Token(toylang.Whitespace, " ")
	lit := b.Checkpoint()
	b.Token(toylang.Number, "1")
	b.FinishAt(lit, toylang.Literal)
	b.Token(toylang.Punct, ";")
	b.FinishAt(let, toylang.Let)
	b.FinishAt(file, toylang.File)
	return b.Finish()
}

func TestBuild(t *testing.T) {
	t.Parallel()

	b := green.NewBuilder(lang, nil, nil)
	root := buildLet(b)

	assert.Equal(t, toylang.File, root.Kind())
	assert.Equal(t, "let x = 1;", root.Text())
	assert.Equal(t, 10, root.Len())
	assert.Equal(t, 8, root.NumLeaves())
	assert.False(t, root.HasError())
	require.Equal(t, 1, root.NumChildren())

	let := root.Child(0).AsNode()
	require.NotNil(t, let)
	assert.Equal(t, toylang.Let, let.Kind())
	assert.Equal(t, 7, let.NumChildren())

	var offsets []int
	var lens []int
	for offset, child := range let.Children() {
		offsets = append(offsets, offset)
		lens = append(lens, child.Len())
	}
	assert.Equal(t, []int{0, 3, 4, 6, 7, 8, 9}, offsets)
	assert.Equal(t, []int{3, 1, 2, 1, 1, 1, 1}, lens)

	// Children lengths always sum to the parent's.
	sum := 0
	for _, child := range let.Children() {
		sum += child.Len()
	}
	assert.Equal(t, let.Len(), sum)

	assert.Equal(t, 0, let.ChildIndexAt(0))
	assert.Equal(t, 0, let.ChildIndexAt(2))
	assert.Equal(t, 2, let.ChildIndexAt(5))
	assert.Equal(t, 6, let.ChildIndexAt(9))
	assert.Equal(t, 6, let.ChildIndexAt(100))
	assert.Equal(t, -1, let.ChildIndexAt(-1))
	assert.Equal(t, 4, let.ChildOffset(2))

	var texts []string
	for leaf := range root.Leaves() {
		texts = append(texts, leaf.Text())
	}
	assert.Equal(t, []string{"let", " ", "x", " ", "=", " ", "1", ";"}, texts)
}

func TestEmptyRoot(t *testing.T) {
	t.Parallel()

	b := green.NewBuilder(lang, nil, nil)
	b.FinishAt(b.Checkpoint(), toylang.File)
	root := b.Finish()
	assert.Zero(t, root.Len())
	assert.Zero(t, root.NumChildren())
	assert.Empty(t, root.Text())
	assert.Equal(t, -1, root.ChildIndexAt(0))
}

func TestErrorPropagates(t *testing.T) {
	t.Parallel()

	b := green.NewBuilder(lang, nil, nil)
	file := b.Checkpoint()
	stmt := b.Checkpoint()
	b.Token(toylang.Error, "$")
	b.FinishAt(stmt, toylang.ExprStmt)
	ok := b.Checkpoint()
	b.Token(toylang.Identifier, "x")
	okNode := b.FinishAt(ok, toylang.Name)
	b.FinishAt(file, toylang.File)
	root := b.Finish()

	assert.True(t, root.HasError())
	assert.True(t, root.Child(0).HasError())
	assert.False(t, okNode.HasError())

	b = green.NewBuilder(lang, nil, nil)
	cp := b.Checkpoint()
	assert.True(t, b.FinishAt(cp, toylang.ErrorNode).HasError(), "empty error nodes are errors too")
}

func TestCheckpointBefore(t *testing.T) {
	t.Parallel()

	// a + b, where the Binary node is only opened after a is built.
	b := green.NewBuilder(lang, nil, nil)
	file := b.Checkpoint()
	cp := b.Checkpoint()
	b.Token(toylang.Identifier, "a")
	lhs := b.FinishAt(cp, toylang.Name)

	bin := b.CheckpointBefore(lhs)
	assert.Equal(t, 0, bin.Pos())
	b.Token(toylang.Punct, "+")
	cp = b.Checkpoint()
	b.Token(toylang.Identifier, "b")
	b.FinishAt(cp, toylang.Name)
	b.FinishAt(bin, toylang.Binary)
	b.FinishAt(file, toylang.File)
	root := b.Finish()

	binary := root.Child(0).AsNode()
	require.NotNil(t, binary)
	assert.Equal(t, toylang.Binary, binary.Kind())
	assert.Equal(t, 3, binary.NumChildren())
	assert.Same(t, lhs, binary.Child(0).AsNode())
	assert.Equal(t, "a+b", root.Text())
}

func TestCancelAndRewind(t *testing.T) {
	t.Parallel()

	b := green.NewBuilder(lang, nil, nil)
	file := b.Checkpoint()
	b.Token(toylang.Identifier, "a")

	cp := b.Checkpoint()
	b.Token(toylang.Identifier, "b")
	b.Cancel(cp)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 1, b.Depth())

	cp = b.Checkpoint()
	b.Token(toylang.Identifier, "c")
	b.Checkpoint() // Left open; Rewind closes it.
	b.Token(toylang.Identifier, "d")
	b.Rewind(cp)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 1, b.Depth())
	inner, ok := b.Innermost()
	assert.True(t, ok)
	assert.Equal(t, file, inner)

	b.FinishAt(file, toylang.File)
	assert.Equal(t, "ab", b.Finish().Text())
}

func TestMisuse(t *testing.T) {
	t.Parallel()

	t.Run("zero", func(t *testing.T) {
		t.Parallel()
		b := green.NewBuilder(lang, nil, nil)
		assert.PanicsWithError(t, "oak/green: FinishAt: zero checkpoint", func() {
			b.FinishAt(green.Checkpoint{}, toylang.File)
		})
	})

	t.Run("foreign", func(t *testing.T) {
		t.Parallel()
		b1 := green.NewBuilder(lang, nil, nil)
		b2 := green.NewBuilder(lang, nil, nil)
		cp := b1.Checkpoint()
		assert.PanicsWithError(t, "oak/green: FinishAt: checkpoint 1 belongs to another builder", func() {
			b2.FinishAt(cp, toylang.File)
		})
	})

	t.Run("twice", func(t *testing.T) {
		t.Parallel()
		b := green.NewBuilder(lang, nil, nil)
		cp := b.Checkpoint()
		b.FinishAt(cp, toylang.File)
		assert.PanicsWithError(t, "oak/green: FinishAt: checkpoint 1 was already closed", func() {
			b.FinishAt(cp, toylang.File)
		})
		assert.PanicsWithError(t, "oak/green: Cancel: checkpoint 1 was already closed", func() {
			b.Cancel(cp)
		})
		assert.PanicsWithError(t, "oak/green: Rewind: checkpoint 1 is not open", func() {
			b.Rewind(cp)
		})
	})

	t.Run("out of order", func(t *testing.T) {
		t.Parallel()
		b := green.NewBuilder(lang, nil, nil)
		outer := b.Checkpoint()
		b.Checkpoint()
		assert.PanicsWithError(t, "oak/green: FinishAt: checkpoint 1 is not the innermost open checkpoint (2 is)", func() {
			b.FinishAt(outer, toylang.File)
		})
	})

	t.Run("finish open", func(t *testing.T) {
		t.Parallel()
		b := green.NewBuilder(lang, nil, nil)
		b.Checkpoint()
		assert.PanicsWithError(t, "oak/green: Finish: 1 checkpoints still open", func() { b.Finish() })
	})

	t.Run("finish many", func(t *testing.T) {
		t.Parallel()
		b := green.NewBuilder(lang, nil, nil)
		b.Token(toylang.Identifier, "a")
		b.Token(toylang.Identifier, "b")
		assert.PanicsWithError(t, "oak/green: Finish: want exactly one pending node, got 2 elements", func() { b.Finish() })
	})

	t.Run("before outside", func(t *testing.T) {
		t.Parallel()
		b := green.NewBuilder(lang, nil, nil)
		cp := b.Checkpoint()
		b.Token(toylang.Identifier, "a")
		n := b.FinishAt(cp, toylang.Name)
		b.Checkpoint()
		assert.Panics(t, func() { b.CheckpointBefore(n) })
	})

	t.Run("zero push", func(t *testing.T) {
		t.Parallel()
		b := green.NewBuilder(lang, nil, nil)
		assert.PanicsWithError(t, "oak/green: pushed a zero element", func() { b.Push(green.Element{}) })
	})
}

func TestPush(t *testing.T) {
	t.Parallel()

	old := buildLet(green.NewBuilder(lang, nil, nil))
	let := old.Child(0)

	b := green.NewBuilder(lang, nil, nil)
	file := b.Checkpoint()
	b.Push(let)
	b.Token(toylang.Whitespace, "\n")
	b.Push(let)
	b.FinishAt(file, toylang.File)
	root := b.Finish()

	assert.Equal(t, "let x = 1;\nlet x = 1;", root.Text())
	assert.Same(t, let.AsNode(), root.Child(0).AsNode())
	assert.Same(t, let.AsNode(), root.Child(2).AsNode())
	assert.Equal(t, 11, root.ChildOffset(2))
}

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

// Package parser drives a language's grammar over a token stream, building
// a lossless green tree.
//
// A [Grammar] is an ordinary function that walks the tokens through a
// [*State]: peeking, bumping tokens into the tree, and opening and closing
// nodes with checkpoints. Trivia is handled by the State, not the grammar.
//
// [Parse] owns everything around the grammar: lexing, reuse of the previous
// tree, and normalization of whatever the grammar leaves behind, so that
// the result is always a single root node covering the whole input.
package parser

import (
	"errors"
	"fmt"

	"github.com/bufbuild/oak/green"
	"github.com/bufbuild/oak/lexer"
	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/report"
	"github.com/bufbuild/oak/source"
	"github.com/bufbuild/oak/syntax"
)

// Grammar parses a whole document.
//
// A grammar normally opens a checkpoint, parses until [State.AtEnd],
// finishes the checkpoint with the language's root kind, and returns
// [State.Finish]. Anything it leaves unfinished is repaired by [Parse].
//
// The returned error, if any, becomes [Output.Err].
type Grammar func(*State) (*green.Node, error)

// Cache is the state carried between parses of one document. It is
// implemented by session.Session.
type Cache interface {
	lexer.Cache

	// Prepare is called at the start of each parse, before Builder.
	Prepare()

	// Builder returns the builder the new tree is built with.
	Builder(lang *syntax.Language) *green.Builder

	// PreviousTree and PreviousText return what was last committed, or nil
	// and "".
	PreviousTree() *green.Node
	PreviousText() string

	// Commit records the result of a parse.
	Commit(root *green.Node, text string)
}

// Output is the result of [Parse].
type Output struct {
	// Root covers the whole input and has the language's root kind.
	Root *green.Node

	// Err is the error returned by the grammar, or else the error of the
	// first error-level diagnostic, or nil.
	Err error

	// Diagnostics from lexing and parsing, ordered by position.
	Diagnostics report.Report

	// Tokens is the lexer's output, ending with the EOF token.
	Tokens []lexer.Token

	Stats Stats
}

// Stats describes how much work a parse was able to skip.
type Stats struct {
	// Whether a previous tree was available for reuse.
	Incremental bool

	// Subtrees, and the tokens inside them, taken from the previous tree.
	ReusedNodes, ReusedTokens int

	// Tokens taken from the previous lex, and the offset lexing resumed at.
	ReusedLexTokens, RelexFrom int
}

// Parse lexes src with lx and parses the tokens with grammar.
//
// cache may be nil. If it is not, and edits are non-empty, edits must be the
// changes that turn the previously committed text into src; they are used
// to reuse tokens and subtrees. Edits that are malformed, or that do not
// produce a text of src's length, are reported as an
// [oakerr.MalformedEditList] diagnostic and src is parsed from scratch.
// Parse does not compare the edited text with src byte for byte; see
// session.Session.ParseIncremental for that.
//
// A panic in the grammar becomes an [oakerr.Internal] diagnostic, except for
// misuse of the builder (a [*green.ContractError]), which is a bug in the
// grammar and is re-raised.
func Parse(lx lexer.Lexer, src source.Source, edits []source.TextEdit, cache Cache, grammar Grammar) Output {
	lang := lx.Language()

	var (
		b        *green.Builder
		prev     *green.Node
		edited   *source.EditSet
		badEdits *oakerr.Error
		lexMemo  lexer.Cache
	)
	if cache != nil {
		prev = cache.PreviousTree()
		prevText := cache.PreviousText()
		cache.Prepare()
		b = cache.Builder(lang)
		lexMemo = cache

		if prev != nil && len(edits) > 0 {
			set, err := source.NewEditSet(edits, len(prevText))
			switch {
			case err != nil:
				badEdits = oakerr.NewMalformedEdits("edits do not apply to the previous text")
				badEdits.Cause = err
			case set.NewLen() != src.Len():
				badEdits = oakerr.NewMalformedEdits("edits do not turn the previous text into the new text")
			case prev.Len() == len(prevText):
				edited = set
			}
		}
	} else {
		b = green.NewBuilder(lang, nil, nil)
	}
	if edited == nil {
		// Without a usable previous tree, a previous lex is not trustworthy
		// either.
		edits = nil
	}

	lexed := lexer.Run(lx, src, edits, lexMemo)
	st := newState(lang, src, lexed.Tokens, b)
	if edited != nil {
		st.reuse = &reuser{old: prev, edits: edited}
	}

	root, err := st.run(grammar)

	var diags report.Report
	if badEdits != nil {
		diags.Error(badEdits, report.AtOffset(0, 0)).With(
			report.Note("the document was parsed from scratch"),
		)
	}
	diags.Append(lexed.Diagnostics)
	diags.Append(st.diags)
	diags.Sort()
	if err == nil {
		for i := range diags {
			if diags[i].Level == report.Error {
				err = diags[i].Err
				break
			}
		}
	}

	if cache != nil {
		cache.Commit(root, source.Text(src))
	}

	return Output{
		Root:        root,
		Err:         err,
		Diagnostics: diags,
		Tokens:      lexed.Tokens,
		Stats: Stats{
			Incremental:     edited != nil,
			ReusedNodes:     st.reusedNodes,
			ReusedTokens:    st.reusedTokens,
			ReusedLexTokens: lexed.Reused,
			RelexFrom:       lexed.Resumed,
		},
	}
}

// run invokes the grammar and normalizes the builder's state into a single
// root.
func (st *State) run(grammar Grammar) (*green.Node, error) {
	root, err, panicked := st.invoke(grammar)

	b := st.b
	if root != nil && (b.Len() == 0 || b.Pending(b.Len()-1).AsNode() != root) {
		// The grammar called Finish; put the root back so it can be repaired
		// if needed.
		b.Push(green.NodeElement(root))
	}

	if depth := b.Depth(); depth > 0 {
		if !panicked {
			st.diags.Error(
				oakerr.NewInternal("grammar left %d nodes unfinished", depth),
				report.AtOffset(st.Offset(), st.Offset()),
			)
		}
		for b.Depth() > 0 {
			cp, _ := b.Innermost()
			b.FinishAt(cp, st.lang.ErrorNode)
		}
	}

	if eof := len(st.tokens) - 1; st.idx < eof {
		first := -1
		for i := st.idx; i < eof; i++ {
			if !st.lang.IsTrivia(st.tokens[i].Kind) {
				first = i
				break
			}
		}

		if first < 0 {
			// Only trivia is left, which needs no repair.
			for st.idx < eof {
				st.push(st.tokens[st.idx])
			}
		} else {
			cp := b.Checkpoint()
			for st.idx < eof {
				st.push(st.tokens[st.idx])
			}
			b.FinishAt(cp, st.lang.ErrorNode)
			if !panicked {
				tok := st.tokens[first]
				st.diags.Error(
					oakerr.NewUnexpectedToken(tok.Start, st.text[tok.Start:tok.End]),
					report.AtOffset(tok.Start, st.tokens[eof].Start),
					report.Note("the grammar stopped before the end of the input"),
				)
			}
		}
	}

	pending := b.Take()
	if len(pending) == 1 {
		if n := pending[0].AsNode(); n != nil && n.Kind() == st.lang.Root {
			return n, err
		}
	}

	// Splice everything into a single root, flattening any roots the
	// grammar finished early.
	cp := b.Checkpoint()
	for _, e := range pending {
		if n := e.AsNode(); n != nil && n.Kind() == st.lang.Root {
			for _, child := range n.Children() {
				b.Push(child)
			}
			continue
		}
		b.Push(e)
	}
	b.FinishAt(cp, st.lang.Root)
	return b.Finish(), err
}

// invoke calls the grammar, recovering non-contract panics.
func (st *State) invoke(grammar Grammar) (root *green.Node, err error, panicked bool) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if e, ok := p.(error); ok {
			var contract *green.ContractError
			if errors.As(e, &contract) {
				panic(p)
			}
		}

		st.diags.Error(
			oakerr.NewInternal("grammar panicked: %v", p),
			report.AtOffset(st.Offset(), st.Offset()),
		)
		root, err, panicked = nil, nil, true
	}()

	root, err = grammar(st)
	return root, err, false
}

// Flat is the minimal grammar: every token becomes a direct child of the
// root.
func Flat(st *State) (*green.Node, error) {
	root := st.Checkpoint()
	for st.NotAtEnd() {
		st.Bump()
	}
	st.FinishAt(root, st.Language().Root)
	return st.Finish(), nil
}

// String implements [fmt.Stringer].
func (s Stats) String() string {
	return fmt.Sprintf("incremental=%v nodes=%d tokens=%d lexed=%d relex@%d",
		s.Incremental, s.ReusedNodes, s.ReusedTokens, s.ReusedLexTokens, s.RelexFrom)
}

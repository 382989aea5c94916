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
	"slices"

	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/report"
	"github.com/bufbuild/oak/source"
)

// backtrack is the number of tokens before the first edit that are lexed
// again on an incremental run.
//
// Only tokens ending strictly before the first edit are candidates, so with
// one token of backtrack, the decision of where a token ends may depend on
// the token after it and one byte past that, but no further.
const backtrack = 1

// Run lexes src with lx.
//
// If cache is non-nil and holds the output of lexing the text that edits
// were applied to, tokens before the first edit are reused. The output is
// stored back into cache. Invalid edits are not an error here; they merely
// disable reuse.
//
// Run always terminates and never panics because of the input or the
// frontend.
func Run(lx Lexer, src source.Source, edits []source.TextEdit, cache Cache) Output {
	st := newState(lx.Language(), src)

	if cache != nil && len(edits) > 0 {
		if prev, ok := cache.LexOutput(); ok {
			st.resume(prev, edits)
		}
	}

	st.run(lx)
	out := st.output()

	if cache != nil {
		cache.SetLexOutput(out)
	}
	return out
}

// resume seeds st with the prefix of prev that edits cannot have affected.
func (st *State) resume(prev Output, edits []source.TextEdit) {
	set, err := source.NewEditSet(edits, prev.Len())
	if err != nil || set.NewLen() != st.Len() {
		return
	}

	first := set.FirstChange()
	// Tokens ending strictly before the first edit; the EOF token has zero
	// length so it never counts.
	n, _ := slices.BinarySearchFunc(prev.Tokens, first, func(t Token, first int) int {
		if t.End < first {
			return -1
		}
		return 1
	})
	n -= backtrack
	if n <= 0 {
		return
	}

	st.tokens = slices.Clone(prev.Tokens[:n])
	st.pos = st.tokens[n-1].End
	st.start = st.pos
	st.reused = n
	st.resumed = st.pos

	for _, d := range prev.Diagnostics {
		if d.Range.Start < st.pos && d.Range.End <= st.pos {
			st.diags = append(st.diags, d)
		}
	}
}

// run is the main lexing loop.
func (st *State) run(lx Lexer) {
	for !st.Done() {
		before := st.pos
		st.start = st.pos

		if !st.next(lx) {
			break
		}

		switch {
		case st.pos == before:
			st.Unrecognized(1)
		case st.start < st.pos:
			// The frontend consumed bytes without pushing them.
			st.Unrecognized(0)
		}
	}

	st.flushBad()
	st.tokens = append(st.tokens, Token{Kind: st.lang.EOF, Start: st.Len(), End: st.Len()})
}

// next calls lx.Next, converting a panic into a diagnostic. Returns false if
// lexing should stop.
func (st *State) next(lx Lexer) (ok bool) {
	defer func() {
		if panicked := recover(); panicked != nil {
			st.flushBad()

			start := min(st.start, st.Len())
			st.diags.Error(
				oakerr.NewInternal("lexer panicked: %v", panicked),
				report.AtOffset(start, st.Len()),
			)
			if start < st.Len() {
				st.tokens = append(st.tokens, Token{Kind: st.lang.ErrorToken, Start: start, End: st.Len()})
			}
			st.pos = st.Len()
			ok = false
		}
	}()

	lx.Next(st)
	return true
}

func (st *State) output() Output {
	return Output{
		Tokens:      st.tokens,
		Diagnostics: st.diags,
		Reused:      st.reused,
		Resumed:     st.resumed,
	}
}

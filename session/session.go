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

// Package session holds the state that makes re-parsing a document cheap:
// the previous tree and token stream, the arenas trees are allocated in, and
// a cache for deduplicating small subtrees.
package session

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/bufbuild/oak/green"
	"github.com/bufbuild/oak/lexer"
	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/parser"
	"github.com/bufbuild/oak/report"
	"github.com/bufbuild/oak/source"
	"github.com/bufbuild/oak/syntax"
)

// DefaultCacheLimit is the number of distinct tokens and small nodes a
// session remembers before it starts over.
const DefaultCacheLimit = 1 << 16

// Session is the incremental parsing state of one document.
//
// Each parse allocates its tree in a fresh arena, a new generation. Trees
// from earlier generations are never overwritten, so a tree stays valid for
// as long as anything refers to it.
//
// A Session is not safe for concurrent use.
type Session struct {
	logger     *log.Logger
	reuse      bool
	cacheLimit int

	lang    *syntax.Language
	nodes   green.Cache
	active  *green.Arena
	gen     uint64
	pending string // Why the parse in progress is not incremental.

	tree   *green.Node
	text   string
	lex    lexer.Output
	hasLex bool

	stats Stats
}

var _ parser.Cache = (*Session)(nil)

// Option configures a [Session].
type Option func(*Session)

// WithLogger sets the logger a session reports its decisions to, at debug
// level. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithoutReuse disables incremental parsing: every parse starts from
// scratch.
func WithoutReuse() Option {
	return func(s *Session) {
		s.reuse = false
	}
}

// WithCacheLimit sets how many distinct tokens and small nodes are
// remembered. Zero disables deduplication altogether.
func WithCacheLimit(n int) Option {
	return func(s *Session) {
		s.cacheLimit = max(n, 0)
	}
}

// Stats describes the most recent parse.
type Stats struct {
	parser.Stats

	// Generation counts parses, starting at 1.
	Generation uint64

	// Fallback is why the parse was not incremental, or "" if it was.
	Fallback string

	// CacheSize is the number of entries in the deduplication cache.
	CacheSize int

	// Allocated is the number of nodes and tokens allocated for the new
	// tree, as opposed to reused or deduplicated.
	Allocated int
}

// New returns an empty session.
func New(options ...Option) *Session {
	s := &Session{
		logger:     log.New(io.Discard),
		reuse:      true,
		cacheLimit: DefaultCacheLimit,
		active:     green.NewArena(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Parse parses src with lx and grammar. If edits are given, they must turn
// the text of the previous parse into src; tokens and subtrees they did not
// touch are reused. Edits that are malformed, or that do not produce a text
// of src's length, are reported as an [oakerr.MalformedEditList] diagnostic
// and src is parsed from scratch.
func (s *Session) Parse(lx lexer.Lexer, grammar parser.Grammar, src source.Source, edits []source.TextEdit) parser.Output {
	s.adopt(lx.Language())

	s.pending = s.fallback(edits, src.Len())
	out := parser.Parse(lx, src, edits, s, grammar)

	s.stats = Stats{
		Stats:      out.Stats,
		Generation: s.gen,
		Fallback:   s.pending,
		CacheSize:  s.nodes.Len(),
		Allocated:  s.active.NumNodes() + s.active.NumTokens(),
	}
	if s.stats.Fallback == "" && !out.Stats.Incremental {
		s.stats.Fallback = "edits do not fit the previous text"
	}

	s.logger.Debug("parsed",
		"language", s.lang.Name,
		"generation", s.gen,
		"bytes", src.Len(),
		"incremental", out.Stats.Incremental,
		"fallback", s.stats.Fallback,
		"reused_nodes", out.Stats.ReusedNodes,
		"reused_tokens", out.Stats.ReusedTokens,
		"reused_lex_tokens", out.Stats.ReusedLexTokens,
		"relex_from", out.Stats.RelexFrom,
		"diagnostics", len(out.Diagnostics),
	)
	return out
}

// ParseIncremental is like [Session.Parse], but checks that applying edits
// to the previous text produces text. If it does not, or the edits are
// malformed, the document is parsed from scratch and the output carries an
// [oakerr.MalformedEditList] diagnostic.
//
// Without a previous parse, edits are ignored.
func (s *Session) ParseIncremental(lx lexer.Lexer, grammar parser.Grammar, text string, edits []source.TextEdit) parser.Output {
	s.adopt(lx.Language())
	if s.tree == nil || len(edits) == 0 {
		return s.Parse(lx, grammar, source.String(text), nil)
	}

	var bad *oakerr.Error
	switch applied, err := source.ApplyEdits(s.text, edits); {
	case err != nil:
		bad = oakerr.NewMalformedEdits("edits do not apply to the previous text")
		bad.Cause = err
	case applied != text:
		bad = oakerr.NewMalformedEdits("edits do not turn the previous text into the new text")
	}
	if bad == nil {
		return s.Parse(lx, grammar, source.String(text), edits)
	}

	s.logger.Debug("rejected edits", "generation", s.gen, "edits", len(edits), "error", bad)
	s.Reset()
	out := s.Parse(lx, grammar, source.String(text), nil)
	s.stats.Fallback = bad.Message

	var diags report.Report
	diags.Error(bad, report.AtOffset(0, 0)).With(
		report.Note("the document was parsed from scratch"),
	)
	diags.Append(out.Diagnostics)
	out.Diagnostics = diags
	if out.Err == nil {
		out.Err = bad
	}
	return out
}

// Reset forgets the previous parse, so the next one starts from scratch.
func (s *Session) Reset() {
	s.tree, s.text = nil, ""
	s.lex, s.hasLex = lexer.Output{}, false
	s.nodes.Reset()
}

// Stats describes the most recent parse.
func (s *Session) Stats() Stats {
	return s.stats
}

// Generation returns the number of parses this session has performed.
func (s *Session) Generation() uint64 {
	return s.gen
}

// Tree returns the most recently parsed tree, or nil.
func (s *Session) Tree() *green.Node {
	return s.tree
}

// Text returns the text of the most recently parsed tree.
func (s *Session) Text() string {
	return s.text
}

// Language returns the language of the most recent parse, or nil.
func (s *Session) Language() *syntax.Language {
	return s.lang
}

// LexOutput implements [lexer.Cache].
func (s *Session) LexOutput() (lexer.Output, bool) {
	if !s.reuse {
		return lexer.Output{}, false
	}
	return s.lex, s.hasLex
}

// SetLexOutput implements [lexer.Cache].
func (s *Session) SetLexOutput(out lexer.Output) {
	s.lex, s.hasLex = out, true
}

// Prepare implements [parser.Cache]. It starts a new generation.
func (s *Session) Prepare() {
	s.gen++
	s.active = green.NewArena()

	if s.cacheLimit > 0 && s.nodes.Len() > s.cacheLimit {
		s.logger.Debug("dropping cache", "entries", s.nodes.Len(), "limit", s.cacheLimit)
		s.nodes.Reset()
	}
}

// Builder implements [parser.Cache].
func (s *Session) Builder(lang *syntax.Language) *green.Builder {
	s.adopt(lang)
	if s.cacheLimit == 0 {
		return green.NewBuilder(lang, s.active, nil)
	}
	return green.NewBuilder(lang, s.active, &s.nodes)
}

// PreviousTree implements [parser.Cache].
func (s *Session) PreviousTree() *green.Node {
	if !s.reuse {
		return nil
	}
	return s.tree
}

// PreviousText implements [parser.Cache].
func (s *Session) PreviousText() string {
	return s.text
}

// Commit implements [parser.Cache].
func (s *Session) Commit(root *green.Node, text string) {
	s.tree, s.text = root, text
}

// adopt switches the session to lang. Nothing is shared between languages.
func (s *Session) adopt(lang *syntax.Language) {
	if s.lang == lang {
		return
	}
	if s.lang != nil {
		s.logger.Debug("language changed", "from", s.lang.Name, "to", lang.Name)
	}
	s.Reset()
	s.lang = lang
}

// fallback returns why a parse with the given edits cannot be incremental,
// or "" if it can be.
func (s *Session) fallback(edits []source.TextEdit, newLen int) string {
	switch {
	case !s.reuse:
		return "reuse disabled"
	case s.tree == nil:
		return "no previous tree"
	case len(edits) == 0:
		return "no edits"
	}

	set, err := source.NewEditSet(edits, len(s.text))
	if err != nil {
		return err.Error()
	}
	if set.NewLen() != newLen {
		return "edits do not turn the previous text into the new text"
	}
	return ""
}

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

package syntax

import (
	"errors"
	"fmt"
)

// TokenInfo describes one [TokenKind].
type TokenInfo struct {
	Name string
	Role TokenRole
}

// NodeInfo describes one [NodeKind].
type NodeInfo struct {
	Name string
	Role NodeRole
}

// Language is the kind table of a frontend.
//
// A Language is plain configuration: construct it once, pass it by pointer,
// and do not mutate it after handing it to a lexer or parser.
type Language struct {
	Name string

	// Tokens and Nodes are indexed by kind.
	Tokens []TokenInfo
	Nodes  []NodeInfo

	// EOF is the end-of-stream sentinel appended by the lexer.
	EOF TokenKind
	// ErrorToken is used for runs of unrecognized input.
	ErrorToken TokenKind
	// Root wraps a whole document.
	Root NodeKind
	// ErrorNode wraps input the grammar could not make sense of.
	ErrorNode NodeKind
}

// Validate checks that the special kinds exist and have the right roles,
// and that every kind has a unique name.
func (l *Language) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(l.hasToken(l.EOF) && l.Tokens[l.EOF].Role == TokenEOF,
		"EOF kind %d must be a token with role %v", l.EOF, TokenEOF)
	check(l.hasToken(l.ErrorToken) && l.Tokens[l.ErrorToken].Role == TokenError,
		"error token kind %d must be a token with role %v", l.ErrorToken, TokenError)
	check(l.hasNode(l.Root) && l.Nodes[l.Root].Role == NodeRoot,
		"root kind %d must be a node with role %v", l.Root, NodeRoot)
	check(l.hasNode(l.ErrorNode) && l.Nodes[l.ErrorNode].Role == NodeError,
		"error node kind %d must be a node with role %v", l.ErrorNode, NodeError)

	seen := make(map[string]bool)
	for i, t := range l.Tokens {
		check(t.Name != "", "token kind %d has no name", i)
		check(!seen["t:"+t.Name], "duplicate token name %q", t.Name)
		seen["t:"+t.Name] = true
	}
	for i, n := range l.Nodes {
		check(n.Name != "", "node kind %d has no name", i)
		check(!seen["n:"+n.Name], "duplicate node name %q", n.Name)
		seen["n:"+n.Name] = true
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("language %q: %w", l.Name, err)
	}
	return nil
}

// Token returns the description of k. Unknown kinds get a placeholder name
// and [TokenNone].
func (l *Language) Token(k TokenKind) TokenInfo {
	if !l.hasToken(k) {
		return TokenInfo{Name: fmt.Sprintf("TokenKind(%d)", k)}
	}
	return l.Tokens[k]
}

// Node returns the description of k.
func (l *Language) Node(k NodeKind) NodeInfo {
	if !l.hasNode(k) {
		return NodeInfo{Name: fmt.Sprintf("NodeKind(%d)", k)}
	}
	return l.Nodes[k]
}

func (l *Language) TokenName(k TokenKind) string { return l.Token(k).Name }
func (l *Language) NodeName(k NodeKind) string   { return l.Node(k).Name }

// IsTrivia returns whether k is whitespace, a newline, or a comment.
func (l *Language) IsTrivia(k TokenKind) bool {
	return l.Token(k).Role.IsTrivia()
}

func (l *Language) IsComment(k TokenKind) bool {
	return l.Token(k).Role == TokenComment
}

func (l *Language) IsWhitespace(k TokenKind) bool {
	r := l.Token(k).Role
	return r == TokenWhitespace || r == TokenNewline
}

func (l *Language) IsErrorToken(k TokenKind) bool {
	return l.Token(k).Role == TokenError
}

func (l *Language) IsErrorNode(k NodeKind) bool {
	return l.Node(k).Role == NodeError
}

func (l *Language) IsRoot(k NodeKind) bool {
	return l.Node(k).Role == NodeRoot
}

// TokenByName looks up a token kind by name.
func (l *Language) TokenByName(name string) (TokenKind, bool) {
	for i, t := range l.Tokens {
		if t.Name == name {
			return TokenKind(i), true
		}
	}
	return 0, false
}

// NodeByName looks up a node kind by name.
func (l *Language) NodeByName(name string) (NodeKind, bool) {
	for i, n := range l.Nodes {
		if n.Name == name {
			return NodeKind(i), true
		}
	}
	return 0, false
}

func (l *Language) hasToken(k TokenKind) bool { return int(k) < len(l.Tokens) }
func (l *Language) hasNode(k NodeKind) bool   { return int(k) < len(l.Nodes) }

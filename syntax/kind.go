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

// Package syntax defines the kind model every language frontend plugs into
// the tree core: token and node discriminants, their roles, and the
// [Language] table that names and classifies them.
package syntax

import "fmt"

// TokenKind identifies the kind of a leaf token. Values are assigned by a
// frontend and described by its [Language].
type TokenKind uint16

// NodeKind identifies the kind of an interior node.
type NodeKind uint16

// TokenRole classifies a token kind independently of any language.
type TokenRole uint8

const (
	TokenNone TokenRole = iota
	TokenWhitespace
	TokenNewline
	TokenComment
	TokenError
	TokenEOF
	TokenKeyword
	TokenName
	TokenLiteral
	TokenOperator
	TokenPunctuation
	TokenDelimiter
)

var tokenRoleNames = [...]string{
	TokenNone:        "none",
	TokenWhitespace:  "whitespace",
	TokenNewline:     "newline",
	TokenComment:     "comment",
	TokenError:       "error",
	TokenEOF:         "eof",
	TokenKeyword:     "keyword",
	TokenName:        "name",
	TokenLiteral:     "literal",
	TokenOperator:    "operator",
	TokenPunctuation: "punctuation",
	TokenDelimiter:   "delimiter",
}

// IsTrivia returns whether tokens with this role carry no syntactic meaning.
func (r TokenRole) IsTrivia() bool {
	return r == TokenWhitespace || r == TokenNewline || r == TokenComment
}

// String implements [fmt.Stringer].
func (r TokenRole) String() string {
	if int(r) < len(tokenRoleNames) {
		return tokenRoleNames[r]
	}
	return fmt.Sprintf("TokenRole(%d)", int(r))
}

// NodeRole classifies a node kind independently of any language.
type NodeRole uint8

const (
	NodeNone NodeRole = iota
	NodeRoot
	NodeContainer
	NodeValue
	NodeError
	NodeStatement
	NodeExpression
	NodeDefinition
)

var nodeRoleNames = [...]string{
	NodeNone:       "none",
	NodeRoot:       "root",
	NodeContainer:  "container",
	NodeValue:      "value",
	NodeError:      "error",
	NodeStatement:  "statement",
	NodeExpression: "expression",
	NodeDefinition: "definition",
}

// String implements [fmt.Stringer].
func (r NodeRole) String() string {
	if int(r) < len(nodeRoleNames) {
		return nodeRoleNames[r]
	}
	return fmt.Sprintf("NodeRole(%d)", int(r))
}

func parseRole[R ~uint8](names []string, s string) (R, bool) {
	for i, name := range names {
		if name == s {
			return R(i), true
		}
	}
	return 0, false
}

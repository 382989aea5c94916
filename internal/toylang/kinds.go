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

// Package toylang is a small demonstration frontend: a lexer and a
// recursive-descent grammar for a curly-brace language with functions,
// let bindings and operator expressions.
//
// It exists to exercise the lexer driver, the builder and incremental
// reuse in tests. Nothing here is meant for real use.
package toylang

import (
	_ "embed"

	"github.com/bufbuild/oak/syntax"
)

// Token kinds.
const (
	Error syntax.TokenKind = iota
	Whitespace
	Comment
	Identifier
	Number
	String
	Delimiter
	Punct
	EOF
)

// Node kinds.
const (
	ErrorNode syntax.NodeKind = iota
	File
	Func
	Params
	Block
	Let
	Return
	ExprStmt
	Binary
	Unary
	Paren
	Tuple
	Call
	Args
	Name
	Literal
)

//go:embed toy.yaml
var languageYAML []byte

// Language is the kind table of the toy language.
var Language = mustLoad(languageYAML)

func mustLoad(data []byte) *syntax.Language {
	lang, err := syntax.LoadLanguage(data)
	if err != nil {
		panic(err)
	}
	return lang
}

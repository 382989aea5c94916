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

package toylang

import (
	"strings"

	"github.com/bufbuild/oak/lexer"
	"github.com/bufbuild/oak/syntax"
)

// puncts are the operators and separators of the language.
var puncts = []string{
	"->", "==", "!=", "<=", ">=", "&&", "||",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", ",", ";", ":", ".",
}

// Lexer lexes the toy language. The zero value is ready to use.
type Lexer struct{}

var _ lexer.Lexer = Lexer{}

// Language implements [lexer.Lexer].
func (Lexer) Language() *syntax.Language {
	return Language
}

// Next implements [lexer.Lexer].
func (Lexer) Next(st *lexer.State) {
	c := st.PeekByte(0)
	switch {
	case st.SkipWhitespace():
		st.Push(Whitespace)
	case st.ScanLineComment("//"), st.ScanBlockComment("/*", "*/"):
		st.Push(Comment)
	case c >= '0' && c <= '9':
		st.ScanNumber()
		st.Push(Number)
	case st.ScanQuoted('"'):
		st.Push(String)
	case st.ScanIdent():
		st.Push(Identifier)
	case strings.IndexByte("()[]{}", c) >= 0:
		st.Advance(1)
		st.Push(Delimiter)
	case st.ScanPunct(puncts...):
		st.Push(Punct)
	}
	// Anything else is left for the driver to mark as unrecognized.
}

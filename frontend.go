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

package oak

import (
	"github.com/bufbuild/oak/lexer"
	"github.com/bufbuild/oak/parser"
	"github.com/bufbuild/oak/source"
	"github.com/bufbuild/oak/syntax"
)

// Frontend is a language's contribution to the core.
type Frontend struct {
	// Name identifies the frontend in a [Registry]. To be found by content
	// detection, it must match a language name known to go-enry, such as
	// "Go" or "Python"; matching is case-insensitive.
	Name string

	// Extensions claimed by this frontend, with the leading dot.
	Extensions []string

	Lexer   lexer.Lexer
	Grammar parser.Grammar
}

// Language returns the frontend's kind table.
func (f *Frontend) Language() *syntax.Language {
	return f.Lexer.Language()
}

// Parse parses src from scratch.
func (f *Frontend) Parse(src source.Source) parser.Output {
	return parser.Parse(f.Lexer, src, nil, nil, f.grammar())
}

// grammar returns the frontend's grammar, defaulting to [parser.Flat].
func (f *Frontend) grammar() parser.Grammar {
	if f.Grammar == nil {
		return parser.Flat
	}
	return f.Grammar
}

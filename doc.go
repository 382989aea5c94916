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

// Package oak is the front door to the incremental syntax-tree core.
//
// The core turns source text into a lossless syntax tree: every byte of the
// input, whitespace and comments included, appears in exactly one token of
// the tree, and re-parsing after an edit reuses whatever the edit did not
// touch. Parsing happens in phases, each in its own package:
//
//  1. Lexing turns text into tokens.
//     Also see: lexer.Run
//  2. Parsing drives a grammar over the tokens, building an immutable green
//     tree with a checkpoint builder.
//     Also see: parser.Parse, green.Builder
//  3. Navigation wraps the green tree in a red tree, which knows absolute
//     offsets and parents.
//     Also see: red.NewRoot
//
// # Frontends
//
// A [Frontend] is what a language contributes: its kind table, a lexer and
// a grammar. A [Registry] picks the frontend for a file name, using the
// file's extension, and then go-enry's language detection.
//
// # Documents
//
// A [Document] is one open file. Its edits are parsed incrementally against
// the previous version, through a session.Session, and it can be used from
// several goroutines.
//
// # Batches
//
// A [Parser] parses many files at once, in parallel, each from scratch:
//
//	p := oak.Parser{Registry: registry}
//	results, err := p.ParseAll(ctx, inputs...)
package oak

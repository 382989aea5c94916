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
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bufbuild/oak/oakerr"
)

// languageDoc is the YAML form of a [Language]. Special kinds are referred
// to by name.
type languageDoc struct {
	Name       string    `yaml:"name"`
	Tokens     []kindDoc `yaml:"tokens"`
	Nodes      []kindDoc `yaml:"nodes"`
	EOF        string    `yaml:"eof"`
	ErrorToken string    `yaml:"error_token"`
	Root       string    `yaml:"root"`
	ErrorNode  string    `yaml:"error_node"`
}

type kindDoc struct {
	Name string `yaml:"name"`
	Role string `yaml:"role,omitempty"`
}

// LoadLanguage decodes a YAML kind table, such as
//
//	name: toy
//	tokens:
//	  - {name: Error, role: error}
//	  - {name: Space, role: whitespace}
//	  - {name: EOF, role: eof}
//	nodes:
//	  - {name: File, role: root}
//	  - {name: Error, role: error}
//	eof: EOF
//	error_token: Error
//	root: File
//	error_node: Error
//
// Kinds are numbered in the order they are listed. The result is validated.
func LoadLanguage(data []byte) (*Language, error) {
	var doc languageDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oakerr.FromSerialization(err)
	}

	l := &Language{Name: doc.Name}
	for _, t := range doc.Tokens {
		role, ok := parseRole[TokenRole](tokenRoleNames[:], orNone(t.Role))
		if !ok {
			return nil, fmt.Errorf("language %q: token %q: unknown role %q", doc.Name, t.Name, t.Role)
		}
		l.Tokens = append(l.Tokens, TokenInfo{Name: t.Name, Role: role})
	}
	for _, n := range doc.Nodes {
		role, ok := parseRole[NodeRole](nodeRoleNames[:], orNone(n.Role))
		if !ok {
			return nil, fmt.Errorf("language %q: node %q: unknown role %q", doc.Name, n.Name, n.Role)
		}
		l.Nodes = append(l.Nodes, NodeInfo{Name: n.Name, Role: role})
	}

	var err error
	resolve := func(name, what string, lookup func(string) (uint16, bool)) uint16 {
		k, ok := lookup(name)
		if !ok && err == nil {
			err = fmt.Errorf("language %q: %s refers to unknown kind %q", doc.Name, what, name)
		}
		return k
	}
	tokenByName := func(s string) (uint16, bool) {
		k, ok := l.TokenByName(s)
		return uint16(k), ok
	}
	nodeByName := func(s string) (uint16, bool) {
		k, ok := l.NodeByName(s)
		return uint16(k), ok
	}

	l.EOF = TokenKind(resolve(doc.EOF, "eof", tokenByName))
	l.ErrorToken = TokenKind(resolve(doc.ErrorToken, "error_token", tokenByName))
	l.Root = NodeKind(resolve(doc.Root, "root", nodeByName))
	l.ErrorNode = NodeKind(resolve(doc.ErrorNode, "error_node", nodeByName))
	if err != nil {
		return nil, err
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// MarshalYAML implements [yaml.Marshaler], producing the format read by
// [LoadLanguage].
func (l *Language) MarshalYAML() (any, error) {
	doc := languageDoc{
		Name:       l.Name,
		EOF:        l.TokenName(l.EOF),
		ErrorToken: l.TokenName(l.ErrorToken),
		Root:       l.NodeName(l.Root),
		ErrorNode:  l.NodeName(l.ErrorNode),
	}
	for _, t := range l.Tokens {
		doc.Tokens = append(doc.Tokens, kindDoc{Name: t.Name, Role: noneOr(t.Role.String())})
	}
	for _, n := range l.Nodes {
		doc.Nodes = append(doc.Nodes, kindDoc{Name: n.Name, Role: noneOr(n.Role.String())})
	}
	return doc, nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func noneOr(s string) string {
	if s == "none" {
		return ""
	}
	return s
}

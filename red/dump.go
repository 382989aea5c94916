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

package red

import (
	"fmt"
	"io"
	"strings"

	"github.com/bufbuild/oak/source"
	"github.com/bufbuild/oak/syntax"
)

// Dump writes an indented outline of the tree rooted at n, one element per
// line:
//
//	File@0..6
//	  Name@0..2
//	    Identifier@0..1 "x"
//	    Whitespace@1..2 " "
//	  ...
func Dump(w io.Writer, n *Node, lang *syntax.Language) error {
	var b strings.Builder
	dump(&b, n, lang, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

// DumpString is like [Dump] but returns a string.
func DumpString(n *Node, lang *syntax.Language) string {
	var b strings.Builder
	dump(&b, n, lang, 0)
	return b.String()
}

func dump(b *strings.Builder, n *Node, lang *syntax.Language, depth int) {
	fmt.Fprintf(b, "%s%s@%v\n", strings.Repeat("  ", depth), lang.NodeName(n.Kind()), n.Span())
	for child := range n.Children() {
		if child.node != nil {
			dump(b, child.node, lang, depth+1)
			continue
		}
		leaf := child.leaf
		fmt.Fprintf(b, "%s%s@%v %q\n", strings.Repeat("  ", depth+1), lang.TokenName(leaf.Kind()), leaf.Span(), leaf.Text())
	}
}

// Snapshot is a plain-value copy of a tree, suitable for structural
// comparison with go-cmp.
type Snapshot struct {
	Kind  string
	Range source.Range
	// Text is only set for tokens.
	Text     string
	Children []Snapshot
}

// Snap takes a snapshot of the tree rooted at n.
func Snap(n *Node, lang *syntax.Language) Snapshot {
	s := Snapshot{Kind: lang.NodeName(n.Kind()), Range: n.Span()}
	for child := range n.Children() {
		if child.node != nil {
			s.Children = append(s.Children, Snap(child.node, lang))
			continue
		}
		s.Children = append(s.Children, Snapshot{
			Kind:  lang.TokenName(child.leaf.Kind()),
			Range: child.leaf.Span(),
			Text:  child.leaf.Text(),
		})
	}
	return s
}

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
	"sync"

	"github.com/bufbuild/oak/parser"
	"github.com/bufbuild/oak/red"
	"github.com/bufbuild/oak/report"
	"github.com/bufbuild/oak/session"
	"github.com/bufbuild/oak/source"
)

// Document is an open file whose text changes over time.
//
// A Document is safe for concurrent use; parses are serialized.
type Document struct {
	mu   sync.Mutex
	fe   *Frontend
	sess *session.Session
	buf  *source.Buffer
	file *source.File
	out  parser.Output

	changed source.Range
}

// NewDocument opens an empty document at path. options configure the
// document's session.
func NewDocument(path string, fe *Frontend, options ...session.Option) *Document {
	d := &Document{
		fe:   fe,
		sess: session.New(options...),
		buf:  source.NewBuffer(""),
		file: source.NewFile(path, ""),
	}
	d.out = d.sess.Parse(fe.Lexer, fe.grammar(), d.file, nil)
	return d
}

// Frontend returns the frontend parsing this document.
func (d *Document) Frontend() *Frontend {
	return d.fe
}

// Set replaces the whole text of the document.
func (d *Document) Set(text string) parser.Output {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buf = source.NewBuffer(text)
	d.file = source.NewFile(d.file.Path(), text)
	d.changed = source.NewRange(0, len(text))
	d.out = d.sess.Parse(d.fe.Lexer, d.fe.grammar(), d.file, nil)
	return d.out
}

// Edit applies edits to the current text and re-parses incrementally.
// Malformed edits are an error, and leave the document unchanged.
func (d *Document) Edit(edits ...source.TextEdit) (parser.Output, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.edit(edits)
}

// Append adds text to the end of the document and re-parses incrementally.
func (d *Document) Append(text string) parser.Output {
	d.mu.Lock()
	defer d.mu.Unlock()

	out, _ := d.edit([]source.TextEdit{source.Insert(d.buf.Len(), text)})
	return out
}

func (d *Document) edit(edits []source.TextEdit) (parser.Output, error) {
	changed, err := d.buf.Apply(edits)
	if err != nil {
		return d.out, err
	}
	d.changed = changed
	snap := d.buf.Snapshot()
	d.file = source.NewFile(d.file.Path(), snap.String())
	d.out = d.sess.Parse(d.fe.Lexer, d.fe.grammar(), snap, edits)
	return d.out, nil
}

// Update sets the text of the document to text, which edits are claimed to
// produce from the current text. If they do not, the document is parsed from
// scratch and the output carries a diagnostic saying so.
func (d *Document) Update(text string, edits []source.TextEdit) parser.Output {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.update(text, edits)
	return d.out
}

func (d *Document) update(text string, edits []source.TextEdit) {
	d.changed = diff(d.file.Text(), text)
	d.buf = source.NewBuffer(text)
	d.file = source.NewFile(d.file.Path(), text)
	d.out = d.sess.ParseIncremental(d.fe.Lexer, d.fe.grammar(), text, edits)
}

// diff returns the range of text that differs from prev, after their common
// prefix and suffix.
func diff(prev, text string) source.Range {
	start := 0
	for start < min(len(prev), len(text)) && prev[start] == text[start] {
		start++
	}
	suffix := 0
	for suffix < min(len(prev), len(text))-start &&
		prev[len(prev)-suffix-1] == text[len(text)-suffix-1] {
		suffix++
	}
	return source.NewRange(start, len(text)-suffix)
}

// File returns the current text.
func (d *Document) File() *source.File {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file
}

// Changed returns the range of the current text that the latest change
// touched. Text outside it is the same as before the change.
func (d *Document) Changed() source.Range {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.changed
}

// Output returns the result of the latest parse.
func (d *Document) Output() parser.Output {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.out
}

// Root returns a red tree over the latest parse.
func (d *Document) Root() *red.Node {
	return red.NewRoot(d.Output().Root)
}

// Stats describes the latest parse.
func (d *Document) Stats() session.Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sess.Stats()
}

// Render renders the latest parse's diagnostics with r.
func (d *Document) Render(r report.Renderer) string {
	d.mu.Lock()
	file, diags := d.file, d.out.Diagnostics
	d.mu.Unlock()

	text, _, _ := r.RenderString(file, diags)
	return text
}

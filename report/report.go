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

// Package report collects diagnostics produced while lexing and parsing.
//
// Diagnostics are collected into a [Report], which is a thin builder over a
// slice of [Diagnostic]s. Each diagnostic is a Go error, normally an
// [*oakerr.Error], plus the source range it refers to and some prose.
//
// Diagnostics never stop a parse. A tree is always produced, and the report
// says what was wrong with the input.
//
// Reports can be rendered with a [Renderer], and exchanged as YAML with
// [Report.MarshalYAML] and [Unmarshal].
package report

import (
	"cmp"
	"fmt"
	"runtime"
	"slices"

	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/source"
)

// Level is the severity of a [Diagnostic].
type Level int8

const (
	Error Level = 1 + iota
	Warning
	Remark

	note // Used internally by the renderer.
)

var levelNames = [...]string{
	Error:   "error",
	Warning: "warning",
	Remark:  "remark",
	note:    "note",
}

// String implements [fmt.Stringer].
func (l Level) String() string {
	if l <= 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Diagnostic is a problem with the input, together with where it is.
type Diagnostic struct {
	// The error that prompted this diagnostic. Its message is used as the
	// diagnostic's title.
	Err error

	Level Level

	// The byte range the diagnostic is about. An empty range points between
	// two bytes.
	Range source.Range

	// Notes are factual context; Help is a suggestion for the user.
	Notes, Help []string

	// The stack at the point the diagnostic was recorded. Only populated
	// when the OAK_DEBUG environment variable is set.
	trace []runtime.Frame
}

// Message returns the diagnostic's title.
//
// For an [*oakerr.Error], this does not include the offset, since the
// diagnostic carries a whole range instead.
func (d *Diagnostic) Message() string {
	e, ok := d.Err.(*oakerr.Error)
	switch {
	case d.Err == nil:
		return ""
	case !ok:
		return d.Err.Error()
	}

	msg := *e
	msg.Offset = -1
	return msg.Error()
}

// Kind returns the [oakerr.Kind] of the diagnostic's error.
func (d *Diagnostic) Kind() oakerr.Kind {
	return oakerr.KindOf(d.Err)
}

// Trace returns the stack captured when the diagnostic was recorded, if
// any.
func (d *Diagnostic) Trace() []runtime.Frame {
	return d.trace
}

// With applies options to this diagnostic.
func (d *Diagnostic) With(options ...DiagnosticOption) *Diagnostic {
	for _, option := range options {
		if option != nil {
			option(d)
		}
	}
	return d
}

// String implements [fmt.Stringer].
func (d *Diagnostic) String() string {
	return fmt.Sprintf("%v: %v: %s", d.Range, d.Level, d.Message())
}

// DiagnosticOption is an option that can be applied to a [Diagnostic].
type DiagnosticOption func(*Diagnostic)

// At sets the range of a diagnostic.
func At(r source.Range) DiagnosticOption {
	return func(d *Diagnostic) { d.Range = r }
}

// AtOffset sets the range of a diagnostic to the given span.
func AtOffset(start, end int) DiagnosticOption {
	return At(source.NewRange(start, end))
}

// Note adds a note to a diagnostic, formatted with [fmt.Sprintf].
func Note(format string, args ...any) DiagnosticOption {
	return func(d *Diagnostic) {
		d.Notes = append(d.Notes, fmt.Sprintf(format, args...))
	}
}

// Help adds a help suggestion to a diagnostic, formatted with
// [fmt.Sprintf].
func Help(format string, args ...any) DiagnosticOption {
	return func(d *Diagnostic) {
		d.Help = append(d.Help, fmt.Sprintf(format, args...))
	}
}

// Report is a collection of diagnostics.
//
// A zero Report is empty and ready to use.
type Report []Diagnostic

// Error records an error-level diagnostic for err.
//
// If err is an [*oakerr.Error] with an offset, the diagnostic's range starts
// out as that point; options may override it.
func (r *Report) Error(err error, options ...DiagnosticOption) *Diagnostic {
	return r.push(1, err, Error).With(options...)
}

// Warn records a warning-level diagnostic for err.
func (r *Report) Warn(err error, options ...DiagnosticOption) *Diagnostic {
	return r.push(1, err, Warning).With(options...)
}

// Remark records a remark-level diagnostic for err.
func (r *Report) Remark(err error, options ...DiagnosticOption) *Diagnostic {
	return r.push(1, err, Remark).With(options...)
}

// Errorf records an error-level diagnostic with an unspecified error type;
// analogous to [fmt.Errorf].
func (r *Report) Errorf(format string, args ...any) *Diagnostic {
	return r.push(1, fmt.Errorf(format, args...), Error)
}

// Warnf records a warning-level diagnostic with an unspecified error type.
func (r *Report) Warnf(format string, args ...any) *Diagnostic {
	return r.push(1, fmt.Errorf(format, args...), Warning)
}

// Append adds every diagnostic from other.
func (r *Report) Append(other Report) {
	*r = append(*r, other...)
}

// HasErrors returns whether any diagnostic is error-level.
func (r Report) HasErrors() bool {
	return slices.ContainsFunc(r, func(d Diagnostic) bool { return d.Level == Error })
}

// Count returns the number of diagnostics at the given level.
func (r Report) Count(level Level) int {
	n := 0
	for _, d := range r {
		if d.Level == level {
			n++
		}
	}
	return n
}

// Kinds returns the error kind of each diagnostic, in order. This is mostly
// useful in tests.
func (r Report) Kinds() []oakerr.Kind {
	kinds := make([]oakerr.Kind, len(r))
	for i := range r {
		kinds[i] = r[i].Kind()
	}
	return kinds
}

// Sort sorts the diagnostics by position, keeping the recording order of
// diagnostics at the same position.
func (r Report) Sort() {
	slices.SortStableFunc(r, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Range.Start, b.Range.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Range.End, b.Range.End)
	})
}

// Clone returns a copy of this report that can be appended to without
// affecting r.
func (r Report) Clone() Report {
	return slices.Clone(r)
}

// push is the core "make me a diagnostic" function.
func (r *Report) push(skip int, err error, level Level) *Diagnostic {
	*r = append(*r, Diagnostic{Err: err, Level: level})
	d := &(*r)[len(*r)-1]

	if e, ok := oakerr.As(err); ok && e.Offset >= 0 {
		d.Range = source.Range{Start: e.Offset, End: e.Offset}
	}

	if debugMode() {
		d.trace = captureTrace(skip + 2)
	}
	return d
}

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

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bufbuild/oak/source"
)

// Renderer configures a diagnostic rendering operation.
type Renderer struct {
	// If set, uses a compact one-line format for each diagnostic.
	Compact bool

	// If set, rendering results are enriched with ANSI color escapes.
	Colorize bool

	// Upgrades all warnings to errors.
	WarningsAreErrors bool

	// If set, remark diagnostics will be printed.
	ShowRemarks bool

	// If set, the stack captured under OAK_DEBUG is printed after each
	// diagnostic.
	ShowDebug bool
}

// Render renders every diagnostic in report, which must refer to file.
//
// Returns the number of errors and warnings rendered. The error return is
// for failures writing to out.
func (r Renderer) Render(file *source.File, report Report, out io.Writer) (errorCount, warningCount int, err error) {
	s := r.styles()
	for _, d := range report {
		level := r.level(d.Level)
		if level == Remark && !r.ShowRemarks {
			continue
		}

		switch level {
		case Error:
			errorCount++
		case Warning:
			warningCount++
		}

		if _, err = fmt.Fprintln(out, r.Diagnostic(file, d)); err != nil {
			return errorCount, warningCount, err
		}
		if !r.Compact {
			if _, err = fmt.Fprintln(out); err != nil {
				return errorCount, warningCount, err
			}
		}
	}
	if r.Compact || errorCount+warningCount == 0 {
		return errorCount, warningCount, nil
	}

	var summary string
	switch {
	case errorCount > 0 && warningCount > 0:
		summary = s.level(Error, "encountered "+pluralize(errorCount, "error")+" and "+pluralize(warningCount, "warning"))
	case errorCount > 0:
		summary = s.level(Error, "encountered "+pluralize(errorCount, "error"))
	default:
		summary = s.level(Warning, "encountered "+pluralize(warningCount, "warning"))
	}
	_, err = fmt.Fprintln(out, summary)
	return errorCount, warningCount, err
}

// RenderString is a helper for calling [Renderer.Render] with a
// [strings.Builder].
func (r Renderer) RenderString(file *source.File, report Report) (text string, errorCount, warningCount int) {
	var buf strings.Builder
	e, w, _ := r.Render(file, report, &buf)
	return buf.String(), e, w
}

// Diagnostic renders a single diagnostic to a string, without a trailing
// newline.
func (r Renderer) Diagnostic(file *source.File, d Diagnostic) string {
	s := r.styles()
	level := r.level(d.Level)
	start := file.Location(d.Range.Start, source.Runes)

	if r.Compact {
		var b strings.Builder
		if path := file.Path(); path != "" {
			b.WriteString(s.path(path))
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%d:%d: %s: %s", start.Line, start.Column, s.level(level, level.String()), d.Message())
		return b.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", s.level(level, level.String()), d.Message())

	// The gutter is wide enough for the largest line number shown.
	line := start.Line
	gutter := strings.Repeat(" ", len(strconv.Itoa(line)))

	path := file.Path()
	if path == "" {
		path = "<input>"
	}
	fmt.Fprintf(&b, "\n%s%s %s:%d:%d", gutter, s.accent("-->"), path, start.Line, start.Column)

	if file.Len() > 0 {
		text := file.Line(line)
		lineStart := file.LineRange(line).Start

		// Underline up to the end of the first line of the range.
		from := min(d.Range.Start-lineStart, len(text))
		to := min(max(d.Range.End-lineStart, from), len(text))
		pad := source.Width(text[:from], 0, source.TermWidth)
		width := max(1, source.Width(text[from:to], pad, source.TermWidth))

		fmt.Fprintf(&b, "\n%s %s", gutter, s.accent("|"))
		fmt.Fprintf(&b, "\n%s %s %s", s.accent(strconv.Itoa(line)), s.accent("|"), expandTabs(text))
		fmt.Fprintf(&b, "\n%s %s %s%s", gutter, s.accent("|"), strings.Repeat(" ", pad), s.level(level, strings.Repeat("^", width)))
	}

	for _, n := range d.Notes {
		fmt.Fprintf(&b, "\n%s %s %s: %s", gutter, s.accent("="), s.level(note, "note"), n)
	}
	for _, h := range d.Help {
		fmt.Fprintf(&b, "\n%s %s %s: %s", gutter, s.accent("="), s.level(note, "help"), h)
	}

	if r.ShowDebug {
		for _, frame := range d.trace {
			fmt.Fprintf(&b, "\n%s %s %s\n%s     at %s:%d", gutter, s.accent("="), frame.Function, gutter, frame.File, frame.Line)
		}
	}

	return b.String()
}

func (r Renderer) level(l Level) Level {
	if l == Warning && r.WarningsAreErrors {
		return Error
	}
	return l
}

// styleSheet colors the parts of a rendered diagnostic.
type styleSheet struct {
	colorize bool

	levels      map[Level]lipgloss.Style
	accentStyle lipgloss.Style
	pathStyle   lipgloss.Style
}

func (r Renderer) styles() styleSheet {
	if !r.Colorize {
		return styleSheet{}
	}

	return styleSheet{
		colorize: true,
		levels: map[Level]lipgloss.Style{
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
			Remark:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
			note:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		},
		accentStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		pathStyle:   lipgloss.NewStyle().Bold(true),
	}
}

// Plain styles must not go through lipgloss, which rewrites tabs.
func (s styleSheet) level(l Level, text string) string {
	if !s.colorize {
		return text
	}
	return s.levels[l].Render(text)
}

func (s styleSheet) accent(text string) string {
	if !s.colorize {
		return text
	}
	return s.accentStyle.Render(text)
}

func (s styleSheet) path(text string) string {
	if !s.colorize {
		return text
	}
	return s.pathStyle.Render(text)
}

// expandTabs replaces tabs with spaces up to the next tabstop, so that
// carets line up with the text above them.
func expandTabs(text string) string {
	if !strings.Contains(text, "\t") {
		return text
	}

	var b strings.Builder
	column := 0
	for i, part := range strings.Split(text, "\t") {
		if i > 0 {
			n := source.TabstopWidth - column%source.TabstopWidth
			b.WriteString(strings.Repeat(" ", n))
			column += n
		}
		b.WriteString(part)
		column += source.Width(part, column, source.TermWidth)
	}
	return b.String()
}

func pluralize(count int, what string) string {
	if count == 1 {
		return "1 " + what
	}
	return fmt.Sprint(count, " ", what, "s")
}

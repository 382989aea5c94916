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

package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/report"
	"github.com/bufbuild/oak/source"
)

func TestRenderCompact(t *testing.T) {
	t.Parallel()

	file := source.NewFile("a.toy", "let x = 1\nlet $ = 2\n")
	var r report.Report
	r.Error(oakerr.NewUnexpectedCharacter(14, '$'), report.AtOffset(14, 15))
	r.Warnf("shadowed").With(report.AtOffset(4, 5))
	r.Remark(oakerr.New(oakerr.Custom, "hidden"))

	text, errs, warns := report.Renderer{Compact: true}.RenderString(file, r)
	assert.Equal(t, 1, errs)
	assert.Equal(t, 1, warns)
	assert.Equal(t,
		"a.toy:2:5: error: unexpected character '$'\n"+
			"a.toy:1:5: warning: shadowed\n",
		text)

	text, errs, warns = report.Renderer{Compact: true, WarningsAreErrors: true, ShowRemarks: true}.RenderString(file, r)
	assert.Equal(t, 2, errs)
	assert.Equal(t, 0, warns)
	assert.Equal(t,
		"a.toy:2:5: error: unexpected character '$'\n"+
			"a.toy:1:5: error: shadowed\n"+
			"a.toy:1:1: remark: hidden\n",
		text)
}

func TestRenderSnippet(t *testing.T) {
	t.Parallel()

	file := source.NewFile("a.toy", "let $ = 1\n")
	var r report.Report
	r.Error(oakerr.NewUnexpectedCharacter(4, '$'),
		report.AtOffset(4, 5),
		report.Note("only identifiers may be bound"),
		report.Help("remove this character"),
	)

	text, errs, _ := report.Renderer{}.RenderString(file, r)
	assert.Equal(t, 1, errs)
	assert.Equal(t, ""+
		"error: unexpected character '$'\n"+
		" --> a.toy:1:5\n"+
		"  |\n"+
		"1 | let $ = 1\n"+
		"  |     ^\n"+
		"  = note: only identifiers may be bound\n"+
		"  = help: remove this character\n"+
		"\n"+
		"encountered 1 error\n",
		text)
}

func TestRenderTabsAndWideSpans(t *testing.T) {
	t.Parallel()

	file := source.NewFile("", "\tfoo(bar\n")
	d := report.Diagnostic{
		Err:   oakerr.NewExpectedToken(1, "`)`"),
		Level: report.Error,
		Range: source.NewRange(1, 9),
	}

	assert.Equal(t, ""+
		"error: expected `)`\n"+
		" --> <input>:1:2\n"+
		"  |\n"+
		"1 |     foo(bar\n"+
		"  |     ^^^^^^^",
		report.Renderer{}.Diagnostic(file, d))
}

func TestRenderEmptyFile(t *testing.T) {
	t.Parallel()

	d := report.Diagnostic{Err: oakerr.NewUnexpectedEOF(0), Level: report.Error}
	assert.Equal(t,
		"error: unexpected end of input\n --> <input>:1:1",
		report.Renderer{}.Diagnostic(source.NewFile("", ""), d))
}

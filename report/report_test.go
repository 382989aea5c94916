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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/report"
	"github.com/bufbuild/oak/source"
)

func TestReport(t *testing.T) {
	t.Parallel()

	var r report.Report
	assert.False(t, r.HasErrors())

	r.Warnf("unused %s", "thing").With(report.AtOffset(3, 5))
	d := r.Error(oakerr.NewUnexpectedCharacter(1, '$'), report.Note("first"), report.Help("remove it"))
	assert.Equal(t, source.Range{Start: 1, End: 1}, d.Range)
	r.Error(oakerr.NewUnexpectedEOF(9), report.AtOffset(9, 9))
	r.Errorf("no offset")

	require.Len(t, r, 4)
	assert.True(t, r.HasErrors())
	assert.Equal(t, 3, r.Count(report.Error))
	assert.Equal(t, 1, r.Count(report.Warning))

	assert.Equal(t, []oakerr.Kind{
		oakerr.Custom,
		oakerr.UnexpectedCharacter,
		oakerr.UnexpectedEOF,
		oakerr.Custom,
	}, r.Kinds())

	assert.Equal(t, "unused thing", r[0].Message())
	assert.Equal(t, "unexpected character '$'", r[1].Message())
	assert.Equal(t, []string{"first"}, r[1].Notes)
	assert.Equal(t, []string{"remove it"}, r[1].Help)
	assert.Equal(t, "1..1: error: unexpected character '$'", r[1].String())

	sorted := r.Clone()
	sorted.Sort()
	assert.Equal(t, "no offset", sorted[0].Message())
	assert.Equal(t, "unexpected character '$'", sorted[1].Message())
	assert.Equal(t, "unused thing", sorted[2].Message())
	assert.Equal(t, "unused thing", r[0].Message(), "clone must not alias")
}

func TestMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: errors.New("boom"), want: "boom"},
		{name: "kind only", err: &oakerr.Error{Kind: oakerr.TrailingComma, Offset: 7}, want: "trailing comma not allowed"},
		{name: "cause", err: oakerr.FromSerialization(errors.New("bad yaml")), want: "serialization error: bad yaml"},
		{name: "wrapped", err: oakerr.NewInternal("lexer panicked"), want: "lexer panicked"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			d := report.Diagnostic{Err: test.err}
			assert.Equal(t, test.want, d.Message())
		})
	}
}

func TestLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error", report.Error.String())
	assert.Equal(t, "warning", report.Warning.String())
	assert.Equal(t, "remark", report.Remark.String())
	assert.Equal(t, "Level(0)", report.Level(0).String())
}

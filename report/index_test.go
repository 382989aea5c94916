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

	"github.com/bufbuild/oak/report"
	"github.com/bufbuild/oak/source"
)

func TestIndex(t *testing.T) {
	t.Parallel()

	var r report.Report
	r.Errorf("a").With(report.AtOffset(0, 10))
	r.Errorf("b").With(report.AtOffset(4, 6))
	r.Errorf("c").With(report.AtOffset(8, 8))
	r.Errorf("d").With(report.AtOffset(20, 25))

	idx := report.NewIndex(r)
	messages := func(ds []report.Diagnostic) []string {
		var out []string
		for i := range ds {
			out = append(out, ds[i].Message())
		}
		return out
	}

	assert.Equal(t, []string{"a"}, messages(idx.At(0)))
	assert.Equal(t, []string{"a", "b"}, messages(idx.At(5)))
	assert.Equal(t, []string{"a"}, messages(idx.At(6)))
	assert.Equal(t, []string{"a", "c"}, messages(idx.At(8)))
	assert.Empty(t, idx.At(10))
	assert.Equal(t, []string{"d"}, messages(idx.At(24)))

	assert.Equal(t, []string{"a", "b", "c"}, messages(idx.Overlapping(source.NewRange(5, 12))))
	assert.Equal(t, []string{"a", "b", "c", "d"}, messages(idx.Overlapping(source.NewRange(0, 30))))
	assert.Empty(t, idx.Overlapping(source.NewRange(11, 19)))
}

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
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bufbuild/oak/oakerr"
	"github.com/bufbuild/oak/source"
)

// diagnosticDoc is the interchange form of a [Diagnostic].
type diagnosticDoc struct {
	Kind    string   `yaml:"kind"`
	Level   string   `yaml:"level"`
	Message string   `yaml:"message"`
	Start   int      `yaml:"start"`
	End     int      `yaml:"end"`
	Notes   []string `yaml:"notes,omitempty"`
	Help    []string `yaml:"help,omitempty"`
}

// MarshalYAML implements [yaml.Marshaler].
//
// Only the kind and message of each error survive; decoding produces
// [*oakerr.Error]s.
func (r Report) MarshalYAML() (any, error) {
	docs := make([]diagnosticDoc, len(r))
	for i := range r {
		d := &r[i]
		docs[i] = diagnosticDoc{
			Kind:    d.Kind().Key(),
			Level:   d.Level.String(),
			Message: d.Message(),
			Start:   d.Range.Start,
			End:     d.Range.End,
			Notes:   d.Notes,
			Help:    d.Help,
		}
	}
	return docs, nil
}

// Marshal encodes a report as YAML.
func Marshal(r Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, oakerr.FromSerialization(err)
	}
	if err := enc.Close(); err != nil {
		return nil, oakerr.FromSerialization(err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a report encoded by [Marshal].
func Unmarshal(data []byte) (Report, error) {
	var docs []diagnosticDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, oakerr.FromSerialization(err)
	}

	r := make(Report, 0, len(docs))
	for i, doc := range docs {
		kind, ok := oakerr.KindByKey(doc.Kind)
		if !ok {
			return nil, oakerr.FromSerialization(fmt.Errorf("diagnostic %d: unknown kind %q", i, doc.Kind))
		}
		level, ok := levelByName(doc.Level)
		if !ok {
			return nil, oakerr.FromSerialization(fmt.Errorf("diagnostic %d: unknown level %q", i, doc.Level))
		}
		if doc.Start < 0 || doc.End < doc.Start {
			return nil, oakerr.FromSerialization(fmt.Errorf("diagnostic %d: invalid range %d..%d", i, doc.Start, doc.End))
		}

		r = append(r, Diagnostic{
			Err:   &oakerr.Error{Kind: kind, Message: doc.Message, Offset: doc.Start},
			Level: level,
			Range: source.Range{Start: doc.Start, End: doc.End},
			Notes: doc.Notes,
			Help:  doc.Help,
		})
	}
	return r, nil
}

func levelByName(name string) (Level, bool) {
	for l, n := range levelNames {
		if n != "" && n == name && Level(l) != note {
			return Level(l), true
		}
	}
	return 0, false
}

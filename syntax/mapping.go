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

import "fmt"

// Mapping is an explicit conversion table between two kind spaces, such as
// from a frontend's token kinds to the node kinds that wrap them.
//
// Kinds are never converted by reinterpreting their numeric value; an
// unmapped kind is an error the caller must handle.
type Mapping[From, To ~uint16] map[From]To

// Lookup converts k, returning false if it has no mapping.
func (m Mapping[From, To]) Lookup(k From) (To, bool) {
	to, ok := m[k]
	return to, ok
}

// Must converts k, panicking if it has no mapping.
func (m Mapping[From, To]) Must(k From) To {
	to, ok := m[k]
	if !ok {
		panic(fmt.Sprintf("oak/syntax: no mapping for %T(%d)", k, k))
	}
	return to
}

// Invert returns the reverse mapping. Panics if two kinds map to the same
// target.
func (m Mapping[From, To]) Invert() Mapping[To, From] {
	out := make(Mapping[To, From], len(m))
	for from, to := range m {
		if prev, ok := out[to]; ok {
			panic(fmt.Sprintf("oak/syntax: %T(%d) and %T(%d) both map to %T(%d)", prev, prev, from, from, to, to))
		}
		out[to] = from
	}
	return out
}

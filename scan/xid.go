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

package scan

import "unicode"

// Tables for the Unicode identifier properties (UAX #31). Runes with a
// pattern property are excluded from both.
var (
	idStart    = []*unicode.RangeTable{unicode.L, unicode.Nl, unicode.Other_ID_Start}
	idContinue = []*unicode.RangeTable{
		unicode.L, unicode.Nl, unicode.Other_ID_Start,
		unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue,
	}
	idExcluded = []*unicode.RangeTable{unicode.Pattern_Syntax, unicode.Pattern_White_Space}
)

// IsXIDStart returns whether r may begin an identifier.
func IsXIDStart(r rune) bool {
	if r < 0x80 {
		return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
	}
	return unicode.IsOneOf(idStart, r) && !unicode.IsOneOf(idExcluded, r)
}

// IsXIDContinue returns whether r may continue an identifier.
func IsXIDContinue(r rune) bool {
	if r < 0x80 {
		return r >= 0 && isASCIIIdent(byte(r))
	}
	return unicode.IsOneOf(idContinue, r) && !unicode.IsOneOf(idExcluded, r)
}

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

package scan_test

import (
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/bufbuild/oak/scan"
)

func TestScanners(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		scan func(string) int
		in   string
		want int
	}{
		{"ws/empty", scan.Whitespace, "", 0},
		{"ws/none", scan.Whitespace, "x  ", 0},
		{"ws/short", scan.Whitespace, " \t\n x", 4},
		{"ws/long", scan.Whitespace, "  \r\n\t\v\f          x", 17},
		{"ws/all", scan.Whitespace, strings.Repeat(" ", 19), 19},
		{"ws/high-bit", scan.Whitespace, "        \xa0", 8},
		{"hspace", scan.HorizontalSpace, " \t \t \t \t \n", 9},
		{"hspace/long", scan.HorizontalSpace, "\t\t        \t\r", 11},
		{"digits/empty", scan.Digits, "", 0},
		{"digits/short", scan.Digits, "123abc", 3},
		{"digits/long", scan.Digits, "0123456789012345678:", 19},
		{"digits/slash", scan.Digits, "01234567/", 8},
		{"hex", scan.HexDigits, "deadBEEF0123456g", 15},
		{"hex/none", scan.HexDigits, "xyz", 0},
		{"ident-continue", scan.ASCIIIdentContinue, "foo_Bar_123_baz_quux-", 20},
		{"ident/ascii", scan.Ident, "main()", 4},
		{"ident/underscore", scan.Ident, "_x1 y", 3},
		{"ident/digit", scan.Ident, "1x", 0},
		{"ident/empty", scan.Ident, "", 0},
		{"ident/unicode", scan.Ident, "größe = 1", len("größe")},
		{"ident/unicode-start", scan.Ident, "λx.x", len("λx")},
		{"ident/invalid", scan.Ident, "\xffabc", 0},
		{"ident/stop-at-invalid", scan.Ident, "ab\xff", 2},
		{"ident/stop-at-symbol", scan.Ident, "ab→", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.scan(tt.in))
		})
	}
}

func TestByte(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, scan.Byte("", '/'))
	assert.Equal(t, 11, scan.Byte("///////////x", '/'))
	assert.Equal(t, 3, scan.IndexByte("abc\ndef", '\n'))
	assert.Equal(t, 3, scan.IndexByte("abc", '\n'))
}

// TestAgainstScalar checks the word-at-a-time scanners against a byte loop
// over random inputs drawn from an alphabet that stresses class boundaries.
func TestAgainstScalar(t *testing.T) {
	t.Parallel()

	alphabet := []byte(" \t\n\v\f\r\x08\x0e/09:@AFGZ[`afgz{_\x7f\x80\xa0\xff")
	rng := rand.New(rand.NewPCG(1, 2))

	scalars := []struct {
		name   string
		scan   func(string) int
		accept func(byte) bool
	}{
		{"whitespace", scan.Whitespace, func(b byte) bool { return strings.IndexByte(" \t\n\v\f\r", b) >= 0 }},
		{"digits", scan.Digits, func(b byte) bool { return '0' <= b && b <= '9' }},
		{"hex", scan.HexDigits, func(b byte) bool { return strings.IndexByte("0123456789abcdefABCDEF", b) >= 0 }},
		{"ident", scan.ASCIIIdentContinue, func(b byte) bool {
			return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
		}},
		{"hspace", scan.HorizontalSpace, func(b byte) bool { return b == ' ' || b == '\t' }},
		{"slashes", func(s string) int { return scan.Byte(s, '/') }, func(b byte) bool { return b == '/' }},
		{"high", func(s string) int { return scan.Byte(s, 0xa0) }, func(b byte) bool { return b == 0xa0 }},
	}

	for range 2000 {
		n := rng.IntN(40)
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = alphabet[rng.IntN(len(alphabet))]
		}
		// Make long matching runs likely.
		if n > 0 && rng.IntN(2) == 0 {
			fill := buf[rng.IntN(n)]
			for i := range rng.IntN(n) {
				buf[i] = fill
			}
		}
		s := string(buf)

		for _, sc := range scalars {
			want := 0
			for want < len(s) && sc.accept(s[want]) {
				want++
			}
			assert.Equal(t, want, sc.scan(s), "%s(%q)", sc.name, s)
		}
	}
}

func TestXID(t *testing.T) {
	t.Parallel()

	assert.True(t, scan.IsXIDStart('a'))
	assert.True(t, scan.IsXIDStart('_'))
	assert.True(t, scan.IsXIDStart('λ'))
	assert.False(t, scan.IsXIDStart('1'))
	assert.False(t, scan.IsXIDStart('$'))
	assert.True(t, scan.IsXIDContinue('1'))
	assert.True(t, scan.IsXIDContinue('́')) // Combining acute accent.
	assert.False(t, scan.IsXIDContinue('-'))
	assert.False(t, scan.IsXIDContinue(utf8.RuneError))
}

func FuzzScanners(f *testing.F) {
	f.Add("  \t\nabc")
	f.Add("0x1234_ffff")
	f.Add("größe\xff")
	f.Fuzz(func(t *testing.T, s string) {
		for _, fn := range []func(string) int{
			scan.Whitespace, scan.HorizontalSpace, scan.Digits,
			scan.HexDigits, scan.ASCIIIdentContinue, scan.Ident,
		} {
			n := fn(s)
			if n < 0 || n > len(s) {
				t.Fatalf("prefix length %d out of range for %q", n, s)
			}
		}
	})
}

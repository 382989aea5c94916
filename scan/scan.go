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

// Package scan provides the run-scanning primitives lexers are built from.
//
// Every function takes the remaining input and returns the length in bytes of
// the matching prefix. All of them accept empty input, returning 0, and none
// reads past the end of its argument.
//
// The ASCII class scanners test eight bytes per step using word-wide bit
// tricks on a little-endian packed uint64, falling back to a byte loop for
// the tail and to locate the first mismatch.
package scan

import (
	"math/bits"
	"strings"
	"unicode/utf8"
)

const (
	lsb  = 0x0101010101010101
	msb  = 0x8080808080808080
	low7 = 0x7f7f7f7f7f7f7f7f
)

// Whitespace returns the length of the run of ASCII whitespace (space, tab,
// line feed, carriage return, form feed, vertical tab) at the start of s.
func Whitespace(s string) int {
	return run(s, whitespaceMask, isWhitespace)
}

// HorizontalSpace returns the length of the run of spaces and tabs at the
// start of s.
func HorizontalSpace(s string) int {
	return run(s, func(w uint64) uint64 {
		return eq(w, ' ') | eq(w, '\t')
	}, func(b byte) bool { return b == ' ' || b == '\t' })
}

// Digits returns the length of the run of ASCII decimal digits at the start
// of s.
func Digits(s string) int {
	return run(s, digitMask, isDigit)
}

// HexDigits returns the length of the run of ASCII hexadecimal digits at the
// start of s.
func HexDigits(s string) int {
	return run(s, func(w uint64) uint64 {
		return digitMask(w) | between(w, 'a', 'f') | between(w, 'A', 'F')
	}, isHexDigit)
}

// ASCIIIdentContinue returns the length of the run of ASCII letters, digits
// and underscores at the start of s.
func ASCIIIdentContinue(s string) int {
	return run(s, identMask, isASCIIIdent)
}

// Byte returns the length of the run of b at the start of s.
func Byte(s string, b byte) int {
	return run(s, func(w uint64) uint64 { return eq(w, b) }, func(c byte) bool { return c == b })
}

// IndexByte returns the offset of the first b in s, or len(s) if there is
// none. Unlike [strings.IndexByte], the result can always be used as a
// prefix length.
func IndexByte(s string, b byte) int {
	if i := strings.IndexByte(s, b); i >= 0 {
		return i
	}
	return len(s)
}

// Ident returns the length of the identifier at the start of s: an
// [IsXIDStart] rune followed by any number of [IsXIDContinue] runes. Returns
// 0 if s does not start with an identifier.
func Ident(s string) int {
	if s == "" {
		return 0
	}

	n := 0
	if c := s[0]; c < utf8.RuneSelf {
		if !isASCIIIdent(c) || isDigit(c) {
			return 0
		}
	} else {
		r, size := utf8.DecodeRuneInString(s)
		if !IsXIDStart(r) {
			return 0
		}
		n = size
	}

	for {
		n += ASCIIIdentContinue(s[n:])
		if n == len(s) || s[n] < utf8.RuneSelf {
			return n
		}
		r, size := utf8.DecodeRuneInString(s[n:])
		if !IsXIDContinue(r) {
			return n
		}
		n += size
	}
}

// run scans s eight bytes at a time. mask must return a word with the high
// bit of each byte set exactly when that byte is in the class; accept is the
// scalar version of the same class.
func run(s string, mask func(uint64) uint64, accept func(byte) bool) int {
	i := 0
	for ; i+8 <= len(s); i += 8 {
		m := mask(load(s[i : i+8]))
		if m != msb {
			// The lowest clear high bit is the first byte outside the class.
			return i + bits.TrailingZeros64(^m&msb)/8
		}
	}
	for ; i < len(s) && accept(s[i]); i++ {
	}
	return i
}

// load packs eight bytes into a word, first byte lowest.
func load(s string) uint64 {
	_ = s[7]
	return uint64(s[0]) | uint64(s[1])<<8 | uint64(s[2])<<16 | uint64(s[3])<<24 |
		uint64(s[4])<<32 | uint64(s[5])<<40 | uint64(s[6])<<48 | uint64(s[7])<<56
}

// eq sets the high bit of every byte of w equal to b.
func eq(w uint64, b byte) uint64 {
	x := w ^ (lsb * uint64(b))
	// x's byte is zero iff adding 0x7f to its low seven bits does not carry
	// into the high bit and its own high bit is clear. No byte can carry into
	// its neighbor.
	return ^(((x & low7) + low7) | x) & msb
}

// between sets the high bit of every byte of w in [lo, hi]. Requires
// hi <= 0x7f.
func between(w uint64, lo, hi byte) uint64 {
	t := w & low7
	ge := t + lsb*uint64(0x80-lo) // High bit set iff t >= lo.
	le := lsb*uint64(0x80+hi) - t // High bit set iff t <= hi.
	return ge & le &^ w & msb     // Bytes >= 0x80 are never in the class.
}

func whitespaceMask(w uint64) uint64 {
	return eq(w, ' ') | between(w, '\t', '\r')
}

func digitMask(w uint64) uint64 {
	return between(w, '0', '9')
}

func identMask(w uint64) uint64 {
	return between(w, 'a', 'z') | between(w, 'A', 'Z') | digitMask(w) | eq(w, '_')
}

func isWhitespace(b byte) bool {
	return b == ' ' || ('\t' <= b && b <= '\r')
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}

func isASCIIIdent(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || isDigit(b) || b == '_'
}

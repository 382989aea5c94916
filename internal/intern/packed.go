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

package intern

// Short ASCII strings are packed into the ID itself:
//
//	bit 31      always set, so inlined IDs are negative
//	bits 28-30  length, 1 to maxInlined
//	bits 0-27   up to four 7-bit characters, first character lowest
const (
	maxInlined = 4
	charBits   = 7
	lenShift   = maxInlined * charBits
)

// pack attempts to inline data into an ID.
func pack(data string) (ID, bool) {
	if data == "" {
		return 0, true
	}
	if len(data) > maxInlined {
		return 0, false
	}

	v := uint32(1)<<31 | uint32(len(data))<<lenShift
	for i := range len(data) {
		c := data[i]
		if c >= 0x80 {
			return 0, false
		}
		v |= uint32(c) << (i * charBits)
	}
	return ID(int32(v)), true
}

// unpack decodes an ID produced by pack.
func unpack(id ID) string {
	v := uint32(id)
	n := int(v>>lenShift) & 0b111

	var buf [maxInlined]byte
	for i := range n {
		buf[i] = byte(v>>(i*charBits)) & 0x7f
	}
	return string(buf[:n])
}

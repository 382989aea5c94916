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
	"os"
	"runtime"
	"sync"
)

// debugMode returns whether OAK_DEBUG is set to a non-empty value other
// than "0". It is read once per process.
var debugMode = sync.OnceValue(func() bool {
	v := os.Getenv("OAK_DEBUG")
	return v != "" && v != "0"
})

// captureTrace unwinds the stack, skipping skip frames above the caller.
func captureTrace(skip int) []runtime.Frame {
	pc := make([]uintptr, 64)
	pc = pc[:runtime.Callers(skip+1, pc)]

	var trace []runtime.Frame
	var zero runtime.Frame
	frames := runtime.CallersFrames(pc)
	for {
		next, more := frames.Next()
		if next != zero {
			trace = append(trace, next)
		}
		if !more {
			break
		}
	}
	return trace
}

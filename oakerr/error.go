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

// Package oakerr defines the error taxonomy shared by the lexer, the parser
// driver and the incremental machinery.
//
// Errors that describe a problem with user input are never returned as Go
// errors from a parse; they are recorded as diagnostics (see package report)
// wrapping an [*Error]. Errors returned directly to callers are reserved for
// caller mistakes, such as a malformed edit list, and for serialization
// failures.
package oakerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an [Error].
type Kind int8

const (
	Custom Kind = iota
	Syntax
	UnexpectedCharacter
	UnexpectedToken
	UnexpectedEOF
	ExpectedToken
	ExpectedName
	TrailingComma
	MalformedEditList
	Serialization
	Internal
)

var kindKeys = [...]string{
	Custom:              "custom",
	Syntax:              "syntax_error",
	UnexpectedCharacter: "unexpected_character",
	UnexpectedToken:     "unexpected_token",
	UnexpectedEOF:       "unexpected_eof",
	ExpectedToken:       "expected_token",
	ExpectedName:        "expected_name",
	TrailingComma:       "trailing_comma_not_allowed",
	MalformedEditList:   "malformed_edit_list",
	Serialization:       "serialization_error",
	Internal:            "internal_error",
}

// Key returns a stable, machine-readable name for this kind.
func (k Kind) Key() string {
	if int(k) < 0 || int(k) >= len(kindKeys) {
		return fmt.Sprintf("kind_%d", int(k))
	}
	return kindKeys[k]
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	return k.Key()
}

// KindByKey is the inverse of [Kind.Key].
func KindByKey(key string) (Kind, bool) {
	for k, v := range kindKeys {
		if v == key {
			return Kind(k), true
		}
	}
	return Custom, false
}

// Error is the error type used throughout oak.
type Error struct {
	Kind    Kind
	Message string

	// Offset is the byte offset the error refers to, or -1 if it has none.
	Offset int

	// Cause is the wrapped error, if any.
	Cause error
}

// Error implements [error].
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Message == "" {
		b.WriteString(strings.ReplaceAll(e.Kind.Key(), "_", " "))
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind. This makes
// errors.Is(err, &Error{Kind: k}) a kind check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == "" && t.Cause == nil
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// KindOf returns the kind of the first *Error in err's chain, or Custom.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Custom
}

// New returns a new error of the given kind with no offset.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: -1}
}

// At returns a new error of the given kind at offset.
func At(kind Kind, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: offset}
}

func NewSyntax(offset int, message string) *Error {
	return &Error{Kind: Syntax, Message: message, Offset: offset}
}

func NewUnexpectedCharacter(offset int, r rune) *Error {
	return At(UnexpectedCharacter, offset, "unexpected character %q", r)
}

func NewUnexpectedToken(offset int, text string) *Error {
	return At(UnexpectedToken, offset, "unexpected token %q", text)
}

func NewUnexpectedEOF(offset int) *Error {
	return &Error{Kind: UnexpectedEOF, Message: "unexpected end of input", Offset: offset}
}

func NewExpectedToken(offset int, want string) *Error {
	return At(ExpectedToken, offset, "expected %s", want)
}

func NewExpectedName(offset int, what string) *Error {
	return At(ExpectedName, offset, "expected %s name", what)
}

func NewTrailingComma(offset int) *Error {
	return &Error{Kind: TrailingComma, Message: "trailing comma not allowed", Offset: offset}
}

func NewMalformedEdits(format string, args ...any) *Error {
	return New(MalformedEditList, format, args...)
}

func NewInternal(format string, args ...any) *Error {
	return New(Internal, format, args...)
}

// FromSerialization wraps an encoding or decoding failure, preserving its
// message. Returns nil if err is nil.
func FromSerialization(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Serialization, Offset: -1, Cause: err}
}

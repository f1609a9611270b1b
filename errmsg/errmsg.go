// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package errmsg defines the positional diagnostic shared by every stage of
// the shdc pipeline.
package errmsg

import (
	"errors"
	"fmt"
)

// Kind categorizes shdc errors.
type Kind uint8

const (
	// KindParse indicates malformed annotated shader source.
	KindParse Kind = iota

	// KindCompile indicates a failure while cross-compiling a snippet.
	KindCompile

	// KindValidation indicates inconsistent generator input, such as a
	// program without generated source for a requested target.
	KindValidation

	// KindIO indicates the output sink could not be opened or written.
	KindIO

	// KindInternal indicates a bug in shdc itself.
	KindInternal
)

// String returns a human-readable error kind name.
func (k Kind) String() string {
	switch k {
	case KindParse:
		return "Parse"
	case KindCompile:
		return "Compile"
	case KindValidation:
		return "Validation"
	case KindIO:
		return "IO"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Style selects how a diagnostic is rendered.
type Style uint8

const (
	// StyleGCC renders "path:line:0: error: msg".
	StyleGCC Style = iota

	// StyleMSVC renders "path(line): error: msg", which Visual Studio
	// recognizes as a clickable location.
	StyleMSVC
)

// Error is a diagnostic carrying a source path, a 1-based line number and a
// message. A zero Line means the error is not tied to a specific line.
type Error struct {
	Kind Kind
	Path string
	Line int
	Msg  string

	// Err optionally holds the underlying cause.
	Err error
}

// New creates an error with the given kind and location.
func New(kind Kind, path string, line int, msg string) *Error {
	return &Error{
		Kind: kind,
		Path: path,
		Line: line,
		Msg:  msg,
	}
}

// Newf creates an error with a formatted message.
func Newf(kind Kind, path string, line int, format string, args ...any) *Error {
	return New(kind, path, line, fmt.Sprintf(format, args...))
}

// Wrap creates an error that keeps cause reachable through errors.Unwrap.
func Wrap(kind Kind, path string, line int, cause error, msg string) *Error {
	e := New(kind, path, line, msg)
	e.Err = cause
	return e
}

// Error implements the error interface using StyleGCC.
func (e *Error) Error() string {
	return e.Render(StyleGCC)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Render formats the diagnostic in the requested style.
func (e *Error) Render(style Style) string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Path == "" {
		return fmt.Sprintf("error: %s", msg)
	}
	if e.Line == 0 {
		return fmt.Sprintf("%s: error: %s", e.Path, msg)
	}
	if style == StyleMSVC {
		return fmt.Sprintf("%s(%d): error: %s", e.Path, e.Line, msg)
	}
	return fmt.Sprintf("%s:%d:0: error: %s", e.Path, e.Line, msg)
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsValidation returns true if err is a validation error.
func IsValidation(err error) bool {
	return Is(err, KindValidation)
}

// IsIO returns true if err is an I/O error.
func IsIO(err error) bool {
	return Is(err, KindIO)
}

// ParseStyle converts a style name ("gcc" or "msvc") to a Style.
func ParseStyle(name string) (Style, error) {
	switch name {
	case "gcc", "":
		return StyleGCC, nil
	case "msvc":
		return StyleMSVC, nil
	default:
		return StyleGCC, fmt.Errorf("unknown error format %q (expected gcc or msvc)", name)
	}
}

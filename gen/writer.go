// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gen

import (
	"fmt"
	"strings"
)

// CommentStyle is the comment syntax of a target language.
type CommentStyle struct {
	// Start opens a comment block on a line of its own, e.g. "/*".
	// Empty for languages that only have line comments.
	Start string

	// LinePrefix starts every line inside the block, e.g. "//".
	LinePrefix string

	// End closes the comment block, e.g. "*/".
	End string
}

// Writer is an append-only text buffer with a shared indentation level and
// two kinds of lines: plain code lines and comment block lines.
type Writer struct {
	out    strings.Builder
	indent int
	style  CommentStyle
}

// NewWriter creates a writer using the given comment syntax.
func NewWriter(style CommentStyle) *Writer {
	return &Writer{style: style}
}

// Reset discards all output and resets the indentation.
func (w *Writer) Reset() {
	w.out.Reset()
	w.indent = 0
}

// String returns the accumulated output.
func (w *Writer) String() string {
	return w.out.String()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.out.Len()
}

// Indent returns the current indentation level.
func (w *Writer) Indent() int {
	return w.indent
}

// PushIndent increases indentation by one level (4 spaces).
func (w *Writer) PushIndent() {
	w.indent++
}

// PopIndent decreases indentation. It never goes below zero.
func (w *Writer) PopIndent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Line writes an indented line. With no args, format is written verbatim.
func (w *Writer) Line(format string, args ...any) {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	if text != "" {
		w.writeIndent()
		w.out.WriteString(text)
	}
	w.out.WriteByte('\n')
}

// LineOpen writes a line and then increases indentation.
func (w *Writer) LineOpen(format string, args ...any) {
	w.Line(format, args...)
	w.PushIndent()
}

// LineClose decreases indentation and then writes a line.
func (w *Writer) LineClose(format string, args ...any) {
	w.PopIndent()
	w.Line(format, args...)
}

// CommentStart opens a comment block. Lines written until CommentEnd are
// indented one level deeper.
func (w *Writer) CommentStart() {
	if w.style.Start != "" {
		w.Line("%s", w.style.Start)
	}
	w.PushIndent()
}

// CommentEnd closes a comment block.
func (w *Writer) CommentEnd() {
	w.PopIndent()
	if w.style.End != "" {
		w.Line("%s", w.style.End)
	}
}

// Comment writes a comment block line: the line prefix, the indentation and
// the text.
func (w *Writer) Comment(format string, args ...any) {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	w.out.WriteString(w.style.LinePrefix)
	if text != "" {
		w.writeIndent()
		w.out.WriteString(text)
	}
	w.out.WriteByte('\n')
}

// CommentOpen writes a comment line and then increases indentation.
func (w *Writer) CommentOpen(format string, args ...any) {
	w.Comment(format, args...)
	w.PushIndent()
}

// CommentClose decreases indentation and then writes a comment line.
func (w *Writer) CommentClose(format string, args ...any) {
	w.PopIndent()
	w.Comment(format, args...)
}

// CommentDedent decreases indentation without writing anything.
func (w *Writer) CommentDedent() {
	w.PopIndent()
}

func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

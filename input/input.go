// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package input parses annotated WGSL source files into snippets and
// programs.
//
// An annotated file wraps plain WGSL code in tags, each on its own line:
//
//	@module sprite
//
//	@block common
//	struct Params { mvp: mat4x4<f32> }
//	@end
//
//	@vs vs
//	@include_block common
//	@vertex fn main(@location(0) pos: vec4<f32>) -> @builtin(position) vec4<f32> { ... }
//	@end
//
//	@fs fs
//	@fragment fn main() -> @location(0) vec4<f32> { ... }
//	@end
//
//	@program sprite vs fs
//
// WGSL attributes such as @vertex or @location(0) are not tags and pass
// through unchanged.
package input

import (
	"fmt"
	"strings"

	"github.com/gogpu/shdc/errmsg"
)

// SnippetType is the kind of a snippet.
type SnippetType uint8

const (
	// SnippetBlock is a reusable chunk of code included by other snippets.
	SnippetBlock SnippetType = iota
	SnippetVS
	SnippetFS
)

// String returns the tag name of the snippet type.
func (t SnippetType) String() string {
	switch t {
	case SnippetBlock:
		return "block"
	case SnippetVS:
		return "vs"
	case SnippetFS:
		return "fs"
	default:
		return fmt.Sprintf("snippet(%d)", uint8(t))
	}
}

// Snippet is a named fragment of annotated source.
type Snippet struct {
	Index int
	Type  SnippetType
	Name  string

	// Line is the 1-based line of the opening tag.
	Line int

	// Lines holds the 1-based source line of every entry in Code.
	Lines []int

	// Code holds the snippet body with included blocks expanded.
	Code []string
}

// Source returns the snippet body as a single string.
func (s *Snippet) Source() string {
	if len(s.Code) == 0 {
		return ""
	}
	return strings.Join(s.Code, "\n") + "\n"
}

// IsShader reports whether the snippet is a vertex or fragment shader.
func (s *Snippet) IsShader() bool {
	return s.Type == SnippetVS || s.Type == SnippetFS
}

// Program pairs one vertex and one fragment snippet.
type Program struct {
	Name   string
	VSName string
	FSName string

	// Line is the 1-based line of the @program tag.
	Line int
}

// Input is the parsed annotated source file.
type Input struct {
	BasePath string
	Module   string

	Snippets   []Snippet
	SnippetMap map[string]int

	// Programs are kept in declaration order.
	Programs []Program
}

// Error returns a parse diagnostic located at line of the input file.
func (in *Input) Error(line int, format string, args ...any) *errmsg.Error {
	return errmsg.Newf(errmsg.KindParse, in.BasePath, line, format, args...)
}

// ErrorKind returns a diagnostic of the given kind located at line.
func (in *Input) ErrorKind(kind errmsg.Kind, line int, format string, args ...any) *errmsg.Error {
	return errmsg.Newf(kind, in.BasePath, line, format, args...)
}

// Snippet returns the snippet with the given name.
func (in *Input) Snippet(name string) (*Snippet, bool) {
	idx, ok := in.SnippetMap[name]
	if !ok {
		return nil, false
	}
	return &in.Snippets[idx], true
}

// Program returns the program with the given name.
func (in *Input) Program(name string) (*Program, bool) {
	for i := range in.Programs {
		if in.Programs[i].Name == name {
			return &in.Programs[i], true
		}
	}
	return nil, false
}

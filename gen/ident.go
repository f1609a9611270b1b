// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gen

import (
	"strings"

	"github.com/gogpu/shdc/input"
)

// PascalCase converts "foo_bar" to "FooBar". Every '_' separated segment is
// capitalized: first letter upper case, the rest lower case (ASCII only).
func PascalCase(s string) string {
	parts := strings.Split(s, "_")
	for i, part := range parts {
		parts[i] = capitalize(part)
	}
	return strings.Join(parts, "")
}

// AdaCase converts "foo_bar" to "Foo_Bar".
func AdaCase(s string) string {
	parts := strings.Split(s, "_")
	for i, part := range parts {
		parts[i] = capitalize(part)
	}
	return strings.Join(parts, "_")
}

// CamelCase converts "foo_bar" to "fooBar".
func CamelCase(s string) string {
	res := []byte(PascalCase(s))
	if len(res) > 0 {
		res[0] = toLower(res[0])
	}
	return string(res)
}

func capitalize(s string) string {
	b := []byte(s)
	for i := range b {
		if i == 0 {
			b[i] = toUpper(b[i])
		} else {
			b[i] = toLower(b[i])
		}
	}
	return string(b)
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// SanitizeComment replaces "/*" with "/_" and "*/" with "_/" so that text can
// be embedded in a C-style block comment without terminating it. The length
// of the text is unchanged.
func SanitizeComment(s string) string {
	s = strings.ReplaceAll(s, "/*", "/_")
	return strings.ReplaceAll(s, "*/", "_/")
}

// ModPrefix returns "<module>_", or "" if the input has no @module.
func ModPrefix(inp *input.Input) string {
	if inp.Module == "" {
		return ""
	}
	return inp.Module + "_"
}

// FindSourceByShaderName returns the source generated for the named snippet,
// or nil if the snippet is unknown or has no source in t.
func FindSourceByShaderName(name string, inp *input.Input, t *Target) *Source {
	idx, ok := inp.SnippetMap[name]
	if !ok {
		return nil
	}
	return t.FindSource(idx)
}

// FindBlobByShaderName returns the bytecode compiled for the named snippet,
// or nil if the snippet is unknown or has no bytecode in t.
func FindBlobByShaderName(name string, inp *input.Input, t *Target) *Blob {
	idx, ok := inp.SnippetMap[name]
	if !ok {
		return nil
	}
	return t.FindBlob(idx)
}

// splitLines splits text into lines. "\n", "\r\n" and "\r" all end a line
// and a trailing line break does not produce an empty last line.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

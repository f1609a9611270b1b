// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package input

import (
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/shdc/errmsg"
)

// Load reads and parses an annotated source file.
func Load(path string) (*Input, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.KindIO, path, 0, err, fmt.Sprintf("failed to open input file '%s'", path))
	}
	return Parse(path, string(src))
}

// Parse parses annotated source text. path is only used for diagnostics.
func Parse(path, src string) (*Input, error) {
	p := &parser{
		in: &Input{
			BasePath:   path,
			SnippetMap: make(map[string]int),
		},
		current: -1,
	}
	src = strings.ReplaceAll(src, "\r\n", "\n")
	for i, line := range strings.Split(src, "\n") {
		if err := p.line(i+1, line); err != nil {
			return nil, err
		}
	}
	if p.current >= 0 {
		s := &p.in.Snippets[p.current]
		return nil, p.in.Error(s.Line, "@%s '%s' is missing its @end", s.Type, s.Name)
	}
	return p.in, nil
}

type parser struct {
	in *Input

	// current is the index of the open snippet, or -1.
	current    int
	moduleLine int
}

// tags recognized by the parser. Every other line is code.
var tags = map[string]bool{
	"@module":        true,
	"@block":         true,
	"@vs":            true,
	"@fs":            true,
	"@end":           true,
	"@include_block": true,
	"@program":       true,
}

func (p *parser) line(num int, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || !tags[fields[0]] {
		if p.current >= 0 {
			s := &p.in.Snippets[p.current]
			s.Code = append(s.Code, line)
			s.Lines = append(s.Lines, num)
		}
		return nil
	}

	tag, args := fields[0], fields[1:]
	switch tag {
	case "@module":
		return p.module(num, args)
	case "@block":
		return p.snippet(num, SnippetBlock, args)
	case "@vs":
		return p.snippet(num, SnippetVS, args)
	case "@fs":
		return p.snippet(num, SnippetFS, args)
	case "@end":
		if p.current < 0 {
			return p.in.Error(num, "@end without an open @vs, @fs or @block")
		}
		if len(args) != 0 {
			return p.in.Error(num, "@end takes no arguments")
		}
		p.current = -1
		return nil
	case "@include_block":
		return p.include(num, args)
	case "@program":
		return p.program(num, args)
	}
	return nil
}

func (p *parser) module(num int, args []string) error {
	if p.current >= 0 {
		return p.in.Error(num, "@module must be outside of @vs, @fs or @block")
	}
	if len(args) != 1 {
		return p.in.Error(num, "@module expects 1 argument (@module name)")
	}
	if p.moduleLine != 0 {
		return p.in.Error(num, "@module already defined in line %d", p.moduleLine)
	}
	if !isIdentifier(args[0]) {
		return p.in.Error(num, "@module name '%s' is not a valid identifier", args[0])
	}
	p.in.Module = args[0]
	p.moduleLine = num
	return nil
}

func (p *parser) snippet(num int, typ SnippetType, args []string) error {
	if p.current >= 0 {
		open := &p.in.Snippets[p.current]
		return p.in.Error(num, "@%s inside @%s '%s' (missing @end?)", typ, open.Type, open.Name)
	}
	if len(args) != 1 {
		return p.in.Error(num, "@%s expects 1 argument (@%s name)", typ, typ)
	}
	name := args[0]
	if !isIdentifier(name) {
		return p.in.Error(num, "snippet name '%s' is not a valid identifier", name)
	}
	if idx, ok := p.in.SnippetMap[name]; ok {
		return p.in.Error(num, "snippet '%s' already defined in line %d", name, p.in.Snippets[idx].Line)
	}
	idx := len(p.in.Snippets)
	p.in.Snippets = append(p.in.Snippets, Snippet{
		Index: idx,
		Type:  typ,
		Name:  name,
		Line:  num,
	})
	p.in.SnippetMap[name] = idx
	p.current = idx
	return nil
}

func (p *parser) include(num int, args []string) error {
	if p.current < 0 {
		return p.in.Error(num, "@include_block must be inside @vs, @fs or @block")
	}
	if len(args) != 1 {
		return p.in.Error(num, "@include_block expects 1 argument (@include_block name)")
	}
	block, ok := p.in.Snippet(args[0])
	if !ok {
		return p.in.Error(num, "@include_block: block '%s' not found", args[0])
	}
	if block.Type != SnippetBlock {
		return p.in.Error(num, "@include_block: '%s' is a @%s, not a @block", args[0], block.Type)
	}
	if block.Index == p.current {
		return p.in.Error(num, "@include_block: block '%s' includes itself", args[0])
	}
	s := &p.in.Snippets[p.current]
	s.Code = append(s.Code, block.Code...)
	s.Lines = append(s.Lines, block.Lines...)
	return nil
}

func (p *parser) program(num int, args []string) error {
	if p.current >= 0 {
		return p.in.Error(num, "@program must be outside of @vs, @fs or @block")
	}
	if len(args) != 3 {
		return p.in.Error(num, "@program expects 3 arguments (@program name vs fs)")
	}
	name, vsName, fsName := args[0], args[1], args[2]
	if !isIdentifier(name) {
		return p.in.Error(num, "program name '%s' is not a valid identifier", name)
	}
	if prev, ok := p.in.Program(name); ok {
		return p.in.Error(num, "program '%s' already defined in line %d", name, prev.Line)
	}
	vs, ok := p.in.Snippet(vsName)
	if !ok {
		return p.in.Error(num, "unknown vertex shader '%s' in program '%s'", vsName, name)
	}
	if vs.Type != SnippetVS {
		return p.in.Error(num, "'%s' in program '%s' is not a vertex shader", vsName, name)
	}
	fs, ok := p.in.Snippet(fsName)
	if !ok {
		return p.in.Error(num, "unknown fragment shader '%s' in program '%s'", fsName, name)
	}
	if fs.Type != SnippetFS {
		return p.in.Error(num, "'%s' in program '%s' is not a fragment shader", fsName, name)
	}
	p.in.Programs = append(p.in.Programs, Program{
		Name:   name,
		VSName: vsName,
		FSName: fsName,
		Line:   num,
	})
	return nil
}

// isIdentifier reports whether s is an ASCII identifier usable as a name in
// every generated language.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

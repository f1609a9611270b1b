// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/shdc/errmsg"
)

const triangleSource = `@module tri

@block common
struct Params {
    mvp: mat4x4<f32>,
}
@end

@vs vs
@include_block common
@group(0) @binding(0) var<uniform> params: Params;
@vertex
fn main(@location(0) pos: vec4<f32>) -> @builtin(position) vec4<f32> {
    return params.mvp * pos;
}
@end

@fs fs
@fragment
fn main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
@end

@program triangle vs fs
`

func TestParse(t *testing.T) {
	in, err := Parse("tri.wgsl", triangleSource)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if in.Module != "tri" {
		t.Errorf("Module = %q, want %q", in.Module, "tri")
	}
	if len(in.Snippets) != 3 {
		t.Fatalf("got %d snippets, want 3", len(in.Snippets))
	}

	wantTypes := []SnippetType{SnippetBlock, SnippetVS, SnippetFS}
	for i, want := range wantTypes {
		s := in.Snippets[i]
		if s.Type != want {
			t.Errorf("snippet %d type = %s, want %s", i, s.Type, want)
		}
		if s.Index != i {
			t.Errorf("snippet %d Index = %d", i, s.Index)
		}
		if in.SnippetMap[s.Name] != i {
			t.Errorf("SnippetMap[%q] = %d, want %d", s.Name, in.SnippetMap[s.Name], i)
		}
	}

	vs, _ := in.Snippet("vs")
	if vs.Line != 9 {
		t.Errorf("vs.Line = %d, want 9", vs.Line)
	}
	if !strings.Contains(vs.Source(), "struct Params") {
		t.Error("included block should be expanded into the vertex shader")
	}
	if !strings.Contains(vs.Source(), "@vertex") {
		t.Error("WGSL attributes must pass through as code")
	}
	if len(vs.Code) != len(vs.Lines) {
		t.Errorf("Code and Lines out of sync: %d vs %d", len(vs.Code), len(vs.Lines))
	}
	if vs.Lines[0] != 4 {
		t.Errorf("first included line = %d, want 4", vs.Lines[0])
	}

	if len(in.Programs) != 1 {
		t.Fatalf("got %d programs, want 1", len(in.Programs))
	}
	prog := in.Programs[0]
	if prog.Name != "triangle" || prog.VSName != "vs" || prog.FSName != "fs" || prog.Line != 25 {
		t.Errorf("program = %+v", prog)
	}
	if !vs.IsShader() || in.Snippets[0].IsShader() {
		t.Error("IsShader() mismatch")
	}
}

func TestParse_ProgramsKeepDeclarationOrder(t *testing.T) {
	src := "@vs v\n@end\n@fs f\n@end\n@program zeta v f\n@program alpha v f\n"
	in, err := Parse("x.wgsl", src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if in.Programs[0].Name != "zeta" || in.Programs[1].Name != "alpha" {
		t.Errorf("programs out of order: %+v", in.Programs)
	}
	if in.Module != "" {
		t.Errorf("Module = %q, want empty", in.Module)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"missing end", "@vs v\ncode\n", 1, "missing its @end"},
		{"nested snippet", "@vs v\n@fs f\n", 2, "inside @vs 'v'"},
		{"stray end", "@end\n", 1, "@end without"},
		{"duplicate snippet", "@vs v\n@end\n@fs v\n@end\n", 3, "already defined in line 1"},
		{"unknown block", "@vs v\n@include_block nope\n@end\n", 2, "block 'nope' not found"},
		{"include non-block", "@fs f\n@end\n@vs v\n@include_block f\n@end\n", 4, "is a @fs"},
		{"include outside", "@include_block b\n", 1, "must be inside"},
		{"program arity", "@program p v\n", 1, "expects 3 arguments"},
		{"unknown vs", "@fs f\n@end\n@program p v f\n", 3, "unknown vertex shader 'v'"},
		{"wrong stage", "@fs f\n@end\n@program p f f\n", 3, "is not a vertex shader"},
		{"duplicate program", "@vs v\n@end\n@fs f\n@end\n@program p v f\n@program p v f\n", 6, "program 'p' already defined"},
		{"module twice", "@module a\n@module b\n", 2, "@module already defined"},
		{"bad identifier", "@vs 1abc\n@end\n", 1, "not a valid identifier"},
		{"program inside snippet", "@vs v\n@program p v v\n", 2, "must be outside"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.wgsl", tt.src)
			if err == nil {
				t.Fatal("expected parse error")
			}
			if !errmsg.Is(err, errmsg.KindParse) {
				t.Fatalf("expected a parse error, got %T: %v", err, err)
			}
			e := err.(*errmsg.Error)
			if e.Line != tt.line {
				t.Errorf("Line = %d, want %d (%v)", e.Line, tt.line, err)
			}
			if e.Path != "bad.wgsl" {
				t.Errorf("Path = %q", e.Path)
			}
			if !strings.Contains(e.Msg, tt.msg) {
				t.Errorf("Msg = %q, want it to contain %q", e.Msg, tt.msg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.wgsl")
	if err := os.WriteFile(path, []byte(strings.ReplaceAll(triangleSource, "\n", "\r\n")), 0o644); err != nil {
		t.Fatal(err)
	}
	in, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if in.BasePath != path {
		t.Errorf("BasePath = %q, want %q", in.BasePath, path)
	}
	if len(in.Programs) != 1 {
		t.Errorf("got %d programs, want 1", len(in.Programs))
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.wgsl"))
	if !errmsg.IsIO(err) {
		t.Errorf("Load of a missing file should be an IO error, got %v", err)
	}
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package shdc

import (
	"runtime"
	"testing"

	"github.com/gogpu/shdc/backend"
	"github.com/gogpu/shdc/gen"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/slang"
)

// benchSource is a textured sprite program with a shared uniform block.
const benchSource = `@module bench

@block params
struct VsParams {
    mvp: mat4x4<f32>,
    tint: vec4<f32>,
}
@end

@vs vs
@include_block params
@group(0) @binding(0) var<uniform> vs_params: VsParams;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@location(0) pos: vec3<f32>, @location(1) uv: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.position = vs_params.mvp * vec4<f32>(pos.x, pos.y, pos.z, 1.0);
    out.uv = uv;
    return out;
}
@end

@fs fs
@group(1) @binding(0) var tex: texture_2d<f32>;
@group(1) @binding(1) var smp: sampler;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(tex, smp, uv);
}
@end

@program sprite vs fs
`

var benchSlang = slang.GLSL430.Bit() | slang.WGSL.Bit() | slang.SPIRVVK.Bit()

func benchInput(b *testing.B) *input.Input {
	b.Helper()
	inp, err := input.Parse("bench.wgsl", benchSource)
	if err != nil {
		b.Fatalf("parse failed: %v", err)
	}
	return inp
}

// BenchmarkParseInput benchmarks splitting an annotated file into snippets.
func BenchmarkParseInput(b *testing.B) {
	b.ReportAllocs()
	b.SetBytes(int64(len(benchSource)))
	b.ResetTimer()

	var result *input.Input
	for i := 0; i < b.N; i++ {
		var err error
		result, err = input.Parse("bench.wgsl", benchSource)
		if err != nil {
			b.Fatalf("parse failed: %v", err)
		}
	}
	runtime.KeepAlive(result)
}

// BenchmarkCompileInput benchmarks cross compilation and reflection of all
// snippets for three target languages.
func BenchmarkCompileInput(b *testing.B) {
	inp := benchInput(b)
	b.ReportAllocs()
	b.SetBytes(int64(len(benchSource)))
	b.ResetTimer()

	var result *Program
	for i := 0; i < b.N; i++ {
		var err error
		result, err = CompileInput(inp, benchSlang)
		if err != nil {
			b.Fatalf("compile failed: %v", err)
		}
	}
	runtime.KeepAlive(result)
}

// BenchmarkRender benchmarks the generator alone, per output format.
func BenchmarkRender(b *testing.B) {
	prog, err := CompileInput(benchInput(b), benchSlang)
	if err != nil {
		b.Fatalf("compile failed: %v", err)
	}
	args := gen.Args{Slang: benchSlang, Reflection: true, Output: "-", Cmdline: "shdc"}

	for _, format := range backend.Names() {
		b.Run(format, func(b *testing.B) {
			out, err := prog.Render(format, args)
			if err != nil {
				b.Fatalf("render failed: %v", err)
			}
			b.ReportAllocs()
			b.SetBytes(int64(len(out)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				out, err = prog.Render(format, args)
				if err != nil {
					b.Fatalf("render failed: %v", err)
				}
			}
			runtime.KeepAlive(out)
		})
	}
}

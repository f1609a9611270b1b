// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package shdc_test

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/gogpu/shdc"
	"github.com/gogpu/shdc/gen"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/slang"
)

const exampleSource = `@module tri

@vs vs
@vertex
fn vs_main(@location(0) position: vec4<f32>, @location(1) color: vec4<f32>) -> @builtin(position) vec4<f32> {
    return position * color.w;
}
@end

@fs fs
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
@end

@program triangle vs fs
`

// Example_render compiles an annotated file for WGSL and prints the vertex
// attribute constants of the generated sokol header.
func Example_render() {
	inp, err := input.Parse("triangle.wgsl", exampleSource)
	if err != nil {
		log.Fatal(err)
	}
	prog, err := shdc.CompileInput(inp, slang.WGSL.Bit())
	if err != nil {
		log.Fatal(err)
	}
	out, err := prog.Render("sokol", gen.Args{Slang: slang.WGSL.Bit(), Output: "-"})
	if err != nil {
		log.Fatal(err)
	}

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), "#define ATTR_") {
			fmt.Println(sc.Text())
		}
	}
	// Output:
	// #define ATTR_tri_vs_position (0)
	// #define ATTR_tri_vs_color (1)
}

// ExampleOutputPath shows where each format is written when several
// formats are generated at once.
func ExampleOutputPath() {
	for _, format := range []string{"sokol", "go"} {
		fmt.Println(shdc.OutputPath("shaders/triangle.h", format, true))
	}
	// Output:
	// shaders/triangle.h
	// shaders/triangle.go
}

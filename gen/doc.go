// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package gen is the code generation engine of shdc.
//
// Generate drives a Backend through a fixed sequence of phases and writes the
// result to the configured output file:
//
//  1. begin: reset the buffer, compute the module prefix, validate the input
//  2. Prolog
//  3. documentation header (comment block)
//  4. Prerequisites
//  5. vertex attribute constants
//  6. bind slot constants
//  7. uniform block declarations
//  8. StbImplStart (optional, see StbImplementer)
//  9. embedded shader arrays
//  10. shader descriptor functions
//  11. reflection functions (only if Args.Reflection is set)
//  12. Epilog
//  13. StbImplEnd (optional)
//  14. end: write the output file
//
// The order is fixed. Backends only decide how each piece is spelled in their
// target language; the engine guarantees the shape: exactly one embedded array
// per shader per target language, 16 bytes per line, and comment-safe
// embedding of the shader source.
//
// # Usage
//
//	b, _ := backend.Lookup("sokol")
//	err := gen.Generate(&gen.Input{
//	    Inp:     inp,
//	    Refl:    reflection,
//	    Targets: targets,
//	    Args: gen.Args{
//	        Slang:  slang.GLSL430.Bit() | slang.HLSL5.Bit(),
//	        Output: "shader.h",
//	    },
//	}, b)
//
// All mutable state lives in a per-call Gen value, so independent Generate
// calls may run concurrently.
package gen

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package shdc is a shader code generator for WGSL.
//
// shdc reads an annotated WGSL file that groups vertex and fragment shader
// snippets into programs, cross-compiles every snippet into the selected
// target languages with naga, and writes a source file that embeds the
// compiled shaders together with their reflection data.
//
// The pipeline is:
//  1. Parse the annotated source ([input.Load])
//  2. Cross-compile and reflect ([crosscompile.Compile])
//  3. Generate one output file per format ([gen.Generate])
//
// Example usage:
//
//	err := shdc.Run(shdc.Options{
//	    Input:   "sprite.wgsl",
//	    Output:  "sprite.h",
//	    Slang:   slang.GLSL430.Bit() | slang.HLSL5.Bit() | slang.MetalMacOS.Bit(),
//	    Formats: []string{"sokol"},
//	})
package shdc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gogpu/shdc/backend"
	"github.com/gogpu/shdc/crosscompile"
	"github.com/gogpu/shdc/errmsg"
	"github.com/gogpu/shdc/gen"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/slang"
)

// Version is the shdc release version.
const Version = "0.1.0"

// GenVersion is the version of the generated file layout. It is written
// into the header of every generated file and changes whenever the layout
// does.
const GenVersion = 1

// Options configures a full shdc run.
type Options struct {
	// Input is the annotated WGSL source file.
	Input string

	// Output is the output file path. With several formats the extension of
	// each format replaces the extension of Output. "-" writes to stdout and
	// allows a single format only.
	Output string

	// Slang selects the target languages.
	Slang slang.Mask

	// Formats lists the output formats (see [backend.Names]).
	// Default: "sokol".
	Formats []string

	// Module overrides the @module name of the input file.
	Module string

	// Reflection requests the runtime reflection functions.
	Reflection bool

	// SaveIntermediate writes the generated target sources and bytecode of
	// every snippet next to the output file.
	SaveIntermediate bool

	// Cmdline is written into the header of the generated files.
	Cmdline string
}

// Program is a parsed and cross-compiled input file, ready for generation.
type Program struct {
	Inp    *input.Input
	Result *crosscompile.Result
}

// Compile parses the annotated source file at path and cross-compiles it to
// the target languages in mask.
func Compile(path string, mask slang.Mask) (*Program, error) {
	inp, err := input.Load(path)
	if err != nil {
		return nil, err
	}
	return CompileInput(inp, mask)
}

// CompileInput cross-compiles an already parsed input.
func CompileInput(inp *input.Input, mask slang.Mask) (*Program, error) {
	res, err := crosscompile.Compile(inp, crosscompile.Options{
		Slang:  mask,
		Logger: Logger(),
	})
	if err != nil {
		return nil, err
	}
	return &Program{Inp: inp, Result: res}, nil
}

// GenInput assembles the generator input for the given arguments.
func (p *Program) GenInput(args gen.Args) *gen.Input {
	if args.Logger == nil {
		args.Logger = Logger()
	}
	if args.GenVersion == 0 {
		args.GenVersion = GenVersion
	}
	return &gen.Input{
		Inp:     p.Inp,
		Args:    args,
		Refl:    p.Result.Refl,
		Targets: p.Result.Targets,
	}
}

// Generate writes the output file of one format.
func (p *Program) Generate(format string, args gen.Args) error {
	b, err := backend.Lookup(format)
	if err != nil {
		return errmsg.Wrap(errmsg.KindInternal, p.Inp.BasePath, 0, err, "invalid output format")
	}
	return gen.Generate(p.GenInput(args), b)
}

// Render returns the generated text of one format without writing it.
func (p *Program) Render(format string, args gen.Args) ([]byte, error) {
	b, err := backend.Lookup(format)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.KindInternal, p.Inp.BasePath, 0, err, "invalid output format")
	}
	return gen.Render(p.GenInput(args), b)
}

// Run executes the whole pipeline. The formats are generated concurrently;
// the returned error is the first failure in format order.
func Run(opts Options) error {
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{"sokol"}
	}
	for _, f := range formats {
		if _, err := backend.Lookup(f); err != nil {
			return errmsg.Wrap(errmsg.KindInternal, opts.Input, 0, err, "invalid output format")
		}
	}
	if opts.Output == "-" && len(formats) > 1 {
		return errmsg.New(errmsg.KindInternal, opts.Input, 0, "only one output format can be written to stdout")
	}

	inp, err := input.Load(opts.Input)
	if err != nil {
		return err
	}
	if opts.Module != "" {
		inp.Module = opts.Module
	}
	prog, err := CompileInput(inp, opts.Slang)
	if err != nil {
		return err
	}
	log := Logger()
	log.Debug("shdc: compiled", "input", opts.Input, "programs", len(inp.Programs), "slang", opts.Slang.String())

	if opts.SaveIntermediate && opts.Output != "-" {
		if err := prog.SaveIntermediate(opts.Output); err != nil {
			return err
		}
	}

	errs := make([]error, len(formats))
	var wg sync.WaitGroup
	for i, format := range formats {
		wg.Add(1)
		go func() {
			defer wg.Done()
			args := gen.Args{
				Slang:      opts.Slang,
				Reflection: opts.Reflection,
				Output:     OutputPath(opts.Output, format, len(formats) > 1),
				Cmdline:    opts.Cmdline,
			}
			errs[i] = prog.Generate(format, args)
			if errs[i] == nil {
				log.Info("shdc: wrote output", "format", format, "path", args.Output)
			}
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// OutputPath returns the output file of a format. With a single format the
// output path is used as given.
func OutputPath(output, format string, multi bool) string {
	if !multi || output == "-" {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + backend.Extension(format)
}

// SaveIntermediate writes every generated target source and bytecode blob
// to "<output base>_<snippet>_<slang><ext>".
func (p *Program) SaveIntermediate(output string) error {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	var errs []error
	for _, s := range slang.All() {
		target := p.Result.Target(s)
		for _, src := range target.Sources {
			path := intermediatePath(base, p.Inp, src.SnippetIndex, s, false)
			errs = append(errs, writeFile(p.Inp, path, []byte(src.Code)))
		}
		for _, blob := range target.Blobs {
			path := intermediatePath(base, p.Inp, blob.SnippetIndex, s, true)
			errs = append(errs, writeFile(p.Inp, path, blob.Data))
		}
	}
	return errors.Join(errs...)
}

func intermediatePath(base string, inp *input.Input, snippetIndex int, s slang.Slang, binary bool) string {
	return fmt.Sprintf("%s_%s_%s%s", base, inp.Snippets[snippetIndex].Name, s, s.FileExtension(binary))
}

func writeFile(inp *input.Input, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errmsg.Wrap(errmsg.KindIO, inp.BasePath, 0, err, fmt.Sprintf("failed to write intermediate file '%s'", path))
	}
	return nil
}

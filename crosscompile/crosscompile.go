// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package crosscompile translates the WGSL snippets of an annotated input
// into every selected target language and extracts the reflection model.
//
// Each vertex and fragment snippet is compiled on its own: included blocks
// and the snippet body form one WGSL module, which is parsed and lowered to
// naga IR once and then handed to the naga backends.
package crosscompile

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/naga/wgsl"

	"github.com/gogpu/shdc/errmsg"
	"github.com/gogpu/shdc/gen"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/refl"
	"github.com/gogpu/shdc/slang"
)

// Options configures cross compilation.
type Options struct {
	// Slang selects the target languages.
	Slang slang.Mask

	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

// Result holds the compiled artifacts and the reflection model.
type Result struct {
	Refl    *refl.Reflection
	Targets [slang.Num]gen.Target
}

// Target returns the artifacts of the given target language.
func (r *Result) Target(s slang.Slang) *gen.Target {
	return &r.Targets[s.Index()]
}

// compiled is one lowered shader snippet.
type compiled struct {
	snippet *input.Snippet
	module  *ir.Module
	entry   *ir.EntryPoint
	refl    refl.StageReflection
	pairs   []refl.ImageSampler
}

// Compile cross-compiles every vertex and fragment snippet of inp and builds
// the reflection model of its programs. Errors are located at the line of
// the input file that caused them.
func Compile(inp *input.Input, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var shaders []*compiled
	bySnippet := make(map[int]*compiled)
	for i := range inp.Snippets {
		snippet := &inp.Snippets[i]
		if !snippet.IsShader() {
			continue
		}
		c, err := lower(inp, snippet)
		if err != nil {
			return nil, err
		}
		shaders = append(shaders, c)
		bySnippet[snippet.Index] = c
		log.Debug("crosscompile: lowered snippet", "snippet", snippet.Name, "entry", c.entry.Name)
	}
	assignImageSamplerSlots(shaders)

	res := &Result{}
	for _, s := range opts.Slang.List() {
		target := res.Target(s)
		for _, c := range shaders {
			src, blob, err := translate(c, s)
			if err != nil {
				return nil, compileError(inp, c.snippet, err, "failed to generate '%s' code", s)
			}
			target.Sources = append(target.Sources, gen.Source{SnippetIndex: c.snippet.Index, Code: src})
			if blob != nil {
				target.Blobs = append(target.Blobs, gen.Blob{SnippetIndex: c.snippet.Index, Data: blob})
			}
		}
		log.Debug("crosscompile: translated", "slang", s.String(), "shaders", len(shaders))
	}

	progs := make([]refl.ProgramReflection, 0, len(inp.Programs))
	for _, p := range inp.Programs {
		vs, fs := bySnippet[inp.SnippetMap[p.VSName]], bySnippet[inp.SnippetMap[p.FSName]]
		if vs == nil || fs == nil {
			return nil, inp.ErrorKind(errmsg.KindValidation, p.Line, "program '%s' references unknown shaders", p.Name)
		}
		prog, err := refl.NewProgram(p.Name, vs.refl, fs.refl)
		if err != nil {
			return nil, errmsg.Wrap(errmsg.KindValidation, inp.BasePath, p.Line, err, "invalid bindings")
		}
		progs = append(progs, prog)
	}
	r, err := refl.New(progs)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.KindValidation, inp.BasePath, 0, err, "invalid bindings")
	}
	res.Refl = r
	return res, nil
}

// lower parses and lowers one snippet and reflects its entry point.
func lower(inp *input.Input, snippet *input.Snippet) (*compiled, error) {
	src := snippet.Source()
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, compileError(inp, snippet, err, "failed to parse shader '%s'", snippet.Name)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, compileError(inp, snippet, err, "failed to compile shader '%s'", snippet.Name)
	}

	stage := ir.StageVertex
	if snippet.Type == input.SnippetFS {
		stage = ir.StageFragment
	}
	entry := findEntryPoint(module, stage)
	if entry == nil {
		return nil, inp.ErrorKind(errmsg.KindCompile, snippet.Line,
			"shader '%s' has no @%s entry point", snippet.Name, stageAttr(stage))
	}

	c := &compiled{snippet: snippet, module: module, entry: entry}
	if err := c.reflect(); err != nil {
		return nil, inp.ErrorKind(errmsg.KindCompile, snippet.Line, "shader '%s': %v", snippet.Name, err)
	}
	return c, nil
}

func findEntryPoint(module *ir.Module, stage ir.ShaderStage) *ir.EntryPoint {
	for i := range module.EntryPoints {
		if module.EntryPoints[i].Stage == stage {
			return &module.EntryPoints[i]
		}
	}
	return nil
}

func stageAttr(stage ir.ShaderStage) string {
	if stage == ir.StageFragment {
		return "fragment"
	}
	return "vertex"
}

// translate produces the code of one snippet for one target language. Only
// SPIR-V yields bytecode; its source is the WGSL text it was compiled from.
func translate(c *compiled, s slang.Slang) (string, []byte, error) {
	switch {
	case s.IsGLSL():
		src, _, err := glsl.Compile(c.module, glsl.Options{
			LangVersion:        glslVersion(s),
			EntryPoint:         c.entry.Name,
			ForceHighPrecision: true,
		})
		return src, nil, err
	case s.IsHLSL():
		opts := hlsl.DefaultOptions()
		opts.ShaderModel = hlsl.ShaderModel5_0
		opts.EntryPoint = c.entry.Name
		src, _, err := hlsl.Compile(c.module, opts)
		return src, nil, err
	case s.IsMSL():
		opts := msl.DefaultOptions()
		opts.LangVersion = mslVersion(s)
		opts.FakeMissingBindings = true
		src, _, err := msl.CompileWithPipeline(c.module, opts, msl.PipelineOptions{
			EntryPoint: &msl.EntryPointSelector{Stage: c.entry.Stage, Name: c.entry.Name},
		})
		return src, nil, err
	case s.IsWGSL():
		return c.snippet.Source(), nil, nil
	case s.IsSPIRV():
		blob, err := naga.GenerateSPIRV(c.module, spirv.Options{Version: spirv.Version1_3})
		if err != nil {
			return "", nil, err
		}
		return c.snippet.Source(), blob, nil
	default:
		return "", nil, fmt.Errorf("unsupported target language %s", s)
	}
}

func glslVersion(s slang.Slang) glsl.Version {
	switch s {
	case slang.GLSL410:
		return glsl.Version410
	case slang.GLSL300ES:
		return glsl.VersionES300
	default:
		return glsl.Version430
	}
}

func mslVersion(s slang.Slang) msl.Version {
	if s == slang.MetalMacOS {
		return msl.Version2_1
	}
	return msl.Version2_0
}

// compileError wraps err and locates it at the input file line of the
// offending snippet line when naga reports one.
func compileError(inp *input.Input, snippet *input.Snippet, err error, format string, args ...any) *errmsg.Error {
	line := snippet.Line
	if l := nagaLine(err); l > 0 && l <= len(snippet.Lines) {
		line = snippet.Lines[l-1]
	}
	return errmsg.Wrap(errmsg.KindCompile, inp.BasePath, line, err, fmt.Sprintf(format, args...))
}

// nagaLine returns the 1-based line reported by a naga front-end error, or 0.
func nagaLine(err error) int {
	var pe wgsl.ParseError
	if errors.As(err, &pe) {
		return pe.Token.Line
	}
	var pep *wgsl.ParseError
	if errors.As(err, &pep) {
		return pep.Token.Line
	}
	var se *wgsl.SourceError
	if errors.As(err, &se) {
		return se.Span.Start.Line
	}
	var ses *wgsl.SourceErrors
	if errors.As(err, &ses) && len(*ses) > 0 {
		return (*ses)[0].Span.Start.Line
	}
	return 0
}

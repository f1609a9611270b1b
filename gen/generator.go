// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gen

import (
	"log/slog"
	"os"

	"github.com/gogpu/shdc/errmsg"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/refl"
)

// Gen is the state of one generation run. Backends receive it in every hook
// and write through the embedded Writer.
type Gen struct {
	*Writer

	// In is the generator input.
	In *Input

	// Prefix is the module prefix, "<module>_" or "".
	Prefix string

	backend Backend
	log     *slog.Logger
}

// Inp returns the parsed annotated source.
func (g *Gen) Inp() *input.Input {
	return g.In.Inp
}

// Backend returns the backend being driven.
func (g *Gen) Backend() Backend {
	return g.backend
}

// Generate runs all generation phases and writes the result to
// in.Args.Output. Nothing is written if any phase fails.
func Generate(in *Input, b Backend) error {
	out, err := Render(in, b)
	if err != nil {
		return err
	}
	return writeOutput(in, out)
}

// Render runs all generation phases except the final write and returns the
// generated text.
func Render(in *Input, b Backend) ([]byte, error) {
	if in == nil || in.Inp == nil || in.Refl == nil {
		return nil, errmsg.New(errmsg.KindInternal, "", 0, "generator input is incomplete")
	}
	g := &Gen{
		Writer:  NewWriter(b.CommentStyle()),
		In:      in,
		backend: b,
		log:     in.Args.Logger,
	}
	if g.log == nil {
		g.log = slog.New(slog.DiscardHandler)
	}

	if err := g.begin(); err != nil {
		return nil, err
	}
	b.Prolog(g)
	g.header()
	b.Prerequisites(g)
	g.vertexAttrConsts()
	g.bindSlotConsts()
	g.uniformBlockDecls()
	stb, hasStb := b.(StbImplementer)
	if hasStb {
		stb.StbImplStart(g)
	}
	if err := g.shaderArrays(); err != nil {
		return nil, err
	}
	g.shaderDescFuncs()
	if in.Args.Reflection {
		g.reflectionFuncs()
	}
	b.Epilog(g)
	if hasStb {
		stb.StbImplEnd(g)
	}

	g.log.Debug("shdc: generated", "lang", b.LangName(), "bytes", g.Len())
	return []byte(g.String()), nil
}

func (g *Gen) begin() error {
	g.Reset()
	g.Prefix = ModPrefix(g.In.Inp)
	return CheckErrors(g.In)
}

func (g *Gen) header() {
	b := g.backend
	args := &g.In.Args

	g.CommentStart()
	g.Comment("#version:%d (machine generated, don't edit!)", args.GenVersion)
	g.Comment("")
	g.Comment("Generated by shdc (https://github.com/gogpu/shdc)")
	g.Comment("")
	g.CommentOpen("Cmdline:")
	g.Comment("%s", args.Cmdline)
	g.CommentClose("")
	g.Comment("Overview:")
	g.Comment("=========")
	for i := range g.In.Refl.Progs {
		prog := &g.In.Refl.Progs[i]
		g.CommentOpen("Shader program: '%s':", prog.Name)
		g.Comment("Get shader desc: %s", b.ShaderDescHelp(g, prog.Name))
		g.vertexShaderInfo(prog)
		g.fragmentShaderInfo(prog)
		g.CommentDedent()
	}
	g.CommentEnd()
	g.Line("")
}

func (g *Gen) vertexShaderInfo(prog *refl.ProgramReflection) {
	b := g.backend
	g.CommentOpen("Vertex shader: %s", prog.VSName())
	g.CommentOpen("Attributes:")
	for _, attr := range prog.VS.Inputs {
		if loc, ok := attr.Slot.Get(); ok {
			g.Comment("%s => %d", b.VertexAttrName(g, prog.VSName(), attr), loc)
		}
	}
	g.CommentDedent()
	g.bindingsInfo(&prog.VS.Bindings)
	g.CommentDedent()
}

func (g *Gen) fragmentShaderInfo(prog *refl.ProgramReflection) {
	g.CommentOpen("Fragment shader: %s", prog.FSName())
	g.bindingsInfo(&prog.FS.Bindings)
	g.CommentDedent()
}

func (g *Gen) bindingsInfo(bindings *refl.Bindings) {
	b := g.backend
	for _, ub := range bindings.UniformBlocks {
		g.CommentOpen("Uniform block '%s':", ub.StructName)
		g.Comment("%s struct: %s", b.LangName(), b.StructName(g, ub.StructName))
		g.Comment("Bind slot: %s => %d", b.UniformBlockBindSlotName(g, ub), ub.Slot)
		g.CommentDedent()
	}
	for _, img := range bindings.Images {
		g.CommentOpen("Image '%s':", img.Name)
		g.Comment("Image type: %s", b.ImageType(img.Type))
		g.Comment("Sample type: %s", b.ImageSampleType(img.SampleType))
		g.Comment("Multisampled: %t", img.Multisampled)
		g.Comment("Bind slot: %s => %d", b.ImageBindSlotName(g, img), img.Slot)
		g.CommentDedent()
	}
	for _, smp := range bindings.Samplers {
		g.CommentOpen("Sampler '%s':", smp.Name)
		g.Comment("Type: %s", b.SamplerType(smp.Type))
		g.Comment("Bind slot: %s => %d", b.SamplerBindSlotName(g, smp), smp.Slot)
		g.CommentDedent()
	}
	for _, is := range bindings.ImageSamplers {
		g.CommentOpen("Image Sampler Pair '%s':", is.Name)
		g.Comment("Image: %s", is.ImageName)
		g.Comment("Sampler: %s", is.SamplerName)
		g.CommentDedent()
	}
}

func (g *Gen) vertexAttrConsts() {
	for i := range g.In.Refl.Progs {
		prog := &g.In.Refl.Progs[i]
		for _, attr := range prog.VS.Inputs {
			if attr.Slot.Used() {
				g.Line("%s", g.backend.VertexAttrDefinition(g, prog.VSName(), attr))
			}
		}
	}
}

// bindSlotConsts writes the constants of the global binding set so that a
// binding shared by several programs is only defined once.
func (g *Gen) bindSlotConsts() {
	b := g.backend
	bindings := &g.In.Refl.Bindings
	for _, ub := range bindings.UniformBlocks {
		g.Line("%s", b.UniformBlockBindSlotDefinition(g, ub))
	}
	g.Line("")
	for _, img := range bindings.Images {
		g.Line("%s", b.ImageBindSlotDefinition(g, img))
	}
	g.Line("")
	for _, smp := range bindings.Samplers {
		g.Line("%s", b.SamplerBindSlotDefinition(g, smp))
	}
	g.Line("")
}

func (g *Gen) uniformBlockDecls() {
	for _, ub := range g.In.Refl.Bindings.UniformBlocks {
		g.backend.UniformBlockDecl(g, ub)
	}
}

func (g *Gen) shaderDescFuncs() {
	for i := range g.In.Refl.Progs {
		g.backend.ShaderDescFunc(g, &g.In.Refl.Progs[i])
	}
}

func (g *Gen) reflectionFuncs() {
	b := g.backend
	for i := range g.In.Refl.Progs {
		prog := &g.In.Refl.Progs[i]
		b.AttrSlotReflFunc(g, prog)
		b.ImageSlotReflFunc(g, prog)
		b.SamplerSlotReflFunc(g, prog)
		b.UniformBlockSlotReflFunc(g, prog)
		b.UniformBlockSizeReflFunc(g, prog)
		b.UniformOffsetReflFunc(g, prog)
		b.UniformDescReflFunc(g, prog)
	}
}

// writeOutput writes the generated text to the output file in one piece.
func writeOutput(in *Input, out []byte) error {
	path := in.Args.Output
	basePath := in.Inp.BasePath
	if path == "-" {
		if _, err := os.Stdout.Write(out); err != nil {
			return errmsg.Wrap(errmsg.KindIO, basePath, 0, err, "failed to write to stdout")
		}
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return errmsg.Wrap(errmsg.KindIO, basePath, 0, err, "failed to open output file '"+path+"'")
	}
	if _, err := f.Write(out); err != nil {
		f.Close()
		return errmsg.Wrap(errmsg.KindIO, basePath, 0, err, "failed to write output file '"+path+"'")
	}
	if err := f.Close(); err != nil {
		return errmsg.Wrap(errmsg.KindIO, basePath, 0, err, "failed to close output file '"+path+"'")
	}
	return nil
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gen

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/refl"
	"github.com/gogpu/shdc/slang"
)

// markerBackend writes one recognizable line per hook and records the order
// in which the hooks were called.
type markerBackend struct {
	calls []string
}

func (m *markerBackend) call(name string) { m.calls = append(m.calls, name) }

func (m *markerBackend) LangName() string { return "Marker" }

func (m *markerBackend) CommentStyle() CommentStyle {
	return CommentStyle{Start: "/*", LinePrefix: "", End: "*/"}
}

func (m *markerBackend) ShaderDescHelp(g *Gen, prog string) string {
	return g.Prefix + prog + "_desc()"
}

func (m *markerBackend) StructName(g *Gen, name string) string { return g.Prefix + name + "_t" }

func (m *markerBackend) VertexAttrName(g *Gen, snippet string, attr refl.StageAttr) string {
	return "ATTR_" + g.Prefix + snippet + "_" + attr.Name
}

func (m *markerBackend) ImageBindSlotName(g *Gen, img refl.Image) string {
	return "IMG_" + g.Prefix + img.Name
}

func (m *markerBackend) SamplerBindSlotName(g *Gen, smp refl.Sampler) string {
	return "SMP_" + g.Prefix + smp.Name
}

func (m *markerBackend) UniformBlockBindSlotName(g *Gen, ub refl.UniformBlock) string {
	return "UB_" + g.Prefix + ub.StructName
}

func (m *markerBackend) VertexAttrDefinition(g *Gen, snippet string, attr refl.StageAttr) string {
	loc, _ := attr.Slot.Get()
	return fmt.Sprintf("#define %s (%d)", m.VertexAttrName(g, snippet, attr), loc)
}

func (m *markerBackend) ImageBindSlotDefinition(g *Gen, img refl.Image) string {
	return fmt.Sprintf("#define %s (%d)", m.ImageBindSlotName(g, img), img.Slot)
}

func (m *markerBackend) SamplerBindSlotDefinition(g *Gen, smp refl.Sampler) string {
	return fmt.Sprintf("#define %s (%d)", m.SamplerBindSlotName(g, smp), smp.Slot)
}

func (m *markerBackend) UniformBlockBindSlotDefinition(g *Gen, ub refl.UniformBlock) string {
	return fmt.Sprintf("#define %s (%d)", m.UniformBlockBindSlotName(g, ub), ub.Slot)
}

func (m *markerBackend) ShaderBytecodeArrayName(g *Gen, snippet string, s slang.Slang) string {
	return g.Prefix + snippet + "_bytecode_" + s.String()
}

func (m *markerBackend) ShaderSourceArrayName(g *Gen, snippet string, s slang.Slang) string {
	return g.Prefix + snippet + "_source_" + s.String()
}

func (m *markerBackend) UniformType(t refl.UniformType) string          { return t.String() }
func (m *markerBackend) FlattenedUniformType(t refl.UniformType) string { return "float4" }
func (m *markerBackend) ImageType(t gputypes.TextureViewDimension) string {
	if t == gputypes.TextureViewDimension2D {
		return "2d"
	}
	return "other"
}
func (m *markerBackend) ImageSampleType(t gputypes.TextureSampleType) string {
	if t == gputypes.TextureSampleTypeFloat {
		return "float"
	}
	return "other"
}
func (m *markerBackend) SamplerType(t gputypes.SamplerBindingType) string {
	if t == gputypes.SamplerBindingTypeFiltering {
		return "filtering"
	}
	return "other"
}
func (m *markerBackend) BackendName(s slang.Slang) string { return "BACKEND_" + s.String() }

func (m *markerBackend) Prolog(g *Gen) {
	m.call("prolog")
	g.Line("PROLOG")
}

func (m *markerBackend) Prerequisites(g *Gen) {
	m.call("prerequisites")
	g.Line("PREREQUISITES")
}

func (m *markerBackend) Epilog(g *Gen) {
	m.call("epilog")
	g.Line("EPILOG")
}

func (m *markerBackend) UniformBlockDecl(g *Gen, ub refl.UniformBlock) {
	m.call("uniformblock_decl")
	g.LineOpen("struct %s {", m.StructName(g, ub.StructName))
	for _, u := range ub.Uniforms {
		g.Line("%s %s;", u.Type, u.Name)
	}
	g.LineClose("};")
}

func (m *markerBackend) ShaderArrayStart(g *Gen, name string, numBytes int, s slang.Slang) {
	m.call("array_start")
	g.Line("ARRAY %s[%d] = {", name, numBytes)
}

func (m *markerBackend) ShaderArrayEnd(g *Gen) {
	m.call("array_end")
	g.Line("};")
}

func (m *markerBackend) ShaderDescFunc(g *Gen, prog *refl.ProgramReflection) {
	m.call("shader_desc")
	for _, s := range g.In.Args.Slang.List() {
		vs := g.StageArrayInfo(prog, refl.StageVertex, s)
		fs := g.StageArrayInfo(prog, refl.StageFragment, s)
		g.Line("DESC %s %s vs=%s fs=%s", prog.Name, s, arrayRef(vs), arrayRef(fs))
	}
}

func arrayRef(info StageArrayInfo) string {
	if info.HasBytecode {
		return fmt.Sprintf("%s[%d]", info.BytecodeArrayName, info.BytecodeSize)
	}
	return fmt.Sprintf("%s[%d]", info.SourceArrayName, info.SourceSize)
}

func (m *markerBackend) reflCall(g *Gen, kind string, prog *refl.ProgramReflection) {
	m.call(kind)
	g.Line("REFL %s %s", kind, prog.Name)
}

func (m *markerBackend) AttrSlotReflFunc(g *Gen, prog *refl.ProgramReflection) {
	m.reflCall(g, "attr_slot", prog)
}
func (m *markerBackend) ImageSlotReflFunc(g *Gen, prog *refl.ProgramReflection) {
	m.reflCall(g, "image_slot", prog)
}
func (m *markerBackend) SamplerSlotReflFunc(g *Gen, prog *refl.ProgramReflection) {
	m.reflCall(g, "sampler_slot", prog)
}
func (m *markerBackend) UniformBlockSlotReflFunc(g *Gen, prog *refl.ProgramReflection) {
	m.reflCall(g, "uniformblock_slot", prog)
}
func (m *markerBackend) UniformBlockSizeReflFunc(g *Gen, prog *refl.ProgramReflection) {
	m.reflCall(g, "uniformblock_size", prog)
}
func (m *markerBackend) UniformOffsetReflFunc(g *Gen, prog *refl.ProgramReflection) {
	m.reflCall(g, "uniform_offset", prog)
}
func (m *markerBackend) UniformDescReflFunc(g *Gen, prog *refl.ProgramReflection) {
	m.reflCall(g, "uniform_desc", prog)
}

// stbBackend adds the optional implementation guard hooks.
type stbBackend struct {
	markerBackend
}

func (s *stbBackend) StbImplStart(g *Gen) {
	s.call("stb_start")
	g.Line("#if defined(IMPL)")
}

func (s *stbBackend) StbImplEnd(g *Gen) {
	s.call("stb_end")
	g.Line("#endif")
}

const (
	vsCode = "#version 430\nlayout(location=0) in vec4 position;\n/* pass through */\nvoid main() { gl_Position = position; }\n"
	fsCode = "#version 430\nout vec4 frag_color;\nvoid main() { frag_color = vec4(1.0); }\n"
)

// fixture returns the generator input of the end-to-end scenario: one
// program with two attributes (slot 0 and unused), one uniform block at
// slot 0 and GLSL 4.30 source without bytecode for both stages.
func fixture() *Input {
	inp := &input.Input{
		BasePath: "shd.wgsl",
		Snippets: []input.Snippet{
			{Index: 0, Type: input.SnippetBlock, Name: "common", Line: 1},
			{Index: 1, Type: input.SnippetVS, Name: "vs", Line: 5},
			{Index: 2, Type: input.SnippetFS, Name: "fs", Line: 12},
		},
		SnippetMap: map[string]int{"common": 0, "vs": 1, "fs": 2},
		Programs:   []input.Program{{Name: "prog", VSName: "vs", FSName: "fs", Line: 20}},
	}

	ub := refl.UniformBlock{
		Slot:       0,
		Size:       64,
		StructName: "vs_params",
		InstName:   "params",
		Uniforms:   []refl.Uniform{{Name: "mvp", Type: refl.UniformMat4, ArrayCount: 1}},
	}
	vs := refl.StageReflection{
		SnippetName: "vs",
		Inputs: []refl.StageAttr{
			{Name: "position", Slot: refl.SlotAt(0), Type: refl.AttrFloat4},
			{Name: "color", Slot: refl.NoSlot, Type: refl.AttrFloat4},
		},
		Bindings: refl.Bindings{UniformBlocks: []refl.UniformBlock{ub}},
	}
	fs := refl.StageReflection{SnippetName: "fs"}
	prog, err := refl.NewProgram("prog", vs, fs)
	if err != nil {
		panic(err)
	}
	r, err := refl.New([]refl.ProgramReflection{prog})
	if err != nil {
		panic(err)
	}

	in := &Input{
		Inp:  inp,
		Refl: r,
		Args: Args{
			Slang:      slang.GLSL430.Bit(),
			GenVersion: 1,
			Cmdline:    "shdc -i shd.wgsl -o shd.h -l glsl430",
		},
	}
	in.Targets[slang.GLSL430.Index()] = Target{
		Sources: []Source{
			{SnippetIndex: 1, Code: vsCode},
			{SnippetIndex: 2, Code: fsCode},
		},
	}
	return in
}

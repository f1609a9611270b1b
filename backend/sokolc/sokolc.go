// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package sokolc generates C headers for the sokol_gfx API.
//
// The header defines vertex attribute and bind slot macros, one aligned
// struct per uniform block, the embedded shader arrays and one
// sg_shader_desc constructor per program. The Impl variant wraps the
// implementation part in SOKOL_SHDC_IMPL guards so that the header can be
// included from several translation units.
package sokolc

import (
	"fmt"
	"path/filepath"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shdc/gen"
	"github.com/gogpu/shdc/refl"
	"github.com/gogpu/shdc/slang"
)

// Backend writes a single-file sokol_gfx shader header whose functions are
// all static inline.
type Backend struct {
	impl bool
}

// New creates the header-only backend.
func New() *Backend {
	return &Backend{}
}

// ImplBackend writes an STB style header: declarations are always visible
// and the definitions are only compiled where SOKOL_SHDC_IMPL is defined.
type ImplBackend struct {
	Backend
}

// NewImpl creates the STB style backend.
func NewImpl() *ImplBackend {
	return &ImplBackend{Backend{impl: true}}
}

// StbImplStart opens the implementation guard.
func (b *ImplBackend) StbImplStart(g *gen.Gen) {
	g.Line("#if defined(SOKOL_SHDC_IMPL)")
}

// StbImplEnd closes the implementation guard.
func (b *ImplBackend) StbImplEnd(g *gen.Gen) {
	g.Line("#endif // SOKOL_SHDC_IMPL")
}

var (
	_ gen.Backend        = (*Backend)(nil)
	_ gen.StbImplementer = (*ImplBackend)(nil)
)

// funcQualifier returns the storage qualifier of generated functions.
func (b *Backend) funcQualifier() string {
	if b.impl {
		return ""
	}
	return "static inline "
}

func (b *Backend) LangName() string { return "C" }

func (b *Backend) CommentStyle() gen.CommentStyle {
	return gen.CommentStyle{Start: "/*", LinePrefix: "", End: "*/"}
}

func (b *Backend) ShaderDescHelp(g *gen.Gen, prog string) string {
	return descFuncName(g, prog) + "(sg_query_backend())"
}

func descFuncName(g *gen.Gen, prog string) string {
	return g.Prefix + prog + "_shader_desc"
}

func (b *Backend) StructName(g *gen.Gen, name string) string {
	return g.Prefix + name + "_t"
}

func (b *Backend) VertexAttrName(g *gen.Gen, snippet string, attr refl.StageAttr) string {
	return "ATTR_" + g.Prefix + snippet + "_" + attr.Name
}

func (b *Backend) ImageBindSlotName(g *gen.Gen, img refl.Image) string {
	return "IMG_" + g.Prefix + img.Name
}

func (b *Backend) SamplerBindSlotName(g *gen.Gen, smp refl.Sampler) string {
	return "SMP_" + g.Prefix + smp.Name
}

func (b *Backend) UniformBlockBindSlotName(g *gen.Gen, ub refl.UniformBlock) string {
	return "UB_" + g.Prefix + ub.StructName
}

func (b *Backend) VertexAttrDefinition(g *gen.Gen, snippet string, attr refl.StageAttr) string {
	loc, _ := attr.Slot.Get()
	return fmt.Sprintf("#define %s (%d)", b.VertexAttrName(g, snippet, attr), loc)
}

func (b *Backend) ImageBindSlotDefinition(g *gen.Gen, img refl.Image) string {
	return fmt.Sprintf("#define %s (%d)", b.ImageBindSlotName(g, img), img.Slot)
}

func (b *Backend) SamplerBindSlotDefinition(g *gen.Gen, smp refl.Sampler) string {
	return fmt.Sprintf("#define %s (%d)", b.SamplerBindSlotName(g, smp), smp.Slot)
}

func (b *Backend) UniformBlockBindSlotDefinition(g *gen.Gen, ub refl.UniformBlock) string {
	return fmt.Sprintf("#define %s (%d)", b.UniformBlockBindSlotName(g, ub), ub.Slot)
}

func (b *Backend) ShaderBytecodeArrayName(g *gen.Gen, snippet string, s slang.Slang) string {
	return g.Prefix + snippet + "_bytecode_" + s.String()
}

func (b *Backend) ShaderSourceArrayName(g *gen.Gen, snippet string, s slang.Slang) string {
	return g.Prefix + snippet + "_source_" + s.String()
}

func (b *Backend) UniformType(t refl.UniformType) string {
	switch t {
	case refl.UniformFloat:
		return "SG_UNIFORMTYPE_FLOAT"
	case refl.UniformFloat2:
		return "SG_UNIFORMTYPE_FLOAT2"
	case refl.UniformFloat3:
		return "SG_UNIFORMTYPE_FLOAT3"
	case refl.UniformFloat4:
		return "SG_UNIFORMTYPE_FLOAT4"
	case refl.UniformInt:
		return "SG_UNIFORMTYPE_INT"
	case refl.UniformInt2:
		return "SG_UNIFORMTYPE_INT2"
	case refl.UniformInt3:
		return "SG_UNIFORMTYPE_INT3"
	case refl.UniformInt4:
		return "SG_UNIFORMTYPE_INT4"
	case refl.UniformMat4:
		return "SG_UNIFORMTYPE_MAT4"
	default:
		return "INVALID"
	}
}

func (b *Backend) FlattenedUniformType(t refl.UniformType) string {
	if t.IsInt() {
		return "SG_UNIFORMTYPE_INT4"
	}
	return "SG_UNIFORMTYPE_FLOAT4"
}

func (b *Backend) ImageType(t gputypes.TextureViewDimension) string {
	switch t {
	case gputypes.TextureViewDimension2D:
		return "SG_IMAGETYPE_2D"
	case gputypes.TextureViewDimensionCube:
		return "SG_IMAGETYPE_CUBE"
	case gputypes.TextureViewDimension3D:
		return "SG_IMAGETYPE_3D"
	case gputypes.TextureViewDimension2DArray:
		return "SG_IMAGETYPE_ARRAY"
	default:
		return "INVALID"
	}
}

func (b *Backend) ImageSampleType(t gputypes.TextureSampleType) string {
	switch t {
	case gputypes.TextureSampleTypeFloat:
		return "SG_IMAGESAMPLETYPE_FLOAT"
	case gputypes.TextureSampleTypeUnfilterableFloat:
		return "SG_IMAGESAMPLETYPE_UNFILTERABLE_FLOAT"
	case gputypes.TextureSampleTypeDepth:
		return "SG_IMAGESAMPLETYPE_DEPTH"
	case gputypes.TextureSampleTypeSint:
		return "SG_IMAGESAMPLETYPE_SINT"
	case gputypes.TextureSampleTypeUint:
		return "SG_IMAGESAMPLETYPE_UINT"
	default:
		return "INVALID"
	}
}

func (b *Backend) SamplerType(t gputypes.SamplerBindingType) string {
	switch t {
	case gputypes.SamplerBindingTypeFiltering:
		return "SG_SAMPLERTYPE_FILTERING"
	case gputypes.SamplerBindingTypeNonFiltering:
		return "SG_SAMPLERTYPE_NONFILTERING"
	case gputypes.SamplerBindingTypeComparison:
		return "SG_SAMPLERTYPE_COMPARISON"
	default:
		return "INVALID"
	}
}

func (b *Backend) BackendName(s slang.Slang) string {
	switch s {
	case slang.GLSL410, slang.GLSL430:
		return "SG_BACKEND_GLCORE"
	case slang.GLSL300ES:
		return "SG_BACKEND_GLES3"
	case slang.HLSL4, slang.HLSL5:
		return "SG_BACKEND_D3D11"
	case slang.MetalMacOS:
		return "SG_BACKEND_METAL_MACOS"
	case slang.MetalIOS:
		return "SG_BACKEND_METAL_IOS"
	case slang.MetalSim:
		return "SG_BACKEND_METAL_SIMULATOR"
	case slang.WGSL:
		return "SG_BACKEND_WGPU"
	case slang.SPIRVVK:
		return "SG_BACKEND_VULKAN"
	default:
		return "INVALID"
	}
}

func stageName(s refl.Stage) string {
	if s == refl.StageFragment {
		return "SG_SHADERSTAGE_FRAGMENT"
	}
	return "SG_SHADERSTAGE_VERTEX"
}

func (b *Backend) Prolog(g *gen.Gen) {
	g.Line("#pragma once")
}

func (b *Backend) Prerequisites(g *gen.Gen) {
	g.Line("#if !defined(SOKOL_GFX_INCLUDED)")
	g.Line("#error \"Please include sokol_gfx.h before %s\"", headerName(g))
	g.Line("#endif")
	g.Line("#if !defined(SOKOL_SHDC_ALIGN)")
	g.Line("  #if defined(_MSC_VER)")
	g.Line("    #define SOKOL_SHDC_ALIGN(a) __declspec(align(a))")
	g.Line("  #else")
	g.Line("    #define SOKOL_SHDC_ALIGN(a) __attribute__((aligned(a)))")
	g.Line("  #endif")
	g.Line("#endif")
	if g.In.Args.Reflection {
		g.Line("#include <string.h>")
	}
	if b.impl {
		for i := range g.In.Refl.Progs {
			prog := g.In.Refl.Progs[i].Name
			g.Line("%s;", descFuncSignature(g, prog))
			if g.In.Args.Reflection {
				for _, f := range reflFuncs {
					g.Line("%s;", f.signature(g, prog))
				}
			}
		}
	}
	g.Line("")
}

func headerName(g *gen.Gen) string {
	out := g.In.Args.Output
	if out == "" || out == "-" {
		return "this header"
	}
	return filepath.Base(out)
}

func (b *Backend) Epilog(g *gen.Gen) {}

func (b *Backend) UniformBlockDecl(g *gen.Gen, ub refl.UniformBlock) {
	name := b.StructName(g, ub.StructName)
	g.Line("#pragma pack(push,1)")
	g.LineOpen("SOKOL_SHDC_ALIGN(16) typedef struct %s {", name)
	offset := 0
	for _, u := range ub.Uniforms {
		if u.Offset > offset {
			g.Line("uint8_t _pad_%d[%d];", offset, u.Offset-offset)
			offset = u.Offset
		}
		g.Line("%s;", memberDecl(u))
		offset += u.Size()
	}
	if end := refl.RoundUp(ub.Size, 16); end > offset {
		g.Line("uint8_t _pad_%d[%d];", offset, end-offset)
	}
	g.LineClose("} %s;", name)
	g.Line("#pragma pack(pop)")
}

// memberDecl returns the C declaration of a uniform block member. Array
// elements are padded to 16 bytes.
func memberDecl(u refl.Uniform) string {
	base := "float"
	if u.Type.IsInt() {
		base = "int32_t"
	}
	if u.ArrayCount > 1 {
		if u.Type == refl.UniformMat4 {
			return fmt.Sprintf("%s %s[%d][16]", base, u.Name, u.ArrayCount)
		}
		return fmt.Sprintf("%s %s[%d][4]", base, u.Name, u.ArrayCount)
	}
	if n := u.Type.Components(); n > 1 {
		return fmt.Sprintf("%s %s[%d]", base, u.Name, n)
	}
	return base + " " + u.Name
}

func (b *Backend) ShaderArrayStart(g *gen.Gen, name string, numBytes int, s slang.Slang) {
	g.Line("static const uint8_t %s[%d] = {", name, numBytes)
}

func (b *Backend) ShaderArrayEnd(g *gen.Gen) {
	g.Line("};")
}

func descFuncSignature(g *gen.Gen, prog string) string {
	return fmt.Sprintf("const sg_shader_desc* %s(sg_backend backend)", descFuncName(g, prog))
}

// ShaderDescFunc writes one branch per sokol backend. Target languages that
// map to the same backend, such as glsl410 and glsl430, use the first
// selected one.
func (b *Backend) ShaderDescFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	g.LineOpen("%s%s {", b.funcQualifier(), descFuncSignature(g, prog.Name))
	seen := make(map[string]bool)
	for _, s := range g.In.Args.Slang.List() {
		backend := b.BackendName(s)
		if seen[backend] {
			continue
		}
		seen[backend] = true

		g.LineOpen("if (backend == %s) {", backend)
		g.Line("static sg_shader_desc desc;")
		g.Line("static bool valid;")
		g.LineOpen("if (!valid) {")
		g.Line("valid = true;")
		b.stageFunc(g, prog, refl.StageVertex, s)
		b.stageFunc(g, prog, refl.StageFragment, s)
		b.descAttrs(g, prog, s)
		b.descUniformBlocks(g, prog, s)
		b.descImages(g, prog, s)
		b.descSamplers(g, prog, s)
		b.descImageSamplers(g, prog, s)
		g.Line("desc.label = \"%s%s_shader\";", g.Prefix, prog.Name)
		g.LineClose("}")
		g.Line("return &desc;")
		g.LineClose("}")
	}
	g.Line("return 0;")
	g.LineClose("}")
}

func (b *Backend) stageFunc(g *gen.Gen, prog *refl.ProgramReflection, stage refl.Stage, s slang.Slang) {
	field := "desc.vertex_func"
	if stage == refl.StageFragment {
		field = "desc.fragment_func"
	}
	info := g.StageArrayInfo(prog, stage, s)
	if info.HasBytecode {
		g.Line("%s.bytecode.ptr = %s;", field, info.BytecodeArrayName)
		g.Line("%s.bytecode.size = %d;", field, info.BytecodeSize)
	} else {
		g.Line("%s.source = (const char*)%s;", field, info.SourceArrayName)
	}
	g.Line("%s.entry = \"%s\";", field, entryPoint(prog.Stage(stage), s))
}

// entryPoint returns the function name the target language uses for the
// stage. GLSL always uses main.
func entryPoint(stage *refl.StageReflection, s slang.Slang) string {
	if s.IsGLSL() || stage.EntryPoint == "" {
		return "main"
	}
	return stage.EntryPoint
}

func (b *Backend) descAttrs(g *gen.Gen, prog *refl.ProgramReflection, s slang.Slang) {
	for _, attr := range prog.UsedInputs() {
		loc, _ := attr.Slot.Get()
		switch {
		case s.IsGLSL():
			g.Line("desc.attrs[%d].glsl_name = \"_p2vs_location%d\";", loc, loc)
		case s.IsHLSL():
			g.Line("desc.attrs[%d].hlsl_sem_name = \"LOC\";", loc)
			g.Line("desc.attrs[%d].hlsl_sem_index = %d;", loc, loc)
		}
	}
}

func (b *Backend) descUniformBlocks(g *gen.Gen, prog *refl.ProgramReflection, s slang.Slang) {
	for _, ub := range prog.Bindings.UniformBlocks {
		field := fmt.Sprintf("desc.uniform_blocks[%d]", ub.Slot)
		g.Line("%s.stage = %s;", field, stageName(prog.UniformBlockStage(ub.StructName)))
		g.Line("%s.layout = SG_UNIFORMLAYOUT_STD140;", field)
		g.Line("%s.size = %d;", field, refl.RoundUp(ub.Size, 16))
		switch {
		case s.IsHLSL():
			g.Line("%s.hlsl_register_b_n = %d;", field, ub.Slot)
		case s.IsMSL():
			g.Line("%s.msl_buffer_n = %d;", field, ub.Slot)
		case s.IsWGSL():
			g.Line("%s.wgsl_group0_binding_n = %d;", field, ub.Slot)
		case s.IsSPIRV():
			g.Line("%s.spirv_set0_binding_n = %d;", field, ub.Slot)
		case s.IsGLSL():
			b.glslUniforms(g, field, ub)
		}
	}
}

// glslUniforms describes the block to the GL backend. Blocks whose members
// are all float or all int are flattened into a single vec4 array.
func (b *Backend) glslUniforms(g *gen.Gen, field string, ub refl.UniformBlock) {
	if flattenable(ub) {
		g.Line("%s.glsl_uniforms[0].type = %s;", field, b.FlattenedUniformType(ub.Uniforms[0].Type))
		g.Line("%s.glsl_uniforms[0].array_count = %d;", field, refl.RoundUp(ub.Size, 16)/16)
		g.Line("%s.glsl_uniforms[0].glsl_name = \"%s\";", field, ub.StructName)
		return
	}
	for i, u := range ub.Uniforms {
		g.Line("%s.glsl_uniforms[%d].type = %s;", field, i, b.UniformType(u.Type))
		g.Line("%s.glsl_uniforms[%d].array_count = %d;", field, i, u.ArrayCount)
		g.Line("%s.glsl_uniforms[%d].glsl_name = \"%s.%s\";", field, i, ub.InstName, u.Name)
	}
}

func flattenable(ub refl.UniformBlock) bool {
	if len(ub.Uniforms) == 0 {
		return false
	}
	isInt := ub.Uniforms[0].Type.IsInt()
	for _, u := range ub.Uniforms[1:] {
		if u.Type.IsInt() != isInt {
			return false
		}
	}
	return true
}

func (b *Backend) descImages(g *gen.Gen, prog *refl.ProgramReflection, s slang.Slang) {
	for _, img := range prog.Bindings.Images {
		field := fmt.Sprintf("desc.images[%d]", img.Slot)
		g.Line("%s.stage = %s;", field, stageName(prog.ImageStage(img.Name)))
		g.Line("%s.image_type = %s;", field, b.ImageType(img.Type))
		g.Line("%s.sample_type = %s;", field, b.ImageSampleType(img.SampleType))
		g.Line("%s.multisampled = %t;", field, img.Multisampled)
		switch {
		case s.IsHLSL():
			g.Line("%s.hlsl_register_t_n = %d;", field, img.Slot)
		case s.IsMSL():
			g.Line("%s.msl_texture_n = %d;", field, img.Slot)
		case s.IsWGSL():
			g.Line("%s.wgsl_group1_binding_n = %d;", field, img.Slot)
		case s.IsSPIRV():
			g.Line("%s.spirv_set1_binding_n = %d;", field, img.Slot)
		}
	}
}

func (b *Backend) descSamplers(g *gen.Gen, prog *refl.ProgramReflection, s slang.Slang) {
	for _, smp := range prog.Bindings.Samplers {
		field := fmt.Sprintf("desc.samplers[%d]", smp.Slot)
		g.Line("%s.stage = %s;", field, stageName(prog.SamplerStage(smp.Name)))
		g.Line("%s.sampler_type = %s;", field, b.SamplerType(smp.Type))
		switch {
		case s.IsHLSL():
			g.Line("%s.hlsl_register_s_n = %d;", field, smp.Slot)
		case s.IsMSL():
			g.Line("%s.msl_sampler_n = %d;", field, smp.Slot)
		case s.IsWGSL():
			g.Line("%s.wgsl_group1_binding_n = %d;", field, smp.Slot)
		case s.IsSPIRV():
			g.Line("%s.spirv_set1_binding_n = %d;", field, smp.Slot)
		}
	}
}

func (b *Backend) descImageSamplers(g *gen.Gen, prog *refl.ProgramReflection, s slang.Slang) {
	for _, is := range prog.Bindings.ImageSamplers {
		img := prog.Bindings.FindImageByName(is.ImageName)
		smp := prog.Bindings.FindSamplerByName(is.SamplerName)
		if img == nil || smp == nil {
			continue
		}
		field := fmt.Sprintf("desc.image_sampler_pairs[%d]", is.Slot)
		g.Line("%s.stage = %s;", field, stageName(prog.ImageSamplerStage(is.Name)))
		g.Line("%s.image_slot = %d;", field, img.Slot)
		g.Line("%s.sampler_slot = %d;", field, smp.Slot)
		if s.IsGLSL() {
			g.Line("%s.glsl_name = \"%s\";", field, is.Name)
		}
	}
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sokolc

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shdc/gen"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/refl"
	"github.com/gogpu/shdc/slang"
)

// texturedInput describes a textured quad: a vertex stage with two
// attributes and a uniform block, a fragment stage sampling one texture.
func texturedInput(t *testing.T, mask slang.Mask) *gen.Input {
	t.Helper()
	inp := &input.Input{
		BasePath: "quad.wgsl",
		Snippets: []input.Snippet{
			{Index: 0, Type: input.SnippetVS, Name: "vs", Line: 3},
			{Index: 1, Type: input.SnippetFS, Name: "fs", Line: 14},
		},
		SnippetMap: map[string]int{"vs": 0, "fs": 1},
		Programs:   []input.Program{{Name: "quad", VSName: "vs", FSName: "fs", Line: 25}},
	}

	vs := refl.StageReflection{
		SnippetName: "vs",
		EntryPoint:  "vs_main",
		Inputs: []refl.StageAttr{
			{Name: "position", Slot: refl.SlotAt(0), Type: refl.AttrFloat3},
			{Name: "uv", Slot: refl.SlotAt(1), Type: refl.AttrFloat2},
		},
		Bindings: refl.Bindings{UniformBlocks: []refl.UniformBlock{{
			Slot: 0, Size: 80, StructName: "vs_params", InstName: "params",
			Uniforms: []refl.Uniform{
				{Name: "mvp", Type: refl.UniformMat4, ArrayCount: 1, Offset: 0},
				{Name: "tint", Type: refl.UniformFloat4, ArrayCount: 1, Offset: 64},
			},
		}}},
	}
	fs := refl.StageReflection{
		SnippetName: "fs",
		EntryPoint:  "fs_main",
		Bindings: refl.Bindings{
			Images: []refl.Image{{
				Slot: 0, Name: "tex",
				Type:       gputypes.TextureViewDimension2D,
				SampleType: gputypes.TextureSampleTypeFloat,
			}},
			Samplers:      []refl.Sampler{{Slot: 0, Name: "smp", Type: gputypes.SamplerBindingTypeFiltering}},
			ImageSamplers: []refl.ImageSampler{{Slot: 0, Name: "tex_smp", ImageName: "tex", SamplerName: "smp"}},
		},
	}
	prog, err := refl.NewProgram("quad", vs, fs)
	if err != nil {
		t.Fatal(err)
	}
	r, err := refl.New([]refl.ProgramReflection{prog})
	if err != nil {
		t.Fatal(err)
	}

	in := &gen.Input{
		Inp:  inp,
		Refl: r,
		Args: gen.Args{Slang: mask, GenVersion: 1, Cmdline: "shdc -i quad.wgsl"},
	}
	for _, s := range mask.List() {
		target := in.Target(s)
		target.Sources = []gen.Source{
			{SnippetIndex: 0, Code: "vertex " + s.String()},
			{SnippetIndex: 1, Code: "fragment " + s.String()},
		}
		if s == slang.SPIRVVK {
			target.Blobs = []gen.Blob{
				{SnippetIndex: 0, Data: []byte{3, 2, 35, 7}},
				{SnippetIndex: 1, Data: []byte{3, 2, 35, 7, 0, 0, 1, 0}},
			}
		}
	}
	return in
}

func render(t *testing.T, in *gen.Input, b gen.Backend) string {
	t.Helper()
	out, err := gen.Render(in, b)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestBackend_Constants(t *testing.T) {
	out := render(t, texturedInput(t, slang.GLSL430.Bit()), New())

	assertContains(t, out,
		"#pragma once\n/*\n",
		"#define ATTR_vs_position (0)\n",
		"#define ATTR_vs_uv (1)\n",
		"#define UB_vs_params (0)\n",
		"#define IMG_tex (0)\n",
		"#define SMP_smp (0)\n",
		"Get shader desc: quad_shader_desc(sg_query_backend())",
		"#error \"Please include sokol_gfx.h before this header\"",
	)
}

func TestBackend_UniformBlockStruct(t *testing.T) {
	out := render(t, texturedInput(t, slang.GLSL430.Bit()), New())

	want := "#pragma pack(push,1)\n" +
		"SOKOL_SHDC_ALIGN(16) typedef struct vs_params_t {\n" +
		"    float mvp[16];\n" +
		"    float tint[4];\n" +
		"} vs_params_t;\n" +
		"#pragma pack(pop)\n"
	assertContains(t, out, want)
}

func TestBackend_UniformBlockPadding(t *testing.T) {
	w := gen.NewWriter(New().CommentStyle())
	g := &gen.Gen{Writer: w}
	New().UniformBlockDecl(g, refl.UniformBlock{
		StructName: "params",
		Size:       52,
		Uniforms: []refl.Uniform{
			{Name: "scale", Type: refl.UniformFloat, ArrayCount: 1, Offset: 0},
			{Name: "color", Type: refl.UniformFloat3, ArrayCount: 1, Offset: 16},
			{Name: "mode", Type: refl.UniformInt, ArrayCount: 1, Offset: 28},
			{Name: "weights", Type: refl.UniformFloat, ArrayCount: 2, Offset: 32},
		},
	})

	want := "#pragma pack(push,1)\n" +
		"SOKOL_SHDC_ALIGN(16) typedef struct params_t {\n" +
		"    float scale;\n" +
		"    uint8_t _pad_4[12];\n" +
		"    float color[3];\n" +
		"    int32_t mode;\n" +
		"    float weights[2][4];\n" +
		"} params_t;\n" +
		"#pragma pack(pop)\n"
	if got := w.String(); got != want {
		t.Errorf("struct mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestBackend_ShaderArrays(t *testing.T) {
	out := render(t, texturedInput(t, slang.GLSL430.Bit()|slang.SPIRVVK.Bit()), New())

	assertContains(t, out,
		"static const uint8_t vs_source_glsl430[15] = {\n",
		"static const uint8_t fs_source_glsl430[17] = {\n",
		"static const uint8_t vs_bytecode_spirv_vk[4] = {\n    3,2,35,7,\n};\n",
		"static const uint8_t fs_bytecode_spirv_vk[8] = {\n",
	)
	if strings.Contains(out, "vs_source_spirv_vk[") {
		t.Error("source array emitted although bytecode exists")
	}
}

func TestBackend_ShaderDesc(t *testing.T) {
	mask := slang.GLSL430.Bit() | slang.HLSL5.Bit() | slang.SPIRVVK.Bit()
	out := render(t, texturedInput(t, mask), New())

	assertContains(t, out,
		"static inline const sg_shader_desc* quad_shader_desc(sg_backend backend) {\n",
		"    if (backend == SG_BACKEND_GLCORE) {\n",
		"    if (backend == SG_BACKEND_D3D11) {\n",
		"    if (backend == SG_BACKEND_VULKAN) {\n",
		"desc.vertex_func.source = (const char*)vs_source_glsl430;\n",
		"desc.vertex_func.entry = \"main\";\n",
		"desc.vertex_func.source = (const char*)vs_source_hlsl5;\n",
		"desc.vertex_func.entry = \"vs_main\";\n",
		"desc.fragment_func.entry = \"fs_main\";\n",
		"desc.vertex_func.bytecode.ptr = vs_bytecode_spirv_vk;\n",
		"desc.vertex_func.bytecode.size = 4;\n",
		"desc.fragment_func.bytecode.size = 8;\n",
		"desc.attrs[1].glsl_name = \"_p2vs_location1\";\n",
		"desc.attrs[1].hlsl_sem_name = \"LOC\";\n",
		"desc.attrs[1].hlsl_sem_index = 1;\n",
		"desc.uniform_blocks[0].stage = SG_SHADERSTAGE_VERTEX;\n",
		"desc.uniform_blocks[0].size = 80;\n",
		"desc.uniform_blocks[0].glsl_uniforms[0].type = SG_UNIFORMTYPE_FLOAT4;\n",
		"desc.uniform_blocks[0].glsl_uniforms[0].array_count = 5;\n",
		"desc.uniform_blocks[0].hlsl_register_b_n = 0;\n",
		"desc.images[0].stage = SG_SHADERSTAGE_FRAGMENT;\n",
		"desc.images[0].image_type = SG_IMAGETYPE_2D;\n",
		"desc.images[0].sample_type = SG_IMAGESAMPLETYPE_FLOAT;\n",
		"desc.images[0].multisampled = false;\n",
		"desc.samplers[0].sampler_type = SG_SAMPLERTYPE_FILTERING;\n",
		"desc.image_sampler_pairs[0].glsl_name = \"tex_smp\";\n",
		"desc.label = \"quad_shader\";\n",
		"    return 0;\n}\n",
	)
}

func TestBackend_SharedBackendUsesFirstLanguage(t *testing.T) {
	out := render(t, texturedInput(t, slang.GLSL410.Bit()|slang.GLSL430.Bit()), New())

	if n := strings.Count(out, "if (backend == SG_BACKEND_GLCORE) {"); n != 1 {
		t.Errorf("GLCORE branch emitted %d times, want 1", n)
	}
	assertContains(t, out, "desc.vertex_func.source = (const char*)vs_source_glsl410;")
	if strings.Contains(out, "(const char*)vs_source_glsl430") {
		t.Error("second GL language must not get its own branch")
	}
}

func TestBackend_ReflectionFuncs(t *testing.T) {
	in := texturedInput(t, slang.GLSL430.Bit())
	in.Args.Reflection = true
	out := render(t, in, New())

	assertContains(t, out,
		"#include <string.h>\n",
		"static inline int quad_attr_slot(const char* attr_name) {\n    (void)attr_name;\n",
		"    if (0 == strcmp(attr_name, \"uv\")) {\n        return 1;\n    }\n",
		"static inline int quad_image_slot(const char* img_name) {\n",
		"static inline int quad_sampler_slot(const char* smp_name) {\n",
		"static inline int quad_uniformblock_slot(const char* ub_name) {\n",
		"static inline size_t quad_uniformblock_size(const char* ub_name) {\n",
		"        return sizeof(vs_params_t);\n",
		"static inline int quad_uniform_offset(const char* ub_name, const char* u_name) {\n",
		"            return 64;\n",
		"static inline sg_glsl_shader_uniform quad_uniform_desc(const char* ub_name, const char* u_name) {\n",
		"            res.type = SG_UNIFORMTYPE_MAT4;\n",
	)
}

func TestBackend_NoReflectionByDefault(t *testing.T) {
	out := render(t, texturedInput(t, slang.GLSL430.Bit()), New())
	if strings.Contains(out, "_attr_slot(") || strings.Contains(out, "<string.h>") {
		t.Error("reflection functions emitted without being requested")
	}
}

func TestImplBackend(t *testing.T) {
	in := texturedInput(t, slang.GLSL430.Bit())
	in.Inp.Module = "sprite"
	in.Args.Reflection = true
	in.Args.Output = "/tmp/out/sprite.h"
	out := render(t, in, NewImpl())

	proto := strings.Index(out, "const sg_shader_desc* sprite_quad_shader_desc(sg_backend backend);\n")
	guard := strings.Index(out, "#if defined(SOKOL_SHDC_IMPL)\n")
	def := strings.Index(out, "const sg_shader_desc* sprite_quad_shader_desc(sg_backend backend) {\n")
	if proto < 0 || guard < 0 || def < 0 {
		t.Fatalf("missing prototype, guard or definition:\n%s", out)
	}
	if !(proto < guard && guard < def) {
		t.Error("prototype must precede the guard and the definition must follow it")
	}
	if strings.Contains(out, "static inline") {
		t.Error("implementation functions must not be static inline")
	}
	if !strings.HasSuffix(out, "#endif // SOKOL_SHDC_IMPL\n") {
		t.Error("output must end with the implementation guard")
	}
	assertContains(t, out,
		"int sprite_quad_attr_slot(const char* attr_name);\n",
		"#define UB_sprite_vs_params (0)\n",
		"#error \"Please include sokol_gfx.h before sprite.h\"",
	)
}

func TestBackend_TypeNames(t *testing.T) {
	b := New()
	tests := []struct {
		got, want string
	}{
		{b.UniformType(refl.UniformInt3), "SG_UNIFORMTYPE_INT3"},
		{b.FlattenedUniformType(refl.UniformInt), "SG_UNIFORMTYPE_INT4"},
		{b.FlattenedUniformType(refl.UniformMat4), "SG_UNIFORMTYPE_FLOAT4"},
		{b.ImageType(gputypes.TextureViewDimensionCube), "SG_IMAGETYPE_CUBE"},
		{b.ImageType(gputypes.TextureViewDimension2DArray), "SG_IMAGETYPE_ARRAY"},
		{b.ImageSampleType(gputypes.TextureSampleTypeDepth), "SG_IMAGESAMPLETYPE_DEPTH"},
		{b.SamplerType(gputypes.SamplerBindingTypeComparison), "SG_SAMPLERTYPE_COMPARISON"},
		{b.BackendName(slang.GLSL300ES), "SG_BACKEND_GLES3"},
		{b.BackendName(slang.MetalSim), "SG_BACKEND_METAL_SIMULATOR"},
		{b.BackendName(slang.WGSL), "SG_BACKEND_WGPU"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sokolc

import (
	"fmt"

	"github.com/gogpu/shdc/gen"
	"github.com/gogpu/shdc/refl"
)

// reflFunc is the shape of a runtime reflection function.
type reflFunc struct {
	ret    string
	suffix string
	params string
	// args are the parameter names, voided to silence unused warnings.
	args []string
}

const (
	attrSlotFunc = iota
	imageSlotFunc
	samplerSlotFunc
	uniformBlockSlotFunc
	uniformBlockSizeFunc
	uniformOffsetFunc
	uniformDescFunc
)

var reflFuncs = [...]reflFunc{
	attrSlotFunc:         {"int", "attr_slot", "const char* attr_name", []string{"attr_name"}},
	imageSlotFunc:        {"int", "image_slot", "const char* img_name", []string{"img_name"}},
	samplerSlotFunc:      {"int", "sampler_slot", "const char* smp_name", []string{"smp_name"}},
	uniformBlockSlotFunc: {"int", "uniformblock_slot", "const char* ub_name", []string{"ub_name"}},
	uniformBlockSizeFunc: {"size_t", "uniformblock_size", "const char* ub_name", []string{"ub_name"}},
	uniformOffsetFunc:    {"int", "uniform_offset", "const char* ub_name, const char* u_name", []string{"ub_name", "u_name"}},
	uniformDescFunc:      {"sg_glsl_shader_uniform", "uniform_desc", "const char* ub_name, const char* u_name", []string{"ub_name", "u_name"}},
}

func (f reflFunc) signature(g *gen.Gen, prog string) string {
	return fmt.Sprintf("%s %s%s_%s(%s)", f.ret, g.Prefix, prog, f.suffix, f.params)
}

func (b *Backend) openReflFunc(g *gen.Gen, prog *refl.ProgramReflection, which int) {
	f := reflFuncs[which]
	g.LineOpen("%s%s {", b.funcQualifier(), f.signature(g, prog.Name))
	for _, arg := range f.args {
		g.Line("(void)%s;", arg)
	}
}

func (b *Backend) AttrSlotReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	b.openReflFunc(g, prog, attrSlotFunc)
	for _, attr := range prog.UsedInputs() {
		loc, _ := attr.Slot.Get()
		g.LineOpen("if (0 == strcmp(attr_name, \"%s\")) {", attr.Name)
		g.Line("return %d;", loc)
		g.LineClose("}")
	}
	g.Line("return -1;")
	g.LineClose("}")
}

func (b *Backend) ImageSlotReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	b.openReflFunc(g, prog, imageSlotFunc)
	for _, img := range prog.Bindings.Images {
		g.LineOpen("if (0 == strcmp(img_name, \"%s\")) {", img.Name)
		g.Line("return %d;", img.Slot)
		g.LineClose("}")
	}
	g.Line("return -1;")
	g.LineClose("}")
}

func (b *Backend) SamplerSlotReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	b.openReflFunc(g, prog, samplerSlotFunc)
	for _, smp := range prog.Bindings.Samplers {
		g.LineOpen("if (0 == strcmp(smp_name, \"%s\")) {", smp.Name)
		g.Line("return %d;", smp.Slot)
		g.LineClose("}")
	}
	g.Line("return -1;")
	g.LineClose("}")
}

func (b *Backend) UniformBlockSlotReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	b.openReflFunc(g, prog, uniformBlockSlotFunc)
	for _, ub := range prog.Bindings.UniformBlocks {
		g.LineOpen("if (0 == strcmp(ub_name, \"%s\")) {", ub.StructName)
		g.Line("return %d;", ub.Slot)
		g.LineClose("}")
	}
	g.Line("return -1;")
	g.LineClose("}")
}

func (b *Backend) UniformBlockSizeReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	b.openReflFunc(g, prog, uniformBlockSizeFunc)
	for _, ub := range prog.Bindings.UniformBlocks {
		g.LineOpen("if (0 == strcmp(ub_name, \"%s\")) {", ub.StructName)
		g.Line("return sizeof(%s);", b.StructName(g, ub.StructName))
		g.LineClose("}")
	}
	g.Line("return 0;")
	g.LineClose("}")
}

func (b *Backend) UniformOffsetReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	b.openReflFunc(g, prog, uniformOffsetFunc)
	for _, ub := range prog.Bindings.UniformBlocks {
		g.LineOpen("if (0 == strcmp(ub_name, \"%s\")) {", ub.StructName)
		for _, u := range ub.Uniforms {
			g.LineOpen("if (0 == strcmp(u_name, \"%s\")) {", u.Name)
			g.Line("return %d;", u.Offset)
			g.LineClose("}")
		}
		g.LineClose("}")
	}
	g.Line("return -1;")
	g.LineClose("}")
}

func (b *Backend) UniformDescReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	b.openReflFunc(g, prog, uniformDescFunc)
	g.Line("sg_glsl_shader_uniform res = { 0 };")
	for _, ub := range prog.Bindings.UniformBlocks {
		g.LineOpen("if (0 == strcmp(ub_name, \"%s\")) {", ub.StructName)
		for _, u := range ub.Uniforms {
			g.LineOpen("if (0 == strcmp(u_name, \"%s\")) {", u.Name)
			g.Line("res.type = %s;", b.UniformType(u.Type))
			g.Line("res.array_count = %d;", u.ArrayCount)
			g.Line("res.glsl_name = \"%s\";", u.Name)
			g.Line("return res;")
			g.LineClose("}")
		}
		g.LineClose("}")
	}
	g.Line("return res;")
	g.LineClose("}")
}

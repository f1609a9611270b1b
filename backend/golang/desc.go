// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package golang

import (
	"github.com/gogpu/shdc/gen"
	"github.com/gogpu/shdc/refl"
	"github.com/gogpu/shdc/slang"
)

// ShaderDescFunc writes a constructor switching over the backends of the
// selected target languages. Languages sharing a backend use the first one.
func (b *Backend) ShaderDescFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	name := descFuncName(g, prog.Name)
	g.Line("// %s returns the descriptor of shader program '%s' for the given", name, prog.Name)
	g.Line("// backend, or nil if the program was not compiled for it.")
	g.LineOpen("func %s(backend shaderdesc.Backend) *shaderdesc.ShaderDesc {", name)
	g.Line("switch backend {")
	seen := make(map[string]bool)
	for _, s := range g.In.Args.Slang.List() {
		backend := b.BackendName(s)
		if seen[backend] {
			continue
		}
		seen[backend] = true

		g.LineOpen("case %s:", backend)
		g.LineOpen("return &shaderdesc.ShaderDesc{")
		g.Line("Label: \"%s%s_shader\",", g.Prefix, prog.Name)
		g.Line("Backend: %s,", backend)
		g.Line("Vertex: %s,", b.funcLiteral(g, prog, refl.StageVertex, s))
		g.Line("Fragment: %s,", b.funcLiteral(g, prog, refl.StageFragment, s))
		b.descAttrs(g, prog)
		b.descUniformBlocks(g, prog)
		b.descImages(g, prog)
		b.descSamplers(g, prog)
		b.descImageSamplers(g, prog)
		g.LineClose("}")
		g.PopIndent()
	}
	g.Line("}")
	g.Line("return nil")
	g.LineClose("}")
	g.Line("")
}

func (b *Backend) funcLiteral(g *gen.Gen, prog *refl.ProgramReflection, stage refl.Stage, s slang.Slang) string {
	info := g.StageArrayInfo(prog, stage, s)
	entry := prog.Stage(stage).EntryPoint
	if s.IsGLSL() || entry == "" {
		entry = "main"
	}
	if info.HasBytecode {
		return "shaderdesc.Func{Bytecode: " + info.BytecodeArrayName + "[:], Entry: \"" + entry + "\"}"
	}
	return "shaderdesc.Func{Source: " + info.SourceArrayName + "[:], Entry: \"" + entry + "\"}"
}

func (b *Backend) descAttrs(g *gen.Gen, prog *refl.ProgramReflection) {
	attrs := prog.UsedInputs()
	if len(attrs) == 0 {
		return
	}
	g.LineOpen("Attrs: []shaderdesc.Attr{")
	for _, attr := range attrs {
		loc, _ := attr.Slot.Get()
		g.Line("{Slot: %d, Name: \"%s\", HLSLSemName: \"LOC\", HLSLSemIndex: %d},", loc, attr.Name, loc)
	}
	g.LineClose("},")
}

func (b *Backend) descUniformBlocks(g *gen.Gen, prog *refl.ProgramReflection) {
	if len(prog.Bindings.UniformBlocks) == 0 {
		return
	}
	g.LineOpen("UniformBlocks: []shaderdesc.UniformBlock{")
	for _, ub := range prog.Bindings.UniformBlocks {
		g.LineOpen("{")
		g.Line("Stage: %s,", stageName(prog.UniformBlockStage(ub.StructName)))
		g.Line("Slot: %d,", ub.Slot)
		g.Line("Size: %d,", refl.RoundUp(ub.Size, 16))
		g.Line("Name: \"%s\",", ub.StructName)
		g.LineOpen("Uniforms: []shaderdesc.Uniform{")
		for _, u := range ub.Uniforms {
			g.Line("{Name: \"%s\", Type: %s, ArrayCount: %d, Offset: %d},",
				u.Name, b.UniformType(u.Type), u.ArrayCount, u.Offset)
		}
		g.LineClose("},")
		g.LineClose("},")
	}
	g.LineClose("},")
}

func (b *Backend) descImages(g *gen.Gen, prog *refl.ProgramReflection) {
	if len(prog.Bindings.Images) == 0 {
		return
	}
	g.LineOpen("Images: []shaderdesc.Image{")
	for _, img := range prog.Bindings.Images {
		g.Line("{Stage: %s, Slot: %d, Name: \"%s\", Type: %s, SampleType: %s, Multisampled: %t},",
			stageName(prog.ImageStage(img.Name)), img.Slot, img.Name,
			b.ImageType(img.Type), b.ImageSampleType(img.SampleType), img.Multisampled)
	}
	g.LineClose("},")
}

func (b *Backend) descSamplers(g *gen.Gen, prog *refl.ProgramReflection) {
	if len(prog.Bindings.Samplers) == 0 {
		return
	}
	g.LineOpen("Samplers: []shaderdesc.Sampler{")
	for _, smp := range prog.Bindings.Samplers {
		g.Line("{Stage: %s, Slot: %d, Name: \"%s\", Type: %s},",
			stageName(prog.SamplerStage(smp.Name)), smp.Slot, smp.Name, b.SamplerType(smp.Type))
	}
	g.LineClose("},")
}

func (b *Backend) descImageSamplers(g *gen.Gen, prog *refl.ProgramReflection) {
	if len(prog.Bindings.ImageSamplers) == 0 {
		return
	}
	g.LineOpen("ImageSamplerPairs: []shaderdesc.ImageSamplerPair{")
	for _, is := range prog.Bindings.ImageSamplers {
		img := prog.Bindings.FindImageByName(is.ImageName)
		smp := prog.Bindings.FindSamplerByName(is.SamplerName)
		if img == nil || smp == nil {
			continue
		}
		g.Line("{Stage: %s, Slot: %d, Name: \"%s\", ImageSlot: %d, SamplerSlot: %d},",
			stageName(prog.ImageSamplerStage(is.Name)), is.Slot, is.Name, img.Slot, smp.Slot)
	}
	g.LineClose("},")
}

func reflFuncName(g *gen.Gen, prog *refl.ProgramReflection, suffix string) string {
	return gen.PascalCase(g.Prefix+prog.Name) + suffix
}

// slotSwitch writes a function mapping names to slots.
func slotSwitch(g *gen.Gen, fn, doc, param string, cases [][2]any) {
	g.Line("// %s returns the %s, or -1.", fn, doc)
	g.LineOpen("func %s(%s string) int {", fn, param)
	g.Line("switch %s {", param)
	for _, c := range cases {
		g.Line("case \"%s\":", c[0])
		g.PushIndent()
		g.Line("return %d", c[1])
		g.PopIndent()
	}
	g.Line("}")
	g.Line("return -1")
	g.LineClose("}")
	g.Line("")
}

func (b *Backend) AttrSlotReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	var cases [][2]any
	for _, attr := range prog.UsedInputs() {
		loc, _ := attr.Slot.Get()
		cases = append(cases, [2]any{attr.Name, loc})
	}
	slotSwitch(g, reflFuncName(g, prog, "AttrSlot"), "slot of the named vertex attribute", "attrName", cases)
}

func (b *Backend) ImageSlotReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	var cases [][2]any
	for _, img := range prog.Bindings.Images {
		cases = append(cases, [2]any{img.Name, img.Slot})
	}
	slotSwitch(g, reflFuncName(g, prog, "ImageSlot"), "bind slot of the named image", "imgName", cases)
}

func (b *Backend) SamplerSlotReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	var cases [][2]any
	for _, smp := range prog.Bindings.Samplers {
		cases = append(cases, [2]any{smp.Name, smp.Slot})
	}
	slotSwitch(g, reflFuncName(g, prog, "SamplerSlot"), "bind slot of the named sampler", "smpName", cases)
}

func (b *Backend) UniformBlockSlotReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	var cases [][2]any
	for _, ub := range prog.Bindings.UniformBlocks {
		cases = append(cases, [2]any{ub.StructName, ub.Slot})
	}
	slotSwitch(g, reflFuncName(g, prog, "UniformBlockSlot"), "bind slot of the named uniform block", "ubName", cases)
}

func (b *Backend) UniformBlockSizeReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	fn := reflFuncName(g, prog, "UniformBlockSize")
	g.Line("// %s returns the size in bytes of the named uniform block, or 0.", fn)
	g.LineOpen("func %s(ubName string) int {", fn)
	g.Line("switch ubName {")
	for _, ub := range prog.Bindings.UniformBlocks {
		g.Line("case \"%s\":", ub.StructName)
		g.PushIndent()
		g.Line("return %d", refl.RoundUp(ub.Size, 16))
		g.PopIndent()
	}
	g.Line("}")
	g.Line("return 0")
	g.LineClose("}")
	g.Line("")
}

// uniformSwitch writes the nested block and member switch of the uniform
// lookup functions. body writes the statements of a matching member.
func uniformSwitch(g *gen.Gen, prog *refl.ProgramReflection, body func(u refl.Uniform)) {
	g.Line("switch ubName {")
	for _, ub := range prog.Bindings.UniformBlocks {
		g.Line("case \"%s\":", ub.StructName)
		g.PushIndent()
		g.Line("switch uName {")
		for _, u := range ub.Uniforms {
			g.Line("case \"%s\":", u.Name)
			g.PushIndent()
			body(u)
			g.PopIndent()
		}
		g.Line("}")
		g.PopIndent()
	}
	g.Line("}")
}

func (b *Backend) UniformOffsetReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	fn := reflFuncName(g, prog, "UniformOffset")
	g.Line("// %s returns the byte offset of a uniform block member, or -1.", fn)
	g.LineOpen("func %s(ubName, uName string) int {", fn)
	uniformSwitch(g, prog, func(u refl.Uniform) {
		g.Line("return %d", u.Offset)
	})
	g.Line("return -1")
	g.LineClose("}")
	g.Line("")
}

func (b *Backend) UniformDescReflFunc(g *gen.Gen, prog *refl.ProgramReflection) {
	fn := reflFuncName(g, prog, "UniformDesc")
	g.Line("// %s describes a uniform block member.", fn)
	g.LineOpen("func %s(ubName, uName string) (shaderdesc.Uniform, bool) {", fn)
	uniformSwitch(g, prog, func(u refl.Uniform) {
		g.Line("return shaderdesc.Uniform{Name: \"%s\", Type: %s, ArrayCount: %d, Offset: %d}, true",
			u.Name, b.UniformType(u.Type), u.ArrayCount, u.Offset)
	})
	g.Line("return shaderdesc.Uniform{}, false")
	g.LineClose("}")
	g.Line("")
}

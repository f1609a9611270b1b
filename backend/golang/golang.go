// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package golang generates Go source files that embed shaders.
//
// The generated file belongs to the package named by @module, or to package
// shaders. It only depends on github.com/gogpu/shdc/shaderdesc.
package golang

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shdc/gen"
	"github.com/gogpu/shdc/refl"
	"github.com/gogpu/shdc/slang"
)

// DefaultPackage is the package name used when the input has no @module.
const DefaultPackage = "shaders"

// Backend writes Go code.
type Backend struct{}

// New creates the Go backend.
func New() *Backend {
	return &Backend{}
}

var _ gen.Backend = (*Backend)(nil)

func (b *Backend) LangName() string { return "Go" }

func (b *Backend) CommentStyle() gen.CommentStyle {
	return gen.CommentStyle{LinePrefix: "//"}
}

func (b *Backend) ShaderDescHelp(g *gen.Gen, prog string) string {
	return descFuncName(g, prog) + "(backend)"
}

func descFuncName(g *gen.Gen, prog string) string {
	return gen.PascalCase(g.Prefix+prog) + "ShaderDesc"
}

func (b *Backend) StructName(g *gen.Gen, name string) string {
	return gen.PascalCase(g.Prefix + name)
}

func (b *Backend) VertexAttrName(g *gen.Gen, snippet string, attr refl.StageAttr) string {
	return "Attr" + gen.PascalCase(g.Prefix+snippet+"_"+attr.Name)
}

func (b *Backend) ImageBindSlotName(g *gen.Gen, img refl.Image) string {
	return "Img" + gen.PascalCase(g.Prefix+img.Name)
}

func (b *Backend) SamplerBindSlotName(g *gen.Gen, smp refl.Sampler) string {
	return "Smp" + gen.PascalCase(g.Prefix+smp.Name)
}

func (b *Backend) UniformBlockBindSlotName(g *gen.Gen, ub refl.UniformBlock) string {
	return "UB" + gen.PascalCase(g.Prefix+ub.StructName)
}

func (b *Backend) VertexAttrDefinition(g *gen.Gen, snippet string, attr refl.StageAttr) string {
	loc, _ := attr.Slot.Get()
	return fmt.Sprintf("const %s = %d", b.VertexAttrName(g, snippet, attr), loc)
}

func (b *Backend) ImageBindSlotDefinition(g *gen.Gen, img refl.Image) string {
	return fmt.Sprintf("const %s = %d", b.ImageBindSlotName(g, img), img.Slot)
}

func (b *Backend) SamplerBindSlotDefinition(g *gen.Gen, smp refl.Sampler) string {
	return fmt.Sprintf("const %s = %d", b.SamplerBindSlotName(g, smp), smp.Slot)
}

func (b *Backend) UniformBlockBindSlotDefinition(g *gen.Gen, ub refl.UniformBlock) string {
	return fmt.Sprintf("const %s = %d", b.UniformBlockBindSlotName(g, ub), ub.Slot)
}

func (b *Backend) ShaderBytecodeArrayName(g *gen.Gen, snippet string, s slang.Slang) string {
	return gen.CamelCase(g.Prefix+snippet) + "Bytecode" + gen.PascalCase(s.String())
}

func (b *Backend) ShaderSourceArrayName(g *gen.Gen, snippet string, s slang.Slang) string {
	return gen.CamelCase(g.Prefix+snippet) + "Source" + gen.PascalCase(s.String())
}

func (b *Backend) UniformType(t refl.UniformType) string {
	switch t {
	case refl.UniformFloat:
		return "shaderdesc.UniformTypeFloat"
	case refl.UniformFloat2:
		return "shaderdesc.UniformTypeFloat2"
	case refl.UniformFloat3:
		return "shaderdesc.UniformTypeFloat3"
	case refl.UniformFloat4:
		return "shaderdesc.UniformTypeFloat4"
	case refl.UniformInt:
		return "shaderdesc.UniformTypeInt"
	case refl.UniformInt2:
		return "shaderdesc.UniformTypeInt2"
	case refl.UniformInt3:
		return "shaderdesc.UniformTypeInt3"
	case refl.UniformInt4:
		return "shaderdesc.UniformTypeInt4"
	case refl.UniformMat4:
		return "shaderdesc.UniformTypeMat4"
	default:
		return "shaderdesc.UniformTypeInvalid"
	}
}

func (b *Backend) FlattenedUniformType(t refl.UniformType) string {
	if t.IsInt() {
		return "shaderdesc.UniformTypeInt4"
	}
	return "shaderdesc.UniformTypeFloat4"
}

func (b *Backend) ImageType(t gputypes.TextureViewDimension) string {
	switch t {
	case gputypes.TextureViewDimension2D:
		return "shaderdesc.ImageType2D"
	case gputypes.TextureViewDimensionCube:
		return "shaderdesc.ImageTypeCube"
	case gputypes.TextureViewDimension3D:
		return "shaderdesc.ImageType3D"
	case gputypes.TextureViewDimension2DArray:
		return "shaderdesc.ImageTypeArray"
	default:
		return "0"
	}
}

func (b *Backend) ImageSampleType(t gputypes.TextureSampleType) string {
	switch t {
	case gputypes.TextureSampleTypeFloat:
		return "shaderdesc.ImageSampleTypeFloat"
	case gputypes.TextureSampleTypeUnfilterableFloat:
		return "shaderdesc.ImageSampleTypeUnfilterableFloat"
	case gputypes.TextureSampleTypeDepth:
		return "shaderdesc.ImageSampleTypeDepth"
	case gputypes.TextureSampleTypeSint:
		return "shaderdesc.ImageSampleTypeSint"
	case gputypes.TextureSampleTypeUint:
		return "shaderdesc.ImageSampleTypeUint"
	default:
		return "0"
	}
}

func (b *Backend) SamplerType(t gputypes.SamplerBindingType) string {
	switch t {
	case gputypes.SamplerBindingTypeFiltering:
		return "shaderdesc.SamplerTypeFiltering"
	case gputypes.SamplerBindingTypeNonFiltering:
		return "shaderdesc.SamplerTypeNonFiltering"
	case gputypes.SamplerBindingTypeComparison:
		return "shaderdesc.SamplerTypeComparison"
	default:
		return "0"
	}
}

func (b *Backend) BackendName(s slang.Slang) string {
	switch s {
	case slang.GLSL410, slang.GLSL430:
		return "shaderdesc.BackendGLCore"
	case slang.GLSL300ES:
		return "shaderdesc.BackendGLES3"
	case slang.HLSL4, slang.HLSL5:
		return "shaderdesc.BackendD3D11"
	case slang.MetalMacOS:
		return "shaderdesc.BackendMetalMacOS"
	case slang.MetalIOS:
		return "shaderdesc.BackendMetalIOS"
	case slang.MetalSim:
		return "shaderdesc.BackendMetalSimulator"
	case slang.WGSL:
		return "shaderdesc.BackendWGPU"
	case slang.SPIRVVK:
		return "shaderdesc.BackendVulkan"
	default:
		return "shaderdesc.BackendInvalid"
	}
}

func stageName(s refl.Stage) string {
	if s == refl.StageFragment {
		return "shaderdesc.StageFragment"
	}
	return "shaderdesc.StageVertex"
}

// packageName returns the package clause name of the generated file.
func packageName(g *gen.Gen) string {
	if m := g.Inp().Module; m != "" {
		return m
	}
	return DefaultPackage
}

func (b *Backend) Prolog(g *gen.Gen) {
	g.Line("// Code generated by shdc. DO NOT EDIT.")
	g.Line("")
	g.Line("package %s", packageName(g))
	g.Line("")
}

func (b *Backend) Prerequisites(g *gen.Gen) {
	g.Line("import \"github.com/gogpu/shdc/shaderdesc\"")
	g.Line("")
}

func (b *Backend) Epilog(g *gen.Gen) {}

func (b *Backend) UniformBlockDecl(g *gen.Gen, ub refl.UniformBlock) {
	name := b.StructName(g, ub.StructName)
	g.Line("// %s is the memory layout of uniform block '%s'.", name, ub.StructName)
	g.LineOpen("type %s struct {", name)
	offset := 0
	for _, u := range ub.Uniforms {
		if u.Offset > offset {
			g.Line("_ [%d]byte", u.Offset-offset)
			offset = u.Offset
		}
		g.Line("%s %s", gen.PascalCase(u.Name), fieldType(u))
		offset += u.Size()
	}
	if end := refl.RoundUp(ub.Size, 16); end > offset {
		g.Line("_ [%d]byte", end-offset)
	}
	g.LineClose("}")
	g.Line("")
}

// fieldType returns the Go type of a uniform block member. Array elements
// are padded to 16 bytes.
func fieldType(u refl.Uniform) string {
	base := "float32"
	if u.Type.IsInt() {
		base = "int32"
	}
	if u.ArrayCount > 1 {
		if u.Type == refl.UniformMat4 {
			return fmt.Sprintf("[%d][16]%s", u.ArrayCount, base)
		}
		return fmt.Sprintf("[%d][4]%s", u.ArrayCount, base)
	}
	if n := u.Type.Components(); n > 1 {
		return fmt.Sprintf("[%d]%s", n, base)
	}
	return base
}

func (b *Backend) ShaderArrayStart(g *gen.Gen, name string, numBytes int, s slang.Slang) {
	g.Line("var %s = [%d]byte{", name, numBytes)
}

func (b *Backend) ShaderArrayEnd(g *gen.Gen) {
	g.Line("}")
	g.Line("")
}

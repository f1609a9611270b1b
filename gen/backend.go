// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gen

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shdc/refl"
	"github.com/gogpu/shdc/slang"
)

// Namer spells identifiers, type names and constant definitions in the
// target language.
type Namer interface {
	// LangName is the target language name used in the header, e.g. "C".
	LangName() string

	// CommentStyle returns the comment block syntax.
	CommentStyle() CommentStyle

	// ShaderDescHelp describes how to obtain the shader descriptor of a
	// program, e.g. "triangle_shader_desc(sg_query_backend())".
	ShaderDescHelp(g *Gen, prog string) string

	StructName(g *Gen, name string) string
	VertexAttrName(g *Gen, snippet string, attr refl.StageAttr) string
	ImageBindSlotName(g *Gen, img refl.Image) string
	SamplerBindSlotName(g *Gen, smp refl.Sampler) string
	UniformBlockBindSlotName(g *Gen, ub refl.UniformBlock) string

	VertexAttrDefinition(g *Gen, snippet string, attr refl.StageAttr) string
	ImageBindSlotDefinition(g *Gen, img refl.Image) string
	SamplerBindSlotDefinition(g *Gen, smp refl.Sampler) string
	UniformBlockBindSlotDefinition(g *Gen, ub refl.UniformBlock) string

	ShaderBytecodeArrayName(g *Gen, snippet string, s slang.Slang) string
	ShaderSourceArrayName(g *Gen, snippet string, s slang.Slang) string

	UniformType(t refl.UniformType) string
	FlattenedUniformType(t refl.UniformType) string
	ImageType(t gputypes.TextureViewDimension) string
	ImageSampleType(t gputypes.TextureSampleType) string
	SamplerType(t gputypes.SamplerBindingType) string

	// BackendName is the runtime backend identifier for a target language.
	BackendName(s slang.Slang) string
}

// Emitter writes the code sections of the generated file.
type Emitter interface {
	Prolog(g *Gen)
	Prerequisites(g *Gen)
	Epilog(g *Gen)

	UniformBlockDecl(g *Gen, ub refl.UniformBlock)

	// ShaderArrayStart opens a byte array of numBytes elements. The engine
	// then writes the values and calls ShaderArrayEnd.
	ShaderArrayStart(g *Gen, name string, numBytes int, s slang.Slang)
	ShaderArrayEnd(g *Gen)

	ShaderDescFunc(g *Gen, prog *refl.ProgramReflection)
}

// Reflector writes the optional runtime reflection functions of a program.
// Generate calls them in declaration order.
type Reflector interface {
	AttrSlotReflFunc(g *Gen, prog *refl.ProgramReflection)
	ImageSlotReflFunc(g *Gen, prog *refl.ProgramReflection)
	SamplerSlotReflFunc(g *Gen, prog *refl.ProgramReflection)
	UniformBlockSlotReflFunc(g *Gen, prog *refl.ProgramReflection)
	UniformBlockSizeReflFunc(g *Gen, prog *refl.ProgramReflection)
	UniformOffsetReflFunc(g *Gen, prog *refl.ProgramReflection)
	UniformDescReflFunc(g *Gen, prog *refl.ProgramReflection)
}

// Backend is a complete output format.
type Backend interface {
	Namer
	Emitter
	Reflector
}

// StbImplementer is implemented by backends that produce single-header
// libraries and need to guard the implementation part of the output.
// StbImplStart runs right before the shader arrays, StbImplEnd runs last.
type StbImplementer interface {
	StbImplStart(g *Gen)
	StbImplEnd(g *Gen)
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package shaderdesc holds the shader descriptor types referenced by Go
// files generated with "shdc -f go".
//
// A generated file embeds the shader code of every selected target language
// and exposes one constructor per program:
//
//	desc := shaders.QuadShaderDesc(shaderdesc.BackendWGPU)
//	layout := desc.LayoutEntries()
package shaderdesc

import (
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
)

// Backend is a rendering backend a descriptor can be built for.
type Backend uint8

const (
	BackendInvalid Backend = iota
	BackendGLCore
	BackendGLES3
	BackendD3D11
	BackendMetalMacOS
	BackendMetalIOS
	BackendMetalSimulator
	BackendWGPU
	BackendVulkan
)

var backendNames = [...]string{
	BackendInvalid:        "invalid",
	BackendGLCore:         "glcore",
	BackendGLES3:          "gles3",
	BackendD3D11:          "d3d11",
	BackendMetalMacOS:     "metal_macos",
	BackendMetalIOS:       "metal_ios",
	BackendMetalSimulator: "metal_simulator",
	BackendWGPU:           "wgpu",
	BackendVulkan:         "vulkan",
}

func (b Backend) String() string {
	if int(b) < len(backendNames) {
		return backendNames[b]
	}
	return "invalid"
}

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

// visibleIn sets the visibility of a layout entry to the given stage.
func visibleIn(e gputypes.BindGroupLayoutEntry, s Stage) gputypes.BindGroupLayoutEntry {
	if s == StageFragment {
		e.Visibility = gputypes.ShaderStageFragment
	} else {
		e.Visibility = gputypes.ShaderStageVertex
	}
	return e
}

// UniformType is the type of a uniform block member.
type UniformType uint8

const (
	UniformTypeInvalid UniformType = iota
	UniformTypeFloat
	UniformTypeFloat2
	UniformTypeFloat3
	UniformTypeFloat4
	UniformTypeInt
	UniformTypeInt2
	UniformTypeInt3
	UniformTypeInt4
	UniformTypeMat4
)

// Image view dimensions.
const (
	ImageType2D    = gputypes.TextureViewDimension2D
	ImageTypeCube  = gputypes.TextureViewDimensionCube
	ImageType3D    = gputypes.TextureViewDimension3D
	ImageTypeArray = gputypes.TextureViewDimension2DArray
)

// Image sample types.
const (
	ImageSampleTypeFloat             = gputypes.TextureSampleTypeFloat
	ImageSampleTypeUnfilterableFloat = gputypes.TextureSampleTypeUnfilterableFloat
	ImageSampleTypeDepth             = gputypes.TextureSampleTypeDepth
	ImageSampleTypeSint              = gputypes.TextureSampleTypeSint
	ImageSampleTypeUint              = gputypes.TextureSampleTypeUint
)

// Sampler binding types.
const (
	SamplerTypeFiltering    = gputypes.SamplerBindingTypeFiltering
	SamplerTypeNonFiltering = gputypes.SamplerBindingTypeNonFiltering
	SamplerTypeComparison   = gputypes.SamplerBindingTypeComparison
)

// Func is the code of one shader stage. Exactly one of Source and Bytecode
// is set. Source is zero terminated.
type Func struct {
	Source   []byte
	Bytecode []byte
	Entry    string
}

// SourceString returns Source without the terminating zero.
func (f Func) SourceString() string {
	return strings.TrimSuffix(string(f.Source), "\x00")
}

// Attr is a vertex input.
type Attr struct {
	Slot         int
	Name         string
	HLSLSemName  string
	HLSLSemIndex int
}

// Uniform is a uniform block member.
type Uniform struct {
	Name       string
	Type       UniformType
	ArrayCount int
	Offset     int
}

// UniformBlock is a uniform buffer binding.
type UniformBlock struct {
	Stage    Stage
	Slot     int
	Size     int
	Name     string
	Uniforms []Uniform
}

// Image is a texture binding.
type Image struct {
	Stage        Stage
	Slot         int
	Name         string
	Type         gputypes.TextureViewDimension
	SampleType   gputypes.TextureSampleType
	Multisampled bool
}

// Sampler is a sampler binding.
type Sampler struct {
	Stage Stage
	Slot  int
	Name  string
	Type  gputypes.SamplerBindingType
}

// ImageSamplerPair combines an image and a sampler for GL backends.
type ImageSamplerPair struct {
	Stage       Stage
	Slot        int
	Name        string
	ImageSlot   int
	SamplerSlot int
}

// ShaderDesc describes a shader program for one backend.
type ShaderDesc struct {
	Label             string
	Backend           Backend
	Vertex            Func
	Fragment          Func
	Attrs             []Attr
	UniformBlocks     []UniformBlock
	Images            []Image
	Samplers          []Sampler
	ImageSamplerPairs []ImageSamplerPair
}

// LayoutEntries returns the WebGPU bind group layout entries of the
// descriptor's uniform blocks, images and samplers, sorted by binding.
func (d *ShaderDesc) LayoutEntries() []gputypes.BindGroupLayoutEntry {
	entries := make([]gputypes.BindGroupLayoutEntry, 0,
		len(d.UniformBlocks)+len(d.Images)+len(d.Samplers))
	for _, ub := range d.UniformBlocks {
		entries = append(entries, visibleIn(gputypes.BindGroupLayoutEntry{
			Binding: uint32(ub.Slot),
			Buffer:  &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		}, ub.Stage))
	}
	for _, img := range d.Images {
		entries = append(entries, visibleIn(gputypes.BindGroupLayoutEntry{
			Binding: uint32(img.Slot),
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    img.SampleType,
				ViewDimension: img.Type,
			},
		}, img.Stage))
	}
	for _, smp := range d.Samplers {
		entries = append(entries, visibleIn(gputypes.BindGroupLayoutEntry{
			Binding: uint32(smp.Slot),
			Sampler: &gputypes.SamplerBindingLayout{Type: smp.Type},
		}, smp.Stage))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Binding < entries[j].Binding
	})
	return entries
}

// UniformBlock returns the uniform block with the given name.
func (d *ShaderDesc) UniformBlock(name string) (*UniformBlock, bool) {
	for i := range d.UniformBlocks {
		if d.UniformBlocks[i].Name == name {
			return &d.UniformBlocks[i], true
		}
	}
	return nil, false
}

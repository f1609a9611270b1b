// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package refl

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// AttrType is the base type of a vertex input attribute.
type AttrType uint8

const (
	AttrInvalid AttrType = iota
	AttrFloat
	AttrFloat2
	AttrFloat3
	AttrFloat4
	AttrInt
	AttrInt2
	AttrInt3
	AttrInt4
	AttrUint
	AttrUint2
	AttrUint3
	AttrUint4
)

var attrTypeNames = [...]string{
	AttrInvalid: "invalid",
	AttrFloat:   "float",
	AttrFloat2:  "float2",
	AttrFloat3:  "float3",
	AttrFloat4:  "float4",
	AttrInt:     "int",
	AttrInt2:    "int2",
	AttrInt3:    "int3",
	AttrInt4:    "int4",
	AttrUint:    "uint",
	AttrUint2:   "uint2",
	AttrUint3:   "uint3",
	AttrUint4:   "uint4",
}

// String returns the type name, e.g. "float3".
func (t AttrType) String() string {
	if int(t) < len(attrTypeNames) {
		return attrTypeNames[t]
	}
	return fmt.Sprintf("attr(%d)", uint8(t))
}

// VertexFormat returns the matching WebGPU vertex format.
func (t AttrType) VertexFormat() (gputypes.VertexFormat, bool) {
	switch t {
	case AttrFloat:
		return gputypes.VertexFormatFloat32, true
	case AttrFloat2:
		return gputypes.VertexFormatFloat32x2, true
	case AttrFloat3:
		return gputypes.VertexFormatFloat32x3, true
	case AttrFloat4:
		return gputypes.VertexFormatFloat32x4, true
	case AttrInt:
		return gputypes.VertexFormatSint32, true
	case AttrInt2:
		return gputypes.VertexFormatSint32x2, true
	case AttrInt3:
		return gputypes.VertexFormatSint32x3, true
	case AttrInt4:
		return gputypes.VertexFormatSint32x4, true
	case AttrUint:
		return gputypes.VertexFormatUint32, true
	case AttrUint2:
		return gputypes.VertexFormatUint32x2, true
	case AttrUint3:
		return gputypes.VertexFormatUint32x3, true
	case AttrUint4:
		return gputypes.VertexFormatUint32x4, true
	default:
		var zero gputypes.VertexFormat
		return zero, false
	}
}

// UniformType is the type of a uniform block member.
type UniformType uint8

const (
	UniformInvalid UniformType = iota
	UniformFloat
	UniformFloat2
	UniformFloat3
	UniformFloat4
	UniformInt
	UniformInt2
	UniformInt3
	UniformInt4
	UniformMat4
)

var uniformTypeNames = [...]string{
	UniformInvalid: "invalid",
	UniformFloat:   "float",
	UniformFloat2:  "float2",
	UniformFloat3:  "float3",
	UniformFloat4:  "float4",
	UniformInt:     "int",
	UniformInt2:    "int2",
	UniformInt3:    "int3",
	UniformInt4:    "int4",
	UniformMat4:    "mat4",
}

// String returns the type name, e.g. "mat4".
func (t UniformType) String() string {
	if int(t) < len(uniformTypeNames) {
		return uniformTypeNames[t]
	}
	return fmt.Sprintf("uniform(%d)", uint8(t))
}

// Size returns the byte size of a single value of type t.
func (t UniformType) Size() int {
	switch t {
	case UniformFloat, UniformInt:
		return 4
	case UniformFloat2, UniformInt2:
		return 8
	case UniformFloat3, UniformInt3:
		return 12
	case UniformFloat4, UniformInt4:
		return 16
	case UniformMat4:
		return 64
	default:
		return 0
	}
}

// Components returns the number of scalar components of t.
func (t UniformType) Components() int {
	return t.Size() / 4
}

// IsInt reports whether t has integer components.
func (t UniformType) IsInt() bool {
	return t == UniformInt || t == UniformInt2 || t == UniformInt3 || t == UniformInt4
}

// Uniform is a member of a uniform block.
type Uniform struct {
	Name string
	Type UniformType

	// ArrayCount is 1 for non-array members.
	ArrayCount int

	// Offset is the byte offset from the start of the block.
	Offset int
}

// Stride returns the distance in bytes between array elements. Array
// elements are aligned to 16 bytes.
func (u Uniform) Stride() int {
	if u.ArrayCount > 1 {
		return RoundUp(u.Type.Size(), 16)
	}
	return u.Type.Size()
}

// Size returns the number of bytes the member occupies in the block.
func (u Uniform) Size() int {
	if u.ArrayCount > 1 {
		return u.Stride() * u.ArrayCount
	}
	return u.Type.Size()
}

// UniformBlock is a uniform buffer binding.
type UniformBlock struct {
	Slot       int
	Size       int
	StructName string
	InstName   string
	Uniforms   []Uniform
}

// Uniform returns the member with the given name.
func (ub *UniformBlock) Uniform(name string) (*Uniform, bool) {
	for i := range ub.Uniforms {
		if ub.Uniforms[i].Name == name {
			return &ub.Uniforms[i], true
		}
	}
	return nil, false
}

// Equal compares two uniform blocks including their member layout.
func (ub *UniformBlock) Equal(other *UniformBlock) bool {
	if ub.Slot != other.Slot || ub.Size != other.Size || ub.StructName != other.StructName {
		return false
	}
	if len(ub.Uniforms) != len(other.Uniforms) {
		return false
	}
	for i := range ub.Uniforms {
		if ub.Uniforms[i] != other.Uniforms[i] {
			return false
		}
	}
	return true
}

// Image is a texture binding.
type Image struct {
	Slot         int
	Name         string
	Type         gputypes.TextureViewDimension
	SampleType   gputypes.TextureSampleType
	Multisampled bool
}

// Sampler is a sampler binding.
type Sampler struct {
	Slot int
	Name string
	Type gputypes.SamplerBindingType
}

// ImageSampler pairs one image with one sampler for backends that bind
// them as a single combined object.
type ImageSampler struct {
	Slot        int
	Name        string
	ImageName   string
	SamplerName string
}

// ImageSamplerName returns the conventional name of a combined
// image-sampler, "<image>_<sampler>".
func ImageSamplerName(image, sampler string) string {
	return image + "_" + sampler
}

// RoundUp rounds val up to a multiple of roundTo, which must be a power of
// two.
func RoundUp(val, roundTo int) int {
	return (val + (roundTo - 1)) &^ (roundTo - 1)
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package refl

import (
	"sort"

	"github.com/gogpu/gputypes"
)

// LayoutEntries converts the program bindings into WebGPU bind group layout
// entries, one per uniform block, image and sampler, sorted by binding
// number. Visibility is the set of stages that declare the binding.
//
// Image-sampler pairs have no WebGPU counterpart and are skipped.
func (p *ProgramReflection) LayoutEntries() []gputypes.BindGroupLayoutEntry {
	var entries []gputypes.BindGroupLayoutEntry
	index := make(map[uint32]int)

	add := func(e gputypes.BindGroupLayoutEntry, stage Stage) {
		if i, ok := index[e.Binding]; ok {
			if stage == StageVertex {
				entries[i].Visibility |= gputypes.ShaderStageVertex
			} else {
				entries[i].Visibility |= gputypes.ShaderStageFragment
			}
			return
		}
		if stage == StageVertex {
			e.Visibility = gputypes.ShaderStageVertex
		} else {
			e.Visibility = gputypes.ShaderStageFragment
		}
		index[e.Binding] = len(entries)
		entries = append(entries, e)
	}

	for _, stage := range []*StageReflection{&p.VS, &p.FS} {
		for _, ub := range stage.Bindings.UniformBlocks {
			add(gputypes.BindGroupLayoutEntry{
				Binding: uint32(ub.Slot),
				Buffer:  &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			}, stage.Stage)
		}
		for _, img := range stage.Bindings.Images {
			add(gputypes.BindGroupLayoutEntry{
				Binding: uint32(img.Slot),
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    img.SampleType,
					ViewDimension: img.Type,
				},
			}, stage.Stage)
		}
		for _, smp := range stage.Bindings.Samplers {
			add(gputypes.BindGroupLayoutEntry{
				Binding: uint32(smp.Slot),
				Sampler: &gputypes.SamplerBindingLayout{Type: smp.Type},
			}, stage.Stage)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Binding < entries[j].Binding
	})
	return entries
}

// VertexAttributes returns the WebGPU vertex attributes of the used vertex
// inputs, tightly packed in slot order into a single buffer.
func (p *ProgramReflection) VertexAttributes() ([]gputypes.VertexAttribute, uint64) {
	used := p.UsedInputs()
	sort.Slice(used, func(i, j int) bool {
		a, _ := used[i].Slot.Get()
		b, _ := used[j].Slot.Get()
		return a < b
	})
	var attrs []gputypes.VertexAttribute
	var offset uint64
	for _, in := range used {
		format, ok := in.Type.VertexFormat()
		if !ok {
			continue
		}
		loc, _ := in.Slot.Get()
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         format,
			Offset:         offset,
			ShaderLocation: loc,
		})
		offset += uint64(in.Type.byteSize())
	}
	return attrs, offset
}

func (t AttrType) byteSize() int {
	switch t {
	case AttrFloat, AttrInt, AttrUint:
		return 4
	case AttrFloat2, AttrInt2, AttrUint2:
		return 8
	case AttrFloat3, AttrInt3, AttrUint3:
		return 12
	case AttrFloat4, AttrInt4, AttrUint4:
		return 16
	default:
		return 0
	}
}

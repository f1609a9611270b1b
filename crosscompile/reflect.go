// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package crosscompile

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shdc/refl"
)

// reflect extracts the stage reflection of the snippet's entry point.
// Bind slots are the @binding numbers of the WGSL source; the group is
// ignored.
func (c *compiled) reflect() error {
	c.refl = refl.StageReflection{
		SnippetName: c.snippet.Name,
		EntryPoint:  c.entry.Name,
	}
	if c.entry.Stage == ir.StageVertex {
		c.refl.Inputs = vertexInputs(c.module, &c.module.Functions[c.entry.Function])
	}

	used := usedGlobals(c.module)
	for h := range c.module.GlobalVariables {
		gv := &c.module.GlobalVariables[h]
		if gv.Binding == nil || !used[ir.GlobalVariableHandle(h)] {
			continue
		}
		slot := int(gv.Binding.Binding)
		switch inner := c.module.Types[gv.Type].Inner.(type) {
		case ir.StructType:
			if gv.Space != ir.SpaceUniform {
				continue
			}
			ub, err := uniformBlock(c.module, gv, inner, slot)
			if err != nil {
				return err
			}
			c.refl.Bindings.UniformBlocks = append(c.refl.Bindings.UniformBlocks, ub)
		case ir.ImageType:
			if inner.Class == ir.ImageClassStorage {
				return fmt.Errorf("storage texture '%s' is not supported", gv.Name)
			}
			c.refl.Bindings.Images = append(c.refl.Bindings.Images, refl.Image{
				Slot:         slot,
				Name:         gv.Name,
				Type:         viewDimension(inner),
				SampleType:   sampleType(inner),
				Multisampled: inner.Multisampled,
			})
		case ir.SamplerType:
			typ := gputypes.SamplerBindingTypeFiltering
			if inner.Comparison {
				typ = gputypes.SamplerBindingTypeComparison
			}
			c.refl.Bindings.Samplers = append(c.refl.Bindings.Samplers, refl.Sampler{
				Slot: slot,
				Name: gv.Name,
				Type: typ,
			})
		}
	}
	c.pairs = imageSamplerPairs(c.module)
	return nil
}

// vertexInputs returns the location-bound inputs of a vertex entry point,
// including the members of struct arguments, in declaration order.
func vertexInputs(module *ir.Module, fn *ir.Function) []refl.StageAttr {
	var attrs []refl.StageAttr
	add := func(name string, binding *ir.Binding, typ ir.TypeHandle) {
		if binding == nil {
			return
		}
		loc, ok := (*binding).(ir.LocationBinding)
		if !ok {
			return
		}
		attrs = append(attrs, refl.StageAttr{
			Name: name,
			Slot: refl.SlotAt(loc.Location),
			Type: attrType(module.Types[typ].Inner),
		})
	}
	for _, arg := range fn.Arguments {
		if st, ok := module.Types[arg.Type].Inner.(ir.StructType); ok && arg.Binding == nil {
			for _, m := range st.Members {
				add(m.Name, m.Binding, m.Type)
			}
			continue
		}
		add(arg.Name, arg.Binding, arg.Type)
	}
	return attrs
}

func attrType(inner ir.TypeInner) refl.AttrType {
	switch t := inner.(type) {
	case ir.ScalarType:
		return scalarAttr(t.Kind, 1)
	case ir.VectorType:
		return scalarAttr(t.Scalar.Kind, int(t.Size))
	default:
		return refl.AttrInvalid
	}
}

func scalarAttr(kind ir.ScalarKind, n int) refl.AttrType {
	var base refl.AttrType
	switch kind {
	case ir.ScalarFloat:
		base = refl.AttrFloat
	case ir.ScalarSint:
		base = refl.AttrInt
	case ir.ScalarUint:
		base = refl.AttrUint
	default:
		return refl.AttrInvalid
	}
	return base + refl.AttrType(n-1)
}

// uniformBlock converts a uniform buffer struct. The block is named after
// its struct type, or after the variable if the type is anonymous.
func uniformBlock(module *ir.Module, gv *ir.GlobalVariable, st ir.StructType, slot int) (refl.UniformBlock, error) {
	name := module.Types[gv.Type].Name
	if name == "" {
		name = gv.Name
	}
	ub := refl.UniformBlock{
		Slot:       slot,
		Size:       int(st.Span),
		StructName: name,
		InstName:   gv.Name,
	}
	for _, m := range st.Members {
		typ, count, ok := uniformType(module, m.Type)
		if !ok {
			return refl.UniformBlock{}, fmt.Errorf("uniform block '%s': member '%s' has an unsupported type", name, m.Name)
		}
		ub.Uniforms = append(ub.Uniforms, refl.Uniform{
			Name:       m.Name,
			Type:       typ,
			ArrayCount: count,
			Offset:     int(m.Offset),
		})
	}
	return ub, nil
}

// uniformType maps a member type to a uniform type and array count. Only
// 32-bit float and integer scalars and vectors, mat4x4<f32> and fixed-size
// arrays of those are supported.
func uniformType(module *ir.Module, h ir.TypeHandle) (refl.UniformType, int, bool) {
	switch t := module.Types[h].Inner.(type) {
	case ir.ScalarType:
		typ, ok := scalarUniform(t, 1)
		return typ, 1, ok
	case ir.VectorType:
		typ, ok := scalarUniform(t.Scalar, int(t.Size))
		return typ, 1, ok
	case ir.MatrixType:
		if t.Columns == ir.Vec4 && t.Rows == ir.Vec4 && t.Scalar.Kind == ir.ScalarFloat {
			return refl.UniformMat4, 1, true
		}
	case ir.ArrayType:
		if t.Size.Constant == nil {
			return refl.UniformInvalid, 0, false
		}
		if _, isArray := module.Types[t.Base].Inner.(ir.ArrayType); isArray {
			return refl.UniformInvalid, 0, false
		}
		typ, _, ok := uniformType(module, t.Base)
		return typ, int(*t.Size.Constant), ok
	}
	return refl.UniformInvalid, 0, false
}

func scalarUniform(s ir.ScalarType, n int) (refl.UniformType, bool) {
	if s.Width != 4 {
		return refl.UniformInvalid, false
	}
	switch s.Kind {
	case ir.ScalarFloat:
		return refl.UniformFloat + refl.UniformType(n-1), true
	case ir.ScalarSint, ir.ScalarUint:
		return refl.UniformInt + refl.UniformType(n-1), true
	default:
		return refl.UniformInvalid, false
	}
}

func viewDimension(img ir.ImageType) gputypes.TextureViewDimension {
	switch img.Dim {
	case ir.Dim1D:
		return gputypes.TextureViewDimension1D
	case ir.Dim3D:
		return gputypes.TextureViewDimension3D
	case ir.DimCube:
		return gputypes.TextureViewDimensionCube
	default:
		if img.Arrayed {
			return gputypes.TextureViewDimension2DArray
		}
		return gputypes.TextureViewDimension2D
	}
}

// sampleType returns the sample type of a sampled image. The IR does not
// record the scalar kind of sampled textures, so they are reported as
// float.
func sampleType(img ir.ImageType) gputypes.TextureSampleType {
	if img.Class == ir.ImageClassDepth {
		return gputypes.TextureSampleTypeDepth
	}
	return gputypes.TextureSampleTypeFloat
}

// usedGlobals returns the global variables referenced by any function of
// the module.
func usedGlobals(module *ir.Module) map[ir.GlobalVariableHandle]bool {
	used := make(map[ir.GlobalVariableHandle]bool)
	for i := range module.Functions {
		for _, expr := range module.Functions[i].Expressions {
			if gv, ok := expr.Kind.(ir.ExprGlobalVariable); ok {
				used[gv.Variable] = true
			}
		}
	}
	return used
}

// imageSamplerPairs returns the image and sampler combinations used by
// texture sampling expressions, in first-use order.
func imageSamplerPairs(module *ir.Module) []refl.ImageSampler {
	var pairs []refl.ImageSampler
	seen := make(map[string]bool)
	for i := range module.Functions {
		fn := &module.Functions[i]
		for _, expr := range fn.Expressions {
			sample, ok := expr.Kind.(ir.ExprImageSample)
			if !ok {
				continue
			}
			img, ok1 := globalOf(fn, sample.Image)
			smp, ok2 := globalOf(fn, sample.Sampler)
			if !ok1 || !ok2 {
				continue
			}
			imgName := module.GlobalVariables[img].Name
			smpName := module.GlobalVariables[smp].Name
			name := refl.ImageSamplerName(imgName, smpName)
			if seen[name] {
				continue
			}
			seen[name] = true
			pairs = append(pairs, refl.ImageSampler{Name: name, ImageName: imgName, SamplerName: smpName})
		}
	}
	return pairs
}

// globalOf resolves an expression to the global variable it reads, looking
// through loads.
func globalOf(fn *ir.Function, h ir.ExpressionHandle) (ir.GlobalVariableHandle, bool) {
	for range 4 {
		if int(h) >= len(fn.Expressions) {
			return 0, false
		}
		switch e := fn.Expressions[h].Kind.(type) {
		case ir.ExprGlobalVariable:
			return e.Variable, true
		case ir.ExprLoad:
			h = e.Pointer
		default:
			return 0, false
		}
	}
	return 0, false
}

// assignImageSamplerSlots numbers image-sampler pairs across all shaders in
// first-seen order, so a pair shared by several shaders keeps one slot, and
// stores them in the stage reflections.
func assignImageSamplerSlots(shaders []*compiled) {
	slots := make(map[string]int)
	for _, c := range shaders {
		for _, pair := range c.pairs {
			slot, ok := slots[pair.Name]
			if !ok {
				slot = len(slots)
				slots[pair.Name] = slot
			}
			pair.Slot = slot
			c.refl.Bindings.ImageSamplers = append(c.refl.Bindings.ImageSamplers, pair)
		}
	}
}

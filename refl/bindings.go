// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package refl

import "fmt"

// Bindings holds the resource bindings of a stage, a program or a whole
// reflection model. Each entry carries a slot resolved upstream; slots are
// unique per binding kind.
type Bindings struct {
	UniformBlocks []UniformBlock
	Images        []Image
	Samplers      []Sampler
	ImageSamplers []ImageSampler
}

// Empty reports whether there are no bindings at all.
func (b *Bindings) Empty() bool {
	return len(b.UniformBlocks) == 0 && len(b.Images) == 0 &&
		len(b.Samplers) == 0 && len(b.ImageSamplers) == 0
}

// FindUniformBlockBySlot returns the uniform block bound at slot.
func (b *Bindings) FindUniformBlockBySlot(slot int) *UniformBlock {
	for i := range b.UniformBlocks {
		if b.UniformBlocks[i].Slot == slot {
			return &b.UniformBlocks[i]
		}
	}
	return nil
}

// FindUniformBlockByName returns the uniform block with the given struct
// name.
func (b *Bindings) FindUniformBlockByName(structName string) *UniformBlock {
	for i := range b.UniformBlocks {
		if b.UniformBlocks[i].StructName == structName {
			return &b.UniformBlocks[i]
		}
	}
	return nil
}

// FindImageByName returns the image with the given name.
func (b *Bindings) FindImageByName(name string) *Image {
	for i := range b.Images {
		if b.Images[i].Name == name {
			return &b.Images[i]
		}
	}
	return nil
}

// FindSamplerByName returns the sampler with the given name.
func (b *Bindings) FindSamplerByName(name string) *Sampler {
	for i := range b.Samplers {
		if b.Samplers[i].Name == name {
			return &b.Samplers[i]
		}
	}
	return nil
}

// FindImageSamplerByName returns the image-sampler pair with the given name.
func (b *Bindings) FindImageSamplerByName(name string) *ImageSampler {
	for i := range b.ImageSamplers {
		if b.ImageSamplers[i].Name == name {
			return &b.ImageSamplers[i]
		}
	}
	return nil
}

// Merge returns the union of the given binding sets. Bindings are matched by
// name; a binding declared twice must be identical (same slot and type),
// otherwise Merge fails. Order is first-seen order.
func Merge(sets ...Bindings) (Bindings, error) {
	var out Bindings
	for _, set := range sets {
		for _, ub := range set.UniformBlocks {
			if other := out.FindUniformBlockByName(ub.StructName); other != nil {
				if !other.Equal(&ub) {
					return Bindings{}, fmt.Errorf("conflicting uniform block definitions found for '%s'", ub.StructName)
				}
				continue
			}
			if other := out.FindUniformBlockBySlot(ub.Slot); other != nil {
				return Bindings{}, fmt.Errorf("uniform blocks '%s' and '%s' share bind slot %d", other.StructName, ub.StructName, ub.Slot)
			}
			out.UniformBlocks = append(out.UniformBlocks, ub)
		}
		for _, img := range set.Images {
			if other := out.FindImageByName(img.Name); other != nil {
				if *other != img {
					return Bindings{}, fmt.Errorf("conflicting texture definitions found for '%s'", img.Name)
				}
				continue
			}
			for _, other := range out.Images {
				if other.Slot == img.Slot {
					return Bindings{}, fmt.Errorf("textures '%s' and '%s' share bind slot %d", other.Name, img.Name, img.Slot)
				}
			}
			out.Images = append(out.Images, img)
		}
		for _, smp := range set.Samplers {
			if other := out.FindSamplerByName(smp.Name); other != nil {
				if *other != smp {
					return Bindings{}, fmt.Errorf("conflicting sampler definitions found for '%s'", smp.Name)
				}
				continue
			}
			for _, other := range out.Samplers {
				if other.Slot == smp.Slot {
					return Bindings{}, fmt.Errorf("samplers '%s' and '%s' share bind slot %d", other.Name, smp.Name, smp.Slot)
				}
			}
			out.Samplers = append(out.Samplers, smp)
		}
		for _, is := range set.ImageSamplers {
			if other := out.FindImageSamplerByName(is.Name); other != nil {
				if other.ImageName != is.ImageName || other.SamplerName != is.SamplerName {
					return Bindings{}, fmt.Errorf("conflicting image-sampler definitions found for '%s'", is.Name)
				}
				continue
			}
			for _, other := range out.ImageSamplers {
				if other.Slot == is.Slot {
					return Bindings{}, fmt.Errorf("image-samplers '%s' and '%s' share bind slot %d", other.Name, is.Name, is.Slot)
				}
			}
			out.ImageSamplers = append(out.ImageSamplers, is)
		}
	}
	return out, nil
}

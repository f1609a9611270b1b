// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package refl defines the reflection model shdc generates code from:
// programs, their vertex and fragment stages, vertex attributes and resource
// bindings with pre-resolved bind slots.
//
// The model is produced once per input file and treated as read-only by the
// generators.
package refl

import (
	"fmt"
	"strconv"
)

// Stage identifies a programmable pipeline stage.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

// String returns "vertex" or "fragment".
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

// AttrSlot is the vertex input location of an attribute. The zero value is an
// unused slot: the attribute is declared but not consumed by the compiled
// shader and must not appear in generated constants.
type AttrSlot struct {
	location uint32
	used     bool
}

// NoSlot is the slot of an unused attribute.
var NoSlot = AttrSlot{}

// SlotAt returns a used slot at the given location.
func SlotAt(location uint32) AttrSlot {
	return AttrSlot{location: location, used: true}
}

// Get returns the location and whether the slot is used.
func (s AttrSlot) Get() (uint32, bool) {
	return s.location, s.used
}

// Used reports whether the attribute is consumed by the shader.
func (s AttrSlot) Used() bool {
	return s.used
}

// String returns the location or "unused".
func (s AttrSlot) String() string {
	if !s.used {
		return "unused"
	}
	return strconv.FormatUint(uint64(s.location), 10)
}

// StageAttr is a vertex input attribute.
type StageAttr struct {
	Name string
	Slot AttrSlot
	Type AttrType
}

// StageReflection is the reflection of one compiled shader stage.
type StageReflection struct {
	Stage       Stage
	SnippetName string
	EntryPoint  string
	Inputs      []StageAttr
	Bindings    Bindings
}

// ProgramReflection is the read-only view of a program after cross
// compilation.
type ProgramReflection struct {
	Name string
	VS   StageReflection
	FS   StageReflection

	// Bindings is the union of the vertex and fragment stage bindings.
	Bindings Bindings
}

// VSName returns the vertex shader snippet name.
func (p *ProgramReflection) VSName() string {
	return p.VS.SnippetName
}

// FSName returns the fragment shader snippet name.
func (p *ProgramReflection) FSName() string {
	return p.FS.SnippetName
}

// Stage returns the reflection of the given stage.
func (p *ProgramReflection) Stage(s Stage) *StageReflection {
	if s == StageFragment {
		return &p.FS
	}
	return &p.VS
}

// UsedInputs returns the vertex inputs with a used slot, in declaration order.
func (p *ProgramReflection) UsedInputs() []StageAttr {
	var attrs []StageAttr
	for _, attr := range p.VS.Inputs {
		if attr.Slot.Used() {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// UniformBlockStage returns the stage that declares the named uniform
// block. A block used by both stages belongs to the vertex stage.
func (p *ProgramReflection) UniformBlockStage(structName string) Stage {
	if p.VS.Bindings.FindUniformBlockByName(structName) != nil {
		return StageVertex
	}
	return StageFragment
}

// ImageStage returns the stage that declares the named image.
func (p *ProgramReflection) ImageStage(name string) Stage {
	if p.VS.Bindings.FindImageByName(name) != nil {
		return StageVertex
	}
	return StageFragment
}

// SamplerStage returns the stage that declares the named sampler.
func (p *ProgramReflection) SamplerStage(name string) Stage {
	if p.VS.Bindings.FindSamplerByName(name) != nil {
		return StageVertex
	}
	return StageFragment
}

// ImageSamplerStage returns the stage that declares the named image-sampler
// pair.
func (p *ProgramReflection) ImageSamplerStage(name string) Stage {
	if p.VS.Bindings.FindImageSamplerByName(name) != nil {
		return StageVertex
	}
	return StageFragment
}

// Reflection is the complete reflection model of one input file.
type Reflection struct {
	Progs []ProgramReflection

	// Bindings is the global, de-duplicated binding set across all
	// programs. Bindings shared by several programs appear once.
	Bindings Bindings
}

// NewProgram builds a program reflection from its two stages and merges
// their bindings.
func NewProgram(name string, vs, fs StageReflection) (ProgramReflection, error) {
	vs.Stage = StageVertex
	fs.Stage = StageFragment
	merged, err := Merge(vs.Bindings, fs.Bindings)
	if err != nil {
		return ProgramReflection{}, fmt.Errorf("program '%s': %w", name, err)
	}
	return ProgramReflection{
		Name:     name,
		VS:       vs,
		FS:       fs,
		Bindings: merged,
	}, nil
}

// New builds the reflection model from the given programs and computes the
// global binding set.
func New(progs []ProgramReflection) (*Reflection, error) {
	sets := make([]Bindings, len(progs))
	for i := range progs {
		sets[i] = progs[i].Bindings
	}
	global, err := Merge(sets...)
	if err != nil {
		return nil, err
	}
	return &Reflection{
		Progs:    progs,
		Bindings: global,
	}, nil
}

// Program returns the program with the given name.
func (r *Reflection) Program(name string) (*ProgramReflection, bool) {
	for i := range r.Progs {
		if r.Progs[i].Name == name {
			return &r.Progs[i], true
		}
	}
	return nil, false
}

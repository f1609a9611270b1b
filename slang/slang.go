// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package slang enumerates the shading languages shdc can embed in its
// generated output.
package slang

import (
	"fmt"
	"strings"
)

// Slang is one compilation target: a GLSL dialect, an HLSL feature level, a
// Metal platform variant, WGSL or Vulkan SPIR-V.
type Slang uint8

// Supported target languages. The order defines the index used for array
// lookups and the bit used in a Mask.
const (
	GLSL410 Slang = iota
	GLSL430
	GLSL300ES
	HLSL4
	HLSL5
	MetalMacOS
	MetalIOS
	MetalSim
	WGSL
	SPIRVVK
)

// Num is the number of target languages.
const Num = int(SPIRVVK) + 1

var names = [Num]string{
	GLSL410:    "glsl410",
	GLSL430:    "glsl430",
	GLSL300ES:  "glsl300es",
	HLSL4:      "hlsl4",
	HLSL5:      "hlsl5",
	MetalMacOS: "metal_macos",
	MetalIOS:   "metal_ios",
	MetalSim:   "metal_sim",
	WGSL:       "wgsl",
	SPIRVVK:    "spirv_vk",
}

// FromIndex returns the target language with the given index.
// It panics if i is out of range.
func FromIndex(i int) Slang {
	if i < 0 || i >= Num {
		panic(fmt.Sprintf("slang: index %d out of range", i))
	}
	return Slang(i)
}

// All returns every target language in index order.
func All() []Slang {
	all := make([]Slang, Num)
	for i := range all {
		all[i] = Slang(i)
	}
	return all
}

// Index returns the stable array index of s.
func (s Slang) Index() int {
	return int(s)
}

// Bit returns the selection bit of s.
func (s Slang) Bit() Mask {
	return Mask(1) << s
}

// String returns the command line name, e.g. "glsl430" or "metal_macos".
func (s Slang) String() string {
	if int(s) < Num {
		return names[s]
	}
	return fmt.Sprintf("slang(%d)", uint8(s))
}

// IsGLSL returns true for the GLSL dialects.
func (s Slang) IsGLSL() bool {
	return s == GLSL410 || s == GLSL430 || s == GLSL300ES
}

// IsHLSL returns true for the HLSL feature levels.
func (s Slang) IsHLSL() bool {
	return s == HLSL4 || s == HLSL5
}

// IsMSL returns true for the Metal variants.
func (s Slang) IsMSL() bool {
	return s == MetalMacOS || s == MetalIOS || s == MetalSim
}

// IsWGSL returns true for WGSL.
func (s Slang) IsWGSL() bool {
	return s == WGSL
}

// IsSPIRV returns true for Vulkan SPIR-V.
func (s Slang) IsSPIRV() bool {
	return s == SPIRVVK
}

// FileExtension returns the file extension used for intermediate files.
// Source and precompiled variants differ for HLSL and Metal.
func (s Slang) FileExtension(binary bool) string {
	switch s {
	case GLSL410, GLSL430, GLSL300ES:
		return ".glsl"
	case HLSL4, HLSL5:
		if binary {
			return ".fxc"
		}
		return ".hlsl"
	case MetalMacOS, MetalIOS, MetalSim:
		if binary {
			return ".metallib"
		}
		return ".metal"
	case WGSL:
		return ".wgsl"
	case SPIRVVK:
		if binary {
			return ".spv"
		}
		return ".wgsl"
	default:
		return ""
	}
}

// Parse returns the target language with the given name.
func Parse(name string) (Slang, bool) {
	for i, n := range names {
		if n == name {
			return Slang(i), true
		}
	}
	return 0, false
}

// Mask is a set of target languages.
type Mask uint32

// Has returns true if s is in the set.
func (m Mask) Has(s Slang) bool {
	return m&s.Bit() != 0
}

// List returns the languages in the set in index order.
func (m Mask) List() []Slang {
	var list []Slang
	for i := 0; i < Num; i++ {
		if m.Has(Slang(i)) {
			list = append(list, Slang(i))
		}
	}
	return list
}

// String joins the language names with ':' as accepted by ParseMask.
func (m Mask) String() string {
	list := m.List()
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = s.String()
	}
	return strings.Join(parts, ":")
}

// ParseMask parses a colon separated list such as "glsl430:hlsl5:metal_macos".
func ParseMask(str string) (Mask, error) {
	var m Mask
	for _, part := range strings.Split(str, ":") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s, ok := Parse(part)
		if !ok {
			return 0, fmt.Errorf("unknown shader language %q (valid: %s)", part, Mask(1<<Num-1))
		}
		m |= s.Bit()
	}
	if m == 0 {
		return 0, fmt.Errorf("no shader language selected")
	}
	return m, nil
}

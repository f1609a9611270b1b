// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gen

import (
	"github.com/gogpu/shdc/errmsg"
	"github.com/gogpu/shdc/refl"
)

// CheckErrors verifies that every program has generated source for both of
// its stages in every selected target language. It returns the first problem
// found as a validation error.
//
// The error is located at the vertex shader's tag line even when the fragment
// shader is the one missing.
func CheckErrors(in *Input) error {
	inp := in.Inp
	for _, s := range in.Args.Slang.List() {
		target := in.Target(s)
		for _, prog := range inp.Programs {
			vsIndex, ok := inp.SnippetMap[prog.VSName]
			if !ok {
				return inp.ErrorKind(errmsg.KindValidation, prog.Line,
					"unknown vertex shader '%s' in program '%s'", prog.VSName, prog.Name)
			}
			fsIndex, ok := inp.SnippetMap[prog.FSName]
			if !ok {
				return inp.ErrorKind(errmsg.KindValidation, prog.Line,
					"unknown fragment shader '%s' in program '%s'", prog.FSName, prog.Name)
			}
			line := inp.Snippets[vsIndex].Line
			if target.FindSource(vsIndex) == nil {
				return inp.ErrorKind(errmsg.KindValidation, line,
					"no generated '%s' source for %s shader '%s' in program '%s'",
					s, refl.StageVertex, prog.VSName, prog.Name)
			}
			if target.FindSource(fsIndex) == nil {
				return inp.ErrorKind(errmsg.KindValidation, line,
					"no generated '%s' source for %s shader '%s' in program '%s'",
					s, refl.StageFragment, prog.FSName, prog.Name)
			}
		}
	}
	return nil
}

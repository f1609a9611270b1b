// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gen

import (
	"strconv"

	"github.com/gogpu/shdc/errmsg"
	"github.com/gogpu/shdc/refl"
	"github.com/gogpu/shdc/slang"
)

// bytesPerLine is the number of array values written per output line.
const bytesPerLine = 16

// StageArrayInfo describes the embedded array of one program stage for one
// target language, as needed by shader descriptor functions.
type StageArrayInfo struct {
	HasBytecode bool

	// BytecodeSize is the bytecode length, valid if HasBytecode is set.
	BytecodeSize int

	// SourceSize is the source length plus the terminating zero.
	SourceSize int

	BytecodeArrayName string
	SourceArrayName   string
}

// StageArrayInfo returns the array info of a program stage. The array that
// is actually embedded is the bytecode array if HasBytecode is set and the
// source array otherwise.
func (g *Gen) StageArrayInfo(prog *refl.ProgramReflection, stage refl.Stage, s slang.Slang) StageArrayInfo {
	b := g.backend
	name := prog.Stage(stage).SnippetName
	target := g.In.Target(s)

	var info StageArrayInfo
	if blob := FindBlobByShaderName(name, g.In.Inp, target); blob != nil {
		info.HasBytecode = true
		info.BytecodeSize = len(blob.Data)
	}
	if src := FindSourceByShaderName(name, g.In.Inp, target); src != nil {
		info.SourceSize = len(src.Code) + 1
	}
	info.BytecodeArrayName = b.ShaderBytecodeArrayName(g, name, s)
	info.SourceArrayName = b.ShaderSourceArrayName(g, name, s)
	return info
}

// shaderArrays embeds every vertex and fragment snippet for every selected
// target language: the source as a comment block, followed by either the
// bytecode or the zero-terminated source as a byte array.
func (g *Gen) shaderArrays() error {
	b := g.backend
	inp := g.In.Inp
	for _, s := range g.In.Args.Slang.List() {
		target := g.In.Target(s)
		arrays := 0
		for i := range inp.Snippets {
			snippet := &inp.Snippets[i]
			if !snippet.IsShader() {
				continue
			}
			src := target.FindSource(snippet.Index)
			if src == nil {
				return inp.ErrorKind(errmsg.KindInternal, snippet.Line,
					"no generated '%s' source for shader '%s'", s, snippet.Name)
			}
			blob := target.FindBlob(snippet.Index)

			g.CommentStart()
			for _, line := range splitLines(src.Code) {
				g.Comment("%s", SanitizeComment(line))
			}
			g.CommentEnd()

			if blob != nil {
				b.ShaderArrayStart(g, b.ShaderBytecodeArrayName(g, snippet.Name, s), len(blob.Data), s)
				g.byteArray(blob.Data, len(blob.Data))
			} else {
				// the source is followed by an implicit zero so that it can
				// be used as a C string
				b.ShaderArrayStart(g, b.ShaderSourceArrayName(g, snippet.Name, s), len(src.Code)+1, s)
				g.byteArray([]byte(src.Code), len(src.Code)+1)
			}
			b.ShaderArrayEnd(g)
			arrays++
		}
		g.log.Debug("shdc: embedded shader arrays", "slang", s.String(), "count", arrays)
	}
	return nil
}

// byteArray writes n values, 16 per line, one indentation level deeper than
// the array declaration. Values past the end of data are zero.
func (g *Gen) byteArray(data []byte, n int) {
	g.PushIndent()
	buf := make([]byte, 0, bytesPerLine*4)
	for i := 0; i < n; i++ {
		var v byte
		if i < len(data) {
			v = data[i]
		}
		buf = strconv.AppendUint(buf, uint64(v), 10)
		buf = append(buf, ',')
		if i%bytesPerLine == bytesPerLine-1 || i == n-1 {
			g.Line("%s", buf)
			buf = buf[:0]
		}
	}
	g.PopIndent()
}

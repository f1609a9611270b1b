// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gen

import (
	"log/slog"

	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/refl"
	"github.com/gogpu/shdc/slang"
)

// Source is the generated source text of one snippet for one target language.
type Source struct {
	SnippetIndex int
	Code         string
}

// Blob is the compiled bytecode of one snippet for one target language.
type Blob struct {
	SnippetIndex int
	Data         []byte
}

// Target holds the compiled artifacts of all snippets for one target
// language. A snippet has at most one Source and at most one Blob; a Blob may
// be missing even when a Source exists.
type Target struct {
	Sources []Source
	Blobs   []Blob
}

// FindSource returns the source of the given snippet, or nil.
func (t *Target) FindSource(snippetIndex int) *Source {
	for i := range t.Sources {
		if t.Sources[i].SnippetIndex == snippetIndex {
			return &t.Sources[i]
		}
	}
	return nil
}

// FindBlob returns the bytecode of the given snippet, or nil.
func (t *Target) FindBlob(snippetIndex int) *Blob {
	for i := range t.Blobs {
		if t.Blobs[i].SnippetIndex == snippetIndex {
			return &t.Blobs[i]
		}
	}
	return nil
}

// Args are the generation options taken from the command line.
type Args struct {
	// Slang selects the target languages to embed.
	Slang slang.Mask

	// Reflection requests the runtime reflection functions.
	Reflection bool

	// Output is the output file path. "-" writes to standard output.
	Output string

	// GenVersion is written into the documentation header.
	GenVersion int

	// Cmdline is the literal command line, written into the header.
	Cmdline string

	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

// Input is everything one Generate call reads. It is not modified.
type Input struct {
	Inp     *input.Input
	Args    Args
	Refl    *refl.Reflection
	Targets [slang.Num]Target
}

// Target returns the artifacts of the given target language.
func (in *Input) Target(s slang.Slang) *Target {
	return &in.Targets[s.Index()]
}

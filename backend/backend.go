// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package backend is the registry of output formats.
package backend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/shdc/backend/golang"
	"github.com/gogpu/shdc/backend/sokolc"
	"github.com/gogpu/shdc/gen"
)

type format struct {
	ext string
	new func() gen.Backend
}

var formats = map[string]format{
	"sokol":      {ext: ".h", new: func() gen.Backend { return sokolc.New() }},
	"sokol_impl": {ext: ".h", new: func() gen.Backend { return sokolc.NewImpl() }},
	"go":         {ext: ".go", new: func() gen.Backend { return golang.New() }},
}

// Lookup returns a new backend for the named output format.
func Lookup(name string) (gen.Backend, error) {
	f, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format '%s' (valid: %s)", name, strings.Join(Names(), ", "))
	}
	return f.new(), nil
}

// Names returns the known output formats, sorted.
func Names() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extension returns the file extension of the named output format, or "".
func Extension(name string) string {
	return formats[name].ext
}

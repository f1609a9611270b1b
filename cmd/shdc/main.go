// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command shdc generates source files that embed cross-compiled shaders.
//
// Usage:
//
//	shdc -i <input.wgsl> -o <output> -l <langs> [options]
//
// Examples:
//
//	shdc -i shd.wgsl -o shd.h -l glsl430:hlsl5:metal_macos
//	shdc -i shd.wgsl -o shd.h -l wgsl:spirv_vk -f sokol,go -reflection
//	shdc -i shd.wgsl -o shd.go -l glsl430 -f go -m sprite
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/gogpu/shdc"
	"github.com/gogpu/shdc/backend"
	"github.com/gogpu/shdc/errmsg"
	"github.com/gogpu/shdc/slang"
)

// exitFailure is the exit code of any failed run.
const exitFailure = 10

const (
	defaultColor = "\x1b[0m"
	errorColor   = "\x1b[31m"
)

// options holds the raw command line flags.
type options struct {
	input            string
	output           string
	langs            string
	formats          string
	module           string
	errfmt           string
	reflection       bool
	verbose          bool
	version          bool
	saveIntermediate bool
}

func newFlagSet(opts *options, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("shdc", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.input, "i", "", "input annotated WGSL file")
	fs.StringVar(&opts.output, "o", "", "output file ('-' for stdout)")
	fs.StringVar(&opts.langs, "l", "", "target languages, colon separated ("+slang.Mask(1<<slang.Num-1).String()+")")
	fs.StringVar(&opts.formats, "f", "sokol", "output formats, comma separated ("+strings.Join(backend.Names(), ", ")+")")
	fs.StringVar(&opts.module, "m", "", "override the @module name")
	fs.StringVar(&opts.errfmt, "errfmt", "gcc", "error message format (gcc, msvc)")
	fs.BoolVar(&opts.reflection, "reflection", false, "generate runtime reflection functions")
	fs.BoolVar(&opts.verbose, "v", false, "verbose output")
	fs.BoolVar(&opts.version, "version", false, "print version")
	fs.BoolVar(&opts.saveIntermediate, "save-intermediate", false, "save generated target sources next to the output")
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: shdc -i <input.wgsl> -o <output> -l <langs> [options]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  shdc -i shd.wgsl -o shd.h -l glsl430:hlsl5:metal_macos\n")
		fmt.Fprintf(out, "  shdc -i shd.wgsl -o shd.h -l wgsl:spirv_vk -f sokol,go -reflection\n")
	}
	return fs
}

// validate checks the flags and converts them into pipeline options.
func (o *options) validate(cmdline string) (shdc.Options, error) {
	if o.input == "" {
		return shdc.Options{}, errors.New("no input file specified (-i)")
	}
	if o.output == "" {
		return shdc.Options{}, errors.New("no output file specified (-o)")
	}
	if o.langs == "" {
		return shdc.Options{}, errors.New("no target languages specified (-l)")
	}
	mask, err := slang.ParseMask(o.langs)
	if err != nil {
		return shdc.Options{}, err
	}
	var formats []string
	for _, f := range strings.Split(o.formats, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, err := backend.Lookup(f); err != nil {
			return shdc.Options{}, err
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return shdc.Options{}, errors.New("no output format specified (-f)")
	}
	if _, err := errmsg.ParseStyle(o.errfmt); err != nil {
		return shdc.Options{}, err
	}
	return shdc.Options{
		Input:            o.input,
		Output:           o.output,
		Slang:            mask,
		Formats:          formats,
		Module:           o.module,
		Reflection:       o.reflection,
		SaveIntermediate: o.saveIntermediate,
		Cmdline:          cmdline,
	}, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, term.IsTerminal(int(os.Stderr.Fd()))))
}

// run executes shdc and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, color bool) int {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitFailure
	}
	if opts.version {
		fmt.Fprintf(stdout, "shdc version %s\n", shdc.Version)
		return 0
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	shdc.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer shdc.SetLogger(nil)

	cfg, err := opts.validate("shdc " + strings.Join(args, " "))
	if err != nil {
		report(stderr, color, errmsg.StyleGCC, err)
		fs.Usage()
		return exitFailure
	}
	style, _ := errmsg.ParseStyle(opts.errfmt)
	if err := shdc.Run(cfg); err != nil {
		report(stderr, color, style, err)
		return exitFailure
	}
	return 0
}

// report prints a diagnostic, in red when stderr is a terminal.
func report(w io.Writer, color bool, style errmsg.Style, err error) {
	msg := err.Error()
	var e *errmsg.Error
	if errors.As(err, &e) {
		msg = e.Render(style)
	} else {
		msg = "error: " + msg
	}
	if color {
		msg = errorColor + msg + defaultColor
	}
	fmt.Fprintln(w, msg)
}

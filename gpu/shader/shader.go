// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shader compiles WGSL shader source to SPIR-V with naga,
// reporting source errors as [gpu.CompileError] values with
// line context suitable for display.
package shader

import (
	"fmt"
	"strings"

	"cogentcore.org/lightfield/base/errors"
	"cogentcore.org/lightfield/gpu"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/naga/wgsl"
)

// Options configures compilation.
type Options struct {
	// Validate runs the naga IR validator before generating code.
	Validate bool

	// SPIRVVersion is the target SPIR-V version.
	SPIRVVersion spirv.Version
}

// DefaultOptions returns options with validation on and SPIR-V 1.3.
func DefaultOptions() Options {
	return Options{Validate: true, SPIRVVersion: spirv.Version1_3}
}

// Module is one compiled shader stage.
type Module struct {
	// Stage the module was compiled for
	Stage gpu.Stage

	// Source is the WGSL text that was compiled.
	Source string

	// SPIRV is the generated binary.
	SPIRV []byte

	// EntryPoints are the names of the entry points for Stage.
	EntryPoints []string
}

// EntryPoint returns the first entry point of the module, or "" if none.
func (m *Module) EntryPoint() string {
	if len(m.EntryPoints) == 0 {
		return ""
	}
	return m.EntryPoints[0]
}

// Compile compiles the WGSL source of one stage. Vertex and fragment
// sources must declare at least one entry point of their stage.
// Geometry source is compiled as an auxiliary module with no required
// entry point, since WGSL has no geometry stage. Any failure is
// returned as a *[gpu.CompileError].
func Compile(label string, stage gpu.Stage, src string, opts Options) (*Module, error) {
	cerr := func(err error, diag string) error {
		return &gpu.CompileError{Label: label, Stage: stage, Diagnostics: diag, Err: err}
	}
	if strings.TrimSpace(src) == "" {
		err := errors.New("empty source")
		return nil, cerr(err, "")
	}
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, cerr(err, Diagnostics(err, src))
	}
	mod, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, cerr(err, Diagnostics(err, src))
	}
	if opts.Validate {
		verrs, err := naga.Validate(mod)
		if err != nil {
			return nil, cerr(err, "")
		}
		if len(verrs) > 0 {
			var msgs []string
			for _, ve := range verrs {
				msgs = append(msgs, "error: "+ve.Error())
			}
			return nil, cerr(verrs[0], strings.Join(msgs, "\n"))
		}
	}
	m := &Module{Stage: stage, Source: src}
	if want, ok := irStage(stage); ok {
		for _, ep := range mod.EntryPoints {
			if ep.Stage == want {
				m.EntryPoints = append(m.EntryPoints, ep.Name)
			}
		}
		if len(m.EntryPoints) == 0 {
			err := fmt.Errorf("no @%s entry point", stage)
			return nil, cerr(err, "")
		}
	}
	version := opts.SPIRVVersion
	if version == (spirv.Version{}) {
		version = spirv.Version1_3
	}
	m.SPIRV, err = naga.GenerateSPIRV(mod, spirv.Options{Version: version})
	if err != nil {
		return nil, cerr(err, "")
	}
	return m, nil
}

// CompileProgram compiles every stage of the program source that has
// source text, stopping at the first failure.
func CompileProgram(src gpu.ProgramSource, opts Options) ([]*Module, error) {
	var mods []*Module
	for _, st := range src.Stages() {
		m, err := Compile(src.Label, st, src.Source(st), opts)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, nil
}

func irStage(st gpu.Stage) (ir.ShaderStage, bool) {
	switch st {
	case gpu.VertexShader:
		return ir.StageVertex, true
	case gpu.FragmentShader:
		return ir.StageFragment, true
	}
	return 0, false
}

// Diagnostics returns the human-readable form of a naga error,
// with the offending source line where the error carries a location.
func Diagnostics(err error, src string) string {
	var serrs *wgsl.SourceErrors
	if errors.As(err, &serrs) && serrs.HasErrors() {
		return serrs.FormatAll()
	}
	var serr *wgsl.SourceError
	if errors.As(err, &serr) {
		return serr.FormatWithContext()
	}
	var perr wgsl.ParseError
	if errors.As(err, &perr) {
		return lineContext(perr.Message, perr.Token.Line, perr.Token.Column, src)
	}
	return "error: " + err.Error()
}

// lineContext formats msg with the given 1-based source line and a caret
// under the column.
func lineContext(msg string, line, col int, src string) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return "error: " + msg
	}
	ln := lines[line-1]
	col = min(max(col, 1), len(ln)+1)
	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", msg)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", line, col)
	fmt.Fprintf(&sb, "%3d| %s\n", line, ln)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))
	return sb.String()
}

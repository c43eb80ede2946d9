// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"strings"
)

// Stage is a shader stage of a [ProgramSource].
type Stage int32

const (
	// VertexShader is the vertex stage; required.
	VertexShader Stage = iota

	// FragmentShader is the fragment stage; required.
	FragmentShader

	// GeometryShader is an optional auxiliary stage source.
	GeometryShader
)

func (s Stage) String() string {
	switch s {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	case GeometryShader:
		return "geometry"
	}
	return fmt.Sprintf("Stage(%d)", int32(s))
}

// ProgramSource is the full source text of a shader program,
// one string per stage. Geometry may be empty.
type ProgramSource struct {
	// Label identifies the program in logs and errors.
	Label string

	Vertex   string
	Fragment string
	Geometry string
}

// Source returns the source text for the given stage.
func (ps *ProgramSource) Source(st Stage) string {
	switch st {
	case VertexShader:
		return ps.Vertex
	case FragmentShader:
		return ps.Fragment
	case GeometryShader:
		return ps.Geometry
	}
	return ""
}

// Stages returns the stages that have source, in pipeline order.
func (ps *ProgramSource) Stages() []Stage {
	sts := []Stage{VertexShader, FragmentShader}
	if strings.TrimSpace(ps.Geometry) != "" {
		sts = append(sts, GeometryShader)
	}
	return sts
}

// CompileError is returned when shader source fails to compile or link.
// It is recoverable: the caller keeps running and shows the diagnostics.
type CompileError struct {
	// Label of the program
	Label string

	// Stage that failed
	Stage Stage

	// Diagnostics is the human-readable compiler output,
	// with source context where available.
	Diagnostics string

	// Err is the underlying compiler error.
	Err error
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("gpu: compiling %s shader of program %q", e.Stage, e.Label)
	if e.Diagnostics != "" {
		return msg + ":\n" + e.Diagnostics
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *CompileError) Unwrap() error { return e.Err }

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reload

import (
	"os"
	"time"

	"cogentcore.org/lightfield/base/fsx"
	"cogentcore.org/lightfield/gpu"
)

// State is the outcome of one compilation: either a usable Program
// or the compile error, never both. A State is replaced as a whole
// on every recompilation and never modified afterwards.
type State struct {
	// Program is the compiled program, nil on error.
	Program gpu.Program

	// Err is the compile error, nil on success.
	Err *gpu.CompileError

	// Generation counts compilations, starting at 1.
	Generation int

	// Time of the compilation
	Time time.Time
}

// OK returns true if the state holds a usable program.
func (st *State) OK() bool {
	return st.Err == nil && st.Program != nil
}

// Sources are the shader files of a program. Stage paths that are
// relative are resolved against Dir. Geometry is optional.
type Sources struct {
	// Label of the program
	Label string

	// Dir is the shader directory, watched as a whole when set.
	Dir string

	Vertex   string
	Fragment string
	Geometry string
}

// Path returns the resolved path of the given stage, or "" if the
// stage has no file.
func (s *Sources) Path(st gpu.Stage) (string, error) {
	var p string
	switch st {
	case gpu.VertexShader:
		p = s.Vertex
	case gpu.FragmentShader:
		p = s.Fragment
	case gpu.GeometryShader:
		p = s.Geometry
	}
	return fsx.ResolvePath(s.Dir, p)
}

// Files returns the resolved paths of all stage files, in stage order.
func (s *Sources) Files() ([]string, error) {
	var files []string
	for _, st := range []gpu.Stage{gpu.VertexShader, gpu.FragmentShader, gpu.GeometryShader} {
		p, err := s.Path(st)
		if err != nil {
			return nil, err
		}
		if p != "" {
			files = append(files, p)
		}
	}
	return files, nil
}

// Read reads the full text of every stage file.
func (s *Sources) Read() (gpu.ProgramSource, error) {
	ps, _, err := s.read()
	return ps, err
}

// read is [Sources.Read], also returning the stage that failed.
func (s *Sources) read() (gpu.ProgramSource, gpu.Stage, error) {
	ps := gpu.ProgramSource{Label: s.Label}
	for _, st := range []gpu.Stage{gpu.VertexShader, gpu.FragmentShader, gpu.GeometryShader} {
		p, err := s.Path(st)
		if err != nil {
			return ps, st, err
		}
		if p == "" {
			if st == gpu.GeometryShader {
				continue
			}
			return ps, st, &os.PathError{Op: "read", Path: st.String() + " shader", Err: os.ErrInvalid}
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return ps, st, err
		}
		switch st {
		case gpu.VertexShader:
			ps.Vertex = string(b)
		case gpu.FragmentShader:
			ps.Fragment = string(b)
		case gpu.GeometryShader:
			ps.Geometry = string(b)
		}
	}
	return ps, 0, nil
}

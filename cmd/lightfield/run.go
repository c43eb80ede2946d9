// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"cogentcore.org/lightfield/base/errors"
	"cogentcore.org/lightfield/base/fsx"
	"cogentcore.org/lightfield/config"
	"cogentcore.org/lightfield/gpu"
	"cogentcore.org/lightfield/gpu/shader"
	"cogentcore.org/lightfield/gpu/soft"
	"cogentcore.org/lightfield/lightfield"
	"cogentcore.org/lightfield/reload"
)

// openDevice returns the GPU device with the given config name.
func openDevice(name string) (gpu.Device, error) {
	switch name {
	case config.SoftDevice:
		return soft.NewDevice(), nil
	case config.WebGPUDevice:
		return openWebGPU()
	}
	return nil, fmt.Errorf("unknown device %q", name)
}

// load reads the lightfield from the archive of c, which is
// a directory or a zip file.
func load(ctx context.Context, c *config.Config) (*lightfield.Lightfield, error) {
	ld := c.Loader()
	if fsx.IsDir(c.Archive) {
		return ld.Load(ctx, lightfield.NewDirArchive(c.Archive))
	}
	za, err := lightfield.OpenZip(c.Archive)
	if err != nil {
		return nil, err
	}
	defer za.Close()
	return ld.Load(ctx, za)
}

// run loads and uploads the lightfield, then runs the frame loop until
// ctx is done or the configured number of frames has been run.
func run(ctx context.Context, c *config.Config) error {
	dev, err := openDevice(c.Device)
	if err != nil {
		return err
	}
	defer dev.Release()

	lf, err := load(ctx, c)
	if err != nil {
		return err
	}
	la, err := lightfield.Upload(dev, lf, c.UploadOptions())
	if err != nil {
		return err
	}
	defer la.Release()

	if c.Upload.Dump != "" {
		files, err := lightfield.DumpLayers(la, c.Upload.Dump)
		if err != nil {
			return err
		}
		slog.Info("dumped layers", "dir", c.Upload.Dump, "files", len(files))
	}

	pr, err := reload.Open(dev, c.Sources(), c.ReloadOptions())
	if err != nil {
		return err
	}
	defer pr.Close()
	return frameLoop(ctx, pr, c.FrameInterval(), c.Run.Frames)
}

// frameLoop polls the program once per frame, reporting every change of
// state. With no frame limit, frames stop while the program is in an error
// state and resume once its sources change.
func frameLoop(ctx context.Context, pr *reload.Program, interval time.Duration, frames int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var last *reload.State
	for n := 0; frames == 0 || n < frames; n++ {
		st := pr.Poll()
		if st != last {
			report(st)
			last = st
		}
		if !st.OK() && frames == 0 {
			err := pr.WaitForChange(ctx)
			if errors.Is(err, reload.ErrClosed) {
				return st.Err
			}
			if err != nil {
				return nil
			}
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// reportOut is where program state changes are reported.
var reportOut io.Writer = os.Stderr

// report writes a new program state to reportOut.
func report(st *reload.State) {
	if st.OK() {
		fmt.Fprintf(reportOut, "program %q ready (generation %d)\n", st.Program.Label(), st.Generation)
		return
	}
	fmt.Fprintf(reportOut, "program %q failed in the %s shader (generation %d)\n%s\n", st.Err.Label, st.Err.Stage, st.Generation, st.Err.Diagnostics)
}

// check compiles the shader program of c once, writing the
// diagnostics of a failed compile to w.
func check(w io.Writer, c *config.Config) error {
	src := c.Sources()
	ps, err := src.Read()
	if err != nil {
		return err
	}
	mods, err := shader.CompileProgram(ps, shader.DefaultOptions())
	if err != nil {
		var ce *gpu.CompileError
		if errors.As(err, &ce) {
			fmt.Fprintln(w, ce.Diagnostics)
		}
		return err
	}
	for _, m := range mods {
		fmt.Fprintf(w, "%s: %s %d bytes of SPIR-V\n", m.Stage, m.EntryPoint(), len(m.SPIRV))
	}
	return nil
}

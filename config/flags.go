// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"strings"
	"time"

	"cogentcore.org/lightfield/base/errors"
	"cogentcore.org/lightfield/base/fsx"
	"cogentcore.org/lightfield/base/logx"
	"cogentcore.org/lightfield/base/reflectx"
	"cogentcore.org/lightfield/gpu"
	"github.com/spf13/pflag"
)

// Flags are the command line flags that override config values.
// Only flags that were set on the command line are applied.
type Flags struct {
	Config    string
	Tag       string
	Layout    string
	Mipmaps   bool
	MaxLayers int
	Device    string
	Shaders   string
	Vertex    string
	Fragment  string
	Geometry  string
	Debounce  time.Duration
	Degrade   bool
	Dump      string
	Frames    int
	FPS       int

	Verbose     bool
	VeryVerbose bool
	Quiet       bool

	fs *pflag.FlagSet
}

// Bind defines the flags on the given flag set, with the values of c
// as the shown defaults and the config field descriptions as help.
func (f *Flags) Bind(fs *pflag.FlagSet, c *Config) {
	f.fs = fs
	desc := func(path string) string {
		return errors.Must1(reflectx.FieldTag(c, path, "desc"))
	}
	fs.StringVar(&f.Config, "config", "", "config file (.toml, .yaml or .yml)")
	fs.StringVar(&f.Tag, "tag", c.Load.Tag, desc("Load.Tag"))
	fs.StringVar(&f.Layout, "layout", c.Load.Layout.String(), desc("Load.Layout"))
	fs.BoolVar(&f.Mipmaps, "mipmaps", c.Upload.Mipmaps, desc("Upload.Mipmaps"))
	fs.IntVar(&f.MaxLayers, "max-layers", c.Upload.MaxLayers, desc("Upload.MaxLayers"))
	fs.StringVar(&f.Device, "device", c.Device, desc("Device"))
	fs.StringVar(&f.Shaders, "shaders", c.Shaders.Dir, desc("Shaders.Dir"))
	fs.StringVar(&f.Vertex, "vertex", c.Shaders.Vertex, desc("Shaders.Vertex"))
	fs.StringVar(&f.Fragment, "fragment", c.Shaders.Fragment, desc("Shaders.Fragment"))
	fs.StringVar(&f.Geometry, "geometry", c.Shaders.Geometry, desc("Shaders.Geometry"))
	fs.DurationVar(&f.Debounce, "debounce", time.Duration(c.Watch.Debounce), desc("Watch.Debounce"))
	fs.BoolVar(&f.Degrade, "degrade", c.Watch.Degrade, desc("Watch.Degrade"))
	fs.StringVar(&f.Dump, "dump", c.Upload.Dump, desc("Upload.Dump"))
	fs.IntVar(&f.Frames, "frames", c.Run.Frames, desc("Run.Frames"))
	fs.IntVar(&f.FPS, "fps", c.Run.FPS, desc("Run.FPS"))
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "show info log messages")
	fs.BoolVar(&f.VeryVerbose, "vv", false, "show debug log messages")
	fs.BoolVarP(&f.Quiet, "quiet", "q", false, "only show error log messages")
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// Apply sets the values of c from the flags that were set.
// Paths given on the command line are relative to the working directory.
func (f *Flags) Apply(c *Config) error {
	str := func(name string, dst *string, v string) {
		if f.changed(name) {
			*dst = v
		}
	}
	str("tag", &c.Load.Tag, f.Tag)
	str("device", &c.Device, f.Device)
	str("vertex", &c.Shaders.Vertex, f.Vertex)
	str("fragment", &c.Shaders.Fragment, f.Fragment)
	str("geometry", &c.Shaders.Geometry, f.Geometry)
	for name, p := range map[string]struct {
		dst *string
		v   string
	}{"shaders": {&c.Shaders.Dir, f.Shaders}, "dump": {&c.Upload.Dump, f.Dump}} {
		if !f.changed(name) {
			continue
		}
		ep, err := fsx.ExpandPath(p.v)
		if err != nil {
			return err
		}
		*p.dst = ep
	}
	if f.changed("layout") {
		l, err := gpu.ParseLayout(f.Layout)
		if err != nil {
			return err
		}
		c.Load.Layout = l
	}
	if f.changed("mipmaps") {
		c.Upload.Mipmaps = f.Mipmaps
	}
	if f.changed("max-layers") {
		c.Upload.MaxLayers = f.MaxLayers
	}
	if f.changed("debounce") {
		c.Watch.Debounce = Duration(f.Debounce)
	}
	if f.changed("degrade") {
		c.Watch.Degrade = f.Degrade
	}
	if f.changed("frames") {
		c.Run.Frames = f.Frames
	}
	if f.changed("fps") {
		c.Run.FPS = f.FPS
	}
	if f.VeryVerbose || f.Verbose || f.Quiet {
		c.LogLevel = strings.ToLower(logx.LevelFromFlags(f.VeryVerbose, f.Verbose, f.Quiet).String())
	}
	return nil
}

// Resolve returns the config for a run: the defaults, overridden by
// the config file named by the flags, if any, overridden by the flags,
// with archive as the archive path if it is not empty. The result is validated.
func (f *Flags) Resolve(archive string) (*Config, error) {
	c := New()
	if f.Config != "" {
		if err := c.Open(f.Config); err != nil {
			return nil, err
		}
	}
	if err := f.Apply(c); err != nil {
		return nil, err
	}
	if archive != "" {
		ap, err := fsx.ExpandPath(archive)
		if err != nil {
			return nil, err
		}
		c.Archive = ap
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

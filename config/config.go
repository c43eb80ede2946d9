// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration of the lightfield viewer,
// read from a TOML or YAML file and overridden by command line flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cogentcore.org/lightfield/base/errors"
	"cogentcore.org/lightfield/base/fsx"
	"cogentcore.org/lightfield/base/iox/tomlx"
	"cogentcore.org/lightfield/base/iox/yamlx"
	"cogentcore.org/lightfield/base/reflectx"
	"cogentcore.org/lightfield/gpu"
	"cogentcore.org/lightfield/lightfield"
	"cogentcore.org/lightfield/reload"
)

// Devices are the names of the supported GPU devices.
const (
	SoftDevice   = "soft"
	WebGPUDevice = "webgpu"
)

// Config is the main config struct.
type Config struct {

	// the lightfield archive to load: a zip file or a directory
	Archive string `toml:"archive" yaml:"archive" desc:"the lightfield archive to load: a zip file or a directory"`

	// [def: warn] the log level: debug, info, warn or error
	LogLevel string `toml:"log-level" yaml:"log-level" def:"warn" desc:"the log level: debug, info, warn or error"`

	// [def: soft] the GPU device to use: soft or webgpu
	Device string `toml:"device" yaml:"device" def:"soft" desc:"the GPU device to use: soft or webgpu"`

	// the configuration options for loading the archive
	Load Load `toml:"load" yaml:"load" desc:"the configuration options for loading the archive"`

	// the configuration options for uploading to the GPU
	Upload Upload `toml:"upload" yaml:"upload" desc:"the configuration options for uploading to the GPU"`

	// the shader source files
	Shaders Shaders `toml:"shaders" yaml:"shaders" desc:"the shader source files"`

	// the configuration options for watching the shader sources
	Watch Watch `toml:"watch" yaml:"watch" desc:"the configuration options for watching the shader sources"`

	// the configuration options for the frame loop
	Run Run `toml:"run" yaml:"run" desc:"the configuration options for the frame loop"`
}

type Load struct {

	// [def: out] the name prefix of every view in the archive
	Tag string `toml:"tag" yaml:"tag" def:"out" desc:"the name prefix of every view in the archive"`

	// [def: rgba8] the pixel layout of the views: rgb8 or rgba8
	Layout gpu.PixelLayout `toml:"layout" yaml:"layout" def:"rgba8" desc:"the pixel layout of the views: rgb8 or rgba8"`

	// the accepted image formats; all formats if empty
	Formats []lightfield.Formats `toml:"formats" yaml:"formats" desc:"the accepted image formats; all formats if empty"`

	// the number of views decoded at once; one per CPU if 0
	Workers int `toml:"workers" yaml:"workers" desc:"the number of views decoded at once; one per CPU if 0"`

	// [def: 268435456] the maximum size of one view in bytes
	MaxEntrySize int64 `toml:"max-entry-size" yaml:"max-entry-size" def:"268435456" desc:"the maximum size of one view in bytes"`
}

type Upload struct {

	// whether to generate mipmaps after upload
	Mipmaps bool `toml:"mipmaps" yaml:"mipmaps" desc:"whether to generate mipmaps after upload"`

	// [def: true] whether to zero the layers of grid cells without a view
	ZeroFill bool `toml:"zero-fill" yaml:"zero-fill" def:"true" desc:"whether to zero the layers of grid cells without a view"`

	// the directory to write every layer to as WebP after upload, if set
	Dump string `toml:"dump" yaml:"dump" desc:"the directory to write every layer to as WebP after upload, if set"`

	// [def: 2048] the largest number of layers to allocate
	MaxLayers int `toml:"max-layers" yaml:"max-layers" def:"2048" desc:"the largest number of layers to allocate"`
}

type Shaders struct {

	// [def: shaders] the shader directory; relative stage files are in it
	Dir string `toml:"dir" yaml:"dir" def:"shaders" desc:"the shader directory; relative stage files are in it"`

	// [def: lightfield.vert.wgsl] the vertex shader file
	Vertex string `toml:"vertex" yaml:"vertex" def:"lightfield.vert.wgsl" desc:"the vertex shader file"`

	// [def: lightfield.frag.wgsl] the fragment shader file
	Fragment string `toml:"fragment" yaml:"fragment" def:"lightfield.frag.wgsl" desc:"the fragment shader file"`

	// an optional auxiliary shader file
	Geometry string `toml:"geometry" yaml:"geometry" desc:"an optional auxiliary shader file"`
}

type Watch struct {

	// [def: 100ms] the quiet time after a change before recompiling
	Debounce Duration `toml:"debounce" yaml:"debounce" def:"100ms" desc:"the quiet time after a change before recompiling"`

	// [def: 500ms] the longest time from a change to the recompile
	MaxWait Duration `toml:"max-wait" yaml:"max-wait" def:"500ms" desc:"the longest time from a change to the recompile"`

	// whether to keep running without reloading if the shaders cannot be watched
	Degrade bool `toml:"degrade" yaml:"degrade" desc:"whether to keep running without reloading if the shaders cannot be watched"`
}

type Run struct {

	// the number of frames to run; until interrupted if 0
	Frames int `toml:"frames" yaml:"frames" desc:"the number of frames to run; until interrupted if 0"`

	// [def: 60] the frame rate
	FPS int `toml:"fps" yaml:"fps" def:"60" desc:"the frame rate"`
}

// Defaults sets the default values of all fields from their
// `def:` struct tags.
func (c *Config) Defaults() {
	errors.Must(reflectx.SetFromDefaultTags(c))
}

// New returns a new config with default values.
func New() *Config {
	c := &Config{}
	c.Defaults()
	return c
}

// Open reads the config from the given file, in TOML or YAML
// according to its extension. Fields not in the file keep their
// values. Relative paths in the file are made relative to the
// directory of the file.
func (c *Config) Open(filename string) error {
	fn, err := fsx.ExpandPath(filename)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".toml":
		err = tomlx.Open(c, fn)
	case ".yaml", ".yml":
		err = yamlx.Open(c, fn)
	default:
		return fmt.Errorf("config.Open: %s: unknown config file type, want .toml, .yaml or .yml", filename)
	}
	if err != nil {
		return err
	}
	return c.ResolvePaths(filepath.Dir(fn))
}

// Save writes the config to the given file, in TOML or YAML
// according to its extension.
func (c *Config) Save(filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return tomlx.Save(c, filename)
	case ".yaml", ".yml":
		return yamlx.Save(c, filename)
	}
	return fmt.Errorf("config.Save: %s: unknown config file type, want .toml, .yaml or .yml", filename)
}

// ResolvePaths expands ~ in all paths and makes relative ones
// relative to base.
func (c *Config) ResolvePaths(base string) error {
	for _, p := range []*string{&c.Archive, &c.Shaders.Dir, &c.Upload.Dump} {
		rp, err := fsx.ResolvePath(base, *p)
		if err != nil {
			return err
		}
		*p = rp
	}
	return nil
}

// Validate returns an error for values that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Device != SoftDevice && c.Device != WebGPUDevice:
		return fmt.Errorf("config: unknown device %q, want %s or %s", c.Device, SoftDevice, WebGPUDevice)
	case !c.Load.Layout.IsValid():
		return fmt.Errorf("config: invalid layout %v", c.Load.Layout)
	case c.Load.Workers < 0:
		return fmt.Errorf("config: invalid workers %d", c.Load.Workers)
	case c.Upload.MaxLayers < 0:
		return fmt.Errorf("config: invalid max layers %d", c.Upload.MaxLayers)
	case c.Shaders.Vertex == "" || c.Shaders.Fragment == "":
		return fmt.Errorf("config: vertex and fragment shaders are required")
	case c.Watch.Debounce < 0 || c.Watch.MaxWait < 0:
		return fmt.Errorf("config: negative watch durations")
	case c.Run.FPS <= 0:
		return fmt.Errorf("config: invalid fps %d", c.Run.FPS)
	case c.Run.Frames < 0:
		return fmt.Errorf("config: invalid frames %d", c.Run.Frames)
	}
	return nil
}

// Loader returns a lightfield loader configured from c.
func (c *Config) Loader() *lightfield.Loader {
	ld := lightfield.NewLoader()
	ld.Tag = c.Load.Tag
	ld.Decoder.Layout = c.Load.Layout
	if len(c.Load.Formats) > 0 {
		ld.Decoder.Formats = c.Load.Formats
	}
	if c.Load.Workers > 0 {
		ld.Workers = c.Load.Workers
	}
	ld.MaxEntrySize = c.Load.MaxEntrySize
	return ld
}

// UploadOptions returns the upload options configured in c.
func (c *Config) UploadOptions() lightfield.UploadOptions {
	return lightfield.UploadOptions{Mipmaps: c.Upload.Mipmaps, ZeroFill: c.Upload.ZeroFill, MaxLayers: c.Upload.MaxLayers}
}

// Sources returns the shader sources configured in c.
func (c *Config) Sources() reload.Sources {
	return reload.Sources{
		Label:    "lightfield",
		Dir:      c.Shaders.Dir,
		Vertex:   c.Shaders.Vertex,
		Fragment: c.Shaders.Fragment,
		Geometry: c.Shaders.Geometry,
	}
}

// ReloadOptions returns the program reload options configured in c.
func (c *Config) ReloadOptions() reload.Options {
	return reload.Options{
		Debounce: time.Duration(c.Watch.Debounce),
		MaxWait:  time.Duration(c.Watch.MaxWait),
		Degrade:  c.Watch.Degrade,
	}
}

// FrameInterval returns the time between frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Run.FPS)
}

// Duration is a [time.Duration] written as text, such as "100ms".
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build webgpu

// Package webgpu provides a [gpu.Device] backed by a headless WebGPU
// device. It requires the native wgpu library, so it is only built
// with the webgpu build tag.
//
// Layer textures are created as 2D array textures in RGBA8 sRGB format.
// WebGPU has no 3-channel 8-bit format, so RGB8 is rejected.
// Mip levels are built on the host and written level by level.
package webgpu

import (
	"fmt"
	"log/slog"

	"cogentcore.org/lightfield/base/errors"
	"cogentcore.org/lightfield/gpu"
	"cogentcore.org/lightfield/gpu/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Device is a headless WebGPU device.
type Device struct {
	// Shader options used to validate programs before
	// they are handed to the driver.
	Shader shader.Options

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// NoDisplayDevice returns a new device that is not attached to any
// surface. If fallback is true, a software adapter is requested.
func NoDisplayDevice(fallback bool) (*Device, error) {
	dv := &Device{Shader: shader.DefaultOptions()}
	dv.instance = wgpu.CreateInstance(nil)
	a, err := dv.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: fallback,
	})
	if err != nil {
		dv.instance.Release()
		return nil, fmt.Errorf("webgpu: requesting adapter: %w", err)
	}
	dv.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{Label: "lightfield"})
	if err != nil {
		dv.adapter.Release()
		dv.instance.Release()
		return nil, fmt.Errorf("webgpu: requesting device: %w", err)
	}
	dv.device = d
	dv.queue = d.GetQueue()
	slog.Info("webgpu: device ready", "fallback", fallback)
	return dv, nil
}

func (dv *Device) Release() {
	if dv.device == nil {
		return
	}
	dv.device.Release()
	dv.adapter.Release()
	dv.instance.Release()
	dv.device = nil
}

func (dv *Device) NewLayerTexture(format gpu.TextureFormat) (gpu.LayerTexture, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if format.Layout != gpu.RGBA8 {
		return nil, fmt.Errorf("webgpu: pixel layout %s is not supported, use rgba8", format.Layout)
	}
	if lim := wgpu.DefaultLimits().MaxTextureArrayLayers; uint32(format.Layers) > lim {
		return nil, fmt.Errorf("webgpu: %d layers exceeds the limit of %d", format.Layers, lim)
	}
	t, err := dv.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     "lightfield layers",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              uint32(format.Size.X),
			Height:             uint32(format.Size.Y),
			DepthOrArrayLayers: uint32(format.Layers),
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: uint32(format.MipLevels),
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: creating texture: %w", err)
	}
	vw, err := t.CreateView(&wgpu.TextureViewDescriptor{
		Label:           "lightfield layers",
		Format:          wgpu.TextureFormatRGBA8UnormSrgb,
		Dimension:       wgpu.TextureViewDimension2DArray,
		BaseMipLevel:    0,
		MipLevelCount:   uint32(format.MipLevels),
		BaseArrayLayer:  0,
		ArrayLayerCount: uint32(format.Layers),
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("webgpu: creating texture view: %w", err)
	}
	tx := &Texture{dev: dv, format: format, texture: t, view: vw}
	if format.MipLevels > 1 {
		tx.base = make([][]byte, format.Layers)
	}
	return tx, nil
}

func (dv *Device) NewStagingBuffer(size int) (gpu.StagingBuffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("webgpu: invalid staging buffer size %d", size)
	}
	return &StagingBuffer{data: make([]byte, size)}, nil
}

// CompileProgram validates the program with naga, so that source errors
// are reported with line context, and then creates one WGSL shader module
// per stage on the device.
func (dv *Device) CompileProgram(src gpu.ProgramSource) (gpu.Program, error) {
	mods, err := shader.CompileProgram(src, dv.Shader)
	if err != nil {
		return nil, err
	}
	pr := &Program{label: src.Label}
	for _, m := range mods {
		sm, err := dv.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
			Label:          src.Label + " " + m.Stage.String(),
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: m.Source},
		})
		if err != nil {
			pr.Release()
			return nil, &gpu.CompileError{Label: src.Label, Stage: m.Stage, Diagnostics: err.Error(), Err: err}
		}
		pr.Modules = append(pr.Modules, sm)
		pr.EntryPoints = append(pr.EntryPoints, m.EntryPoint())
	}
	return pr, nil
}

// StagingBuffer holds one layer of pixels on the host until it is
// written to the queue.
type StagingBuffer struct {
	data []byte
}

func (sb *StagingBuffer) Size() int { return len(sb.data) }

func (sb *StagingBuffer) Write(data []byte) error {
	if len(data) != len(sb.data) {
		return fmt.Errorf("webgpu: write of %d bytes into staging buffer of %d bytes", len(data), len(sb.data))
	}
	copy(sb.data, data)
	return nil
}

func (sb *StagingBuffer) Release() { sb.data = nil }

// Program is a set of shader modules, one per stage.
type Program struct {
	label string

	// Modules in pipeline order
	Modules []*wgpu.ShaderModule

	// EntryPoints of each module, "" for auxiliary modules
	EntryPoints []string
}

func (pr *Program) Label() string { return pr.label }

func (pr *Program) Release() {
	for _, m := range pr.Modules {
		m.Release()
	}
	pr.Modules = nil
}

// Texture is a 2D array texture on the device.
type Texture struct {
	dev     *Device
	format  gpu.TextureFormat
	texture *wgpu.Texture
	view    *wgpu.TextureView

	// base holds the host copy of each uploaded layer when
	// the texture has mip levels, for building them.
	base [][]byte
}

func (tx *Texture) Format() gpu.TextureFormat { return tx.format }

// View returns the 2D array view of all layers and levels, for binding.
func (tx *Texture) View() *wgpu.TextureView { return tx.view }

func (tx *Texture) UploadLayer(layer int, buf gpu.StagingBuffer) error {
	if layer < 0 || layer >= tx.format.Layers {
		return fmt.Errorf("webgpu: layer %d out of range [0, %d)", layer, tx.format.Layers)
	}
	sb, ok := buf.(*StagingBuffer)
	if !ok {
		return fmt.Errorf("webgpu: staging buffer %T is not from a webgpu device", buf)
	}
	if sb.Size() != tx.format.LayerByteSize() {
		return fmt.Errorf("webgpu: staging buffer of %d bytes for layer of %d bytes", sb.Size(), tx.format.LayerByteSize())
	}
	tx.writeLevel(layer, 0, sb.data)
	if tx.base != nil {
		tx.base[layer] = append(tx.base[layer][:0], sb.data...)
	}
	return nil
}

func (tx *Texture) writeLevel(layer, level int, pix []byte) {
	sz := tx.format.LevelSize(level)
	tx.dev.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tx.texture,
			MipLevel: uint32(level),
			Origin:   wgpu.Origin3D{Z: uint32(layer)},
			Aspect:   wgpu.TextureAspectAll,
		},
		pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(4 * sz.X),
			RowsPerImage: uint32(sz.Y),
		},
		&wgpu.Extent3D{
			Width:              uint32(sz.X),
			Height:             uint32(sz.Y),
			DepthOrArrayLayers: 1,
		},
	)
}

// GenerateMipmaps builds the mip chain of every uploaded layer on the
// host and writes each level. Layers that were never uploaded keep
// undefined upper levels.
func (tx *Texture) GenerateMipmaps() error {
	if tx.base == nil {
		return nil
	}
	var errs []error
	for l, pix := range tx.base {
		if pix == nil {
			continue
		}
		chain, err := gpu.MipChain(pix, tx.format.Size, tx.format.Layout, tx.format.MipLevels)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for lev := 1; lev < len(chain); lev++ {
			tx.writeLevel(l, lev, chain[lev])
		}
	}
	tx.base = make([][]byte, tx.format.Layers)
	return errors.Join(errs...)
}

func (tx *Texture) Release() {
	if tx.view != nil {
		tx.view.Release()
		tx.view = nil
	}
	if tx.texture != nil {
		tx.texture.Release()
		tx.texture = nil
	}
	tx.base = nil
}

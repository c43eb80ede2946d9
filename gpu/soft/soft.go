// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package soft provides a [gpu.Device] that keeps all of its textures
// in host memory. It compiles shaders with naga like a hardware device
// would, supports readback of every layer and mip level, and counts
// live objects so that callers can check their release discipline.
// It is used for headless runs and for testing.
package soft

import (
	"fmt"
	"log/slog"

	"cogentcore.org/lightfield/gpu"
	"cogentcore.org/lightfield/gpu/shader"
)

// Device is an in-memory [gpu.Device].
type Device struct {
	// Shader options used by CompileProgram.
	Shader shader.Options

	// MaxLayers is the maximum number of layers in a texture,
	// emulating a device limit. 0 means no limit.
	MaxLayers int

	live     map[any]struct{}
	released bool
}

// NewDevice returns a new software device with default shader options.
func NewDevice() *Device {
	return &Device{Shader: shader.DefaultOptions(), live: make(map[any]struct{})}
}

// Live returns the number of objects made from the device
// that have not yet been released.
func (dv *Device) Live() int {
	return len(dv.live)
}

func (dv *Device) track(obj any)   { dv.live[obj] = struct{}{} }
func (dv *Device) untrack(obj any) { delete(dv.live, obj) }

// Release frees the device. It logs an error for every object
// that was not released first.
func (dv *Device) Release() {
	if dv.released {
		return
	}
	if n := len(dv.live); n > 0 {
		slog.Error("soft.Device: released with live objects", "count", n)
	}
	dv.released = true
}

func (dv *Device) NewLayerTexture(format gpu.TextureFormat) (gpu.LayerTexture, error) {
	if dv.released {
		return nil, fmt.Errorf("soft.Device: NewLayerTexture on released device")
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if dv.MaxLayers > 0 && format.Layers > dv.MaxLayers {
		return nil, fmt.Errorf("soft.Device: %d layers exceeds the limit of %d", format.Layers, dv.MaxLayers)
	}
	tx := &Texture{dev: dv, format: format}
	tx.levels = make([][][]byte, format.MipLevels)
	nc := format.Layout.Channels()
	for lev := range tx.levels {
		sz := format.LevelSize(lev)
		tx.levels[lev] = make([][]byte, format.Layers)
		for l := range tx.levels[lev] {
			tx.levels[lev][l] = make([]byte, sz.X*sz.Y*nc)
		}
	}
	dv.track(tx)
	return tx, nil
}

func (dv *Device) NewStagingBuffer(size int) (gpu.StagingBuffer, error) {
	if dv.released {
		return nil, fmt.Errorf("soft.Device: NewStagingBuffer on released device")
	}
	if size <= 0 {
		return nil, fmt.Errorf("soft.Device: invalid staging buffer size %d", size)
	}
	sb := &StagingBuffer{dev: dv, data: make([]byte, size)}
	dv.track(sb)
	return sb, nil
}

func (dv *Device) CompileProgram(src gpu.ProgramSource) (gpu.Program, error) {
	if dv.released {
		return nil, fmt.Errorf("soft.Device: CompileProgram on released device")
	}
	mods, err := shader.CompileProgram(src, dv.Shader)
	if err != nil {
		return nil, err
	}
	pr := &Program{dev: dv, label: src.Label, Modules: mods}
	dv.track(pr)
	return pr, nil
}

// StagingBuffer is a host buffer of fixed size.
type StagingBuffer struct {
	dev  *Device
	data []byte
}

func (sb *StagingBuffer) Size() int { return len(sb.data) }

func (sb *StagingBuffer) Write(data []byte) error {
	if len(data) != len(sb.data) {
		return fmt.Errorf("soft.StagingBuffer: write of %d bytes into buffer of %d bytes", len(data), len(sb.data))
	}
	copy(sb.data, data)
	return nil
}

// Bytes returns the current content of the buffer.
func (sb *StagingBuffer) Bytes() []byte { return sb.data }

func (sb *StagingBuffer) Release() {
	if sb.dev != nil {
		sb.dev.untrack(sb)
	}
}

// Program is a compiled program: the SPIR-V modules of its stages.
type Program struct {
	dev   *Device
	label string

	// Modules are the compiled stages, in pipeline order.
	Modules []*shader.Module
}

func (pr *Program) Label() string { return pr.label }

// Released returns true once Release has been called.
func (pr *Program) Released() bool {
	_, live := pr.dev.live[pr]
	return !live
}

func (pr *Program) Release() {
	pr.dev.untrack(pr)
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu defines the device facade that the lightfield core
// depends on: allocating layer textures, staging pixel data into them,
// building mip chains and compiling shader programs. Concrete devices
// live in subpackages: [soft] is an in-memory reference device and
// [webgpu] drives real hardware.
//
// All device objects are owned by the goroutine that created the
// device, which is the only one that may call their methods.
package gpu

// Device is a GPU device that can hold layer textures and programs.
type Device interface {
	Compiler

	// NewLayerTexture allocates a texture array with the given format.
	// The content of every layer is undefined until uploaded.
	NewLayerTexture(format TextureFormat) (LayerTexture, error)

	// NewStagingBuffer allocates a host-visible transfer buffer of
	// exactly size bytes, used as the source of layer uploads.
	NewStagingBuffer(size int) (StagingBuffer, error)

	// Release frees the device. All objects made from it must
	// already be released.
	Release()
}

// Compiler compiles shader programs.
type Compiler interface {

	// CompileProgram builds a program from the given sources.
	// Errors in the source are returned as a *[CompileError];
	// any other error means the device itself failed.
	CompileProgram(src ProgramSource) (Program, error)
}

// LayerTexture is a device-resident array of equally-sized 2D layers.
type LayerTexture interface {

	// Format returns the format the texture was allocated with.
	Format() TextureFormat

	// UploadLayer copies the entire content of buf into the base
	// level of the given layer. buf must be exactly one layer in size.
	UploadLayer(layer int, buf StagingBuffer) error

	// GenerateMipmaps fills all mip levels above the base level of
	// every layer from the base level. It is a no-op for textures
	// allocated with a single mip level.
	GenerateMipmaps() error

	// Release frees the texture.
	Release()
}

// LayerReader is implemented by textures whose content can be
// read back to the host.
type LayerReader interface {

	// ReadLayer returns a copy of the given layer at the given mip level,
	// tightly packed in the texture's pixel layout.
	ReadLayer(layer, level int) ([]byte, error)
}

// StagingBuffer is a host-visible transfer buffer.
type StagingBuffer interface {

	// Size returns the size of the buffer in bytes.
	Size() int

	// Write replaces the content of the buffer.
	// len(data) must equal Size.
	Write(data []byte) error

	// Release frees the buffer.
	Release()
}

// Program is a compiled shader program, ready for binding.
type Program interface {

	// Label returns the program label given in its [ProgramSource].
	Label() string

	// Release frees the program.
	Release()
}

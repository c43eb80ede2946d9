// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
	"math/bits"
	"strings"
)

// PixelLayout is the channel layout of 8-bit pixel data,
// both on the host and in a texture.
type PixelLayout int32

const (
	// UndefinedLayout is the zero value and is never valid.
	UndefinedLayout PixelLayout = iota

	// RGB8 has 3 channels of 8 bits each, with no alpha.
	RGB8

	// RGBA8 has 4 channels of 8 bits each, with straight
	// (non-premultiplied) alpha.
	RGBA8
)

// Channels returns the number of 8-bit channels per pixel,
// which is also the number of bytes per pixel.
func (l PixelLayout) Channels() int {
	switch l {
	case RGB8:
		return 3
	case RGBA8:
		return 4
	}
	return 0
}

// IsValid returns true if l is one of the defined layouts.
func (l PixelLayout) IsValid() bool {
	return l.Channels() > 0
}

func (l PixelLayout) String() string {
	switch l {
	case RGB8:
		return "rgb8"
	case RGBA8:
		return "rgba8"
	}
	return fmt.Sprintf("PixelLayout(%d)", int32(l))
}

// ParseLayout returns the layout with the given name ("rgb8" or "rgba8").
func ParseLayout(s string) (PixelLayout, error) {
	switch strings.ToLower(s) {
	case "rgb8", "rgb":
		return RGB8, nil
	case "rgba8", "rgba":
		return RGBA8, nil
	}
	return UndefinedLayout, fmt.Errorf("gpu.ParseLayout: unknown pixel layout %q", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (l PixelLayout) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, fmt.Errorf("gpu.PixelLayout: cannot marshal %v", l)
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *PixelLayout) UnmarshalText(text []byte) error {
	pl, err := ParseLayout(string(text))
	if err != nil {
		return err
	}
	*l = pl
	return nil
}

// TextureFormat describes the size, layout and layer count of a
// layer texture. All layers are the same size.
type TextureFormat struct {
	// Size of each layer in pixels
	Size image.Point

	// Layout of the pixel data
	Layout PixelLayout

	// number of layers in the texture array
	Layers int

	// MipLevels is the number of mip levels, including the base level.
	// 1 means no mip chain.
	MipLevels int
}

// NewTextureFormat returns a new TextureFormat of the given size, layout
// and number of layers, with a single mip level.
func NewTextureFormat(width, height int, layout PixelLayout, layers int) *TextureFormat {
	tf := &TextureFormat{}
	tf.Defaults()
	tf.Size = image.Point{width, height}
	tf.Layout = layout
	tf.Layers = layers
	return tf
}

// Defaults sets the layout to RGBA8 with one layer and one mip level.
func (tf *TextureFormat) Defaults() {
	tf.Layout = RGBA8
	tf.Layers = 1
	tf.MipLevels = 1
}

// SetMipmaps sets MipLevels to the full chain for the current size
// if on is true, and to 1 otherwise.
func (tf *TextureFormat) SetMipmaps(on bool) {
	if on {
		tf.MipLevels = MipLevelCount(tf.Size.X, tf.Size.Y)
	} else {
		tf.MipLevels = 1
	}
}

// String returns a human-readable version of the format.
func (tf *TextureFormat) String() string {
	return fmt.Sprintf("Size: %v  Layout: %s  Layers: %d  MipLevels: %d", tf.Size, tf.Layout, tf.Layers, tf.MipLevels)
}

// Validate returns an error if the format cannot describe a texture.
func (tf *TextureFormat) Validate() error {
	switch {
	case tf.Size.X <= 0 || tf.Size.Y <= 0:
		return fmt.Errorf("gpu.TextureFormat: invalid size %v", tf.Size)
	case !tf.Layout.IsValid():
		return fmt.Errorf("gpu.TextureFormat: invalid layout %v", tf.Layout)
	case tf.Layers <= 0:
		return fmt.Errorf("gpu.TextureFormat: invalid layer count %d", tf.Layers)
	case tf.MipLevels <= 0 || tf.MipLevels > MipLevelCount(tf.Size.X, tf.Size.Y):
		return fmt.Errorf("gpu.TextureFormat: invalid mip level count %d for size %v", tf.MipLevels, tf.Size)
	}
	return nil
}

// Stride returns the number of bytes per row of the base level.
func (tf *TextureFormat) Stride() int {
	return tf.Layout.Channels() * tf.Size.X
}

// LayerByteSize returns the number of bytes of one layer of the base level.
func (tf *TextureFormat) LayerByteSize() int {
	return tf.Stride() * tf.Size.Y
}

// TotalByteSize returns the number of bytes of all layers of the base level.
func (tf *TextureFormat) TotalByteSize() int {
	return tf.LayerByteSize() * tf.Layers
}

// LevelSize returns the size of the given mip level.
func (tf *TextureFormat) LevelSize(level int) image.Point {
	return MipLevelSize(tf.Size, level)
}

// MipLevelCount returns the number of levels in a full mip chain
// for a base level of the given size, down to 1x1.
func MipLevelCount(width, height int) int {
	m := max(width, height)
	if m <= 0 {
		return 0
	}
	return bits.Len(uint(m))
}

// MipLevelSize returns the size of the given mip level of a base
// level of the given size. Each dimension halves per level, down to 1.
func MipLevelSize(size image.Point, level int) image.Point {
	return image.Point{max(size.X>>level, 1), max(size.Y>>level, 1)}
}

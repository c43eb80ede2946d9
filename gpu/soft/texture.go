// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soft

import (
	"fmt"
	"image/color"

	"cogentcore.org/lightfield/gpu"
	"github.com/chewxy/math32"
)

// Texture is an in-memory layer array. All layers start zeroed.
type Texture struct {
	dev    *Device
	format gpu.TextureFormat

	// levels[level][layer] is tightly packed pixel data.
	levels [][][]byte

	// Uploads counts UploadLayer calls.
	Uploads int

	// MipGenerations counts GenerateMipmaps calls.
	MipGenerations int
}

func (tx *Texture) Format() gpu.TextureFormat { return tx.format }

func (tx *Texture) checkLayer(layer int) error {
	if layer < 0 || layer >= tx.format.Layers {
		return fmt.Errorf("soft.Texture: layer %d out of range [0, %d)", layer, tx.format.Layers)
	}
	return nil
}

func (tx *Texture) UploadLayer(layer int, buf gpu.StagingBuffer) error {
	if err := tx.checkLayer(layer); err != nil {
		return err
	}
	sb, ok := buf.(*StagingBuffer)
	if !ok {
		return fmt.Errorf("soft.Texture: staging buffer %T is not from a soft device", buf)
	}
	if sb.Size() != tx.format.LayerByteSize() {
		return fmt.Errorf("soft.Texture: staging buffer of %d bytes for layer of %d bytes", sb.Size(), tx.format.LayerByteSize())
	}
	copy(tx.levels[0][layer], sb.data)
	tx.Uploads++
	return nil
}

func (tx *Texture) GenerateMipmaps() error {
	tx.MipGenerations++
	n := tx.format.MipLevels
	if n <= 1 {
		return nil
	}
	for l := range tx.format.Layers {
		chain, err := gpu.MipChain(tx.levels[0][l], tx.format.Size, tx.format.Layout, n)
		if err != nil {
			return err
		}
		for lev := 1; lev < n; lev++ {
			tx.levels[lev][l] = chain[lev]
		}
	}
	return nil
}

// ReadLayer returns a copy of the given layer at the given mip level.
func (tx *Texture) ReadLayer(layer, level int) ([]byte, error) {
	if err := tx.checkLayer(layer); err != nil {
		return nil, err
	}
	if level < 0 || level >= tx.format.MipLevels {
		return nil, fmt.Errorf("soft.Texture: mip level %d out of range [0, %d)", level, tx.format.MipLevels)
	}
	return append([]byte(nil), tx.levels[level][layer]...), nil
}

// Sample returns the texel nearest to the normalized coordinates (u, v)
// of the given layer and mip level, clamping to the edge. RGB8 texels
// are returned with full alpha.
func (tx *Texture) Sample(layer, level int, u, v float32) (color.RGBA, error) {
	if err := tx.checkLayer(layer); err != nil {
		return color.RGBA{}, err
	}
	if level < 0 || level >= tx.format.MipLevels {
		return color.RGBA{}, fmt.Errorf("soft.Texture: mip level %d out of range [0, %d)", level, tx.format.MipLevels)
	}
	sz := tx.format.LevelSize(level)
	x := texelIndex(u, sz.X)
	y := texelIndex(v, sz.Y)
	nc := tx.format.Layout.Channels()
	off := (y*sz.X + x) * nc
	px := tx.levels[level][layer][off : off+nc]
	c := color.RGBA{px[0], px[1], px[2], 0xff}
	if nc == 4 {
		c.A = px[3]
	}
	return c, nil
}

// texelIndex maps a normalized coordinate to a texel index in [0, n).
func texelIndex(t float32, n int) int {
	i := int(math32.Floor(min(max(t, 0), 1) * float32(n)))
	return min(i, n-1)
}

func (tx *Texture) Release() {
	tx.dev.untrack(tx)
	tx.levels = nil
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// MipChain returns the levels of a mip chain built from the given base
// level pixels, tightly packed in the given layout. The result has
// levels entries, the first being pix itself. Each level is a box-filtered
// downsample of the previous one, so that levels never drift from the base.
func MipChain(pix []byte, size image.Point, layout PixelLayout, levels int) ([][]byte, error) {
	nc := layout.Channels()
	if nc == 0 {
		return nil, fmt.Errorf("gpu.MipChain: invalid layout %v", layout)
	}
	if len(pix) != size.X*size.Y*nc {
		return nil, fmt.Errorf("gpu.MipChain: %d bytes for %v %s pixels", len(pix), size, layout)
	}
	chain := make([][]byte, 0, levels)
	chain = append(chain, pix)
	if levels <= 1 {
		return chain, nil
	}
	img := &image.RGBA{Pix: toRGBA(pix, layout), Stride: 4 * size.X, Rect: image.Rectangle{Max: size}}
	for lev := 1; lev < levels; lev++ {
		lsz := MipLevelSize(size, lev)
		img = transform.Resize(img, lsz.X, lsz.Y, transform.Box)
		chain = append(chain, fromRGBA(img, layout))
	}
	return chain, nil
}

// toRGBA returns pix expanded to 4 channels. The alpha channel is treated
// as an ordinary channel: downsampling averages straight alpha values.
func toRGBA(pix []byte, layout PixelLayout) []byte {
	if layout == RGBA8 {
		return pix
	}
	n := len(pix) / 3
	out := make([]byte, 4*n)
	for i := range n {
		copy(out[4*i:4*i+3], pix[3*i:3*i+3])
		out[4*i+3] = 0xff
	}
	return out
}

// fromRGBA returns the tightly packed pixels of img in the given layout.
func fromRGBA(img *image.RGBA, layout PixelLayout) []byte {
	sz := img.Rect.Size()
	nc := layout.Channels()
	out := make([]byte, sz.X*sz.Y*nc)
	for y := range sz.Y {
		row := img.Pix[y*img.Stride : y*img.Stride+4*sz.X]
		orow := out[y*sz.X*nc : (y+1)*sz.X*nc]
		if nc == 4 {
			copy(orow, row)
			continue
		}
		for x := range sz.X {
			copy(orow[3*x:3*x+3], row[4*x:4*x+3])
		}
	}
	return out
}

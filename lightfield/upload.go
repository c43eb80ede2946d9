// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lightfield

import (
	"fmt"
	"log/slog"
	"time"

	"cogentcore.org/lightfield/gpu"
)

// DefaultMaxLayers is the default limit on the number of layers
// [Upload] allocates.
const DefaultMaxLayers = 2048

// UploadOptions configures [Upload].
type UploadOptions struct {
	// Mipmaps allocates a full mip chain and generates it
	// after all layers are uploaded.
	Mipmaps bool

	// ZeroFill uploads zeros into the layers of grid cells that have
	// no view. Without it, the content of those layers is whatever
	// the device allocated.
	ZeroFill bool

	// MaxLayers is the largest number of layers to allocate.
	// 0 means [DefaultMaxLayers].
	MaxLayers int
}

// DefaultUploadOptions returns options with ZeroFill on, no mipmaps
// and a limit of [DefaultMaxLayers].
func DefaultUploadOptions() UploadOptions {
	return UploadOptions{ZeroFill: true, MaxLayers: DefaultMaxLayers}
}

// LayerArray is a lightfield resident on the device: a texture array
// with one layer per grid cell, at index row*Columns + column.
type LayerArray struct {
	Texture gpu.LayerTexture

	Columns int
	Rows    int

	// Mipmapped is true if the mip chain has been generated.
	Mipmapped bool
}

// Layers returns the number of layers.
func (la *LayerArray) Layers() int {
	return la.Columns * la.Rows
}

// LayerIndex returns the layer of the view at c.
func (la *LayerArray) LayerIndex(c GridCoordinate) int {
	return c.LayerIndex(la.Columns)
}

// Release frees the texture.
func (la *LayerArray) Release() {
	if la.Texture != nil {
		la.Texture.Release()
		la.Texture = nil
	}
}

// Upload allocates a layer texture on the device for the lightfield and
// uploads every view into its layer, through a single staging buffer
// of exactly one layer in size. All errors are *[UploadError]; on error
// nothing allocated is left on the device.
func Upload(dev gpu.Device, lf *Lightfield, opts UploadOptions) (*LayerArray, error) {
	if len(lf.Views) == 0 {
		return nil, &UploadError{Kind: Empty, Layer: -1, Err: ErrEmptyLightfield}
	}
	limit := opts.MaxLayers
	if limit <= 0 {
		limit = DefaultMaxLayers
	}
	// a sparse grid can name far more cells than it has views
	if nl := int64(lf.Columns) * int64(lf.Rows); nl > int64(limit) {
		return nil, &UploadError{Kind: TooManyLayers, Layer: -1, Err: fmt.Errorf("%dx%d grid needs %d layers, limit is %d", lf.Columns, lf.Rows, nl, limit)}
	}
	start := time.Now()
	la := &LayerArray{Columns: lf.Columns, Rows: lf.Rows}
	n := la.Layers()
	tf := gpu.NewTextureFormat(lf.Width, lf.Height, lf.Layout, n)
	tf.SetMipmaps(opts.Mipmaps)
	layerSize := tf.LayerByteSize()

	// check everything before touching the device
	for _, v := range lf.Views {
		li := la.LayerIndex(v.Coord)
		if li < 0 || li >= n {
			return nil, &UploadError{Kind: LayerOutOfRange, Coord: v.Coord, Layer: li}
		}
		if len(v.Image.Pix) != layerSize {
			return nil, &UploadError{Kind: SizeMismatch, Coord: v.Coord, Layer: li}
		}
	}

	tex, err := dev.NewLayerTexture(*tf)
	if err != nil {
		return nil, &UploadError{Kind: Device, Layer: -1, Err: err}
	}
	buf, err := dev.NewStagingBuffer(layerSize)
	if err != nil {
		tex.Release()
		return nil, &UploadError{Kind: Device, Layer: -1, Err: err}
	}
	defer buf.Release()

	upload := func(c GridCoordinate, pix []byte) error {
		li := la.LayerIndex(c)
		slog.Debug("lightfield: uploading layer", "layer", li, "view", c)
		if err := buf.Write(pix); err != nil {
			return &UploadError{Kind: SizeMismatch, Coord: c, Layer: li, Err: err}
		}
		if err := tex.UploadLayer(li, buf); err != nil {
			return &UploadError{Kind: Device, Coord: c, Layer: li, Err: err}
		}
		return nil
	}
	for _, v := range lf.Views {
		if err := upload(v.Coord, v.Image.Pix); err != nil {
			tex.Release()
			return nil, err
		}
	}
	if miss := lf.Missing(); len(miss) > 0 {
		slog.Warn("lightfield: grid cells without a view", "count", len(miss), "zeroFill", opts.ZeroFill)
		if opts.ZeroFill {
			zero := make([]byte, layerSize)
			for _, c := range miss {
				if err := upload(c, zero); err != nil {
					tex.Release()
					return nil, err
				}
			}
		}
	}
	if opts.Mipmaps {
		if err := tex.GenerateMipmaps(); err != nil {
			tex.Release()
			return nil, &UploadError{Kind: Device, Layer: -1, Err: err}
		}
		la.Mipmapped = true
	}
	la.Texture = tex
	slog.Info("lightfield: uploaded", "layers", n, "format", tf.String(), "time", time.Since(start))
	return la, nil
}

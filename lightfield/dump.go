// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lightfield

import (
	"fmt"
	"os"
	"path/filepath"

	"cogentcore.org/lightfield/gpu"
	"github.com/HugoSmits86/nativewebp"
)

// DumpLayers writes the base level of every layer of the array to dir
// as lossless WebP files named layer_<index>.webp, for inspection.
// The texture must implement [gpu.LayerReader]. It returns the
// names of the written files.
func DumpLayers(la *LayerArray, dir string) ([]string, error) {
	rd, ok := la.Texture.(gpu.LayerReader)
	if !ok {
		return nil, fmt.Errorf("lightfield.DumpLayers: texture %T cannot be read back", la.Texture)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	tf := la.Texture.Format()
	var files []string
	for l := range tf.Layers {
		pix, err := rd.ReadLayer(l, 0)
		if err != nil {
			return files, err
		}
		im := &DecodedImage{Width: tf.Size.X, Height: tf.Size.Y, Layout: tf.Layout, Pix: pix}
		fn := filepath.Join(dir, fmt.Sprintf("layer_%d.webp", l))
		if err := writeWebP(fn, im); err != nil {
			return files, err
		}
		files = append(files, fn)
	}
	return files, nil
}

func writeWebP(filename string, im *DecodedImage) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, im.Image(), nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode %s: %w", filename, err)
	}
	return f.Close()
}

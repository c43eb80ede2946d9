// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build webgpu

package webgpu

import (
	"bytes"
	"testing"

	"cogentcore.org/lightfield/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerTexture(t *testing.T) {
	t.Skip("Need hardware GPU on CI")
	dv, err := NoDisplayDevice(true)
	require.NoError(t, err)
	defer dv.Release()

	tf := gpu.NewTextureFormat(16, 8, gpu.RGBA8, 4)
	tf.SetMipmaps(true)
	tex, err := dv.NewLayerTexture(*tf)
	require.NoError(t, err)
	defer tex.Release()

	sb, err := dv.NewStagingBuffer(tf.LayerByteSize())
	require.NoError(t, err)
	defer sb.Release()
	require.NoError(t, sb.Write(bytes.Repeat([]byte{1, 2, 3, 255}, 16*8)))
	for l := range 4 {
		assert.NoError(t, tex.UploadLayer(l, sb))
	}
	assert.Error(t, tex.UploadLayer(4, sb))
	assert.NoError(t, tex.GenerateMipmaps())

	_, err = dv.NewLayerTexture(*gpu.NewTextureFormat(16, 8, gpu.RGB8, 1))
	assert.Error(t, err)
}

func TestCompileProgram(t *testing.T) {
	t.Skip("Need hardware GPU on CI")
	dv, err := NoDisplayDevice(true)
	require.NoError(t, err)
	defer dv.Release()

	pr, err := dv.CompileProgram(gpu.ProgramSource{
		Label:    "test",
		Vertex:   "@vertex\nfn vs_main() -> @builtin(position) vec4<f32> {\n    return vec4<f32>(0.0, 0.0, 0.0, 1.0);\n}\n",
		Fragment: "@fragment\nfn fs_main() -> @location(0) vec4<f32> {\n    return vec4<f32>(1.0);\n}\n",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"vs_main", "fs_main"}, pr.(*Program).EntryPoints)
	pr.Release()
}

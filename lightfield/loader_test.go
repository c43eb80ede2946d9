// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lightfield

import (
	"archive/zip"
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"cogentcore.org/lightfield/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedData struct {
	name string
	data []byte
}

// zipArchive returns an in-memory zip archive of the given entries,
// in order. Names ending in / are directories.
func zipArchive(t *testing.T, ents ...namedData) *ZipArchive {
	t.Helper()
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	for _, e := range ents {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write(e.data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	za, err := NewZipArchive(bytes.NewReader(b.Bytes()), int64(b.Len()))
	require.NoError(t, err)
	return za
}

// cellColor is a distinct opaque color for each grid cell.
func cellColor(c GridCoordinate) color.NRGBA {
	return color.NRGBA{uint8(40 * c.Column), uint8(40 * c.Row), 200, 255}
}

func cellPNG(t *testing.T, c GridCoordinate, w, h int) namedData {
	return namedData{
		name: "out_" + itoa(c.Column) + "_" + itoa(c.Row) + ".png",
		data: solidPNG(t, w, h, cellColor(c)),
	}
}

func itoa(i int) string {
	return string(rune('0' + i))
}

func TestLoadTwoByTwo(t *testing.T) {
	za := zipArchive(t,
		cellPNG(t, GridCoordinate{0, 0}, 8, 4),
		cellPNG(t, GridCoordinate{1, 0}, 8, 4),
		cellPNG(t, GridCoordinate{0, 1}, 8, 4),
		cellPNG(t, GridCoordinate{1, 1}, 8, 4),
	)
	defer za.Close()
	lf, err := NewLoader().Load(context.Background(), za)
	require.NoError(t, err)
	require.Len(t, lf.Views, 4)
	assert.Equal(t, 2, lf.Columns)
	assert.Equal(t, 2, lf.Rows)
	assert.Equal(t, 4, lf.Layers())
	assert.Equal(t, 8, lf.Width)
	assert.Equal(t, 4, lf.Height)
	assert.Equal(t, gpu.RGBA8, lf.Layout)
	assert.Empty(t, lf.Missing())

	// archive order is kept
	assert.Equal(t, "out_0_0.png", lf.Views[0].Name)
	assert.Equal(t, GridCoordinate{1, 0}, lf.Views[1].Coord)
	assert.Equal(t, GridCoordinate{0, 1}, lf.Views[2].Coord)
	assert.Equal(t, 2, lf.LayerIndex(lf.Views[2].Coord))
	for _, v := range lf.Views {
		c := cellColor(v.Coord)
		assert.Equal(t, []byte{c.R, c.G, c.B, c.A}, v.Image.Pix[:4], v.Name)
	}
	assert.NotNil(t, lf.View(GridCoordinate{1, 1}))
	assert.Nil(t, lf.View(GridCoordinate{2, 1}))
}

func TestLoadLayoutMismatch(t *testing.T) {
	za := zipArchive(t,
		cellPNG(t, GridCoordinate{0, 0}, 8, 4),
		cellPNG(t, GridCoordinate{1, 0}, 8, 4),
		cellPNG(t, GridCoordinate{0, 1}, 8, 5),
	)
	_, err := NewLoader().Load(context.Background(), za)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, LayoutMismatch, le.Kind)
	assert.Equal(t, "out_0_1.png", le.Name)
}

func TestLoadBadNameBeforeDecode(t *testing.T) {
	// the corrupt first entry would fail to decode,
	// but the bad name is found first
	za := zipArchive(t,
		namedData{"out_0_0.png", []byte("garbage")},
		cellPNG(t, GridCoordinate{1, 0}, 2, 2),
		namedData{"thumbnail.png", solidPNG(t, 2, 2, color.NRGBA{A: 255})},
	)
	_, err := NewLoader().Load(context.Background(), za)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, BadName, le.Kind)
	assert.Equal(t, "thumbnail.png", le.Name)
}

func TestLoadDuplicate(t *testing.T) {
	za := zipArchive(t,
		cellPNG(t, GridCoordinate{0, 0}, 2, 2),
		namedData{"more/out_0_0.jpg", solidPNG(t, 2, 2, color.NRGBA{A: 255})},
	)
	_, err := NewLoader().Load(context.Background(), za)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, DuplicateCoordinate, le.Kind)
	assert.Equal(t, "more/out_0_0.jpg", le.Name)
}

func TestLoadDecodeError(t *testing.T) {
	za := zipArchive(t,
		cellPNG(t, GridCoordinate{0, 0}, 2, 2),
		namedData{"out_1_0.png", []byte("garbage")},
	)
	_, err := NewLoader().Load(context.Background(), za)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, Decode, le.Kind)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, UnsupportedFormat, de.Kind)
}

func TestLoadSkipsDirectories(t *testing.T) {
	za := zipArchive(t,
		namedData{"views/", nil},
		namedData{"views/out_0_0.png", solidPNG(t, 2, 2, color.NRGBA{A: 255})},
	)
	lf, err := NewLoader().Load(context.Background(), za)
	require.NoError(t, err)
	assert.Len(t, lf.Views, 1)
}

func TestLoadEmpty(t *testing.T) {
	lf, err := NewLoader().Load(context.Background(), zipArchive(t))
	require.NoError(t, err)
	assert.Empty(t, lf.Views)
	assert.Equal(t, 0, lf.Layers())
}

func TestLoadMaxEntrySize(t *testing.T) {
	za := zipArchive(t, cellPNG(t, GridCoordinate{0, 0}, 64, 64))
	ld := NewLoader()
	ld.MaxEntrySize = 16
	_, err := ld.Load(context.Background(), za)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, Read, le.Kind)
}

func TestLoadCanceled(t *testing.T) {
	za := zipArchive(t, cellPNG(t, GridCoordinate{0, 0}, 2, 2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader().Load(ctx, za)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadDirArchive(t *testing.T) {
	fsys := fstest.MapFS{
		"out_1_0.png": {Data: solidPNG(t, 2, 2, cellColor(GridCoordinate{1, 0}))},
		"out_0_0.png": {Data: solidPNG(t, 2, 2, cellColor(GridCoordinate{0, 0}))},
		"raw":         {Mode: os.ModeDir},
	}
	lf, err := NewLoader().Load(context.Background(), &DirArchive{FS: fsys})
	require.NoError(t, err)
	require.Len(t, lf.Views, 2)
	assert.Equal(t, "out_0_0.png", lf.Views[0].Name)
	assert.Equal(t, "out_1_0.png", lf.Views[1].Name)
}

func TestOpenZip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "capture.zip")
	f, err := os.Create(fn)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("out_0_0.png")
	require.NoError(t, err)
	_, err = w.Write(solidPNG(t, 3, 3, color.NRGBA{1, 1, 1, 255}))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	za, err := OpenZip(fn)
	require.NoError(t, err)
	lf, err := NewLoader().Load(context.Background(), za)
	require.NoError(t, err)
	assert.Len(t, lf.Views, 1)
	assert.NoError(t, za.Close())

	_, err = OpenZip(filepath.Join(t.TempDir(), "missing.zip"))
	assert.Error(t, err)
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lightfield loads multi-view ("lightfield") captures: archives
// of images taken on a regular grid of camera positions, named by their
// grid coordinate. A [Loader] decodes and validates an archive into a
// [Lightfield], and [Upload] transfers its views into the layers of a
// single GPU texture array, one layer per grid cell.
package lightfield

import (
	"image"

	"cogentcore.org/lightfield/gpu"
)

// View is one decoded image of a lightfield and its grid position.
type View struct {
	Coord GridCoordinate

	// Name of the archive entry the view was loaded from.
	Name string

	Image *DecodedImage
}

// Lightfield is a validated set of views that all share the same
// size and pixel layout. It is not modified after loading.
type Lightfield struct {
	// Views in archive order.
	Views []View

	// Columns and Rows are the grid extents: the maximum coordinate
	// on each axis plus one. Grid cells without a view are allowed.
	Columns int
	Rows    int

	// Width, Height and Layout are shared by all views.
	Width  int
	Height int
	Layout gpu.PixelLayout
}

// NewLightfield returns a lightfield of the given views, computing the
// extents and taking the shared size and layout from the first view.
// It does not check that the views agree; see [Loader.Load].
func NewLightfield(views []View) *Lightfield {
	lf := &Lightfield{Views: views}
	for _, v := range views {
		lf.Columns = max(lf.Columns, v.Coord.Column+1)
		lf.Rows = max(lf.Rows, v.Coord.Row+1)
	}
	if len(views) > 0 {
		im := views[0].Image
		lf.Width, lf.Height, lf.Layout = im.Width, im.Height, im.Layout
	}
	return lf
}

// Layers returns the number of texture layers the lightfield needs,
// one per grid cell.
func (lf *Lightfield) Layers() int {
	return lf.Columns * lf.Rows
}

// Size returns the size shared by all views.
func (lf *Lightfield) Size() image.Point {
	return image.Point{lf.Width, lf.Height}
}

// LayerIndex returns the texture layer of the view at c.
func (lf *Lightfield) LayerIndex(c GridCoordinate) int {
	return c.LayerIndex(lf.Columns)
}

// View returns the view at the given coordinate, or nil if the
// grid cell has no view.
func (lf *Lightfield) View(c GridCoordinate) *View {
	for i := range lf.Views {
		if lf.Views[i].Coord == c {
			return &lf.Views[i]
		}
	}
	return nil
}

// Missing returns the coordinates of grid cells without a view,
// in layer order.
func (lf *Lightfield) Missing() []GridCoordinate {
	have := make(map[GridCoordinate]bool, len(lf.Views))
	for _, v := range lf.Views {
		have[v.Coord] = true
	}
	var miss []GridCoordinate
	for r := range lf.Rows {
		for c := range lf.Columns {
			gc := GridCoordinate{Column: c, Row: r}
			if !have[gc] {
				miss = append(miss, gc)
			}
		}
	}
	return miss
}

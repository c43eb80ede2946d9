// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lightfield

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxEntrySize is the default limit on the decompressed
// size of one archive entry.
const DefaultMaxEntrySize = 256 << 20

// Loader loads a [Lightfield] from an [Archive].
type Loader struct {
	// Tag is the required name prefix of every entry.
	Tag string

	// Decoder decodes each entry.
	Decoder *Decoder

	// Workers is the maximum number of entries decoded at once.
	// 0 means one per CPU.
	Workers int

	// MaxEntrySize is the limit on the size of one entry in bytes.
	// 0 means no limit.
	MaxEntrySize int64
}

// NewLoader returns a loader with default settings.
func NewLoader() *Loader {
	return &Loader{
		Tag:          DefaultTag,
		Decoder:      NewDecoder(),
		Workers:      runtime.GOMAXPROCS(0),
		MaxEntrySize: DefaultMaxEntrySize,
	}
}

// entry is an archive entry with its parsed coordinate.
type entry struct {
	Entry
	coord GridCoordinate
}

// Load reads, decodes and validates all entries of the archive.
// Every entry name is checked before anything is decoded.
// The first view in archive order fixes the size and layout
// that all other views must match. An archive with no image
// entries gives a lightfield with no views. All errors are *[LoadError].
func (ld *Loader) Load(ctx context.Context, ar Archive) (*Lightfield, error) {
	start := time.Now()
	all, err := ar.Entries()
	if err != nil {
		return nil, &LoadError{Kind: Read, Err: err}
	}
	ents, err := ld.parseNames(all)
	if err != nil {
		return nil, err
	}
	if len(ents) == 0 {
		slog.Warn("lightfield: archive has no views")
		return NewLightfield(nil), nil
	}

	views := make([]View, len(ents))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(ld.Workers, 1))
	for i, ent := range ents {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slog.Debug("lightfield: loading", "name", ent.Name)
			im, err := ld.decodeEntry(ent)
			if err != nil {
				return err
			}
			views[i] = View{Coord: ent.coord, Name: ent.Name, Image: im}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if _, ok := err.(*LoadError); ok {
			return nil, err
		}
		return nil, &LoadError{Kind: Read, Err: err}
	}

	lf := NewLightfield(views)
	for _, v := range views[1:] {
		im := v.Image
		if im.Width != lf.Width || im.Height != lf.Height || im.Layout != lf.Layout {
			return nil, &LoadError{Kind: LayoutMismatch, Name: v.Name,
				Err: fmt.Errorf("%dx%d %s, want %dx%d %s as in %q", im.Width, im.Height, im.Layout, lf.Width, lf.Height, lf.Layout, views[0].Name)}
		}
	}
	slog.Info("lightfield: loaded", "views", len(views), "columns", lf.Columns, "rows", lf.Rows,
		"size", lf.Size(), "layout", lf.Layout, "time", time.Since(start))
	return lf, nil
}

// parseNames returns the non-directory entries with their coordinates,
// checking that every name is valid and every coordinate unique.
func (ld *Loader) parseNames(all []Entry) ([]entry, error) {
	tag := ld.Tag
	if tag == "" {
		tag = DefaultTag
	}
	ents := make([]entry, 0, len(all))
	seen := make(map[GridCoordinate]string, len(all))
	for _, e := range all {
		if e.Dir {
			continue
		}
		c, err := ParseName(e.Name, tag)
		if err != nil {
			return nil, &LoadError{Kind: BadName, Name: e.Name, Err: err}
		}
		if prev, dup := seen[c]; dup {
			return nil, &LoadError{Kind: DuplicateCoordinate, Name: e.Name,
				Err: fmt.Errorf("coordinate %v already loaded from %q", c, prev)}
		}
		seen[c] = e.Name
		ents = append(ents, entry{Entry: e, coord: c})
	}
	return ents, nil
}

// decodeEntry reads and decodes one entry.
func (ld *Loader) decodeEntry(ent entry) (*DecodedImage, error) {
	if ld.MaxEntrySize > 0 && ent.Size > ld.MaxEntrySize {
		return nil, &LoadError{Kind: Read, Name: ent.Name, Err: fmt.Errorf("size %d exceeds limit of %d bytes", ent.Size, ld.MaxEntrySize)}
	}
	rc, err := ent.Open()
	if err != nil {
		return nil, &LoadError{Kind: Read, Name: ent.Name, Err: err}
	}
	defer rc.Close()
	var r io.Reader = rc
	if ld.MaxEntrySize > 0 {
		r = io.LimitReader(rc, ld.MaxEntrySize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Kind: Read, Name: ent.Name, Err: err}
	}
	if ld.MaxEntrySize > 0 && int64(len(data)) > ld.MaxEntrySize {
		return nil, &LoadError{Kind: Read, Name: ent.Name, Err: fmt.Errorf("content exceeds limit of %d bytes", ld.MaxEntrySize)}
	}
	dec := ld.Decoder
	if dec == nil {
		dec = NewDecoder()
	}
	im, err := dec.Decode(data)
	if err != nil {
		return nil, &LoadError{Kind: Decode, Name: ent.Name, Err: err}
	}
	return im, nil
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lightfield

import (
	"fmt"

	"cogentcore.org/lightfield/base/errors"
)

// ErrEmptyLightfield is matched by errors from operations that
// need at least one view.
var ErrEmptyLightfield = errors.New("lightfield: no views")

// DecodeErrorKinds are the kinds of [DecodeError].
type DecodeErrorKinds int32

const (
	// Corrupt means the data could not be decoded as its format.
	Corrupt DecodeErrorKinds = iota

	// UnsupportedFormat means the data is not in any accepted format.
	UnsupportedFormat

	// UnexpectedLayout means the decoded pixels cannot be
	// converted to the required layout.
	UnexpectedLayout
)

func (k DecodeErrorKinds) String() string {
	switch k {
	case Corrupt:
		return "corrupt"
	case UnsupportedFormat:
		return "unsupported format"
	case UnexpectedLayout:
		return "unexpected layout"
	}
	return fmt.Sprintf("DecodeErrorKinds(%d)", int32(k))
}

// DecodeError is returned by [Decoder.Decode].
type DecodeError struct {
	Kind DecodeErrorKinds

	// Format is the detected format, if any.
	Format Formats

	Err error
}

func (e *DecodeError) Error() string {
	msg := "lightfield: decode: " + e.Kind.String()
	if e.Format != None {
		msg += " (" + e.Format.String() + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// LoadErrorKinds are the kinds of [LoadError].
type LoadErrorKinds int32

const (
	// Read means an archive entry could not be read.
	Read LoadErrorKinds = iota

	// BadName means an entry name does not follow <tag>_<column>_<row>.<ext>.
	BadName

	// DuplicateCoordinate means two entries name the same grid cell.
	DuplicateCoordinate

	// Decode means an entry could not be decoded; Err is a *DecodeError.
	Decode

	// LayoutMismatch means a view differs in size or layout from the first view.
	LayoutMismatch
)

func (k LoadErrorKinds) String() string {
	switch k {
	case Read:
		return "read"
	case BadName:
		return "bad name"
	case DuplicateCoordinate:
		return "duplicate coordinate"
	case Decode:
		return "decode"
	case LayoutMismatch:
		return "layout mismatch"
	}
	return fmt.Sprintf("LoadErrorKinds(%d)", int32(k))
}

// LoadError is returned by [Loader.Load]. All load errors are fatal.
type LoadError struct {
	Kind LoadErrorKinds

	// Name of the offending archive entry, if any.
	Name string

	Err error
}

func (e *LoadError) Error() string {
	msg := "lightfield: load: " + e.Kind.String()
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// UploadErrorKinds are the kinds of [UploadError].
type UploadErrorKinds int32

const (
	// Empty means the lightfield has no views.
	Empty UploadErrorKinds = iota

	// LayerOutOfRange means a view maps past the last layer.
	LayerOutOfRange

	// SizeMismatch means a view's pixel data is not exactly one layer.
	SizeMismatch

	// Device means the device failed to allocate or transfer.
	Device

	// TooManyLayers means the grid needs more layers than allowed.
	TooManyLayers
)

func (k UploadErrorKinds) String() string {
	switch k {
	case Empty:
		return "empty"
	case LayerOutOfRange:
		return "layer out of range"
	case SizeMismatch:
		return "size mismatch"
	case Device:
		return "device"
	case TooManyLayers:
		return "too many layers"
	}
	return fmt.Sprintf("UploadErrorKinds(%d)", int32(k))
}

// UploadError is returned by [Upload].
type UploadError struct {
	Kind UploadErrorKinds

	// Coord of the offending view, for per-view errors.
	Coord GridCoordinate

	// Layer index of the offending view, or -1.
	Layer int

	Err error
}

func (e *UploadError) Error() string {
	msg := "lightfield: upload: " + e.Kind.String()
	if e.Layer >= 0 {
		msg += fmt.Sprintf(" (view %v, layer %d)", e.Coord, e.Layer)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UploadError) Unwrap() error { return e.Err }

// Is reports Empty upload errors as [ErrEmptyLightfield].
func (e *UploadError) Is(target error) bool {
	return e.Kind == Empty && target == ErrEmptyLightfield
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lightfield

import (
	"fmt"
	"strings"

	"github.com/h2non/filetype"
)

// Formats are the image encodings that a [Decoder] can accept.
type Formats int32

const (
	None Formats = iota
	PNG
	JPEG
	GIF
	TIFF
	BMP
	WebP
	TGA
)

// AllFormats are all of the formats that can be decoded.
var AllFormats = []Formats{JPEG, PNG, GIF, BMP, TIFF, WebP, TGA}

func (f Formats) String() string {
	switch f {
	case None:
		return "none"
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	case WebP:
		return "webp"
	case TGA:
		return "tga"
	}
	return fmt.Sprintf("Formats(%d)", int32(f))
}

// ExtToFormat returns a Format based on a filename extension,
// which can start with a . or not.
func ExtToFormat(ext string) (Formats, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	case "webp":
		return WebP, nil
	case "tga":
		return TGA, nil
	}
	return None, fmt.Errorf("ExtToFormat: extension %q not recognized", ext)
}

// MarshalText implements [encoding.TextMarshaler].
func (f Formats) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Formats) UnmarshalText(text []byte) error {
	ff, err := ExtToFormat(string(text))
	if err != nil {
		return err
	}
	*f = ff
	return nil
}

// Sniff returns the format of the given encoded image data, based on
// its magic number. TGA has no magic number, so it is never returned,
// and None is returned for anything that is not a recognized image.
func Sniff(data []byte) Formats {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return None
	}
	f, err := ExtToFormat(kind.Extension)
	if err != nil {
		return None
	}
	return f
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lightfield

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"slices"

	"cogentcore.org/lightfield/gpu"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// DecodedImage is a decoded view: tightly packed rows of pixels,
// top row first, in a single pixel layout.
type DecodedImage struct {
	Width  int
	Height int
	Layout gpu.PixelLayout

	// Pix has exactly Width*Height*Layout.Channels() bytes.
	Pix []byte
}

// ByteLen returns the number of pixel bytes implied by the
// size and layout, which equals len(Pix) for a valid image.
func (im *DecodedImage) ByteLen() int {
	return im.Width * im.Height * im.Layout.Channels()
}

// Size returns the image size.
func (im *DecodedImage) Size() image.Point {
	return image.Point{im.Width, im.Height}
}

// Validate returns an error if the pixel data does not match
// the size and layout.
func (im *DecodedImage) Validate() error {
	if im.Width <= 0 || im.Height <= 0 || !im.Layout.IsValid() {
		return fmt.Errorf("lightfield: invalid image %dx%d %s", im.Width, im.Height, im.Layout)
	}
	if len(im.Pix) != im.ByteLen() {
		return fmt.Errorf("lightfield: image %dx%d %s has %d bytes, want %d", im.Width, im.Height, im.Layout, len(im.Pix), im.ByteLen())
	}
	return nil
}

// Image returns the image as an [image.NRGBA], for encoding.
func (im *DecodedImage) Image() *image.NRGBA {
	nimg := image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
	if im.Layout == gpu.RGBA8 {
		copy(nimg.Pix, im.Pix)
		return nimg
	}
	for i, j := 0, 0; i < len(im.Pix); i, j = i+3, j+4 {
		copy(nimg.Pix[j:j+3], im.Pix[i:i+3])
		nimg.Pix[j+3] = 0xff
	}
	return nimg
}

// Decoder decodes encoded view images into a single pixel layout.
// The encoding is detected from the content, never from a file name.
type Decoder struct {
	// Formats are the accepted encodings.
	Formats []Formats

	// Layout is the output pixel layout.
	Layout gpu.PixelLayout
}

// NewDecoder returns a decoder accepting all formats, producing RGBA8.
func NewDecoder() *Decoder {
	return &Decoder{Formats: slices.Clone(AllFormats), Layout: gpu.RGBA8}
}

// Accepts returns true if the decoder accepts the given format.
func (dc *Decoder) Accepts(f Formats) bool {
	return slices.Contains(dc.Formats, f)
}

// Decode decodes the given encoded image. Any 8-bit source converts to
// RGBA8 with straight alpha. RGB8 output requires a fully opaque source.
// Sources with 16 bits per channel are rejected. Errors are *[DecodeError].
func (dc *Decoder) Decode(data []byte) (*DecodedImage, error) {
	if !dc.Layout.IsValid() {
		return nil, &DecodeError{Kind: UnexpectedLayout, Err: fmt.Errorf("decoder layout %v", dc.Layout)}
	}
	f := Sniff(data)
	var img image.Image
	var err error
	switch {
	case f == None && dc.Accepts(TGA):
		img, err = tga.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, &DecodeError{Kind: UnsupportedFormat, Err: fmt.Errorf("unrecognized image data: %w", err)}
		}
		f = TGA
	case f == None:
		return nil, &DecodeError{Kind: UnsupportedFormat, Err: fmt.Errorf("unrecognized image data")}
	case !dc.Accepts(f):
		return nil, &DecodeError{Kind: UnsupportedFormat, Format: f}
	default:
		img, err = decodeFormat(f, data)
		if err != nil {
			return nil, &DecodeError{Kind: Corrupt, Format: f, Err: err}
		}
	}
	im, err := convert(img, dc.Layout)
	if err != nil {
		return nil, &DecodeError{Kind: UnexpectedLayout, Format: f, Err: err}
	}
	return im, nil
}

func decodeFormat(f Formats, data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch f {
	case PNG:
		return png.Decode(r)
	case JPEG:
		return jpeg.Decode(r)
	case GIF:
		return gif.Decode(r)
	case TIFF:
		return tiff.Decode(r)
	case BMP:
		return bmp.Decode(r)
	case WebP:
		return webp.Decode(r)
	case TGA:
		return tga.Decode(r)
	}
	return nil, fmt.Errorf("no decoder for %v", f)
}

// is16Bit returns true for images with more than 8 bits per channel.
func is16Bit(img image.Image) bool {
	switch img.ColorModel() {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model:
		return true
	}
	return false
}

// convert returns the tightly packed pixels of img in the given layout.
func convert(img image.Image, layout gpu.PixelLayout) (*DecodedImage, error) {
	if is16Bit(img) {
		return nil, fmt.Errorf("16-bit %T source", img)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image")
	}
	nimg, ok := img.(*image.NRGBA)
	if !ok || nimg.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		nimg = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nimg, nimg.Bounds(), img, b.Min, draw.Src)
	}
	im := &DecodedImage{Width: b.Dx(), Height: b.Dy(), Layout: layout}
	if layout == gpu.RGBA8 {
		im.Pix = nimg.Pix
		return im, nil
	}
	if !nimg.Opaque() {
		return nil, fmt.Errorf("source with transparency cannot be stored as %s", layout)
	}
	n := b.Dx() * b.Dy()
	im.Pix = make([]byte, 3*n)
	for i := range n {
		copy(im.Pix[3*i:3*i+3], nimg.Pix[4*i:4*i+3])
	}
	return im, nil
}

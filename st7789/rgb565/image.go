// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgb565

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is an in-memory image of RGB565 pixels.
//
// Pix is laid out row-major with Stride pixels per row, which makes a
// tightly packed Image (Stride == Rect.Dx()) directly usable as a sprite
// source.
type Image struct {
	Pix    []Color
	Stride int
	Rect   image.Rectangle
}

// NewImage returns an Image of the given bounds, all pixels Black.
func NewImage(r image.Rectangle) *Image {
	return &Image{
		Pix:    make([]Color, r.Dx()*r.Dy()),
		Stride: r.Dx(),
		Rect:   r,
	}
}

// Convert returns a tightly packed copy of src.
//
// When alphaThreshold is non negative, pixels whose 8 bits alpha is lower or
// equal to alphaThreshold are replaced with Key.
func Convert(src image.Image, alphaThreshold int) *Image {
	r := src.Bounds()
	img := NewImage(image.Rect(0, 0, r.Dx(), r.Dy()))
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			if alphaThreshold >= 0 && int(c.A) <= alphaThreshold {
				img.Pix[i] = Key
			} else {
				img.Pix[i] = FromRGB(c.R, c.G, c.B)
			}
			i++
		}
	}
	return img
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.ColorAt(x, y)
}

// ColorAt returns the Color at the coordinate, Black when out of bounds.
func (i *Image) ColorAt(x, y int) Color {
	if !(image.Point{x, y}.In(i.Rect)) {
		return Black
	}
	return i.Pix[i.PixOffset(x, y)]
}

// Set implements draw.Image.
func (i *Image) Set(x, y int, c color.Color) {
	i.SetColor(x, y, convert(c).(Color))
}

// SetColor sets the Color at the coordinate. Out of bounds writes are
// ignored.
func (i *Image) SetColor(x, y int, c Color) {
	if !(image.Point{x, y}.In(i.Rect)) {
		return
	}
	i.Pix[i.PixOffset(x, y)] = c
}

// PixOffset returns the index in Pix of the pixel at (x, y).
func (i *Image) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x - i.Rect.Min.X)
}

// Packed reports whether Pix holds exactly the rows of Rect without padding.
func (i *Image) Packed() bool {
	return i.Stride == i.Rect.Dx() && len(i.Pix) == i.Rect.Dx()*i.Rect.Dy()
}

var _ draw.Image = &Image{}

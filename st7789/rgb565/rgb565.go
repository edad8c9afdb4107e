// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rgb565

import (
	"fmt"
	"image/color"
)

// Color is a packed 5-6-5 RGB color.
type Color uint16

// Common colors.
const (
	Black   Color = 0x0000
	White   Color = 0xFFFF
	Red     Color = 0xF800
	Green   Color = 0x07E0
	Blue    Color = 0x001F
	Cyan    Color = 0x07FF
	Magenta Color = 0xF81F
	Yellow  Color = 0xFFE0

	// Key marks transparent pixels in keyed bitmaps.
	Key Color = 0x0001
)

// FromRGB packs 8 bits per channel values.
func FromRGB(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3))
}

// FromHue returns the fully saturated, full brightness color for hue, in
// degrees. hue is taken modulo 360.
//
// It uses integer math only so it is suitable for tight render loops.
func FromHue(hue int) Color {
	hue %= 360
	if hue < 0 {
		hue += 360
	}
	t := uint8((hue % 60) * 255 / 60)
	q := 255 - t
	switch hue / 60 {
	case 0:
		return FromRGB(255, t, 0)
	case 1:
		return FromRGB(q, 255, 0)
	case 2:
		return FromRGB(0, 255, t)
	case 3:
		return FromRGB(0, q, 255)
	case 4:
		return FromRGB(t, 0, 255)
	default:
		return FromRGB(255, 0, q)
	}
}

// Channels returns the channels expanded to 8 bits.
func (c Color) Channels() (r, g, b uint8) {
	r5 := uint8(c >> 11)
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.Channels()
	r = uint32(r8)
	r |= r << 8
	g = uint32(g8)
	g |= g << 8
	b = uint32(b8)
	b |= b << 8
	return r, g, b, 0xFFFF
}

func (c Color) String() string {
	return fmt.Sprintf("rgb565.Color(0x%04X)", uint16(c))
}

// Model is the color Model for RGB565 colors.
//
// Fully transparent colors are not mapped to Key; use Image.Keyed for that.
var Model = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

var _ color.Color = Color(0)

// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gfxfont

import (
	"fmt"
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FromFace rasterizes the characters [first, last] of face into a Font.
//
// Mask pixels with at least 50% coverage are set. Characters missing from
// the face get an empty glyph with no advance.
func FromFace(face font.Face, first, last rune) (*Font, error) {
	if last < first {
		return nil, fmt.Errorf("gfxfont: invalid range [%d, %d]", first, last)
	}
	yAdvance := face.Metrics().Height.Ceil()
	if yAdvance <= 0 || yAdvance > math.MaxUint8 {
		return nil, fmt.Errorf("gfxfont: line height %d out of range", yAdvance)
	}
	f := &Font{
		Glyphs:   make([]Glyph, 0, last-first+1),
		First:    first,
		Last:     last,
		YAdvance: uint8(yAdvance),
	}
	for r := first; r <= last; r++ {
		g, err := f.appendGlyph(face, r)
		if err != nil {
			return nil, err
		}
		f.Glyphs = append(f.Glyphs, g)
	}
	return f, nil
}

func (f *Font) appendGlyph(face font.Face, r rune) (Glyph, error) {
	g := Glyph{BitmapOffset: uint32(len(f.Bitmap))}
	dr, mask, mp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return g, nil
	}
	w, h, adv := dr.Dx(), dr.Dy(), advance.Round()
	if w > math.MaxUint8 || h > math.MaxUint8 || adv < 0 || adv > math.MaxUint8 {
		return g, fmt.Errorf("gfxfont: glyph %q too large: %dx%d advance %d", r, w, h, adv)
	}
	if dr.Min.X < math.MinInt8 || dr.Min.X > math.MaxInt8 || dr.Min.Y < math.MinInt8 || dr.Min.Y > math.MaxInt8 {
		return g, fmt.Errorf("gfxfont: glyph %q offset out of range: %v", r, dr.Min)
	}
	g.Width, g.Height, g.XAdvance = uint8(w), uint8(h), uint8(adv)
	g.XOffset, g.YOffset = int8(dr.Min.X), int8(dr.Min.Y)

	bits := make([]byte, (w*h+7)/8)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if _, _, _, a := mask.At(mp.X+x, mp.Y+y).RGBA(); a >= 0x8000 {
				bits[i>>3] |= 0x80 >> uint(i&7)
			}
			i++
		}
	}
	f.Bitmap = append(f.Bitmap, bits...)
	return g, nil
}

// FromTrueType parses a TrueType font and rasterizes the characters
// [first, last] at size points and 72 DPI.
func FromTrueType(ttf []byte, size float64, first, last rune) (*Font, error) {
	tt, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("gfxfont: %w", err)
	}
	face := truetype.NewFace(tt, &truetype.Options{Size: size, Hinting: font.HintingFull})
	defer face.Close()
	return FromFace(face, first, last)
}

// Basic returns the printable ASCII characters of the 7x13 X11 misc-fixed
// font.
var Basic = sync.OnceValue(func() *Font {
	f, err := FromFace(basicfont.Face7x13, ' ', '~')
	if err != nil {
		panic(err)
	}
	return f
})

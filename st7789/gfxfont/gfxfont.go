// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gfxfont

import (
	"errors"
	"fmt"
)

// Glyph describes a single character.
type Glyph struct {
	// BitmapOffset is the index in Font.Bitmap of the first byte of the glyph.
	BitmapOffset uint32
	// Width and Height of the bitmap in pixels.
	Width  uint8
	Height uint8
	// XAdvance is the distance to move the pen after drawing the glyph.
	XAdvance uint8
	// XOffset and YOffset are the position of the top-left corner of the
	// bitmap relative to the pen, which sits on the baseline. YOffset is
	// usually negative.
	XOffset int8
	YOffset int8
}

// Font is a proportional bitmap font.
type Font struct {
	Bitmap []byte
	// Glyphs holds Last-First+1 entries.
	Glyphs []Glyph
	First  rune
	Last   rune
	// YAdvance is the line height in pixels.
	YAdvance uint8
}

// Glyph returns the glyph for r.
//
// It returns false when r is outside the font range. It is safe to call on a
// nil Font.
func (f *Font) Glyph(r rune) (*Glyph, bool) {
	if f == nil || r < f.First || r > f.Last {
		return nil, false
	}
	i := int(r - f.First)
	if i >= len(f.Glyphs) {
		return nil, false
	}
	return &f.Glyphs[i], true
}

// Pixel reports whether the bit at (x, y) of the glyph bitmap is set.
//
// (x, y) must be within the glyph Width and Height.
func (f *Font) Pixel(g *Glyph, x, y int) bool {
	i := y*int(g.Width) + x
	return f.Bitmap[int(g.BitmapOffset)+i>>3]&(0x80>>uint(i&7)) != 0
}

// Measure returns the size of the text when rendered on a single line.
//
// The width is the sum of the advances. The height is the union of the
// vertical spans of the glyphs and the baseline. Characters outside of the
// font range are ignored.
func (f *Font) Measure(text string) (w, h int) {
	if f == nil {
		return 0, 0
	}
	minY, maxY := 0, 0
	for _, r := range text {
		g, ok := f.Glyph(r)
		if !ok {
			continue
		}
		minY = min(minY, int(g.YOffset))
		maxY = max(maxY, int(g.YOffset)+int(g.Height))
		w += int(g.XAdvance)
	}
	return w, maxY - minY
}

// Validate checks the consistency of the glyph table with the bitmap.
func (f *Font) Validate() error {
	if f.Last < f.First {
		return fmt.Errorf("gfxfont: invalid range [%d, %d]", f.First, f.Last)
	}
	if n := int(f.Last-f.First) + 1; len(f.Glyphs) != n {
		return fmt.Errorf("gfxfont: expected %d glyphs, got %d", n, len(f.Glyphs))
	}
	if f.YAdvance == 0 {
		return errors.New("gfxfont: YAdvance must be set")
	}
	for i := range f.Glyphs {
		g := &f.Glyphs[i]
		end := int(g.BitmapOffset) + (int(g.Width)*int(g.Height)+7)/8
		if end > len(f.Bitmap) {
			return fmt.Errorf("gfxfont: glyph %q bitmap overflows: %d > %d", f.First+rune(i), end, len(f.Bitmap))
		}
	}
	return nil
}

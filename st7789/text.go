// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"image"
	"strconv"

	"github.com/GermanBionicSystems/tft/st7789/gfxfont"
	"github.com/GermanBionicSystems/tft/st7789/rgb565"
)

// Align places text relative to the display edges. Combine one horizontal
// and one vertical value.
type Align uint8

// Alignments. When more than one is set on an axis, Center wins over Left,
// which wins over Right, and Top wins over Middle, which wins over Bottom.
const (
	AlignLeft   Align = 2
	AlignCenter Align = 4
	AlignRight  Align = 8
	AlignTop    Align = 16
	AlignMiddle Align = 32
	AlignBottom Align = 64
)

// padding is the margin kept by edge alignments.
const padding = 5

// SetFont selects the font used by Print. nil disables text.
func (d *Dev) SetFont(f *gfxfont.Font) {
	d.font = f
}

// Font returns the current font.
func (d *Dev) Font() *gfxfont.Font {
	return d.font
}

// SetTextColor selects the color used by Print.
func (d *Dev) SetTextColor(c rgb565.Color) {
	d.textColor = c
}

// SetCursor moves the pen so that the next line printed has its top at y.
func (d *Dev) SetCursor(x, y int) {
	d.cursor = image.Point{X: x, Y: y + d.lineHeight()}
}

// Cursor returns the pen position. Y is the baseline.
func (d *Dev) Cursor() image.Point {
	return d.cursor
}

// Measure returns the size of text rendered with the current font.
func (d *Dev) Measure(text string) (w, h int) {
	return d.font.Measure(text)
}

// DrawChar draws r with its baseline origin at (x, y). It does nothing when
// the font doesn't have r.
func (d *Dev) DrawChar(x, y int, r rune, c rgb565.Color) error {
	g, ok := d.font.Glyph(r)
	if !ok {
		return nil
	}
	x += int(g.XOffset)
	y += int(g.YOffset)
	for row := 0; row < int(g.Height); row++ {
		err := forEachRun(int(g.Width), func(i int) bool {
			return d.font.Pixel(g, i, row)
		}, func(start, n int) error {
			return d.FillRect(x+start, y+row, n, 1, c)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Print draws text at the cursor and moves it past the text. A newline moves
// the cursor to the start of the next line, at x = 0. Without a font, neither
// the display nor the cursor change.
func (d *Dev) Print(text string) error {
	if d.font == nil {
		return nil
	}
	return d.print(text, 0)
}

// PrintUint prints v in decimal.
func (d *Dev) PrintUint(v uint32) error {
	return d.Print(strconv.FormatUint(uint64(v), 10))
}

// PrintAligned prints text aligned to the display edges, then shifted by
// (dx, dy). An axis with no alignment keeps the cursor position. Following
// lines start at the aligned x.
func (d *Dev) PrintAligned(text string, a Align, dx, dy int) error {
	if d.font == nil {
		return nil
	}
	tw, th := d.Measure(text)
	x, y := d.cursor.X, d.cursor.Y
	switch {
	case a&AlignCenter != 0:
		x = (d.rect.Dx() - tw) / 2
	case a&AlignLeft != 0:
		x = padding
	case a&AlignRight != 0:
		x = d.rect.Dx() - tw - padding
	}
	switch {
	case a&AlignTop != 0:
		y = th + padding
	case a&AlignMiddle != 0:
		y = (d.rect.Dy()-th)/2 + th
	case a&AlignBottom != 0:
		y = d.rect.Dy() - padding
	}
	d.cursor = image.Point{X: x + dx, Y: y + dy}
	return d.print(text, x+dx)
}

// PrintUintAligned is PrintAligned for v in decimal.
func (d *Dev) PrintUintAligned(v uint32, a Align, dx, dy int) error {
	return d.PrintAligned(strconv.FormatUint(uint64(v), 10), a, dx, dy)
}

// print draws text at the cursor. Newlines return to x = left.
func (d *Dev) print(text string, left int) error {
	for _, r := range text {
		if r == '\n' {
			d.cursor.X = left
			d.cursor.Y += d.lineHeight()
			continue
		}
		g, ok := d.font.Glyph(r)
		if !ok {
			continue
		}
		if err := d.DrawChar(d.cursor.X, d.cursor.Y, r, d.textColor); err != nil {
			return err
		}
		d.cursor.X += int(g.XAdvance)
	}
	return nil
}

func (d *Dev) lineHeight() int {
	if d.font == nil {
		return 0
	}
	return int(d.font.YAdvance)
}

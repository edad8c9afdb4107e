// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/GermanBionicSystems/tft/st7789/rgb565"
)

// DrawPixel sets the pixel at (x, y). It does nothing outside the display.
func (d *Dev) DrawPixel(x, y int, c rgb565.Color) error {
	if !(image.Point{X: x, Y: y}).In(d.rect) {
		return nil
	}
	if err := setWindow(d.ctrl, image.Rect(x, y, x+1, y+1)); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(d.pixel[:], uint16(c))
	return d.ctrl.writeData(d.pixel[:])
}

// FillRect fills the w x h rectangle at (x, y), clipped to the display.
func (d *Dev) FillRect(x, y, w, h int, c rgb565.Color) error {
	r, _, ok := clipRect(d.rect, x, y, w, h)
	if !ok {
		return nil
	}
	return d.buf.streamRows(d.ctrl, r, func(buf []byte, _, _ int) {
		fillColor(buf, c)
	})
}

// DrawHLine draws a horizontal line of w pixels starting at (x, y).
func (d *Dev) DrawHLine(x, y, w int, c rgb565.Color) error {
	return d.FillRect(x, y, w, 1, c)
}

// DrawVLine draws a vertical line of h pixels starting at (x, y).
func (d *Dev) DrawVLine(x, y, h int, c rgb565.Color) error {
	return d.FillRect(x, y, 1, h, c)
}

// FillScreen sets the whole display to c.
func (d *Dev) FillScreen(c rgb565.Color) error {
	return d.FillRect(0, 0, d.rect.Dx(), d.rect.Dy(), c)
}

// DrawSprite draws the w x h row-major bitmap src at (x, y), clipped to the
// display.
//
// src must hold at least w*h pixels.
func (d *Dev) DrawSprite(x, y, w, h int, src []rgb565.Color) error {
	if err := checkSource(w, h, src); err != nil {
		return err
	}
	r, off, ok := clipRect(d.rect, x, y, w, h)
	if !ok {
		return nil
	}
	cw := r.Dx()
	return d.buf.streamRows(d.ctrl, r, func(buf []byte, first, n int) {
		for i := 0; i < n; i++ {
			s := (off.Y+first+i)*w + off.X
			putColors(buf[2*cw*i:], src[s:s+cw])
		}
	})
}

// DrawKeyedBitmap draws the w x h row-major bitmap src at (x, y), skipping
// the pixels equal to rgb565.Key.
//
// Each run of opaque pixels is sent as its own transfer, so heavily
// transparent bitmaps are slower than sprites.
func (d *Dev) DrawKeyedBitmap(x, y, w, h int, src []rgb565.Color) error {
	if err := checkSource(w, h, src); err != nil {
		return err
	}
	r, off, ok := clipRect(d.rect, x, y, w, h)
	if !ok {
		return nil
	}
	cw := r.Dx()
	for ry := 0; ry < r.Dy(); ry++ {
		dy := r.Min.Y + ry
		row := src[(off.Y+ry)*w+off.X:][:cw]
		err := forEachRun(cw, func(i int) bool {
			return row[i] != rgb565.Key
		}, func(start, n int) error {
			run := image.Rect(r.Min.X+start, dy, r.Min.X+start+n, dy+1)
			return d.buf.streamRows(d.ctrl, run, func(buf []byte, _, _ int) {
				putColors(buf, row[start:start+n])
			})
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Draw implements display.Drawer.
//
// Pixels are converted with rgb565.Model. It is faster with a *rgb565.Image
// source.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, sp image.Point) error {
	r := dstRect.Intersect(d.rect)
	if r.Empty() {
		return nil
	}
	sp = sp.Add(r.Min.Sub(dstRect.Min))
	w := r.Dx()
	at := func(x, y int) rgb565.Color {
		return rgb565.Model.Convert(src.At(x, y)).(rgb565.Color)
	}
	if img, ok := src.(*rgb565.Image); ok {
		at = img.ColorAt
	}
	return d.buf.streamRows(d.ctrl, r, func(buf []byte, first, n int) {
		for i := 0; i < n; i++ {
			sy := sp.Y + first + i
			line := buf[2*w*i:]
			for x := 0; x < w; x++ {
				binary.BigEndian.PutUint16(line[2*x:], uint16(at(sp.X+x, sy)))
			}
		}
	})
}

func checkSource(w, h int, src []rgb565.Color) error {
	if w > 0 && h > 0 && len(src) < w*h {
		return fmt.Errorf("st7789: bitmap of %dx%d needs %d pixels, got %d", w, h, w*h, len(src))
	}
	return nil
}

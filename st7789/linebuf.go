// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"encoding/binary"
	"image"

	"github.com/GermanBionicSystems/tft/st7789/rgb565"
)

// lineBuffer holds rows of pixels in wire order, big endian.
type lineBuffer struct {
	b    []byte
	rows int
}

func newLineBuffer(w, rows int) lineBuffer {
	return lineBuffer{b: make([]byte, 2*w*rows), rows: rows}
}

// streamRows covers area in chunks of at most l.rows rows. For each chunk,
// fill renders rows [first, first+n) of area into buf, which is then sent to
// the matching window.
//
// area must be within the display.
func (l *lineBuffer) streamRows(ctrl controller, area image.Rectangle, fill func(buf []byte, first, n int)) error {
	w, h := area.Dx(), area.Dy()
	for first := 0; first < h; {
		n := min(h-first, l.rows)
		buf := l.b[:2*w*n]
		fill(buf, first, n)
		y := area.Min.Y + first
		if err := setWindow(ctrl, image.Rect(area.Min.X, y, area.Max.X, y+n)); err != nil {
			return err
		}
		if err := ctrl.writeData(buf); err != nil {
			return err
		}
		first += n
	}
	return nil
}

// fillColor sets every pixel of buf to c.
func fillColor(buf []byte, c rgb565.Color) {
	if len(buf) < 2 {
		return
	}
	binary.BigEndian.PutUint16(buf, uint16(c))
	for n := 2; n < len(buf); n *= 2 {
		copy(buf[n:], buf[:n])
	}
}

// putColors writes src into buf.
func putColors(buf []byte, src []rgb565.Color) {
	for i, c := range src {
		binary.BigEndian.PutUint16(buf[2*i:], uint16(c))
	}
}

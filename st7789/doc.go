// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7789 controls ST7789 class color TFT displays over SPI.
//
// The driver keeps no frame buffer. Every drawing operation is clipped to the
// display, rendered into a small line buffer of Opts.BufferRows rows and
// streamed to a window of the display memory, in as many chunks as needed.
// Memory use is thus 2*W*BufferRows bytes regardless of the display size.
//
// Text is drawn with proportional bitmap fonts from package gfxfont. The pen
// sits on the baseline: a glyph is drawn with its top-left corner at
// (x+XOffset, y+YOffset).
//
// The color rgb565.Key (0x0001) is reserved as the transparent color of
// DrawKeyedBitmap.
//
// Dev is not safe for concurrent use.
//
// # Datasheet
//
// https://www.newhavendisplay.com/appnotes/datasheets/LCDs/ST7789V.pdf
package st7789

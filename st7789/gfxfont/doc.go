// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gfxfont implements compact proportional bitmap fonts.
//
// The layout is the one popularized by the Adafruit GFX library: a single
// bitmap blob shared by all glyphs, and a table of glyphs indexed by character
// code in the range [First, Last]. Each glyph bitmap is a continuous most
// significant bit first bitstream of Width*Height bits, row-major, starting on
// a byte boundary.
//
// Fonts are immutable once built. They can be declared as Go literals, or
// built at runtime from any golang.org/x/image/font.Face, including TrueType
// fonts via FromTrueType.
package gfxfont

// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgb565 implements the 16 bits per pixel color format used by ST7789
// class TFT controllers.
//
// A Color is kept in host order. It must be converted to big endian exactly
// once before being sent on the wire.
//
// The value 0x0001 is reserved as Key, the transparency marker of keyed
// bitmaps. It is a legitimate near black color that cannot be displayed by
// keyed drawing operations.
package rgb565

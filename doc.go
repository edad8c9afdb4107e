// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tft is a container for color TFT display drivers and their tools.
//
// See st7789 for the driver, st7789/st7789sim to run it without hardware and
// cmd/img2rgb565 to embed images.
package tft

// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7789sim emulates an ST7789 class panel on the host.
//
// Panel implements spi.PortCloser. It decodes the command/data byte stream
// sent by a driver, using the level of its DC pin to tell commands from
// parameters, into an emulated display memory. Console renders that memory
// to a terminal using ANSI 256 colors.
//
// It permits to develop and test drawing code without hardware.
package st7789sim

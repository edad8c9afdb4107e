// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/GermanBionicSystems/tft/st7789"
	"github.com/GermanBionicSystems/tft/st7789/rgb565"
	"github.com/GermanBionicSystems/tft/st7789/st7789sim"
)

func TestNativeSize(t *testing.T) {
	data := []struct {
		rotation uint8
		w, h     int
	}{
		{0, 320, 240},
		{1, 240, 320},
		{2, 320, 240},
		{3, 240, 320},
	}
	for _, line := range data {
		if w, h := nativeSize(320, 240, line.rotation); w != line.w || h != line.h {
			t.Errorf("nativeSize(320, 240, %d) = %d, %d", line.rotation, w, h)
		}
	}
}

func TestEmulatorRotatedFill(t *testing.T) {
	for _, rotation := range []uint8{1, 3} {
		w, h := nativeSize(320, 240, rotation)
		p, err := st7789sim.NewPanel(&st7789sim.Opts{W: w, H: h})
		if err != nil {
			t.Fatal(err)
		}
		opts := st7789.DefaultOpts
		opts.W, opts.H = 320, 240
		opts.Rotation = rotation
		d, err := st7789.New(p, p.DC(), p.RST(), p.BL(), &opts)
		if err != nil {
			t.Fatal(err)
		}
		if err := d.Begin(); err != nil {
			t.Fatal(err)
		}
		if err := d.FillScreen(rgb565.White); err != nil {
			t.Fatal(err)
		}
		m := p.Memory()
		for i, c := range m.Pix {
			if c != rgb565.White {
				t.Fatalf("rotation %d: pixel %d is %s", rotation, i, c)
			}
		}
	}
}

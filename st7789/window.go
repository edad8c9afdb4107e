// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import "image"

// setWindow selects the memory area written by the next RAMWR. The
// controller then expects exactly area.Dx()*area.Dy() pixels.
func setWindow(ctrl controller, area image.Rectangle) error {
	x0, x1 := area.Min.X, area.Max.X-1
	y0, y1 := area.Min.Y, area.Max.Y-1
	if err := sendCommand(ctrl, caSet, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := sendCommand(ctrl, raSet, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return ctrl.writeCommand(ramWr)
}

// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// errorHandler keeps the first error of a command sequence and skips the
// following steps.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	if err := eh.d.rst.Out(l); err != nil {
		eh.err = fmt.Errorf("st7789: reset: %w", err)
	}
}

func (eh *errorHandler) command(cmd byte, params ...byte) {
	if eh.err != nil {
		return
	}
	eh.err = sendCommand(eh.d.ctrl, cmd, params...)
}

func (eh *errorHandler) sleep(d time.Duration) {
	if eh.err != nil {
		return
	}
	eh.d.sleep(d)
}

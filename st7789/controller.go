// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// defaultMaxTxSize is used when the connection doesn't report a limit.
const defaultMaxTxSize = 4096

// controller is the command/data transport to the display controller.
type controller interface {
	writeCommand(cmd byte) error
	writeData(data []byte) error
}

// spiController selects command or data mode with the dc pin.
type spiController struct {
	c         conn.Conn
	dc        gpio.PinOut
	maxTxSize int
	cmd       [1]byte
}

func newSPIController(c conn.Conn, dc gpio.PinOut) *spiController {
	s := &spiController{c: c, dc: dc, maxTxSize: defaultMaxTxSize}
	if l, ok := c.(conn.Limits); ok {
		if n := l.MaxTxSize(); n > 0 {
			s.maxTxSize = n
		}
	}
	return s
}

func (s *spiController) writeCommand(cmd byte) error {
	if err := s.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("st7789: dc: %w", err)
	}
	s.cmd[0] = cmd
	if err := s.c.Tx(s.cmd[:], nil); err != nil {
		return fmt.Errorf("st7789: command 0x%02X: %w", cmd, err)
	}
	return nil
}

// writeData sends data in pieces no larger than the connection accepts.
func (s *spiController) writeData(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := s.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("st7789: dc: %w", err)
	}
	for len(data) != 0 {
		n := min(len(data), s.maxTxSize)
		if err := s.c.Tx(data[:n], nil); err != nil {
			return fmt.Errorf("st7789: data: %w", err)
		}
		data = data[n:]
	}
	return nil
}

// sendCommand sends a command followed by its parameters.
func sendCommand(ctrl controller, cmd byte, params ...byte) error {
	if err := ctrl.writeCommand(cmd); err != nil {
		return err
	}
	if len(params) == 0 {
		return nil
	}
	return ctrl.writeData(params)
}

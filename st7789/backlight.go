// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// SetBrightness sets the backlight level. 0 turns it off and 255 fully on,
// values in between use PWM at Opts.BacklightFrequency.
//
// It does nothing when there is no backlight pin.
func (d *Dev) SetBrightness(level uint8) error {
	if d.bl == nil {
		return nil
	}
	var err error
	switch level {
	case 0:
		err = d.bl.Out(gpio.Low)
	case 255:
		err = d.bl.Out(gpio.High)
	default:
		duty := gpio.Duty(int64(gpio.DutyMax) * int64(level) / 255)
		err = d.bl.PWM(duty, d.opts.BacklightFrequency)
	}
	if err != nil {
		return fmt.Errorf("st7789: backlight: %w", err)
	}
	d.brightness = level
	return nil
}

// Brightness returns the last level set.
func (d *Dev) Brightness() uint8 {
	return d.brightness
}

// FadeIn ramps the backlight from off to full over duration. It blocks.
func (d *Dev) FadeIn(duration time.Duration) error {
	if d.bl == nil {
		return nil
	}
	step := duration / 255
	for i := 0; i <= 255; i++ {
		if err := d.SetBrightness(uint8(i)); err != nil {
			return err
		}
		d.sleep(step)
	}
	return nil
}

// FadeOut ramps the backlight from full to off over duration. It blocks.
func (d *Dev) FadeOut(duration time.Duration) error {
	if d.bl == nil {
		return nil
	}
	step := duration / 255
	for i := 255; i > 0; i-- {
		if err := d.SetBrightness(uint8(i)); err != nil {
			return err
		}
		d.sleep(step)
	}
	return d.SetBrightness(0)
}

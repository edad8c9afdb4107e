// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/GermanBionicSystems/tft/st7789/gfxfont"
	"github.com/GermanBionicSystems/tft/st7789/rgb565"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Commands.
const (
	swReset byte = 0x01
	slpOut  byte = 0x11
	invOff  byte = 0x20
	invOn   byte = 0x21
	dispOff byte = 0x28
	dispOn  byte = 0x29
	caSet   byte = 0x2A
	raSet   byte = 0x2B
	ramWr   byte = 0x2C
	madCtl  byte = 0x36
	colMod  byte = 0x3A
)

// MADCTL bits.
const (
	madCtlMY  byte = 0x80
	madCtlMX  byte = 0x40
	madCtlMV  byte = 0x20
	madCtlBGR byte = 0x08
)

// colMod16 selects 16 bits per pixel on both interfaces.
const colMod16 byte = 0x55

// rotationBits maps a rotation to its MADCTL bits.
var rotationBits = [4]byte{
	0,
	madCtlMV | madCtlMX,
	madCtlMX | madCtlMY,
	madCtlMV | madCtlMY,
}

// State is the initialization state of a Dev.
type State uint8

// States, in order.
const (
	Uninitialized State = iota
	Resetting
	Initializing
	Ready
)

const stateName = "UninitializedResettingInitializingReady"

var stateIndex = [...]uint8{0, 13, 22, 34, 39}

func (s State) String() string {
	if int(s) >= len(stateIndex)-1 {
		return fmt.Sprintf("State(%d)", s)
	}
	return stateName[stateIndex[s]:stateIndex[s+1]]
}

// DefaultOpts is the recommended default options for a 240x240 panel.
var DefaultOpts = Opts{
	W:                  240,
	H:                  240,
	BufferRows:         20,
	Speed:              40 * physic.MegaHertz,
	Rotation:           0,
	BGR:                false,
	BacklightFrequency: 5 * physic.KiloHertz,
}

// Opts defines the options for the device.
type Opts struct {
	W int
	H int
	// BufferRows is the number of rows of the line buffer. It bounds the
	// memory used by the driver to 2*W*BufferRows bytes. Defaults to 20 and is
	// capped to H.
	BufferRows int
	// Speed is the SPI clock. Defaults to 40MHz.
	Speed physic.Frequency
	// Rotation in quarter turns, applied by Begin.
	Rotation uint8
	// BGR selects the blue-green-red color order, applied by Begin.
	BGR bool
	// BacklightFrequency is the PWM frequency of the backlight. Defaults to
	// 5kHz.
	BacklightFrequency physic.Frequency
}

// Dev is an open handle to the display controller.
type Dev struct {
	name string
	ctrl controller
	// rst and bl are optional.
	rst gpio.PinOut
	bl  gpio.PinOut

	opts  Opts
	rect  image.Rectangle
	buf   lineBuffer
	pixel [2]byte

	state      State
	rotation   uint8
	bgr        bool
	madctl     byte
	brightness uint8

	font      *gfxfont.Font
	cursor    image.Point
	textColor rgb565.Color

	sleep func(time.Duration)
}

// New opens a handle to an ST7789 connected over SPI.
//
// dc is the data/command select pin and is required. rst and bl are the
// reset and backlight pins and can be nil. The display must be initialized
// with Begin before drawing.
func New(p spi.Port, dc, rst, bl gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil {
		return nil, errors.New("st7789: dc pin is required")
	}
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	c, err := p.Connect(o.Speed, spi.Mode3, 8)
	if err != nil {
		return nil, fmt.Errorf("st7789: %w", err)
	}
	d := newDev(newSPIController(c, dc), rst, bl, &o)
	d.name = fmt.Sprintf("st7789.Dev{%s, %s, %s}", c, dc, d.rect.Max)
	return d, nil
}

func (o *Opts) withDefaults() (Opts, error) {
	r := *o
	if r.W < 1 || r.H < 1 {
		return r, fmt.Errorf("st7789: invalid size %dx%d", r.W, r.H)
	}
	if r.BufferRows < 0 {
		return r, fmt.Errorf("st7789: invalid BufferRows %d", r.BufferRows)
	}
	if r.BufferRows == 0 {
		r.BufferRows = DefaultOpts.BufferRows
	}
	r.BufferRows = min(r.BufferRows, r.H)
	if r.Speed == 0 {
		r.Speed = DefaultOpts.Speed
	}
	if r.BacklightFrequency == 0 {
		r.BacklightFrequency = DefaultOpts.BacklightFrequency
	}
	r.Rotation &= 3
	return r, nil
}

func newDev(ctrl controller, rst, bl gpio.PinOut, opts *Opts) *Dev {
	return &Dev{
		name:      "st7789.Dev",
		ctrl:      ctrl,
		rst:       rst,
		bl:        bl,
		opts:      *opts,
		rect:      image.Rect(0, 0, opts.W, opts.H),
		buf:       newLineBuffer(opts.W, opts.BufferRows),
		textColor: rgb565.White,
		sleep:     time.Sleep,
	}
}

func (d *Dev) String() string {
	return d.name
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds implements display.Drawer.
//
// The size doesn't change with the rotation.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Width returns the display width in pixels.
func (d *Dev) Width() int {
	return d.rect.Dx()
}

// Height returns the display height in pixels.
func (d *Dev) Height() int {
	return d.rect.Dy()
}

// State returns the initialization state.
func (d *Dev) State() State {
	return d.state
}

// Begin resets and initializes the display, then applies the rotation and
// color order from Opts, turns the backlight fully on and selects the default
// font.
func (d *Dev) Begin() error {
	d.state = Resetting
	eh := errorHandler{d: d}
	if d.rst != nil {
		eh.rstOut(gpio.Low)
		eh.sleep(100 * time.Millisecond)
		eh.rstOut(gpio.High)
		eh.sleep(120 * time.Millisecond)
	}
	d.state = Initializing
	eh.command(swReset)
	eh.sleep(150 * time.Millisecond)
	eh.command(slpOut)
	eh.sleep(120 * time.Millisecond)
	eh.command(colMod, colMod16)
	// Power-on orientation, until the options are applied below.
	eh.command(madCtl, madCtlBGR)
	eh.command(invOn)
	eh.command(dispOn)
	eh.sleep(100 * time.Millisecond)
	if eh.err != nil {
		d.state = Uninitialized
		return eh.err
	}
	d.rotation, d.bgr, d.madctl = 0, true, madCtlBGR
	d.state = Ready

	d.bgr = d.opts.BGR
	if err := d.SetRotation(d.opts.Rotation); err != nil {
		return err
	}
	if err := d.SetBrightness(255); err != nil {
		return err
	}
	d.SetFont(gfxfont.Basic())
	return nil
}

// SetRotation sets the orientation in quarter turns. Only the two lowest bits
// of r are used.
func (d *Dev) SetRotation(r uint8) error {
	d.rotation = r & 3
	return d.writeMADCTL()
}

// Rotation returns the current orientation.
func (d *Dev) Rotation() uint8 {
	return d.rotation
}

// SetColorOrderRGB selects the red-green-blue order of the panel.
func (d *Dev) SetColorOrderRGB() error {
	d.bgr = false
	return d.writeMADCTL()
}

// SetColorOrderBGR selects the blue-green-red order of the panel.
func (d *Dev) SetColorOrderBGR() error {
	d.bgr = true
	return d.writeMADCTL()
}

// SetInversion turns on or off color inversion.
//
// Most IPS panels need inversion turned on to display true colors, which is
// what Begin does.
func (d *Dev) SetInversion(on bool) error {
	if on {
		return d.ctrl.writeCommand(invOn)
	}
	return d.ctrl.writeCommand(invOff)
}

// Halt implements conn.Resource.
//
// It turns off the backlight and the display. The display memory is kept.
func (d *Dev) Halt() error {
	if err := d.SetBrightness(0); err != nil {
		return err
	}
	return d.ctrl.writeCommand(dispOff)
}

// writeMADCTL derives MADCTL from the rotation and the color order.
func (d *Dev) writeMADCTL() error {
	d.madctl = rotationBits[d.rotation]
	if d.bgr {
		d.madctl |= madCtlBGR
	}
	return sendCommand(d.ctrl, madCtl, d.madctl)
}

var _ display.Drawer = &Dev{}

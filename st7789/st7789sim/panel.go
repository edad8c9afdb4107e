// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789sim

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/GermanBionicSystems/tft/st7789/rgb565"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Commands understood by the emulated controller.
const (
	swReset  byte = 0x01
	slpOut   byte = 0x11
	invOff   byte = 0x20
	invOn    byte = 0x21
	dispOff  byte = 0x28
	dispOn   byte = 0x29
	caSet    byte = 0x2A
	raSet    byte = 0x2B
	ramWr    byte = 0x2C
	madCtl   byte = 0x36
	colMod   byte = 0x3A
	madCtlMY byte = 0x80
	madCtlMX byte = 0x40
	madCtlMV byte = 0x20
	madBGR   byte = 0x08
)

// Opts represents the options of the emulated panel.
type Opts struct {
	// W and H are the native size of the display memory.
	W int
	H int
	// MaxTxSize is the largest accepted transfer. 0 means unlimited.
	MaxTxSize int
}

// Stats counts what the panel received.
type Stats struct {
	Commands int
	// Windows is the number of RAMWR commands.
	Windows int
	// Transfers is the number of Tx calls carrying pixel data.
	Transfers int
	Pixels    int
}

// Panel is an emulated ST7789 panel connected over SPI.
type Panel struct {
	dc  gpiotest.Pin
	rst gpiotest.Pin
	bl  backlight

	mu        sync.Mutex
	opts      Opts
	connected bool
	freq      physic.Frequency
	mode      spi.Mode
	mem       *rgb565.Image
	madctl    byte
	colmod    byte
	inverted  bool
	on        bool
	asleep    bool
	cmd       byte
	args      []byte
	carry     []byte
	col       [2]int
	row       [2]int
	cx, cy    int
	stats     Stats
	gen       uint64
}

// NewPanel returns an emulated panel in its power-on state.
func NewPanel(opts *Opts) (*Panel, error) {
	if opts.W < 1 || opts.H < 1 {
		return nil, fmt.Errorf("st7789sim: invalid size %dx%d", opts.W, opts.H)
	}
	p := &Panel{
		dc:   gpiotest.Pin{N: "DC", Num: -1},
		rst:  gpiotest.Pin{N: "RST", Num: -1, L: gpio.High},
		bl:   backlight{Pin: gpiotest.Pin{N: "BL", Num: -1}},
		opts: *opts,
		mem:  rgb565.NewImage(image.Rect(0, 0, opts.W, opts.H)),
	}
	p.reset()
	return p, nil
}

func (p *Panel) String() string {
	return fmt.Sprintf("st7789sim(%dx%d)", p.opts.W, p.opts.H)
}

// DC returns the data/command pin to pass to the driver.
func (p *Panel) DC() gpio.PinIO {
	return &p.dc
}

// RST returns the reset pin to pass to the driver.
//
// The panel does not watch it. A driver following the reset pulse with
// SWRESET gets the same effect.
func (p *Panel) RST() gpio.PinIO {
	return &p.rst
}

// BL returns the backlight pin to pass to the driver.
func (p *Panel) BL() gpio.PinIO {
	return &p.bl
}

// Brightness returns the backlight level in [0, 255].
func (p *Panel) Brightness() uint8 {
	p.bl.Lock()
	defer p.bl.Unlock()
	return p.bl.level
}

// Close implements spi.PortCloser.
func (p *Panel) Close() error {
	return nil
}

// LimitSpeed implements spi.PortCloser.
func (p *Panel) LimitSpeed(f physic.Frequency) error {
	return nil
}

// Connect implements spi.Port.
func (p *Panel) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.connected {
		return nil, errors.New("st7789sim: Connect cannot be called twice")
	}
	if bits != 8 {
		return nil, fmt.Errorf("st7789sim: unsupported %d bits per word", bits)
	}
	p.connected = true
	p.freq = f
	p.mode = mode
	return &panelConn{p: p}, nil
}

// Stats returns the counters accumulated since the last ResetStats.
func (p *Panel) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// ResetStats clears the counters.
func (p *Panel) ResetStats() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = Stats{}
}

// Generation returns a counter incremented by every transfer.
func (p *Panel) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

// MADCTL returns the memory access control register.
func (p *Panel) MADCTL() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.madctl
}

// Memory returns a copy of the display memory, in native orientation.
func (p *Panel) Memory() *rgb565.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	m := rgb565.NewImage(p.mem.Rect)
	copy(m.Pix, p.mem.Pix)
	return m
}

// Image returns what the glass shows, in native orientation.
//
// The emulated glass is an IPS panel: colors show as written with inversion
// on and complemented with inversion off. It is black when the display is off
// or asleep.
func (p *Panel) Image() *rgb565.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	m := rgb565.NewImage(p.mem.Rect)
	if !p.on || p.asleep {
		return m
	}
	for i, c := range p.mem.Pix {
		if !p.inverted {
			c = ^c
		}
		m.Pix[i] = c
	}
	return m
}

func (p *Panel) reset() {
	p.madctl = 0
	p.colmod = 0x66
	p.inverted = false
	p.on = false
	p.asleep = true
	p.cmd = 0
	p.args = p.args[:0]
	p.carry = p.carry[:0]
	p.col = [2]int{0, p.opts.W - 1}
	p.row = [2]int{0, p.opts.H - 1}
}

func (p *Panel) tx(w []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if limit := p.opts.MaxTxSize; limit > 0 && len(w) > limit {
		return fmt.Errorf("st7789sim: transfer of %d bytes exceeds %d", len(w), limit)
	}
	p.gen++
	if p.dc.Read() == gpio.Low {
		for _, b := range w {
			p.command(b)
		}
		return nil
	}
	if p.cmd == ramWr {
		p.stats.Transfers++
		p.pixels(w)
		return nil
	}
	for _, b := range w {
		p.param(b)
	}
	return nil
}

func (p *Panel) command(b byte) {
	p.stats.Commands++
	p.cmd = b
	p.args = p.args[:0]
	p.carry = p.carry[:0]
	switch b {
	case swReset:
		p.reset()
	case slpOut:
		p.asleep = false
	case invOff:
		p.inverted = false
	case invOn:
		p.inverted = true
	case dispOff:
		p.on = false
	case dispOn:
		p.on = true
	case ramWr:
		p.stats.Windows++
		p.cx, p.cy = p.col[0], p.row[0]
	}
}

func (p *Panel) param(b byte) {
	p.args = append(p.args, b)
	switch p.cmd {
	case caSet:
		if len(p.args) == 4 {
			p.col = [2]int{int(p.args[0])<<8 | int(p.args[1]), int(p.args[2])<<8 | int(p.args[3])}
		}
	case raSet:
		if len(p.args) == 4 {
			p.row = [2]int{int(p.args[0])<<8 | int(p.args[1]), int(p.args[2])<<8 | int(p.args[3])}
		}
	case madCtl:
		if len(p.args) == 1 {
			p.madctl = b
		}
	case colMod:
		if len(p.args) == 1 {
			p.colmod = b
		}
	}
}

func (p *Panel) pixels(w []byte) {
	if len(p.carry) != 0 && len(w) != 0 {
		p.carry = append(p.carry, w[0])
		p.store(rgb565.Color(p.carry[0])<<8 | rgb565.Color(p.carry[1]))
		p.carry = p.carry[:0]
		w = w[1:]
	}
	for ; len(w) >= 2; w = w[2:] {
		p.store(rgb565.Color(w[0])<<8 | rgb565.Color(w[1]))
	}
	if len(w) == 1 {
		p.carry = append(p.carry, w[0])
	}
}

// store writes c at the current address and advances it.
func (p *Panel) store(c rgb565.Color) {
	p.stats.Pixels++
	if p.cy > p.row[1] {
		return
	}
	if p.madctl&madBGR != 0 {
		c = c&0x07E0 | c>>11 | c<<11
	}
	if x, y, ok := p.native(p.cx, p.cy); ok {
		p.mem.SetColor(x, y, c)
	}
	if p.cx++; p.cx > p.col[1] {
		p.cx = p.col[0]
		p.cy++
	}
}

// native maps a window address to the display memory using MADCTL.
func (p *Panel) native(x, y int) (int, int, bool) {
	lw, lh := p.opts.W, p.opts.H
	mv := p.madctl&madCtlMV != 0
	if mv {
		lw, lh = lh, lw
	}
	if x < 0 || y < 0 || x >= lw || y >= lh {
		return 0, 0, false
	}
	if p.madctl&madCtlMX != 0 {
		x = lw - 1 - x
	}
	if p.madctl&madCtlMY != 0 {
		y = lh - 1 - y
	}
	if mv {
		x, y = y, x
	}
	return x, y, true
}

// backlight remembers the last level driven, whether by Out or PWM.
type backlight struct {
	gpiotest.Pin
	level uint8
}

// Out implements gpio.PinOut.
func (b *backlight) Out(l gpio.Level) error {
	b.Lock()
	defer b.Unlock()
	b.L = l
	b.D = 0
	b.level = 0
	if l {
		b.level = 255
	}
	return nil
}

// PWM implements gpio.PinOut.
func (b *backlight) PWM(duty gpio.Duty, f physic.Frequency) error {
	b.Lock()
	defer b.Unlock()
	b.D = duty
	b.F = f
	b.level = uint8((uint64(duty)*255 + uint64(gpio.DutyMax)/2) / uint64(gpio.DutyMax))
	return nil
}

type panelConn struct {
	p *Panel
}

func (c *panelConn) String() string {
	return c.p.String()
}

// Tx implements conn.Conn.
//
// The panel is write only.
func (c *panelConn) Tx(w, r []byte) error {
	if len(r) != 0 {
		return errors.New("st7789sim: read not supported")
	}
	return c.p.tx(w)
}

// TxPackets implements spi.Conn.
func (c *panelConn) TxPackets(pkts []spi.Packet) error {
	for _, pkt := range pkts {
		if err := c.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

// Duplex implements conn.Conn.
func (c *panelConn) Duplex() conn.Duplex {
	return conn.Half
}

// MaxTxSize implements conn.Limits.
func (c *panelConn) MaxTxSize() int {
	return c.p.opts.MaxTxSize
}

var _ spi.PortCloser = &Panel{}
var _ spi.Conn = &panelConn{}
var _ conn.Limits = &panelConn{}

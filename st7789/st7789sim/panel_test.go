// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789sim

import (
	"bytes"
	"strings"
	"testing"

	"github.com/GermanBionicSystems/tft/st7789/rgb565"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

type host struct {
	t *testing.T
	p *Panel
	c spi.Conn
}

func newHost(t *testing.T, opts *Opts) *host {
	p, err := NewPanel(opts)
	if err != nil {
		t.Fatal(err)
	}
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode3, 8)
	if err != nil {
		t.Fatal(err)
	}
	return &host{t: t, p: p, c: c}
}

func (h *host) send(cmd byte, data ...byte) {
	if err := h.p.DC().Out(gpio.Low); err != nil {
		h.t.Fatal(err)
	}
	if err := h.c.Tx([]byte{cmd}, nil); err != nil {
		h.t.Fatal(err)
	}
	if len(data) == 0 {
		return
	}
	if err := h.p.DC().Out(gpio.High); err != nil {
		h.t.Fatal(err)
	}
	if err := h.c.Tx(data, nil); err != nil {
		h.t.Fatal(err)
	}
}

func (h *host) on() {
	h.send(slpOut)
	h.send(invOn)
	h.send(dispOn)
}

func (h *host) window(x0, y0, x1, y1 int) {
	h.send(caSet, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1))
	h.send(raSet, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1))
}

func TestNewPanel(t *testing.T) {
	if _, err := NewPanel(&Opts{W: 0, H: 10}); err == nil {
		t.Fatal("expected error")
	}
	p, err := NewPanel(&Opts{W: 4, H: 3})
	if err != nil {
		t.Fatal(err)
	}
	if s := p.String(); s != "st7789sim(4x3)" {
		t.Fatal(s)
	}
	if _, err := p.Connect(0, spi.Mode3, 8); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Connect(0, spi.Mode3, 8); err == nil {
		t.Fatal("second Connect should fail")
	}
}

func TestPanelWindow(t *testing.T) {
	h := newHost(t, &Opts{W: 4, H: 3})
	h.on()
	h.window(1, 1, 2, 2)
	// Odd split across transfers.
	h.send(ramWr, 0xF8)
	if err := h.c.Tx([]byte{0x00, 0x07, 0xE0, 0x00}, nil); err != nil {
		t.Fatal(err)
	}
	if err := h.c.Tx([]byte{0x1F, 0xFF, 0xFF}, nil); err != nil {
		t.Fatal(err)
	}
	m := h.p.Image()
	want := []rgb565.Color{
		0, 0, 0, 0,
		0, rgb565.Red, rgb565.Green, 0,
		0, rgb565.Blue, rgb565.White, 0,
	}
	if diff := cmp.Diff(m.Pix, want); diff != "" {
		t.Fatalf("Image() difference (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(h.p.Stats(), Stats{Commands: 6, Windows: 1, Transfers: 3, Pixels: 4}); diff != "" {
		t.Fatalf("Stats() difference (-got +want):\n%s", diff)
	}
}

func TestPanelWindowOverflow(t *testing.T) {
	h := newHost(t, &Opts{W: 2, H: 2})
	h.on()
	h.window(0, 0, 0, 0)
	h.send(ramWr, 0xFF, 0xFF, 0x12, 0x34)
	if diff := cmp.Diff(h.p.Image().Pix, []rgb565.Color{rgb565.White, 0, 0, 0}); diff != "" {
		t.Fatalf("Image() difference (-got +want):\n%s", diff)
	}
}

func TestPanelMADCTL(t *testing.T) {
	data := []struct {
		madctl byte
		want   []rgb565.Color
	}{
		{0, []rgb565.Color{1, 2, 3, 4, 5, 6}},
		{madCtlMX, []rgb565.Color{3, 2, 1, 6, 5, 4}},
		{madCtlMY, []rgb565.Color{4, 5, 6, 1, 2, 3}},
		{madCtlMX | madCtlMY, []rgb565.Color{6, 5, 4, 3, 2, 1}},
		{madCtlMV, []rgb565.Color{1, 3, 5, 2, 4, 6}},
	}
	for i, line := range data {
		h := newHost(t, &Opts{W: 3, H: 2})
		h.on()
		h.send(madCtl, line.madctl)
		if line.madctl&madCtlMV != 0 {
			h.window(0, 0, 1, 2)
		} else {
			h.window(0, 0, 2, 1)
		}
		h.send(ramWr, 0, 1, 0, 2, 0, 3, 0, 4, 0, 5, 0, 6)
		if diff := cmp.Diff(h.p.Memory().Pix, line.want); diff != "" {
			t.Errorf("#%d: Memory() difference (-got +want):\n%s", i, diff)
		}
	}
}

func TestPanelBGR(t *testing.T) {
	h := newHost(t, &Opts{W: 1, H: 1})
	h.on()
	h.send(madCtl, madBGR)
	h.send(ramWr, 0xF8, 0x00)
	if c := h.p.Memory().ColorAt(0, 0); c != rgb565.Blue {
		t.Fatalf("got %s", c)
	}
}

func TestPanelGlass(t *testing.T) {
	h := newHost(t, &Opts{W: 1, H: 1})
	h.send(ramWr, 0xF8, 0x00)
	if c := h.p.Image().ColorAt(0, 0); c != rgb565.Black {
		t.Fatalf("display off: got %s", c)
	}
	h.send(slpOut)
	h.send(dispOn)
	if c := h.p.Image().ColorAt(0, 0); c != ^rgb565.Red {
		t.Fatalf("inversion off: got %s", c)
	}
	h.send(invOn)
	if c := h.p.Image().ColorAt(0, 0); c != rgb565.Red {
		t.Fatalf("inversion on: got %s", c)
	}
	h.send(dispOff)
	if c := h.p.Image().ColorAt(0, 0); c != rgb565.Black {
		t.Fatalf("display off: got %s", c)
	}
	h.send(swReset)
	if h.p.MADCTL() != 0 {
		t.Fatal("SWRESET should clear MADCTL")
	}
}

func TestPanelMaxTxSize(t *testing.T) {
	h := newHost(t, &Opts{W: 4, H: 4, MaxTxSize: 4})
	if err := h.c.Tx([]byte{1, 2, 3, 4, 5}, nil); err == nil {
		t.Fatal("expected error")
	}
	if err := h.c.Tx(nil, []byte{0}); err == nil {
		t.Fatal("expected read error")
	}
}

func TestPanelBacklight(t *testing.T) {
	p, err := NewPanel(&Opts{W: 1, H: 1})
	if err != nil {
		t.Fatal(err)
	}
	if p.Brightness() != 0 {
		t.Fatal("backlight should start off")
	}
	if err := p.BL().PWM(gpio.DutyHalf, 5*physic.KiloHertz); err != nil {
		t.Fatal(err)
	}
	if b := p.Brightness(); b != 128 {
		t.Fatalf("got %d", b)
	}
	if err := p.BL().Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if b := p.Brightness(); b != 255 {
		t.Fatalf("got %d", b)
	}
}

func TestConsole(t *testing.T) {
	h := newHost(t, &Opts{W: 4, H: 4})
	h.on()
	buf := bytes.Buffer{}
	c := NewConsole(h.p, &ConsoleOpts{Scale: 2, W: &buf})
	if err := c.Refresh(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\033[H") {
		t.Fatalf("missing home: %q", out)
	}
	if n := strings.Count(out, "\n"); n != 2 {
		t.Fatalf("got %d lines: %q", n, out)
	}
	if err := c.Halt(); err != nil {
		t.Fatal(err)
	}
}

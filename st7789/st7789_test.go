// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/GermanBionicSystems/tft/st7789/gfxfont"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"
)

// newTestDev returns a Dev writing to a fake controller, with no delays.
func newTestDev(t *testing.T, opts Opts) (*Dev, *fakeController) {
	o, err := opts.withDefaults()
	if err != nil {
		t.Fatal(err)
	}
	ctrl := &fakeController{}
	d := newDev(ctrl, nil, nil, &o)
	d.sleep = func(time.Duration) {}
	return d, ctrl
}

func diffRecords(got *fakeController, want []record) string {
	return cmp.Diff([]record(*got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{}))
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name       string
		opts       Opts
		wantString string
		wantBounds image.Rectangle
		wantBuffer int
	}{
		{
			name:       "default",
			opts:       DefaultOpts,
			wantString: "st7789.Dev{playback, (0), (240,240)}",
			wantBounds: image.Rect(0, 0, 240, 240),
			wantBuffer: 2 * 240 * 20,
		},
		{
			name:       "short",
			opts:       Opts{W: 320, H: 8},
			wantString: "st7789.Dev{playback, (0), (320,8)}",
			wantBounds: image.Rect(0, 0, 320, 8),
			wantBuffer: 2 * 320 * 8,
		},
		{
			name:       "single row buffer",
			opts:       Opts{W: 135, H: 240, BufferRows: 1},
			wantString: "st7789.Dev{playback, (0), (135,240)}",
			wantBounds: image.Rect(0, 0, 135, 240),
			wantBuffer: 2 * 135,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dev, err := New(&spitest.Playback{}, &gpiotest.Pin{}, nil, nil, &tc.opts)
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			if diff := cmp.Diff(dev.String(), tc.wantString); diff != "" {
				t.Errorf("String() difference (-got +want):\n%s", diff)
			}
			if diff := cmp.Diff(dev.Bounds(), tc.wantBounds); diff != "" {
				t.Errorf("Bounds() difference (-got +want):\n%s", diff)
			}
			if dev.Width() != tc.wantBounds.Dx() || dev.Height() != tc.wantBounds.Dy() {
				t.Errorf("Width(), Height() = %d, %d", dev.Width(), dev.Height())
			}
			if got := len(dev.buf.b); got != tc.wantBuffer {
				t.Errorf("line buffer = %d bytes; want %d", got, tc.wantBuffer)
			}
			if dev.State() != Uninitialized {
				t.Errorf("State() = %s", dev.State())
			}
		})
	}
}

func TestNewInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		dc   gpio.PinOut
		opts Opts
	}{
		{"no dc", nil, DefaultOpts},
		{"no width", &gpiotest.Pin{}, Opts{H: 10}},
		{"no height", &gpiotest.Pin{}, Opts{W: 10}},
		{"negative rows", &gpiotest.Pin{}, Opts{W: 10, H: 10, BufferRows: -1}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(&spitest.Playback{}, tc.dc, nil, nil, &tc.opts); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestBegin(t *testing.T) {
	rst := &gpiotest.Pin{N: "RST"}
	bl := &gpiotest.Pin{N: "BL"}
	opts := DefaultOpts
	opts.Rotation = 1
	o, err := opts.withDefaults()
	if err != nil {
		t.Fatal(err)
	}
	var got fakeController
	d := newDev(&got, rst, bl, &o)
	var slept time.Duration
	d.sleep = func(d time.Duration) { slept += d }

	if err := d.Begin(); err != nil {
		t.Fatal(err)
	}
	want := []record{
		{cmd: swReset},
		{cmd: slpOut},
		{cmd: colMod, data: []byte{0x55}},
		{cmd: madCtl, data: []byte{madCtlBGR}},
		{cmd: invOn},
		{cmd: dispOn},
		{cmd: madCtl, data: []byte{madCtlMV | madCtlMX}},
	}
	if diff := diffRecords(&got, want); diff != "" {
		t.Errorf("Begin() difference (-got +want):\n%s", diff)
	}
	if slept != 590*time.Millisecond {
		t.Errorf("slept %s", slept)
	}
	if rst.Read() != gpio.High {
		t.Error("reset should be released")
	}
	if bl.Read() != gpio.High || d.Brightness() != 255 {
		t.Error("backlight should be on")
	}
	if d.State() != Ready {
		t.Errorf("State() = %s", d.State())
	}
	if d.Font() != gfxfont.Basic() {
		t.Error("default font not set")
	}
	if d.Rotation() != 1 {
		t.Errorf("Rotation() = %d", d.Rotation())
	}
}

func TestBeginAgain(t *testing.T) {
	d, got := newTestDev(t, DefaultOpts)
	if err := d.SetRotation(3); err != nil {
		t.Fatal(err)
	}
	if err := d.SetColorOrderRGB(); err != nil {
		t.Fatal(err)
	}
	*got = nil
	if err := d.Begin(); err != nil {
		t.Fatal(err)
	}
	want := []record{
		{cmd: swReset},
		{cmd: slpOut},
		{cmd: colMod, data: []byte{0x55}},
		{cmd: madCtl, data: []byte{madCtlBGR}},
		{cmd: invOn},
		{cmd: dispOn},
		{cmd: madCtl, data: []byte{0}},
	}
	if diff := diffRecords(got, want); diff != "" {
		t.Errorf("Begin() difference (-got +want):\n%s", diff)
	}
	if d.Rotation() != 0 || d.bgr || d.madctl != 0 {
		t.Errorf("rotation %d, bgr %t, madctl %#x", d.Rotation(), d.bgr, d.madctl)
	}
}

func TestBeginError(t *testing.T) {
	o, err := DefaultOpts.withDefaults()
	if err != nil {
		t.Fatal(err)
	}
	for ok := 0; ok < 8; ok++ {
		d := newDev(&failingController{ok: ok}, nil, nil, &o)
		d.sleep = func(time.Duration) {}
		if err := d.Begin(); !errors.Is(err, errBus) {
			t.Fatalf("#%d: Begin() = %v", ok, err)
		}
		if ok < 7 && d.State() != Uninitialized {
			t.Fatalf("#%d: State() = %s", ok, d.State())
		}
	}
}

func TestRotation(t *testing.T) {
	want := [8]byte{
		0, madCtlMV | madCtlMX, madCtlMX | madCtlMY, madCtlMV | madCtlMY,
		0, madCtlMV | madCtlMX, madCtlMX | madCtlMY, madCtlMV | madCtlMY,
	}
	for _, bgr := range []bool{false, true} {
		d, got := newTestDev(t, DefaultOpts)
		d.bgr = bgr
		for r := range want {
			*got = nil
			if err := d.SetRotation(uint8(r)); err != nil {
				t.Fatal(err)
			}
			w := want[r]
			if bgr {
				w |= madCtlBGR
			}
			if diff := diffRecords(got, []record{{cmd: madCtl, data: []byte{w}}}); diff != "" {
				t.Errorf("SetRotation(%d) bgr=%t difference (-got +want):\n%s", r, bgr, diff)
			}
			if d.Rotation() != uint8(r&3) {
				t.Errorf("Rotation() = %d", d.Rotation())
			}
		}
	}
}

func TestColorOrder(t *testing.T) {
	for r := uint8(0); r < 4; r++ {
		d, got := newTestDev(t, DefaultOpts)
		if err := d.SetRotation(r); err != nil {
			t.Fatal(err)
		}
		if err := d.SetColorOrderBGR(); err != nil {
			t.Fatal(err)
		}
		if err := d.SetColorOrderRGB(); err != nil {
			t.Fatal(err)
		}
		ref, _ := newTestDev(t, DefaultOpts)
		if err := ref.SetRotation(r); err != nil {
			t.Fatal(err)
		}
		if err := ref.SetColorOrderRGB(); err != nil {
			t.Fatal(err)
		}
		if d.madctl != ref.madctl {
			t.Errorf("#%d: madctl = %#x; want %#x", r, d.madctl, ref.madctl)
		}
		bits := rotationBits[r]
		want := []record{
			{cmd: madCtl, data: []byte{bits}},
			{cmd: madCtl, data: []byte{bits | madCtlBGR}},
			{cmd: madCtl, data: []byte{bits}},
		}
		if diff := diffRecords(got, want); diff != "" {
			t.Errorf("#%d: difference (-got +want):\n%s", r, diff)
		}
	}
}

func TestInversion(t *testing.T) {
	d, got := newTestDev(t, DefaultOpts)
	if err := d.SetInversion(false); err != nil {
		t.Fatal(err)
	}
	if err := d.SetInversion(true); err != nil {
		t.Fatal(err)
	}
	if diff := diffRecords(got, []record{{cmd: invOff}, {cmd: invOn}}); diff != "" {
		t.Errorf("SetInversion() difference (-got +want):\n%s", diff)
	}
}

func TestHalt(t *testing.T) {
	o, err := DefaultOpts.withDefaults()
	if err != nil {
		t.Fatal(err)
	}
	bl := &gpiotest.Pin{L: gpio.High}
	var got fakeController
	d := newDev(&got, nil, bl, &o)
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if bl.Read() != gpio.Low {
		t.Error("backlight should be off")
	}
	if diff := diffRecords(&got, []record{{cmd: dispOff}}); diff != "" {
		t.Errorf("Halt() difference (-got +want):\n%s", diff)
	}
}

func TestBacklight(t *testing.T) {
	o, err := DefaultOpts.withDefaults()
	if err != nil {
		t.Fatal(err)
	}
	bl := &gpiotest.Pin{}
	d := newDev(&fakeController{}, nil, bl, &o)
	var steps int
	d.sleep = func(time.Duration) { steps++ }

	if err := d.SetBrightness(128); err != nil {
		t.Fatal(err)
	}
	if bl.D != 8421504 || bl.F != 5*physic.KiloHertz {
		t.Errorf("PWM(%d, %s)", bl.D, bl.F)
	}
	if err := d.SetBrightness(255); err != nil {
		t.Fatal(err)
	}
	if bl.Read() != gpio.High {
		t.Error("255 should drive the pin high")
	}
	if err := d.SetBrightness(0); err != nil {
		t.Fatal(err)
	}
	if bl.Read() != gpio.Low {
		t.Error("0 should drive the pin low")
	}

	if err := d.FadeIn(time.Second); err != nil {
		t.Fatal(err)
	}
	if steps != 256 || d.Brightness() != 255 || bl.Read() != gpio.High {
		t.Errorf("FadeIn: %d steps, brightness %d", steps, d.Brightness())
	}
	steps = 0
	if err := d.FadeOut(time.Second); err != nil {
		t.Fatal(err)
	}
	if steps != 255 || d.Brightness() != 0 || bl.Read() != gpio.Low {
		t.Errorf("FadeOut: %d steps, brightness %d", steps, d.Brightness())
	}
}

func TestBacklightAbsent(t *testing.T) {
	d, got := newTestDev(t, DefaultOpts)
	if err := d.SetBrightness(10); err != nil {
		t.Fatal(err)
	}
	if err := d.FadeIn(time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := d.FadeOut(time.Hour); err != nil {
		t.Fatal(err)
	}
	if len(*got) != 0 {
		t.Fatal("unexpected transfer")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		Uninitialized: "Uninitialized",
		Resetting:     "Resetting",
		Initializing:  "Initializing",
		Ready:         "Ready",
		State(9):      "State(9)",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d: got %q", s, got)
		}
	}
}

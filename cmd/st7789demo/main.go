// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Program st7789demo draws a few patterns on an ST7789 display.
//
// With -emulate, it draws on an emulated panel rendered in the terminal
// instead.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/GermanBionicSystems/tft/internal/bmpgen"
	"github.com/GermanBionicSystems/tft/st7789"
	"github.com/GermanBionicSystems/tft/st7789/gfxfont"
	"github.com/GermanBionicSystems/tft/st7789/rgb565"
	"github.com/GermanBionicSystems/tft/st7789/st7789sim"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// pin returns the named pin, or nil when name is empty.
func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

// output is where the demo draws, and how to show progress.
type output struct {
	port        spi.Port
	dc, rst, bl gpio.PinOut
	refresh     func() error
	close       func() error
}

func openHardware(spiID, dcName, rstName, blName string) (*output, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	p, err := spireg.Open(spiID)
	if err != nil {
		return nil, err
	}
	o := &output{port: p, refresh: func() error { return nil }, close: p.Close}
	dc, err := pin(dcName)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("-dc is required")
	}
	o.dc = dc
	if o.rst, err = pin(rstName); err != nil {
		return nil, err
	}
	if o.bl, err = pin(blName); err != nil {
		return nil, err
	}
	return o, nil
}

// nativeSize returns the unrotated panel size for a w x h drawing area.
func nativeSize(w, h int, rotation uint8) (int, int) {
	if rotation&1 != 0 {
		return h, w
	}
	return w, h
}

func openEmulator(w, h int, rotation uint8, scale int, addr string) (*output, error) {
	nw, nh := nativeSize(w, h, rotation)
	p, err := st7789sim.NewPanel(&st7789sim.Opts{W: nw, H: nh})
	if err != nil {
		return nil, err
	}
	if addr != "" {
		go func() {
			log.Printf("serving the panel on http://%s/", addr)
			if err := http.ListenAndServe(addr, &st7789sim.Stream{Panel: p}); err != nil {
				log.Printf("http: %v", err)
			}
		}()
	}
	c := st7789sim.NewConsole(p, &st7789sim.ConsoleOpts{Scale: scale})
	return &output{
		port:    p,
		dc:      p.DC(),
		rst:     p.RST(),
		bl:      p.BL(),
		refresh: c.Refresh,
		close:   c.Halt,
	}, nil
}

func rainbow(d *st7789.Dev) error {
	w := d.Width()
	for x := 0; x < w; x++ {
		if err := d.DrawVLine(x, 0, d.Height(), rgb565.FromHue(x*360/w)); err != nil {
			return err
		}
	}
	return nil
}

func text(d *st7789.Dev) error {
	f, err := gfxfont.FromTrueType(goregular.TTF, 20, ' ', '~')
	if err != nil {
		return err
	}
	d.SetFont(f)
	d.SetTextColor(rgb565.White)
	if err := d.PrintAligned("periph\nST7789", st7789.AlignCenter|st7789.AlignMiddle, 0, 0); err != nil {
		return err
	}
	d.SetFont(gfxfont.Basic())
	d.SetTextColor(rgb565.Yellow)
	if err := d.PrintUintAligned(uint32(d.Width()), st7789.AlignLeft|st7789.AlignBottom, 0, 0); err != nil {
		return err
	}
	return d.PrintUintAligned(uint32(d.Height()), st7789.AlignRight|st7789.AlignBottom, 0, 0)
}

// vector draws an antialiased drawing in the middle of the display.
func vector(d *st7789.Dev) error {
	w, h := d.Width()/2, d.Height()/2
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0.2)
	dc.Clear()
	dc.DrawCircle(float64(w)/2, float64(h)/2, float64(min(w, h))/2-2)
	dc.SetRGB(1, 0.5, 0)
	dc.Fill()
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored("gg", float64(w)/2, float64(h)/2, 0.5, 0.5)
	r := image.Rect(0, 0, w, h).Add(image.Point{X: w / 2, Y: h / 2})
	return d.Draw(r, dc.Image(), image.Point{})
}

func picture(d *st7789.Dev, path string) error {
	b, err := bmpgen.Load(path, &bmpgen.Opts{MaxW: d.Width(), MaxH: d.Height(), AlphaThreshold: 0})
	if err != nil {
		return err
	}
	w, h := b.Rect.Dx(), b.Rect.Dy()
	return d.DrawKeyedBitmap((d.Width()-w)/2, (d.Height()-h)/2, w, h, b.Pix)
}

func mainImpl() error {
	spiID := flag.String("spi", "", "SPI port to use")
	dcName := flag.String("dc", "GPIO25", "data/command pin")
	rstName := flag.String("rst", "GPIO27", "reset pin, empty if not connected")
	blName := flag.String("bl", "GPIO18", "backlight pin, empty if not connected")
	w := flag.Int("w", st7789.DefaultOpts.W, "display width")
	h := flag.Int("h", st7789.DefaultOpts.H, "display height")
	rotation := flag.Int("r", 0, "rotation in quarter turns")
	bgr := flag.Bool("bgr", false, "blue-green-red panel")
	speed := flag.Int64("speed", int64(st7789.DefaultOpts.Speed/physic.MegaHertz), "SPI clock in MHz")
	img := flag.String("img", "", "image to display")
	emulate := flag.Bool("emulate", false, "draw in the terminal")
	scale := flag.Int("scale", 4, "emulator downscale factor")
	httpAddr := flag.String("http", "", "also stream the emulated panel on this address")
	pause := flag.Duration("pause", time.Second, "pause between patterns")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	var out *output
	var err error
	if *emulate {
		out, err = openEmulator(*w, *h, uint8(*rotation), *scale, *httpAddr)
	} else {
		out, err = openHardware(*spiID, *dcName, *rstName, *blName)
	}
	if err != nil {
		return err
	}
	defer out.close()

	opts := st7789.DefaultOpts
	opts.W, opts.H = *w, *h
	opts.Rotation = uint8(*rotation)
	opts.BGR = *bgr
	opts.Speed = physic.Frequency(*speed) * physic.MegaHertz
	d, err := st7789.New(out.port, out.dc, out.rst, out.bl, &opts)
	if err != nil {
		return err
	}
	log.Printf("%s", d)
	if err := d.Begin(); err != nil {
		return err
	}
	defer d.Halt()

	steps := []struct {
		name string
		fn   func(*st7789.Dev) error
	}{
		{"fill", func(d *st7789.Dev) error { return d.FillScreen(rgb565.Black) }},
		{"rainbow", rainbow},
		{"text", text},
		{"vector", vector},
	}
	if *img != "" {
		steps = append(steps, struct {
			name string
			fn   func(*st7789.Dev) error
		}{"picture", func(d *st7789.Dev) error { return picture(d, *img) }})
	}
	for _, s := range steps {
		start := time.Now()
		if err := s.fn(d); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		if err := out.refresh(); err != nil {
			return err
		}
		if !*emulate {
			log.Printf("%s: %s", s.name, time.Since(start).Round(time.Millisecond))
		}
		time.Sleep(*pause)
	}
	if err := d.FadeOut(*pause); err != nil {
		return err
	}
	return d.FadeIn(*pause)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "st7789demo: %s.\n", err)
		os.Exit(1)
	}
}

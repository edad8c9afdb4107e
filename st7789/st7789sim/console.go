// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789sim

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// ConsoleOpts represents the options of a Console.
type ConsoleOpts struct {
	// Scale keeps one pixel out of Scale in each direction. 0 means 1.
	Scale   int
	Palette *ansi256.Palette
	// W defaults to stdout.
	W io.Writer

	_ struct{}
}

// Console renders a Panel to a terminal using ANSI color codes.
type Console struct {
	p       *Panel
	w       io.Writer
	scale   int
	palette ansi256.Palette
	buf     bytes.Buffer
}

// NewConsole returns a Console that renders p.
func NewConsole(p *Panel, opts *ConsoleOpts) *Console {
	pal := opts.Palette
	if pal == nil {
		pal = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	return &Console{p: p, w: w, scale: scale, palette: *pal}
}

func (c *Console) String() string {
	return "Console(" + c.p.String() + ")"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (c *Console) Halt() error {
	_, err := c.w.Write([]byte("\033[0m\n"))
	return err
}

// Refresh draws the current content of the panel glass, from the top-left
// corner of the terminal.
func (c *Console) Refresh() error {
	img := c.p.Image()
	b := img.Bounds()
	c.buf.Reset()
	_, _ = c.buf.WriteString("\033[H\033[0m")
	for y := b.Min.Y; y < b.Max.Y; y += c.scale {
		for x := b.Min.X; x < b.Max.X; x += c.scale {
			r, g, bl := img.ColorAt(x, y).Channels()
			_, _ = io.WriteString(&c.buf, c.palette.Block(color.NRGBA{r, g, bl, 255}))
		}
		_, _ = c.buf.WriteString("\033[0m\n")
	}
	_, err := c.buf.WriteTo(c.w)
	return err
}

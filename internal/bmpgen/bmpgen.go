// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bmpgen converts images to RGB565 bitmaps embedded in Go source.
package bmpgen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"image"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/GermanBionicSystems/tft/st7789/rgb565"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Opts controls the conversion.
type Opts struct {
	// MaxW and MaxH bound the bitmap size. Larger images are scaled down,
	// keeping their aspect ratio.
	MaxW int
	MaxH int
	// AlphaThreshold enables transparency when non negative: pixels whose
	// alpha is lower or equal become rgb565.Key.
	AlphaThreshold int
}

// DefaultOpts fits a 240x240 display, without transparency.
var DefaultOpts = Opts{MaxW: 240, MaxH: 240, AlphaThreshold: -1}

// Bitmap is a converted image.
type Bitmap struct {
	// Source is the file name the image was read from.
	Source string
	// Ident is the Go identifier of the pixel slice.
	Ident string
	*rgb565.Image
}

// Size returns the size of the pixel data in bytes.
func (b *Bitmap) Size() int {
	return 2 * len(b.Pix)
}

// Load reads and converts the image file at path.
func Load(path string, opts *Opts) (*Bitmap, error) {
	img, err := gg.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("bmpgen: %w", err)
	}
	return FromImage(filepath.Base(path), img, opts), nil
}

// FromImage converts img. name is used to derive the identifier.
func FromImage(name string, img image.Image, opts *Opts) *Bitmap {
	b := img.Bounds()
	if b.Dx() > opts.MaxW || b.Dy() > opts.MaxH {
		img = imaging.Fit(img, opts.MaxW, opts.MaxH, imaging.Lanczos)
	}
	return &Bitmap{
		Source: name,
		Ident:  Ident(strings.TrimSuffix(name, filepath.Ext(name)) + "_bmp"),
		Image:  rgb565.Convert(img, opts.AlphaThreshold),
	}
}

// Ident turns name into a valid Go identifier.
func Ident(name string) string {
	s := []rune(name)
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			s[i] = '_'
		}
	}
	out := string(s)
	if out == "" || unicode.IsDigit(s[0]) || token.Lookup(out).IsKeyword() {
		out = "_" + out
	}
	return out
}

// Write emits Go source for package pkg declaring every bitmap as a
// []rgb565.Color with its width and height constants.
func Write(w io.Writer, pkg string, bitmaps []*Bitmap) error {
	if !token.IsIdentifier(pkg) {
		return fmt.Errorf("bmpgen: invalid package name %q", pkg)
	}
	var buf bytes.Buffer
	buf.WriteString("// Code generated by img2rgb565. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	buf.WriteString("import \"github.com/GermanBionicSystems/tft/st7789/rgb565\"\n\n")
	if len(bitmaps) > 1 {
		total := 0
		for _, b := range bitmaps {
			total += b.Size()
		}
		fmt.Fprintf(&buf, "// Total bitmap data size: %d bytes\n\n", total)
	}
	seen := map[string]string{}
	for _, b := range bitmaps {
		if prev, ok := seen[b.Ident]; ok {
			return fmt.Errorf("bmpgen: %s and %s both map to %s", prev, b.Source, b.Ident)
		}
		seen[b.Ident] = b.Source
		fmt.Fprintf(&buf, "// %s\n// Size: %dx%d (%d bytes)\n", b.Source, b.Rect.Dx(), b.Rect.Dy(), b.Size())
		fmt.Fprintf(&buf, "const (\n%sWidth = %d\n%sHeight = %d\n)\n\n", b.Ident, b.Rect.Dx(), b.Ident, b.Rect.Dy())
		fmt.Fprintf(&buf, "var %s = []rgb565.Color{\n", b.Ident)
		for i, c := range b.Pix {
			fmt.Fprintf(&buf, "0x%04X,", uint16(c))
			if (i+1)%16 == 0 || i == len(b.Pix)-1 {
				buf.WriteByte('\n')
			} else {
				buf.WriteByte(' ')
			}
		}
		buf.WriteString("}\n\n")
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("bmpgen: %w", err)
	}
	_, err = w.Write(src)
	return err
}

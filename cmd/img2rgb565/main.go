// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Program img2rgb565 converts images to RGB565 bitmaps embedded in Go source,
// ready for st7789.Dev.DrawSprite and DrawKeyedBitmap.
//
// Usage:
//
//	img2rgb565 [-x 240] [-y 240] [-t alpha] [-m] [-o out.go] [-pkg name] images...
//
// Without -m, each image is written next to its source with a .go extension,
// unless -o is set. With -m, all images go to a single file, images.go by
// default.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/GermanBionicSystems/tft/internal/bmpgen"
)

func expand(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		m, err := filepath.Glob(p)
		if err != nil {
			return nil, err
		}
		for _, f := range m {
			if fi, err := os.Stat(f); err == nil && fi.Mode().IsRegular() {
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no matching image files found")
	}
	return files, nil
}

func write(path, pkg string, bitmaps []*bmpgen.Bitmap) error {
	var buf bytes.Buffer
	if err := bmpgen.Write(&buf, pkg, bitmaps); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func mainImpl() error {
	out := flag.String("o", "", "output file")
	w := flag.Int("x", bmpgen.DefaultOpts.MaxW, "maximum width")
	h := flag.Int("y", bmpgen.DefaultOpts.MaxH, "maximum height")
	merge := flag.Bool("m", false, "merge all images into one file")
	alpha := flag.Int("t", -1, "pixels with alpha lower or equal become transparent; -1 disables")
	pkg := flag.String("pkg", "assets", "package name of the generated code")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	log.SetFlags(0)
	if flag.NArg() == 0 {
		return errors.New("specify at least one image")
	}
	if *w < 1 || *h < 1 {
		return fmt.Errorf("invalid size %dx%d", *w, *h)
	}
	files, err := expand(flag.Args())
	if err != nil {
		return err
	}
	opts := bmpgen.Opts{MaxW: *w, MaxH: *h, AlphaThreshold: *alpha}

	var bitmaps []*bmpgen.Bitmap
	for _, f := range files {
		b, err := bmpgen.Load(f, &opts)
		if err != nil {
			return err
		}
		if *verbose {
			log.Printf("%s: %dx%d as %s", f, b.Rect.Dx(), b.Rect.Dy(), b.Ident)
		}
		if *merge {
			bitmaps = append(bitmaps, b)
			continue
		}
		dst := *out
		if dst == "" {
			dst = strings.TrimSuffix(f, filepath.Ext(f)) + ".go"
		}
		if err := write(dst, *pkg, []*bmpgen.Bitmap{b}); err != nil {
			return err
		}
		log.Printf("%s -> %s", f, dst)
	}
	if *merge {
		dst := *out
		if dst == "" {
			dst = "images.go"
		}
		if err := write(dst, *pkg, bitmaps); err != nil {
			return err
		}
		log.Printf("merged %d images -> %s", len(bitmaps), dst)
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "img2rgb565: %s.\n", err)
		os.Exit(1)
	}
}

// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789

import "image"

// clipRect intersects the w x h rectangle at (x, y) with bounds.
//
// off is the top-left corner of the visible part relative to (x, y), that is
// the number of columns and rows cut on the left and top. ok is false when
// nothing is visible.
func clipRect(bounds image.Rectangle, x, y, w, h int) (r image.Rectangle, off image.Point, ok bool) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, image.Point{}, false
	}
	full := image.Rectangle{Min: image.Point{X: x, Y: y}, Max: image.Point{X: x + w, Y: y + h}}
	r = full.Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, image.Point{}, false
	}
	return r, r.Min.Sub(full.Min), true
}

// forEachRun calls flush for every maximal run of consecutive indexes in
// [0, n) for which set returns true.
func forEachRun(n int, set func(i int) bool, flush func(start, length int) error) error {
	start := -1
	for i := 0; i < n; i++ {
		if set(i) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if err := flush(start, i-start); err != nil {
				return err
			}
			start = -1
		}
	}
	if start >= 0 {
		return flush(start, n-start)
	}
	return nil
}

// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7789sim

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"
)

// encoders maps the accepted "format" query values to a MIME type and an
// encoder.
var encoders = map[string]struct {
	mimeType string
	encode   func(io.Writer, image.Image) error
}{
	"png": {"image/png", png.Encode},
	"jpeg": {"image/jpeg", func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	}},
}

// Stream serves the panel glass over HTTP as a never ending
// multipart/x-mixed-replace stream of images, which browsers display as a
// video. A frame is sent on connection and then each time the panel changes.
//
// Clients can select the encoding with "?format=png" or "?format=jpeg".
type Stream struct {
	Panel *Panel
	// Format is "png" or "jpeg". Defaults to "png".
	Format string
	// Interval is how often the panel is checked for changes. Defaults to
	// 50ms.
	Interval time.Duration
}

// ServeHTTP implements http.Handler.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = s.Format
	}
	if format == "" {
		format = "png"
	}
	enc, ok := encoders[format]
	if !ok {
		http.Error(w, fmt.Sprintf("st7789sim: unrecognized image format %q", format), http.StatusBadRequest)
		return
	}
	interval := s.Interval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}

	boundary := multipart.NewWriter(w).Boundary()
	w.Header().Set("Content-Type", mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
		"boundary": boundary,
	}))
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "--%s\r\n", boundary)

	t := time.NewTicker(interval)
	defer t.Stop()
	var last uint64
	for first := true; ; first = false {
		if gen := s.Panel.Generation(); first || gen != last {
			last = gen
			// The part is terminated by the boundary right away so that clients
			// display it without waiting for the next one.
			fmt.Fprintf(bw, "Content-Type: %s\r\n\r\n", enc.mimeType)
			if err := enc.encode(bw, s.Panel.Image()); err != nil {
				return
			}
			fmt.Fprintf(bw, "\r\n--%s\r\n", boundary)
			if err := bw.Flush(); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
		select {
		case <-t.C:
		case <-r.Context().Done():
			return
		}
	}
}

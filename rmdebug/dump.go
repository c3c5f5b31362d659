// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rmdebug renders a framebuffer.Device region as a grid of ANSI
// 256-color terminal blocks, the way periph-devices/screen1d previews an LED
// strip on a terminal instead of real hardware. It exists purely as a local
// debugging aid; it is not one of this module's modeled subsystems.
package rmdebug

import (
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"

	"github.com/canselcik/libremarkable-go/framebuffer"
)

// Reader is the subset of framebuffer.Device this package needs, so dump
// logic can be exercised in tests without a real or synthetic mmap.
type Reader interface {
	ReadPixel(x, y int) framebuffer.Color
}

// WriteDump renders region's pixels from fb onto w, one line per pixel row,
// using palette (ansi256.Default if nil) to pick each block's terminal
// color.
func WriteDump(w io.Writer, fb Reader, region framebuffer.Rectangle, palette *ansi256.Palette) error {
	if palette == nil {
		palette = ansi256.Default
	}

	for row := uint32(0); row < region.Height; row++ {
		for col := uint32(0); col < region.Width; col++ {
			r, g, b := fb.ReadPixel(int(region.Left+col), int(region.Top+row)).RGB8()
			if _, err := io.WriteString(w, palette.Block(color.NRGBA{R: r, G: g, B: b, A: 0xff})); err != nil {
				return fmt.Errorf("rmdebug: writing block: %w", err)
			}
		}
		if _, err := io.WriteString(w, "\033[0m\n"); err != nil {
			return fmt.Errorf("rmdebug: writing line break: %w", err)
		}
	}
	return nil
}

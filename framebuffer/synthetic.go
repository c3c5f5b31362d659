// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuffer

import "golang.org/x/image/font/basicfont"

// NewSynthetic builds a Device backed by a plain heap buffer instead of a
// memory-mapped display file, for exercising framebuffer-dependent code
// (appctx.Runtime, cmd/rmdebug) without reMarkable hardware.
func NewSynthetic(width, height int) *Device {
	return &Device{
		buf:  make([]byte, width*height*bytesPerPixel),
		vsi:  varScreeninfo{Xres: uint32(width), Yres: uint32(height)},
		fsi:  fixScreeninfo{LineLength: uint32(width * bytesPerPixel)},
		face: basicfont.Face7x13,
	}
}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuffer

// bitfield mirrors struct fb_bitfield from linux/fb.h.
type bitfield struct {
	Offset, Length, MSBRight uint32
}

// varScreeninfo mirrors struct fb_var_screeninfo from linux/fb.h.
type varScreeninfo struct {
	Xres, Yres               uint32
	XresVirtual, YresVirtual uint32
	Xoffset, Yoffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp bitfield
	Nonstd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	Pixclock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HsyncLen, VsyncLen       uint32
	Sync                     uint32
	Vmode                    uint32
	Rotate                   uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

// fixScreeninfo mirrors struct fb_fix_screeninfo from linux/fb.h, with
// every field typed out; this struct is only read, never written back.
type fixScreeninfo struct {
	ID                 [16]byte
	SmemStart          uint64
	SmemLen            uint32
	Type, TypeAux      uint32
	Visual             uint32
	Xpanstep, Ypanstep uint16
	Ywrapstep          uint16
	LineLength         uint32
	MmioStart          uint64
	MmioLen            uint32
	Accel              uint32
	Capabilities       uint16
	Reserved           [2]uint16
}

// applyPortraitConfig overwrites the fields of a driver-reported
// var_screeninfo with the portrait configuration the EPDC driver requires,
// leaving the rest (color bitfields, virtual resolution) as reported.
func applyPortraitConfig(vsi *varScreeninfo) {
	vsi.Xres = displayWidth
	vsi.Yres = displayHeight
	vsi.Rotate = 1
	vsi.BitsPerPixel = 8 * bytesPerPixel
	vsi.Width = 0xffffffff
	vsi.Height = 0xffffffff
	vsi.Pixclock = 6250
	vsi.LeftMargin = 32
	vsi.RightMargin = 326
	vsi.UpperMargin = 4
	vsi.LowerMargin = 12
	vsi.HsyncLen = 44
	vsi.VsyncLen = 1
	vsi.Sync = 0
	vsi.Vmode = 0
	vsi.AccelFlags = 0
}

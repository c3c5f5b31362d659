// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epdc

import "github.com/canselcik/libremarkable-go/framebuffer"

// rect mirrors struct mxcfb_rect from the mxcfb driver ABI.
type rect struct {
	Top, Left, Width, Height uint32
}

func fromFramebufferRect(r framebuffer.Rectangle) rect {
	return rect{Top: r.Top, Left: r.Left, Width: r.Width, Height: r.Height}
}

// altBufferData mirrors struct mxcfb_alt_buffer_data. This module never
// enables EPDC_FLAG_USE_ALT_BUFFER, so it is always zero, but it must stay
// in updateData's layout to match the ioctl's expected struct size.
type altBufferData struct {
	PhysAddr        uint32
	Width, Height   uint32
	AltUpdateRegion rect
}

// updateData mirrors struct mxcfb_update_data, the payload of
// MXCFB_SEND_UPDATE.
type updateData struct {
	UpdateRegion  rect
	WaveformMode  uint32
	UpdateMode    uint32
	UpdateMarker  uint32
	Temp          int32
	Flags         uint32
	DitherMode    int32
	QuantBit      int32
	AltBufferData altBufferData
}

// updateMarkerData mirrors struct mxcfb_update_marker_data, the payload of
// MXCFB_WAIT_FOR_UPDATE_COMPLETE.
type updateMarkerData struct {
	UpdateMarker  uint32
	CollisionTest uint32
}

// WaveformMode selects the EPDC waveform used to transition pixels.
type WaveformMode uint32

const (
	WaveformInit     WaveformMode = 0x0
	WaveformDU       WaveformMode = 0x1
	WaveformGC16     WaveformMode = 0x2
	WaveformGC16Fast WaveformMode = 0x3
	WaveformGLR16    WaveformMode = 0x4
	WaveformGLD16    WaveformMode = 0x5
	WaveformGL16Fast WaveformMode = 0x6
	WaveformDU4      WaveformMode = 0x7
	WaveformREAGL    WaveformMode = 0x8
	WaveformREAGLD   WaveformMode = 0x9
	WaveformGL4      WaveformMode = 0xA
	WaveformGL16Inv  WaveformMode = 0xB
	WaveformAuto     WaveformMode = 257
)

// DitherMode selects the EPDC dithering algorithm.
type DitherMode int32

const (
	DitherPassthrough DitherMode = 0x0
	DitherDrawing     DitherMode = 0x1
	DitherY1          DitherMode = 0x002000
	DitherRemarkable  DitherMode = 0x300f30
	DitherY4          DitherMode = 0x004000
	DitherAlpha       DitherMode = 0x3ff00000
	DitherBeta        DitherMode = 0x75461440
	DitherExp1        DitherMode = 0x270ce20
	DitherExp2        DitherMode = 0x270db98
	DitherExp3        DitherMode = 0x27445a0
	DitherExp4        DitherMode = 0x2746f68
	DitherExp5        DitherMode = 0x274aa58
	DitherExp6        DitherMode = 0x274bd40
	DitherExp7        DitherMode = 0x7ecf22c0
	DitherExp8        DitherMode = 0x7ed3d2c0
)

// Temperature selects the EPDC's temperature compensation regime.
type Temperature int32

const (
	TempAmbient        Temperature = 0x1000
	TempPapyrus        Temperature = 0x1001
	TempRemarkableDraw Temperature = 0x0018
	TempMax            Temperature = 0xFFFF
)

// Quantization bit depths xochitl commonly draws with.
const (
	QuantBit1 int32 = 0x76143b24
	QuantBit2 int32 = 0x75e7bb24
	QuantBit3 int32 = 0x53ed4
)

const (
	updateModePartial uint32 = 0
	updateModeFull    uint32 = 1

	flagTestCollision uint32 = 0x0200
)

// Linux ioctl numbers for the mxcfb driver. sendUpdateIoctl deliberately
// does not match the naive _IOW('F', 0x2E, sizeof(mxcfb_update_data))
// computation: the embedded mxcfb_alt_buffer_data pads differently on the
// toolchains this was reverse engineered against, so the value is pinned
// as a constant rather than derived.
const (
	sendUpdateIoctl            = 0x4048462e
	waitForUpdateCompleteIoctl = 0xc008462f

	setAutoUpdateModeIoctl = 0x4004462d
	setUpdateSchemeIoctl   = 0x40044632
	disableEPDCAccessIoctl = 0x4635
	enableEPDCAccessIoctl  = 0x4636
)

// AutoUpdateMode selects whether the EPDC refreshes only on explicit
// update requests or scans framebuffer writes automatically.
type AutoUpdateMode uint32

const (
	AutoUpdateRegion    AutoUpdateMode = 0
	AutoUpdateAutomatic AutoUpdateMode = 1
)

// UpdateScheme selects how the EPDC driver serializes pending updates.
type UpdateScheme uint32

const (
	UpdateSchemeSnapshot UpdateScheme = 0
	UpdateSchemeQueue    UpdateScheme = 1
)

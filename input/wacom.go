// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"sync/atomic"

	"github.com/canselcik/libremarkable-go/device"
)

// wacomTool mirrors WacomPen plus a "none" state for before any tool has
// been seen.
type wacomTool int32

const (
	toolNone wacomTool = iota
	toolPen
	toolRubber
	toolTouch
	toolStylus
	toolStylus2
)

func (t wacomTool) pen() (WacomPen, bool) {
	switch t {
	case toolPen:
		return ToolPen, true
	case toolRubber:
		return ToolRubber, true
	case toolTouch:
		return Touch, true
	case toolStylus:
		return Stylus, true
	case toolStylus2:
		return Stylus2, true
	default:
		return 0, false
	}
}

// wacomDecoder holds the digitizer's cached axis state between raw events,
// updated from the single pump goroutine that owns this device's fd and
// read by nobody else, so plain fields suffice; atomics are used anyway
// for the scalar state to match the concurrency contract a caller sharing
// this decoder across goroutines would need.
type wacomDecoder struct {
	hscalar, vscalar float32
	height           uint16

	lastX, lastY         atomic.Uint32
	lastTiltX, lastTiltY atomic.Uint32
	lastDistance         atomic.Uint32
	lastPressure         atomic.Uint32
	lastTool             atomic.Int32
}

// newWacomDecoder builds a decoder scaling the digitizer's native extent
// (rawSize) into the given display resolution. height is rawSize.Y, used
// to invert the raw ABS_Y value; the axes are not swapped.
func newWacomDecoder(rawSize device.Size, displayWidth, displayHeight int) *wacomDecoder {
	d := &wacomDecoder{
		hscalar: float32(displayWidth) / float32(rawSize.X),
		vscalar: float32(displayHeight) / float32(rawSize.Y),
		height:  rawSize.Y,
	}
	d.lastTool.Store(int32(toolNone))
	return d
}

// decode processes one raw event and returns the Wacom events it produces;
// most raw events (axis updates) produce none until the following
// SYN_REPORT.
func (d *wacomDecoder) decode(ev rawEvent) []Event {
	switch ev.Type {
	case evSyn:
		tool := wacomTool(d.lastTool.Load())
		x := float32(d.lastX.Load()) * d.hscalar
		y := float32(d.lastY.Load()) * d.vscalar
		tiltX := uint16(d.lastTiltX.Load())
		tiltY := uint16(d.lastTiltY.Load())

		switch tool {
		case toolPen:
			return []Event{{Source: device.Wacom, Wacom: WacomEvent{
				Kind: Hover, X: x, Y: y,
				Distance: uint16(d.lastDistance.Load()),
				TiltX:    tiltX, TiltY: tiltY,
			}}}
		case toolTouch:
			return []Event{{Source: device.Wacom, Wacom: WacomEvent{
				Kind: Draw, X: x, Y: y,
				Pressure: uint16(d.lastPressure.Load()),
				TiltX:    tiltX, TiltY: tiltY,
			}}}
		default:
			return nil
		}

	case evKey:
		tool := codeToTool(ev.Code)
		if tool == toolNone {
			return nil
		}
		d.lastTool.Store(int32(tool))
		pen, _ := tool.pen()
		return []Event{{Source: device.Wacom, Wacom: WacomEvent{
			Kind: InstrumentChange, Pen: pen, Pressed: ev.Value != 0,
		}}}

	case evAbs:
		switch ev.Code {
		case absDistance:
			d.lastDistance.Store(uint32(uint16(ev.Value)))
			// A distance report while no pressure is applied means the pen
			// is hovering, even if the tool key event was never seen.
			if d.lastPressure.Load() == 0 {
				d.lastTool.Store(int32(toolPen))
			} else {
				d.lastTool.Store(int32(toolTouch))
			}
		case absTiltX:
			d.lastTiltX.Store(uint32(uint16(ev.Value)))
		case absTiltY:
			d.lastTiltY.Store(uint32(uint16(ev.Value)))
		case absPressure:
			d.lastPressure.Store(uint32(uint16(ev.Value)))
		case absX:
			d.lastX.Store(uint32(uint16(ev.Value)))
		case absY:
			// Y is inverted relative to the display's portrait orientation.
			d.lastY.Store(uint32(d.height - uint16(ev.Value)))
		}
		return nil

	default:
		return nil
	}
}

func codeToTool(code uint16) wacomTool {
	switch code {
	case btnToolPen:
		return toolPen
	case btnToolRubber:
		return toolRubber
	case btnTouch:
		return toolTouch
	case btnStylus:
		return toolStylus
	case btnStylus2:
		return toolStylus2
	default:
		return toolNone
	}
}

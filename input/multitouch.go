// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"sync"

	"github.com/canselcik/libremarkable-go/device"
)

// multitouchDecoder holds the slot-indexed finger table between raw
// events. Only ABS_MT_SLOT/POSITION/TRACKING_ID/PRESSURE and SYN_REPORT
// are handled; orientation and touch-major/minor are read by nobody in
// this module and dropped, matching what the original decoder does.
type multitouchDecoder struct {
	placement device.Placement
	rawSize   device.Size
	hscalar   float32
	vscalar   float32

	mu          sync.Mutex
	fingers     map[int32]*Finger
	currentSlot int32
	gestureSeq  uint32
}

func newMultitouchDecoder(placement device.Placement, rawSize device.Size, displayWidth, displayHeight int) *multitouchDecoder {
	return &multitouchDecoder{
		placement: placement,
		rawSize:   rawSize,
		hscalar:   float32(displayWidth) / float32(rawSize.X),
		vscalar:   float32(displayHeight) / float32(rawSize.Y),
		fingers:   make(map[int32]*Finger),
	}
}

func (d *multitouchDecoder) finger(slot int32) *Finger {
	f, ok := d.fingers[slot]
	if !ok {
		f = &Finger{Slot: slot}
		d.fingers[slot] = f
	}
	return f
}

// rotatePosition applies the device's placement (rotation plus axis
// inversion, from device.Probe) to one raw axis sample and writes the
// scaled display-space coordinate into f, setting f.PosUpdated.
func (d *multitouchDecoder) rotatePosition(f *Finger, axis device.Axis, value uint16) {
	part := d.placement.Rotation.RotatePart(device.CoordinatePart{Axis: axis, Value: value}, d.rawSize)

	x, y := part.Value, part.Value
	switch part.Axis {
	case device.AxisX:
		if d.placement.InvertX {
			x = d.rawSize.X - x
		}
		f.X = uint16(float32(x) * d.hscalar)
	case device.AxisY:
		if d.placement.InvertY {
			y = d.rawSize.Y - y
		}
		f.Y = uint16(float32(y) * d.vscalar)
	}
	f.PosUpdated = true
}

func (d *multitouchDecoder) decode(ev rawEvent) []Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Type {
	case evSyn:
		if ev.Code != synReport {
			return nil
		}
		var events []Event
		for _, f := range d.fingers {
			switch {
			case !f.LastPressed && f.Pressed:
				f.LastPressed = true
				d.gestureSeq++
				f.GestureID = d.gestureSeq
				events = append(events, Event{Source: device.Multitouch, Multitouch: MultitouchEvent{Kind: Press, Finger: *f, GestureID: f.GestureID}})
			case f.LastPressed && !f.Pressed:
				f.LastPressed = false
				events = append(events, Event{Source: device.Multitouch, Multitouch: MultitouchEvent{Kind: Release, Finger: *f, GestureID: f.GestureID}})
			case f.LastPressed && f.Pressed && f.PosUpdated:
				events = append(events, Event{Source: device.Multitouch, Multitouch: MultitouchEvent{Kind: Move, Finger: *f, GestureID: f.GestureID}})
			}
			f.PosUpdated = false
		}
		return events

	case evAbs:
		switch ev.Code {
		case absMtSlot:
			d.currentSlot = ev.Value
		case absMtPositionX:
			d.rotatePosition(d.finger(d.currentSlot), device.AxisX, uint16(ev.Value))
		case absMtPositionY:
			d.rotatePosition(d.finger(d.currentSlot), device.AxisY, uint16(ev.Value))
		case absMtPressure:
			if ev.Value > 0 {
				d.finger(d.currentSlot).Pressed = true
			}
		case absMtTrackingID:
			f := d.finger(d.currentSlot)
			if ev.Value == -1 {
				f.Pressed = false
			} else {
				f.TrackingID = ev.Value
				f.Pressed = true
			}
		case absMtOrientation, absMtTouchMajor, absMtTouchMinor:
			// Not surfaced to callers; read and discarded.
		}
		return nil

	default:
		return nil
	}
}

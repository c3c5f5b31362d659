// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import "github.com/canselcik/libremarkable-go/device"

// WacomPen identifies which end of the stylus, or which contact state, a
// digitizer InstrumentChange event refers to.
type WacomPen int

const (
	ToolPen WacomPen = iota
	ToolRubber
	Touch
	Stylus
	Stylus2
)

func (p WacomPen) String() string {
	switch p {
	case ToolPen:
		return "pen"
	case ToolRubber:
		return "rubber"
	case Touch:
		return "touch"
	case Stylus:
		return "stylus"
	case Stylus2:
		return "stylus2"
	default:
		return "unknown"
	}
}

// WacomEventKind discriminates the variants of WacomEvent.
type WacomEventKind int

const (
	InstrumentChange WacomEventKind = iota
	Hover
	Draw
)

// WacomEvent is a decoded digitizer event. Only the fields relevant to Kind
// are meaningful.
type WacomEvent struct {
	Kind WacomEventKind

	// InstrumentChange
	Pen     WacomPen
	Pressed bool

	// Hover, Draw
	X, Y         float32
	TiltX, TiltY uint16
	Distance     uint16 // Hover only
	Pressure     uint16 // Draw only
}

// MultitouchEventKind discriminates the variants of MultitouchEvent.
type MultitouchEventKind int

const (
	Press MultitouchEventKind = iota
	Move
	Release
)

// Finger is one multitouch contact's slot state.
type Finger struct {
	Slot        int32
	TrackingID  int32
	X, Y        uint16
	Pressed     bool
	LastPressed bool
	PosUpdated  bool
	GestureID   uint32
}

// MultitouchEvent is a decoded touchscreen event, synthesized at
// SYN_REPORT from a Finger's pressed-state transition. GestureID increases
// on every Press, even if the slot's tracking id is reused, so consumers
// deduping click dispatch by gesture never mistake a new touch for a
// continuation of the last one.
type MultitouchEvent struct {
	Kind      MultitouchEventKind
	Finger    Finger
	GestureID uint32
}

// PhysicalButton names one of the tablet's five GPIO-backed buttons.
type PhysicalButton int

const (
	ButtonLeft PhysicalButton = iota
	ButtonMiddle
	ButtonRight
	ButtonPower
	ButtonWakeup
)

func (b PhysicalButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonPower:
		return "power"
	case ButtonWakeup:
		return "wakeup"
	default:
		return "unknown"
	}
}

// GPIOEventKind discriminates the variants of GPIOEvent.
type GPIOEventKind int

const (
	ButtonPress GPIOEventKind = iota
	ButtonUnpress
)

// GPIOEvent is a decoded physical button edge.
type GPIOEvent struct {
	Kind   GPIOEventKind
	Button PhysicalButton
}

// Event is the unified, typed decoded event the pump pushes into the ring
// buffer and the runtime dispatches to on-stylus/on-touch/on-button
// handlers. Source identifies which of the three embedded payloads is
// valid.
type Event struct {
	Source     device.Kind
	Wacom      WacomEvent
	Multitouch MultitouchEvent
	GPIO       GPIOEvent
}

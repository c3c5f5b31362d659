// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"

	"github.com/canselcik/libremarkable-go/device"
)

// ButtonState is a snapshot of all five physical buttons' edge-triggered
// state, gpio.High meaning currently pressed. Using gpio.Level rather than a
// bare bool keeps button polarity in the same vocabulary periph's GPIO pin
// types use elsewhere in this module's dependency stack, even though these
// buttons are read through evdev rather than a periph gpio.PinIn.
type ButtonState struct {
	Left, Middle, Right, Power, Wakeup gpio.Level
}

// gpioDecoder tracks the five physical buttons' edge-triggered state.
// SYN events carry no information here and are ignored.
type gpioDecoder struct {
	states [5]atomic.Bool
}

func levelOf(pressed bool) gpio.Level {
	if pressed {
		return gpio.High
	}
	return gpio.Low
}

// Snapshot returns the current state of all five buttons.
func (d *gpioDecoder) Snapshot() ButtonState {
	return ButtonState{
		Left:   levelOf(d.states[1].Load()),
		Middle: levelOf(d.states[0].Load()),
		Right:  levelOf(d.states[2].Load()),
		Power:  levelOf(d.states[3].Load()),
		Wakeup: levelOf(d.states[4].Load()),
	}
}

func newGPIODecoder() *gpioDecoder {
	return &gpioDecoder{}
}

func (d *gpioDecoder) decode(ev rawEvent) []Event {
	if ev.Type != evKey {
		return nil
	}

	var idx int
	var button PhysicalButton
	switch ev.Code {
	case keyHome:
		idx, button = 0, ButtonMiddle
	case keyLeft:
		idx, button = 1, ButtonLeft
	case keyRight:
		idx, button = 2, ButtonRight
	case keyPower:
		idx, button = 3, ButtonPower
	case keyWakeup:
		idx, button = 4, ButtonWakeup
	default:
		return nil
	}

	d.states[idx].Store(ev.Value != 0)

	kind := ButtonUnpress
	if ev.Value != 0 {
		kind = ButtonPress
	}
	return []Event{{Source: device.GPIO, GPIO: GPIOEvent{Kind: kind, Button: button}}}
}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"testing"

	"periph.io/x/conn/v3/gpio"
)

func TestGPIOPressAndUnpress(t *testing.T) {
	d := newGPIODecoder()

	events := d.decode(rawEvent{Type: evKey, Code: keyPower, Value: 1})
	if len(events) != 1 || events[0].GPIO.Kind != ButtonPress || events[0].GPIO.Button != ButtonPower {
		t.Fatalf("unexpected press event: %+v", events)
	}

	events = d.decode(rawEvent{Type: evKey, Code: keyPower, Value: 0})
	if len(events) != 1 || events[0].GPIO.Kind != ButtonUnpress || events[0].GPIO.Button != ButtonPower {
		t.Fatalf("unexpected unpress event: %+v", events)
	}
}

func TestGPIOIgnoresSyncEvents(t *testing.T) {
	d := newGPIODecoder()
	if events := d.decode(rawEvent{Type: evSyn}); events != nil {
		t.Errorf("expected nil for syn event, got %+v", events)
	}
}

func TestGPIOSnapshotReflectsLatestEdges(t *testing.T) {
	d := newGPIODecoder()

	want := ButtonState{Left: gpio.Low, Middle: gpio.Low, Right: gpio.Low, Power: gpio.Low, Wakeup: gpio.Low}
	if got := d.Snapshot(); got != want {
		t.Fatalf("fresh decoder snapshot = %+v, want %+v", got, want)
	}

	d.decode(rawEvent{Type: evKey, Code: keyLeft, Value: 1})
	d.decode(rawEvent{Type: evKey, Code: keyPower, Value: 1})
	want = ButtonState{Left: gpio.High, Middle: gpio.Low, Right: gpio.Low, Power: gpio.High, Wakeup: gpio.Low}
	if got := d.Snapshot(); got != want {
		t.Fatalf("after press snapshot = %+v, want %+v", got, want)
	}

	d.decode(rawEvent{Type: evKey, Code: keyLeft, Value: 0})
	want = ButtonState{Left: gpio.Low, Middle: gpio.Low, Right: gpio.Low, Power: gpio.High, Wakeup: gpio.Low}
	if got := d.Snapshot(); got != want {
		t.Fatalf("after unpress snapshot = %+v, want %+v", got, want)
	}
}

func TestGPIOAllButtons(t *testing.T) {
	d := newGPIODecoder()
	cases := []struct {
		code uint16
		want PhysicalButton
	}{
		{keyHome, ButtonMiddle},
		{keyLeft, ButtonLeft},
		{keyRight, ButtonRight},
		{keyPower, ButtonPower},
		{keyWakeup, ButtonWakeup},
	}
	for _, c := range cases {
		events := d.decode(rawEvent{Type: evKey, Code: c.code, Value: 1})
		if len(events) != 1 || events[0].GPIO.Button != c.want {
			t.Errorf("code %#x: got %+v, want button %v", c.code, events, c.want)
		}
	}
}

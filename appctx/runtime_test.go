// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package appctx

import (
	"testing"

	"github.com/canselcik/libremarkable-go/device"
	"github.com/canselcik/libremarkable-go/epdc"
	"github.com/canselcik/libremarkable-go/framebuffer"
	"github.com/canselcik/libremarkable-go/input"
)

// newTestRuntime builds a Runtime around a synthetic, heap-backed
// framebuffer and a Gen1 transport wrapping an invalid fd: every ioctl it
// issues fails immediately at the syscall layer (EBADF) and is swallowed by
// the refresh engine's best-effort error handling, so tests can exercise
// the full Draw/Clear call paths without real hardware.
func newTestRuntime(w, h int) *Runtime {
	fb := framebuffer.NewSynthetic(w, h)
	engine := epdc.NewRefreshEngine(fb, epdc.NewGen1Transport(-1))
	probe := &device.Probe{Model: device.Gen1}
	return New(fb, engine, probe, nil, Opts{})
}

func TestAddElementRejectsDuplicateName(t *testing.T) {
	rt := newTestRuntime(200, 200)
	el := &UIElementWrapper{Kind: RegionElement, Region: RegionSpec{Width: 10, Height: 10}}
	if !rt.AddElement("box", el) {
		t.Fatal("first AddElement should succeed")
	}
	if rt.AddElement("box", el) {
		t.Fatal("second AddElement with the same name should fail")
	}
}

func TestGetElementByName(t *testing.T) {
	rt := newTestRuntime(200, 200)
	el := &UIElementWrapper{Kind: RegionElement}
	rt.AddElement("box", el)

	got, ok := rt.GetElementByName("box")
	if !ok || got != el {
		t.Fatalf("GetElementByName = %v, %v; want %v, true", got, ok, el)
	}
	if _, ok := rt.GetElementByName("missing"); ok {
		t.Error("expected missing element to report ok=false")
	}
}

func TestDrawElementErasesPreviousRect(t *testing.T) {
	rt := newTestRuntime(200, 200)
	el := &UIElementWrapper{X: 10, Y: 10, Kind: RegionElement, Region: RegionSpec{Width: 20, Height: 20}}
	rt.AddElement("box", el)

	rt.fb.FillRect(10, 10, 20, 20, framebuffer.Black)
	rect, ok := rt.DrawElement("box")
	if !ok {
		t.Fatal("expected element to be found")
	}
	if rect.Width != 20 || rect.Height != 20 {
		t.Fatalf("drawn rect = %+v, want 20x20", rect)
	}

	// Redrawing at a new position must erase the old footprint first.
	el.X, el.Y = 50, 50
	rt.DrawElement("box")
	if got := rt.fb.ReadPixel(15, 15); got.Native() != framebuffer.White.Native() {
		t.Error("expected the previous rect to be erased before the redraw")
	}
}

func TestRemoveElementDropsItsActiveRegion(t *testing.T) {
	rt := newTestRuntime(200, 200)
	fired := false
	el := &UIElementWrapper{X: 10, Y: 10, Kind: RegionElement, Region: RegionSpec{Width: 20, Height: 20},
		OnClick: func(rt *Runtime, el *UIElementWrapper) { fired = true }}
	rt.AddElement("box", el)
	rt.DrawElement("box")

	if region := rt.FindActiveRegion(15, 15); region == nil {
		t.Fatal("expected an active region to be published after Draw")
	}

	rt.RemoveElement("box")
	if region := rt.FindActiveRegion(15, 15); region != nil {
		t.Error("expected the active region to be gone after RemoveElement")
	}
	if fired {
		t.Error("OnClick should not have fired in this test")
	}
}

func TestCreateAndRemoveActiveRegion(t *testing.T) {
	rt := newTestRuntime(200, 200)
	r := framebuffer.Rectangle{Top: 50, Left: 50, Width: 10, Height: 10}
	rt.CreateActiveRegion(r, nil, nil)

	if region := rt.FindActiveRegion(55, 55); region == nil {
		t.Fatal("expected to find the created active region")
	}
	if !rt.RemoveActiveRegionAtPoint(55, 55) {
		t.Fatal("expected removal to report success")
	}
	if region := rt.FindActiveRegion(55, 55); region != nil {
		t.Error("expected no active region after removal")
	}
}

func TestInputDeviceActivation(t *testing.T) {
	rt := newTestRuntime(200, 200)
	if !rt.IsInputDeviceActive(device.Wacom) {
		t.Fatal("devices should default to active")
	}
	rt.DeactivateInputDevice(device.Wacom)
	if rt.IsInputDeviceActive(device.Wacom) {
		t.Error("expected Wacom to be inactive after Deactivate")
	}
	rt.ActivateInputDevice(device.Wacom)
	if !rt.IsInputDeviceActive(device.Wacom) {
		t.Error("expected Wacom to be active again after Activate")
	}
}

func TestDispatchDropsEventsForDeactivatedDevice(t *testing.T) {
	rt := newTestRuntime(200, 200)
	var got int
	rt.onButton = func(rt *Runtime, ev input.GPIOEvent) { got++ }

	rt.dispatch(input.Event{Source: device.GPIO, GPIO: input.GPIOEvent{Kind: input.ButtonPress, Button: input.ButtonPower}})
	if got != 1 {
		t.Fatalf("expected one dispatched button event, got %d", got)
	}

	rt.DeactivateInputDevice(device.GPIO)
	rt.dispatch(input.Event{Source: device.GPIO, GPIO: input.GPIOEvent{Kind: input.ButtonPress, Button: input.ButtonPower}})
	if got != 1 {
		t.Errorf("expected no additional dispatch once deactivated, got %d", got)
	}
}

func TestDispatchMultitouchPressFiresClickOncePerGesture(t *testing.T) {
	rt := newTestRuntime(200, 200)
	clicks := 0
	el := &UIElementWrapper{X: 10, Y: 10, Kind: RegionElement, Region: RegionSpec{Width: 20, Height: 20},
		OnClick: func(rt *Runtime, el *UIElementWrapper) { clicks++ }}
	rt.AddElement("box", el)
	rt.DrawElement("box")

	press := input.Event{Source: device.Multitouch, Multitouch: input.MultitouchEvent{
		Kind: input.Press, GestureID: 1, Finger: input.Finger{X: 15, Y: 15},
	}}
	rt.dispatch(press)
	rt.dispatch(press) // same gesture id delivered twice (e.g. a duplicate wake) must not double-fire
	if clicks != 1 {
		t.Fatalf("expected exactly one click for one gesture, got %d", clicks)
	}

	press2 := press
	press2.Multitouch.GestureID = 2
	rt.dispatch(press2)
	if clicks != 2 {
		t.Fatalf("expected a new gesture id to fire again, got %d", clicks)
	}
}

func TestClearDeepAndShallowDoNotPanicWithoutHardware(t *testing.T) {
	rt := newTestRuntime(100, 100)
	rt.fb.FillRect(0, 0, 100, 100, framebuffer.Black)
	rt.Clear(false)
	if got := rt.fb.ReadPixel(0, 0); got.Native() != framebuffer.White.Native() {
		t.Error("expected Clear to whiten the framebuffer even if the refresh ioctl fails")
	}

	rt.fb.FillRect(0, 0, 100, 100, framebuffer.Black)
	rt.Clear(true)
	if got := rt.fb.ReadPixel(50, 50); got.Native() != framebuffer.White.Native() {
		t.Error("expected a deep Clear to whiten the framebuffer too")
	}
}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package appctx

import (
	"log"
	"sync"

	"github.com/canselcik/libremarkable-go/device"
	"github.com/canselcik/libremarkable-go/epdc"
	"github.com/canselcik/libremarkable-go/framebuffer"
	"github.com/canselcik/libremarkable-go/input"
)

// StylusHandler, TouchHandler and ButtonHandler are the three callback
// slots an application registers with a Runtime. Each receives a short-lived
// reference to the Runtime rather than a retained one: the Runtime is the
// authoritative owner, and handlers borrow it only for the duration of the
// call.
type StylusHandler func(rt *Runtime, ev input.WacomEvent)
type TouchHandler func(rt *Runtime, ev input.MultitouchEvent)
type ButtonHandler func(rt *Runtime, ev input.GPIOEvent)

// Opts configures a Runtime, following the Opts-struct-literal convention
// used throughout this module for device construction.
type Opts struct {
	Logger *log.Logger

	OnStylus StylusHandler
	OnTouch  TouchHandler
	OnButton ButtonHandler
}

// Runtime is the single owner of the framebuffer, the refresh engine, the
// named UI element map, and the active-region index. Exactly one Runtime
// exists per process.
type Runtime struct {
	logger *log.Logger

	fb            *framebuffer.Device
	refreshEngine *epdc.RefreshEngine
	probe         *device.Probe

	onStylus StylusHandler
	onTouch  TouchHandler
	onButton ButtonHandler

	elementsMu sync.RWMutex
	elements   map[string]*UIElementWrapper

	regionsMu     sync.Mutex
	regions       quadtree
	firedGestures map[uint32]bool

	pump *input.Pump

	activeMu sync.Mutex
	active   map[device.Kind]bool
}

// New builds a Runtime around an already-open framebuffer, the refresh
// engine paired with it, the probe used to enumerate input devices, and the
// event pump fanning them into one decoded stream. The Runtime does not
// start the pump; call Run to begin dispatching.
func New(fb *framebuffer.Device, engine *epdc.RefreshEngine, probe *device.Probe, pump *input.Pump, opts Opts) *Runtime {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	bounds := fb.Bounds()
	rt := &Runtime{
		logger:        logger,
		fb:            fb,
		refreshEngine: engine,
		probe:         probe,
		onStylus:      opts.OnStylus,
		onTouch:       opts.OnTouch,
		onButton:      opts.OnButton,
		elements:      make(map[string]*UIElementWrapper),
		regions:       *newQuadtree(float32(bounds.Dx()), float32(bounds.Dy()), 16),
		firedGestures: make(map[uint32]bool),
		pump:          pump,
		active:        make(map[device.Kind]bool),
	}
	for _, k := range []device.Kind{device.Wacom, device.Multitouch, device.GPIO} {
		rt.active[k] = true
	}
	return rt
}

// Framebuffer returns the Runtime's single framebuffer instance. UI elements
// and user code draw through this, then submit refreshes via RefreshEngine.
func (rt *Runtime) Framebuffer() *framebuffer.Device {
	return rt.fb
}

// RefreshEngine returns the Runtime's refresh engine, for callers composing
// refreshes outside of UIElementWrapper.Draw's built-in policy.
func (rt *Runtime) RefreshEngine() *epdc.RefreshEngine {
	return rt.refreshEngine
}

// Probe returns the hardware probe the Runtime was constructed with.
func (rt *Runtime) Probe() *device.Probe {
	return rt.probe
}

// AddElement inserts wrapper under name. It returns false without modifying
// anything if name is already taken.
func (rt *Runtime) AddElement(name string, wrapper *UIElementWrapper) bool {
	rt.elementsMu.Lock()
	defer rt.elementsMu.Unlock()
	if _, exists := rt.elements[name]; exists {
		return false
	}
	rt.elements[name] = wrapper
	return true
}

// RemoveElement deletes the named element, if present, and its published
// active region along with it.
func (rt *Runtime) RemoveElement(name string) {
	rt.elementsMu.Lock()
	el, ok := rt.elements[name]
	if ok {
		delete(rt.elements, name)
	}
	rt.elementsMu.Unlock()

	if ok {
		rt.regionsMu.Lock()
		el.mu.Lock()
		if el.activeRegion != 0 {
			rt.regions.remove(el.activeRegion)
			el.activeRegion = 0
		}
		el.mu.Unlock()
		rt.regionsMu.Unlock()
	}
}

// GetElementByName returns the named element and whether it exists.
func (rt *Runtime) GetElementByName(name string) (*UIElementWrapper, bool) {
	rt.elementsMu.RLock()
	defer rt.elementsMu.RUnlock()
	el, ok := rt.elements[name]
	return el, ok
}

// DrawElement draws the named element, if present, returning its drawn
// rectangle and whether the element existed.
func (rt *Runtime) DrawElement(name string) (framebuffer.Rectangle, bool) {
	el, ok := rt.GetElementByName(name)
	if !ok {
		return framebuffer.Rectangle{}, false
	}
	return el.Draw(rt), true
}

// DrawElements draws every registered element, in no particular order.
func (rt *Runtime) DrawElements() {
	rt.elementsMu.RLock()
	els := make([]*UIElementWrapper, 0, len(rt.elements))
	for _, el := range rt.elements {
		els = append(els, el)
	}
	rt.elementsMu.RUnlock()

	for _, el := range els {
		el.Draw(rt)
	}
}

// publishActiveRegion creates or moves el's active region to match rect,
// called by UIElementWrapper.Draw after every redraw. Caller must hold
// el.mu.
func (rt *Runtime) publishActiveRegion(el *UIElementWrapper, rectBounds framebuffer.Rectangle) {
	rt.regionsMu.Lock()
	defer rt.regionsMu.Unlock()

	if el.activeRegion != 0 {
		rt.regions.remove(el.activeRegion)
		el.activeRegion = 0
	}
	region := &ActiveRegion{Rect: rectBounds, OnClick: el.OnClick, Element: el}
	el.activeRegion = rt.regions.insert(boxFromRect(rectBounds), region)
}

// CreateActiveRegion publishes a standalone active region not tied to any
// UIElementWrapper, returning an id usable with RemoveActiveRegionAt.
func (rt *Runtime) CreateActiveRegion(rect framebuffer.Rectangle, handler ClickHandler, element *UIElementWrapper) int {
	rt.regionsMu.Lock()
	defer rt.regionsMu.Unlock()
	region := &ActiveRegion{Rect: rect, OnClick: handler, Element: element}
	return rt.regions.insert(boxFromRect(rect), region)
}

// RemoveActiveRegionAtPoint removes whatever active region, if any, covers
// (x, y), returning whether one was found and removed.
func (rt *Runtime) RemoveActiveRegionAtPoint(x, y float32) bool {
	rt.regionsMu.Lock()
	defer rt.regionsMu.Unlock()
	_, id := rt.regions.queryPoint(x, y, 2)
	if id == 0 {
		return false
	}
	return rt.regions.remove(id)
}

// FindActiveRegion returns the first active region whose published
// rectangle intersects a small box around (y, x), using a radius-2 hit
// test so a touch slightly outside a region's edge still resolves to it,
// or nil if none match.
func (rt *Runtime) FindActiveRegion(y, x float32) *ActiveRegion {
	rt.regionsMu.Lock()
	defer rt.regionsMu.Unlock()
	region, _ := rt.regions.queryPoint(x, y, 2)
	return region
}

func boxFromRect(r framebuffer.Rectangle) rect {
	return rect{
		minX: float32(r.Left), minY: float32(r.Top),
		maxX: float32(r.Left + r.Width), maxY: float32(r.Top + r.Height),
	}
}

// Clear erases the display. deep=true issues a full, flashing INIT-waveform
// refresh (a hardware-level clear); deep=false only issues a fast partial
// GC16_FAST refresh over the whole area, leaving the INIT flash out.
func (rt *Runtime) Clear(deep bool) {
	bounds := rt.fb.Bounds()
	rt.fb.FillRect(0, 0, bounds.Dx(), bounds.Dy(), framebuffer.White)
	if deep {
		rt.refreshEngine.FullRefresh(epdc.WaveformInit, epdc.TempRemarkableDraw, epdc.DitherPassthrough, 0, true)
		return
	}
	full := framebuffer.Rectangle{Top: 0, Left: 0, Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}
	rt.refreshEngine.PartialRefresh(full, epdc.Wait, epdc.WaveformGC16Fast, epdc.TempRemarkableDraw, epdc.DitherPassthrough, 0, false)
}

// IsInputDeviceActive reports whether events from kind are currently being
// dispatched. Deactivated devices are still read off the shared pump, but
// their events are dropped before reaching user handlers; the pump itself
// has no notion of which consumer wants which device.
func (rt *Runtime) IsInputDeviceActive(kind device.Kind) bool {
	rt.activeMu.Lock()
	defer rt.activeMu.Unlock()
	return rt.active[kind]
}

// ActivateInputDevice resumes dispatch of kind's events to user handlers.
func (rt *Runtime) ActivateInputDevice(kind device.Kind) {
	rt.activeMu.Lock()
	rt.active[kind] = true
	rt.activeMu.Unlock()
}

// DeactivateInputDevice suppresses dispatch of kind's events to user
// handlers; the pump keeps reading the device, but decoded events are
// dropped before reaching OnStylus/OnTouch/OnButton.
func (rt *Runtime) DeactivateInputDevice(kind device.Kind) {
	rt.activeMu.Lock()
	rt.active[kind] = false
	rt.activeMu.Unlock()
}

// Run starts the pump and blocks, draining its decoded event stream and
// dispatching each event to the matching registered handler, until Stop is
// called on the underlying pump. It is the caller's responsibility to start
// Run on its own goroutine if the main thread needs to remain free for
// other work; Run itself is a single consumer loop, leaving any additional
// worker goroutines free to cooperate on framebuffer access independently.
func (rt *Runtime) Run() error {
	if err := rt.pump.Start(); err != nil {
		return err
	}
	for {
		events := rt.pump.ReadChunk()
		if events == nil {
			return nil
		}
		for _, ev := range events {
			rt.dispatch(ev)
		}
	}
}

// Stop tells the underlying pump to stop and waits for its workers to exit.
func (rt *Runtime) Stop() {
	rt.pump.Stop()
	rt.pump.Join()
}

func (rt *Runtime) dispatch(ev input.Event) {
	if !rt.IsInputDeviceActive(ev.Source) {
		return
	}

	switch ev.Source {
	case device.Wacom:
		if rt.onStylus != nil {
			rt.onStylus(rt, ev.Wacom)
		}
	case device.Multitouch:
		switch ev.Multitouch.Kind {
		case input.Press:
			if rt.shouldFireGesture(ev.Multitouch) {
				if region := rt.FindActiveRegion(float32(ev.Multitouch.Finger.Y), float32(ev.Multitouch.Finger.X)); region != nil && region.OnClick != nil {
					region.OnClick(rt, region.Element)
				}
			}
		case input.Release:
			rt.forgetGesture(ev.Multitouch.GestureID)
		}
		if rt.onTouch != nil {
			rt.onTouch(rt, ev.Multitouch)
		}
	case device.GPIO:
		if rt.onButton != nil {
			rt.onButton(rt, ev.GPIO)
		}
	}
}

// shouldFireGesture reports whether ev's GestureID has already dispatched a
// click this gesture, marking it fired if not. Gesture ids increase
// monotonically per Press even when a finger slot's tracking id is reused,
// so a new touch on a slot is never mistaken for a continuation of the
// previous gesture.
func (rt *Runtime) shouldFireGesture(ev input.MultitouchEvent) bool {
	rt.regionsMu.Lock()
	defer rt.regionsMu.Unlock()
	if rt.firedGestures[ev.GestureID] {
		return false
	}
	rt.firedGestures[ev.GestureID] = true
	return true
}

// forgetGesture drops a completed gesture's dedup entry once its Release
// arrives, keeping the fired set bounded by the number of fingers down.
func (rt *Runtime) forgetGesture(id uint32) {
	rt.regionsMu.Lock()
	delete(rt.firedGestures, id)
	rt.regionsMu.Unlock()
}

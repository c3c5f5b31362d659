// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epdc

import (
	"image"
	"log"
	"sync/atomic"

	"github.com/canselcik/libremarkable-go/framebuffer"
)

// Logger receives warnings about failed update submissions. Refreshes are
// best-effort: a failed ioctl or msgsnd is reported here and otherwise
// swallowed, and the marker already allocated for the update stays valid.
var Logger = log.Default()

// Screen reports the pixel dimensions a RefreshEngine clips updates
// against. *framebuffer.Device satisfies this by way of its display.Drawer
// Bounds method.
type Screen interface {
	Bounds() image.Rectangle
}

// PartialRefreshMode controls how PartialRefresh waits for its submitted
// update.
type PartialRefreshMode int

const (
	// DryRun submits the update with EPDC_FLAG_TEST_COLLISION set and
	// waits for completion, returning whether it collided with another
	// in-flight update, without requiring the caller to commit to it.
	DryRun PartialRefreshMode = iota
	// Async submits the update and returns its marker immediately.
	Async
	// Wait submits the update and blocks until it completes.
	Wait
)

// marker is a monotonically increasing per-engine update identifier,
// independent of any other engine sharing the same transport. take is
// called concurrently by FullRefresh/PartialRefresh from whichever
// goroutines hold the engine, so it is a plain atomic fetch-add rather
// than a mutex-guarded counter.
type marker struct {
	next uint32
}

func (m *marker) take() uint32 {
	return atomic.AddUint32(&m.next, 1)
}

// RefreshEngine submits EPDC updates against a framebuffer through a
// Transport and tracks per-update markers.
type RefreshEngine struct {
	screen    Screen
	transport Transport
	m         marker
}

// NewRefreshEngine pairs a framebuffer device with the transport that
// should carry its update requests; callers choose Gen1Transport or
// Gen2Transport based on device.Probe.Model.
func NewRefreshEngine(screen Screen, transport Transport) *RefreshEngine {
	return &RefreshEngine{screen: screen, transport: transport}
}

// FullRefresh submits a full-screen update and, if waitCompletion is true,
// blocks for its completion. It returns the update's marker.
func (e *RefreshEngine) FullRefresh(waveform WaveformMode, temp Temperature, dither DitherMode, quantBit int32, waitCompletion bool) uint32 {
	bounds := e.screen.Bounds()
	screen := rect{Top: 0, Left: 0, Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}

	mk := e.m.take()
	data := updateData{
		UpdateRegion: screen,
		WaveformMode: uint32(waveform),
		UpdateMode:   updateModeFull,
		UpdateMarker: mk,
		Temp:         int32(temp),
		DitherMode:   int32(dither),
		QuantBit:     quantBit,
	}

	if err := e.transport.SendUpdate(&data); err != nil {
		Logger.Printf("epdc: full refresh marker %d: %v", mk, err)
	}

	if waitCompletion {
		e.transport.WaitForUpdateComplete(mk)
	}
	return mk
}

// PartialRefresh submits an update for region, clipped to the screen's
// bounds, and handles completion according to mode. The returned value is
// the collision-test result for DryRun/Wait, or the update's marker for
// Async. Submitting a region fully outside the screen returns 0 without
// sending anything.
func (e *RefreshEngine) PartialRefresh(region framebuffer.Rectangle, mode PartialRefreshMode, waveform WaveformMode, temp Temperature, dither DitherMode, quantBit int32, forceFullRefresh bool) uint32 {
	bounds := e.screen.Bounds()
	xres, yres := uint32(bounds.Dx()), uint32(bounds.Dy())

	if region.Left >= xres || region.Top >= yres {
		return 0
	}

	updateRegion := region
	if updateRegion.Width < 1 {
		updateRegion.Width = 1
	}
	if updateRegion.Height < 1 {
		updateRegion.Height = 1
	}
	if maxX := updateRegion.Left + updateRegion.Width; maxX > xres {
		updateRegion.Width -= maxX - xres
	}
	if maxY := updateRegion.Top + updateRegion.Height; maxY > yres {
		updateRegion.Height -= maxY - yres
	}

	updateMode := updateModePartial
	if forceFullRefresh {
		updateMode = updateModeFull
	}

	var flags uint32
	if mode == DryRun {
		flags = flagTestCollision
	}

	mk := e.m.take()
	data := updateData{
		UpdateRegion: fromFramebufferRect(updateRegion),
		WaveformMode: uint32(waveform),
		UpdateMode:   updateMode,
		UpdateMarker: mk,
		Temp:         int32(temp),
		Flags:        flags,
		DitherMode:   int32(dither),
		QuantBit:     quantBit,
	}
	if err := e.transport.SendUpdate(&data); err != nil {
		Logger.Printf("epdc: partial refresh marker %d: %v", mk, err)
	}

	switch mode {
	case Wait, DryRun:
		collision, _ := e.transport.WaitForUpdateComplete(mk)
		return collision
	default: // Async
		return mk
	}
}

// WaitRefreshComplete blocks for a previously submitted marker's
// completion, returning its collision-test result and whether the wait
// itself succeeded (false on a Gen2 semaphore timeout).
func (e *RefreshEngine) WaitRefreshComplete(mk uint32) (uint32, bool) {
	return e.transport.WaitForUpdateComplete(mk)
}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package appctx

import (
	"image"
	"sync"

	"github.com/canselcik/libremarkable-go/epdc"
	"github.com/canselcik/libremarkable-go/framebuffer"
)

// RefreshPolicy controls what, if anything, a UIElementWrapper's Draw
// triggers after painting pixels.
type RefreshPolicy int

const (
	NoRefresh RefreshPolicy = iota
	Refresh
	RefreshAndWait
)

// ElementKind discriminates the variants of a UIElementWrapper's inner
// content.
type ElementKind int

const (
	TextElement ElementKind = iota
	ImageElement
	RegionElement
)

// TextSpec is a UIElementWrapper's content when Kind is TextElement.
type TextSpec struct {
	Text  string
	Scale float64
	Color framebuffer.Color
	// Border, if true, draws a one-pixel rectangle outline around the
	// rendered text's bounding box.
	Border bool
}

// ImageSpec is a UIElementWrapper's content when Kind is ImageElement.
type ImageSpec struct {
	Img image.Image
}

// RegionSpec is a UIElementWrapper's content when Kind is RegionElement: a
// plain rectangle, optionally outlined, with no text or image of its own,
// useful as a clickable hit target with no visible fill.
type RegionSpec struct {
	Width, Height int
	Border        bool
}

// ClickHandler is invoked when a multitouch Press lands inside an
// element's published active region.
type ClickHandler func(rt *Runtime, el *UIElementWrapper)

// ActiveRegion is a published clickable rectangle, stored in the Runtime's
// spatial index. Element is nil for a region created directly via
// Runtime.CreateActiveRegion rather than through a UIElementWrapper's Draw.
type ActiveRegion struct {
	Rect    framebuffer.Rectangle
	OnClick ClickHandler
	Element *UIElementWrapper
}

// UIElementWrapper is a named, positioned piece of UI content. Each
// Draw call erases the pixels it last occupied (if any) before painting
// the current content, and republishes its click region to match.
type UIElementWrapper struct {
	mu sync.Mutex

	X, Y    int
	Refresh RefreshPolicy
	OnClick ClickHandler

	Kind   ElementKind
	Text   TextSpec
	Image  ImageSpec
	Region RegionSpec

	lastDrawnRect framebuffer.Rectangle
	hasLastDrawn  bool
	activeRegion  int
}

// Draw renders the element against rt's framebuffer: it first clears the
// rectangle last occupied (filling it white), then paints the current
// content, then records the new bounding rectangle and, if a refresh
// policy other than NoRefresh is set, submits a partial refresh for it.
// If OnClick is set, the element's active region is created or moved to
// match the freshly drawn rectangle.
func (e *UIElementWrapper) Draw(rt *Runtime) framebuffer.Rectangle {
	e.mu.Lock()
	defer e.mu.Unlock()

	fb := rt.Framebuffer()
	if e.hasLastDrawn {
		fb.FillRect(int(e.lastDrawnRect.Left), int(e.lastDrawnRect.Top), int(e.lastDrawnRect.Width), int(e.lastDrawnRect.Height), framebuffer.White)
	}

	var drawn framebuffer.Rectangle
	switch e.Kind {
	case TextElement:
		drawn = fb.DrawText(e.X, e.Y, e.Text.Text, e.Text.Color, framebuffer.TextOptions{Scale: e.Text.Scale})
		if e.Text.Border {
			drawn = fb.DrawRect(int(drawn.Left), int(drawn.Top), int(drawn.Width), int(drawn.Height), framebuffer.Black)
		}
	case ImageElement:
		if e.Image.Img != nil {
			drawn = fb.DrawImage(e.Image.Img, e.X, e.Y)
		}
	case RegionElement:
		drawn = framebuffer.Rectangle{Top: uint32(e.Y), Left: uint32(e.X), Width: uint32(e.Region.Width), Height: uint32(e.Region.Height)}
		if e.Region.Border {
			fb.DrawRect(int(drawn.Left), int(drawn.Top), int(drawn.Width), int(drawn.Height), framebuffer.Black)
		}
	}

	e.lastDrawnRect = drawn
	e.hasLastDrawn = true

	if e.Refresh != NoRefresh {
		marker := rt.refreshEngine.PartialRefresh(drawn, epdc.Async, epdc.WaveformGC16Fast, epdc.TempRemarkableDraw, epdc.DitherPassthrough, 0, false)
		if e.Refresh == RefreshAndWait {
			rt.refreshEngine.WaitRefreshComplete(marker)
		}
	}

	if e.OnClick != nil {
		rt.publishActiveRegion(e, drawn)
	}
	return drawn
}

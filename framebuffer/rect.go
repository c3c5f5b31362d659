// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuffer

// Rectangle is a pixel region in display space, top-left origin. It
// mirrors the wire layout the EPDC update ioctl expects, so epdc converts
// it directly into its own update-region struct.
type Rectangle struct {
	Top, Left, Width, Height uint32
}

// Invalid is the sentinel empty rectangle used as the identity element for
// Merge, matching the all-updates-so-far accumulator pattern used while
// building a dirty region. MergePixel does not special-case it: its
// Top/Left of 9999 take part in the result like any other rectangle's.
var Invalid = Rectangle{Top: 9999, Left: 9999, Width: 0, Height: 0}

func (r Rectangle) isEmpty() bool {
	return r.Width == 0 || r.Height == 0
}

// ContainsPoint reports whether (x, y) falls within the rectangle,
// inclusive of its far edge.
func (r Rectangle) ContainsPoint(x, y uint32) bool {
	return !(x < r.Left || x > r.Left+r.Width || y < r.Top || y > r.Top+r.Height)
}

// ContainsRect reports whether other is fully inside r.
func (r Rectangle) ContainsRect(other Rectangle) bool {
	return r.ContainsPoint(other.Left, other.Top) &&
		r.ContainsPoint(other.Left+other.Width, other.Top+other.Height)
}

// MergePixel grows r to include (x, y).
func (r Rectangle) MergePixel(x, y uint32) Rectangle {
	top := min32(r.Top, y)
	left := min32(r.Left, x)
	bottom := max32(r.Top+r.Height, y)
	right := max32(r.Left+r.Width, x)
	return Rectangle{Top: top, Left: left, Width: right - left, Height: bottom - top}
}

// Merge grows r to cover both r and other. An empty operand is absorbed
// without affecting the result; two empty rectangles merge to Invalid.
func (r Rectangle) Merge(other Rectangle) Rectangle {
	switch {
	case r.isEmpty() && other.isEmpty():
		return Invalid
	case r.isEmpty():
		return other
	case other.isEmpty():
		return r
	default:
		top := min32(r.Top, other.Top)
		left := min32(r.Left, other.Left)
		bottom := max32(r.Top+r.Height, other.Top+other.Height)
		right := max32(r.Left+r.Width, other.Left+other.Width)
		return Rectangle{Top: top, Left: left, Width: right - left, Height: bottom - top}
	}
}

// Expand grows the rectangle by margin on every side, clamping at zero.
func (r Rectangle) Expand(margin uint32) Rectangle {
	left := uint32(0)
	if r.Left > margin {
		left = r.Left - margin
	}
	top := uint32(0)
	if r.Top > margin {
		top = r.Top - margin
	}
	return Rectangle{
		Top:    top,
		Left:   left,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

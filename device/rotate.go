// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

// Rotation describes where an input device's raw origin sits relative to
// the display when the tablet is held in its standard portrait orientation.
type Rotation int

const (
	// Rot0 means the raw origin coincides with the display's top-left.
	Rot0 Rotation = iota
	// Rot90 means the raw origin is at the display's top-right.
	Rot90
	// Rot180 means the raw origin is at the display's bottom-right.
	Rot180
	// Rot270 means the raw origin is at the display's bottom-left.
	Rot270
)

// Axis names a single coordinate component.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Size is the raw, unrotated extent of an input device's coordinate space.
type Size struct {
	X, Y uint16
}

// CoordinatePart is one axis value awaiting rotation; rotating a part may
// change which axis it belongs to (a 90/270 degree rotation swaps X and Y).
type CoordinatePart struct {
	Axis  Axis
	Value uint16
}

// RotatePart rotates a single raw axis value into display space. size must
// be the device's native, unrotated extent.
func (r Rotation) RotatePart(part CoordinatePart, size Size) CoordinatePart {
	switch part.Axis {
	case AxisX:
		switch r {
		case Rot0:
			return CoordinatePart{AxisX, part.Value}
		case Rot90:
			return CoordinatePart{AxisY, part.Value}
		case Rot180:
			return CoordinatePart{AxisX, size.X - part.Value}
		case Rot270:
			return CoordinatePart{AxisY, size.X - part.Value}
		}
	case AxisY:
		switch r {
		case Rot0:
			return CoordinatePart{AxisY, part.Value}
		case Rot90:
			return CoordinatePart{AxisX, size.Y - part.Value}
		case Rot180:
			return CoordinatePart{AxisY, size.Y - part.Value}
		case Rot270:
			return CoordinatePart{AxisX, part.Value}
		}
	}
	panic("device: invalid CoordinatePart")
}

// ShouldSwapSizeAxes reports whether a quarter turn is in effect, meaning
// width and height trade places.
func (r Rotation) ShouldSwapSizeAxes() bool {
	return r == Rot90 || r == Rot270
}

// RotatedSize returns size, swapped if the rotation is a quarter turn.
func (r Rotation) RotatedSize(size Size) Size {
	if r.ShouldSwapSizeAxes() {
		return Size{X: size.Y, Y: size.X}
	}
	return size
}

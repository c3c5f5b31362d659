// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuffer

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/math/fixed"
)

// SetFont replaces the face used by DrawText with one rasterized from a
// TrueType font at the given point size. Without a call to SetFont,
// DrawText falls back to the module's built-in bitmap face. The parsed
// font is retained so TextOptions.Scale can rasterize other sizes.
func (d *Device) SetFont(ttf []byte, size float64) error {
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("framebuffer: parsing font: %w", err)
	}
	d.mu.Lock()
	d.font = parsed
	d.face = truetype.NewFace(parsed, &truetype.Options{Size: size})
	d.mu.Unlock()
	return nil
}

// DrawImage blits img's luma channel into the framebuffer with its
// top-left corner at (x, y), returning the drawn region.
func (d *Device) DrawImage(img image.Image, x, y int) Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()

	bounds := img.Bounds()
	for iy := bounds.Min.Y; iy < bounds.Max.Y; iy++ {
		for ix := bounds.Min.X; ix < bounds.Max.X; ix++ {
			r, g, b, _ := img.At(ix, iy).RGBA()
			luma := uint8((r + g + b) / 3 >> 8)
			d.writePixelLocked(x+ix-bounds.Min.X, y+iy-bounds.Min.Y, Gray(255-luma))
		}
	}
	return Rectangle{Top: uint32(y), Left: uint32(x), Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm, with a square brush of the given width, returning its
// bounding box.
func (d *Device) DrawLine(x0, y0, x1, y1, width int, c Color) Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()

	dx := abs(x0 - x1)
	dy := abs(y0 - y1)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx
	if dx <= dy {
		err = -dy
	}
	err /= 2

	minX, maxX, minY, maxY := x0, x0, y0, y0
	for {
		if width <= 1 {
			d.writePixelLocked(x0, y0, c)
		} else {
			d.fillRectLocked(x0-width/2, y0-width/2, width, width, c)
		}

		maxY, minY = maxInt(maxY, y0), minInt(minY, y0)
		minX, maxX = minInt(minX, x0), maxInt(maxX, x0)

		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dx {
			err -= dy
			x0 += sx
		}
		if e2 < dy {
			err += dx
			y0 += sy
		}
	}
	return Rectangle{Top: uint32(minY), Left: uint32(minX), Width: uint32(maxX - minX), Height: uint32(maxY - minY)}
}

// DrawCircle draws the outline of a circle of radius rad centered at
// (x, y) using midpoint circle rasterization.
func (d *Device) DrawCircle(x, y, rad int, c Color) Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drawCircleLocked(x, y, rad, c)
	return Rectangle{Top: uint32(y - rad), Left: uint32(x - rad), Width: uint32(2 * rad), Height: uint32(2 * rad)}
}

// FillCircle draws a filled circle of radius rad centered at (x, y) by
// rasterizing successive circle outlines from radius 1 up to rad.
func (d *Device) FillCircle(x, y, rad int, c Color) Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()
	for r := 1; r <= rad; r++ {
		d.drawCircleLocked(x, y, r, c)
	}
	return Rectangle{Top: uint32(y - rad), Left: uint32(x - rad), Width: uint32(2 * rad), Height: uint32(2 * rad)}
}

func (d *Device) drawCircleLocked(cx, cy, rad int, c Color) {
	x := rad
	y := 0
	err := 0
	for x >= y {
		d.plot8Locked(cx, cy, x, y, c)
		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

func (d *Device) plot8Locked(cx, cy, x, y int, c Color) {
	d.writePixelLocked(cx+x, cy+y, c)
	d.writePixelLocked(cx+y, cy+x, c)
	d.writePixelLocked(cx-y, cy+x, c)
	d.writePixelLocked(cx-x, cy+y, c)
	d.writePixelLocked(cx-x, cy-y, c)
	d.writePixelLocked(cx-y, cy-x, c)
	d.writePixelLocked(cx+y, cy-x, c)
	d.writePixelLocked(cx+x, cy-y, c)
}

// DrawBezier rasterizes a quadratic Bézier curve by sampling 1000 points
// along it, skipping samples that land on the same pixel as the previous
// sample.
func (d *Device) DrawBezier(start, ctrl, end [2]float32, c Color) Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()

	minX, minY := int(start[0]), int(start[1])
	maxX, maxY := int(end[0]), int(end[1])
	lastX, lastY := -100, -100
	for i := 0; i < 1000; i++ {
		t := float32(i) / 1000.0
		px := (1-t)*(1-t)*start[0] + 2*(1-t)*t*ctrl[0] + t*t*end[0]
		py := (1-t)*(1-t)*start[1] + 2*(1-t)*t*ctrl[1] + t*t*end[1]
		x, y := int(px), int(py)
		if x == lastX && y == lastY {
			continue
		}
		lastX, lastY = x, y
		d.writePixelLocked(x, y, c)
		minX, maxX = minInt(minX, x), maxInt(maxX, x)
		minY, maxY = minInt(minY, y), maxInt(maxY, y)
	}
	return Rectangle{Top: uint32(minY), Left: uint32(minX), Width: uint32(maxX - minX), Height: uint32(maxY - minY)}
}

// edgeBucket is one polygon edge's scanline-fill state.
type edgeBucket struct {
	ymax, ymin int
	x          int
	sign       int
	direction  int
	dx, dy     int
	sum        int
}

// FillPolygon rasterizes the polygon described by points (in order,
// implicitly closed) with a scanline fill under the nonzero winding rule,
// returning its bounding box. Fewer than three points fill nothing.
func (d *Device) FillPolygon(points []image.Point, c Color) Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fillPolygonLocked(points, c)
}

func (d *Device) fillPolygonLocked(points []image.Point, c Color) Rectangle {
	if len(points) < 3 {
		return Invalid
	}

	edges := make([]edgeBucket, 0, len(points))
	for i := range points {
		p0 := points[i]
		p1 := points[(i+1)%len(points)]
		lower, higher, direction := p0, p1, 1
		if p0.Y >= p1.Y {
			lower, higher, direction = p1, p0, -1
		}
		sign := -1
		if lower.X > higher.X {
			sign = 1
		}
		edges = append(edges, edgeBucket{
			ymax:      higher.Y,
			ymin:      lower.Y,
			x:         lower.X,
			sign:      sign,
			direction: direction,
			dx:        abs(higher.X - lower.X),
			dy:        abs(higher.Y - lower.Y),
		})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ymin < edges[j].ymin })

	var active []edgeBucket
	scanline := edges[0].ymin
	for len(edges) > 0 {
		// Horizontal edges end on the scanline they start on, so they
		// drop out here before ever joining the active list.
		edges = dropEndedEdges(edges, scanline)
		active = dropEndedEdges(active, scanline)
		for _, e := range edges {
			if e.ymin == scanline {
				active = append(active, e)
			}
		}
		sort.Slice(active, func(i, j int) bool { return active[i].x < active[j].x })

		prevX, winding := 0, 0
		for _, e := range active {
			if winding != 0 {
				for x := prevX; x < e.x; x++ {
					d.writePixelLocked(x, scanline, c)
				}
			}
			prevX = e.x
			winding += e.direction
		}

		scanline++
		for i := range active {
			e := &active[i]
			if e.dx != 0 {
				e.sum += e.dx
			}
			for e.dy != 0 && e.sum >= e.dy {
				e.x -= e.sign
				e.sum -= e.dy
			}
		}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX, maxX = minInt(minX, p.X), maxInt(maxX, p.X)
		minY, maxY = minInt(minY, p.Y), maxInt(maxY, p.Y)
	}
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	return Rectangle{Top: uint32(minY), Left: uint32(minX), Width: uint32(maxX - minX), Height: uint32(maxY - minY)}
}

func dropEndedEdges(edges []edgeBucket, scanline int) []edgeBucket {
	kept := edges[:0]
	for _, e := range edges {
		if e.ymax != scanline {
			kept = append(kept, e)
		}
	}
	return kept
}

// DrawDynamicBezier rasterizes a quadratic Bézier whose stroke width is
// interpolated between per-control-point widths: the sampled curve is
// offset along its normal on both sides and the two resulting edges are
// joined into a polygon for FillPolygon.
func (d *Device) DrawDynamicBezier(start, ctrl, end [2]float32, widths [3]float32, samples int, c Color) Rectangle {
	if samples < 2 {
		samples = 2
	}

	sentinel := image.Pt(math.MinInt32, math.MinInt32)
	var leftEdge, rightEdge []image.Point
	prevLeft, prevRight := sentinel, sentinel
	for i := 0; i < samples; i++ {
		t := float32(i) / float32(samples-1)
		px := (1-t)*(1-t)*start[0] + 2*(1-t)*t*ctrl[0] + t*t*end[0]
		py := (1-t)*(1-t)*start[1] + 2*(1-t)*t*ctrl[1] + t*t*end[1]

		var width float32
		if t < 0.5 {
			width = 2 * (widths[0]*(0.5-t) + widths[1]*t)
		} else {
			width = 2 * (widths[1]*(1-t) + widths[2]*(t-0.5))
		}

		vx := 2*(1-t)*(ctrl[0]-start[0]) + 2*t*(end[0]-ctrl[0])
		vy := 2*(1-t)*(ctrl[1]-start[1]) + 2*t*(end[1]-ctrl[1])
		speed := float32(math.Hypot(float64(vx), float64(vy)))
		var tx, ty float32
		if speed > 0 {
			tx, ty = vx/speed, vy/speed
		} else {
			// The control point coincides with an endpoint; fall back to
			// the chord's direction, or no tangent at all for a point curve.
			ex, ey := start[0]-end[0], start[1]-end[1]
			if m := float32(math.Hypot(float64(ex), float64(ey))); m > 0 {
				tx, ty = ex/m, ey/m
			}
		}

		leftPt := image.Pt(int(px-ty*width/2), int(py+tx*width/2))
		if leftPt != prevLeft {
			leftEdge = append(leftEdge, leftPt)
			prevLeft = leftPt
		}
		rightPt := image.Pt(int(px+ty*width/2), int(py-tx*width/2))
		if rightPt != prevRight {
			rightEdge = append(rightEdge, rightPt)
			prevRight = rightPt
		}
	}

	for i, j := 0, len(rightEdge)-1; i < j; i, j = i+1, j-1 {
		rightEdge[i], rightEdge[j] = rightEdge[j], rightEdge[i]
	}
	outline := append(leftEdge, rightEdge...)
	if len(outline) <= 2 {
		return Invalid
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fillPolygonLocked(outline, c)
}

// DrawRect draws the outline of a rectangle.
func (d *Device) DrawRect(x, y, w, h int, c Color) Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := 0; i < w; i++ {
		d.writePixelLocked(x+i, y, c)
		d.writePixelLocked(x+i, y+h-1, c)
	}
	for i := 0; i < h; i++ {
		d.writePixelLocked(x, y+i, c)
		d.writePixelLocked(x+w-1, y+i, c)
	}
	return Rectangle{Top: uint32(y), Left: uint32(x), Width: uint32(w), Height: uint32(h)}
}

// FillRect fills a rectangle solid with c.
func (d *Device) FillRect(x, y, w, h int, c Color) Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fillRectLocked(x, y, w, h, c)
	return Rectangle{Top: uint32(y), Left: uint32(x), Width: uint32(w), Height: uint32(h)}
}

func (d *Device) fillRectLocked(x, y, w, h int, c Color) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			d.writePixelLocked(xx, yy, c)
		}
	}
}

// TextOptions controls DrawText rasterization.
type TextOptions struct {
	// DryRun, when true, computes and returns the bounding box without
	// touching the framebuffer, so layout code can reserve space before
	// a real draw.
	DryRun bool
	// Scale, when nonzero and a TrueType font has been installed with
	// SetFont, rasterizes the text at that point size instead of the
	// size SetFont was called with. Ignored with the built-in bitmap
	// face, which exists at one size only.
	Scale float64
}

// DrawText rasterizes text at (x, y) using the face installed by SetFont,
// or the built-in bitmap face otherwise, returning the glyphs' bounding
// box. DryRun computes the box without touching the framebuffer.
func (d *Device) DrawText(x, y int, text string, c Color, opts TextOptions) Rectangle {
	d.mu.Lock()
	face := d.face
	if opts.Scale > 0 && d.font != nil {
		face = truetype.NewFace(d.font, &truetype.Options{Size: opts.Scale})
	}
	d.mu.Unlock()

	if !opts.DryRun {
		d.mu.Lock()
		defer d.mu.Unlock()
	}

	dot := fixed.P(x, y)
	minX, minY := x, y
	maxX, maxY := x, y
	for _, r := range text {
		dr, mask, maskp, advance, ok := face.Glyph(dot, r)
		if !ok {
			continue
		}
		if !opts.DryRun {
			for py := dr.Min.Y; py < dr.Max.Y; py++ {
				for px := dr.Min.X; px < dr.Max.X; px++ {
					_, _, _, a := mask.At(maskp.X+(px-dr.Min.X), maskp.Y+(py-dr.Min.Y)).RGBA()
					if a > 0x7fff {
						d.writePixelLocked(px, py, c)
					}
				}
			}
		}
		minX, minY = minInt(minX, dr.Min.X), minInt(minY, dr.Min.Y)
		maxX, maxY = maxInt(maxX, dr.Max.X), maxInt(maxY, dr.Max.Y)
		dot.X += advance
	}
	return Rectangle{Top: uint32(minY), Left: uint32(minX), Width: uint32(maxX - minX), Height: uint32(maxY - minY)}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

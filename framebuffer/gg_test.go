// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuffer

import (
	"testing"

	"github.com/fogleman/gg"
)

// TestDrawImageAgainstGGReference builds a reference image with gg (a black
// square on a white background) and checks that DrawImage's luma-blit
// reproduces the same shape, checking against a known-good rendering rather
// than hand-computed pixels.
func TestDrawImageAgainstGGReference(t *testing.T) {
	const size = 20
	dc := gg.NewContext(size, size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(5, 5, 10, 10)
	dc.Fill()

	d := newTestDevice(size, size)
	d.DrawImage(dc.Image(), 0, 0)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			inSquare := x >= 5 && x < 15 && y >= 5 && y < 15
			want := White
			if inSquare {
				want = Black
			}
			if got := d.ReadPixel(x, y); got.Native() != want.Native() {
				t.Fatalf("pixel (%d,%d) = %v, want %v (inSquare=%v)", x, y, got.Native(), want.Native(), inSquare)
			}
		}
	}
}

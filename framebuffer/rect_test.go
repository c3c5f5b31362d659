// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuffer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContainsPoint(t *testing.T) {
	r := Rectangle{Top: 10, Left: 10, Width: 5, Height: 5}
	if !r.ContainsPoint(10, 10) || !r.ContainsPoint(15, 15) {
		t.Error("expected edges to be inclusive")
	}
	if r.ContainsPoint(9, 10) || r.ContainsPoint(16, 10) {
		t.Error("expected out-of-range points to be excluded")
	}
}

func TestContainsPointLiteralScenario(t *testing.T) {
	r := Rectangle{Top: 100, Left: 200, Width: 50, Height: 30}
	if !r.ContainsPoint(220, 110) {
		t.Error("expected (220,110) to be contained")
	}
	if r.ContainsPoint(260, 110) {
		t.Error("expected (260,110) to be outside the rect")
	}
}

func TestMergeWithInvalidSentinel(t *testing.T) {
	r := Rectangle{Top: 10, Left: 10, Width: 5, Height: 5}
	if diff := cmp.Diff(r, Invalid.Merge(r)); diff != "" {
		t.Errorf("Invalid.Merge(r) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Invalid, Invalid.Merge(Invalid)); diff != "" {
		t.Errorf("Invalid.Merge(Invalid) mismatch (-want +got):\n%s", diff)
	}
}

func TestContainsRect(t *testing.T) {
	outer := Rectangle{Top: 0, Left: 0, Width: 100, Height: 100}
	inner := Rectangle{Top: 10, Left: 10, Width: 5, Height: 5}
	if !outer.ContainsRect(inner) {
		t.Error("expected outer to contain inner")
	}
	if inner.ContainsRect(outer) {
		t.Error("expected inner to not contain outer")
	}
}

func TestMergePixel(t *testing.T) {
	r := Rectangle{Top: 10, Left: 10, Width: 5, Height: 5}
	got := r.MergePixel(20, 20)
	want := Rectangle{Top: 10, Left: 10, Width: 10, Height: 10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergePixel mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge(t *testing.T) {
	a := Rectangle{Top: 0, Left: 0, Width: 10, Height: 10}
	b := Rectangle{Top: 5, Left: 5, Width: 10, Height: 10}
	got := a.Merge(b)
	want := Rectangle{Top: 0, Left: 0, Width: 15, Height: 15}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(b, Rectangle{}.Merge(b)); diff != "" {
		t.Errorf("Merge with empty lhs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(a, a.Merge(Rectangle{})); diff != "" {
		t.Errorf("Merge with empty rhs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Invalid, Rectangle{}.Merge(Rectangle{})); diff != "" {
		t.Errorf("Merge of two empties mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeContainsBothOperands(t *testing.T) {
	pairs := []struct{ a, b Rectangle }{
		{Rectangle{Top: 0, Left: 0, Width: 10, Height: 10}, Rectangle{Top: 5, Left: 5, Width: 10, Height: 10}},
		{Rectangle{Top: 100, Left: 50, Width: 1, Height: 1}, Rectangle{Top: 0, Left: 0, Width: 1, Height: 1}},
		{Rectangle{Top: 1, Left: 1, Width: 1, Height: 1}, Rectangle{Top: 1, Left: 1, Width: 1, Height: 1}},
	}
	for _, p := range pairs {
		merged := p.a.Merge(p.b)
		if !merged.ContainsRect(p.a) {
			t.Errorf("Merge(%+v, %+v) = %+v does not contain a", p.a, p.b, merged)
		}
		if !merged.ContainsRect(p.b) {
			t.Errorf("Merge(%+v, %+v) = %+v does not contain b", p.a, p.b, merged)
		}
	}
}

func TestExpandContainsOriginal(t *testing.T) {
	rects := []Rectangle{
		{Top: 5, Left: 5, Width: 10, Height: 10},
		{Top: 0, Left: 0, Width: 1, Height: 1},
		{Top: 1000, Left: 1000, Width: 50, Height: 50},
	}
	for _, r := range rects {
		for _, margin := range []uint32{0, 1, 10} {
			if expanded := r.Expand(margin); !expanded.ContainsRect(r) {
				t.Errorf("Expand(%d) of %+v = %+v does not contain the original", margin, r, expanded)
			}
		}
	}
}

func TestExpand(t *testing.T) {
	r := Rectangle{Top: 5, Left: 5, Width: 10, Height: 10}
	got := r.Expand(3)
	want := Rectangle{Top: 2, Left: 2, Width: 16, Height: 16}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand mismatch (-want +got):\n%s", diff)
	}

	// Margin larger than the origin clamps to zero rather than wrapping.
	zero := Rectangle{Top: 1, Left: 1, Width: 2, Height: 2}
	got = zero.Expand(5)
	want = Rectangle{Top: 0, Left: 0, Width: 12, Height: 12}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand clamp mismatch (-want +got):\n%s", diff)
	}
}

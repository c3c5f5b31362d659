// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package appctx

import "testing"

func TestQuadtreeInsertAndQuery(t *testing.T) {
	q := newQuadtree(1404, 1872, 4)
	region := &ActiveRegion{}
	q.insert(rect{100, 100, 200, 200}, region)

	got, id := q.queryPoint(150, 150, 2)
	if got != region {
		t.Fatalf("expected to find inserted region, got %v", got)
	}
	if id == 0 {
		t.Error("expected a nonzero item id")
	}
}

func TestQuadtreeQueryMiss(t *testing.T) {
	q := newQuadtree(1404, 1872, 4)
	q.insert(rect{100, 100, 200, 200}, &ActiveRegion{})

	if got, _ := q.queryPoint(1000, 1000, 2); got != nil {
		t.Errorf("expected no match far from any region, got %v", got)
	}
}

func TestQuadtreeRemove(t *testing.T) {
	q := newQuadtree(1404, 1872, 4)
	region := &ActiveRegion{}
	id := q.insert(rect{100, 100, 200, 200}, region)

	if !q.remove(id) {
		t.Fatal("remove of an existing id should succeed")
	}
	if q.remove(id) {
		t.Error("remove of an already-removed id should fail")
	}
	if got, _ := q.queryPoint(150, 150, 2); got != nil {
		t.Errorf("expected no match after removal, got %v", got)
	}
}

func TestQuadtreeSplitsUnderLoad(t *testing.T) {
	q := newQuadtree(1000, 1000, 2)
	regions := make([]*ActiveRegion, 0, 50)
	for i := 0; i < 50; i++ {
		r := &ActiveRegion{}
		regions = append(regions, r)
		x := float32((i % 10) * 90)
		y := float32((i / 10) * 180)
		q.insert(rect{x, y, x + 10, y + 10}, r)
	}

	for i, r := range regions {
		x := float32((i % 10) * 90)
		y := float32((i / 10) * 180)
		got, _ := q.queryPoint(x+5, y+5, 1)
		if got != r {
			t.Errorf("region %d: expected to find it at (%v,%v), got %v", i, x, y, got)
		}
	}
}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package appctx

// quadtree is a small axis-aligned bounding-box index over the display
// rectangle: regions are inserted with their bounding box, and queried by
// point (with a small radius, for hit-testing a stylus/finger position
// against imprecise coordinates). No ecosystem package in this module's
// stack provides 2-D spatial indexing, so this mirrors the shape of one
// (insert-with-box / query-by-point / remove-by-id) directly.
type quadtree struct {
	root     *quadnode
	capacity int
	nextID   int
	items    map[int]*qitem
}

type qitem struct {
	id     int
	bounds rect
	handle *ActiveRegion
}

type rect struct {
	minX, minY, maxX, maxY float32
}

func (r rect) contains(x, y float32) bool {
	return x >= r.minX && x <= r.maxX && y >= r.minY && y <= r.maxY
}

func (r rect) intersects(o rect) bool {
	return r.minX <= o.maxX && r.maxX >= o.minX && r.minY <= o.maxY && r.maxY >= o.minY
}

type quadnode struct {
	bounds   rect
	items    []*qitem
	children [4]*quadnode // nil until split
}

func newQuadtree(width, height float32, capacity int) *quadtree {
	if capacity <= 0 {
		capacity = 16
	}
	return &quadtree{
		root:     &quadnode{bounds: rect{0, 0, width, height}},
		capacity: capacity,
		items:    make(map[int]*qitem),
	}
}

// insert adds handle under bounds and returns an id usable with remove.
func (q *quadtree) insert(bounds rect, handle *ActiveRegion) int {
	q.nextID++
	id := q.nextID
	item := &qitem{id: id, bounds: bounds, handle: handle}
	q.items[id] = item
	q.root.insert(item, q.capacity)
	return id
}

// queryPoint returns the first region whose bounds intersect a
// radius-sized box centered at (x, y), or nil.
func (q *quadtree) queryPoint(x, y, radius float32) (*ActiveRegion, int) {
	box := rect{x - radius, y - radius, x + radius, y + radius}
	if item := q.root.query(box); item != nil {
		return item.handle, item.id
	}
	return nil, 0
}

// remove deletes the item with the given id, returning whether it existed.
func (q *quadtree) remove(id int) bool {
	item, ok := q.items[id]
	if !ok {
		return false
	}
	delete(q.items, id)
	q.root.remove(item)
	return true
}

func (n *quadnode) insert(item *qitem, capacity int) {
	if n.children[0] == nil {
		n.items = append(n.items, item)
		if len(n.items) > capacity {
			n.split(capacity)
		}
		return
	}
	for _, c := range n.children {
		if c.bounds.intersects(item.bounds) {
			c.insert(item, capacity)
		}
	}
}

func (n *quadnode) split(capacity int) {
	midX := (n.bounds.minX + n.bounds.maxX) / 2
	midY := (n.bounds.minY + n.bounds.maxY) / 2
	n.children[0] = &quadnode{bounds: rect{n.bounds.minX, n.bounds.minY, midX, midY}}
	n.children[1] = &quadnode{bounds: rect{midX, n.bounds.minY, n.bounds.maxX, midY}}
	n.children[2] = &quadnode{bounds: rect{n.bounds.minX, midY, midX, n.bounds.maxY}}
	n.children[3] = &quadnode{bounds: rect{midX, midY, n.bounds.maxX, n.bounds.maxY}}

	items := n.items
	n.items = nil
	for _, item := range items {
		for _, c := range n.children {
			if c.bounds.intersects(item.bounds) {
				c.insert(item, capacity)
			}
		}
	}
}

func (n *quadnode) query(box rect) *qitem {
	if !n.bounds.intersects(box) {
		return nil
	}
	for _, item := range n.items {
		if item.bounds.intersects(box) {
			return item
		}
	}
	for _, c := range n.children {
		if c == nil {
			continue
		}
		if item := c.query(box); item != nil {
			return item
		}
	}
	return nil
}

// remove deletes target from every node it was inserted into: an item
// straddling a split boundary lives in more than one leaf, so removal
// cannot stop at the first match.
func (n *quadnode) remove(target *qitem) {
	for i, item := range n.items {
		if item == target {
			n.items = append(n.items[:i], n.items[i+1:]...)
			break
		}
	}
	for _, c := range n.children {
		if c == nil {
			continue
		}
		c.remove(target)
	}
}

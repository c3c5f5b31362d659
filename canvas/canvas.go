// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package canvas

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// CompressedCanvas holds a zstd-compressed copy of a rectangular region's
// native pixel bytes, along with the dimensions needed to restore it.
// Compression ratios on real drawing content run well above 90%, so keeping
// many of these in an undo/redo history is cheap compared to the raw
// buffers.
type CompressedCanvas struct {
	data          []byte
	width, height uint32
}

// Compress captures width x height native pixel bytes (2 bytes/pixel, as
// produced by framebuffer.Device.DumpRegion) into a CompressedCanvas.
func Compress(width, height uint32, raw []byte) (*CompressedCanvas, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("canvas: new encoder: %w", err)
	}
	defer enc.Close()

	return &CompressedCanvas{
		data:   enc.EncodeAll(raw, nil),
		width:  width,
		height: height,
	}, nil
}

// Width and Height report the dimensions of the region this canvas holds.
func (c *CompressedCanvas) Width() uint32  { return c.width }
func (c *CompressedCanvas) Height() uint32 { return c.height }

// Decompress returns the original native pixel bytes.
func (c *CompressedCanvas) Decompress() ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("canvas: new decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(c.data, nil)
	if err != nil {
		return nil, fmt.Errorf("canvas: decode: %w", err)
	}
	return out, nil
}

// Size returns the number of bytes the compressed payload occupies, for
// instrumentation/debugging.
func (c *CompressedCanvas) Size() int {
	return len(c.data)
}

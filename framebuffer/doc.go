// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package framebuffer memory-maps the reMarkable display surface and
// exposes pixel-level read/write access plus a small set of drawing
// primitives on top of it. It implements periph.io/x/conn/v3/display.Drawer
// so the rest of the stack can treat the tablet like any other periph
// display.
package framebuffer

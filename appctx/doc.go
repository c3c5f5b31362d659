// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package appctx is the application runtime: a single event loop consuming
// the input package's decoded Event stream, a named collection of UI
// elements drawn against a shared framebuffer.Device, and a 2-D spatial
// index of click regions.
package appctx

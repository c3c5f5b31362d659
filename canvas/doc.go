// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package canvas holds compressed snapshots of framebuffer regions, for
// undo/redo style restore without keeping every dumped region raw in
// memory.
package canvas

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package input decodes the tablet's three evdev streams (stylus
// digitizer, capacitive multitouch, physical buttons) into a single typed
// Event stream, each read by its own epoll-driven pump worker and fanned
// into a shared ring buffer.
package input

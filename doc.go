// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package libremarkable turns the kernel-exposed framebuffer and input event
// devices of a reMarkable tablet into a coherent display-and-input runtime
// for native applications.
//
// Two hardware generations are supported transparently: the first
// generation exposes a memory-mapped EPDC framebuffer reached through
// vendor ioctls, the second routes updates through a user-space shim
// reached via a System V message queue. See the device, framebuffer, epdc,
// input and appctx packages for the individual subsystems.
package libremarkable

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// rawEvent mirrors struct input_event from linux/input.h: a kernel timeval
// followed by type/code/value. unix.Timeval carries the platform's word
// size, so the layout stays correct on the tablet's 32-bit ARM kernel as
// well as on 64-bit development hosts. The timestamp is read but never
// consulted; decoding only needs type/code/value.
type rawEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

const rawEventSize = int(unsafe.Sizeof(rawEvent{}))

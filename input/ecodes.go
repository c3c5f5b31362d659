// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

// Linux evdev event codes this module decodes. Kept in their own file, away
// from decode logic, mirroring how the kernel's own
// input-event-codes.h separates naming from behavior.
const (
	evSyn uint16 = 0x00
	evKey uint16 = 0x01
	evAbs uint16 = 0x03

	synReport uint16 = 0x00

	absMtSlot        uint16 = 0x2f
	absMtTouchMajor  uint16 = 0x30
	absMtTouchMinor  uint16 = 0x31
	absMtOrientation uint16 = 0x34
	absMtPositionX   uint16 = 0x35
	absMtPositionY   uint16 = 0x36
	absMtTrackingID  uint16 = 0x39
	absMtPressure    uint16 = 0x3a

	absPressure uint16 = 0x18
	absDistance uint16 = 0x19
	absTiltX    uint16 = 0x1a
	absTiltY    uint16 = 0x1b
	absX        uint16 = 0x00
	absY        uint16 = 0x01

	btnToolPen    uint16 = 0x140
	btnToolRubber uint16 = 0x141
	btnTouch      uint16 = 0x14a
	btnStylus     uint16 = 0x14b
	btnStylus2    uint16 = 0x14c

	keyHome   uint16 = 0x66
	keyLeft   uint16 = 0x69
	keyRight  uint16 = 0x6a
	keyPower  uint16 = 0x74
	keyWakeup uint16 = 0x8f
)

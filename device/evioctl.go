// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux ioctl request encoding (include/uapi/asm-generic/ioctl.h). The
// evdev ABI has no x/sys/unix wrapper for EVIOCGBIT/EVIOCGABS, so this
// module computes request codes the same way the kernel headers do, the
// idiom real evdev bindings use when golang.org/x/sys/unix stops short of a
// given ioctl family.
const (
	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocNone  = 0
	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return (dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNrShift) | (size << iocSizeShift)
}

// Event types and codes this module needs from linux/input-event-codes.h.
const (
	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	evMax  = 0x1f
	keyMax = 0x2ff
	absMax = 0x3f

	btnStylus     = 0x14b
	btnStylus2    = 0x14c
	btnToolPen    = 0x140
	btnToolRubber = 0x141
	btnTouch      = 0x14a

	keyHome   = 0x66
	keyLeft   = 0x69
	keyRight  = 0x6a
	keyPower  = 0x74
	keyWakeup = 0x8f

	absX            = 0x00
	absY            = 0x01
	absMtSlot       = 0x2f
	absMtPositionX  = 0x35
	absMtPositionY  = 0x36
	absMtTrackingID = 0x39
)

func eviocgbit(ev, length int) uintptr {
	return ioc(iocRead, 'E', uintptr(0x20+ev), uintptr(length))
}

func eviocgabs(abs int) uintptr {
	// struct input_absinfo is six 32-bit fields = 24 bytes.
	return ioc(iocRead, 'E', uintptr(0x40+abs), 24)
}

func ioctlBits(fd int, req uintptr, nbytes int) ([]byte, error) {
	buf := make([]byte, nbytes)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return nil, errno
	}
	return buf, nil
}

func bitSet(bits []byte, n int) bool {
	byteIdx := n / 8
	if byteIdx >= len(bits) {
		return false
	}
	return bits[byteIdx]&(1<<(uint(n)%8)) != 0
}

// absInfo mirrors struct input_absinfo.
type absInfo struct {
	Value, Minimum, Maximum, Fuzz, Flat, Resolution int32
}

func ioctlAbsInfo(fd int, abs int) (absInfo, error) {
	buf, err := ioctlBits(fd, eviocgabs(abs), 24)
	if err != nil {
		return absInfo{}, err
	}
	return *(*absInfo)(unsafe.Pointer(&buf[0])), nil
}

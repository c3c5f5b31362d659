// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epdc

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/canselcik/libremarkable-go/internal/sem"
)

// Transport submits EPDC update requests and, where the hardware supports
// it, waits for their completion. Gen1 talks directly to the kernel driver
// over ioctl; Gen2 talks to the rm2fb shim over a System V message queue.
type Transport interface {
	SendUpdate(data *updateData) error
	// WaitForUpdateComplete blocks for the given marker's completion.
	// ok is false if the hardware does not support waiting (Gen2 without
	// the wait ioctl enabled) or the wait timed out.
	WaitForUpdateComplete(marker uint32) (collision uint32, ok bool)
}

// Gen1Transport issues update ioctls directly against an open framebuffer
// device file descriptor.
type Gen1Transport struct {
	fd int
}

// NewGen1Transport wraps an already-open framebuffer device descriptor.
func NewGen1Transport(fd int) *Gen1Transport {
	return &Gen1Transport{fd: fd}
}

func (t *Gen1Transport) SendUpdate(data *updateData) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(t.fd), sendUpdateIoctl, uintptr(unsafe.Pointer(data))); errno != 0 {
		return fmt.Errorf("epdc: MXCFB_SEND_UPDATE: %w", errno)
	}
	return nil
}

func (t *Gen1Transport) WaitForUpdateComplete(marker uint32) (uint32, bool) {
	md := updateMarkerData{UpdateMarker: marker}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(t.fd), waitForUpdateCompleteIoctl, uintptr(unsafe.Pointer(&md))); errno != 0 {
		return 0, false
	}
	return md.CollisionTest, true
}

// SetAutoUpdateMode switches the EPDC between explicit-region and
// automatic refresh, part of the Gen1 driver surface the Gen2 shim has no
// counterpart for.
func (t *Gen1Transport) SetAutoUpdateMode(mode AutoUpdateMode) error {
	m := uint32(mode)
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(t.fd), setAutoUpdateModeIoctl, uintptr(unsafe.Pointer(&m))); errno != 0 {
		return fmt.Errorf("epdc: MXCFB_SET_AUTO_UPDATE_MODE: %w", errno)
	}
	return nil
}

// SetUpdateScheme selects the driver's update serialization scheme.
func (t *Gen1Transport) SetUpdateScheme(scheme UpdateScheme) error {
	s := uint32(scheme)
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(t.fd), setUpdateSchemeIoctl, uintptr(unsafe.Pointer(&s))); errno != 0 {
		return fmt.Errorf("epdc: MXCFB_SET_UPDATE_SCHEME: %w", errno)
	}
	return nil
}

// EnableEPDCAccess and DisableEPDCAccess bracket direct controller access.
func (t *Gen1Transport) EnableEPDCAccess() error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(t.fd), enableEPDCAccessIoctl, 0); errno != 0 {
		return fmt.Errorf("epdc: MXCFB_ENABLE_EPDC_ACCESS: %w", errno)
	}
	return nil
}

func (t *Gen1Transport) DisableEPDCAccess() error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(t.fd), disableEPDCAccessIoctl, 0); errno != 0 {
		return fmt.Errorf("epdc: MXCFB_DISABLE_EPDC_ACCESS: %w", errno)
	}
	return nil
}

var _ Transport = (*Gen1Transport)(nil)

const (
	swtfbMessageQueueID = 0x2257c
	semWaitTimeout      = 200 * time.Millisecond
)

type msgType int32

const (
	msgInit   msgType = 1
	msgUpdate msgType = 2
	msgXO     msgType = 3
	msgWait   msgType = 4
)

// swtfbUpdate mirrors struct swtfb_update: a tagged union keyed by mtype.
// Data is sized to the union's largest member, WAIT_t's 512-byte semaphore
// name; UPDATE_t's mxcfb payload occupies its prefix. mtype is i32 on the
// wire, which doubles as the message-queue type long on the shim's 32-bit
// ARM host.
type swtfbUpdate struct {
	Mtype msgType
	Data  [512]byte
}

// Gen2Transport speaks the rm2fb shim's System V message queue protocol.
type Gen2Transport struct {
	msqid       int32
	doWaitIoctl bool
}

// NewGen2Transport creates (or attaches to) the rm2fb shim's message queue
// and sets the environment variables the shim's clients use to coordinate
// nested/active state, mirroring SwtfbIpcQueue::new.
func NewGen2Transport() (*Gen2Transport, error) {
	msqid, _, errno := unix.Syscall(unix.SYS_MSGGET, uintptr(swtfbMessageQueueID), uintptr(unix.IPC_CREAT|0o600), 0)
	if errno != 0 {
		return nil, fmt.Errorf("epdc: msgget: %w", errno)
	}

	os.Setenv("RM2FB_SHIM", "0.1")
	if _, active := os.LookupEnv("RM2FB_ACTIVE"); active {
		os.Setenv("RM2FB_NESTED", "1")
	} else {
		os.Setenv("RM2FB_ACTIVE", "1")
	}

	_, noWaitIoctl := os.LookupEnv("RM2FB_NO_WAIT_IOCTL")
	return &Gen2Transport{msqid: int32(msqid), doWaitIoctl: !noWaitIoctl}, nil
}

func (t *Gen2Transport) send(msg *swtfbUpdate) error {
	_, _, errno := unix.Syscall(unix.SYS_MSGSND, uintptr(t.msqid), uintptr(unsafe.Pointer(msg)), unsafe.Sizeof(msg.Data))
	if errno != 0 {
		return fmt.Errorf("epdc: msgsnd: %w", errno)
	}
	return nil
}

func (t *Gen2Transport) SendUpdate(data *updateData) error {
	msg := swtfbUpdate{Mtype: msgUpdate}
	copy(msg.Data[:], unsafe.Slice((*byte)(unsafe.Pointer(data)), unsafe.Sizeof(*data)))
	return t.send(&msg)
}

// WaitForUpdateComplete asks the shim to post a named semaphore once the
// update lands, then waits on it with a 200ms timeout, matching the
// reference client's (documented as UNTESTED upstream) wait protocol. If
// RM2FB_NO_WAIT_IOCTL is set this is a no-op returning ok=false.
func (t *Gen2Transport) WaitForUpdateComplete(marker uint32) (uint32, bool) {
	if !t.doWaitIoctl {
		return 0, false
	}

	semName := fmt.Sprintf("/rm2fb.wait.%d", os.Getpid())
	msg := swtfbUpdate{Mtype: msgWait}
	copy(msg.Data[:], semName)
	if t.send(&msg) != nil {
		return 0, false
	}

	s, err := sem.Open(semName)
	if err != nil {
		return 0, false
	}
	ok := s.WaitTimeout(semWaitTimeout)
	s.Unlink()
	return 0, ok
}

var _ Transport = (*Gen2Transport)(nil)

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sem wraps POSIX named semaphores (sem_open/sem_timedwait/
// sem_unlink). golang.org/x/sys/unix only wraps the System V semaphore
// family (semget/semop); the named-semaphore API used by the rm2fb Gen2
// transport to signal refresh completion has no pure-Go equivalent, so this
// package reaches for cgo against the platform's libc, the same way the
// reference client does through its libc binding.
package sem

/*
#include <semaphore.h>
#include <fcntl.h>
#include <time.h>
#include <errno.h>
#include <stdlib.h>

static int sem_wait_timed(sem_t *s, long timeout_ns) {
	struct timespec ts;
	clock_gettime(CLOCK_REALTIME, &ts);
	ts.tv_nsec += timeout_ns;
	if (ts.tv_nsec >= 1000000000L) {
		ts.tv_nsec -= 1000000000L;
		ts.tv_sec += 1;
	}
	return sem_timedwait(s, &ts);
}

// sem_open is variadic in C and cgo cannot call variadic functions
// directly; this wrapper always supplies the O_CREAT arguments.
static sem_t *sem_open_create(const char *name, mode_t mode, unsigned int value) {
	return sem_open(name, O_CREAT, mode, value);
}
*/
import "C"

import (
	"fmt"
	"time"
	"unsafe"
)

// Semaphore is a POSIX named semaphore, identified by a leading-slash name
// such as "/rm2fb.wait.1234".
type Semaphore struct {
	name string
	ptr  unsafe.Pointer
}

// Open creates (or attaches to) the named semaphore.
func Open(name string) (*Semaphore, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	s, err := C.sem_open_create(cName, 0644, 0)
	if err != nil || s == nil {
		return nil, fmt.Errorf("sem: sem_open(%q): %w", name, err)
	}
	return &Semaphore{name: name, ptr: unsafe.Pointer(s)}, nil
}

// WaitTimeout blocks until the semaphore is posted or timeout elapses,
// reporting false on timeout.
func (s *Semaphore) WaitTimeout(timeout time.Duration) bool {
	ret := C.sem_wait_timed((*C.sem_t)(s.ptr), C.long(timeout.Nanoseconds()))
	return ret == 0
}

// Unlink closes the handle and removes the semaphore's name from the
// system, matching the reference client's cleanup-after-every-wait
// behavior: the semaphore is created fresh per update marker and never
// reused.
func (s *Semaphore) Unlink() error {
	C.sem_close((*C.sem_t)(s.ptr))
	cName := C.CString(s.name)
	defer C.free(unsafe.Pointer(cName))
	if C.sem_unlink(cName) != 0 {
		return fmt.Errorf("sem: sem_unlink(%q) failed", s.name)
	}
	return nil
}

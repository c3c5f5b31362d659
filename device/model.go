// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"periph.io/x/host/v3"
)

// Model identifies a reMarkable hardware generation.
type Model int

const (
	// Gen1 exposes a memory-mapped EPDC framebuffer reached through vendor
	// ioctls on /dev/fb0.
	Gen1 Model = iota
	// Gen2 routes updates through the rm2fb shim via a System V message
	// queue and shared memory.
	Gen2
)

func (m Model) String() string {
	switch m {
	case Gen1:
		return "reMarkable 1"
	case Gen2:
		return "reMarkable 2"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// machineFile is the sysfs file used to fingerprint the running hardware.
const machineFile = "/sys/devices/soc0/machine"

// UnknownVersionError reports a machine-name string that matched none of
// the known reMarkable generations.
type UnknownVersionError struct {
	MachineName string
}

func (e *UnknownVersionError) Error() string {
	return fmt.Sprintf("device: unknown reMarkable machine string %q", e.MachineName)
}

// DetectModel reads the platform machine-name file once and classifies the
// running hardware. I/O errors are returned wrapped; an unrecognized
// machine string is returned as *UnknownVersionError.
func DetectModel() (Model, error) {
	content, err := os.ReadFile(machineFile)
	if err != nil {
		return 0, fmt.Errorf("device: reading %s: %w", machineFile, err)
	}

	switch strings.TrimSpace(string(content)) {
	case "reMarkable 1.0", "reMarkable Prototype 1":
		return Gen1, nil
	case "reMarkable 2.0":
		return Gen2, nil
	default:
		return 0, &UnknownVersionError{MachineName: strings.TrimSpace(string(content))}
	}
}

// Placement describes the rotation and axis inversion needed to bring an
// input device's raw coordinate space into the display's portrait
// orientation, origin top-left. Scaling to display resolution is applied
// separately by the input decoders.
type Placement struct {
	Rotation Rotation
	InvertX  bool
	InvertY  bool
}

// Probe holds the one-time result of hardware detection, used by the rest
// of this module to pick a transport and decode input placement.
type Probe struct {
	Model Model
}

var (
	currentOnce  sync.Once
	currentProbe *Probe
	currentErr   error
)

// Current detects the running hardware once per process and memoizes the
// result: callers in epdc/framebuffer/input all need the same answer
// without re-reading sysfs on every call. It first runs periph's platform
// bootstrap (host.Init), the way every periph device driver does before
// touching host peripherals, even though this module talks to the display
// and input subsystems through raw ioctl/mmap/epoll rather than through a
// periph host driver directly.
func Current() (*Probe, error) {
	currentOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			currentErr = fmt.Errorf("device: host.Init: %w", err)
			return
		}
		m, err := DetectModel()
		if err != nil {
			currentErr = err
			return
		}
		currentProbe = &Probe{Model: m}
	})
	return currentProbe, currentErr
}

// WacomPlacement returns the digitizer's rotation/inversion. Identical on
// both hardware generations.
func (p *Probe) WacomPlacement() Placement {
	return Placement{Rotation: Rot270}
}

// MultitouchPlacement returns the touchscreen's rotation/inversion, which
// differs between generations (Gen2 inverts X).
func (p *Probe) MultitouchPlacement() Placement {
	switch p.Model {
	case Gen2:
		return Placement{Rotation: Rot180, InvertX: true}
	default:
		return Placement{Rotation: Rot180}
	}
}

// InternalBatteryName is the directory name under
// /sys/class/power_supply for the tablet's built-in battery.
func (p *Probe) InternalBatteryName() string {
	if p.Model == Gen2 {
		return "max77818_battery"
	}
	return "bq27441-0"
}

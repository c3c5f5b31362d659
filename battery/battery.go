// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package battery reads the tablet's battery sysfs attributes. It is
// intentionally minimal: a handful of scalar reads against
// /sys/class/power_supply/<name>/<attribute>, no polling loop and no
// event/inotify-backed callback API.
package battery

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const powerSupplyDir = "/sys/class/power_supply"

// Reader reads scalar attributes for one named battery, as identified by
// device.Probe.InternalBatteryName.
type Reader struct {
	name string
	// root overrides powerSupplyDir; only ever set by tests.
	root string
}

// NewReader returns a Reader for the battery directory name reported by the
// hardware probe (e.g. "bq27441-0" on Gen1, "max77818_battery" on Gen2).
func NewReader(name string) *Reader {
	return &Reader{name: name, root: powerSupplyDir}
}

func (r *Reader) readAttribute(attr string) (string, error) {
	path := filepath.Join(r.root, r.name, attr)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("battery: reading %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *Reader) readInt(attr string) (int, error) {
	s, err := r.readAttribute(attr)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("battery: parsing %s (%q): %w", attr, s, err)
	}
	return v, nil
}

// Percentage returns the battery's current charge level, 0-100.
func (r *Reader) Percentage() (int, error) { return r.readInt("capacity") }

// CapacityLevel returns a human-readable level such as "Normal" or "Low".
func (r *Reader) CapacityLevel() (string, error) { return r.readAttribute("capacity_level") }

// ChargeFull returns the battery's last-measured full-charge capacity, in
// µAh.
func (r *Reader) ChargeFull() (int, error) { return r.readInt("charge_full") }

// ChargeFullDesign returns the battery's design full-charge capacity, in
// µAh.
func (r *Reader) ChargeFullDesign() (int, error) { return r.readInt("charge_full_design") }

// Charge returns the battery's current charge, in µAh.
func (r *Reader) Charge() (int, error) { return r.readInt("charge_now") }

// Status returns a human-readable charging status such as "Discharging",
// "Charging" or "Full".
func (r *Reader) Status() (string, error) { return r.readAttribute("status") }

// Temperature returns the battery's temperature, in tenths of a degree
// Celsius.
func (r *Reader) Temperature() (int, error) { return r.readInt("temp") }

// Voltage returns the battery's current voltage, in µV.
func (r *Reader) Voltage() (int, error) { return r.readInt("voltage_now") }

// Current returns the battery's current draw, in µA. Negative values
// indicate discharge.
func (r *Reader) Current() (int, error) { return r.readInt("current_now") }

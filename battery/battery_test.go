// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package battery

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestReader(t *testing.T, files map[string]string) *Reader {
	t.Helper()
	dir := t.TempDir()
	batteryDir := filepath.Join(dir, "bq27441-0")
	if err := os.Mkdir(batteryDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(batteryDir, name), []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return &Reader{name: "bq27441-0", root: dir}
}

func TestPercentage(t *testing.T) {
	r := newTestReader(t, map[string]string{"capacity": "97\n"})
	got, err := r.Percentage()
	if err != nil {
		t.Fatal(err)
	}
	if got != 97 {
		t.Errorf("Percentage() = %d, want 97", got)
	}
}

func TestStatusAndCapacityLevel(t *testing.T) {
	r := newTestReader(t, map[string]string{"status": "Discharging\n", "capacity_level": "Normal\n"})
	if got, err := r.Status(); err != nil || got != "Discharging" {
		t.Errorf("Status() = %q, %v; want Discharging, nil", got, err)
	}
	if got, err := r.CapacityLevel(); err != nil || got != "Normal" {
		t.Errorf("CapacityLevel() = %q, %v; want Normal, nil", got, err)
	}
}

func TestNegativeCurrent(t *testing.T) {
	r := newTestReader(t, map[string]string{"current_now": "-132000\n"})
	got, err := r.Current()
	if err != nil {
		t.Fatal(err)
	}
	if got != -132000 {
		t.Errorf("Current() = %d, want -132000", got)
	}
}

func TestMissingAttributeReturnsError(t *testing.T) {
	r := newTestReader(t, nil)
	if _, err := r.Percentage(); err == nil {
		t.Fatal("expected an error for a missing attribute file")
	}
}

func TestUnparsableAttributeReturnsError(t *testing.T) {
	r := newTestReader(t, map[string]string{"capacity": "not-a-number\n"})
	if _, err := r.Percentage(); err == nil {
		t.Fatal("expected an error for an unparsable attribute")
	}
}

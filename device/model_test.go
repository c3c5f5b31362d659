// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestModelString(t *testing.T) {
	cases := []struct {
		m    Model
		want string
	}{
		{Gen1, "reMarkable 1"},
		{Gen2, "reMarkable 2"},
		{Model(99), "Model(99)"},
	}
	for _, c := range cases {
		if got := c.m.String(); got != c.want {
			t.Errorf("Model(%d).String() = %q, want %q", c.m, got, c.want)
		}
	}
}

func TestProbePlacements(t *testing.T) {
	gen1 := &Probe{Model: Gen1}
	gen2 := &Probe{Model: Gen2}

	if diff := cmp.Diff(Placement{Rotation: Rot270}, gen1.WacomPlacement()); diff != "" {
		t.Errorf("Gen1 WacomPlacement mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Placement{Rotation: Rot270}, gen2.WacomPlacement()); diff != "" {
		t.Errorf("Gen2 WacomPlacement mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(Placement{Rotation: Rot180}, gen1.MultitouchPlacement()); diff != "" {
		t.Errorf("Gen1 MultitouchPlacement mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Placement{Rotation: Rot180, InvertX: true}, gen2.MultitouchPlacement()); diff != "" {
		t.Errorf("Gen2 MultitouchPlacement mismatch (-want +got):\n%s", diff)
	}

	if got := gen1.InternalBatteryName(); got != "bq27441-0" {
		t.Errorf("Gen1 InternalBatteryName() = %q, want bq27441-0", got)
	}
	if got := gen2.InternalBatteryName(); got != "max77818_battery" {
		t.Errorf("Gen2 InternalBatteryName() = %q, want max77818_battery", got)
	}
}

func TestUnknownVersionError(t *testing.T) {
	err := &UnknownVersionError{MachineName: "bogus"}
	want := `device: unknown reMarkable machine string "bogus"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import "testing"

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{Wacom, "wacom"},
		{Multitouch, "multitouch"},
		{GPIO, "gpio"},
		{Kind(99), "Kind(99)"},
	}
	for _, c := range cases {
		if got := c.k.String(); got != c.want {
			t.Errorf("Kind(%d).String() = %q, want %q", c.k, got, c.want)
		}
	}
}

func TestBitSet(t *testing.T) {
	// bit 10 set: byte index 1, bit 2 -> 0b00000100
	bits := []byte{0x00, 0x04}
	if !bitSet(bits, 10) {
		t.Error("bitSet(bits, 10) = false, want true")
	}
	if bitSet(bits, 9) {
		t.Error("bitSet(bits, 9) = true, want false")
	}
	if bitSet(bits, 1000) {
		t.Error("bitSet out of range should be false, not panic")
	}
}

func TestIocEncoding(t *testing.T) {
	// EVIOCGBIT(0, len) and EVIOCGABS(abs) must be distinct, stable request
	// codes; regression guard against accidental shift-order changes.
	if eviocgbit(0, 4) == eviocgbit(1, 4) {
		t.Error("eviocgbit should vary with ev type")
	}
	if eviocgabs(absX) == eviocgabs(absY) {
		t.Error("eviocgabs should vary with abs code")
	}
}

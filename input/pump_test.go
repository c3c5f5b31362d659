// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"bytes"
	"encoding/binary"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/canselcik/libremarkable-go/device"
)

func encodeRaw(t *testing.T, typ, code uint16, value int32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, rawEvent{Type: typ, Code: code, Value: value}); err != nil {
		t.Fatalf("binary.Write: %v", err)
	}
	return buf.Bytes()
}

func TestPumpEndToEndGPIO(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer w.Close()

	p := &Pump{
		logger:    log.New(io.Discard, "", 0),
		ring:      newRing(64),
		chunkSize: 64,
		devices: map[device.Kind]*workerDevice{
			device.GPIO: {path: "gpio-test", file: r, fd: int(r.Fd()), decoder: newGPIODecoder()},
		},
	}

	if err := p.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() {
		p.Stop()
		p.Join()
	}()

	if _, err := w.Write(encodeRaw(t, evKey, keyPower, 1)); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	results := make(chan []Event, 1)
	go func() { results <- p.ReadChunk() }()

	select {
	case got := <-results:
		if len(got) != 1 {
			t.Fatalf("got %d events, want 1: %+v", len(got), got)
		}
		if got[0].Source != device.GPIO || got[0].GPIO.Button != ButtonPower || got[0].GPIO.Kind != ButtonPress {
			t.Errorf("unexpected event: %+v", got[0])
		}
	case <-deadline:
		t.Fatal("timed out waiting for decoded event")
	}
}

func TestPumpButtonStateWithoutGPIODevice(t *testing.T) {
	p := &Pump{devices: map[device.Kind]*workerDevice{}}
	if got, want := p.ButtonState(), (ButtonState{}); got != want {
		t.Fatalf("ButtonState = %+v, want zero value %+v", got, want)
	}
}

func TestPumpButtonStateReflectsDecoder(t *testing.T) {
	dec := newGPIODecoder()
	p := &Pump{devices: map[device.Kind]*workerDevice{
		device.GPIO: {path: "gpio-test", decoder: dec},
	}}

	dec.decode(rawEvent{Type: evKey, Code: keyWakeup, Value: 1})
	want := ButtonState{Left: gpio.Low, Middle: gpio.Low, Right: gpio.Low, Power: gpio.Low, Wakeup: gpio.High}
	if got := p.ButtonState(); got != want {
		t.Fatalf("ButtonState = %+v, want %+v", got, want)
	}
}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"testing"
	"time"

	"github.com/canselcik/libremarkable-go/device"
)

func TestRingFIFO(t *testing.T) {
	r := newRing(16)
	r.push([]Event{
		{Source: device.GPIO, GPIO: GPIOEvent{Button: ButtonLeft}},
		{Source: device.GPIO, GPIO: GPIOEvent{Button: ButtonRight}},
	})
	got := r.readChunk(10)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].GPIO.Button != ButtonLeft || got[1].GPIO.Button != ButtonRight {
		t.Errorf("order not preserved: %+v", got)
	}
}

func TestRingChunking(t *testing.T) {
	r := newRing(16)
	events := make([]Event, 10)
	for i := range events {
		events[i] = Event{Source: device.GPIO, GPIO: GPIOEvent{Button: ButtonLeft}}
	}
	r.push(events)

	first := r.readChunk(4)
	if len(first) != 4 {
		t.Fatalf("first chunk = %d, want 4", len(first))
	}
	second := r.readChunk(100)
	if len(second) != 6 {
		t.Fatalf("second chunk = %d, want 6", len(second))
	}
}

func TestRingOverwritesOldestOnOverflow(t *testing.T) {
	r := newRing(4)
	for i := 0; i < 6; i++ {
		r.push([]Event{{Source: device.GPIO, GPIO: GPIOEvent{Button: PhysicalButton(i)}}})
	}
	got := r.readChunk(10)
	if len(got) != 4 {
		t.Fatalf("got %d events, want 4 (ring capacity)", len(got))
	}
	// oldest two pushes (0,1) should have been evicted; survivors are 2..5
	if got[0].GPIO.Button != PhysicalButton(2) {
		t.Errorf("oldest surviving event = %v, want PhysicalButton(2)", got[0].GPIO.Button)
	}
}

func TestRingReadChunkBlocksUntilPush(t *testing.T) {
	r := newRing(16)
	done := make(chan []Event, 1)
	go func() {
		done <- r.readChunk(10)
	}()

	select {
	case <-done:
		t.Fatal("readChunk returned before any push")
	case <-time.After(20 * time.Millisecond):
	}

	r.push([]Event{{Source: device.GPIO}})
	select {
	case got := <-done:
		if len(got) != 1 {
			t.Fatalf("got %d events, want 1", len(got))
		}
	case <-time.After(time.Second):
		t.Fatal("readChunk did not unblock after push")
	}
}

func TestRingStopUnblocksReader(t *testing.T) {
	r := newRing(16)
	done := make(chan []Event, 1)
	go func() {
		done <- r.readChunk(10)
	}()

	time.Sleep(10 * time.Millisecond)
	r.stop()

	select {
	case got := <-done:
		if got != nil {
			t.Fatalf("expected nil on stop with empty ring, got %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("readChunk did not unblock after stop")
	}
}

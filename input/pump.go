// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package input

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/canselcik/libremarkable-go/device"
)

// decoder turns one device's raw evdev events into the unified Event
// stream. Each of wacomDecoder, multitouchDecoder and gpioDecoder
// implements it.
type decoder interface {
	decode(ev rawEvent) []Event
}

// workerDevice pairs an open evdev node with the decoder that understands
// its raw events. wakeFd is an eventfd registered alongside the device on
// the worker's epoll so Stop can interrupt a wait that would otherwise
// block until the next hardware event.
type workerDevice struct {
	path    string
	file    *os.File
	fd      int
	wakeFd  int
	decoder decoder
}

// Pump runs one epoll-driven worker goroutine per input device and fans
// their decoded events into a single ring buffer: edge-triggered epoll, no
// synchronous read-then-decode coupling between devices, FIFO preserved
// per device.
type Pump struct {
	logger    *log.Logger
	ring      *ring
	chunkSize int

	devices map[device.Kind]*workerDevice
	running atomic.Bool
	wg      sync.WaitGroup
}

// Opts configures a Pump. Logger defaults to log.Default(); RingSize and
// ChunkSize default to 8192 and 512 respectively.
type Opts struct {
	Logger    *log.Logger
	RingSize  int
	ChunkSize int
}

// NewPump opens every node in nodes, builds the matching decoder from its
// placement/raw-size metadata, and returns a Pump ready to Start.
// displayWidth/displayHeight are the scaling targets the Wacom and
// multitouch decoders convert raw axis samples into.
func NewPump(nodes []device.Node, displayWidth, displayHeight int, opts Opts) (*Pump, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	p := &Pump{
		logger:    logger,
		ring:      newRing(opts.RingSize),
		chunkSize: chunkSize,
		devices:   make(map[device.Kind]*workerDevice),
	}

	for _, n := range nodes {
		f, err := os.OpenFile(n.Path, os.O_RDONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("input: opening %s: %w", n.Path, err)
		}

		var dec decoder
		switch n.Kind {
		case device.Wacom:
			dec = newWacomDecoder(n.RawSize, displayWidth, displayHeight)
		case device.Multitouch:
			dec = newMultitouchDecoder(n.Placement, n.RawSize, displayWidth, displayHeight)
		case device.GPIO:
			dec = newGPIODecoder()
		default:
			f.Close()
			return nil, fmt.Errorf("input: unrecognized device kind %v for %s", n.Kind, n.Path)
		}

		p.devices[n.Kind] = &workerDevice{path: n.Path, file: f, fd: int(f.Fd()), decoder: dec}
	}
	return p, nil
}

// Start spawns one goroutine per device, each registering its fd on a
// private epoll instance and blocking in epoll_wait until data arrives or
// Stop is called.
func (p *Pump) Start() error {
	p.running.Store(true)
	for kind, wd := range p.devices {
		epfd, err := unix.EpollCreate1(0)
		if err != nil {
			return fmt.Errorf("input: epoll_create1 for %v: %w", kind, err)
		}
		ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLPRI | unix.EPOLLET, Fd: int32(wd.fd)}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wd.fd, &ev); err != nil {
			unix.Close(epfd)
			return fmt.Errorf("input: epoll_ctl for %v: %w", kind, err)
		}

		wakeFd, err := unix.Eventfd(0, unix.EFD_NONBLOCK)
		if err != nil {
			unix.Close(epfd)
			return fmt.Errorf("input: eventfd for %v: %w", kind, err)
		}
		wev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakeFd)}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakeFd, &wev); err != nil {
			unix.Close(wakeFd)
			unix.Close(epfd)
			return fmt.Errorf("input: epoll_ctl wake for %v: %w", kind, err)
		}
		wd.wakeFd = wakeFd

		p.wg.Add(1)
		go p.run(epfd, wd)
	}
	return nil
}

func (p *Pump) run(epfd int, wd *workerDevice) {
	defer p.wg.Done()
	defer unix.Close(epfd)
	defer unix.Close(wd.wakeFd)

	events := make([]unix.EpollEvent, 2)
	raw := make([]byte, rawEventSize*64)

	for p.running.Load() {
		n, err := unix.EpollWait(epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			p.logger.Printf("input: epoll_wait on %s: %v", wd.path, err)
			return
		}
		if !p.running.Load() {
			return
		}

		for i := 0; i < n; i++ {
			if int(events[i].Fd) != wd.fd {
				// Stop's eventfd wake; nothing to read off the device.
				continue
			}
			for {
				nread, err := unix.Read(wd.fd, raw)
				if err != nil || nread < rawEventSize {
					break
				}
				var decoded []Event
				for off := 0; off+rawEventSize <= nread; off += rawEventSize {
					ev := *(*rawEvent)(unsafe.Pointer(&raw[off]))
					decoded = append(decoded, wd.decoder.decode(ev)...)
				}
				p.ring.push(decoded)
				if nread < len(raw) {
					break
				}
			}
		}
	}
}

// Stop clears the running flag and wakes every worker's epoll so each one
// exits promptly rather than at the next hardware event; any goroutine
// blocked in ReadChunk is released once the ring drains.
func (p *Pump) Stop() {
	p.running.Store(false)
	var one [8]byte // eventfd counter increment, host-order u64
	binary.NativeEndian.PutUint64(one[:], 1)
	for _, wd := range p.devices {
		if wd.wakeFd != 0 {
			unix.Write(wd.wakeFd, one[:])
		}
	}
	p.ring.stop()
}

// Join waits for every worker goroutine to exit. Call after Stop.
func (p *Pump) Join() {
	p.wg.Wait()
	for _, wd := range p.devices {
		wd.file.Close()
	}
}

// ReadChunk blocks until at least one decoded event is available, then
// returns up to the configured chunk size of them in FIFO order. It
// returns nil once Stop has been called and the ring has drained.
func (p *Pump) ReadChunk() []Event {
	return p.ring.readChunk(p.chunkSize)
}

// ButtonState returns the current state of all five physical buttons. It
// reports the zero ButtonState (all gpio.Low) if this Pump has no GPIO
// device, which is the case on configurations without a physical button
// row.
func (p *Pump) ButtonState() ButtonState {
	wd, ok := p.devices[device.GPIO]
	if !ok {
		return ButtonState{}
	}
	return wd.decoder.(*gpioDecoder).Snapshot()
}

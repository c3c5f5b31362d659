// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Kind identifies which of the three input subsystems an evdev node
// belongs to.
type Kind int

const (
	Wacom Kind = iota
	Multitouch
	GPIO
)

func (k Kind) String() string {
	switch k {
	case Wacom:
		return "wacom"
	case Multitouch:
		return "multitouch"
	case GPIO:
		return "gpio"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is a classified input event node along with the raw axis extents
// needed by the input decoders to scale into display coordinates.
type Node struct {
	Kind      Kind
	Path      string
	Placement Placement
	// RawSize is the device's native, unrotated coordinate extent, read
	// from its absolute axis capabilities. Zero for GPIO (no axes).
	RawSize Size
}

const inputDir = "/dev/input"

// EnumerateInputDevices opens every /dev/input/event* node, queries its
// evdev capabilities, and classifies it: the node whose key set
// contains BTN_STYLUS and which supports absolute axes is Wacom; the node
// which supports absolute axes and whose abs set contains ABS_MT_SLOT is
// Multitouch (EV_REL support is not checked); the node whose key set
// contains KEY_POWER is GPIO.
//
// Nodes matching none of the three criteria are skipped. It is not an error
// for a class to go unmatched by this function; callers that require all
// three should check explicitly.
func (p *Probe) EnumerateInputDevices() ([]Node, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("device: reading %s: %w", inputDir, err)
	}

	var paths []string
	for _, e := range entries {
		if len(e.Name()) >= 5 && e.Name()[:5] == "event" {
			paths = append(paths, filepath.Join(inputDir, e.Name()))
		}
	}
	sort.Strings(paths)

	var nodes []Node
	for _, path := range paths {
		node, ok, err := p.classify(path)
		if err != nil {
			// A node that fails to classify (permission, transient unplug)
			// is skipped rather than aborting the whole enumeration.
			continue
		}
		if ok {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func (p *Probe) classify(path string) (Node, bool, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return Node{}, false, err
	}
	defer f.Close()
	fd := int(f.Fd())

	evBits, err := ioctlBits(fd, eviocgbit(0, (evMax+7)/8), (evMax+7)/8)
	if err != nil {
		return Node{}, false, err
	}
	hasEvKey := bitSet(evBits, evKey)
	hasEvAbs := bitSet(evBits, evAbs)

	var keyBits, absBits []byte
	if hasEvKey {
		keyBits, err = ioctlBits(fd, eviocgbit(evKey, (keyMax+7)/8), (keyMax+7)/8)
		if err != nil {
			return Node{}, false, err
		}
	}
	if hasEvAbs {
		absBits, err = ioctlBits(fd, eviocgbit(evAbs, (absMax+7)/8), (absMax+7)/8)
		if err != nil {
			return Node{}, false, err
		}
	}

	switch {
	case hasEvKey && bitSet(keyBits, btnStylus) && hasEvAbs:
		xInfo, err := ioctlAbsInfo(fd, absX)
		if err != nil {
			return Node{}, false, err
		}
		yInfo, err := ioctlAbsInfo(fd, absY)
		if err != nil {
			return Node{}, false, err
		}
		return Node{
			Kind:      Wacom,
			Path:      path,
			Placement: p.WacomPlacement(),
			RawSize:   Size{X: uint16(xInfo.Maximum), Y: uint16(yInfo.Maximum)},
		}, true, nil

	case hasEvAbs && bitSet(absBits, absMtSlot):
		xInfo, err := ioctlAbsInfo(fd, absMtPositionX)
		if err != nil {
			return Node{}, false, err
		}
		yInfo, err := ioctlAbsInfo(fd, absMtPositionY)
		if err != nil {
			return Node{}, false, err
		}
		return Node{
			Kind:      Multitouch,
			Path:      path,
			Placement: p.MultitouchPlacement(),
			RawSize:   Size{X: uint16(xInfo.Maximum), Y: uint16(yInfo.Maximum)},
		}, true, nil

	case hasEvKey && bitSet(keyBits, keyPower):
		return Node{Kind: GPIO, Path: path}, true, nil

	default:
		return Node{}, false, nil
	}
}

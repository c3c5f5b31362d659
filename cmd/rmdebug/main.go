// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command rmdebug dumps the current contents of the reMarkable's
// framebuffer to the local terminal as ANSI 256-color blocks, for eyeballing
// what's on the panel without a physical device in front of you.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"

	"github.com/canselcik/libremarkable-go/device"
	"github.com/canselcik/libremarkable-go/framebuffer"
	"github.com/canselcik/libremarkable-go/rmdebug"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "rmdebug:", err)
		os.Exit(1)
	}
}

func run() error {
	probe, err := device.Current()
	if err != nil {
		return err
	}

	var fb *framebuffer.Device
	if probe.Model == device.Gen2 {
		fb, err = framebuffer.OpenGen2()
	} else {
		fb, err = framebuffer.Open()
	}
	if err != nil {
		return err
	}
	defer fb.Halt()

	bounds := fb.Bounds()
	region := framebuffer.Rectangle{Top: 0, Left: 0, Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}
	return rmdebug.WriteDump(colorable.NewColorableStdout(), fb, region, nil)
}

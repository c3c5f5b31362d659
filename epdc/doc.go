// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epdc drives the electrophoretic display controller: it submits
// update regions with a waveform/dither/temperature configuration and
// tracks their completion. Two wire transports are supported transparently
// behind the Transport interface: a direct ioctl path for Gen1 and a
// System V message queue path for Gen2's rm2fb shim.
package epdc

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package device identifies the reMarkable hardware generation running the
// current process and enumerates its input event nodes by capability.
package device

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !webgpu

package main

import (
	"cogentcore.org/lightfield/base/errors"
	"cogentcore.org/lightfield/gpu"
)

func openWebGPU() (gpu.Device, error) {
	return nil, errors.New("the webgpu device is not available in this build; rebuild with -tags webgpu")
}

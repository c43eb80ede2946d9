// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build webgpu

package main

import (
	"cogentcore.org/lightfield/gpu"
	"cogentcore.org/lightfield/gpu/webgpu"
)

func openWebGPU() (gpu.Device, error) {
	dv, err := webgpu.NoDisplayDevice(false)
	if err != nil {
		return nil, err
	}
	return dv, nil
}

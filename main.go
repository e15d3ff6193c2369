// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks
//
// Lenshound - HuskyLens Vision Sensor Tool
//
// A CLI tool for driving the HuskyLens vision sensor over I2C, UART, or a
// WebSocket bus bridge.

package main

import (
	"os"

	"github.com/opticworks/lenshound/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

//go:build !linux

package i2cdev

import "fmt"

// Bus is only available on Linux via the i2c-dev interface.
type Bus struct{}

// Open always fails on non-Linux platforms.
func Open(path string, addr uint16) (*Bus, error) {
	return nil, fmt.Errorf("i2c-dev is only supported on linux")
}

func (b *Bus) ReadByte() (byte, error)              { return 0, fmt.Errorf("not supported") }
func (b *Bus) ReadBlock(p []byte) error             { return fmt.Errorf("not supported") }
func (b *Bus) WriteBlock(reg byte, data []byte) error { return fmt.Errorf("not supported") }
func (b *Bus) Probe() bool                          { return false }
func (b *Bus) Close() error                         { return nil }

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

//go:build linux

// Package i2cdev provides a huskylens.Bus backed by the Linux i2c-dev
// interface (/dev/i2c-N).
package i2cdev

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// i2cSlave is the I2C_SLAVE ioctl request from <linux/i2c-dev.h>;
// golang.org/x/sys/unix does not export it.
const i2cSlave = 0x0703

// Bus is an I2C adapter device file bound to one peripheral address.
type Bus struct {
	f    *os.File
	addr uint16
}

// Open opens an i2c-dev adapter (e.g. /dev/i2c-1) and binds it to the
// peripheral at addr.
func Open(path string, addr uint16) (*Bus, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := unix.IoctlSetInt(int(f.Fd()), i2cSlave, int(addr)); err != nil {
		f.Close()
		return nil, fmt.Errorf("bind address 0x%02X on %s: %w", addr, path, err)
	}

	return &Bus{f: f, addr: addr}, nil
}

// ReadByte reads a single byte from the peripheral.
func (b *Bus) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(b.f, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadBlock fills p with exactly len(p) bytes from the peripheral.
func (b *Bus) ReadBlock(p []byte) error {
	_, err := io.ReadFull(b.f, p)
	return err
}

// WriteBlock writes reg followed by data as a single bus transaction.
func (b *Bus) WriteBlock(reg byte, data []byte) error {
	buf := make([]byte, 0, 1+len(data))
	buf = append(buf, reg)
	buf = append(buf, data...)
	_, err := b.f.Write(buf)
	return err
}

// Probe reports whether the peripheral acknowledges its address. A
// zero-length write generates just the address phase on the bus, the same
// probe i2cdetect uses for most address ranges.
func (b *Bus) Probe() bool {
	_, err := unix.Write(int(b.f.Fd()), []byte{})
	return err == nil
}

// Close releases the adapter device file.
func (b *Bus) Close() error {
	return b.f.Close()
}

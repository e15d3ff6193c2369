// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

// Bus is the transport consumed by the driver: byte-level and block-level
// reads, a register-addressed block write, and a device-presence probe.
// Implementations cover the I2C bus the sensor normally sits on as well as
// its UART mode, which speaks the same packet format over a byte stream.
//
// All calls block until complete. The driver issues at most one request at
// a time and never reads and writes concurrently.
type Bus interface {
	// ReadByte reads a single byte from the device.
	ReadByte() (byte, error)

	// ReadBlock fills p with exactly len(p) bytes from the device.
	ReadBlock(p []byte) error

	// WriteBlock writes a packet to the device. The packet's first byte is
	// passed as reg: the device has no register map, so the leading header
	// sentinel stands in for the register address on I2C transports. Stream
	// transports write reg followed by data.
	WriteBlock(reg byte, data []byte) error

	// Probe reports whether a device acknowledges at the bus address. It
	// does not exchange protocol traffic; use Device.Knock for a protocol
	// round-trip.
	Probe() bool
}

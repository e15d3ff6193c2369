// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

// Packet represents a decoded HuskyLens protocol packet
type Packet struct {
	header  [2]byte
	address byte
	length  byte
	command byte
	payload []byte
	chksum  byte
	valid   bool
}

// Checksum computes the protocol checksum for data: the low byte of the sum
// of every byte, including the header sentinels and the address.
func Checksum(data []byte) byte {
	var sum int
	for _, b := range data {
		sum += int(b)
	}
	return byte(sum & 0xFF)
}

// Command returns the packet's command byte
func (p *Packet) Command() byte {
	return p.command
}

// Payload returns the packet's payload bytes
func (p *Packet) Payload() []byte {
	return p.payload
}

// Address returns the packet's protocol address byte
func (p *Packet) Address() byte {
	return p.address
}

// Length returns the declared payload length
func (p *Packet) Length() byte {
	return p.length
}

// ChecksumByte returns the checksum byte carried on the wire
func (p *Packet) ChecksumByte() byte {
	return p.chksum
}

// Valid reports whether the carried checksum matched the recomputed one.
// Validity is a flag rather than an error so callers can branch on a bad
// frame without tearing down the session.
func (p *Packet) Valid() bool {
	return p.valid
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import "fmt"

// DefaultResyncLimit is the number of non-header bytes the reader will
// discard while hunting for the start of a frame before giving up. Roughly
// a dozen maximal frames of garbage; noise bursts on a shared bus are far
// shorter in practice.
const DefaultResyncLimit = 256

// Reader frames bytes from the bus into packets. It resynchronizes to the
// next header sentinel, reads the fixed header tail to learn the declared
// payload length, then reads exactly the remaining payload and checksum
// bytes. It never interprets command semantics.
type Reader struct {
	bus         Bus
	resyncLimit int
}

// NewReader creates a Reader over bus. A resyncLimit of 0 selects
// DefaultResyncLimit.
func NewReader(bus Bus, resyncLimit int) *Reader {
	if resyncLimit <= 0 {
		resyncLimit = DefaultResyncLimit
	}
	return &Reader{bus: bus, resyncLimit: resyncLimit}
}

// ReadPacket reads one complete packet from the bus. Garbage bytes
// preceding the frame are discarded, up to the resync limit. The returned
// packet carries its own validity flag; a checksum mismatch is not an error
// here.
func (r *Reader) ReadPacket() (*Packet, error) {
	// The device pads its output stream, so a response may be preceded by
	// junk bytes. Scan for the first header sentinel.
	discarded := 0
	b, err := r.bus.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for b != Header1 {
		discarded++
		if discarded >= r.resyncLimit {
			return nil, &SyncError{Discarded: discarded}
		}
		b, err = r.bus.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
	}

	raw := make([]byte, HeaderSize, HeaderSize+16)
	raw[0] = b

	// Second header byte, address, declared length, command.
	if err := r.bus.ReadBlock(raw[1:HeaderSize]); err != nil {
		return nil, fmt.Errorf("read header tail: %w", err)
	}

	// Payload plus the trailing checksum byte.
	rest := make([]byte, int(raw[3])+1)
	if err := r.bus.ReadBlock(rest); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	raw = append(raw, rest...)

	return Decode(raw)
}

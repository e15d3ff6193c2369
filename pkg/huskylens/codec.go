// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import "fmt"

// Encode builds a complete wire-formatted command packet: the two header
// sentinels, the protocol address, the payload length, the command byte, the
// payload, and the trailing checksum over everything before it.
func Encode(command byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("payload too large: %d bytes (max %d)", len(payload), MaxPayloadSize)
	}

	pkt := make([]byte, 0, HeaderSize+len(payload)+1)
	pkt = append(pkt, Header1, Header2, ProtocolAddress, byte(len(payload)), command)
	pkt = append(pkt, payload...)
	pkt = append(pkt, Checksum(pkt))

	return pkt, nil
}

// Decode parses a raw byte sequence into a Packet. The sequence must carry a
// complete frame: five header bytes, the declared number of payload bytes,
// and one checksum byte. Checksum mismatches do not fail the decode; they
// clear the packet's validity flag.
func Decode(raw []byte) (*Packet, error) {
	if len(raw) < HeaderSize+1 {
		return nil, fmt.Errorf("frame too short: %d bytes (min %d)", len(raw), HeaderSize+1)
	}

	length := raw[3]
	if len(raw) != HeaderSize+int(length)+1 {
		return nil, fmt.Errorf("frame size mismatch: declared %d payload bytes, frame is %d bytes", length, len(raw))
	}

	p := &Packet{
		header:  [2]byte{raw[0], raw[1]},
		address: raw[2],
		length:  length,
		command: raw[4],
		payload: append([]byte(nil), raw[HeaderSize:HeaderSize+int(length)]...),
		chksum:  raw[len(raw)-1],
	}
	p.valid = p.chksum == Checksum(raw[:len(raw)-1])

	return p, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import "io"

// scriptBus serves a pre-recorded byte stream and records every write.
// It stands in for the real bus in driver tests.
type scriptBus struct {
	reads   []byte
	pos     int
	writes  [][]byte // reg byte prepended to each recorded frame
	present bool
}

func newScriptBus(reads ...[]byte) *scriptBus {
	b := &scriptBus{present: true}
	for _, r := range reads {
		b.reads = append(b.reads, r...)
	}
	return b
}

func (b *scriptBus) ReadByte() (byte, error) {
	if b.pos >= len(b.reads) {
		return 0, io.ErrUnexpectedEOF
	}
	v := b.reads[b.pos]
	b.pos++
	return v, nil
}

func (b *scriptBus) ReadBlock(p []byte) error {
	for i := range p {
		v, err := b.ReadByte()
		if err != nil {
			return err
		}
		p[i] = v
	}
	return nil
}

func (b *scriptBus) WriteBlock(reg byte, data []byte) error {
	frame := append([]byte{reg}, data...)
	b.writes = append(b.writes, frame)
	return nil
}

func (b *scriptBus) Probe() bool {
	return b.present
}

// mustEncode builds a wire frame for test scripts
func mustEncode(command byte, payload []byte) []byte {
	raw, err := Encode(command, payload)
	if err != nil {
		panic(err)
	}
	return raw
}

// corruptFrame returns a copy of raw with one payload byte flipped and the
// checksum left unchanged
func corruptFrame(raw []byte) []byte {
	bad := append([]byte(nil), raw...)
	bad[HeaderSize] ^= 0xFF
	return bad
}

func le16(v uint16) []byte {
	return []byte{byte(v & 0xFF), byte(v >> 8)}
}

// infoPayload builds a RETURN_INFO payload
func infoPayload(records, learned, frame uint16) []byte {
	p := append([]byte{}, le16(records)...)
	p = append(p, le16(learned)...)
	p = append(p, le16(frame)...)
	return p
}

// blockPayload builds a RETURN_BLOCK payload
func blockPayload(x, y, w, h, id uint16) []byte {
	p := append([]byte{}, le16(x)...)
	p = append(p, le16(y)...)
	p = append(p, le16(w)...)
	p = append(p, le16(h)...)
	p = append(p, le16(id)...)
	return p
}

// arrowPayload builds a RETURN_ARROW payload
func arrowPayload(xo, yo, xt, yt, id uint16) []byte {
	p := append([]byte{}, le16(xo)...)
	p = append(p, le16(yo)...)
	p = append(p, le16(xt)...)
	p = append(p, le16(yt)...)
	return append(p, le16(id)...)
}

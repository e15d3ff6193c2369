// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import (
	"bytes"
	"testing"
)

// ============================================================
// Checksum Tests
// ============================================================

func TestChecksum_Empty(t *testing.T) {
	if got := Checksum(nil); got != 0 {
		t.Errorf("checksum of empty data should be 0, got 0x%02X", got)
	}
}

func TestChecksum_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected byte
	}{
		{
			name:     "knock request header",
			data:     []byte{0x55, 0xAA, 0x11, 0x00, 0x2C},
			expected: 0x3C,
		},
		{
			name:     "wraps modulo 256",
			data:     []byte{0xFF, 0xFF, 0x02},
			expected: 0x00,
		},
		{
			name:     "single byte",
			data:     []byte{0x7B},
			expected: 0x7B,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.data); got != tt.expected {
				t.Errorf("checksum mismatch: expected 0x%02X, got 0x%02X", tt.expected, got)
			}
		})
	}
}

// ============================================================
// Encode Tests
// ============================================================

func TestEncode_KnockPacket(t *testing.T) {
	pkt, err := Encode(CmdRequestKnock, nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	want := []byte{0x55, 0xAA, 0x11, 0x00, 0x2C, 0x3C}
	if !bytes.Equal(pkt, want) {
		t.Errorf("knock packet mismatch:\n  got  % X\n  want % X", pkt, want)
	}
}

func TestEncode_AlgorithmPacket(t *testing.T) {
	pkt, err := Encode(CmdRequestAlgorithm, []byte{0x01, 0x00})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if pkt[3] != 2 {
		t.Errorf("length byte: expected 2, got %d", pkt[3])
	}
	if pkt[len(pkt)-1] != Checksum(pkt[:len(pkt)-1]) {
		t.Errorf("trailing byte is not the checksum of the preceding bytes")
	}
}

func TestEncode_PayloadTooLarge(t *testing.T) {
	if _, err := Encode(CmdRequestCustomText, make([]byte, MaxPayloadSize+1)); err == nil {
		t.Error("expected error for oversized payload")
	}
}

// ============================================================
// Decode Tests
// ============================================================

func TestDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		command byte
		payload []byte
	}{
		{name: "no payload", command: CmdRequestKnock, payload: nil},
		{name: "two byte payload", command: CmdRequestAlgorithm, payload: []byte{0x05, 0x00}},
		{name: "block payload", command: CmdReturnBlock, payload: []byte{0xA0, 0x00, 0x78, 0x00, 0x32, 0x00, 0x28, 0x00, 0x01, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.command, tt.payload)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			p, err := Decode(raw)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}

			if !p.Valid() {
				t.Error("round-tripped packet should be valid")
			}
			if p.Command() != tt.command {
				t.Errorf("command: expected 0x%02X, got 0x%02X", tt.command, p.Command())
			}
			if !bytes.Equal(p.Payload(), tt.payload) {
				t.Errorf("payload: expected % X, got % X", tt.payload, p.Payload())
			}
			if p.Address() != ProtocolAddress {
				t.Errorf("address: expected 0x%02X, got 0x%02X", ProtocolAddress, p.Address())
			}
		})
	}
}

func TestDecode_CorruptedByteInvalidatesPacket(t *testing.T) {
	raw, err := Encode(CmdReturnBlock, []byte{0xA0, 0x00, 0x78, 0x00, 0x32, 0x00, 0x28, 0x00, 0x01, 0x00})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// Corrupt each byte except the length byte (which would change the
	// frame shape) and the checksum byte itself.
	for i := 0; i < len(raw)-1; i++ {
		if i == 3 {
			continue
		}
		corrupted := append([]byte(nil), raw...)
		corrupted[i] ^= 0x01

		p, err := Decode(corrupted)
		if err != nil {
			t.Fatalf("byte %d: decode failed: %v", i, err)
		}
		if p.Valid() {
			t.Errorf("byte %d: corrupted packet should be invalid", i)
		}
	}
}

func TestDecode_TooShort(t *testing.T) {
	if _, err := Decode([]byte{0x55, 0xAA, 0x11}); err == nil {
		t.Error("expected error for truncated frame")
	}
}

func TestDecode_SizeMismatch(t *testing.T) {
	raw, err := Encode(CmdRequestKnock, nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	// Declare one payload byte without providing it
	raw[3] = 1
	if _, err := Decode(raw); err == nil {
		t.Error("expected error for declared/actual length mismatch")
	}
}

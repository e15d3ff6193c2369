// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import (
	"bytes"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// ============================================================
// Codec Fuzz Tests
// ============================================================

// TestFuzzCodec_RandomPayloads round-trips random commands and payloads
// through Encode and Decode
func TestFuzzCodec_RandomPayloads(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		command := byte(rng.Intn(256))
		payload := make([]byte, rng.Intn(MaxPayloadSize+1))
		rng.Read(payload)

		raw, err := Encode(command, payload)
		if err != nil {
			t.Errorf("Round %d: encode failed: %v", i, err)
			continue
		}

		p, err := Decode(raw)
		if err != nil {
			t.Errorf("Round %d: decode failed: %v", i, err)
			continue
		}
		if !p.Valid() {
			t.Errorf("Round %d: freshly encoded packet decoded as invalid", i)
		}
		if p.Command() != command {
			t.Errorf("Round %d: command mismatch: expected 0x%02X, got 0x%02X", i, command, p.Command())
		}
		if !bytes.Equal(p.Payload(), payload) {
			t.Errorf("Round %d: payload mismatch", i)
		}
	}
}

// TestFuzzCodec_SingleByteCorruption verifies that flipping any single byte
// other than the length field produces an invalid packet. The checksum is a
// modular sum, so a nonzero change to one byte always shifts it.
func TestFuzzCodec_SingleByteCorruption(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		command := byte(rng.Intn(256))
		payload := make([]byte, rng.Intn(32))
		rng.Read(payload)

		raw, err := Encode(command, payload)
		if err != nil {
			t.Fatalf("Round %d: encode failed: %v", i, err)
		}

		// Length byte corruption changes the expected frame size and is
		// caught as a size mismatch instead, so skip index 3 here
		idx := rng.Intn(len(raw))
		for idx == 3 {
			idx = rng.Intn(len(raw))
		}
		raw[idx] ^= byte(rng.Intn(255) + 1)

		p, err := Decode(raw)
		if err != nil {
			t.Errorf("Round %d: decode errored on a well-sized frame: %v", i, err)
			continue
		}
		if p.Valid() {
			t.Errorf("Round %d: corrupted byte %d went undetected", i, idx)
		}
	}
}

// ============================================================
// Checksum Fuzz Tests
// ============================================================

// TestFuzzChecksum_RandomData tests checksum calculation with random data
func TestFuzzChecksum_RandomData(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		length := rng.Intn(1000) + 1
		data := make([]byte, length)
		rng.Read(data)

		sum1 := Checksum(data)
		sum2 := Checksum(data)
		if sum1 != sum2 {
			t.Errorf("Round %d: checksum not deterministic: 0x%02X != 0x%02X", i, sum1, sum2)
		}

		// A nonzero XOR to one byte changes the modular sum by a nonzero
		// amount, so the checksum must always differ
		idx := rng.Intn(len(data))
		original := data[idx]
		data[idx] ^= byte(rng.Intn(255) + 1)
		sum3 := Checksum(data)
		data[idx] = original

		if sum3 == sum1 {
			t.Errorf("Round %d: single-byte change left checksum at 0x%02X", i, sum1)
		}
	}
}

// ============================================================
// Reader Fuzz Tests
// ============================================================

// TestFuzzReader_RandomBytes feeds random byte streams to the reader and
// verifies it doesn't crash or panic
func TestFuzzReader_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		length := rng.Intn(512) + 1
		data := make([]byte, length)
		rng.Read(data)

		bus := newScriptBus(data)
		r := NewReader(bus, 0)

		// Drain until the stream runs out or the resync budget trips.
		// Either way the reader must not panic.
		for {
			if _, err := r.ReadPacket(); err != nil {
				break
			}
		}
	}
}

// TestFuzzReader_GarbagePrefix prepends random header-free garbage to a
// valid frame and verifies the reader recovers the frame intact
func TestFuzzReader_GarbagePrefix(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		command := byte(rng.Intn(256))
		payload := make([]byte, rng.Intn(16))
		rng.Read(payload)
		frame := mustEncode(command, payload)

		// Garbage shorter than the resync budget, free of the first
		// header byte so the sync search cannot lock on early
		garbage := make([]byte, rng.Intn(DefaultResyncLimit-1))
		for j := range garbage {
			b := byte(rng.Intn(256))
			for b == Header1 {
				b = byte(rng.Intn(256))
			}
			garbage[j] = b
		}

		bus := newScriptBus(garbage, frame)
		r := NewReader(bus, 0)

		p, err := r.ReadPacket()
		if err != nil {
			t.Errorf("Round %d: reader failed after %d garbage bytes: %v", i, len(garbage), err)
			continue
		}
		if !p.Valid() {
			t.Errorf("Round %d: recovered frame invalid", i)
		}
		if p.Command() != command || !bytes.Equal(p.Payload(), payload) {
			t.Errorf("Round %d: recovered frame does not match the original", i)
		}
	}
}

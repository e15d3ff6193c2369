// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

// Package capture reads and writes detection logs: a stream of CBOR-encoded
// records, one per fetch, suitable for offline replay and analysis.
package capture

import (
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/opticworks/lenshound/pkg/huskylens"
)

// Record is one fetched result set.
type Record struct {
	Time    time.Time          `cbor:"1,keyasint"`
	Frame   uint16             `cbor:"2,keyasint"`
	Learned uint16             `cbor:"3,keyasint"`
	Blocks  []huskylens.Block  `cbor:"4,keyasint,omitempty"`
	Arrows  []huskylens.Arrow  `cbor:"5,keyasint,omitempty"`
}

// Snapshot builds a Record from a device's current session state.
func Snapshot(dev *huskylens.Device) Record {
	return Record{
		Time:    time.Now(),
		Frame:   dev.Frame(),
		Learned: dev.LearnedCount(),
		Blocks:  dev.Blocks(),
		Arrows:  dev.Arrows(),
	}
}

// Writer appends records to a CBOR stream.
type Writer struct {
	enc *cbor.Encoder
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: cbor.NewEncoder(w)}
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	return w.enc.Encode(rec)
}

// Reader iterates records from a CBOR stream.
type Reader struct {
	dec *cbor.Decoder
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF when the stream is exhausted.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

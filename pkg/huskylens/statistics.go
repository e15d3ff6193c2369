// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks packet and error counters for one session.
type Statistics struct {
	StartTime time.Time

	// Counters
	TotalPackets   uint64 // framed packets read off the bus
	ValidPackets   uint64 // packets whose checksum verified
	ChecksumErrors uint64
	FramingErrors  uint64 // resync budget exhausted or bus read failure
	SyncTimeouts   uint64
	SequenceErrors uint64 // out-of-order or wrong-code record inside a fetch
	BusyReplies    uint64
	NeedProReplies uint64
	Fetches        uint64 // successful aggregations
	BlocksSeen     uint64
	ArrowsSeen     uint64
}

func newStatistics() Statistics {
	return Statistics{StartTime: time.Now()}
}

func (s *Statistics) recordPacket(p *Packet) {
	s.TotalPackets++
	if p.Valid() {
		s.ValidPackets++
	} else {
		s.ChecksumErrors++
	}
}

func (s *Statistics) recordFramingError(err error) {
	s.FramingErrors++
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		s.SyncTimeouts++
	}
}

func (s *Statistics) recordRejection(code byte) {
	switch code {
	case CmdReturnBusy:
		s.BusyReplies++
	case CmdReturnNeedPro:
		s.NeedProReplies++
	}
}

// PacketRate returns packets per second since the session started.
func (s *Statistics) PacketRate() float64 {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.TotalPackets) / elapsed
}

// ErrorRate returns errors per second since the session started.
func (s *Statistics) ErrorRate() float64 {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	errs := s.ChecksumErrors + s.FramingErrors + s.SequenceErrors
	return float64(errs) / elapsed
}

// Summary returns a one-line human-readable overview.
func (s *Statistics) Summary() string {
	return fmt.Sprintf("packets=%d valid=%d checksum_err=%d framing_err=%d seq_err=%d busy=%d fetches=%d",
		s.TotalPackets, s.ValidPackets, s.ChecksumErrors, s.FramingErrors,
		s.SequenceErrors, s.BusyReplies, s.Fetches)
}

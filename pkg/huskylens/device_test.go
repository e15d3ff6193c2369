// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import (
	"bytes"
	"errors"
	"testing"
)

func TestDevice_KnockAcknowledged(t *testing.T) {
	bus := newScriptBus(mustEncode(CmdReturnOK, nil))
	dev := New(bus)

	if err := dev.Knock(); err != nil {
		t.Fatalf("knock failed: %v", err)
	}
	if dev.State() != StateIdle {
		t.Errorf("state: expected idle, got %d", dev.State())
	}

	want := mustEncode(CmdRequestKnock, nil)
	if len(bus.writes) != 1 || !bytes.Equal(bus.writes[0], want) {
		t.Errorf("knock frame mismatch: got %v", bus.writes)
	}
}

func TestDevice_KnockBusy(t *testing.T) {
	bus := newScriptBus(mustEncode(CmdReturnBusy, nil))
	dev := New(bus)

	err := dev.Knock()
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if dev.State() != StateDisconnected {
		t.Errorf("failed knock should leave the session disconnected")
	}
}

func TestDevice_BeginWithoutDevice(t *testing.T) {
	bus := newScriptBus()
	bus.present = false
	dev := New(bus)

	if err := dev.Begin(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if len(bus.writes) != 0 {
		t.Error("no bytes should be sent when the probe fails")
	}
}

func TestDevice_SetAlgorithm(t *testing.T) {
	bus := newScriptBus(mustEncode(CmdReturnOK, nil))
	dev := New(bus)

	if err := dev.SetAlgorithm(AlgorithmObjectTracking); err != nil {
		t.Fatalf("set algorithm failed: %v", err)
	}

	want := mustEncode(CmdRequestAlgorithm, []byte{0x01, 0x00})
	if len(bus.writes) != 1 || !bytes.Equal(bus.writes[0], want) {
		t.Errorf("algorithm frame mismatch:\n  got  % X\n  want % X", bus.writes[0], want)
	}
}

func TestDevice_SetAlgorithmRejectedLocally(t *testing.T) {
	bus := newScriptBus()
	dev := New(bus)

	if err := dev.SetAlgorithm(Algorithm(99)); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
	if len(bus.writes) != 0 {
		t.Error("rejected algorithm must not produce a bus write")
	}
}

func TestDevice_RequestAllMixed(t *testing.T) {
	bus := newScriptBus(
		mustEncode(CmdReturnInfo, infoPayload(3, 2, 9)),
		mustEncode(CmdReturnArrow, arrowPayload(10, 20, 200, 220, 1)),
		mustEncode(CmdReturnBlock, blockPayload(160, 120, 50, 40, 1)),
		mustEncode(CmdReturnBlock, blockPayload(30, 40, 12, 18, 2)),
	)
	dev := New(bus)

	if err := dev.RequestAll(); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if len(dev.Arrows()) != 1 {
		t.Errorf("arrows: expected 1, got %d", len(dev.Arrows()))
	}
	if len(dev.Blocks()) != 2 {
		t.Errorf("blocks: expected 2, got %d", len(dev.Blocks()))
	}
	if dev.LearnedCount() != 2 {
		t.Errorf("learned count: expected 2, got %d", dev.LearnedCount())
	}
	if dev.Frame() != 9 {
		t.Errorf("frame: expected 9, got %d", dev.Frame())
	}

	arrow := dev.Arrows()[0]
	if arrow.XOrigin != 10 || arrow.YTarget != 220 || arrow.ID != 1 {
		t.Errorf("arrow decoded incorrectly: %+v", arrow)
	}
	block := dev.Blocks()[1]
	if block.XCenter != 30 || block.Height != 18 || block.ID != 2 {
		t.Errorf("block decoded incorrectly: %+v", block)
	}
}

func TestDevice_AggregationAbortKeepsPreviousSnapshot(t *testing.T) {
	bus := newScriptBus(
		// First fetch succeeds with one block
		mustEncode(CmdReturnInfo, infoPayload(1, 1, 4)),
		mustEncode(CmdReturnBlock, blockPayload(100, 100, 10, 10, 1)),
		// Second fetch declares two records but the second is corrupted
		mustEncode(CmdReturnInfo, infoPayload(2, 1, 5)),
		mustEncode(CmdReturnBlock, blockPayload(1, 2, 3, 4, 1)),
		corruptFrame(mustEncode(CmdReturnBlock, blockPayload(5, 6, 7, 8, 2))),
	)
	dev := New(bus)

	if err := dev.RequestBlocks(); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	err := dev.RequestBlocks()
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}

	// The aborted fetch must not leak a partial result
	if len(dev.Blocks()) != 1 || dev.Blocks()[0].XCenter != 100 {
		t.Errorf("snapshot from the failed fetch leaked: %+v", dev.Blocks())
	}
	if dev.Frame() != 4 {
		t.Errorf("frame updated by a failed fetch: %d", dev.Frame())
	}
}

func TestDevice_BlocksOnlyRejectsArrowRecord(t *testing.T) {
	bus := newScriptBus(
		mustEncode(CmdReturnInfo, infoPayload(1, 0, 1)),
		mustEncode(CmdReturnArrow, arrowPayload(1, 2, 3, 4, 1)),
	)
	dev := New(bus)

	err := dev.RequestBlocks()
	var replyErr *UnexpectedReplyError
	if !errors.As(err, &replyErr) {
		t.Fatalf("expected *UnexpectedReplyError, got %v", err)
	}
	if replyErr.Want != CmdReturnBlock || replyErr.Got != CmdReturnArrow {
		t.Errorf("unexpected reply detail: %+v", replyErr)
	}
}

func TestDevice_FetchBusy(t *testing.T) {
	bus := newScriptBus(mustEncode(CmdReturnBusy, nil))
	dev := New(bus)

	if err := dev.RequestArrows(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestDevice_FetchNeedPro(t *testing.T) {
	bus := newScriptBus(mustEncode(CmdReturnNeedPro, nil))
	dev := New(bus)

	if err := dev.RequestByID(3); !errors.Is(err, ErrNeedPro) {
		t.Fatalf("expected ErrNeedPro, got %v", err)
	}
}

func TestDevice_NamingRoundTrip(t *testing.T) {
	bus := newScriptBus()
	dev := New(bus)

	if err := dev.SetName(2, "mug"); err != nil {
		t.Fatalf("set name failed: %v", err)
	}

	name, ok := dev.NameForID(2)
	if !ok || name != "mug" {
		t.Errorf("name lookup: expected \"mug\", got %q (found=%v)", name, ok)
	}
	if _, ok := dev.NameForID(7); ok {
		t.Error("unnamed id should not resolve")
	}

	// Wire payload: id byte, name length + 1, characters, zero terminator
	want := mustEncode(CmdRequestCustomNames, []byte{2, 4, 'm', 'u', 'g', 0})
	if len(bus.writes) != 1 || !bytes.Equal(bus.writes[0], want) {
		t.Errorf("name frame mismatch:\n  got  % X\n  want % X", bus.writes[0], want)
	}
}

func TestDevice_ForgetClearsLocalStateAtomically(t *testing.T) {
	bus := newScriptBus(
		mustEncode(CmdReturnInfo, infoPayload(0, 3, 1)),
	)
	dev := New(bus)

	if err := dev.RequestAll(); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if err := dev.SetName(1, "cone"); err != nil {
		t.Fatalf("set name failed: %v", err)
	}

	if err := dev.Forget(); err != nil {
		t.Fatalf("forget failed: %v", err)
	}

	if dev.LearnedCount() != 0 {
		t.Errorf("learned count after forget: expected 0, got %d", dev.LearnedCount())
	}
	if _, ok := dev.NameForID(1); ok {
		t.Error("name mapping should be empty after forget")
	}
}

func TestDevice_LearnNewAssignsConsecutiveIDs(t *testing.T) {
	bus := newScriptBus(
		mustEncode(CmdReturnInfo, infoPayload(0, 2, 1)),
	)
	dev := New(bus)

	if err := dev.RequestAll(); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	id, err := dev.LearnNew()
	if err != nil {
		t.Fatalf("learn failed: %v", err)
	}
	if id != 3 {
		t.Errorf("expected next consecutive id 3, got %d", id)
	}

	want := mustEncode(CmdRequestLearn, []byte{3, 0})
	last := bus.writes[len(bus.writes)-1]
	if !bytes.Equal(last, want) {
		t.Errorf("learn frame mismatch:\n  got  % X\n  want % X", last, want)
	}
}

func TestDevice_WriteTextEncodings(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		x           uint16
		y           uint8
		wantPayload []byte
	}{
		{
			name:        "small x",
			text:        "hi",
			x:           100,
			y:           50,
			wantPayload: []byte{2, 0, 100, 50, 'h', 'i'},
		},
		{
			name: "extended x uses 0xFF marker and modulo",
			text: "go",
			x:    300,
			y:    10,
			// 300 % 255 == 45; the modulo is a firmware quirk kept for
			// wire compatibility
			wantPayload: []byte{2, 0xFF, 45, 10, 'g', 'o'},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newScriptBus()
			dev := New(bus)

			if err := dev.WriteText(tt.text, tt.x, tt.y); err != nil {
				t.Fatalf("write text failed: %v", err)
			}

			want := mustEncode(CmdRequestCustomText, tt.wantPayload)
			if len(bus.writes) != 1 || !bytes.Equal(bus.writes[0], want) {
				t.Errorf("text frame mismatch:\n  got  % X\n  want % X", bus.writes[0], want)
			}
		})
	}
}

func TestDevice_WriteTextRejectedLocally(t *testing.T) {
	bus := newScriptBus()
	dev := New(bus)

	err := dev.WriteText("this string is longer than twenty", 0, 0)
	if !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("expected ErrTextTooLong, got %v", err)
	}
	if len(bus.writes) != 0 {
		t.Error("rejected overlay must not produce a bus write")
	}
}

func TestDevice_IsPro(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    bool
	}{
		{name: "pro", payload: []byte{1}, want: true},
		{name: "standard", payload: []byte{0}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newScriptBus(mustEncode(CmdReturnIsPro, tt.payload))
			dev := New(bus)

			pro, err := dev.IsPro()
			if err != nil {
				t.Fatalf("is pro failed: %v", err)
			}
			if pro != tt.want {
				t.Errorf("expected %v, got %v", tt.want, pro)
			}
		})
	}
}

func TestDevice_StatisticsTrackErrors(t *testing.T) {
	bus := newScriptBus(
		corruptFrame(mustEncode(CmdReturnOK, nil)),
		mustEncode(CmdReturnOK, nil),
	)
	dev := New(bus)

	if err := dev.Knock(); err == nil {
		t.Fatal("first knock should fail on the corrupted reply")
	}
	if err := dev.Knock(); err != nil {
		t.Fatalf("second knock failed: %v", err)
	}

	stats := dev.Stats()
	if stats.TotalPackets != 2 {
		t.Errorf("total packets: expected 2, got %d", stats.TotalPackets)
	}
	if stats.ValidPackets != 1 {
		t.Errorf("valid packets: expected 1, got %d", stats.ValidPackets)
	}
	if stats.ChecksumErrors != 1 {
		t.Errorf("checksum errors: expected 1, got %d", stats.ChecksumErrors)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on with errors.Is.
var (
	// ErrNotConnected indicates the presence probe or knock failed. The
	// caller must re-probe before retrying other operations.
	ErrNotConnected = errors.New("huskylens: device not connected")

	// ErrBusy indicates the device reported a prior request is still being
	// drained. Retry after the outstanding response has been consumed.
	ErrBusy = errors.New("huskylens: device busy")

	// ErrNeedPro indicates the command requires the pro hardware tier.
	ErrNeedPro = errors.New("huskylens: command requires the pro model")

	// ErrUnknownAlgorithm indicates an algorithm code outside the
	// enumerated set. Rejected locally; nothing is sent on the bus.
	ErrUnknownAlgorithm = errors.New("huskylens: unknown algorithm code")

	// ErrTextTooLong indicates an overlay string over MaxOverlayTextLen
	// characters. Rejected locally; nothing is sent on the bus.
	ErrTextTooLong = errors.New("huskylens: overlay text too long")

	// ErrInvalidResponse indicates a response frame whose checksum did not
	// verify.
	ErrInvalidResponse = errors.New("huskylens: response checksum mismatch")
)

// SyncError indicates the reader exhausted its resynchronization byte budget
// without seeing a header sentinel.
type SyncError struct {
	Discarded int
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("huskylens: no frame header within %d bytes", e.Discarded)
}

// UnexpectedReplyError indicates a response carried a command code other
// than the one the transaction expected.
type UnexpectedReplyError struct {
	Want byte
	Got  byte
}

func (e *UnexpectedReplyError) Error() string {
	return fmt.Sprintf("huskylens: expected reply 0x%02X, got 0x%02X", e.Want, e.Got)
}

// StatusError wraps a device-side rejection status so callers can both
// branch on the sentinel (errors.Is) and inspect the raw code.
type StatusError struct {
	Code byte
	err  error
}

func newStatusError(code byte) *StatusError {
	var err error
	switch code {
	case CmdReturnBusy:
		err = ErrBusy
	case CmdReturnNeedPro:
		err = ErrNeedPro
	default:
		err = fmt.Errorf("huskylens: device rejected request (status 0x%02X)", code)
	}
	return &StatusError{Code: code, err: err}
}

func (e *StatusError) Error() string {
	return e.err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.err
}

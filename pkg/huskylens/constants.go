// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

// Package huskylens implements the DFRobot HuskyLens binary protocol.
//
// The HuskyLens is a vision sensor that detects rectangular objects
// ("blocks") and directed line segments ("arrows") and reports them over a
// shared two-wire bus or a UART link using a length-prefixed, checksummed
// packet format. This package provides packet encoding/decoding, response
// framing with resynchronization, and a Device facade exposing the full
// command set.
package huskylens

// Protocol framing bytes. Every packet starts with the two header sentinels
// followed by the fixed protocol address.
const (
	Header1         = 0x55
	Header2         = 0xAA
	ProtocolAddress = 0x11
)

// DefaultBusAddress is the device's I2C address.
const DefaultBusAddress = 0x32

// Packet size limits. The length field is a single byte, so payloads are
// capped at 255 bytes; HeaderSize covers header1, header2, address, length
// and command.
const (
	HeaderSize     = 5
	MaxPayloadSize = 255
	MaxPacketSize  = HeaderSize + MaxPayloadSize + 1
)

// Command codes - Requests (Controller → HuskyLens)
const (
	CmdRequest              = 0x20 // All blocks and arrows
	CmdRequestBlocks        = 0x21 // All blocks
	CmdRequestArrows        = 0x22 // All arrows
	CmdRequestLearned       = 0x23 // All learned blocks and arrows
	CmdRequestBlocksLearned = 0x24 // All learned blocks
	CmdRequestArrowsLearned = 0x25 // All learned arrows
	CmdRequestByID          = 0x26 // Blocks and arrows matching an ID
	CmdRequestBlocksByID    = 0x27 // Blocks matching an ID
	CmdRequestArrowsByID    = 0x28 // Arrows matching an ID
	CmdRequestKnock         = 0x2C // Liveness check
	CmdRequestAlgorithm     = 0x2D // Switch the active algorithm
	CmdRequestCustomNames   = 0x2F // Assign a name to a learned ID
	CmdRequestPhoto         = 0x30 // Save a camera photo to the SD card
	CmdRequestSendKnow      = 0x32 // Save the current model to the SD card
	CmdRequestReceiveKnow   = 0x33 // Load a model file from the SD card
	CmdRequestCustomText    = 0x34 // Draw a text overlay on the UI
	CmdRequestClearText     = 0x35 // Clear all text overlays
	CmdRequestLearn         = 0x36 // Learn the on-screen object with an ID
	CmdRequestForget        = 0x37 // Forget all learned objects
	CmdRequestScreenshot    = 0x39 // Save a UI screenshot to the SD card
	CmdRequestIsPro         = 0x3B // Query the model tier
	CmdRequestFirmware      = 0x3C // Firmware version (response shape unspecified)
)

// Command codes - Returns (HuskyLens → Controller)
const (
	CmdReturnInfo    = 0x29 // Envelope: counts of records that follow
	CmdReturnBlock   = 0x2A // One block record
	CmdReturnArrow   = 0x2B // One arrow record
	CmdReturnOK      = 0x2E // Acknowledgment for knock/algorithm
	CmdReturnIsPro   = 0x3B // Model tier response
	CmdReturnBusy    = 0x3D // Prior request not yet drained
	CmdReturnNeedPro = 0x3E // Command requires the pro model
)

// Algorithm identifies one of the device's on-board vision algorithms.
// Encoded on the wire as a 16-bit little-endian value; current firmware
// only uses the low byte.
type Algorithm uint16

// Algorithm values
const (
	AlgorithmFaceRecognition      Algorithm = 0x00
	AlgorithmObjectTracking       Algorithm = 0x01
	AlgorithmObjectRecognition    Algorithm = 0x02
	AlgorithmLineTracking         Algorithm = 0x03
	AlgorithmColorRecognition     Algorithm = 0x04
	AlgorithmTagRecognition       Algorithm = 0x05
	AlgorithmObjectClassification Algorithm = 0x06
)

// Valid reports whether a is one of the enumerated algorithms.
func (a Algorithm) Valid() bool {
	return a <= AlgorithmObjectClassification
}

// MaxOverlayTextLen is the longest string the device accepts for a UI text
// overlay.
const MaxOverlayTextLen = 20

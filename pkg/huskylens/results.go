// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import (
	"encoding/binary"
	"fmt"
)

// ReturnInfo is the envelope preceding a run of record packets. Records is
// the exact number of block/arrow packets that follow.
type ReturnInfo struct {
	Records    uint16 // blocks + arrows about to be returned
	LearnedIDs uint16 // ids the device has been trained on
	Frame      uint16 // camera frame number the results belong to
}

// Block is a detected rectangular region.
type Block struct {
	ID      uint16
	XCenter uint16
	YCenter uint16
	Width   uint16
	Height  uint16
}

// Arrow is a detected directed line segment.
type Arrow struct {
	ID      uint16
	XOrigin uint16
	YOrigin uint16
	XTarget uint16
	YTarget uint16
}

func decodeReturnInfo(p *Packet) (ReturnInfo, error) {
	d := p.Payload()
	if len(d) < 6 {
		return ReturnInfo{}, fmt.Errorf("info payload too short: %d bytes", len(d))
	}
	return ReturnInfo{
		Records:    binary.LittleEndian.Uint16(d[0:2]),
		LearnedIDs: binary.LittleEndian.Uint16(d[2:4]),
		Frame:      binary.LittleEndian.Uint16(d[4:6]),
	}, nil
}

func decodeBlock(p *Packet) (Block, error) {
	d := p.Payload()
	if len(d) < 10 {
		return Block{}, fmt.Errorf("block payload too short: %d bytes", len(d))
	}
	return Block{
		XCenter: binary.LittleEndian.Uint16(d[0:2]),
		YCenter: binary.LittleEndian.Uint16(d[2:4]),
		Width:   binary.LittleEndian.Uint16(d[4:6]),
		Height:  binary.LittleEndian.Uint16(d[6:8]),
		ID:      binary.LittleEndian.Uint16(d[8:10]),
	}, nil
}

func decodeArrow(p *Packet) (Arrow, error) {
	d := p.Payload()
	if len(d) < 10 {
		return Arrow{}, fmt.Errorf("arrow payload too short: %d bytes", len(d))
	}
	return Arrow{
		XOrigin: binary.LittleEndian.Uint16(d[0:2]),
		YOrigin: binary.LittleEndian.Uint16(d[2:4]),
		XTarget: binary.LittleEndian.Uint16(d[4:6]),
		YTarget: binary.LittleEndian.Uint16(d[6:8]),
		ID:      binary.LittleEndian.Uint16(d[8:10]),
	}, nil
}

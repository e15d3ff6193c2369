// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import "fmt"

// FormatCommand returns the human-readable name for a command code
func FormatCommand(command byte) string {
	switch command {
	case CmdRequest:
		return "REQUEST"
	case CmdRequestBlocks:
		return "REQUEST_BLOCKS"
	case CmdRequestArrows:
		return "REQUEST_ARROWS"
	case CmdRequestLearned:
		return "REQUEST_LEARNED"
	case CmdRequestBlocksLearned:
		return "REQUEST_BLOCKS_LEARNED"
	case CmdRequestArrowsLearned:
		return "REQUEST_ARROWS_LEARNED"
	case CmdRequestByID:
		return "REQUEST_BY_ID"
	case CmdRequestBlocksByID:
		return "REQUEST_BLOCKS_BY_ID"
	case CmdRequestArrowsByID:
		return "REQUEST_ARROWS_BY_ID"
	case CmdReturnInfo:
		return "RETURN_INFO"
	case CmdReturnBlock:
		return "RETURN_BLOCK"
	case CmdReturnArrow:
		return "RETURN_ARROW"
	case CmdRequestKnock:
		return "REQUEST_KNOCK"
	case CmdRequestAlgorithm:
		return "REQUEST_ALGORITHM"
	case CmdReturnOK:
		return "RETURN_OK"
	case CmdRequestCustomNames:
		return "REQUEST_CUSTOM_NAMES"
	case CmdRequestPhoto:
		return "REQUEST_PHOTO"
	case CmdRequestSendKnow:
		return "REQUEST_SEND_KNOWLEDGES"
	case CmdRequestReceiveKnow:
		return "REQUEST_RECEIVE_KNOWLEDGES"
	case CmdRequestCustomText:
		return "REQUEST_CUSTOM_TEXT"
	case CmdRequestClearText:
		return "REQUEST_CLEAR_TEXT"
	case CmdRequestLearn:
		return "REQUEST_LEARN"
	case CmdRequestForget:
		return "REQUEST_FORGET"
	case CmdRequestScreenshot:
		return "REQUEST_SAVE_SCREENSHOT"
	case CmdRequestIsPro:
		return "REQUEST_IS_PRO"
	case CmdRequestFirmware:
		return "REQUEST_FIRMWARE_VERSION"
	case CmdReturnBusy:
		return "RETURN_BUSY"
	case CmdReturnNeedPro:
		return "RETURN_NEED_PRO"
	default:
		return "UNKNOWN"
	}
}

// FormatAlgorithm returns the human-readable name for an algorithm code
func FormatAlgorithm(a Algorithm) string {
	switch a {
	case AlgorithmFaceRecognition:
		return "face_recognition"
	case AlgorithmObjectTracking:
		return "object_tracking"
	case AlgorithmObjectRecognition:
		return "object_recognition"
	case AlgorithmLineTracking:
		return "line_tracking"
	case AlgorithmColorRecognition:
		return "color_recognition"
	case AlgorithmTagRecognition:
		return "tag_recognition"
	case AlgorithmObjectClassification:
		return "object_classification"
	default:
		return "unknown"
	}
}

// ParseAlgorithm maps an algorithm name (as produced by FormatAlgorithm)
// back to its code.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "face_recognition", "face":
		return AlgorithmFaceRecognition, nil
	case "object_tracking", "tracking":
		return AlgorithmObjectTracking, nil
	case "object_recognition", "object":
		return AlgorithmObjectRecognition, nil
	case "line_tracking", "line":
		return AlgorithmLineTracking, nil
	case "color_recognition", "color":
		return AlgorithmColorRecognition, nil
	case "tag_recognition", "tag":
		return AlgorithmTagRecognition, nil
	case "object_classification", "classification":
		return AlgorithmObjectClassification, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", name)
	}
}

// FormatPacket formats a packet into a single human-readable line
func FormatPacket(p *Packet) string {
	validity := "ok"
	if !p.Valid() {
		validity = "BAD_CHECKSUM"
	}
	return fmt.Sprintf("%s (0x%02X) len=%d payload=% X [%s]",
		FormatCommand(p.Command()), p.Command(), p.Length(), p.Payload(), validity)
}

// FormatBlock formats a block into a single human-readable line
func FormatBlock(b Block) string {
	return fmt.Sprintf("block id=%d center=(%d,%d) size=%dx%d",
		b.ID, b.XCenter, b.YCenter, b.Width, b.Height)
}

// FormatArrow formats an arrow into a single human-readable line
func FormatArrow(a Arrow) string {
	return fmt.Sprintf("arrow id=%d origin=(%d,%d) target=(%d,%d)",
		a.ID, a.XOrigin, a.YOrigin, a.XTarget, a.YTarget)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import (
	"encoding/binary"
	"fmt"
	"time"
)

// SessionState describes where a Device sits in its request/response cycle.
type SessionState int

// Session states
const (
	StateDisconnected SessionState = iota
	StateIdle
	StateAwaitingResponse
)

// Device is a session with one HuskyLens. It owns the learned-object
// counter, the id-to-name mapping, and the most recent block/arrow
// snapshots, and exposes the full command set.
//
// The protocol is strictly synchronous with no request identifiers, so at
// most one request may be outstanding at a time. Device performs no
// locking; callers sharing one across goroutines must serialize access
// externally.
type Device struct {
	bus    Bus
	reader *Reader
	config Config
	stats  Statistics

	state    SessionState
	nLearned uint16
	frame    uint16
	names    map[uint16]string
	blocks   []Block
	arrows   []Arrow
}

// New creates a Device over the given bus.
//
// Example:
//
//	dev := huskylens.New(bus, huskylens.WithResyncLimit(1024))
//	if err := dev.Begin(); err != nil { ... }
func New(bus Bus, opts ...Option) *Device {
	if bus == nil {
		panic("bus cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Device{
		bus:    bus,
		reader: NewReader(bus, cfg.ResyncLimit),
		config: cfg,
		stats:  newStatistics(),
		state:  StateDisconnected,
		names:  make(map[uint16]string),
	}
}

// State returns the session state.
func (d *Device) State() SessionState {
	return d.state
}

// Blocks returns the most recent block snapshot. The slice is replaced
// wholesale by the next successful fetch.
func (d *Device) Blocks() []Block {
	return d.blocks
}

// Arrows returns the most recent arrow snapshot.
func (d *Device) Arrows() []Arrow {
	return d.arrows
}

// LearnedCount returns the number of ids the device has been trained on, as
// reported by the last successful fetch.
func (d *Device) LearnedCount() uint16 {
	return d.nLearned
}

// Frame returns the camera frame number from the last successful fetch.
func (d *Device) Frame() uint16 {
	return d.frame
}

// Stats returns a snapshot of the session statistics.
func (d *Device) Stats() Statistics {
	return d.stats
}

// Begin probes the bus, knocks, and seeds the session with an initial full
// request so the learned-id count is known.
func (d *Device) Begin() error {
	if !d.bus.Probe() {
		d.state = StateDisconnected
		return ErrNotConnected
	}
	if err := d.Knock(); err != nil {
		return err
	}
	return d.RequestAll()
}

// Connected reports whether the device acknowledges on the bus and answers
// a knock.
func (d *Device) Connected() bool {
	return d.bus.Probe() && d.Knock() == nil
}

// Knock performs a liveness round-trip. Any failure leaves the session
// disconnected.
func (d *Device) Knock() error {
	if err := d.statusCommand(CmdRequestKnock, nil); err != nil {
		d.state = StateDisconnected
		if _, ok := err.(*SyncError); ok {
			return fmt.Errorf("%w: %v", ErrNotConnected, err)
		}
		return err
	}
	d.state = StateIdle
	return nil
}

// SetAlgorithm switches the active vision algorithm. Codes outside the
// enumerated set are rejected locally; no bytes reach the bus.
func (d *Device) SetAlgorithm(a Algorithm) error {
	if !a.Valid() {
		return ErrUnknownAlgorithm
	}
	return d.statusCommand(CmdRequestAlgorithm, uint16LE(uint16(a)))
}

// RequestAll fetches every detected block and arrow, replacing both
// snapshots.
func (d *Device) RequestAll() error {
	return d.fetchMixed(CmdRequest, nil)
}

// RequestBlocks fetches every detected block, replacing the block snapshot.
func (d *Device) RequestBlocks() error {
	return d.fetchBlocks(CmdRequestBlocks, nil)
}

// RequestArrows fetches every detected arrow, replacing the arrow snapshot.
func (d *Device) RequestArrows() error {
	return d.fetchArrows(CmdRequestArrows, nil)
}

// RequestLearned fetches every learned block and arrow.
func (d *Device) RequestLearned() error {
	return d.fetchMixed(CmdRequestLearned, nil)
}

// RequestBlocksLearned fetches every learned block.
func (d *Device) RequestBlocksLearned() error {
	return d.fetchBlocks(CmdRequestBlocksLearned, nil)
}

// RequestArrowsLearned fetches every learned arrow.
func (d *Device) RequestArrowsLearned() error {
	return d.fetchArrows(CmdRequestArrowsLearned, nil)
}

// RequestByID fetches the blocks and arrows carrying the given learned id.
func (d *Device) RequestByID(id uint16) error {
	return d.fetchMixed(CmdRequestByID, uint16LE(id))
}

// RequestBlocksByID fetches the blocks carrying the given learned id.
func (d *Device) RequestBlocksByID(id uint16) error {
	return d.fetchBlocks(CmdRequestBlocksByID, uint16LE(id))
}

// RequestArrowsByID fetches the arrows carrying the given learned id.
func (d *Device) RequestArrowsByID(id uint16) error {
	return d.fetchArrows(CmdRequestArrowsByID, uint16LE(id))
}

// WaitForBlocks polls RequestBlocks until at least one block is visible.
// Blocks indefinitely while the sensor sees nothing; fetch errors are
// returned immediately.
func (d *Device) WaitForBlocks() error {
	for {
		if err := d.RequestBlocks(); err != nil {
			return err
		}
		if len(d.blocks) > 0 {
			return nil
		}
		time.Sleep(d.config.PollInterval)
	}
}

// WaitForArrows polls RequestArrows until at least one arrow is visible.
func (d *Device) WaitForArrows() error {
	for {
		if err := d.RequestArrows(); err != nil {
			return err
		}
		if len(d.arrows) > 0 {
			return nil
		}
		time.Sleep(d.config.PollInterval)
	}
}

// Learn trains the on-screen object under the given id. Fire-and-forget:
// the device does not acknowledge.
func (d *Device) Learn(id uint16) error {
	return d.send(CmdRequestLearn, uint16LE(id))
}

// LearnNew trains the on-screen object under the next consecutive id and
// returns that id. The device assigns ids consecutively, so the local
// counter tracks its numbering.
func (d *Device) LearnNew() (uint16, error) {
	d.nLearned++
	return d.nLearned, d.Learn(d.nLearned)
}

// LearnSame trains another sample of the most recently learned id.
func (d *Device) LearnSame() error {
	return d.Learn(d.nLearned)
}

// Forget discards all learned objects for the running algorithm. The local
// learned-id counter and name mapping are cleared together with the send,
// whether or not the device acknowledges.
func (d *Device) Forget() error {
	d.nLearned = 0
	d.names = make(map[uint16]string)
	return d.send(CmdRequestForget, nil)
}

// SetName assigns a display name to a learned id. The wire field for the id
// is a single byte. The association is also recorded locally regardless of
// the device's reaction: the protocol has no readback for names, so the
// local mapping is best-effort and does not persist across sessions.
func (d *Device) SetName(id uint16, name string) error {
	payload := make([]byte, 0, 2+len(name)+1)
	payload = append(payload, byte(id), byte(len(name)+1))
	payload = append(payload, name...)
	payload = append(payload, 0)

	d.names[id] = name
	return d.send(CmdRequestCustomNames, payload)
}

// NameLast assigns a display name to the most recently learned id.
func (d *Device) NameLast(name string) error {
	return d.SetName(d.nLearned, name)
}

// NameForID returns the locally recorded name for a learned id.
func (d *Device) NameForID(id uint16) (string, bool) {
	name, ok := d.names[id]
	return name, ok
}

// WriteText draws a text overlay on the device UI at (x, y). Strings over
// MaxOverlayTextLen characters are rejected locally.
//
// For x above 255 the wire encoding is a 0xFF marker followed by x modulo
// 255. That modulo is a firmware quirk: x values 255 apart encode
// identically. Preserved as-is for wire compatibility.
func (d *Device) WriteText(text string, x uint16, y uint8) error {
	if len(text) > MaxOverlayTextLen {
		return ErrTextTooLong
	}

	payload := make([]byte, 0, 4+len(text))
	if x > 255 {
		payload = append(payload, byte(len(text)), 0xFF, byte(x%255), y)
	} else {
		payload = append(payload, byte(len(text)), 0, byte(x), y)
	}
	payload = append(payload, text...)

	return d.send(CmdRequestCustomText, payload)
}

// ClearText removes all text overlays from the device UI.
func (d *Device) ClearText() error {
	return d.send(CmdRequestClearText, nil)
}

// SavePhoto saves a camera photo to the device SD card.
func (d *Device) SavePhoto() error {
	return d.send(CmdRequestPhoto, nil)
}

// SaveScreenshot saves a screenshot of the device UI to the SD card.
func (d *Device) SaveScreenshot() error {
	return d.send(CmdRequestScreenshot, nil)
}

// SaveKnowledge saves the running algorithm's model to the SD card under
// the given file number.
func (d *Device) SaveKnowledge(fileNum uint16) error {
	return d.send(CmdRequestSendKnow, uint16LE(fileNum))
}

// LoadKnowledge loads a model file from the SD card into the running
// algorithm.
func (d *Device) LoadKnowledge(fileNum uint16) error {
	return d.send(CmdRequestReceiveKnow, uint16LE(fileNum))
}

// IsPro reports whether the device is the pro hardware tier.
func (d *Device) IsPro() (bool, error) {
	reply, err := d.roundTrip(CmdRequestIsPro, nil, CmdReturnIsPro)
	if err != nil {
		return false, err
	}
	if len(reply.Payload()) < 1 {
		return false, fmt.Errorf("empty model tier payload")
	}
	return reply.Payload()[0] == 1, nil
}

// send encodes and transmits a command without reading a response.
func (d *Device) send(command byte, payload []byte) error {
	pkt, err := Encode(command, payload)
	if err != nil {
		return err
	}
	d.logDebug("send", "command", fmt.Sprintf("0x%02X", command), "len", len(payload))

	// The device has no register map; the leading header byte stands in
	// for the register address.
	return d.bus.WriteBlock(pkt[0], pkt[1:])
}

// readResponse reads one framed packet and maintains the statistics.
func (d *Device) readResponse() (*Packet, error) {
	p, err := d.reader.ReadPacket()
	if err != nil {
		d.stats.recordFramingError(err)
		return nil, err
	}
	d.stats.recordPacket(p)
	return p, nil
}

// roundTrip sends a command and reads its single response packet, requiring
// a verified checksum and the expected reply code. Busy and need-pro
// replies surface as their distinct errors.
func (d *Device) roundTrip(command byte, payload []byte, want byte) (*Packet, error) {
	if err := d.send(command, payload); err != nil {
		return nil, err
	}

	d.state = StateAwaitingResponse
	defer func() {
		if d.state == StateAwaitingResponse {
			d.state = StateIdle
		}
	}()

	reply, err := d.readResponse()
	if err != nil {
		return nil, err
	}
	if !reply.Valid() {
		return nil, ErrInvalidResponse
	}
	switch reply.Command() {
	case want:
		return reply, nil
	case CmdReturnBusy, CmdReturnNeedPro:
		d.stats.recordRejection(reply.Command())
		return nil, newStatusError(reply.Command())
	default:
		return nil, &UnexpectedReplyError{Want: want, Got: reply.Command()}
	}
}

func (d *Device) statusCommand(command byte, payload []byte) error {
	_, err := d.roundTrip(command, payload, CmdReturnOK)
	return err
}

// readEnvelope requires the next packet to be a valid info envelope and
// decodes it.
func (d *Device) readEnvelope() (ReturnInfo, error) {
	reply, err := d.readResponse()
	if err != nil {
		return ReturnInfo{}, err
	}
	if !reply.Valid() {
		return ReturnInfo{}, ErrInvalidResponse
	}
	switch reply.Command() {
	case CmdReturnInfo:
	case CmdReturnBusy, CmdReturnNeedPro:
		d.stats.recordRejection(reply.Command())
		return ReturnInfo{}, newStatusError(reply.Command())
	default:
		return ReturnInfo{}, &UnexpectedReplyError{Want: CmdReturnInfo, Got: reply.Command()}
	}
	return decodeReturnInfo(reply)
}

// readRecord requires the next packet to be a valid record with the given
// command code.
func (d *Device) readRecord(want byte) (*Packet, error) {
	reply, err := d.readResponse()
	if err != nil {
		return nil, err
	}
	if !reply.Valid() {
		d.stats.SequenceErrors++
		return nil, ErrInvalidResponse
	}
	if reply.Command() != want {
		d.stats.SequenceErrors++
		return nil, &UnexpectedReplyError{Want: want, Got: reply.Command()}
	}
	return reply, nil
}

// fetchBlocks runs a blocks-only aggregation: one envelope, then exactly
// the declared number of block records. Records accumulate locally and
// replace the snapshot only when the whole run decodes; an aborted fetch
// leaves the previous snapshot untouched.
func (d *Device) fetchBlocks(command byte, payload []byte) error {
	if err := d.send(command, payload); err != nil {
		return err
	}

	d.state = StateAwaitingResponse
	defer func() {
		if d.state == StateAwaitingResponse {
			d.state = StateIdle
		}
	}()

	info, err := d.readEnvelope()
	if err != nil {
		return err
	}

	blocks := make([]Block, 0, info.Records)
	for i := 0; i < int(info.Records); i++ {
		reply, err := d.readRecord(CmdReturnBlock)
		if err != nil {
			return fmt.Errorf("record %d of %d: %w", i+1, info.Records, err)
		}
		block, err := decodeBlock(reply)
		if err != nil {
			return fmt.Errorf("record %d of %d: %w", i+1, info.Records, err)
		}
		blocks = append(blocks, block)
	}

	d.blocks = blocks
	d.commitInfo(info)
	d.stats.BlocksSeen += uint64(len(blocks))
	return nil
}

// fetchArrows is the arrows-only counterpart of fetchBlocks.
func (d *Device) fetchArrows(command byte, payload []byte) error {
	if err := d.send(command, payload); err != nil {
		return err
	}

	d.state = StateAwaitingResponse
	defer func() {
		if d.state == StateAwaitingResponse {
			d.state = StateIdle
		}
	}()

	info, err := d.readEnvelope()
	if err != nil {
		return err
	}

	arrows := make([]Arrow, 0, info.Records)
	for i := 0; i < int(info.Records); i++ {
		reply, err := d.readRecord(CmdReturnArrow)
		if err != nil {
			return fmt.Errorf("record %d of %d: %w", i+1, info.Records, err)
		}
		arrow, err := decodeArrow(reply)
		if err != nil {
			return fmt.Errorf("record %d of %d: %w", i+1, info.Records, err)
		}
		arrows = append(arrows, arrow)
	}

	d.arrows = arrows
	d.commitInfo(info)
	d.stats.ArrowsSeen += uint64(len(arrows))
	return nil
}

// fetchMixed runs a mixed aggregation: trailing records may be blocks or
// arrows in any order, appended to the respective list in arrival order.
// Both snapshots are replaced on success.
func (d *Device) fetchMixed(command byte, payload []byte) error {
	if err := d.send(command, payload); err != nil {
		return err
	}

	d.state = StateAwaitingResponse
	defer func() {
		if d.state == StateAwaitingResponse {
			d.state = StateIdle
		}
	}()

	info, err := d.readEnvelope()
	if err != nil {
		return err
	}

	blocks := []Block{}
	arrows := []Arrow{}
	for i := 0; i < int(info.Records); i++ {
		reply, err := d.readResponse()
		if err != nil {
			return fmt.Errorf("record %d of %d: %w", i+1, info.Records, err)
		}
		if !reply.Valid() {
			d.stats.SequenceErrors++
			return fmt.Errorf("record %d of %d: %w", i+1, info.Records, ErrInvalidResponse)
		}

		switch reply.Command() {
		case CmdReturnBlock:
			block, err := decodeBlock(reply)
			if err != nil {
				return fmt.Errorf("record %d of %d: %w", i+1, info.Records, err)
			}
			blocks = append(blocks, block)
		case CmdReturnArrow:
			arrow, err := decodeArrow(reply)
			if err != nil {
				return fmt.Errorf("record %d of %d: %w", i+1, info.Records, err)
			}
			arrows = append(arrows, arrow)
		default:
			d.stats.SequenceErrors++
			return fmt.Errorf("record %d of %d: %w", i+1, info.Records,
				&UnexpectedReplyError{Want: CmdReturnBlock, Got: reply.Command()})
		}
	}

	d.blocks = blocks
	d.arrows = arrows
	d.commitInfo(info)
	d.stats.BlocksSeen += uint64(len(blocks))
	d.stats.ArrowsSeen += uint64(len(arrows))
	return nil
}

func (d *Device) commitInfo(info ReturnInfo) {
	d.nLearned = info.LearnedIDs
	d.frame = info.Frame
	d.stats.Fetches++
	d.logDebug("fetch complete",
		"records", info.Records, "learned", info.LearnedIDs, "frame", info.Frame)
}

func (d *Device) logDebug(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Debug(msg, keysAndValues...)
	}
}

func uint16LE(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

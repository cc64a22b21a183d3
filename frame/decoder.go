// Package frame implements the per-plane positional frame decoder: the
// ten-state machine that turns one M26 plane's data words into pixel hits
// and status anomalies, position by position, with no look-ahead.
package frame

import "github.com/hep-daq/mimosa26interp/status"

const (
	trailerMagic = 0xAA50

	rowShift    = 4
	rowMask     = 0x7FF
	nWordsMask  = 0xF
	overflowBit = 0x8000

	colShift  = 2
	colMask   = 0x7FF
	nHitsMask = 0x3
)

// PixelHit is one fully-expanded pixel within a row/column group.
type PixelHit struct {
	Row    uint16
	Column uint16
}

// StepResult reports what happened while processing one word.
type StepResult struct {
	Hits       []PixelHit
	StatusBits uint32

	// HeaderStarted is true exactly when this word opened a new frame
	// (frame-start flag set). PrevTimestamp and PrevFrameID carry this
	// plane's timestamp and frame id as they stood immediately before
	// this header overwrote them — the values the root interpreter
	// anchors TLU trigger reconstruction to, when this is plane 1.
	HeaderStarted bool
	PrevTimestamp uint32
	PrevFrameID   uint32

	// EnteredLoss and ExitedLoss report data-loss state transitions,
	// for diagnostic logging only.
	EnteredLoss bool
	ExitedLoss  bool
}

// Decoder is the positional state machine for one M26 plane. A Decoder
// has no knowledge of the other five planes or of the TLU; the root
// interpreter owns one per plane and drives them independently in
// stream order.
type Decoder struct {
	plane int // 1..6

	wordIndex   int
	frameLength int // -1 until length-A/B latched
	nWords      int
	row         int // -1 until a row word latches it
	dataLoss    bool

	timestamp uint32
	frameID   uint32
}

// NewDecoder returns a Decoder for the given plane (1..6), in its initial
// AWAIT_HEADER state.
func NewDecoder(plane int) *Decoder {
	return &Decoder{plane: plane, frameLength: -1, row: -1}
}

// Timestamp returns the plane's current reconstructed header timestamp.
func (d *Decoder) Timestamp() uint32 { return d.timestamp }

// FrameID returns the plane's current frame id.
func (d *Decoder) FrameID() uint32 { return d.frameID }

// Step processes one M26 data word already known to belong to this
// plane. payload is the word's low 16 bits; dataLoss and frameStart are
// the two out-of-band flags observable regardless of word position.
func (d *Decoder) Step(payload uint16, dataLoss, frameStart bool) StepResult {
	prevLoss := d.dataLoss
	var res StepResult

	switch {
	case dataLoss:
		d.dataLoss = true

	case frameStart:
		res.HeaderStarted = true
		res.PrevTimestamp = d.timestamp
		res.PrevFrameID = d.frameID

		d.timestamp = (d.timestamp &^ 0xFFFF) | uint32(payload)
		d.frameLength = -1
		d.nWords = 0
		d.dataLoss = false
		d.wordIndex = 0

	case d.dataLoss:
		// Discarded until the next frame-start word.

	default:
		d.wordIndex++
		res.Hits, res.StatusBits = d.dispatch(payload)
	}

	res.EnteredLoss = !prevLoss && d.dataLoss
	res.ExitedLoss = prevLoss && !d.dataLoss
	return res
}

// dispatch handles one word once it is known to be neither a data-loss
// nor a frame-start word, at the current (already incremented)
// word_index. Branch order mirrors the wire grammar's fixed positions.
func (d *Decoder) dispatch(payload uint16) ([]PixelHit, uint32) {
	var bits uint32

	switch {
	case d.wordIndex == 1: // header1: upper 16 bits of timestamp
		tsHigh := uint32(payload) << 16
		if tsHigh < (d.timestamp & 0xFFFF0000) {
			bits |= status.TsOverflow
		}
		d.timestamp = tsHigh | (d.timestamp & 0xFFFF)

	case d.wordIndex == 2: // frame-id low
		d.frameID = uint32(payload) | (d.frameID &^ 0xFFFF)

	case d.wordIndex == 3: // frame-id high
		d.frameID = (uint32(payload) << 16) | (d.frameID & 0xFFFF)

	case d.wordIndex == 4: // length A
		d.frameLength = int(payload) * 2

	case d.wordIndex == 5: // length B, must match A
		if d.frameLength != int(payload)*2 {
			bits |= status.EventIncomplete
		}

	case d.wordIndex == 5+d.frameLength+1: // trailer0
		if payload != trailerMagic {
			bits |= status.TrailerHError
		}

	case d.wordIndex == 5+d.frameLength+2: // trailer1
		if payload != (trailerMagic | uint16(d.plane)) {
			bits |= status.TrailerLError
		}

	case d.wordIndex > 5+d.frameLength+2: // overrun
		d.dataLoss = true

	default: // pixel words
		return d.dispatchPixel(payload)
	}

	return nil, bits
}

func (d *Decoder) dispatchPixel(payload uint16) ([]PixelHit, uint32) {
	var bits uint32

	if d.nWords == 0 {
		// Row word: the frame ending on this slot means an odd pixel-word
		// count for this frame; the row/n_words latch is skipped in that
		// case, leaving both at their stale values from the prior group.
		if d.wordIndex == 5+d.frameLength {
			bits |= status.UnevenEvent
		} else {
			d.nWords = int(payload & nWordsMask)
			d.row = int((payload >> rowShift) & rowMask)
		}
		if payload&overflowBit != 0 {
			bits |= status.MimosaOverflow
			d.nWords = 0
		}
		if d.row > 576 {
			bits |= status.RowError
		}
		return nil, bits
	}

	// Column word.
	d.nWords--
	nHits := int(payload & nHitsMask)
	column := int((payload >> colShift) & colMask)
	if column >= 1152 {
		bits |= status.ColError
	}

	row := uint16(0)
	if d.row >= 0 {
		row = uint16(d.row)
	}
	hits := make([]PixelHit, 0, nHits+1)
	for k := 0; k <= nHits; k++ {
		hits = append(hits, PixelHit{Row: row, Column: uint16(column + k)})
	}
	return hits, bits
}

// Package tlu reconstructs TLU trigger records: trigger-number continuity
// and the 15-bit-to-31-bit trigger timestamp expansion anchored to the
// most recent M26 plane-1 header.
package tlu

import "github.com/hep-daq/mimosa26interp/status"

// FrameUnitCycle is one M26 frame period in 40 MHz clock cycles
// (115.2 microseconds).
const FrameUnitCycle = 4608

const (
	timestampShift = 16
	timestampMask  = 0x7FFF
	triggerMask    = 0xFFFF
)

// Anchor is the most recent plane-1 M26 header a trigger timestamp is
// reconstructed against.
type Anchor struct {
	LastTimestamp uint32
	LastFrameID   uint32
}

// Result is one reconstructed TLU trigger, ready to become a hit.Hit.
type Result struct {
	FrameOfTrigger uint32
	Timestamp      uint32
	TriggerNumber  uint16
	Row            uint16
	StatusBits     uint32
}

// Handle reconstructs one trigger word. lastTriggerNumber and
// currentTriggerNumber are the caller's trigger-number cursors
// (-1 meaning "not yet seen"); Handle returns the next values for both,
// which the caller threads into the following call.
//
// The caller persists both cursors across interpreter chunk calls, so
// the discontinuity check below gives the same result whether or not
// the stream is split between two triggers.
func Handle(word uint32, anchor Anchor, lastTriggerNumber, currentTriggerNumber int32) (result Result, nextLast, nextCurrent int32) {
	var bits uint32
	bits |= status.TrgWord

	triggerNumberNew := uint16(word & triggerMask)

	if lastTriggerNumber >= 0 && currentTriggerNumber >= 0 {
		expected := uint16((lastTriggerNumber + 1) % 65536)
		if triggerNumberNew != expected && triggerNumberNew != 0 {
			bits |= status.TrgError
		}
	}
	nextLast = currentTriggerNumber
	nextCurrent = int32(triggerNumberNew)

	ts15 := uint16((word >> timestampShift) & timestampMask)
	ts := uint32(ts15) | (anchor.LastTimestamp & 0xFFFF8000)
	if ts < anchor.LastTimestamp {
		ts += 1 << 15
	}

	// Unsigned subtraction wraps modulo 2^32, giving the correct delta
	// whether or not ts rolled past the anchor.
	delta := ts - anchor.LastTimestamp
	frameOfTrigger := anchor.LastFrameID + delta/FrameUnitCycle
	row := uint16(delta % FrameUnitCycle)

	result = Result{
		FrameOfTrigger: frameOfTrigger,
		Timestamp:      ts,
		TriggerNumber:  triggerNumberNew,
		Row:            row,
		StatusBits:     bits,
	}
	return result, nextLast, nextCurrent
}

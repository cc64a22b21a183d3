// Package status defines the error-status bitmap shared by the M26 planes
// and the TLU, and the small accumulator that tracks it across words.
package status

// Bit values of the 16-bit error-status bitmap. Several of these are
// reserved for a downstream event builder and are never set by this
// interpreter; they are still defined here since they occupy their bit
// positions in every emitted hit.
const (
	MultipleTrgWord uint32 = 0x0001 // reserved for the event builder
	NoTrgWord       uint32 = 0x0002 // reserved for the event builder
	DataError       uint32 = 0x0004 // reserved for the event builder
	EventIncomplete uint32 = 0x0008
	UnknownWord     uint32 = 0x0010
	UnevenEvent     uint32 = 0x0020
	TrgError        uint32 = 0x0040
	TruncEvent      uint32 = 0x0080 // reserved for the event builder
	TrailerHError   uint32 = 0x0100
	TrailerLError   uint32 = 0x0200
	MimosaOverflow  uint32 = 0x0400
	NoHit           uint32 = 0x0800 // reserved for the event builder
	ColError        uint32 = 0x1000
	RowError        uint32 = 0x2000
	TrgWord         uint32 = 0x4000
	TsOverflow      uint32 = 0x8000
)

// TLU is the accumulator slot index for the TLU's own status bits; plane
// slots are 1..6.
const TLU = 0

// Accumulator holds one bitmap per M26 plane (1..6) plus the TLU (0).
// It is not safe for concurrent use; an Interpreter owns exactly one.
type Accumulator struct {
	bits [7]uint32
}

// Or sets the given bits on slot idx, leaving existing bits untouched.
func (a *Accumulator) Or(idx int, bits uint32) {
	a.bits[idx] |= bits
}

// Get returns the current bitmap for slot idx.
func (a *Accumulator) Get(idx int) uint32 {
	return a.bits[idx]
}

// ClearPlanes zeroes the six M26 plane slots (1..6). A hit emitted on any
// plane latches that plane's status at emission time and then clears all
// six plane slots, not just its own.
func (a *Accumulator) ClearPlanes() {
	for i := 1; i <= 6; i++ {
		a.bits[i] = 0
	}
}

// ClearTLU zeroes the TLU slot (0). Called at the start of every trigger
// word before its own status bits are accumulated.
func (a *Accumulator) ClearTLU() {
	a.bits[TLU] = 0
}

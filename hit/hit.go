// Package hit defines the emitted hit record and the growable buffer that
// accumulates them within one interpreter call.
package hit

// TLUPlane is the plane value a synthetic TLU trigger record carries,
// distinguishing it from the six real M26 planes (1..6).
const TLUPlane uint8 = 255

// Hit is one emitted record: a single M26 pixel detection, or a
// synthetic TLU trigger record.
type Hit struct {
	Plane         uint8
	Frame         uint32
	TimeStamp     uint32
	TriggerNumber uint16
	Column        uint16
	Row           uint16
	EventStatus   uint32
}

package mimosa26interp

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hep-daq/mimosa26interp/frame"
	"github.com/hep-daq/mimosa26interp/hit"
	"github.com/hep-daq/mimosa26interp/status"
	"github.com/hep-daq/mimosa26interp/tlu"
	"github.com/hep-daq/mimosa26interp/wireword"
)

// planeCount is the number of M26 sensors in the stream.
const planeCount = 6

// Interpreter is a streaming decoder for one M26/TLU word stream. It
// holds all state that must survive across Interpret calls: the six
// per-plane frame decoders, the TLU anchor and trigger cursor, and the
// error-status accumulator. An Interpreter must not be shared between
// concurrently-running goroutines — decoding one stream is inherently
// sequential.
type Interpreter struct {
	id     uuid.UUID
	config Config
	log    *logrus.Entry

	decoders [planeCount]*frame.Decoder
	status   status.Accumulator

	anchor tlu.Anchor

	// triggerNumber is the most recently decoded trigger number, -1
	// before any trigger has been seen.
	triggerNumber int32
	// lastTriggerNumber is the continuity-check cursor tlu.Handle threads
	// forward, -1 until set; it persists across Interpret calls.
	lastTriggerNumber int32

	// triggerTimestamp and lastTriggerTimestamp are carried for fidelity
	// with the persisted state of the interpreter this package's
	// semantics are grounded on; as there, lastTriggerTimestamp is
	// never read back into any computation.
	triggerTimestamp     uint32
	lastTriggerTimestamp uint32
}

// New constructs an Interpreter. Config is validated once, here;
// construction is the only place this package returns an error.
func New(cfg Config) (*Interpreter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	it := &Interpreter{
		id:                uuid.New(),
		config:            cfg,
		triggerNumber:     -1,
		lastTriggerNumber: -1,
	}
	for p := 0; p < planeCount; p++ {
		it.decoders[p] = frame.NewDecoder(p + 1)
	}
	it.log = logrus.WithFields(logrus.Fields{
		"component":      "mimosa26interp",
		"interpreter_id": it.id,
	})
	it.log.WithFields(logrus.Fields{
		"max_hits_per_chunk":  cfg.maxHitsPerChunk(),
		"trigger_data_format": cfg.triggerDataFormat(),
	}).Info("interpreter constructed")

	return it, nil
}

// Interpret decodes one chunk of raw words and returns the hits it
// produced. Persistent state (frame decoders, status accumulator, TLU
// anchor and trigger cursor) carries over to the next call; the hit
// buffer does not — each call returns only the hits its own words
// produced. Feeding a stream as one call or as any sequence of calls
// covering the same words in order must yield the same hit sequence.
func (it *Interpreter) Interpret(words []uint32) []hit.Hit {
	buf := hit.NewBuffer(it.config.maxHitsPerChunk())

	planesInLoss := 0
	for _, word := range words {
		w := wireword.Classify(word)
		switch w.Kind {
		case wireword.M26Data:
			it.stepPlane(w, buf, &planesInLoss)
		case wireword.Trigger:
			var res tlu.Result
			it.status.ClearTLU()
			res, it.lastTriggerNumber, it.triggerNumber = tlu.Handle(w.Raw, it.anchor, it.lastTriggerNumber, it.triggerNumber)
			it.status.Or(status.TLU, res.StatusBits)
			it.triggerTimestamp, it.lastTriggerTimestamp = res.Timestamp, it.triggerTimestamp
			buf.Append(hit.Hit{
				Plane:         hit.TLUPlane,
				Frame:         res.FrameOfTrigger,
				TimeStamp:     res.Timestamp,
				TriggerNumber: res.TriggerNumber,
				Column:        0,
				Row:           res.Row,
				EventStatus:   it.status.Get(status.TLU),
			})
		default:
			it.status.Or(status.TLU, status.UnknownWord)
		}
	}

	it.log.WithFields(logrus.Fields{
		"words":          len(words),
		"hits":           buf.Len(),
		"planes_in_loss": planesInLoss,
	}).Debug("chunk interpreted")

	return buf.Hits()
}

func (it *Interpreter) stepPlane(w wireword.Word, buf *hit.Buffer, planesInLoss *int) {
	p := w.Plane
	if p < 1 || p > planeCount {
		it.status.Or(status.TLU, status.UnknownWord)
		return
	}

	d := it.decoders[p-1]
	res := d.Step(w.Payload, w.DataLoss, w.FrameStart)

	if p == 1 && res.HeaderStarted {
		it.anchor.LastTimestamp = res.PrevTimestamp
		it.anchor.LastFrameID = res.PrevFrameID
	}
	if res.EnteredLoss {
		*planesInLoss++
		it.log.WithField("plane", p).Warn("plane entered data-loss mode")
	}
	if res.ExitedLoss {
		it.log.WithField("plane", p).Warn("plane recovered from data-loss mode")
	}
	if res.StatusBits != 0 {
		it.status.Or(p, res.StatusBits)
	}

	if len(res.Hits) == 0 {
		return
	}

	trigNum := uint16(0)
	if it.triggerNumber >= 0 {
		trigNum = uint16(it.triggerNumber)
	}
	frameID := d.FrameID()
	timestamp := d.Timestamp()
	snapshot := it.status.Get(p)

	for _, ph := range res.Hits {
		buf.Append(hit.Hit{
			Plane:         uint8(p),
			Frame:         frameID,
			TimeStamp:     timestamp,
			TriggerNumber: trigNum,
			Column:        ph.Column,
			Row:           ph.Row,
			EventStatus:   snapshot,
		})
	}
	// A hit-emission boundary on any plane latches that plane's status
	// and then clears all six plane slots, not just its own.
	it.status.ClearPlanes()
}

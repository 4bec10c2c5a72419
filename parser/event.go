package parser

import (
	"iter"

	"github.com/nicholassherlock/blackbox-log/framedef"
)

// Kind discriminates the five variants of ParseEvent. Implemented as a
// tagged struct rather than an interface with five implementations, per
// the "no virtual dispatch for frame variants" design note: a single
// allocation-free value, switched on Kind, instead of five boxed types.
type Kind uint8

const (
	KindEvent Kind = iota
	KindMain
	KindSlow
	KindGps
	KindGpsHome
)

func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "Event"
	case KindMain:
		return "Main"
	case KindSlow:
		return "Slow"
	case KindGps:
		return "Gps"
	case KindGpsHome:
		return "GpsHome"
	default:
		return "Unknown"
	}
}

// MainFrameKind distinguishes an Intra (keyframe) Main event from an
// Inter (delta) one; only meaningful when Kind == KindMain.
type MainFrameKind uint8

const (
	MainIntra MainFrameKind = iota
	MainInter
)

// EventType identifies the payload of an Event-kind frame.
type EventType uint8

const (
	EventSyncBeep EventType = 0
	EventDisarm   EventType = 15
	EventEnd      EventType = 255
)

// EventRecord holds an Event frame's decoded payload; only the field
// relevant to Type is populated.
type EventRecord struct {
	Type         EventType
	Time         uint64 // SyncBeep
	DisarmReason uint32 // Disarm
}

// Value is a decoded field value tagged with whether it should be
// interpreted as signed two's complement or as a raw unsigned magnitude —
// mirroring the field definition's own Signed flag.
type Value struct {
	Signed bool
	raw    uint32
}

// Int32 reinterprets the value's bit pattern as a signed int32.
func (v Value) Int32() int32 { return int32(v.raw) }

// Uint32 returns the value's raw bit pattern.
func (v Value) Uint32() uint32 { return v.raw }

// Frame is a decoded Main/Slow/Gps/GpsHome frame: a shared pointer to its
// (immutable, built-once) field definitions plus the values decoded for
// this particular occurrence. The values slice aliases the owning
// DataParser's history ring and is only guaranteed valid until the
// parser's next call that decodes a frame of the same kind (after a
// resync rollback, that decode writes into this very slot).
type Frame struct {
	def *framedef.Definition
	raw []uint32
}

// Len returns the number of fields in the frame.
func (f Frame) Len() int { return len(f.raw) }

// Name returns field i's presentation name.
func (f Frame) Name(i int) string { return f.def.Fields[i].Name }

// GetRaw returns field i's raw decoded bit pattern.
func (f Frame) GetRaw(i int) (uint32, bool) {
	if i < 0 || i >= len(f.raw) {
		return 0, false
	}

	return f.raw[i], true
}

// Get returns field i's value, tagged with its signedness.
func (f Frame) Get(i int) (Value, bool) {
	if i < 0 || i >= len(f.raw) {
		return Value{}, false
	}

	return Value{Signed: f.def.Fields[i].Signed, raw: f.raw[i]}, true
}

// All iterates every field index and value in wire order.
func (f Frame) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i := range f.raw {
			if !yield(i, Value{Signed: f.def.Fields[i].Signed, raw: f.raw[i]}) {
				return
			}
		}
	}
}

// ParseEvent is the tagged union the frame parser's event stream yields:
// exactly one of Event/Frame is meaningful, selected by Kind (and, for
// KindMain, further refined by MainKind).
type ParseEvent struct {
	Kind     Kind
	MainKind MainFrameKind
	Event    EventRecord
	Frame    Frame

	// SlowIndex is the index (0-based, synthetic baseline counted as 0)
	// of the most-recent Slow frame this Main/Gps event correlates with.
	// Only meaningful when Kind is KindMain or KindGps.
	SlowIndex int
}

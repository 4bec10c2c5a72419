// Package parser implements the frame-kind dispatch loop that walks a
// blackbox log's binary payload: it reads a one-byte frame-kind tag,
// decodes that frame's fields (honoring chunked tagged-encoding groups),
// applies the predictor engine to turn residuals into absolute values,
// and rotates each kind's 3-slot history ring. Corrupt or unrecognized
// bytes trigger a resync: the reader skips forward to the next byte that
// names a known frame kind and decoding resumes from there.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nicholassherlock/blackbox-log/encoding"
	"github.com/nicholassherlock/blackbox-log/errs"
	"github.com/nicholassherlock/blackbox-log/framedef"
	"github.com/nicholassherlock/blackbox-log/headers"
	"github.com/nicholassherlock/blackbox-log/history"
	"github.com/nicholassherlock/blackbox-log/predictor"
	"github.com/nicholassherlock/blackbox-log/reader"
)

var knownKindBytes = []byte("EIPSGH")

var endOfLogMessage = []byte("End of log\x00")

const (
	eventTypeSyncBeep = 0
	eventTypeDisarm   = 15
	eventTypeEnd      = 255
)

// Stats counts how many of each event kind a DataParser has emitted so
// far, matching the {event, main, slow, gps, gps_home} counters named in
// the public API.
type Stats struct {
	Event   int
	Main    int
	Slow    int
	Gps     int
	GpsHome int
}

// DataParser walks one log's binary payload and yields a fused stream of
// ParseEvents. It owns the four per-kind history rings and the header-
// derived predictor context; it does not own the Headers or input bytes,
// both of which must outlive it.
type DataParser struct {
	r   *reader.Reader
	h   *headers.Headers
	ctx predictor.Context
	log *slog.Logger

	main    *history.Ring
	slow    *history.Ring
	gps     *history.Ring
	gpsHome *history.Ring

	slowCount int // number of Slow frames seen, including the synthetic baseline

	homeLat, homeLon uint32
	haveHome         bool

	pendingSkipped uint32 // Inter/Intra frames dropped to resync since the last accepted Main frame

	lastKind     Kind // kind of the most recently accepted frame, for corruption rollback
	haveLastKind bool

	stats Stats
	done  bool
}

// NewDataParser creates a DataParser over r using the frame definitions
// and predictor constants in h. log receives debug/warn diagnostics for
// corrupt or unrecognized frames and unexpected end of input; a nil log falls back to
// slog.Default().
func NewDataParser(r *reader.Reader, h *headers.Headers, log *slog.Logger) *DataParser {
	if log == nil {
		log = slog.Default()
	}

	p := &DataParser{
		r:   r,
		h:   h,
		ctx: h.PredictorContext(),
		log: log,

		main: history.NewRing(h.Intra.Len()),
		slow: history.NewRing(h.Slow.Len()),
	}

	if h.Gps != nil {
		p.gps = history.NewRing(h.Gps.Len())
	}

	if h.GpsHome != nil {
		p.gpsHome = history.NewRing(h.GpsHome.Len())
	}

	// Inject a synthetic all-zero Slow baseline so any Main/Gps frame
	// arriving before a real Slow frame still has a correlated index.
	// Counted in Stats().Slow: this port's resolution of spec's "document
	// and test whichever" choice for the synthetic-baseline count.
	p.slow.Finish()
	p.slowCount = 1
	p.stats.Slow = 1

	return p
}

// Stats returns the running event counts.
func (p *DataParser) Stats() Stats {
	return p.stats
}

// HomeCoordinates returns the most recently captured GpsHome lat/lon, if
// any GpsHome frame has been decoded yet.
func (p *DataParser) HomeCoordinates() (lat, lon uint32, ok bool) {
	return p.homeLat, p.homeLon, p.haveHome
}

// Next advances the parser by one frame, returning the decoded event and
// true, or a zero ParseEvent and false once the stream is exhausted. Once
// false is returned, every subsequent call also returns false (fused).
func (p *DataParser) Next() (ParseEvent, bool) {
	if p.done {
		return ParseEvent{}, false
	}

	for {
		b, ok := p.r.ReadU8()
		if !ok {
			p.done = true
			return ParseEvent{}, false
		}

		switch b {
		case 'E':
			rec, err := p.decodeEvent()
			if err != nil {
				if eof(err) {
					p.log.Warn("unexpected eof in event frame")
					p.done = true
					return ParseEvent{}, false
				}

				p.log.Debug("corrupt event frame", "err", err)
				p.resync()

				continue
			}

			p.stats.Event++
			p.lastKind = KindEvent
			p.haveLastKind = true

			if rec.Type == EventEnd {
				p.done = true
			}

			return ParseEvent{Kind: KindEvent, Event: rec}, true

		case 'I', 'P':
			isInter := b == 'P'

			frame, err := p.decodeMain(isInter)
			if err != nil {
				if eof(err) {
					p.log.Warn("unexpected eof in main frame")
					p.done = true
					return ParseEvent{}, false
				}

				p.log.Debug("corrupt main frame", "inter", isInter, "err", err)
				p.pendingSkipped++
				p.resync()

				continue
			}

			p.stats.Main++
			p.lastKind = KindMain
			p.haveLastKind = true

			mainKind := MainIntra
			if isInter {
				mainKind = MainInter
			}

			return ParseEvent{Kind: KindMain, MainKind: mainKind, Frame: frame, SlowIndex: p.slowCount - 1}, true

		case 'S':
			frame, err := p.decodeSlow()
			if err != nil {
				if eof(err) {
					p.log.Warn("unexpected eof in slow frame")
					p.done = true
					return ParseEvent{}, false
				}

				p.log.Debug("corrupt slow frame", "err", err)
				p.resync()

				continue
			}

			p.stats.Slow++
			p.slowCount++
			p.lastKind = KindSlow
			p.haveLastKind = true

			return ParseEvent{Kind: KindSlow, Frame: frame}, true

		case 'G':
			if p.h.Gps == nil {
				p.log.Debug("gps frame encountered without a gps frame definition")
				p.done = true

				return ParseEvent{}, false
			}

			frame, err := p.decodeInto(p.h.Gps, p.gps)
			if err != nil {
				if eof(err) {
					p.log.Warn("unexpected eof in gps frame")
					p.done = true
					return ParseEvent{}, false
				}

				p.log.Debug("corrupt gps frame", "err", err)
				p.resync()

				continue
			}

			p.stats.Gps++
			p.lastKind = KindGps
			p.haveLastKind = true

			return ParseEvent{Kind: KindGps, Frame: frame, SlowIndex: p.slowCount - 1}, true

		case 'H':
			if p.h.GpsHome == nil {
				p.log.Debug("gps-home frame encountered without a gps-home frame definition")
				p.done = true

				return ParseEvent{}, false
			}

			frame, err := p.decodeInto(p.h.GpsHome, p.gpsHome)
			if err != nil {
				if eof(err) {
					p.log.Warn("unexpected eof in gps-home frame")
					p.done = true
					return ParseEvent{}, false
				}

				p.log.Debug("corrupt gps-home frame", "err", err)
				p.resync()

				continue
			}

			p.captureHome(frame)
			p.stats.GpsHome++
			p.lastKind = KindGpsHome
			p.haveLastKind = true

			return ParseEvent{Kind: KindGpsHome, Frame: frame}, true

		default:
			p.log.Debug("unrecognized frame-kind byte", "byte", b)
			p.resync()
		}
	}
}

func eof(err error) bool {
	return errors.Is(err, errs.ErrUnexpectedEOF)
}

// resync rolls back the most recently accepted frame's history-ring
// contribution, then advances the reader to the next byte naming a known
// frame kind so the next Next() iteration's ReadU8 lands on real data
// again.
//
// The frame that just failed to decode (unrecognized kind byte, or a
// Corrupted error mid-frame) never wrote anything outside its ring's
// still-uncommitted current slot, which the next successful decode of
// that kind simply overwrites — nothing to undo there. But corruption
// surfacing right after a frame that *did* decode successfully often
// means that prior frame was itself mis-decoded (wrong residual byte
// count, a dropped bit), so its committed values must not poison the
// Previous/StraightLine/Average2 predictors for whatever frame resync
// eventually lands on. This does not and cannot un-emit a ParseEvent
// already returned by a prior Next() call — only in-memory ring state is
// corrected.
func (p *DataParser) resync() {
	p.rollbackLastFrame()
	p.r.SkipUntilAny(knownKindBytes)
}

// rollbackLastFrame pops the history ring slot written by the most
// recently accepted frame, matching Intra/Inter to the Main ring, Slow to
// the Slow ring, and so on. Event frames have no ring and are left alone.
// A no-op if no frame has been accepted yet, or if already called once
// since the last acceptance.
func (p *DataParser) rollbackLastFrame() {
	if !p.haveLastKind {
		return
	}

	switch p.lastKind {
	case KindMain:
		p.main.Unfinish()
	case KindSlow:
		p.slow.Unfinish()
		p.slowCount--
	case KindGps:
		p.gps.Unfinish()
	case KindGpsHome:
		p.gpsHome.Unfinish()
	case KindEvent:
		// no ring to pop
	}

	p.haveLastKind = false
}

// decodeMain decodes one Intra or Inter Main frame, consuming
// p.pendingSkipped for the Increment predictor and resetting it on
// success.
func (p *DataParser) decodeMain(isInter bool) (Frame, error) {
	def := p.h.Intra
	if isInter {
		def = p.h.Inter
	}

	frame, err := p.decodeFields(def, p.ctx, p.main, p.pendingSkipped)
	if err != nil {
		return Frame{}, err
	}

	p.pendingSkipped = 0

	return frame, nil
}

func (p *DataParser) decodeSlow() (Frame, error) {
	return p.decodeFields(p.h.Slow, p.ctx, p.slow, 0)
}

func (p *DataParser) decodeInto(def *framedef.Definition, ring *history.Ring) (Frame, error) {
	return p.decodeFields(def, p.ctx, ring, 0)
}

// decodeFields reads one frame's worth of residuals (honoring chunked
// tagged-encoding groups), applies each field's predictor left to right,
// and commits the result into ring.
func (p *DataParser) decodeFields(def *framedef.Definition, ctx predictor.Context, ring *history.Ring, skipped uint32) (Frame, error) {
	n := def.Len()
	values := ring.Current()

	for i := 0; i < n; {
		enc := def.Fields[i].Encoding
		max := enc.MaxChunkSize()

		groupLen := 1
		for groupLen < max && i+groupLen < n && def.Fields[i+groupLen].Encoding == enc {
			groupLen++
		}

		chunk, err := encoding.DecodeChunk(p.r, enc)
		if err != nil {
			return Frame{}, err
		}

		for j := 0; j < groupLen; j++ {
			idx := i + j

			var residual int32
			if j < len(chunk) {
				residual = chunk[j]
			}

			field := def.Fields[idx]
			last, lastLast, hasLast, hasLastLast := ring.Field(idx)
			pred := field.Predictor

			if def.Kind == framedef.Intra {
				// An Intra frame is a keyframe: no field consults earlier
				// frames, and loopIteration is carried as an absolute value.
				last, lastLast, hasLast, hasLastLast = 0, 0, false, false
				if pred == predictor.Increment {
					pred = predictor.Zero
				}
			}

			var sf uint32
			if pred == predictor.Increment {
				sf = skipped
			}

			v, err := predictor.Apply(pred, ctx, uint32(residual), field.Signed, values, last, hasLast, lastLast, hasLastLast, sf)
			if err != nil {
				return Frame{}, fmt.Errorf("field %q: %w", field.Name, err)
			}

			values[idx] = v
		}

		i += groupLen
	}

	ring.Finish()

	return Frame{def: def, raw: ring.FinishedSlot()}, nil
}

func (p *DataParser) decodeEvent() (EventRecord, error) {
	typeByte, ok := p.r.ReadU8()
	if !ok {
		return EventRecord{}, errs.ErrUnexpectedEOF
	}

	switch typeByte {
	case eventTypeSyncBeep:
		v, err := encoding.ReadVariable(p.r)
		if err != nil {
			return EventRecord{}, err
		}

		return EventRecord{Type: EventSyncBeep, Time: uint64(v)}, nil

	case eventTypeDisarm:
		v, err := encoding.ReadVariable(p.r)
		if err != nil {
			return EventRecord{}, err
		}

		return EventRecord{Type: EventDisarm, DisarmReason: v}, nil

	case eventTypeEnd:
		got := make([]byte, len(endOfLogMessage))
		for i := range got {
			b, ok := p.r.ReadU8()
			if !ok {
				return EventRecord{}, errs.ErrUnexpectedEOF
			}

			got[i] = b
		}

		if !bytes.Equal(got, endOfLogMessage) {
			return EventRecord{}, fmt.Errorf("%w: malformed end-of-log sentinel", errs.ErrCorrupted)
		}

		return EventRecord{Type: EventEnd}, nil

	default:
		return EventRecord{}, fmt.Errorf("%w: unsupported event type %d", errs.ErrCorrupted, typeByte)
	}
}

// captureHome records GPS origin coordinates from a decoded GpsHome
// frame, by the conventional GPS_home[0]/GPS_home[1] field names, for
// later absolute-position reconstruction by callers. The HomeLat
// predictor itself remains unimplemented (see package predictor); this
// only preserves the raw values a future implementation would need.
func (p *DataParser) captureHome(frame Frame) {
	latIdx := frame.def.IndexOf("GPS_home[0]")
	lonIdx := frame.def.IndexOf("GPS_home[1]")

	if latIdx < 0 || lonIdx < 0 {
		return
	}

	lat, ok1 := frame.GetRaw(latIdx)
	lon, ok2 := frame.GetRaw(lonIdx)

	if ok1 && ok2 {
		p.homeLat, p.homeLon = lat, lon
		p.haveHome = true
	}
}

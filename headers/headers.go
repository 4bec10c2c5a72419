// Package headers parses the textual `H name:value` header block at the
// start of a blackbox log into an immutable Headers record: firmware
// identification, the predictor-constant surface (minthrottle, vbatref,
// gyro/acc scale, current-meter calibration, log interval), and the
// per-kind frame definitions built by package framedef.
package headers

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nicholassherlock/blackbox-log/errs"
	"github.com/nicholassherlock/blackbox-log/framedef"
	"github.com/nicholassherlock/blackbox-log/internal/hash"
	"github.com/nicholassherlock/blackbox-log/reader"
)

// FirmwareKind identifies which flight-controller firmware family wrote
// the log, recorded verbatim from the `Firmware type` header.
type FirmwareKind uint8

const (
	UnknownFirmwareKind FirmwareKind = iota
	Betaflight
	INav
	EmuFlight
)

func (k FirmwareKind) String() string {
	switch k {
	case Betaflight:
		return "Betaflight"
	case INav:
		return "INav"
	case EmuFlight:
		return "EmuFlight"
	default:
		return "Unknown"
	}
}

func parseFirmwareKind(s string) (FirmwareKind, bool) {
	switch strings.TrimSpace(s) {
	case "Betaflight":
		return Betaflight, true
	case "INav", "iNav", "INAV":
		return INav, true
	case "EmuFlight":
		return EmuFlight, true
	default:
		return UnknownFirmwareKind, false
	}
}

// CurrentMeter holds the offset/scale pair used to convert raw ADC
// current-sensor residuals into milliamps.
type CurrentMeter struct {
	Offset int32
	Scale  int32
}

// Headers is the immutable, once-per-log record produced by Parse: free-
// form firmware/craft identification strings, the header-derived
// predictor constants, and the built frame definitions for whichever
// kinds this log carries.
type Headers struct {
	FirmwareKind     FirmwareKind
	FirmwareRevision string
	FirmwareDate     string
	BoardInfo        string
	CraftName        string
	DataVersion      int

	MinThrottle     uint32
	MotorOutputMin  uint32
	MotorOutputMax  uint32
	VBatRef         uint32
	GyroScale       float64
	Acc1G           uint32
	CurrentMeter    CurrentMeter
	VBatScale       uint32
	LogInterval     uint32

	Intra   *framedef.Definition
	Inter   *framedef.Definition
	Slow    *framedef.Definition
	Gps     *framedef.Definition
	GpsHome *framedef.Definition

	motorZeroIndex int // index of motor[0] in Intra/Inter's field list, -1 if absent
}

// Fingerprint returns an xxhash64 over the firmware/craft identification
// fields, letting a caller processing many logs cheaply group or cache
// the ones that came off the same aircraft and firmware build.
func (h *Headers) Fingerprint() uint64 {
	return hash.ID(h.FirmwareKind.String() + "\x00" + h.FirmwareRevision + "\x00" + h.BoardInfo + "\x00" + h.CraftName)
}

// PredictorContext returns the predictor.Context view of h: the header-
// derived constants the MinThrottle/VBatReference/MinMotor predictors
// read, plus the motor[0] lookup the Motor0 predictor needs. Kept as a
// distinct type rather than implementing the interface on Headers itself
// since Headers' own MinThrottle field would otherwise collide with the
// interface's MinThrottle method name.
func (h *Headers) PredictorContext() predictorContext {
	return predictorContext{h}
}

type predictorContext struct{ h *Headers }

func (c predictorContext) MinThrottle() uint32    { return c.h.MinThrottle }
func (c predictorContext) VBatReference() uint32  { return c.h.VBatRef }
func (c predictorContext) MinMotorOutput() uint32 { return c.h.MotorOutputMin }

// Motor0 implements predictor.Context: it looks up motor[0]'s already-
// decoded value from the slice of the current Main frame's values
// assembled so far.
func (c predictorContext) Motor0(current []uint32) (uint32, error) {
	h := c.h

	if h.motorZeroIndex < 0 {
		return 0, fmt.Errorf("%w: no motor[0] field in frame definition", errs.ErrCorrupted)
	}

	if h.motorZeroIndex >= len(current) {
		return 0, fmt.Errorf("%w: motor[0] not yet decoded in current frame", errs.ErrCorrupted)
	}

	return current[h.motorZeroIndex], nil
}

// WithFieldFilter returns the set of field indices (into a Main frame's
// value slice) whose base name, with any trailing `[n]` index suffix
// stripped, appears in names. Decoding always reads every field —
// predictors may depend on fields the caller did not ask for. The returned
// set is not applied by Frame.Len/Get/All, which always cover every field;
// a caller skips the other indices itself.
func (h *Headers) WithFieldFilter(def *framedef.Definition, names []string) map[int]struct{} {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}

	out := make(map[int]struct{})

	for i, f := range def.Fields {
		base := f.Name
		if idx := strings.IndexByte(base, '['); idx >= 0 {
			base = base[:idx]
		}

		if _, ok := want[base]; ok {
			out[i] = struct{}{}
		}
	}

	return out
}

// state accumulates header values while the header block is being read.
type state struct {
	h        Headers
	builders map[framedef.Kind]*framedef.Builder
	log      *slog.Logger
}

func newState(log *slog.Logger) *state {
	s := &state{
		h:   Headers{DataVersion: -1, motorZeroIndex: -1},
		log: log,
		builders: map[framedef.Kind]*framedef.Builder{
			framedef.Intra:   framedef.NewBuilder(framedef.Intra),
			framedef.Inter:   framedef.NewBuilder(framedef.Inter),
			framedef.Slow:    framedef.NewBuilder(framedef.Slow),
			framedef.Gps:     framedef.NewBuilder(framedef.Gps),
			framedef.GpsHome: framedef.NewBuilder(framedef.GpsHome),
		},
	}

	return s
}

// Parse consumes the `H `-prefixed header block from r, stopping at the
// first non-`H` byte (leaving r positioned at the start of the binary
// payload), and builds an immutable Headers.
func Parse(r *reader.Reader, log *slog.Logger) (*Headers, error) {
	if log == nil {
		log = slog.Default()
	}

	s := newState(log)

	lineNo := 0

	for {
		b, ok := r.Peek()
		if !ok || b != 'H' {
			break
		}

		line, ok := r.ReadLine()
		if !ok {
			break
		}

		if !utf8.Valid(line) {
			return nil, fmt.Errorf("%w: header line is not valid UTF-8", errs.ErrCorrupted)
		}

		name, value, ok := splitHeaderLine(line)
		if !ok {
			lineNo++
			continue
		}

		if err := checkPositional(lineNo, name, value); err != nil {
			return nil, err
		}

		if err := s.apply(name, value); err != nil {
			return nil, err
		}

		lineNo++
	}

	return s.finish()
}

// splitHeaderLine strips the literal leading "H" (and one following
// space, if present) and splits the remainder once on ':'.
func splitHeaderLine(line []byte) (name, value string, ok bool) {
	rest := line[1:] // drop 'H'
	if len(rest) > 0 && rest[0] == ' ' {
		rest = rest[1:]
	}

	idx := bytes.IndexByte(rest, ':')
	if idx < 0 {
		return "", "", false
	}

	return string(rest[:idx]), string(rest[idx+1:]), true
}

// checkPositional enforces the two positionally-required headers: the
// very first line must be Product, the second must be Data version:2.
func checkPositional(lineNo int, name, value string) error {
	switch lineNo {
	case 0:
		if name != "Product" {
			return fmt.Errorf("%w: first header must be Product", errs.ErrInvalidHeader)
		}
	case 1:
		if name != "Data version" {
			return fmt.Errorf("%w: second header must be Data version", errs.ErrInvalidHeader)
		}

		if strings.TrimSpace(value) != "2" {
			return fmt.Errorf("%w: data version %q", errs.ErrUnsupportedVersion, value)
		}
	}

	return nil
}

func (s *state) apply(name, value string) error {
	switch name {
	case "Product":
		// consumed positionally; nothing further to record.
	case "Data version":
		s.h.DataVersion = 2
	case "Firmware type", "Firmware kind":
		kind, ok := parseFirmwareKind(value)
		if !ok {
			return fmt.Errorf("%w: %q", errs.ErrUnknownFirmware, value)
		}

		s.h.FirmwareKind = kind
	case "Firmware revision":
		s.h.FirmwareRevision = value
	case "Firmware date":
		s.h.FirmwareDate = value
	case "Board information":
		s.h.BoardInfo = value
	case "Craft name":
		s.h.CraftName = value
	case "minthrottle":
		v, err := parseUint(name, value)
		if err != nil {
			return err
		}

		s.h.MinThrottle = v
	case "motorOutput":
		lo, hi, err := parseUintPair(name, value)
		if err != nil {
			return err
		}

		s.h.MotorOutputMin, s.h.MotorOutputMax = lo, hi
	case "vbatref":
		v, err := parseUint(name, value)
		if err != nil {
			return err
		}

		s.h.VBatRef = v
	case "gyro.scale", "gyroScale":
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", errs.ErrInvalidHeader, name, value)
		}

		s.h.GyroScale = v
	case "acc_1G":
		v, err := parseUint(name, value)
		if err != nil {
			return err
		}

		s.h.Acc1G = v
	case "currentMeter":
		off, scale, err := parseIntPair(name, value)
		if err != nil {
			return err
		}

		s.h.CurrentMeter = CurrentMeter{Offset: off, Scale: scale}
	case "vbatscale":
		v, err := parseUint(name, value)
		if err != nil {
			return err
		}

		s.h.VBatScale = v
	case "looptime":
		v, err := parseUint(name, value)
		if err != nil {
			return err
		}

		s.h.LogInterval = v
	default:
		if kind, prop, ok := parseFrameDefHeader(name); ok {
			return s.applyFrameDef(kind, prop, value)
		}

		s.log.Debug("unrecognized blackbox header", "name", name, "value", value)
	}

	return nil
}

// parseFrameDefHeader recognizes "Field <K> <prop>" header names.
func parseFrameDefHeader(name string) (framedef.Kind, string, bool) {
	if !strings.HasPrefix(name, "Field ") {
		return 0, "", false
	}

	rest := strings.TrimPrefix(name, "Field ")

	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return 0, "", false
	}

	letter := rest[:sp]
	prop := rest[sp+1:]

	if len(letter) != 1 {
		return 0, "", false
	}

	kind, ok := framedef.ParseKind(letter[0])
	if !ok {
		return 0, "", false
	}

	return kind, prop, true
}

func (s *state) applyFrameDef(kind framedef.Kind, prop, value string) error {
	b := s.builders[kind]

	switch prop {
	case "name":
		b.SetNames(value)
	case "signed":
		b.SetSigned(value)
	case "predictor":
		if err := b.SetPredictors(value); err != nil {
			return err
		}
	case "encoding":
		if err := b.SetEncodings(value); err != nil {
			return err
		}
	default:
		s.log.Debug("unrecognized frame-definition property", "kind", kind, "prop", prop)
	}

	return nil
}

// finish validates that the required frame kinds were seen and builds
// every Definition, then freezes the Headers record.
func (s *state) finish() (*Headers, error) {
	if s.h.DataVersion != 2 {
		return nil, fmt.Errorf("%w: missing Data version header", errs.ErrMissingHeader)
	}

	intra, err := s.builders[framedef.Intra].Build(nil)
	if err != nil {
		return nil, err
	}

	slow, err := s.builders[framedef.Slow].Build(nil)
	if err != nil {
		return nil, err
	}

	inter, err := s.builders[framedef.Inter].Build(intra)
	if err != nil {
		return nil, err
	}

	s.h.Intra = intra
	s.h.Inter = inter
	s.h.Slow = slow
	s.h.motorZeroIndex = intra.IndexOf("motor[0]")

	gpsSeen := s.builders[framedef.Gps].Seen()
	homeSeen := s.builders[framedef.GpsHome].Seen()

	if gpsSeen != homeSeen {
		return nil, fmt.Errorf("%w: Gps and GpsHome frame definitions must co-occur", errs.ErrMissingHeader)
	}

	if gpsSeen {
		gps, err := s.builders[framedef.Gps].Build(nil)
		if err != nil {
			return nil, err
		}

		home, err := s.builders[framedef.GpsHome].Build(nil)
		if err != nil {
			return nil, err
		}

		s.h.Gps = gps
		s.h.GpsHome = home
	}

	hdrs := s.h

	return &hdrs, nil
}

func parseUint(name, value string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errs.ErrInvalidHeader, name, value)
	}

	return uint32(v), nil
}

func parseUintPair(name, value string) (uint32, uint32, error) {
	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %s=%q", errs.ErrInvalidHeader, name, value)
	}

	lo, err := parseUint(name, parts[0])
	if err != nil {
		return 0, 0, err
	}

	hi, err := parseUint(name, parts[1])
	if err != nil {
		return 0, 0, err
	}

	return lo, hi, nil
}

func parseIntPair(name, value string) (int32, int32, error) {
	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %s=%q", errs.ErrInvalidHeader, name, value)
	}

	off, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s=%q", errs.ErrInvalidHeader, name, value)
	}

	scale, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s=%q", errs.ErrInvalidHeader, name, value)
	}

	return int32(off), int32(scale), nil
}

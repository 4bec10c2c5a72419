// Package framedef builds per-kind frame definitions from the parallel
// comma-separated lists carried by `Field <K> <property>` headers: a
// kind accumulates a name, signed, predictor, and encoding list one
// header line at a time, then validates and freezes them into a
// Definition once the header block ends.
package framedef

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nicholassherlock/blackbox-log/encoding"
	"github.com/nicholassherlock/blackbox-log/errs"
	"github.com/nicholassherlock/blackbox-log/predictor"
)

// Kind identifies which of the five frame layouts a definition describes.
type Kind byte

const (
	Intra   Kind = 'I'
	Inter   Kind = 'P'
	Slow    Kind = 'S'
	Gps     Kind = 'G'
	GpsHome Kind = 'H'
)

func (k Kind) String() string {
	return string(rune(k))
}

// ParseKind maps a frame-definition header's `<K>` letter to a Kind.
func ParseKind(b byte) (Kind, bool) {
	switch Kind(b) {
	case Intra, Inter, Slow, Gps, GpsHome:
		return Kind(b), true
	default:
		return 0, false
	}
}

// FieldDef describes one field of a frame: its presentation name, whether
// its decoded residual is reinterpreted as signed, the prediction rule
// used to turn that residual into an absolute value, and the bitstream
// encoding used to read the residual itself.
type FieldDef struct {
	Name      string
	Signed    bool
	Predictor predictor.Predictor
	Encoding  encoding.Kind
}

// Definition is an immutable, built frame layout: one FieldDef per field,
// in wire order.
type Definition struct {
	Kind   Kind
	Fields []FieldDef
}

// Len returns the number of fields in the definition.
func (d *Definition) Len() int {
	if d == nil {
		return 0
	}

	return len(d.Fields)
}

// IndexOf returns the position of the field named name, or -1.
func (d *Definition) IndexOf(name string) int {
	if d == nil {
		return -1
	}

	for i, f := range d.Fields {
		if f.Name == name {
			return i
		}
	}

	return -1
}

// Builder accumulates the four parallel lists for one frame kind as its
// header lines are seen, in whatever order the log presents them.
type Builder struct {
	kind       Kind
	names      []string
	haveNames  bool
	signed     []bool
	haveSigned bool
	preds      []predictor.Predictor
	havePreds  bool
	encs       []encoding.Kind
	haveEncs   bool
}

// NewBuilder returns an empty builder for the given frame kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{kind: kind}
}

// SetNames parses a `Field <K> name` header's comma-separated value.
func (b *Builder) SetNames(csv string) {
	b.names = splitTrim(csv)
	b.haveNames = true
}

// SetSigned parses a `Field <K> signed` header's comma-separated value.
// Per spec, each element is "0" for unsigned or anything else for signed.
func (b *Builder) SetSigned(csv string) {
	parts := splitTrim(csv)
	b.signed = make([]bool, len(parts))

	for i, p := range parts {
		b.signed[i] = p != "0"
	}

	b.haveSigned = true
}

// SetPredictors parses a `Field <K> predictor` header's comma-separated
// list of decimal predictor indices.
func (b *Builder) SetPredictors(csv string) error {
	parts := splitTrim(csv)
	b.preds = make([]predictor.Predictor, len(parts))

	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return fmt.Errorf("%w: predictor %q for frame %s", errs.ErrInvalidHeader, p, b.kind)
		}

		pred, ok := predictor.FromByte(uint8(n))
		if !ok {
			return fmt.Errorf("%w: predictor index %d for frame %s", errs.ErrInvalidHeader, n, b.kind)
		}

		b.preds[i] = pred
	}

	b.havePreds = true

	return nil
}

// SetEncodings parses a `Field <K> encoding` header's comma-separated list
// of decimal encoding indices.
func (b *Builder) SetEncodings(csv string) error {
	parts := splitTrim(csv)
	b.encs = make([]encoding.Kind, len(parts))

	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return fmt.Errorf("%w: encoding %q for frame %s", errs.ErrInvalidHeader, p, b.kind)
		}

		enc, ok := encoding.KindFromByte(uint8(n))
		if !ok {
			return fmt.Errorf("%w: encoding index %d for frame %s", errs.ErrInvalidHeader, n, b.kind)
		}

		b.encs[i] = enc
	}

	b.haveEncs = true

	return nil
}

// Seen reports whether this builder has accumulated any headers at all —
// used to tell "frame kind absent from this log" apart from "frame kind
// present but incomplete".
func (b *Builder) Seen() bool {
	return b.haveNames || b.haveSigned || b.havePreds || b.haveEncs
}

// Build validates the accumulated lists and freezes them into a
// Definition. intra is the already-built Intra definition, required when
// building the Inter (P) frame so name/signed can be inherited; it is nil
// for every other kind.
func (b *Builder) Build(intra *Definition) (*Definition, error) {
	if b.kind == Inter && intra != nil {
		if !b.haveNames {
			b.names = namesOf(intra)
			b.haveNames = true
		}

		if !b.haveSigned {
			b.signed = signsOf(intra)
			b.haveSigned = true
		}
	}

	if !b.haveNames || !b.haveSigned || !b.havePreds || !b.haveEncs {
		return nil, fmt.Errorf("%w: frame %s is missing a name/signed/predictor/encoding list", errs.ErrMissingHeader, b.kind)
	}

	n := len(b.names)
	if len(b.signed) != n || len(b.preds) != n || len(b.encs) != n {
		return nil, fmt.Errorf("%w: frame %s field lists have mismatched lengths", errs.ErrInvalidHeader, b.kind)
	}

	if b.kind == Inter && intra != nil {
		if !sameStrings(b.names, namesOf(intra)) || !sameBools(b.signed, signsOf(intra)) {
			return nil, fmt.Errorf("%w: frame P name/signed lists disagree with frame I", errs.ErrInvalidHeader)
		}
	}

	fields := make([]FieldDef, n)
	for i := range fields {
		fields[i] = FieldDef{
			Name:      b.names[i],
			Signed:    b.signed[i],
			Predictor: b.preds[i],
			Encoding:  b.encs[i],
		}
	}

	def := &Definition{Kind: b.kind, Fields: fields}

	if b.kind == Intra {
		if err := validateIntraHead(def); err != nil {
			return nil, err
		}
	}

	return def, nil
}

// validateIntraHead enforces that the first two Intra fields are the
// fixed loopIteration/time pair with their required predictor, encoding,
// and signedness.
func validateIntraHead(def *Definition) error {
	if len(def.Fields) < 2 {
		return fmt.Errorf("%w: frame I must define at least loopIteration and time", errs.ErrCorrupted)
	}

	it := def.Fields[0]
	if it.Name != "loopIteration" || it.Predictor != predictor.Increment || it.Encoding != encoding.Variable || it.Signed {
		return fmt.Errorf("%w: frame I field 0 must be loopIteration/Increment/Variable/unsigned", errs.ErrCorrupted)
	}

	tm := def.Fields[1]
	if tm.Name != "time" || tm.Predictor != predictor.StraightLine || tm.Encoding != encoding.VariableSigned || !tm.Signed {
		return fmt.Errorf("%w: frame I field 1 must be time/StraightLine/VariableSigned/signed", errs.ErrCorrupted)
	}

	return nil
}

func namesOf(d *Definition) []string {
	out := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		out[i] = f.Name
	}

	return out
}

func signsOf(d *Definition) []bool {
	out := make([]bool, len(d.Fields))
	for i, f := range d.Fields {
		out[i] = f.Signed
	}

	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func sameBools(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func splitTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, len(parts))

	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}

	return out
}

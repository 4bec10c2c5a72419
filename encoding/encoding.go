// Package encoding implements the bitstream decoders for the numeric
// encodings used in a blackbox payload: variable-byte signed/unsigned,
// negative-14-bit, Elias-delta signed/unsigned, tagged-16, tagged-32,
// tagged-variable, and null. Each decoder is a pure function of a
// *reader.Reader, returning either a value (or fixed-size array of values)
// or an error from package errs.
//
// The two Elias-gamma variants are declared for completeness (the frame
// header grammar can name them) but are not implemented by any known
// firmware payload; decoding one always fails with errs.ErrCorrupted.
package encoding

import "fmt"

// Kind identifies one of the eight implemented numeric encodings (plus the
// two reserved, unimplemented Elias-gamma variants). The integer values
// match the decimal indices used in `Field <kind> encoding` headers.
type Kind uint8

const (
	VariableSigned   Kind = 0 // zig-zag + variable-byte unsigned
	Variable         Kind = 1 // variable-byte unsigned
	Negative14Bit    Kind = 3
	EliasDelta       Kind = 4 // unsigned
	EliasDeltaSigned Kind = 5
	TaggedVariable   Kind = 6
	Tagged32         Kind = 7
	Tagged16         Kind = 8
	Null             Kind = 9
	EliasGammaUnsigned Kind = 10
	EliasGammaSigned   Kind = 11
)

// String implements fmt.Stringer for debug logging.
func (k Kind) String() string {
	switch k {
	case VariableSigned:
		return "VariableSigned"
	case Variable:
		return "Variable"
	case Negative14Bit:
		return "Negative14Bit"
	case EliasDelta:
		return "EliasDelta"
	case EliasDeltaSigned:
		return "EliasDeltaSigned"
	case TaggedVariable:
		return "TaggedVariable"
	case Tagged32:
		return "Tagged32"
	case Tagged16:
		return "Tagged16"
	case Null:
		return "Null"
	case EliasGammaUnsigned:
		return "EliasGammaUnsigned"
	case EliasGammaSigned:
		return "EliasGammaSigned"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(k))
	}
}

// KindFromByte maps a decimal header value to a Kind. ok is false if the
// value does not name a known encoding.
func KindFromByte(b uint8) (Kind, bool) {
	switch Kind(b) {
	case VariableSigned, Variable, Negative14Bit, EliasDelta, EliasDeltaSigned,
		TaggedVariable, Tagged32, Tagged16, Null, EliasGammaUnsigned, EliasGammaSigned:
		return Kind(b), true
	default:
		return 0, false
	}
}

// MaxChunkSize returns how many consecutive fields of this encoding a
// single decode call can satisfy at once: tagged encodings decode several
// fields from one shared tag byte. Non-tagged encodings always decode
// exactly one field per call.
func (k Kind) MaxChunkSize() int {
	switch k {
	case Tagged16:
		return 4
	case Tagged32:
		return 3
	case TaggedVariable:
		return 8
	default:
		return 1
	}
}

// ZigZagDecode maps an unsigned residual back to a signed value using the
// standard zig-zag scheme: even values are non-negative, odd values are
// negative.
func ZigZagDecode(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// signExtend sign-extends the low `bits` bits of v (bits in [1,32]) to a
// full int32.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

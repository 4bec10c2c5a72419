package encoding

import (
	"github.com/nicholassherlock/blackbox-log/errs"
	"github.com/nicholassherlock/blackbox-log/reader"
)

// DecodeChunk reads one invocation's worth of values for encoding k: a
// single value for the non-tagged encodings, or a full tag group (up to
// k.MaxChunkSize() values) for the tagged encodings. The frame parser calls
// this once per ceil(N/chunk_size) group when N consecutive frame-definition
// fields share encoding k, and keeps only the first count values from the
// final call.
func DecodeChunk(r *reader.Reader, k Kind) ([]int32, error) {
	switch k {
	case VariableSigned:
		v, err := ReadVariableSigned(r)
		if err != nil {
			return nil, err
		}

		return []int32{v}, nil

	case Variable:
		v, err := ReadVariable(r)
		if err != nil {
			return nil, err
		}

		return []int32{int32(v)}, nil

	case Negative14Bit:
		v, err := ReadNegative14Bit(r)
		if err != nil {
			return nil, err
		}

		return []int32{v}, nil

	case EliasDelta:
		v, err := ReadEliasDelta(r)
		if err != nil {
			return nil, err
		}

		return []int32{int32(v)}, nil

	case EliasDeltaSigned:
		v, err := ReadEliasDeltaSigned(r)
		if err != nil {
			return nil, err
		}

		return []int32{v}, nil

	case TaggedVariable:
		v, err := ReadTaggedVariable(r)
		if err != nil {
			return nil, err
		}

		return v[:], nil

	case Tagged32:
		v, err := ReadTagged32(r)
		if err != nil {
			return nil, err
		}

		return v[:], nil

	case Tagged16:
		v, err := ReadTagged16(r)
		if err != nil {
			return nil, err
		}

		out := make([]int32, 4)
		for i, x := range v {
			out[i] = int32(x)
		}

		return out, nil

	case Null:
		v, err := ReadNull(r)
		if err != nil {
			return nil, err
		}

		return []int32{v}, nil

	case EliasGammaUnsigned, EliasGammaSigned:
		return nil, errs.ErrCorrupted

	default:
		return nil, errs.ErrCorrupted
	}
}

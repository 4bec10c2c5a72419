package encoding

import (
	"github.com/nicholassherlock/blackbox-log/errs"
	"github.com/nicholassherlock/blackbox-log/reader"
)

// ReadEliasDelta decodes an Elias-delta coded unsigned integer: a unary
// count of leading zero bits gives the bit-length of a following
// Elias-gamma-coded length field, which in turn gives the bit-length of the
// final value field. A single disambiguation bit resolves the one case
// where this scheme cannot otherwise distinguish u32::MAX-1 from u32::MAX.
func ReadEliasDelta(r *reader.Reader) (uint32, error) {
	var leadingZeros uint8

	for leadingZeros < 6 {
		bit, ok := r.ReadBit()
		if !ok {
			return 0, errs.ErrUnexpectedEOF
		}

		if bit != 0 {
			break
		}

		leadingZeros++
	}

	if leadingZeros > 5 {
		return 0, errs.ErrCorrupted
	}

	readBits := func(count uint8) (uint32, error) {
		result := uint32(1)
		for i := uint8(0); i < count; i++ {
			bit, ok := r.ReadBit()
			if !ok {
				return 0, errs.ErrUnexpectedEOF
			}

			result = (result << 1) + uint32(bit)
		}

		return result - 1, nil
	}

	length, err := readBits(leadingZeros)
	if err != nil {
		return 0, err
	}

	if length > 31 {
		return 0, errs.ErrCorrupted
	}

	result, err := readBits(uint8(length))
	if err != nil {
		return 0, err
	}

	if result == 0xFFFF_FFFE {
		bit, ok := r.ReadBit()
		if !ok {
			return 0, errs.ErrCorrupted
		}

		return result + uint32(bit), nil
	}

	return result, nil
}

// ReadEliasDeltaSigned decodes an Elias-delta coded unsigned value and
// zig-zag decodes it to a signed result.
func ReadEliasDeltaSigned(r *reader.Reader) (int32, error) {
	v, err := ReadEliasDelta(r)
	if err != nil {
		return 0, err
	}

	return ZigZagDecode(v), nil
}

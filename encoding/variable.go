package encoding

import (
	"github.com/nicholassherlock/blackbox-log/errs"
	"github.com/nicholassherlock/blackbox-log/reader"
)

// ReadVariable decodes an unsigned variable-byte ("uvar") value: bytes are
// read until one with its high bit clear is found; the low 7 bits of each
// byte are concatenated in little-endian group order. Fails with
// errs.ErrCorrupted if a 6th byte would be needed (5 groups of 7 bits
// already cover the full 32-bit range).
func ReadVariable(r *reader.Reader) (uint32, error) {
	var result uint32

	for i := 0; ; i++ {
		if i >= 5 {
			return 0, errs.ErrCorrupted
		}

		b, ok := r.ReadU8()
		if !ok {
			return 0, errs.ErrUnexpectedEOF
		}

		result |= uint32(b&0x7F) << (7 * uint(i))

		if b&0x80 == 0 {
			break
		}
	}

	return result, nil
}

// ReadVariableSigned decodes a signed variable-byte ("ivar") value: a
// Variable residual followed by zig-zag decoding.
func ReadVariableSigned(r *reader.Reader) (int32, error) {
	v, err := ReadVariable(r)
	if err != nil {
		return 0, err
	}

	return ZigZagDecode(v), nil
}

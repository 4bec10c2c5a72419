package encoding

import (
	"github.com/nicholassherlock/blackbox-log/endian"
	"github.com/nicholassherlock/blackbox-log/errs"
	"github.com/nicholassherlock/blackbox-log/reader"
)

// ReadTagged32 decodes 3 fields packed against a leading 2-bit mode
// selector:
//
//	mode 0: three 2-bit signed values, all packed into the tag byte.
//	mode 1: three 4-bit signed nibbles (2 tag bits + 2 padding bits first).
//	mode 2: three 6-bit signed values, each preceded by 2 padding bits
//	        except the first, which shares the tag byte.
//	mode 3: three further 2-bit per-field tags select, per field, an 8-bit
//	        signed value, a 16-bit signed value, a 24-bit signed value, or
//	        a 32-bit signed value. The 24- and 32-bit payloads are read in
//	        big-endian order and then byte-swapped, so the value as
//	        assembled is little-endian in the bytes as read.
func ReadTagged32(r *reader.Reader) ([3]int32, error) {
	r.ByteAlign()

	var result [3]int32

	mode, ok := r.ReadBits(2)
	if !ok {
		return result, errs.ErrUnexpectedEOF
	}

	switch mode {
	case 0:
		for i := range result {
			v, ok := r.ReadBits(2)
			if !ok {
				return result, errs.ErrUnexpectedEOF
			}

			result[i] = signExtend(v, 2)
		}
	case 1:
		if _, ok := r.ReadBits(2); !ok { // skip rest of tag byte
			return result, errs.ErrUnexpectedEOF
		}

		for i := range result {
			v, ok := r.ReadBits(4)
			if !ok {
				return result, errs.ErrUnexpectedEOF
			}

			result[i] = signExtend(v, 4)
		}
	case 2:
		v, ok := r.ReadBits(6)
		if !ok {
			return result, errs.ErrUnexpectedEOF
		}

		result[0] = signExtend(v, 6)

		for i := 1; i < 3; i++ {
			if _, ok := r.ReadBits(2); !ok { // skip padding
				return result, errs.ErrUnexpectedEOF
			}

			v, ok := r.ReadBits(6)
			if !ok {
				return result, errs.ErrUnexpectedEOF
			}

			result[i] = signExtend(v, 6)
		}
	case 3:
		var tags [3]uint32
		for i := range tags {
			v, ok := r.ReadBits(2)
			if !ok {
				return result, errs.ErrUnexpectedEOF
			}

			tags[i] = v
		}

		be := endian.GetBigEndianEngine()

		// Fields are decoded in the order result[0], result[1], result[2],
		// but each one's payload is selected by the LAST-read tag first:
		// tags[2] governs result[0]'s payload, tags[1] governs result[1]'s,
		// and tags[0] governs result[2]'s. This inversion is part of the
		// wire format, not an implementation artifact.
		for i := 0; i < 3; i++ {
			switch tags[2-i] {
			case 0:
				v, ok := r.ReadBits(8)
				if !ok {
					return result, errs.ErrUnexpectedEOF
				}

				result[i] = signExtend(v, 8)
			case 1:
				low, ok := r.ReadU8()
				if !ok {
					return result, errs.ErrUnexpectedEOF
				}

				high, ok := r.ReadU8()
				if !ok {
					return result, errs.ErrUnexpectedEOF
				}

				result[i] = int32(int16(be.Uint16([]byte{high, low})))
			case 2:
				var buf [4]byte
				for j := 0; j < 3; j++ {
					b, ok := r.ReadU8()
					if !ok {
						return result, errs.ErrUnexpectedEOF
					}

					buf[j] = b
				}

				// The three bytes are read in big-endian order and
				// byte-swapped, which nets out to a plain little-endian
				// assembly of the bytes as read.
				v := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16
				result[i] = signExtend(v, 24)
			case 3:
				var v int32
				for j := 0; j < 4; j++ {
					b, ok := r.ReadU8()
					if !ok {
						return result, errs.ErrUnexpectedEOF
					}

					v = (v << 8) | int32(b)
				}

				result[i] = swapBytes32(v)
			}
		}
	}

	return result, nil
}

func swapBytes32(v int32) int32 {
	u := uint32(v)
	u = (u << 24) | ((u & 0xFF00) << 8) | ((u >> 8) & 0xFF00) | (u >> 24)

	return int32(u)
}

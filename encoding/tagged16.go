package encoding

import (
	"github.com/nicholassherlock/blackbox-log/errs"
	"github.com/nicholassherlock/blackbox-log/reader"
)

// ReadTagged16 decodes up to 4 fields from one tag byte (four 2-bit tags,
// field 0 in the low-order tag) followed by each field's payload. Tag
// meanings: 0 => value 0, 1 => 4-bit signed nibble, 2 => signed byte,
// 3 => signed 16-bit. This is the v2 wire layout: field payloads are pulled
// from one continuous MSB-first bit stream with no byte realignment
// between fields (v1's byte-aligned packed-nibble layout is out of scope).
func ReadTagged16(r *reader.Reader) ([4]int16, error) {
	r.ByteAlign()

	var result [4]int16

	tags, ok := r.ReadU8()
	if !ok {
		return result, errs.ErrUnexpectedEOF
	}

	for i := 0; i < 4; i++ {
		tag := (tags >> (uint(i) * 2)) & 3

		var bits uint
		switch tag {
		case 0:
			result[i] = 0
			continue
		case 1:
			bits = 4
		case 2:
			bits = 8
		case 3:
			bits = 16
		}

		v, ok := r.ReadBits(int(bits))
		if !ok {
			return result, errs.ErrUnexpectedEOF
		}

		result[i] = int16(signExtend(v, bits))
	}

	return result, nil
}

package encoding

import "github.com/nicholassherlock/blackbox-log/reader"

// ReadNegative14Bit decodes a Variable residual, interprets its low 14 bits
// as signed two's complement (sign-extending bit 13), and negates the
// result. Used for fields whose firmware-side encoder only ever produces
// values in roughly [-0x1FFF, 0] but occasionally emits the sentinel
// +0x2000.
func ReadNegative14Bit(r *reader.Reader) (int32, error) {
	r.ByteAlign()

	v, err := ReadVariable(r)
	if err != nil {
		return 0, err
	}

	v14 := uint16(v) & 0x3FFF

	var signed int32
	if v14&0x2000 != 0 {
		signed = signExtend(uint32(v14), 14)
	} else {
		signed = int32(v14)
	}

	return -signed, nil
}

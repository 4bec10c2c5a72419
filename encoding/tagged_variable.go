package encoding

import (
	"github.com/nicholassherlock/blackbox-log/errs"
	"github.com/nicholassherlock/blackbox-log/reader"
)

// ReadTaggedVariable decodes one tag byte holding eight 1-bit flags (field 0
// in bit 0), followed by one VariableSigned residual for each set flag.
// Fields whose flag is clear decode to 0 and consume nothing. The caller
// uses only the first count entries of the returned array.
func ReadTaggedVariable(r *reader.Reader) ([8]int32, error) {
	r.ByteAlign()

	var result [8]int32

	tags, ok := r.ReadU8()
	if !ok {
		return result, errs.ErrUnexpectedEOF
	}

	for i := 0; i < 8; i++ {
		if tags&(1<<uint(i)) == 0 {
			continue
		}

		v, err := ReadVariableSigned(r)
		if err != nil {
			return result, err
		}

		result[i] = v
	}

	return result, nil
}

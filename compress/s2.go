package compress

import (
	"github.com/klauspost/compress/s2"

	"github.com/nicholassherlock/blackbox-log/internal/pool"
)

type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses the input data using S2 compression.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses the input data using S2 decompression.
//
// S2's block API needs a destination sized to exactly the decoded length
// up front; Decompress borrows a pooled scratch buffer for that rather than
// letting s2.Decode allocate one per call, then copies the result out before
// returning the scratch buffer to the pool.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}

	buf := pool.GetLogBuffer()
	defer pool.PutLogBuffer(buf)
	buf.Grow(n)
	buf.SetLength(n)

	decoded, err := s2.Decode(buf.Bytes(), data)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(decoded))
	copy(out, decoded)

	return out, nil
}

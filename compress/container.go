package compress

import (
	"fmt"
	"time"
)

// Unwrap detects data's compression Kind via Sniff and, if compressed,
// decompresses it. Uncompressed input is returned unchanged — the common
// case, and the only shape a raw in-memory log is expected to take.
func Unwrap(data []byte) ([]byte, Stats, error) {
	return UnwrapWithKind(data, Sniff(data))
}

// UnwrapWithKind decompresses data using the given Kind explicitly,
// bypassing magic-byte detection. Needed for S2, whose block format Sniff
// cannot recognize on its own.
func UnwrapWithKind(data []byte, kind Kind) ([]byte, Stats, error) {
	codec, err := GetCodec(kind)
	if err != nil {
		return nil, Stats{}, err
	}

	start := time.Now()

	out, err := codec.Decompress(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("decompress %s container: %w", kind, err)
	}

	stats := Stats{
		Algorithm:           kind,
		CompressedSize:      int64(len(data)),
		DecompressedSize:    int64(len(out)),
		DecompressionTimeNs: time.Since(start).Nanoseconds(),
	}

	return out, stats, nil
}

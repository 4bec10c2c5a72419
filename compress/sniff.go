package compress

import "bytes"

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// Sniff inspects data's leading bytes and reports which Kind wrapped it, or
// KindNone if no known magic number is found.
//
// S2's block API (used by this package's S2Compressor) carries no magic
// number of its own — a block produced by s2.Encode is indistinguishable
// from arbitrary binary without an out-of-band hint. Sniff therefore never
// reports KindS2; a caller that knows its input is S2-compressed must say
// so explicitly rather than relying on detection.
func Sniff(data []byte) Kind {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return KindZstd
	case bytes.HasPrefix(data, lz4Magic):
		return KindLZ4
	default:
		return KindNone
	}
}

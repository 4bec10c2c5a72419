package compress

import "fmt"

// Kind identifies the compression algorithm a log container was wrapped
// with, detected from the container's magic bytes by Sniff.
type Kind uint8

const (
	KindNone Kind = iota
	KindZstd
	KindS2
	KindLZ4
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindZstd:
		return "zstd"
	case KindS2:
		return "s2"
	case KindLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Compressor compresses a byte slice. The blackbox decoder never writes
// compressed containers itself, but every codec implements Compress anyway:
// it is what the package's own tests use to manufacture fixtures for
// Decompress, and it keeps each codec's Decompress counterpart honest
// against a real round trip rather than canned bytes.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor provides decompression for a log container wrapped by the
// corresponding Compressor.
//
// Thread Safety: Decompressor implementations must be safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses data and returns the original result.
	//
	// Error conditions:
	//   - Returns error if input data is corrupted or invalid
	//   - Returns error if data was compressed with an incompatible algorithm
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes a decompression operation, surfaced to callers that want
// to log or report on container overhead.
type Stats struct {
	Algorithm           Kind
	CompressedSize      int64
	DecompressedSize    int64
	DecompressionTimeNs int64
}

// Ratio returns the compressed-to-decompressed size ratio. Values below 1.0
// indicate the container was smaller than the raw log.
func (s Stats) Ratio() float64 {
	if s.DecompressedSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.DecompressedSize)
}

// CreateCodec is a factory function that creates a Codec for the given Kind.
func CreateCodec(kind Kind, target string) (Codec, error) {
	switch kind {
	case KindNone:
		return NewNoOpCompressor(), nil
	case KindZstd:
		return NewZstdCompressor(), nil
	case KindS2:
		return NewS2Compressor(), nil
	case KindLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, kind)
	}
}

var builtinCodecs = map[Kind]Codec{
	KindNone: NewNoOpCompressor(),
	KindZstd: NewZstdCompressor(),
	KindS2:   NewS2Compressor(),
	KindLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the given Kind.
func GetCodec(kind Kind) (Codec, error) {
	if codec, ok := builtinCodecs[kind]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression kind: %s", kind)
}

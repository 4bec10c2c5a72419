package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, codec Codec, data []byte) {
	t.Helper()

	compressed, err := codec.Compress(data)
	require.NoError(t, err)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)

	assert.Equal(t, data, decompressed)
}

func TestCodecs_RoundTrip(t *testing.T) {
	payload := bytesRepeat([]byte("loopIteration,time,motor[0],motor[1],motor[2],motor[3]\n"), 200)

	codecs := map[string]Codec{
		"NoOp": NewNoOpCompressor(),
		"Zstd": NewZstdCompressor(),
		"S2":   NewS2Compressor(),
		"LZ4":  NewLZ4Compressor(),
	}

	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			roundTrip(t, codec, payload)
		})
	}
}

func TestCodecs_EmptyInput(t *testing.T) {
	codecs := []Codec{NewNoOpCompressor(), NewZstdCompressor(), NewS2Compressor(), NewLZ4Compressor()}

	for _, codec := range codecs {
		compressed, err := codec.Compress(nil)
		require.NoError(t, err)

		decompressed, err := codec.Decompress(compressed)
		require.NoError(t, err)
		assert.Empty(t, decompressed)
	}
}

func TestCreateCodec(t *testing.T) {
	for _, kind := range []Kind{KindNone, KindZstd, KindS2, KindLZ4} {
		codec, err := CreateCodec(kind, "test")
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := CreateCodec(Kind(0xFF), "test")
	assert.Error(t, err)
}

func TestGetCodec(t *testing.T) {
	codec, err := GetCodec(KindZstd)
	require.NoError(t, err)
	require.NotNil(t, codec)

	_, err = GetCodec(Kind(0xFF))
	assert.Error(t, err)
}

func TestStats_Ratio(t *testing.T) {
	s := Stats{CompressedSize: 50, DecompressedSize: 100}
	assert.Equal(t, 0.5, s.Ratio())

	assert.Equal(t, 0.0, Stats{}.Ratio())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "zstd", KindZstd.String())
	assert.Equal(t, "s2", KindS2.String())
	assert.Equal(t, "lz4", KindLZ4.String())
	assert.Equal(t, "unknown", Kind(0xFF).String())
}

func bytesRepeat(b []byte, n int) []byte {
	out := make([]byte, 0, len(b)*n)
	for i := 0; i < n; i++ {
		out = append(out, b...)
	}

	return out
}

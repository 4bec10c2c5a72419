package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrap_UncompressedPassesThrough(t *testing.T) {
	raw := []byte("H Product:Blackbox flight data recorder by Cleanflight\n")

	out, stats, err := Unwrap(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
	assert.Equal(t, KindNone, stats.Algorithm)
	assert.Equal(t, int64(len(raw)), stats.CompressedSize)
	assert.Equal(t, int64(len(raw)), stats.DecompressedSize)
}

func TestUnwrap_ZstdContainer(t *testing.T) {
	raw := bytesRepeat([]byte("sample log payload "), 100)

	compressed, err := NewZstdCompressor().Compress(raw)
	require.NoError(t, err)

	out, stats, err := Unwrap(compressed)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
	assert.Equal(t, KindZstd, stats.Algorithm)
	assert.Less(t, stats.Ratio(), 1.0)
}

func TestUnwrapWithKind_S2(t *testing.T) {
	raw := bytesRepeat([]byte("sample log payload "), 100)

	compressed, err := NewS2Compressor().Compress(raw)
	require.NoError(t, err)

	out, stats, err := UnwrapWithKind(compressed, KindS2)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
	assert.Equal(t, KindS2, stats.Algorithm)
}

func TestUnwrapWithKind_InvalidKind(t *testing.T) {
	_, _, err := UnwrapWithKind([]byte("data"), Kind(0xFF))
	assert.Error(t, err)
}

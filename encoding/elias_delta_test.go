package encoding

import (
	"math"
	"testing"

	"github.com/nicholassherlock/blackbox-log/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEliasDeltaUnsigned(t *testing.T) {
	cases := []struct {
		name     string
		bytes    []byte
		expected uint32
	}{
		{"zero", []byte{0x80, 0}, 0},
		{"one", []byte{0x40, 0}, 1},
		{"two", []byte{0x50, 0}, 2},
		{"fifteen", []byte{0x28, 0}, 15},
		{"eighteen", []byte{0x29, 0x80}, 18},
		{"thirteen_bit_max", []byte{0x1C, 0, 0}, 8191},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := reader.New(tc.bytes)

			got, err := ReadEliasDelta(r)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestReadEliasDeltaUnsignedMax(t *testing.T) {
	r := reader.New([]byte{0x04, 0x1F, 0xFF, 0xFF, 0xFF, 0xE0})

	got, err := ReadEliasDelta(r)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), got)
}

func TestReadEliasDeltaSigned(t *testing.T) {
	cases := []struct {
		name     string
		bytes    []byte
		expected int32
	}{
		{"zero", []byte{0x80, 0}, 0},
		{"minus_one", []byte{0x40, 0}, -1},
		{"one", []byte{0x50, 0}, 1},
		{"minus_eight", []byte{0x28, 0}, -8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := reader.New(tc.bytes)

			got, err := ReadEliasDeltaSigned(r)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestReadEliasDeltaSignedMin(t *testing.T) {
	r := reader.New([]byte{0x04, 0x1F, 0xFF, 0xFF, 0xFF, 0xE0})

	got, err := ReadEliasDeltaSigned(r)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), got)
}

func TestReadEliasDeltaSignedMax(t *testing.T) {
	r := reader.New([]byte{0x04, 0x1F, 0xFF, 0xFF, 0xFF, 0xC0})

	got, err := ReadEliasDeltaSigned(r)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), got)
}

func TestReadEliasDeltaEOF(t *testing.T) {
	r := reader.New([]byte{})

	_, err := ReadEliasDelta(r)
	assert.Error(t, err)
}

func TestReadEliasDeltaCorruptedLeadingZeros(t *testing.T) {
	// More than 5 leading zero bits before a 1 bit is corrupt.
	r := reader.New([]byte{0x00, 0x00})

	_, err := ReadEliasDelta(r)
	assert.Error(t, err)
}

package encoding

import (
	"testing"

	"github.com/nicholassherlock/blackbox-log/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadNegative14Bit(t *testing.T) {
	cases := []struct {
		name     string
		bytes    []byte
		expected int32
	}{
		{"zero", []byte{0}, 0},
		{"min", []byte{0xFF, 0x3F}, -0x1FFF},
		{"max", []byte{0x80, 0x40}, 0x2000},
		{"all_bits_set", []byte{0xFF, 0x7F}, 1},
		{"extra_bits_ignored", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := reader.New(tc.bytes)

			got, err := ReadNegative14Bit(r)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestReadNegative14BitEOF(t *testing.T) {
	r := reader.New([]byte{0xFF})

	_, err := ReadNegative14Bit(r)
	assert.Error(t, err)
}

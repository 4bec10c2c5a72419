package encoding

import (
	"testing"

	"github.com/nicholassherlock/blackbox-log/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTaggedVariableAllZero(t *testing.T) {
	r := reader.New([]byte{0x00})

	got, err := ReadTaggedVariable(r)
	require.NoError(t, err)
	assert.Equal(t, [8]int32{}, got)
	assert.True(t, r.IsEmpty())
}

func TestReadTaggedVariableSomeSet(t *testing.T) {
	// flags = 0b0000_0101: fields 0 and 2 are present.
	// field 0: VariableSigned value 1 -> zig-zag encoded as 2 (0x02).
	// field 2: VariableSigned value -1 -> zig-zag encoded as 1 (0x01).
	r := reader.New([]byte{0b0000_0101, 0x02, 0x01})

	got, err := ReadTaggedVariable(r)
	require.NoError(t, err)
	assert.Equal(t, [8]int32{1, 0, -1, 0, 0, 0, 0, 0}, got)
}

func TestReadTaggedVariableEOF(t *testing.T) {
	r := reader.New([]byte{})

	_, err := ReadTaggedVariable(r)
	assert.Error(t, err)
}

func TestReadTaggedVariableTruncatedResidual(t *testing.T) {
	// flag for field 0 set but no residual byte follows.
	r := reader.New([]byte{0x01})

	_, err := ReadTaggedVariable(r)
	assert.Error(t, err)
}

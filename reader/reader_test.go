package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadU16(t *testing.T) {
	r := New([]byte{0x39, 0x05})
	v, ok := r.ReadU16()
	require.True(t, ok)
	assert.Equal(t, uint16(0x0539), v)
}

func TestReadI16(t *testing.T) {
	r := New([]byte{0xC7, 0xFA})
	v, ok := r.ReadI16()
	require.True(t, ok)
	assert.Equal(t, int16(-0x0539), v)
}

func TestReadU24(t *testing.T) {
	r := New([]byte{0x56, 0x34, 0x12})
	v, ok := r.ReadU24()
	require.True(t, ok)
	assert.Equal(t, uint32(0x123456), v)
}

func TestReadU32(t *testing.T) {
	r := New([]byte{0xEF, 0xCD, 0x34, 0x12})
	v, ok := r.ReadU32()
	require.True(t, ok)
	assert.Equal(t, uint32(0x1234_CDEF), v)
}

func TestReadI32(t *testing.T) {
	r := New([]byte{0x11, 0x32, 0xCB, 0xED})
	v, ok := r.ReadI32()
	require.True(t, ok)
	assert.Equal(t, int32(-0x1234_CDEF), v)
}

func TestReadLine(t *testing.T) {
	r := New([]byte{'a', 0, '\n', 'b'})

	line, ok := r.ReadLine()
	require.True(t, ok)
	assert.Equal(t, []byte("a\x00"), line)

	b, ok := r.ReadU8()
	require.True(t, ok)
	assert.Equal(t, byte('b'), b)
}

func TestReadLineWithoutNewline(t *testing.T) {
	r := New([]byte{'a', 0})

	line, ok := r.ReadLine()
	require.True(t, ok)
	assert.Equal(t, []byte("a\x00"), line)

	_, ok = r.ReadU8()
	assert.False(t, ok)
}

func TestReadLineEmpty(t *testing.T) {
	r := New(nil)
	_, ok := r.ReadLine()
	assert.False(t, ok)
}

func TestReadLineSecondCallAtEOF(t *testing.T) {
	r := New([]byte("a\n"))

	_, ok := r.ReadLine()
	require.True(t, ok)

	_, ok = r.ReadLine()
	assert.False(t, ok)
}

func TestPeekDoesNotConsume(t *testing.T) {
	r := New([]byte{1, 2, 3})

	b, ok := r.Peek()
	require.True(t, ok)
	assert.Equal(t, byte(1), b)

	b, ok = r.ReadU8()
	require.True(t, ok)
	assert.Equal(t, byte(1), b)
}

func TestReadBitsMSBFirst(t *testing.T) {
	// 0b1011_0010
	r := New([]byte{0b1011_0010})

	v, ok := r.ReadBits(4)
	require.True(t, ok)
	assert.Equal(t, uint32(0b1011), v)

	v, ok = r.ReadBits(4)
	require.True(t, ok)
	assert.Equal(t, uint32(0b0010), v)
}

func TestReadBitsAcrossBytes(t *testing.T) {
	r := New([]byte{0b1111_0000, 0b1010_1010})

	v, ok := r.ReadBits(12)
	require.True(t, ok)
	// top 12 bits of the two bytes: 1111_0000_1010
	assert.Equal(t, uint32(0b1111_0000_1010), v)
}

func TestByteAlignDiscardsPartialByte(t *testing.T) {
	r := New([]byte{0xFF, 0x01})

	_, ok := r.ReadBits(3)
	require.True(t, ok)

	r.ByteAlign()

	b, ok := r.ReadU8()
	require.True(t, ok)
	assert.Equal(t, byte(0x01), b)
}

func TestSkipUntilAny(t *testing.T) {
	r := New([]byte{0x00, 0x00, 'I', 0x01})

	r.SkipUntilAny([]byte("EIPSGH"))

	b, ok := r.ReadU8()
	require.True(t, ok)
	assert.Equal(t, byte('I'), b)
}

func TestSkipUntilAnyReachesEOF(t *testing.T) {
	r := New([]byte{0x00, 0x01, 0x02})

	r.SkipUntilAny([]byte("EIPSGH"))

	assert.True(t, r.IsEmpty())
}

func TestReadU8EOF(t *testing.T) {
	r := New(nil)
	_, ok := r.ReadU8()
	assert.False(t, ok)
}

func TestReadBitsEOF(t *testing.T) {
	r := New([]byte{0xFF})
	_, ok := r.ReadBits(8)
	require.True(t, ok)

	_, ok = r.ReadBits(1)
	assert.False(t, ok)
}

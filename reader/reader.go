// Package reader provides a positioned byte/bit cursor over an in-memory
// blackbox log slice.
//
// Reader never panics on end of input: byte and bit reads return a bool
// (or, for ReadLine, a nil slice) to signal exhaustion, and callers map
// that to errs.ErrUnexpectedEOF. Bit reads are MSB-first within each byte;
// byte reads always operate on whole bytes, silently realigning past any
// partially consumed byte left over from a bit read.
package reader

import (
	"github.com/nicholassherlock/blackbox-log/endian"
)

// Reader is a positioned cursor over a borrowed byte slice. It is the
// single low-level I/O primitive the rest of the decoder is built on: the
// header parser reads lines from it, the numeric decoders read bits and
// bytes from it, and the frame parser uses it to resync after corruption.
//
// A Reader does not own the underlying data and must not outlive it.
type Reader struct {
	data []byte
	pos  int // byte offset of the next unread byte

	// bitBuf holds the bits remaining from the current byte once a bit
	// read has split it; bitLen is how many of the low bits of bitBuf are
	// still valid (0 when byte-aligned).
	bitBuf byte
	bitLen uint8
}

// New creates a Reader positioned at the start of data.
func New(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the number of unread bytes, not counting any bits buffered
// from a partially consumed byte.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// Remaining is an alias for Len, kept for readability at call sites that
// are checking "how much is left" rather than indexing.
func (r *Reader) Remaining() int {
	return r.Len()
}

// IsEmpty reports whether there are no more whole bytes to read.
func (r *Reader) IsEmpty() bool {
	return r.Len() <= 0
}

// Peek returns the next unread byte without consuming it.
func (r *Reader) Peek() (byte, bool) {
	if r.pos >= len(r.data) {
		return 0, false
	}

	return r.data[r.pos], true
}

// ByteAlign discards any bits buffered from a partially consumed byte, so
// the next ReadU8/ReadU16/... call starts at a fresh byte boundary. It is a
// no-op if the reader is already aligned.
func (r *Reader) ByteAlign() {
	r.bitBuf = 0
	r.bitLen = 0
}

// ReadU8 reads one byte, little- or big-endian being irrelevant at this
// width. Always byte-aligns first.
func (r *Reader) ReadU8() (byte, bool) {
	r.ByteAlign()

	if r.pos >= len(r.data) {
		return 0, false
	}

	b := r.data[r.pos]
	r.pos++

	return b, true
}

// ReadI8 reads one byte and reinterprets it as signed two's complement.
func (r *Reader) ReadI8() (int8, bool) {
	b, ok := r.ReadU8()
	return int8(b), ok
}

// ReadU16 reads two little-endian bytes.
func (r *Reader) ReadU16() (uint16, bool) {
	b, ok := r.readN(2)
	if !ok {
		return 0, false
	}

	return endian.GetLittleEndianEngine().Uint16(b), true
}

// ReadI16 reads two little-endian bytes as signed.
func (r *Reader) ReadI16() (int16, bool) {
	v, ok := r.ReadU16()
	return int16(v), ok
}

// ReadU24 reads three little-endian bytes into the low 24 bits of a uint32.
func (r *Reader) ReadU24() (uint32, bool) {
	b, ok := r.readN(3)
	if !ok {
		return 0, false
	}

	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, true
}

// ReadU32 reads four little-endian bytes.
func (r *Reader) ReadU32() (uint32, bool) {
	b, ok := r.readN(4)
	if !ok {
		return 0, false
	}

	return endian.GetLittleEndianEngine().Uint32(b), true
}

// ReadI32 reads four little-endian bytes as signed.
func (r *Reader) ReadI32() (int32, bool) {
	v, ok := r.ReadU32()
	return int32(v), ok
}

// readN byte-aligns and returns the next n bytes as a sub-slice of the
// backing array, or false if fewer than n bytes remain.
func (r *Reader) readN(n int) ([]byte, bool) {
	r.ByteAlign()

	if r.Len() < n {
		return nil, false
	}

	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, true
}

// ReadLine returns the bytes up to (excluding) the next '\n', consuming the
// newline itself. If no newline remains, it returns the rest of the input.
// It returns false only when called at end of input with nothing left to
// return. Always byte-aligns first: header lines are never bit-packed.
func (r *Reader) ReadLine() ([]byte, bool) {
	r.ByteAlign()

	if r.pos >= len(r.data) {
		return nil, false
	}

	rest := r.data[r.pos:]
	if idx := indexByte(rest, '\n'); idx >= 0 {
		line := rest[:idx]
		r.pos += idx + 1

		return line, true
	}

	r.pos = len(r.data)

	return rest, true
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}

	return -1
}

// ReadBits reads n bits (1 <= n <= 32), MSB-first within each byte, and
// returns them right-aligned in the result. It consumes bytes from the
// underlying slice as needed and leaves any leftover bits of the final byte
// buffered for the next bit (or byte, via ByteAlign) read.
func (r *Reader) ReadBits(n int) (uint32, bool) {
	if n < 1 || n > 32 {
		return 0, false
	}

	var result uint32

	remaining := n
	for remaining > 0 {
		if r.bitLen == 0 {
			if r.pos >= len(r.data) {
				return 0, false
			}

			r.bitBuf = r.data[r.pos]
			r.pos++
			r.bitLen = 8
		}

		take := remaining
		if take > int(r.bitLen) {
			take = int(r.bitLen)
		}

		shift := int(r.bitLen) - take
		chunk := (r.bitBuf >> shift) & ((1 << take) - 1)

		result = (result << take) | uint32(chunk)
		r.bitLen -= uint8(take)
		remaining -= take
	}

	return result, true
}

// ReadBit reads a single bit; a thin wrapper over ReadBits(1) used by the
// elias-delta decoders, which consume one bit at a time while counting
// leading zeros.
func (r *Reader) ReadBit() (byte, bool) {
	v, ok := r.ReadBits(1)
	return byte(v), ok
}

// SkipUntilAny advances the reader to the next byte whose value appears in
// set, without consuming it (so a subsequent ReadU8 returns it). Used by
// the frame parser to resync after a corrupt frame. If no matching byte
// remains, the reader is left at end of input.
func (r *Reader) SkipUntilAny(set []byte) {
	r.ByteAlign()

	for r.pos < len(r.data) {
		b := r.data[r.pos]
		for _, s := range set {
			if b == s {
				return
			}
		}

		r.pos++
	}
}

// Bytes returns the unread bytes without consuming them, discarding any
// buffered bits first.
func (r *Reader) Bytes() []byte {
	r.ByteAlign()
	return r.data[r.pos:]
}

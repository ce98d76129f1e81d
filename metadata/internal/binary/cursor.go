// Package binary provides a bounds-checked cursor over .NET metadata byte
// slices with little-endian typed reads and ECMA-335 compressed-integer
// decoding.
package binary

import (
	"encoding/binary"
	"math"

	"github.com/cilscope/cilscope/errors"
)

// Cursor is a sequential reader over an immutable byte slice with position
// tracking. All multi-byte reads are little-endian. Every read is bounds
// checked and returns a structured error on short data.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the total length of the underlying data.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Position returns the current byte position.
func (c *Cursor) Position() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// HasMore reports whether any unread bytes remain.
func (c *Cursor) HasMore() bool {
	return c.pos < len(c.data)
}

// Seek moves the cursor to an absolute position.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.data) {
		return errors.Malformed("seek to %d outside data of length %d", pos, len(c.data))
	}
	c.pos = pos
	return nil
}

// PeekByte returns the next byte without advancing the position.
func (c *Cursor) PeekByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, c.short(1)
	}
	return c.data[c.pos], nil
}

// ReadByte reads a single byte and advances the position.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, c.short(1)
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Malformed("negative read length %d", n)
	}
	if n > c.Remaining() {
		return nil, c.short(n)
	}
	buf := c.data[c.pos : c.pos+n]
	c.pos += n
	return buf, nil
}

// ReadU16 reads a little-endian uint16 (fixed 2 bytes).
func (c *Cursor) ReadU16() (uint16, error) {
	buf, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadU32 reads a little-endian uint32 (fixed 4 bytes).
func (c *Cursor) ReadU32() (uint32, error) {
	buf, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadU64 reads a little-endian uint64 (fixed 8 bytes).
func (c *Cursor) ReadU64() (uint64, error) {
	buf, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadI32 reads a little-endian int32 (fixed 4 bytes).
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadF32 reads a little-endian IEEE 754 float32 (fixed 4 bytes).
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 reads a little-endian IEEE 754 float64 (fixed 8 bytes).
func (c *Cursor) ReadF64() (float64, error) {
	v, err := c.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadCompressedUint reads an ECMA-335 compressed unsigned integer.
// The leading bits of the first byte select the width:
//
//	0xxxxxxx                            1 byte,  7-bit value
//	10xxxxxx xxxxxxxx                   2 bytes, 14-bit value
//	110xxxxx xxxxxxxx xxxxxxxx xxxxxxxx 4 bytes, 29-bit value
func (c *Cursor) ReadCompressedUint() (uint32, error) {
	first, err := c.ReadByte()
	if err != nil {
		return 0, err
	}

	if first&0x80 == 0 {
		return uint32(first), nil
	}

	if first&0xC0 == 0x80 {
		second, err := c.ReadByte()
		if err != nil {
			return 0, err
		}
		return (uint32(first)&0x3F)<<8 | uint32(second), nil
	}

	if first&0xE0 == 0xC0 {
		rest, err := c.ReadBytes(3)
		if err != nil {
			return 0, err
		}
		return (uint32(first)&0x1F)<<24 | uint32(rest[0])<<16 | uint32(rest[1])<<8 | uint32(rest[2]), nil
	}

	return 0, errors.Malformed("invalid compressed integer leading byte 0x%02X at position %d", first, c.pos-1)
}

func (c *Cursor) short(n int) error {
	return errors.Malformed("need %d bytes at position %d, %d available", n, c.pos, c.Remaining())
}

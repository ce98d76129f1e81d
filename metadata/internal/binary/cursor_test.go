package binary

import (
	stderrors "errors"
	"testing"

	"github.com/cilscope/cilscope/errors"
)

func TestCursorReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	c := NewCursor(data)

	for i, want := range data {
		if c.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, c.Position(), i)
		}
		b, err := c.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if c.HasMore() {
		t.Error("HasMore after consuming all data")
	}
	if _, err := c.ReadByte(); err == nil {
		t.Error("expected error reading past end")
	}
}

func TestCursorPeekByte(t *testing.T) {
	c := NewCursor([]byte{0xFF, 0x01})
	b, err := c.PeekByte()
	if err != nil {
		t.Fatalf("PeekByte: %v", err)
	}
	if b != 0xFF {
		t.Errorf("PeekByte: got 0x%02x, want 0xFF", b)
	}
	if c.Position() != 0 {
		t.Errorf("PeekByte advanced position to %d", c.Position())
	}
}

func TestCursorTypedReads(t *testing.T) {
	c := NewCursor([]byte{
		0x01, 0x00, // u16 = 1
		0x2A, 0x00, 0x00, 0x00, // u32 = 42
		0xFF, 0xFF, 0xFF, 0xFF, // i32 = -1
		0x00, 0x00, 0x80, 0x3F, // f32 = 1.0
	})

	if v, err := c.ReadU16(); err != nil || v != 1 {
		t.Errorf("ReadU16: got %d, %v", v, err)
	}
	if v, err := c.ReadU32(); err != nil || v != 42 {
		t.Errorf("ReadU32: got %d, %v", v, err)
	}
	if v, err := c.ReadI32(); err != nil || v != -1 {
		t.Errorf("ReadI32: got %d, %v", v, err)
	}
	if v, err := c.ReadF32(); err != nil || v != 1.0 {
		t.Errorf("ReadF32: got %v, %v", v, err)
	}
}

func TestCursorReadU64(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	v, err := c.ReadU64()
	if err != nil {
		t.Fatalf("ReadU64: %v", err)
	}
	if v != 0x0807060504030201 {
		t.Errorf("ReadU64: got 0x%016x", v)
	}
}

func TestCursorSeek(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03})
	if _, err := c.ReadBytes(3); err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if err := c.Seek(1); err != nil {
		t.Fatalf("Seek(1): %v", err)
	}
	b, err := c.ReadByte()
	if err != nil || b != 0x02 {
		t.Errorf("read after seek: got 0x%02x, %v", b, err)
	}
	if err := c.Seek(4); err == nil {
		t.Error("expected error seeking past end")
	}
	if err := c.Seek(-1); err == nil {
		t.Error("expected error seeking before start")
	}
}

func TestCompressedUint(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"one byte zero", []byte{0x00}, 0},
		{"one byte max", []byte{0x7F}, 0x7F},
		{"two bytes", []byte{0x80, 0x80}, 0x80},
		{"two bytes max", []byte{0xBF, 0xFF}, 0x3FFF},
		{"four bytes", []byte{0xC0, 0x00, 0x40, 0x00}, 0x4000},
		{"four bytes max", []byte{0xDF, 0xFF, 0xFF, 0xFF}, 0x1FFFFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.data)
			v, err := c.ReadCompressedUint()
			if err != nil {
				t.Fatalf("ReadCompressedUint: %v", err)
			}
			if v != tt.want {
				t.Errorf("got 0x%x, want 0x%x", v, tt.want)
			}
			if c.HasMore() {
				t.Errorf("did not consume whole encoding, %d bytes left", c.Remaining())
			}
		})
	}
}

func TestCompressedUintInvalid(t *testing.T) {
	c := NewCursor([]byte{0xE0, 0x00, 0x00, 0x00})
	_, err := c.ReadCompressedUint()
	if err == nil {
		t.Fatal("expected error for invalid leading bits")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindMalformed}) {
		t.Errorf("expected malformed parse error, got %v", err)
	}
}

func TestCompressedUintTruncated(t *testing.T) {
	for _, data := range [][]byte{{}, {0x80}, {0xC0, 0x01}} {
		c := NewCursor(data)
		if _, err := c.ReadCompressedUint(); err == nil {
			t.Errorf("expected error for truncated encoding %x", data)
		}
	}
}

func TestReadBytesBounds(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02})
	if _, err := c.ReadBytes(3); err == nil {
		t.Error("expected error reading past end")
	}
	if _, err := c.ReadBytes(-1); err == nil {
		t.Error("expected error for negative length")
	}
	// Failed reads must not advance the position.
	if c.Position() != 0 {
		t.Errorf("position moved to %d after failed reads", c.Position())
	}
}

package heap_test

import (
	"bytes"
	"errors"
	"testing"

	cerrors "github.com/cilscope/cilscope/errors"
	"github.com/cilscope/cilscope/metadata/heap"
)

func TestBlobGet(t *testing.T) {
	// Heap layout: empty entry at 0, 3-byte entry at 1, 2-byte entry at 5.
	data := []byte{
		0x00,                   // index 0: length 0
		0x03, 0xAA, 0xBB, 0xCC, // index 1: length 3
		0x02, 0x01, 0x02, // index 5: length 2
	}
	b := heap.NewBlob(data)

	got, err := b.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	if !bytes.Equal(got, []byte{0xAA, 0xBB, 0xCC}) {
		t.Errorf("Get(1): got %x", got)
	}

	got, err = b.Get(5)
	if err != nil {
		t.Fatalf("Get(5): %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02}) {
		t.Errorf("Get(5): got %x", got)
	}

	got, err = b.Get(0)
	if err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Get(0): got %x, want empty", got)
	}
}

func TestBlobGetTwoByteLength(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 0x90)
	data := append([]byte{0x80, 0x90}, payload...)
	b := heap.NewBlob(data)

	got, err := b.Get(0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload mismatch: got %d bytes", len(got))
	}
}

func TestBlobGetOutOfBounds(t *testing.T) {
	b := heap.NewBlob([]byte{0x01, 0xAA})

	for _, index := range []uint32{2, 100} {
		_, err := b.Get(index)
		if err == nil {
			t.Fatalf("Get(%d): expected error", index)
		}
		if !errors.Is(err, &cerrors.Error{Phase: cerrors.PhaseHeap, Kind: cerrors.KindOutOfBounds}) {
			t.Errorf("Get(%d): expected heap out_of_bounds, got %v", index, err)
		}
	}
}

func TestBlobGetTruncatedPayload(t *testing.T) {
	// Length prefix declares 5 bytes but only 2 remain.
	b := heap.NewBlob([]byte{0x05, 0xAA, 0xBB})
	if _, err := b.Get(0); err == nil {
		t.Fatal("expected error for truncated payload")
	}
}

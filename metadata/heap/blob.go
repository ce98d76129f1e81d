// Package heap provides access to the .NET metadata blob heap, a storage
// section holding variable-length binary payloads addressed by byte offset.
//
// Each heap entry is an ECMA-335 compressed unsigned integer length prefix
// followed by that many payload bytes. Index 0 is the conventional empty
// entry; callers that treat index 0 as "no data" should short-circuit before
// touching the heap.
package heap

import (
	"github.com/cilscope/cilscope/errors"
	"github.com/cilscope/cilscope/metadata/internal/binary"
)

// Blob is an immutable view over the raw bytes of a blob heap.
type Blob struct {
	data []byte
}

// NewBlob creates a blob heap over the given raw stream bytes. The slice is
// retained, not copied; callers must not mutate it.
func NewBlob(data []byte) *Blob {
	return &Blob{data: data}
}

// Size returns the total size of the heap in bytes.
func (b *Blob) Size() int {
	return len(b.data)
}

// Get returns the payload stored at the given heap index. The returned slice
// aliases the heap's backing data.
func (b *Blob) Get(index uint32) ([]byte, error) {
	idx := int(index)
	if idx >= len(b.data) {
		return nil, errors.OutOfBounds(idx, len(b.data))
	}

	cur := binary.NewCursor(b.data[idx:])
	length, err := cur.ReadCompressedUint()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHeap, errors.KindOutOfBounds, err, "blob length prefix")
	}

	start := idx + cur.Position()
	end := start + int(length)
	if end < start || end > len(b.data) {
		return nil, errors.OutOfBounds(end, len(b.data))
	}

	return b.data[start:end], nil
}

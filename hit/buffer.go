package hit

// Buffer is a pre-sized, block-growing sequence of hits. It mirrors the
// source interpreter's allocation strategy: start with one block sized to
// the expected hit count for a chunk, and on overflow allocate a second
// block of the same size rather than growing by an arbitrary factor.
type Buffer struct {
	hits      []Hit
	blockSize int
}

// NewBuffer returns a Buffer pre-sized for blockSize hits. blockSize is
// clamped to at least 1.
func NewBuffer(blockSize int) *Buffer {
	if blockSize < 1 {
		blockSize = 1
	}
	return &Buffer{
		hits:      make([]Hit, 0, blockSize),
		blockSize: blockSize,
	}
}

// Append adds h to the buffer, growing by one block when the current
// block is full.
func (b *Buffer) Append(h Hit) {
	if len(b.hits) == cap(b.hits) {
		grown := make([]Hit, len(b.hits), cap(b.hits)+b.blockSize)
		copy(grown, b.hits)
		b.hits = grown
	}
	b.hits = append(b.hits, h)
}

// Hits returns the populated prefix of the buffer in emission order.
func (b *Buffer) Hits() []Hit {
	return b.hits
}

// Len reports the number of hits appended so far.
func (b *Buffer) Len() int {
	return len(b.hits)
}

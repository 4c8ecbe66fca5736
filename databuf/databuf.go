// Package databuf implements a small, resizable byte buffer with an inline
// short-buffer optimization: buffers at or below 16 bytes never touch the
// heap. It is meant as message payload storage for fibers and DPCs that
// want to move bytes through a Port without each small message forcing an
// allocation.
package databuf

// shortBufSize matches the original's NK_DATABUF_SHORTBUF_SIZE.
const shortBufSize = 16

// Buf is a dynamically sized byte buffer. Its zero value is not usable;
// construct one with New.
type Buf struct {
	length int
	cap    int
	short  [shortBufSize]byte
	long   []byte
}

// New allocates a buffer with the given initial capacity and zero length.
// Capacity at or below the inline short-buffer size never allocates.
func New(capacity int) *Buf {
	b := &Buf{cap: capacity}
	if capacity > shortBufSize {
		b.long = make([]byte, capacity)
	}
	return b
}

// Len returns the buffer's current length.
func (b *Buf) Len() int { return b.length }

// Cap returns the buffer's current capacity.
func (b *Buf) Cap() int { return b.cap }

// isLong reports whether this buffer has ever grown past the inline
// short-buffer size, the Go analog of NK_DATABUF_ISLONG.
func (b *Buf) isLong() bool { return b.cap > shortBufSize }

// Bytes returns the buffer's live contents as a slice of length Len. The
// returned slice aliases the buffer's storage; callers that need to retain
// it across a Resize or Reserve call should copy it first.
func (b *Buf) Bytes() []byte {
	if b.isLong() {
		return b.long[:b.length]
	}
	return b.short[:b.length]
}

// Resize sets the buffer's length, growing its capacity first if needed. If
// fill is true and the buffer is growing, the newly exposed bytes are
// zeroed (Go's make already zeroes, but growth in place via Reserve does
// not re-zero bytes beyond the old length, so this still matters on
// shrink-then-regrow).
func (b *Buf) Resize(length int, fill bool) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > b.cap {
		if err := b.Reserve(length); err != nil {
			return err
		}
	}
	if fill && length > b.length {
		data := b.mutableData()
		for i := b.length; i < length; i++ {
			data[i] = 0
		}
	}
	b.length = length
	return nil
}

// Reserve grows the buffer's capacity to at least the given value, copying
// existing contents. It never shrinks capacity.
func (b *Buf) Reserve(capacity int) error {
	if capacity <= b.cap {
		return nil
	}
	if capacity <= shortBufSize {
		b.cap = capacity
		return nil
	}

	newBuf := make([]byte, capacity)
	copy(newBuf, b.currentData())
	b.long = newBuf
	b.cap = capacity
	return nil
}

// Clone returns a new, independent copy of b with at least the given
// capacity (or b's length, whichever is larger).
func (b *Buf) Clone(capacity int) (*Buf, error) {
	if b == nil {
		return nil, nil
	}
	if capacity < b.length {
		capacity = b.length
	}
	out := New(capacity)
	copy(out.mutableData(), b.currentData())
	out.length = b.length
	return out, nil
}

func (b *Buf) currentData() []byte {
	if b.isLong() {
		return b.long
	}
	return b.short[:]
}

func (b *Buf) mutableData() []byte {
	return b.currentData()
}

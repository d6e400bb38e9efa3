package base

import (
	"io"

	"github.com/hexbee-net/errors"
)

const (
	errNegativeCapacity = errors.Error("negative capacity")
	errIndexOutOfRange  = errors.Error("index out of range")
	errBufferFull       = errors.Error("buffer is full")
	errBufferClosed     = errors.Error("buffer is closed")
)

// IOBuffer is a fixed capacity byte region plus a read index, a write index,
// the stream position of its first byte and a closed flag. The indexes always
// satisfy 0 <= ri <= wi <= len(data).
type IOBuffer struct {
	data   []byte
	wi     int
	ri     int
	pos    uint64
	closed bool
}

// NewIOBuffer allocates an empty buffer of the given capacity.
func NewIOBuffer(capacity int) (*IOBuffer, error) {
	if capacity < 0 {
		return nil, errors.WithFields(
			errors.WithStack(errNegativeCapacity),
			errors.Fields{
				"capacity": capacity,
			})
	}

	return &IOBuffer{data: make([]byte, capacity)}, nil
}

// NewIOBufferFrom wraps data as a buffer whose bytes are all written and
// unread. The buffer keeps a reference to data.
func NewIOBufferFrom(data []byte, closed bool) *IOBuffer {
	return &IOBuffer{
		data:   data,
		wi:     len(data),
		closed: closed,
	}
}

func (b *IOBuffer) Reader() Reader {
	return Reader{buf: b}
}

func (b *IOBuffer) Writer() Writer {
	return Writer{buf: b}
}

// Cap returns the fixed capacity of the buffer.
func (b *IOBuffer) Cap() int               { return len(b.data) }
func (b *IOBuffer) ReadIndex() int         { return b.ri }
func (b *IOBuffer) WriteIndex() int        { return b.wi }
func (b *IOBuffer) Pos() uint64            { return b.pos }
func (b *IOBuffer) Closed() bool           { return b.closed }
func (b *IOBuffer) UnreadLen() int         { return b.wi - b.ri }
func (b *IOBuffer) FreeLen() int           { return len(b.data) - b.wi }
func (b *IOBuffer) Unread() []byte         { return b.data[b.ri:b.wi] }
func (b *IOBuffer) Written() []byte        { return b.data[:b.wi] }
func (b *IOBuffer) ReaderPosition() uint64 { return b.pos + uint64(b.ri) }
func (b *IOBuffer) WriterPosition() uint64 { return b.pos + uint64(b.wi) }

// Close records that no further bytes will be appended.
func (b *IOBuffer) Close() {
	b.closed = true
}

// SetReadIndex moves the read index. It fails if ri would leave [0, wi].
func (b *IOBuffer) SetReadIndex(ri int) error {
	if ri < 0 || ri > b.wi {
		return errors.WithFields(
			errors.WithStack(errIndexOutOfRange),
			errors.Fields{
				"ri": ri,
				"wi": b.wi,
			})
	}

	b.ri = ri

	return nil
}

// SetWriteIndex moves the write index. It fails if wi would leave
// [ri, len]. Lowering it hides bytes that are already in the buffer, which
// is how tests simulate partially arrived input.
func (b *IOBuffer) SetWriteIndex(wi int) error {
	if wi < b.ri || wi > len(b.data) {
		return errors.WithFields(
			errors.WithStack(errIndexOutOfRange),
			errors.Fields{
				"ri":  b.ri,
				"wi":  wi,
				"len": len(b.data),
			})
	}

	b.wi = wi

	return nil
}

// SetClosed overrides the closed flag.
func (b *IOBuffer) SetClosed(closed bool) {
	b.closed = closed
}

// Compact moves the unread bytes to the start of the buffer. The stream
// position of every unread byte is unchanged.
func (b *IOBuffer) Compact() {
	if b.ri == 0 {
		return
	}

	n := copy(b.data, b.data[b.ri:b.wi])
	b.pos += uint64(b.ri)
	b.wi = n
	b.ri = 0
}

// Rewind marks every written byte as unread again.
func (b *IOBuffer) Rewind() {
	b.ri = 0
}

// Reset empties the buffer and restarts it at stream position zero.
func (b *IOBuffer) Reset() {
	b.ri, b.wi, b.pos, b.closed = 0, 0, 0, false
}

// Append copies p into the free region and returns the number of bytes
// copied.
func (b *IOBuffer) Append(p []byte) (int, error) {
	if b.closed {
		return 0, errors.WithStack(errBufferClosed)
	}

	n := copy(b.data[b.wi:], p)
	b.wi += n

	if n < len(p) {
		return n, errors.WithFields(
			errors.WithStack(errBufferFull),
			errors.Fields{
				"requested": len(p),
				"copied":    n,
			})
	}

	return n, nil
}

// Fill reads from r into the free region, at most limit bytes when limit > 0.
// It marks the buffer closed when r reports io.EOF.
func (b *IOBuffer) Fill(r io.Reader, limit int) (int, error) {
	if b.closed {
		return 0, nil
	}

	free := b.data[b.wi:]
	if limit > 0 && limit < len(free) {
		free = free[:limit]
	}

	if len(free) == 0 {
		return 0, errors.WithStack(errBufferFull)
	}

	n, err := r.Read(free)
	b.wi += n

	if err == io.EOF {
		b.closed = true
		return n, nil
	}

	if err != nil {
		return n, errors.Wrap(err, "failed to fill buffer")
	}

	return n, nil
}

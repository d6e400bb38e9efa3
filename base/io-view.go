package base

// Reader is a consuming view over an IOBuffer. Consumption advances the
// buffer's read index directly. A Reader may carry a soft limit on how far
// it may consume; the limit is kept as a stream position so that it is not
// affected by a compaction of the underlying buffer.
type Reader struct {
	buf     *IOBuffer
	limited bool
	limit   uint64
}

// WithLimit returns a view that may consume at most n more bytes.
func (r Reader) WithLimit(n int) Reader {
	if r.buf == nil || n < 0 {
		return r
	}

	lim := r.buf.ReaderPosition() + uint64(n)
	if !r.limited || lim < r.limit {
		r.limit = lim
	}

	r.limited = true

	return r
}

// Valid reports whether the view is bound to a buffer.
func (r Reader) Valid() bool {
	return r.buf != nil
}

func (r Reader) end() int {
	if !r.limited {
		return r.buf.wi
	}

	if r.limit <= r.buf.pos+uint64(r.buf.ri) {
		return r.buf.ri
	}

	if e := r.limit - r.buf.pos; e < uint64(r.buf.wi) {
		return int(e)
	}

	return r.buf.wi
}

// Available returns the number of bytes the view may still consume.
func (r Reader) Available() int {
	if r.buf == nil {
		return 0
	}

	return r.end() - r.buf.ri
}

// Closed reports whether no more bytes can ever become available through
// this view. A limit that hides written bytes keeps the view open.
func (r Reader) Closed() bool {
	if r.buf == nil {
		return true
	}

	return r.buf.closed && r.end() == r.buf.wi
}

// Position returns the stream position of the next byte to be consumed.
func (r Reader) Position() uint64 {
	if r.buf == nil {
		return 0
	}

	return r.buf.ReaderPosition()
}

// Peek returns the consumable bytes without consuming them.
func (r Reader) Peek() []byte {
	if r.buf == nil {
		return nil
	}

	return r.buf.data[r.buf.ri:r.end()]
}

// Skip consumes up to n bytes and returns how many were consumed.
func (r Reader) Skip(n int) int {
	if a := r.Available(); n > a {
		n = a
	}

	if n > 0 {
		r.buf.ri += n
	}

	return n
}

// TakeByte consumes a single byte.
func (r Reader) TakeByte() (byte, bool) {
	if r.Available() == 0 {
		return 0, false
	}

	c := r.buf.data[r.buf.ri]
	r.buf.ri++

	return c, true
}

// Take copies and consumes as many bytes as fit in p.
func (r Reader) Take(p []byte) int {
	return r.Skip(copy(p, r.Peek()))
}

// /////////////////////////////////////////////////////////////////////////////

// Writer is a producing view over an IOBuffer. Production advances the
// buffer's write index directly.
type Writer struct {
	buf     *IOBuffer
	limited bool
	limit   uint64
}

// WithLimit returns a view that may produce at most n more bytes.
func (w Writer) WithLimit(n int) Writer {
	if w.buf == nil || n < 0 {
		return w
	}

	lim := w.buf.WriterPosition() + uint64(n)
	if !w.limited || lim < w.limit {
		w.limit = lim
	}

	w.limited = true

	return w
}

func (w Writer) Valid() bool {
	return w.buf != nil
}

// Available returns the number of bytes the view may still produce.
func (w Writer) Available() int {
	if w.buf == nil {
		return 0
	}

	n := len(w.buf.data) - w.buf.wi

	if w.limited {
		p := w.buf.WriterPosition()
		if w.limit <= p {
			return 0
		}

		if l := w.limit - p; l < uint64(n) {
			n = int(l)
		}
	}

	return n
}

// Position returns the stream position of the next byte to be produced.
func (w Writer) Position() uint64 {
	if w.buf == nil {
		return 0
	}

	return w.buf.WriterPosition()
}

// Put copies as much of p as fits and returns the number of bytes produced.
func (w Writer) Put(p []byte) int {
	if n := w.Available(); len(p) > n {
		p = p[:n]
	}

	if len(p) == 0 {
		return 0
	}

	n := copy(w.buf.data[w.buf.wi:], p)
	w.buf.wi += n

	return n
}

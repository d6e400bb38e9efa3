package stream

import (
	"io"

	"github.com/hexbee-net/streamdec/base"
)

// filler tops up an IOBuffer from an io.Reader.
type filler struct {
	r     io.Reader
	limit int
	read  uint64
}

// fill compacts buf and reads once into it. It is a no-op on a closed buffer
// and on a buffer whose unread bytes take all of its capacity.
func (f *filler) fill(buf *base.IOBuffer) error {
	if buf.Closed() {
		return nil
	}

	buf.Compact()

	if buf.FreeLen() == 0 {
		return nil
	}

	n, err := buf.Fill(f.r, f.limit)
	f.read += uint64(n)

	return err
}

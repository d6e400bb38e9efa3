package memory

import (
	"bytes"
)

// Writer collects everything written to it.
type Writer struct {
	bytes.Buffer
	closed bool
}

func NewWriter(buf []byte) *Writer {
	return &Writer{
		Buffer: *bytes.NewBuffer(buf),
	}
}

func (w *Writer) Close() error {
	w.closed = true
	return nil
}

// Closed reports whether Close was called.
func (w *Writer) Closed() bool {
	return w.closed
}

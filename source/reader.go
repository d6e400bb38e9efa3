package source

import "io"

// Reader is a sequential input stream.
type Reader interface {
	io.Reader
	io.Closer

	// Size returns the length of the stream, or -1 when it is not known
	// up front.
	Size() int64
}

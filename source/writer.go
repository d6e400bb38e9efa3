package source

import "io"

// Writer is an output sink. Data is only guaranteed to be stored once Close
// returned without error.
type Writer interface {
	io.Writer
	io.Closer
}

package stream

import (
	"github.com/hexbee-net/streamdec/compression"
)

const (
	DefaultBufferSize    = 32 * 1024
	DefaultMaxAlloc      = 64 << 20
	DefaultMaxIterations = 1 << 24
)

// Options configure a Session.
type Options struct {
	// BufferSize is the capacity of the input buffer.
	BufferSize int
	// ReadLimit caps the bytes handed to a single decoder call and read by a
	// single refill. Zero means no cap.
	ReadLimit int
	// MaxAlloc is the largest pixel buffer plus work buffer a session
	// allocates for one image.
	MaxAlloc uint64
	// MaxIterations bounds the number of decoder calls a single stage may
	// take. Zero means no bound.
	MaxIterations int
	// Codec is the transport compression applied to the input. A nil Codec
	// sniffs the stream and decompresses it when it carries a known
	// signature.
	Codec compression.Codec
	// Raw disables the sniffing done for a nil Codec.
	Raw bool
}

func DefaultOptions() Options {
	return Options{
		BufferSize:    DefaultBufferSize,
		MaxAlloc:      DefaultMaxAlloc,
		MaxIterations: DefaultMaxIterations,
	}
}

func (o Options) withDefaults() Options {
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}

	if o.MaxAlloc == 0 {
		o.MaxAlloc = DefaultMaxAlloc
	}

	return o
}

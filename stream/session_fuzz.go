//go:build gofuzz
// +build gofuzz

package stream

import (
	"bytes"
	"context"
)

func FuzzDecodeAll(data []byte) int {
	opts := DefaultOptions()
	opts.BufferSize = 64
	opts.MaxAlloc = 1 << 20

	if _, _, err := DecodeAll(context.Background(), bytes.NewReader(data), opts, nil); err != nil {
		return 0
	}

	return 1
}

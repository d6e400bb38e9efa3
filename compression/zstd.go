package compression

import (
	"io"

	"github.com/hexbee-net/errors"
	"github.com/klauspost/compress/zstd"
)

type ZStd struct {
}

func (c ZStd) Name() string      { return "zstd" }
func (c ZStd) Extension() string { return ".zst" }
func (c ZStd) Magic() []byte     { return []byte{0x28, 0xb5, 0x2f, 0xfd} }

func (c ZStd) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open ZSTD stream")
	}

	return dec.IOReadCloser(), nil
}

func (c ZStd) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create ZSTD stream")
	}

	return enc, nil
}

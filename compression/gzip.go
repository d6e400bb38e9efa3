package compression

import (
	"compress/gzip"
	"io"

	"github.com/hexbee-net/errors"
)

type GZip struct {
}

func (c GZip) Name() string      { return "gzip" }
func (c GZip) Extension() string { return ".gz" }
func (c GZip) Magic() []byte     { return []byte{0x1f, 0x8b} }

func (c GZip) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open GZIP stream")
	}

	return zr, nil
}

func (c GZip) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

package compression

import (
	"io"
	"io/ioutil"

	"github.com/pierrec/lz4"
)

type LZ4 struct {
}

func (c LZ4) Name() string      { return "lz4" }
func (c LZ4) Extension() string { return ".lz4" }
func (c LZ4) Magic() []byte     { return []byte{0x04, 0x22, 0x4d, 0x18} }

func (c LZ4) NewReader(r io.Reader) (io.ReadCloser, error) {
	return ioutil.NopCloser(lz4.NewReader(r)), nil
}

func (c LZ4) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

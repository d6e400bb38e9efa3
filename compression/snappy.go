package compression

import (
	"io"
	"io/ioutil"

	"github.com/golang/snappy"
)

// Snappy is the framed snappy stream format, not raw snappy blocks.
type Snappy struct {
}

func (c Snappy) Name() string      { return "snappy" }
func (c Snappy) Extension() string { return ".sz" }
func (c Snappy) Magic() []byte     { return []byte("\xff\x06\x00\x00sNaPpY") }

func (c Snappy) NewReader(r io.Reader) (io.ReadCloser, error) {
	return ioutil.NopCloser(snappy.NewReader(r)), nil
}

func (c Snappy) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

package compression

import (
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/s2"
)

type S2 struct {
}

func (c S2) Name() string      { return "s2" }
func (c S2) Extension() string { return ".s2" }
func (c S2) Magic() []byte     { return []byte("\xff\x06\x00\x00S2sTwO") }

func (c S2) NewReader(r io.Reader) (io.ReadCloser, error) {
	return ioutil.NopCloser(s2.NewReader(r)), nil
}

func (c S2) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w), nil
}

package compression

import (
	"io"
	"io/ioutil"

	"github.com/andybalholm/brotli"
)

// Brotli streams carry no signature: they are only recognized by name or
// extension.
type Brotli struct {
}

func (c Brotli) Name() string      { return "brotli" }
func (c Brotli) Extension() string { return ".br" }
func (c Brotli) Magic() []byte     { return nil }

func (c Brotli) NewReader(r io.Reader) (io.ReadCloser, error) {
	return ioutil.NopCloser(brotli.NewReader(r)), nil
}

func (c Brotli) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return brotli.NewWriter(w), nil
}

// Package compression wraps transport compression formats around the byte
// streams fed to a decoder session.
package compression

import (
	"bufio"
	"bytes"
	"io"
	"io/ioutil"
	"path"
	"strings"

	"github.com/hexbee-net/errors"
)

const (
	errUnknownCodec = errors.Error("unknown compression codec")
)

// Codec is a streaming transport compression format.
type Codec interface {
	// Name is the codec's identifier, as accepted by Lookup.
	Name() string
	// Extension is the file name suffix of the codec, dot included.
	Extension() string
	// Magic is the signature that starts every stream of the codec, or nil
	// when the format has none.
	Magic() []byte

	NewReader(r io.Reader) (io.ReadCloser, error)
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// Codecs lists every supported codec.
var Codecs = []Codec{
	GZip{},
	Brotli{},
	ZStd{},
	S2{},
	LZ4{},
	Snappy{},
}

// Lookup returns the codec with the given name. The empty string and "none"
// return a nil Codec.
func Lookup(name string) (Codec, error) {
	switch n := strings.ToLower(name); n {
	case "", "none":
		return nil, nil
	default:
		for _, c := range Codecs {
			if c.Name() == n {
				return c, nil
			}
		}
	}

	return nil, errors.WithFields(
		errors.WithStack(errUnknownCodec),
		errors.Fields{
			"codec": name,
		})
}

// ForPath returns the codec matching the extension of p, or nil.
func ForPath(p string) Codec {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return nil
	}

	for _, c := range Codecs {
		if c.Extension() == ext {
			return c
		}
	}

	return nil
}

// Detect returns the codec whose signature starts header, or nil.
func Detect(header []byte) Codec {
	for _, c := range Codecs {
		if m := c.Magic(); len(m) > 0 && bytes.HasPrefix(header, m) {
			return c
		}
	}

	return nil
}

const maxMagicLen = 10

// NewAutoReader sniffs the start of r and, when it carries the signature of
// a known codec, returns a reader that decompresses it. Streams with no
// known signature are returned as is with a nil Codec.
func NewAutoReader(r io.Reader) (io.ReadCloser, Codec, error) {
	br := bufio.NewReader(r)

	header, err := br.Peek(maxMagicLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, nil, errors.Wrap(err, "failed to read stream header")
	}

	c := Detect(header)
	if c == nil {
		return ioutil.NopCloser(br), nil, nil
	}

	rc, err := c.NewReader(br)
	if err != nil {
		return nil, nil, err
	}

	return rc, c, nil
}

package local

import (
	"os"

	"github.com/hexbee-net/errors"
)

type File struct {
	FilePath string
	file     *os.File
}

// NewReader opens a local file for reading.
func NewReader(path string) (r *File, err error) {
	r = &File{
		FilePath: path,
	}

	if r.file, err = os.Open(path); err != nil {
		return nil, errors.Wrap(err, "failed to open source file")
	}

	return r, nil
}

// NewWriter creates, or truncates, a local file for writing.
func NewWriter(path string) (w *File, err error) {
	w = &File{
		FilePath: path,
	}

	if w.file, err = os.Create(path); err != nil {
		return nil, errors.Wrap(err, "failed to create target file")
	}

	return w, nil
}

// Reader //////////////////////////////

func (f *File) Read(b []byte) (int, error) {
	return f.file.Read(b)
}

func (f *File) Size() int64 {
	info, err := f.file.Stat()
	if err != nil {
		return -1
	}

	return info.Size()
}

// Writer //////////////////////////////

func (f *File) Write(p []byte) (n int, err error) {
	return f.file.Write(p)
}

func (f *File) Close() error {
	if err := f.file.Close(); err != nil {
		return errors.Wrap(err, "failed to close file")
	}

	return nil
}

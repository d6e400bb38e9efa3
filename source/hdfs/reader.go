package hdfs

import (
	"github.com/colinmarc/hdfs/v2"
	"github.com/hexbee-net/errors"
)

type Reader struct {
	file

	reader *hdfs.FileReader
}

// NewReader connects to the name nodes at hosts and opens name.
func NewReader(hosts []string, user string, name string) (*Reader, error) {
	reader := &Reader{
		file: file{
			Hosts:    hosts,
			User:     user,
			FilePath: name,
		},
	}

	if err := reader.connect(); err != nil {
		return nil, err
	}

	if err := reader.open(); err != nil {
		_ = reader.file.Close()
		return nil, err
	}

	return reader, nil
}

// NewReaderWithClient is the same as NewReader but allows passing your own HDFS client.
func NewReaderWithClient(client *hdfs.Client, name string) (*Reader, error) {
	reader := &Reader{
		file: file{
			User:           client.User(),
			FilePath:       name,
			client:         client,
			externalClient: true,
		},
	}

	if err := reader.open(); err != nil {
		return nil, err
	}

	return reader, nil
}

func (r *Reader) open() (err error) {
	r.reader, err = r.client.Open(r.FilePath)
	if err != nil {
		return errors.Wrap(err, "failed to create HDFS reader")
	}

	return nil
}

func (r *Reader) Read(p []byte) (n int, err error) {
	return r.reader.Read(p)
}

func (r *Reader) Size() int64 {
	return r.reader.Stat().Size()
}

func (r *Reader) Close() (err error) {
	if r.reader != nil {
		err = r.reader.Close()
		r.reader = nil

		if err != nil {
			return errors.Wrap(err, "failed to close HDFS reader")
		}
	}

	return r.file.Close()
}

package hdfs

import (
	"github.com/colinmarc/hdfs/v2"
	"github.com/hexbee-net/errors"
)

type Writer struct {
	file

	writer *hdfs.FileWriter
}

// NewWriter connects to the name nodes at hosts and creates name.
func NewWriter(hosts []string, user string, name string) (*Writer, error) {
	writer := &Writer{
		file: file{
			Hosts:    hosts,
			User:     user,
			FilePath: name,
		},
	}

	if err := writer.connect(); err != nil {
		return nil, err
	}

	if err := writer.create(); err != nil {
		_ = writer.file.Close()
		return nil, err
	}

	return writer, nil
}

// NewWriterWithClient is the same as NewWriter but allows passing your own HDFS client.
func NewWriterWithClient(client *hdfs.Client, name string) (*Writer, error) {
	writer := &Writer{
		file: file{
			User:           client.User(),
			FilePath:       name,
			client:         client,
			externalClient: true,
		},
	}

	if err := writer.create(); err != nil {
		return nil, err
	}

	return writer, nil
}

func (w *Writer) create() (err error) {
	w.writer, err = w.client.Create(w.FilePath)
	if err != nil {
		return errors.Wrap(err, "failed to create HDFS writer")
	}

	return nil
}

func (w *Writer) Write(p []byte) (n int, err error) {
	return w.writer.Write(p)
}

func (w *Writer) Close() (err error) {
	if w.writer != nil {
		err = w.writer.Close()
		w.writer = nil

		if err != nil {
			return errors.Wrap(err, "failed to close HDFS writer")
		}
	}

	return w.file.Close()
}

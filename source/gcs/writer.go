package gcs

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/hexbee-net/errors"
	"google.golang.org/api/option"
)

type Writer struct {
	object
	fileWriter *storage.Writer
}

// NewWriter creates a GCS Writer.
func NewWriter(ctx context.Context, bucketName, name string, opts ...option.ClientOption) (*Writer, error) {
	writer := &Writer{
		object: object{
			BucketName: bucketName,
			FilePath:   name,
			ctx:        ctx,
		},
	}

	if err := writer.connect(ctx, opts); err != nil {
		return nil, err
	}

	writer.create()

	return writer, nil
}

// NewWriterWithClient is the same as NewWriter but allows passing your own GCS client.
func NewWriterWithClient(ctx context.Context, client *storage.Client, bucketName, name string) (*Writer, error) {
	writer := &Writer{
		object: object{
			BucketName:     bucketName,
			FilePath:       name,
			ctx:            ctx,
			externalClient: true,
			Client:         client,
		},
	}

	writer.create()

	return writer, nil
}

func (w *Writer) Write(p []byte) (n int, err error) {
	return w.fileWriter.Write(p)
}

func (w *Writer) Close() error {
	if w.fileWriter != nil {
		err := w.fileWriter.Close()
		w.fileWriter = nil

		if err != nil {
			return errors.Wrap(err, "failed to close GCS writer")
		}
	}

	return w.object.Close()
}

func (w *Writer) create() {
	w.bind()
	w.fileWriter = w.Object.NewWriter(w.ctx)
}

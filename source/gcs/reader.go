package gcs

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/hexbee-net/errors"
	"google.golang.org/api/option"
)

// Reader streams a GCS object through a single range reader opened on the
// first Read.
type Reader struct {
	object

	fileSize int64
	stream   *storage.Reader
}

// NewReader creates a GCS Reader.
func NewReader(ctx context.Context, bucketName, name string, opts ...option.ClientOption) (*Reader, error) {
	reader := &Reader{
		object: object{
			BucketName: bucketName,
			FilePath:   name,
			ctx:        ctx,
		},
	}

	if err := reader.connect(ctx, opts); err != nil {
		return nil, err
	}

	if err := reader.open(ctx); err != nil {
		_ = reader.object.Close()
		return nil, err
	}

	return reader, nil
}

// NewReaderWithClient is the same as NewReader but allows passing your own GCS client.
func NewReaderWithClient(ctx context.Context, client *storage.Client, bucketName, name string) (*Reader, error) {
	reader := &Reader{
		object: object{
			BucketName:     bucketName,
			FilePath:       name,
			ctx:            ctx,
			externalClient: true,
			Client:         client,
		},
	}

	if err := reader.open(ctx); err != nil {
		return nil, err
	}

	return reader, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	if r.stream == nil {
		stream, err := r.Object.NewRangeReader(r.ctx, 0, -1)
		if err != nil {
			return 0, errors.Wrap(err, "failed to open object stream")
		}

		r.stream = stream
	}

	return r.stream.Read(p)
}

func (r *Reader) Size() int64 {
	return r.fileSize
}

func (r *Reader) Close() error {
	if r.stream != nil {
		err := r.stream.Close()
		r.stream = nil

		if err != nil {
			return errors.Wrap(err, "failed to close object stream")
		}
	}

	return r.object.Close()
}

func (r *Reader) open(ctx context.Context) error {
	r.bind()

	objAttrs, err := r.Object.Attrs(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get object attributes")
	}

	r.fileSize = objAttrs.Size

	return nil
}

package azblob

import (
	"context"
	"io"

	"github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/hexbee-net/errors"
)

type ReaderOptions struct {
	PipelineOptions

	// MaxRetryRequests is the number of times a broken download is resumed
	// before Read gives up.
	MaxRetryRequests int
}

// Reader streams a block blob through a single download opened on the
// first Read.
type Reader struct {
	blob

	fileSize int64
	body     io.ReadCloser
	options  ReaderOptions
}

// NewReader creates an Azure Blob Reader. A nil credential accesses the blob
// anonymously, or through the SAS token carried by the URL.
func NewReader(ctx context.Context, URL string, credential azblob.Credential, options ReaderOptions) (r *Reader, err error) {
	r = &Reader{
		blob: blob{
			ctx:        ctx,
			credential: credential,
		},
		fileSize: int64(-1),
		options:  options,
	}

	if err := r.blob.open(URL, options.PipelineOptions); err != nil {
		return nil, err
	}

	props, err := r.blockBlobURL.GetProperties(r.ctx, azblob.BlobAccessConditions{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get blob properties")
	}

	r.fileSize = props.ContentLength()

	return r, nil
}

func (r *Reader) Read(p []byte) (n int, err error) {
	if r.blockBlobURL == nil {
		return 0, errors.WithStack(errURLNotOpened)
	}

	if r.body == nil {
		resp, err := r.blockBlobURL.Download(r.ctx, 0, azblob.CountToEnd, azblob.BlobAccessConditions{}, false)
		if err != nil {
			return 0, errors.Wrap(err, "failed to download blob")
		}

		r.body = resp.Body(azblob.RetryReaderOptions{MaxRetryRequests: r.options.MaxRetryRequests})
	}

	n, err = r.body.Read(p)
	if err != nil && err != io.EOF {
		return n, errors.Wrap(err, "failed to read data")
	}

	return n, err
}

func (r *Reader) Size() int64 {
	return r.fileSize
}

func (r *Reader) Close() error {
	if r.body == nil {
		return nil
	}

	err := r.body.Close()
	r.body = nil

	return err
}

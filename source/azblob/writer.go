package azblob

import (
	"context"
	"io"

	"github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/hexbee-net/errors"
)

type WriterOptions struct {
	PipelineOptions

	// Parallelism limits the number of buffers in flight during the upload (0 = default)
	Parallelism int
}

// Writer uploads everything written to it as a block blob.
type Writer struct {
	blob

	writeDone  chan error
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	options    WriterOptions
}

// NewWriter creates an Azure Blob Writer.
func NewWriter(ctx context.Context, URL string, credential azblob.Credential, options WriterOptions) (w *Writer, err error) {
	w = &Writer{
		blob: blob{
			ctx:        ctx,
			credential: credential,
		},
		writeDone: make(chan error, 1),
		options:   options,
	}

	if err := w.blob.open(URL, options.PipelineOptions); err != nil {
		return nil, err
	}

	w.pipeReader, w.pipeWriter = io.Pipe()

	go func(ctx context.Context, blobURL azblob.BlockBlobURL, parallelism int, reader *io.PipeReader, done chan<- error) {
		defer close(done)

		_, err := azblob.UploadStreamToBlockBlob(ctx, reader, blobURL, azblob.UploadStreamToBlockBlobOptions{MaxBuffers: parallelism})
		if err != nil {
			_ = reader.CloseWithError(err)
		}

		done <- err
	}(w.ctx, *w.blockBlobURL, w.options.Parallelism, w.pipeReader, w.writeDone)

	return w, nil
}

func (w *Writer) Write(p []byte) (n int, err error) {
	n, err = w.pipeWriter.Write(p)
	if err != nil {
		return n, errors.Wrap(err, "failed to write to blob upload")
	}

	return n, nil
}

// Close ends the upload and waits for it to complete.
func (w *Writer) Close() error {
	if err := w.pipeWriter.Close(); err != nil {
		return errors.Wrap(err, "failed to close pipe writer")
	}

	if err := <-w.writeDone; err != nil {
		return errors.Wrap(err, "failed to upload blob")
	}

	return nil
}

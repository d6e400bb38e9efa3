package s3

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/hexbee-net/errors"
)

type WriterOptions struct {
	// ContentType is stored with the object when not empty.
	ContentType string
	// Uploader tunes the multipart uploader (part size, concurrency).
	Uploader []func(*s3manager.Uploader)
}

// Writer uploads everything written to it as a single S3 object.
type Writer struct {
	object

	writeDone  chan error
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	uploader   *s3manager.Uploader
}

// NewWriter creates an S3 Writer.
func NewWriter(ctx context.Context, bucket, key string, options WriterOptions, configProvider client.ConfigProvider, configs ...*aws.Config) (*Writer, error) {
	return NewWriterWithClient(ctx, s3.New(configProvider, configs...), bucket, key, options)
}

// NewWriterWithClient is the same as NewWriter but allows passing your own S3 client.
func NewWriterWithClient(ctx context.Context, s3Client s3iface.S3API, bucket, key string, options WriterOptions) (*Writer, error) {
	writer := Writer{
		object: object{
			ctx:        ctx,
			client:     s3Client,
			BucketName: bucket,
			Key:        key,
		},

		writeDone: make(chan error, 1),
	}

	writer.pipeReader, writer.pipeWriter = io.Pipe()
	writer.uploader = s3manager.NewUploaderWithClient(writer.client, options.Uploader...)

	uploadParams := &s3manager.UploadInput{
		Bucket: aws.String(writer.BucketName),
		Key:    aws.String(writer.Key),
		Body:   writer.pipeReader,
	}

	if options.ContentType != "" {
		uploadParams.ContentType = aws.String(options.ContentType)
	}

	go func(uploader *s3manager.Uploader, params *s3manager.UploadInput, done chan<- error) {
		defer close(done)

		_, err := uploader.UploadWithContext(writer.ctx, params)
		if err != nil {
			_ = writer.pipeReader.CloseWithError(err)
		}

		done <- err
	}(writer.uploader, uploadParams, writer.writeDone)

	return &writer, nil
}

func (w *Writer) Write(p []byte) (n int, err error) {
	n, err = w.pipeWriter.Write(p)
	if err != nil {
		return n, errors.Wrap(err, "failed to write to S3 upload")
	}

	return n, nil
}

// Close ends the upload and waits for it to complete.
func (w *Writer) Close() error {
	if err := w.pipeWriter.Close(); err != nil {
		return errors.Wrap(err, "failed to close S3 upload")
	}

	if err := <-w.writeDone; err != nil {
		return errors.Wrap(err, "failed to upload object")
	}

	return nil
}

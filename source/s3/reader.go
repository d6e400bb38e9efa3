package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/hexbee-net/errors"
)

const (
	rangeHeader = "bytes=%d-%d"
)

// Reader streams an S3 object with one ranged GET per Read.
type Reader struct {
	object

	fileSize   int64
	offset     int64
	downloader *s3manager.Downloader
}

// NewReader creates an S3 Reader.
func NewReader(ctx context.Context, bucket, key string, configProvider client.ConfigProvider, configs ...*aws.Config) (*Reader, error) {
	return NewReaderWithClient(ctx, s3.New(configProvider, configs...), bucket, key)
}

// NewReaderWithClient is the same as NewReader but allows passing your own S3 client.
func NewReaderWithClient(ctx context.Context, s3Client s3iface.S3API, bucket, key string) (*Reader, error) {
	reader := Reader{
		object: object{
			ctx:        ctx,
			client:     s3Client,
			BucketName: bucket,
			Key:        key,
		},

		fileSize:   -1,
		downloader: s3manager.NewDownloaderWithClient(s3Client),
	}

	input := &s3.HeadObjectInput{
		Bucket: aws.String(reader.BucketName),
		Key:    aws.String(reader.Key),
	}

	headObject, err := reader.client.HeadObjectWithContext(reader.ctx, input)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == "NotFound" {
			return nil, errors.WithFields(
				errors.WithStack(errNotFound),
				errors.Fields{
					"bucket": bucket,
					"key":    key,
				})
		}

		return nil, errors.Wrap(err, "failed to fetch object description")
	}

	if headObject.ContentLength != nil {
		reader.fileSize = *headObject.ContentLength
	}

	return &reader, nil
}

func (r *Reader) Read(p []byte) (n int, err error) {
	if r.fileSize >= 0 && r.offset >= r.fileSize {
		return 0, io.EOF
	}

	if len(p) == 0 {
		return 0, nil
	}

	getObj := &s3.GetObjectInput{
		Bucket: aws.String(r.BucketName),
		Key:    aws.String(r.Key),
		Range:  aws.String(r.bytesRange(len(p))),
	}

	wab := aws.NewWriteAtBuffer(p)

	bytesDownloaded, err := r.downloader.DownloadWithContext(r.ctx, wab, getObj)
	if err != nil {
		return 0, errors.Wrap(err, "failed to download object range")
	}

	if buf := wab.Bytes(); len(buf) > len(p) {
		// backing buffer reassigned, copy over some of the data
		copy(p, buf)
		bytesDownloaded = int64(len(p))
	}

	r.offset += bytesDownloaded

	if bytesDownloaded == 0 {
		return 0, io.EOF
	}

	return int(bytesDownloaded), nil
}

func (r *Reader) Size() int64 {
	return r.fileSize
}

func (r *Reader) Close() error {
	return nil
}

// bytesRange returns the Range header for the next n bytes. With an unknown
// object size the requester relies on S3 to clip the range.
func (r *Reader) bytesRange(n int) string {
	end := r.offset + int64(n) - 1

	if r.fileSize >= 0 && end > r.fileSize-1 {
		end = r.fileSize - 1
	}

	return fmt.Sprintf(rangeHeader, r.offset, end)
}

package gcs

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/hexbee-net/errors"
	"google.golang.org/api/option"
)

const (
	errInstantiate = errors.Error("failed to instantiate GCS client")
)

type object struct {
	BucketName string
	FilePath   string

	ctx            context.Context
	externalClient bool
	Client         *storage.Client
	Object         *storage.ObjectHandle
}

func (o *object) connect(ctx context.Context, opts []option.ClientOption) error {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return errors.WithFields(
			errors.WithStack(errInstantiate),
			errors.Fields{
				"cause": err.Error(),
			})
	}

	o.Client = client

	return nil
}

func (o *object) bind() {
	o.Object = o.Client.Bucket(o.BucketName).Object(o.FilePath)
}

func (o *object) Close() error {
	if o.Client != nil && !o.externalClient {
		err := o.Client.Close()
		o.Client = nil

		if err != nil {
			return errors.Wrap(err, "failed to close GCS client")
		}
	}

	return nil
}

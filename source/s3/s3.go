package s3

import (
	"context"

	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/hexbee-net/errors"
)

type object struct {
	ctx    context.Context
	client s3iface.S3API

	BucketName string
	Key        string
}

const (
	errNotFound = errors.Error("object not found")
)

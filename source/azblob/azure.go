package azblob

import (
	"context"
	"net/url"

	"github.com/Azure/azure-pipeline-go/pipeline"
	"github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/hexbee-net/errors"
)

const (
	errURLNotOpened = errors.Error("url not opened")
)

// PipelineOptions configure the HTTP pipeline used to reach a blob.
type PipelineOptions struct {
	// HTTPSender configures the sender of HTTP requests
	HTTPSender pipeline.Factory
	// Retry configures the built-in retry policy behavior.
	RetryOptions azblob.RetryOptions
	// Log configures the pipeline's logging infrastructure indicating what information is logged and where.
	Log pipeline.LogOptions
}

type blob struct {
	ctx          context.Context
	URL          *url.URL
	credential   azblob.Credential
	blockBlobURL *azblob.BlockBlobURL
}

func (b *blob) open(rawURL string, options PipelineOptions) (err error) {
	if b.URL, err = url.Parse(rawURL); err != nil {
		return errors.Wrap(err, "failed to parse URL")
	}

	if b.credential == nil {
		b.credential = azblob.NewAnonymousCredential()
	}

	blobURL := azblob.NewBlockBlobURL(*b.URL, azblob.NewPipeline(b.credential, azblob.PipelineOptions{
		HTTPSender: options.HTTPSender,
		Retry:      options.RetryOptions,
		Log:        options.Log,
	}))

	b.blockBlobURL = &blobURL

	return nil
}

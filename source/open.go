package source

import (
	"context"
	"net/http"
	"os"
	"os/user"

	azstorage "github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/hexbee-net/errors"
	"google.golang.org/api/option"

	"github.com/hexbee-net/streamdec/source/azblob"
	"github.com/hexbee-net/streamdec/source/gcs"
	"github.com/hexbee-net/streamdec/source/hdfs"
	httpsource "github.com/hexbee-net/streamdec/source/http"
	"github.com/hexbee-net/streamdec/source/local"
	"github.com/hexbee-net/streamdec/source/s3"
)

// Options configure the storage backends reached through Open and Create.
// The zero value uses the ambient credentials of every backend.
type Options struct {
	AWS      []*aws.Config
	S3Writer s3.WriterOptions

	GCS []option.ClientOption

	AzureCredential azstorage.Credential
	AzureReader     azblob.ReaderOptions
	AzureWriter     azblob.WriterOptions

	// HDFSUser is used when the location carries no user. It defaults to
	// $HADOOP_USER_NAME, then to the current user.
	HDFSUser string

	HTTPClient *http.Client
}

// Open opens uri for reading.
func Open(ctx context.Context, uri string, opts Options) (Reader, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme {
	case SchemeFile:
		return opened(local.NewReader(loc.Path))

	case SchemeS3:
		sess, err := session.NewSession(opts.AWS...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS session")
		}

		return opened(s3.NewReader(ctx, loc.Host, loc.Path, sess))

	case SchemeGCS:
		return opened(gcs.NewReader(ctx, loc.Host, loc.Path, opts.GCS...))

	case SchemeHDFS:
		return opened(hdfs.NewReader([]string{loc.Host}, hdfsUser(loc, opts), loc.Path))

	case SchemeAzBlob:
		return opened(azblob.NewReader(ctx, loc.URL, opts.AzureCredential, opts.AzureReader))

	case SchemeHTTP:
		return opened(httpsource.Get(ctx, opts.HTTPClient, loc.URL))
	}

	return nil, unsupported(loc)
}

// Create opens uri for writing, replacing any existing content.
func Create(ctx context.Context, uri string, opts Options) (Writer, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme {
	case SchemeFile:
		return created(local.NewWriter(loc.Path))

	case SchemeS3:
		sess, err := session.NewSession(opts.AWS...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS session")
		}

		return created(s3.NewWriter(ctx, loc.Host, loc.Path, opts.S3Writer, sess))

	case SchemeGCS:
		return created(gcs.NewWriter(ctx, loc.Host, loc.Path, opts.GCS...))

	case SchemeHDFS:
		return created(hdfs.NewWriter([]string{loc.Host}, hdfsUser(loc, opts), loc.Path))

	case SchemeAzBlob:
		return created(azblob.NewWriter(ctx, loc.URL, opts.AzureCredential, opts.AzureWriter))
	}

	return nil, unsupported(loc)
}

// opened and created keep a typed nil out of the returned interface.
func opened(r Reader, err error) (Reader, error) {
	if err != nil {
		return nil, err
	}

	return r, nil
}

func created(w Writer, err error) (Writer, error) {
	if err != nil {
		return nil, err
	}

	return w, nil
}

func unsupported(loc Location) error {
	return errors.WithFields(
		errors.WithStack(errUnsupportedScheme),
		errors.Fields{
			"scheme":   string(loc.Scheme),
			"location": loc.URL,
		})
}

func hdfsUser(loc Location, opts Options) string {
	switch {
	case loc.User != "":
		return loc.User
	case opts.HDFSUser != "":
		return opts.HDFSUser
	}

	if name := os.Getenv("HADOOP_USER_NAME"); name != "" {
		return name
	}

	if u, err := user.Current(); err == nil {
		return u.Username
	}

	return ""
}

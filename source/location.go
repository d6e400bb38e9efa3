// Package source opens the inputs a decoder session reads from and the sinks
// fixture dumps are written to, addressed by URI.
//
// Supported locations:
//
//	path/to/file.gif, file:///abs/path.gif           local files
//	s3://bucket/key                                  Amazon S3
//	gs://bucket/object                               Google Cloud Storage
//	hdfs://[user@]namenode:port/path                 HDFS
//	https://account.blob.core.windows.net/c/blob     Azure Blob Storage
//	http(s)://host/path                              plain HTTP GET (read only)
package source

import (
	"net/url"
	"strings"

	"github.com/hexbee-net/errors"
)

const (
	errUnsupportedScheme = errors.Error("unsupported location scheme")
	errInvalidLocation   = errors.Error("invalid location")
)

type Scheme string

const (
	SchemeFile   Scheme = "file"
	SchemeS3     Scheme = "s3"
	SchemeGCS    Scheme = "gs"
	SchemeHDFS   Scheme = "hdfs"
	SchemeAzBlob Scheme = "azblob"
	SchemeHTTP   Scheme = "http"
)

const azureBlobHostSuffix = ".blob.core.windows.net"

// Location is a parsed source URI.
type Location struct {
	Scheme Scheme
	// Host is the bucket for S3 and GCS, and the name node address for HDFS.
	Host string
	// Path is the object key for S3 and GCS, the file path otherwise.
	Path string
	// User is the HDFS user given in the URI.
	User string
	// URL is the URI as given.
	URL string
}

// ParseLocation splits uri into a Location. Strings without a scheme are
// local paths.
func ParseLocation(uri string) (Location, error) {
	if !strings.Contains(uri, "://") {
		if uri == "" {
			return Location{}, invalidLocation(uri, "empty path")
		}

		return Location{Scheme: SchemeFile, Path: uri, URL: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, errors.Wrap(err, "failed to parse location")
	}

	loc := Location{
		Host: u.Host,
		Path: u.Path,
		URL:  uri,
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		loc.Scheme = SchemeFile

	case "s3", "gs":
		loc.Scheme = Scheme(strings.ToLower(u.Scheme))
		loc.Path = strings.TrimPrefix(u.Path, "/")

		if loc.Host == "" || loc.Path == "" {
			return Location{}, invalidLocation(uri, "bucket and key are required")
		}

	case "hdfs":
		loc.Scheme = SchemeHDFS

		if u.User != nil {
			loc.User = u.User.Username()
		}

		if loc.Host == "" {
			return Location{}, invalidLocation(uri, "name node address is required")
		}

	case "http", "https":
		loc.Scheme = SchemeHTTP
		if strings.HasSuffix(strings.ToLower(u.Hostname()), azureBlobHostSuffix) {
			loc.Scheme = SchemeAzBlob
		}

	default:
		return Location{}, errors.WithFields(
			errors.WithStack(errUnsupportedScheme),
			errors.Fields{
				"scheme":   u.Scheme,
				"location": uri,
			})
	}

	if loc.Path == "" {
		return Location{}, invalidLocation(uri, "path is required")
	}

	return loc, nil
}

func invalidLocation(uri, reason string) error {
	return errors.WithFields(
		errors.WithStack(errInvalidLocation),
		errors.Fields{
			"location": uri,
			"reason":   reason,
		})
}

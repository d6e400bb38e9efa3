package http

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/hexbee-net/errors"
)

const (
	errBadStatus = errors.Error("unexpected HTTP status")
)

// Reader is a stream read from an HTTP request or response body.
type Reader struct {
	body multipart.File
	resp *http.Response
	size int64
}

// NewReader opens the content of an uploaded multipart file.
func NewReader(header *multipart.FileHeader) (r *Reader, err error) {
	r = &Reader{
		size: header.Size,
	}

	r.body, err = header.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open HTTP stream")
	}

	return r, nil
}

// Get issues a GET request for url and streams the response body. A nil
// client means http.DefaultClient.
func Get(ctx context.Context, client *http.Client, url string) (*Reader, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build HTTP request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch HTTP stream")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()

		return nil, errors.WithFields(
			errors.WithStack(errBadStatus),
			errors.Fields{
				"url":    url,
				"status": resp.Status,
			})
	}

	return &Reader{resp: resp, size: resp.ContentLength}, nil
}

func (r *Reader) Read(p []byte) (n int, err error) {
	if r.resp != nil {
		return r.resp.Body.Read(p)
	}

	return r.body.Read(p)
}

func (r *Reader) Size() int64 {
	return r.size
}

func (r *Reader) Close() error {
	if r.resp != nil {
		return r.resp.Body.Close()
	}

	return r.body.Close()
}

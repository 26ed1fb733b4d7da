package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
)

var ErrTooLarge = errors.New("response body exceeds size limit")

type Fetcher interface {
	// Fetch issues a GET for url and returns the response body. The caller
	// closes it. Errors are *entity.DownloadFailedError or *entity.TransportError.
	Fetch(ctx context.Context, role, url string) (io.ReadCloser, error)
}

type Options struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

type httpFetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

func NewFetcher(opts Options) Fetcher {
	return NewFetcherWithClient(&http.Client{Timeout: opts.Timeout}, opts)
}

func NewFetcherWithClient(client *http.Client, opts Options) Fetcher {
	return &httpFetcher{
		client:    client,
		maxBytes:  opts.MaxBytes,
		userAgent: opts.UserAgent,
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, role, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &entity.TransportError{Role: role, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &entity.TransportError{Role: role, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, &entity.DownloadFailedError{Role: role, StatusCode: resp.StatusCode}
	}

	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		resp.Body.Close()
		return nil, &entity.TransportError{Role: role, Err: fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)}
	}

	return &body{ReadCloser: resp.Body, role: role, remaining: f.maxBytes, limited: f.maxBytes > 0}, nil
}

// body maps read failures to TransportError and enforces the size limit.
type body struct {
	io.ReadCloser
	role      string
	remaining int64
	limited   bool
}

func (b *body) Read(p []byte) (int, error) {
	if b.limited {
		if b.remaining <= 0 {
			// one byte probe tells EOF apart from an oversized body
			var probe [1]byte
			n, err := b.ReadCloser.Read(probe[:])
			if n > 0 {
				return 0, &entity.TransportError{Role: b.role, Err: ErrTooLarge}
			}
			return 0, b.wrap(err)
		}
		if int64(len(p)) > b.remaining {
			p = p[:b.remaining]
		}
	}

	n, err := b.ReadCloser.Read(p)
	b.remaining -= int64(n)
	return n, b.wrap(err)
}

func (b *body) wrap(err error) error {
	if err == nil || err == io.EOF {
		return err
	}
	return &entity.TransportError{Role: b.role, Err: err}
}

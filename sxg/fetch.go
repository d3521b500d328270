package sxg

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Response is an origin HTTP response captured for signing. It is owned
// exclusively by one generation and never mutated by the pipeline.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header holds the response headers. Value order per name is
	// preserved.
	Header http.Header

	// Body is the full response body.
	Body []byte
}

// Fetcher is the host-supplied capability that retrieves the origin
// response. Host adapters (edge workers, test harnesses) provide their
// own implementation; HTTPFetcher covers plain net/http hosts.
type Fetcher interface {
	Fetch(ctx context.Context, req *http.Request) (*Response, error)
}

// maxFetchBodySize bounds how much of the origin body is read.
const maxFetchBodySize = 64 << 20

// HTTPFetcher fetches origin responses with a net/http client.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher. When client is nil,
// http.DefaultClient is used.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPFetcher{client: client}
}

// Fetch performs the request and buffers the full response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *http.Request) (*Response, error) {
	resp, err := f.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBodySize+1))
	if err != nil {
		return nil, err
	}

	if len(body) > maxFetchBodySize {
		return nil, fmt.Errorf("origin body exceeds %d bytes", maxFetchBodySize)
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}, nil
}

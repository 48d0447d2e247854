package httpclient

import (
	"context"
	"io"
)

// RequestDoer defines the interface for HTTP client implementations.
// It provides the two request shapes the planning service needs: buffered
// JSON requests and streamed binary downloads.
type RequestDoer interface {
	// DoRequest makes an HTTP request with the given options.
	// Returns the response body and any error that occurred.
	DoRequest(ctx context.Context, opts RequestOptions) ([]byte, error)

	// StreamRequest makes an HTTP request with the given options and streams
	// the response. The caller is responsible for closing the returned reader.
	StreamRequest(ctx context.Context, opts RequestOptions) (io.ReadCloser, error)
}

// Compile-time check that HTTPClient satisfies the interface.
var _ RequestDoer = &HTTPClient{}

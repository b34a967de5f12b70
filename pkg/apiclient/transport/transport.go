// Package transport defines the thin seam between the request pipeline and
// the HTTP client that performs the network exchange.
package transport

import (
	"context"
	"net/http"
)

// Request is the wire form of one call: everything the HTTP client needs and
// nothing the pipeline keeps.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Exchange is the raw outcome of a completed network exchange.
type Exchange struct {
	// StatusCode is the final response status; zero when the transport
	// provided none.
	StatusCode int

	// Header holds the response headers, if any.
	Header http.Header

	// Body is the full response payload.
	Body []byte

	// URL is the final URL of the exchange after redirects.
	URL string
}

// Adapter performs exactly one network exchange per call. A returned error
// means the exchange itself could not complete; application-level status
// codes, including non-2xx, are reported through the Exchange. Adapters do
// not log.
type Adapter interface {
	Execute(ctx context.Context, req *Request) (*Exchange, error)
}

// Func adapts a plain function to the Adapter interface.
type Func func(ctx context.Context, req *Request) (*Exchange, error)

// Execute calls f(ctx, req).
func (f Func) Execute(ctx context.Context, req *Request) (*Exchange, error) {
	return f(ctx, req)
}

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/tjfontaine/apicore/internal/completion"
	"github.com/tjfontaine/apicore/pkg/apiclient/apierr"
)

// DefaultTimeout bounds a whole exchange, from dial to the last body byte.
const DefaultTimeout = 60 * time.Second

// HTTPOption configures the HTTP adapter.
type HTTPOption func(*HTTP)

// WithHTTPClient sets a custom HTTP client. Its timeout and transport are
// used as is.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = client
	}
}

// WithTimeout sets the request/resource timeout of the default client. It is
// fixed for the adapter's lifetime.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.timeout = d
	}
}

// WithUserAgent sets the User-Agent header for requests that do not carry one.
func WithUserAgent(ua string) HTTPOption {
	return func(h *HTTP) {
		h.userAgent = ua
	}
}

// WithTokenSource supplies bearer tokens for requests that carry no
// Authorization header. A token source failure is reported as an expired
// token.
func WithTokenSource(ts oauth2.TokenSource) HTTPOption {
	return func(h *HTTP) {
		h.tokens = ts
	}
}

// HTTP is an Adapter backed by net/http. It is safe for concurrent use.
type HTTP struct {
	client     *http.Client
	timeout    time.Duration
	userAgent  string
	tokens     oauth2.TokenSource
	publicOnly bool
}

// NewHTTP creates an HTTP adapter. Unless WithHTTPClient is given, the
// client's transport is instrumented with OpenTelemetry.
func NewHTTP(opts ...HTTPOption) *HTTP {
	h := &HTTP{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(h)
	}
	if h.client == nil {
		var base http.RoundTripper = http.DefaultTransport
		if h.publicOnly {
			base = publicOnlyTransport()
		}
		h.client = &http.Client{
			Timeout:   h.timeout,
			Transport: otelhttp.NewTransport(base),
		}
	}
	return h
}

// Execute performs one exchange. The blocking client call runs behind a
// completion cell; Execute returns when the cell resolves or ctx is done,
// whichever happens first, and never more than once.
func (h *HTTP) Execute(ctx context.Context, req *Request) (*Exchange, error) {
	httpReq, err := h.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	cell := completion.Go(func() (*Exchange, error) {
		return h.do(httpReq)
	})
	return cell.Wait(ctx)
}

func (h *HTTP) newRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	if h.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", h.userAgent)
	}

	if h.tokens != nil && httpReq.Header.Get("Authorization") == "" {
		tok, err := h.tokens.Token()
		if err != nil {
			return nil, apierr.ExpiredToken(err)
		}
		if !tok.Valid() {
			return nil, apierr.ExpiredToken(nil)
		}
		tok.SetAuthHeader(httpReq)
	}

	return httpReq, nil
}

func (h *HTTP) do(req *http.Request) (*Exchange, error) {
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	ex := &Exchange{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		ex.URL = resp.Request.URL.String()
	}
	return ex, nil
}

package apiclient

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/tjfontaine/apicore/internal/json"
	"github.com/tjfontaine/apicore/pkg/apiclient/transport"
)

// Method is an HTTP request method.
type Method string

const (
	MethodGet     Method = http.MethodGet
	MethodHead    Method = http.MethodHead
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodPatch   Method = http.MethodPatch
	MethodDelete  Method = http.MethodDelete
	MethodOptions Method = http.MethodOptions
)

// Valid reports whether m is a supported method.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodOptions:
		return true
	}
	return false
}

// readOnly reports whether parameters travel in the query string by default.
func (m Method) readOnly() bool {
	return m == MethodGet || m == MethodHead
}

// ErrInvalidDescriptor is wrapped by every descriptor construction failure.
var ErrInvalidDescriptor = errors.New("invalid request descriptor")

// DescriptorOption configures a descriptor at construction.
type DescriptorOption func(*Descriptor)

// WithParameters sets the request parameters. params must serialize through
// the JSON codec; the query-string encoder additionally requires an object.
func WithParameters(params any) DescriptorOption {
	return func(d *Descriptor) {
		d.parameters = params
	}
}

// WithHeaders sets request headers. The map is copied.
func WithHeaders(headers map[string]string) DescriptorOption {
	return func(d *Descriptor) {
		if d.headers == nil {
			d.headers = make(map[string]string, len(headers))
		}
		maps.Copy(d.headers, headers)
	}
}

// WithHeader sets a single request header.
func WithHeader(key, value string) DescriptorOption {
	return WithHeaders(map[string]string{key: value})
}

// WithEncoder overrides the method-derived parameter encoder.
func WithEncoder(enc ParameterEncoder) DescriptorOption {
	return func(d *Descriptor) {
		d.encoder = enc
	}
}

// WithKeyDecoding sets the response key strategy.
func WithKeyDecoding(k KeyDecoding) DescriptorOption {
	return func(d *Descriptor) {
		d.keyDecoding = k
	}
}

// WithAccessToken carries a bearer token for the request.
func WithAccessToken(token string) DescriptorOption {
	return func(d *Descriptor) {
		d.accessToken = token
	}
}

// WithCache marks the request as cacheable. No cache is consulted by the
// pipeline itself.
func WithCache(enabled bool) DescriptorOption {
	return func(d *Descriptor) {
		d.useCache = enabled
	}
}

// Descriptor describes one endpoint call. It is immutable once constructed
// and safe to share between goroutines.
type Descriptor struct {
	target      string
	method      Method
	parameters  any
	headers     map[string]string
	encoder     ParameterEncoder
	keyDecoding KeyDecoding
	accessToken string
	useCache    bool
}

// NewDescriptor creates a descriptor for method and the absolute URL target.
// Unless overridden, GET and HEAD parameters are query-encoded and all other
// methods send a JSON body, both with snake_case keys; responses are decoded
// with snake_case keys translated to camelCase.
func NewDescriptor(method Method, target string, opts ...DescriptorOption) (*Descriptor, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unsupported method %q", ErrInvalidDescriptor, method)
	}
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("%w: empty target", ErrInvalidDescriptor)
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: target %q is not an absolute URL", ErrInvalidDescriptor, target)
	}

	d := &Descriptor{
		target:      target,
		method:      method,
		keyDecoding: KeyDecodingSnakeToCamel,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.encoder == nil {
		if method.readOnly() {
			d.encoder = URLEncoding(KeyEncodingSnakeCase)
		} else {
			d.encoder = JSONEncoding(KeyEncodingSnakeCase)
		}
	}
	return d, nil
}

// MustDescriptor is like NewDescriptor but panics on error. It is meant for
// package-level endpoint tables whose inputs are constants.
func MustDescriptor(method Method, target string, opts ...DescriptorOption) *Descriptor {
	d, err := NewDescriptor(method, target, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Target returns the absolute URL of the call.
func (d *Descriptor) Target() string { return d.target }

// Method returns the request method.
func (d *Descriptor) Method() Method { return d.method }

// Parameters returns the request parameters, possibly nil.
func (d *Descriptor) Parameters() any { return d.parameters }

// Headers returns a copy of the request headers.
func (d *Descriptor) Headers() map[string]string { return maps.Clone(d.headers) }

// Encoder returns the parameter encoder.
func (d *Descriptor) Encoder() ParameterEncoder { return d.encoder }

// KeyDecoding returns the response key strategy.
func (d *Descriptor) KeyDecoding() KeyDecoding { return d.keyDecoding }

// AccessToken returns the bearer token, if any.
func (d *Descriptor) AccessToken() string { return d.accessToken }

// UseCache reports whether the caller asked for a cacheable request.
func (d *Descriptor) UseCache() bool { return d.useCache }

// WireRequest encodes the descriptor into a transport request. Every call
// returns a fresh request.
func (d *Descriptor) WireRequest() (*transport.Request, error) {
	req := &transport.Request{
		Method: string(d.method),
		URL:    d.target,
		Header: make(http.Header, len(d.headers)+1),
	}
	for k, v := range d.headers {
		req.Header.Set(k, v)
	}
	if d.accessToken != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+d.accessToken)
	}
	if err := d.encoder.Encode(req, d.parameters); err != nil {
		return nil, err
	}
	return req, nil
}

// String returns a human-readable summary for diagnostics. The
// Authorization header is redacted.
func (d *Descriptor) String() string {
	var b strings.Builder
	b.WriteString(string(d.method))
	b.WriteByte(' ')
	b.WriteString(d.target)
	if d.parameters != nil {
		b.WriteString("\nPARAMETERS: ")
		if raw, err := json.Marshal(d.parameters); err == nil {
			b.Write(raw)
		} else {
			fmt.Fprintf(&b, "%+v", d.parameters)
		}
	}
	if len(d.headers) > 0 {
		b.WriteString("\nHEADERS:")
		keys := make([]string, 0, len(d.headers))
		for k := range d.headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %s", k, redactHeader(k, d.headers[k]))
		}
	}
	return b.String()
}

func redactHeader(key, value string) string {
	if strings.EqualFold(key, "Authorization") {
		return "[REDACTED]"
	}
	return value
}

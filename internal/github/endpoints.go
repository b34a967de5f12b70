// Package github describes a small set of GitHub REST endpoints on top of the
// apiclient pipeline.
package github

import (
	"strings"

	"github.com/tjfontaine/apicore/pkg/apiclient"
)

const (
	DefaultBaseURL = "https://api.github.com"

	// DefaultQuery is the repository search used when none is given.
	DefaultQuery = "language:swift"
)

// DefaultHeaders are sent with every GitHub request.
var DefaultHeaders = map[string]string{
	"Content-Type": "application/json; charset=utf-8",
	"Accept":       "application/json",
}

// SearchReposURL returns the repository search URL under baseURL.
func SearchReposURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/search/repositories"
}

// UsersURL returns the user listing URL under baseURL.
func UsersURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/users"
}

// EndpointOption customizes the descriptors built by this package.
type EndpointOption func(*endpoint)

type endpoint struct {
	baseURL string
	query   string
	token   string
	cache   bool
}

// WithBaseURL points descriptors at another API root.
func WithBaseURL(baseURL string) EndpointOption {
	return func(e *endpoint) {
		if baseURL != "" {
			e.baseURL = baseURL
		}
	}
}

// WithQuery sets the repository search query.
func WithQuery(q string) EndpointOption {
	return func(e *endpoint) {
		if q != "" {
			e.query = q
		}
	}
}

// WithToken attaches a bearer token.
func WithToken(token string) EndpointOption {
	return func(e *endpoint) {
		e.token = token
	}
}

// WithCache marks descriptors as cacheable.
func WithCache(enabled bool) EndpointOption {
	return func(e *endpoint) {
		e.cache = enabled
	}
}

func newEndpoint(opts []EndpointOption) endpoint {
	e := endpoint{baseURL: DefaultBaseURL, query: DefaultQuery}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e endpoint) descriptorOptions() []apiclient.DescriptorOption {
	opts := []apiclient.DescriptorOption{
		apiclient.WithHeaders(DefaultHeaders),
		apiclient.WithCache(e.cache),
	}
	if e.token != "" {
		opts = append(opts, apiclient.WithAccessToken(e.token))
	}
	return opts
}

type searchReposParameters struct {
	Query   string `json:"q"`
	PerPage int    `json:"perPage"`
	Page    int    `json:"page"`
}

// NewSearchReposDescriptor describes GET /search/repositories for one page.
// Parameter keys go out as q, per_page and page; response keys are decoded as
// is.
func NewSearchReposDescriptor(page PageModel, opts ...EndpointOption) (*apiclient.Descriptor, error) {
	e := newEndpoint(opts)
	page = page.Normalized()

	dopts := append(e.descriptorOptions(),
		apiclient.WithParameters(searchReposParameters{
			Query:   e.query,
			PerPage: page.PerPage,
			Page:    page.Page,
		}),
		apiclient.WithKeyDecoding(apiclient.KeyDecodingAsIs),
	)
	return apiclient.NewDescriptor(apiclient.MethodGet, SearchReposURL(e.baseURL), dopts...)
}

// NewListUsersDescriptor describes GET /users. Response keys are converted
// from snake_case to camelCase.
func NewListUsersDescriptor(opts ...EndpointOption) (*apiclient.Descriptor, error) {
	e := newEndpoint(opts)

	dopts := append(e.descriptorOptions(),
		apiclient.WithKeyDecoding(apiclient.KeyDecodingSnakeToCamel),
	)
	return apiclient.NewDescriptor(apiclient.MethodGet, UsersURL(e.baseURL), dopts...)
}

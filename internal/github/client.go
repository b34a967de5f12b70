package github

import (
	"context"

	"github.com/tjfontaine/apicore/pkg/apiclient"
)

// Classify extracts GitHub's "message" field from error bodies.
var Classify = apiclient.MessageField("message")

// Client calls GitHub endpoints through a pipeline.
type Client struct {
	pipeline *apiclient.Pipeline
	opts     []EndpointOption
}

// NewClient wraps p. The options apply to every descriptor the client builds.
// p should be built with WithClassifier(Classify) to surface GitHub's error
// messages.
func NewClient(p *apiclient.Pipeline, opts ...EndpointOption) *Client {
	return &Client{pipeline: p, opts: opts}
}

// SearchRepos runs a repository search for one page. An empty query uses
// DefaultQuery.
func (c *Client) SearchRepos(ctx context.Context, query string, page PageModel) (SearchReposOutput, error) {
	d, err := NewSearchReposDescriptor(page, c.options(WithQuery(query))...)
	if err != nil {
		return SearchReposOutput{}, err
	}
	return apiclient.Request[SearchReposOutput](ctx, c.pipeline, d)
}

// ListUsers returns the first page of users.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	d, err := NewListUsersDescriptor(c.options()...)
	if err != nil {
		return nil, err
	}
	return apiclient.Request[[]User](ctx, c.pipeline, d)
}

func (c *Client) options(extra ...EndpointOption) []EndpointOption {
	opts := make([]EndpointOption, 0, len(c.opts)+len(extra))
	opts = append(opts, c.opts...)
	return append(opts, extra...)
}

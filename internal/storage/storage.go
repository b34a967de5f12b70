// Package storage defines persistence for exchange records written by the
// request pipeline's recorder hook.
package storage

import (
	"context"
	"errors"

	"github.com/tjfontaine/apicore/pkg/apiclient"
	"github.com/tjfontaine/apicore/pkg/apiclient/apierr"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("exchange record not found")

// ListOptions filters and paginates ListExchanges results. Records are
// returned newest first.
type ListOptions struct {
	// Kind restricts results to one failure kind
	Kind apierr.Kind

	// FailedOnly restricts results to failed calls
	FailedOnly bool

	Limit  int
	Offset int
}

// ExchangeStore persists exchange records. Every implementation satisfies
// apiclient.Recorder.
type ExchangeStore interface {
	apiclient.Recorder

	GetExchange(ctx context.Context, id string) (*apiclient.ExchangeRecord, error)
	ListExchanges(ctx context.Context, opts ListOptions) ([]*apiclient.ExchangeRecord, error)
	Close() error
}

// Matches reports whether rec passes the filters in opts.
func (opts ListOptions) Matches(rec *apiclient.ExchangeRecord) bool {
	if opts.FailedOnly && rec.Succeeded() {
		return false
	}
	if opts.Kind != "" && rec.Kind != opts.Kind {
		return false
	}
	return true
}

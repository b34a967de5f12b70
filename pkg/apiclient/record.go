package apiclient

import (
	"context"
	"time"

	"github.com/tjfontaine/apicore/pkg/apiclient/apierr"
)

// ExchangeRecord summarizes one pipeline call for a Recorder.
type ExchangeRecord struct {
	// ID is the per-call request ID also attached to log lines
	ID string

	Method Method
	Target string

	// StatusCode is zero when no status was obtained
	StatusCode int

	// Kind is empty for successful calls
	Kind apierr.Kind

	// Message is the user-facing error message of failed calls
	Message string

	Duration  time.Duration
	CreatedAt time.Time
}

// Succeeded reports whether the call returned a decoded value.
func (r ExchangeRecord) Succeeded() bool {
	return r.Kind == ""
}

// Recorder receives a record of every call. Like logging it is
// observational: an error from RecordExchange is logged and otherwise
// ignored.
type Recorder interface {
	RecordExchange(ctx context.Context, rec ExchangeRecord) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, rec ExchangeRecord) error

// RecordExchange calls f(ctx, rec).
func (f RecorderFunc) RecordExchange(ctx context.Context, rec ExchangeRecord) error {
	return f(ctx, rec)
}

package apiclient

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const defaultPreviewLimit = 2048

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger diagnostics are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLogPolicy sets which stages emit diagnostics.
func WithLogPolicy(policy LogPolicy) Option {
	return func(p *Pipeline) {
		p.policy = policy
	}
}

// WithClassifier sets the hook that derives messages for non-success
// responses.
func WithClassifier(fn ClassifyFunc) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.classify = fn
		}
	}
}

// WithTracerProvider sets the provider used to create one span per call.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Pipeline) {
		if tp != nil {
			p.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithRecorder installs a recorder that is told about every call.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = r
	}
}

// WithPreviewLimit caps the size in bytes of logged response body previews.
func WithPreviewLimit(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.previewLimit = n
		}
	}
}

// WithRequestIDHeader forwards each call's request ID in the named header,
// unless the descriptor already sets it.
func WithRequestIDHeader(name string) Option {
	return func(p *Pipeline) {
		p.idHeader = name
	}
}

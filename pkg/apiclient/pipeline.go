package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tjfontaine/apicore/internal/json"
	"github.com/tjfontaine/apicore/pkg/apiclient/apierr"
	"github.com/tjfontaine/apicore/pkg/apiclient/transport"
)

const tracerName = "github.com/tjfontaine/apicore/pkg/apiclient"

// Empty is the target type for endpoints whose success body carries nothing
// of interest. Decoding into Empty never fails.
type Empty struct{}

// Pipeline executes descriptors against a transport adapter and turns the
// outcome into a decoded value or a classified *apierr.Error.
//
// A Pipeline holds only configuration fixed at construction; concurrent calls
// share no mutable state.
type Pipeline struct {
	transport    transport.Adapter
	logger       *slog.Logger
	policy       LogPolicy
	classify     ClassifyFunc
	tracer       trace.Tracer
	recorder     Recorder
	previewLimit int
	idHeader     string
}

// New creates a pipeline over the given adapter. Defaults: slog.Default(),
// DefaultLogPolicy, DefaultClassify, the global tracer provider and no
// recorder.
func New(t transport.Adapter, opts ...Option) *Pipeline {
	p := &Pipeline{
		transport:    t,
		logger:       slog.Default(),
		policy:       DefaultLogPolicy(),
		classify:     DefaultClassify,
		tracer:       otel.Tracer(tracerName),
		previewLimit: defaultPreviewLimit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LogPolicy returns the pipeline's log policy.
func (p *Pipeline) LogPolicy() LogPolicy {
	return p.policy
}

// Request executes d and decodes the success body into a T. On failure the
// zero T and an *apierr.Error are returned.
func Request[T any](ctx context.Context, p *Pipeline, d *Descriptor) (T, error) {
	var out T
	if err := p.Do(ctx, d, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Do executes d and decodes the success body into out, which must be a
// non-nil pointer. A nil out or a *Empty skips decoding. Any returned error
// is an *apierr.Error.
func (p *Pipeline) Do(ctx context.Context, d *Descriptor, out any) error {
	c := p.begin(ctx, d)
	defer c.end()

	body, failure := c.fetch()
	if failure != nil {
		return c.fail(failure)
	}

	if failure := c.decode(body, out); failure != nil {
		return c.fail(failure)
	}
	c.succeed()
	return nil
}

// Data executes d and returns the raw success body without decoding it.
func (p *Pipeline) Data(ctx context.Context, d *Descriptor) ([]byte, error) {
	c := p.begin(ctx, d)
	defer c.end()

	body, failure := c.fetch()
	if failure != nil {
		return nil, c.fail(failure)
	}
	c.succeed()
	return body, nil
}

// call carries the state of a single pipeline run.
type call struct {
	p      *Pipeline
	ctx    context.Context
	parent context.Context
	span   trace.Span
	d      *Descriptor
	id     string
	start  time.Time
	status int
	logger *slog.Logger
}

func (p *Pipeline) begin(ctx context.Context, d *Descriptor) *call {
	id := RequestIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	spanCtx, span := p.tracer.Start(ctx, "apiclient.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", string(d.Method())),
			attribute.String("url.full", d.Target()),
			attribute.String("apiclient.request_id", id),
		),
	)
	return &call{
		p:      p,
		ctx:    ContextWithRequestID(spanCtx, id),
		parent: ctx,
		span:   span,
		d:      d,
		id:     id,
		start:  time.Now(),
		logger: p.logger.With(slog.String("request_id", id)),
	}
}

func (c *call) end() {
	c.span.End()
}

func (c *call) logs(o LogOption) bool {
	return c.p.policy.Has(o)
}

// fetch runs the exchange and classifies everything up to, but excluding,
// decoding. A nil failure means body is a success-range payload.
func (c *call) fetch() ([]byte, *apierr.Error) {
	d := c.d
	if c.logs(LogRequest) {
		c.logger.Info("api request",
			slog.String("method", string(d.Method())),
			slog.String("target", d.Target()),
			slog.String("description", d.String()),
		)
	}
	if d.UseCache() && c.logs(LogCache) {
		c.logger.Info("api cache requested",
			slog.String("target", d.Target()),
			slog.Bool("cache_configured", false),
		)
	}

	wire, err := d.WireRequest()
	if err != nil {
		return nil, apierr.EncodingFailure(err)
	}
	if h := c.p.idHeader; h != "" && wire.Header.Get(h) == "" {
		wire.Header.Set(h, c.id)
	}

	ex, err := c.p.transport.Execute(c.ctx, wire)
	if err != nil {
		return nil, c.classifyTransport(err)
	}
	if ex == nil || ex.StatusCode == 0 {
		return nil, apierr.UnknownFailure(0)
	}

	c.status = ex.StatusCode
	c.span.SetAttributes(attribute.Int("http.response.status_code", ex.StatusCode))
	target := ex.URL
	if target == "" {
		target = d.Target()
	}

	if ex.StatusCode >= 200 && ex.StatusCode < 300 {
		if c.logs(LogResponseStatus) {
			c.logger.Info("api response",
				slog.Int("status", ex.StatusCode),
				slog.String("target", target),
			)
		}
		if c.logs(LogResponseBody) {
			c.logPreview(ex.Body)
		}
		return ex.Body, nil
	}

	failure := apierr.ResponseStatusFailure(ex.StatusCode, c.p.classify(ex.StatusCode, ex.Body))
	if c.logs(LogResponseStatus) {
		c.logger.Warn("api response",
			slog.Int("status", ex.StatusCode),
			slog.String("target", target),
		)
	}
	return nil, failure
}

func (c *call) classifyTransport(err error) *apierr.Error {
	// the caller gave up: report the cancellation itself, unnormalized
	if c.parent.Err() != nil {
		return apierr.TransportFailure(err)
	}
	var classified *apierr.Error
	if errors.As(err, &classified) {
		return classified
	}
	return apierr.ClassifyTransport(err)
}

func (c *call) decode(body []byte, out any) *apierr.Error {
	if out == nil {
		return nil
	}
	if _, ok := out.(*Empty); ok {
		return nil
	}
	if err := decodeBody(body, c.d.KeyDecoding(), out); err != nil {
		return apierr.ResponseDecodeFailure(err)
	}
	if c.logs(LogResponseDecode) {
		c.logger.Info("api response decoded", slog.String("value", marshalForLog(out)))
	}
	return nil
}

// logPreview logs a compacted copy of a JSON body. Bodies that are not JSON
// are skipped; a preview never affects the outcome.
func (c *call) logPreview(body []byte) {
	defer func() {
		_ = recover()
	}()
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return
	}
	preview := pretty.Ugly(body)
	truncated := false
	if len(preview) > c.p.previewLimit {
		preview = preview[:c.p.previewLimit]
		truncated = true
	}
	c.logger.Info("api response body",
		slog.String("body", string(preview)),
		slog.Bool("truncated", truncated),
	)
}

func (c *call) fail(failure *apierr.Error) error {
	if failure.StatusCode == 0 && c.status != 0 && failure.Kind == apierr.KindResponseDecode {
		failure.StatusCode = c.status
	}

	c.span.RecordError(failure)
	c.span.SetStatus(codes.Error, failure.Error())

	if c.logs(LogError) {
		attrs := []any{
			slog.String("kind", string(failure.Kind)),
			slog.String("target", c.d.Target()),
			slog.String("message", failure.Error()),
		}
		if failure.HasStatus() {
			attrs = append(attrs, slog.Int("status", failure.StatusCode))
		}
		if failure.Cause != nil {
			attrs = append(attrs, slog.String("cause", failure.Cause.Error()))
		}
		c.logger.Error("api request failed", attrs...)
	}

	c.record(failure)
	return failure
}

func (c *call) succeed() {
	c.span.SetStatus(codes.Ok, "")
	c.record(nil)
}

func (c *call) record(failure *apierr.Error) {
	if c.p.recorder == nil {
		return
	}
	rec := ExchangeRecord{
		ID:         c.id,
		Method:     c.d.Method(),
		Target:     c.d.Target(),
		StatusCode: c.status,
		Duration:   time.Since(c.start),
		CreatedAt:  c.start.UTC(),
	}
	if failure != nil {
		rec.Kind = failure.Kind
		rec.Message = failure.Error()
	}
	if err := c.p.recorder.RecordExchange(context.WithoutCancel(c.parent), rec); err != nil {
		c.logger.Warn("failed to record exchange", slog.String("error", err.Error()))
	}
}

// marshalForLog renders v as JSON for log attributes.
func marshalForLog(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(raw)
}

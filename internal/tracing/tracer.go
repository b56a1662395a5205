// Package tracing wraps OpenTelemetry spans around inbound requests and the
// database calls they make, and correlates log lines with them.
package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/Nazarious-ucu/newsletter-api"

	// RequestIDKey names the correlation id in span attributes, baggage and logs.
	RequestIDKey = "request_id"

	httpStatusKey = "http.response.status_code"
)

type Tracer struct {
	tracer trace.Tracer
}

func NewTracer(provider trace.TracerProvider) *Tracer {
	return &Tracer{tracer: provider.Tracer(instrumentationName)}
}

// Request is the span of one inbound request together with its correlation id.
// It is handed explicitly to every layer that works on the request.
type Request struct {
	ID     uuid.UUID
	ctx    context.Context
	span   trace.Span
	tracer trace.Tracer
}

// StartRequest opens a server span tagged with a fresh correlation id. The id
// also travels in the context baggage so Hook can stamp it on log lines.
func (t *Tracer) StartRequest(ctx context.Context, name string, attrs ...attribute.KeyValue) *Request {
	id := uuid.New()
	ctx = withRequestID(ctx, id.String())

	attrs = append([]attribute.KeyValue{attribute.String(RequestIDKey, id.String())}, attrs...)
	ctx, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)

	return &Request{ID: id, ctx: ctx, span: span, tracer: t.tracer}
}

// Context carries the request span and the correlation id.
func (r *Request) Context() context.Context {
	return r.ctx
}

func (r *Request) SetHTTPStatus(code int) {
	r.span.SetAttributes(attribute.Int(httpStatusKey, code))
}

func (r *Request) AddEvent(name string, attrs ...attribute.KeyValue) {
	r.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// StartChild opens a span nested under the request span.
func (r *Request) StartChild(name string, attrs ...attribute.KeyValue) *Child {
	ctx, span := r.tracer.Start(r.ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	return &Child{ctx: ctx, span: span}
}

// End closes the request span. A non-nil err marks it failed.
func (r *Request) End(err error) {
	finish(r.span, err)
}

// Child is a span scoping a single outbound call made for a request.
type Child struct {
	ctx  context.Context
	span trace.Span
}

func (c *Child) Context() context.Context {
	return c.ctx
}

func (c *Child) End(err error) {
	finish(c.span, err)
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func withRequestID(ctx context.Context, id string) context.Context {
	member, err := baggage.NewMember(RequestIDKey, id)
	if err != nil {
		return ctx
	}
	bag, err := baggage.FromContext(ctx).SetMember(member)
	if err != nil {
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, bag)
}

// RequestID returns the correlation id carried by ctx, if any.
func RequestID(ctx context.Context) string {
	return baggage.FromContext(ctx).Member(RequestIDKey).Value()
}

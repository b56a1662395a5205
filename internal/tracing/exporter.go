package tracing

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogExporter writes every finished span as one structured log line.
type LogExporter struct {
	log zerolog.Logger
}

func NewLogExporter(logger zerolog.Logger) *LogExporter {
	return &LogExporter{log: logger.With().Str("component", "tracing").Logger()}
}

func (e *LogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		ev := e.log.Info()
		if s.Status().Code == codes.Error {
			ev = e.log.Warn().Str("error", s.Status().Description)
		}

		sc := s.SpanContext()
		ev.Str("span", s.Name()).
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Dur("elapsed", s.EndTime().Sub(s.StartTime())).
			Str("status", s.Status().Code.String())

		if s.Parent().IsValid() {
			ev.Str("parent_span_id", s.Parent().SpanID().String())
		}
		for _, kv := range s.Attributes() {
			addAttribute(ev, kv)
		}

		ev.Msg("span closed")
	}
	return nil
}

func (e *LogExporter) Shutdown(context.Context) error {
	return nil
}

func addAttribute(ev *zerolog.Event, kv attribute.KeyValue) {
	key := string(kv.Key)
	switch kv.Value.Type() {
	case attribute.BOOL:
		ev.Bool(key, kv.Value.AsBool())
	case attribute.INT64:
		ev.Int64(key, kv.Value.AsInt64())
	case attribute.FLOAT64:
		ev.Float64(key, kv.Value.AsFloat64())
	default:
		ev.Str(key, kv.Value.Emit())
	}
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

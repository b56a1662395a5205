package tracing

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Hook stamps the correlation id and the active span's ids on every event
// logged with Ctx(ctx).
type Hook struct{}

func (Hook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	if id := RequestID(ctx); id != "" {
		e.Str(RequestIDKey, id)
	}

	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		e.Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String())
	}
}

package subscription_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Nazarious-ucu/newsletter-api/internal/handlers/subscription"
	"github.com/Nazarious-ucu/newsletter-api/internal/models"
	"github.com/Nazarious-ucu/newsletter-api/internal/tracing"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Subscribe(req *tracing.Request, data models.NewSubscriber) (models.Subscriber, error) {
	args := m.Called(req, data)
	sub, _ := args.Get(0).(models.Subscriber)
	return sub, args.Error(1)
}

type recorder struct {
	fields []string
}

func (r *recorder) RecordValidationFailure(field string) {
	r.fields = append(r.fields, field)
}

type fixture struct {
	router   *gin.Engine
	svc      *mockService
	spans    *tracetest.InMemoryExporter
	logs     *bytes.Buffer
	failures *recorder
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	logs := &bytes.Buffer{}
	logger := zerolog.New(logs).Hook(tracing.Hook{})

	f := &fixture{svc: &mockService{}, spans: exporter, logs: logs, failures: &recorder{}}
	h := subscription.NewHandler(f.svc, tracing.NewTracer(provider), logger, f.failures)

	r := gin.New()
	r.GET("/health_check", h.HealthCheck)
	r.POST("/subscriptions", h.Subscribe)
	f.router = r

	return f
}

func (f *fixture) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	f := setup(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health_check", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "0", w.Header().Get("Content-Length"))
}

func TestSubscribe_Valid(t *testing.T) {
	f := setup(t)
	want := models.NewSubscriber{Email: "ursula_le_guin@gmail.com", Name: "le guin"}
	f.svc.On("Subscribe", mock.Anything, want).
		Return(models.Subscriber{ID: uuid.New(), Email: want.Email, Name: want.Name}, nil).Once()

	w := f.post("name=le%20guin&email=ursula_le_guin%40gmail.com")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	f.svc.AssertExpectations(t)

	spans := f.spans.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "Adding a new subscriber", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	id, err := uuid.Parse(w.Header().Get(subscription.RequestIDHeader))
	require.NoError(t, err)
	assert.Contains(t, attrs(spans[0]), tracing.RequestIDKey+"="+id.String())
	assert.Contains(t, attrs(spans[0]), "request_email=ursula_le_guin@gmail.com")
	assert.Contains(t, attrs(spans[0]), "request_name=le guin")
	assert.Empty(t, f.logs.String())
}

func TestSubscribe_Invalid(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing email", "name=le%20guin", "form"},
		{"missing name", "email=ursula_le_guin%40gmail.com", "form"},
		{"missing both", "", "form"},
		{"blank name", "name=%20%20&email=ursula_le_guin%40gmail.com", "name"},
		{"email without at", "name=le%20guin&email=ursula_le_guin", "email"},
		{"email without domain", "name=le%20guin&email=ursula%40", "email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setup(t)

			w := f.post(tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, w.Body.String())
			assert.NotEmpty(t, w.Header().Get(subscription.RequestIDHeader))
			f.svc.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything)
			assert.Equal(t, []string{tc.wantField}, f.failures.fields)
			assert.Empty(t, f.logs.String(), "validation failures are not logged as faults")

			spans := f.spans.GetSpans()
			require.Len(t, spans, 1)
			require.Len(t, spans[0].Events, 1)
		})
	}
}

func TestSubscribe_PersistenceFailure(t *testing.T) {
	f := setup(t)
	dbErr := errors.New("insert subscriber: connection refused")
	f.svc.On("Subscribe", mock.Anything, mock.Anything).Return(nil, dbErr).Once()

	w := f.post("name=le%20guin&email=ursula_le_guin%40gmail.com")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Body.String())
	f.svc.AssertNumberOfCalls(t, "Subscribe", 1)

	lines := strings.Split(strings.TrimSpace(f.logs.String()), "\n")
	require.Len(t, lines, 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, dbErr.Error(), line["error"])
	assert.Equal(t, w.Header().Get(subscription.RequestIDHeader), line[tracing.RequestIDKey])

	spans := f.spans.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func TestSubscribe_FreshCorrelationIDPerRequest(t *testing.T) {
	f := setup(t)

	first := f.post("")
	second := f.post("")

	assert.NotEqual(t,
		first.Header().Get(subscription.RequestIDHeader),
		second.Header().Get(subscription.RequestIDHeader))
}

func attrs(span tracetest.SpanStub) []string {
	out := make([]string, 0, len(span.Attributes))
	for _, kv := range span.Attributes {
		out = append(out, string(kv.Key)+"="+kv.Value.Emit())
	}
	return out
}

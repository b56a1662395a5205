package subscription

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Nazarious-ucu/newsletter-api/internal/models"
	"github.com/Nazarious-ucu/newsletter-api/internal/tracing"
)

const (
	timeoutDuration = 10 * time.Second

	RequestIDHeader = "X-Request-ID"
	requestSpanName = "Adding a new subscriber"
)

type subscriber interface {
	Subscribe(req *tracing.Request, data models.NewSubscriber) (models.Subscriber, error)
}

type validationRecorder interface {
	RecordValidationFailure(field string)
}

type Handler struct {
	Service subscriber
	tracer  *tracing.Tracer
	log     zerolog.Logger
	m       validationRecorder
}

func NewHandler(svc subscriber, tracer *tracing.Tracer, logger zerolog.Logger, m validationRecorder) *Handler {
	return &Handler{
		Service: svc,
		tracer:  tracer,
		log:     logger.With().Str("component", "SubscriptionHandler").Logger(),
		m:       m,
	}
}

// Subscribe
// @Summary Subscribe to the newsletter
// @Description Stores a new subscriber. The response body is always empty.
// @Tags subscription
// @Accept application/x-www-form-urlencoded
// @Param email formData string true "Email address to subscribe"
// @Param name formData string true "Subscriber name"
// @Success 200
// @Failure 400
// @Failure 500
// @Header all {string} X-Request-ID "Correlation id of the request"
// @Router /subscriptions [post]
func (h *Handler) Subscribe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	var form models.SubscribeForm
	bindErr := c.ShouldBindWith(&form, binding.FormPost)

	req := h.tracer.StartRequest(ctx, requestSpanName,
		attribute.String("request_email", form.Email),
		attribute.String("request_name", form.Name),
	)
	c.Header(RequestIDHeader, req.ID.String())

	status, err := h.subscribe(req, form, bindErr)
	req.SetHTTPStatus(status)
	req.End(err)

	c.Status(status)
}

func (h *Handler) subscribe(req *tracing.Request, form models.SubscribeForm, bindErr error) (int, error) {
	if bindErr != nil {
		req.AddEvent("invalid form", attribute.String("reason", bindErr.Error()))
		h.m.RecordValidationFailure("form")
		return http.StatusBadRequest, nil
	}

	data, err := models.ParseSubscriber(form.Email, form.Name)
	if err != nil {
		field := "form"
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			field = vErr.Field
		}
		req.AddEvent("invalid subscriber",
			attribute.String("field", field),
			attribute.String("reason", err.Error()),
		)
		h.m.RecordValidationFailure(field)
		return http.StatusBadRequest, nil
	}

	if _, err := h.Service.Subscribe(req, data); err != nil {
		h.log.Error().Ctx(req.Context()).Err(err).Msg("failed to execute query")
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}

// HealthCheck
// @Summary Liveness probe
// @Description Always answers 200 with an empty body.
// @Tags health
// @Success 200
// @Router /health_check [get]
func (h *Handler) HealthCheck(c *gin.Context) {
	c.Header("Content-Length", "0")
	c.Status(http.StatusOK)
}

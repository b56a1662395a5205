package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Nazarious-ucu/newsletter-api/internal/models"
	"github.com/Nazarious-ucu/newsletter-api/internal/tracing"
)

const insertSpanName = "Saving new subscriber details in the database"

type SubscriberRepository interface {
	Insert(ctx context.Context, sub models.Subscriber) error
}

type Counter interface {
	Inc()
}

type Service struct {
	repo    SubscriberRepository
	log     zerolog.Logger
	created Counter

	now   func() time.Time
	newID func() uuid.UUID
}

func NewService(repo SubscriberRepository, logger zerolog.Logger, created Counter) *Service {
	return &Service{
		repo:    repo,
		log:     logger.With().Str("component", "SubscriptionService").Logger(),
		created: created,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.New,
	}
}

// Subscribe assigns an id and timestamp to data and stores it inside a child
// span of req. The repository is called exactly once.
func (s *Service) Subscribe(req *tracing.Request, data models.NewSubscriber) (models.Subscriber, error) {
	sub := models.Subscriber{
		ID:           s.newID(),
		Email:        data.Email,
		Name:         data.Name,
		SubscribedAt: s.now(),
	}

	child := req.StartChild(insertSpanName,
		attribute.String("db.system", "postgresql"),
		attribute.String("subscriber_id", sub.ID.String()),
	)
	err := s.repo.Insert(child.Context(), sub)
	child.End(err)
	if err != nil {
		return models.Subscriber{}, err
	}

	s.created.Inc()
	s.log.Debug().Ctx(req.Context()).Str("subscriber_id", sub.ID.String()).Msg("subscription accepted")

	return sub, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/newsletter-api/internal/models"
)

const subscriptionsTable = "subscriptions"

type insertObserver interface {
	ObserveInsert(dur time.Duration, err error)
}

type SubscriberRepository struct {
	DB      *sql.DB
	dialect goqu.DialectWrapper
	log     zerolog.Logger
	m       insertObserver
}

func NewSubscriberRepository(db *sql.DB, logger zerolog.Logger, m insertObserver) *SubscriberRepository {
	return &SubscriberRepository{
		DB:      db,
		dialect: goqu.Dialect("postgres"),
		log:     logger.With().Str("component", "SubscriberRepository").Logger(),
		m:       m,
	}
}

// Insert writes one subscriber row. The statement is attempted exactly once
// and any driver error is returned to the caller.
func (r *SubscriberRepository) Insert(ctx context.Context, sub models.Subscriber) error {
	query, args, err := r.dialect.
		Insert(subscriptionsTable).
		Prepared(true).
		Cols("id", "email", "name", "subscribed_at").
		Vals(goqu.Vals{sub.ID.String(), sub.Email, sub.Name, sub.SubscribedAt}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert for subscriber %s: %w", sub.ID, err)
	}

	start := time.Now()
	_, err = r.DB.ExecContext(ctx, query, args...)
	elapsed := time.Since(start)
	r.m.ObserveInsert(elapsed, err)
	if err != nil {
		return fmt.Errorf("insert subscriber %s: %w", sub.ID, err)
	}

	r.log.Info().Ctx(ctx).
		Str("subscriber_id", sub.ID.String()).
		Dur("duration", elapsed).
		Msg("new subscriber saved")

	return nil
}

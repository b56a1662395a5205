package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is a stored subscription row. Rows are never updated.
type Subscriber struct {
	ID           uuid.UUID
	Email        string
	Name         string
	SubscribedAt time.Time
}

// SubscribeForm is the form-encoded body of POST /subscriptions.
type SubscribeForm struct {
	Email string `form:"email" binding:"required"`
	Name  string `form:"name"  binding:"required"`
}

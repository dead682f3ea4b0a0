package ledger

import (
	"context"
	"time"

	"github.com/chachabrian/ridebook-backend/internal/models"
)

type EventType string

const (
	EventCreated   EventType = "ride.created"
	EventFeedback  EventType = "ride.feedback"
	EventCancelled EventType = "ride.cancelled"
	EventCompleted EventType = "ride.completed"
)

// RideEvent describes a successful mutation of one booking.
type RideEvent struct {
	Type EventType          `json:"type"`
	Ride models.RideBooking `json:"ride"`
	At   time.Time          `json:"timestamp"`
}

// Notifier receives ride events after the store write succeeded. Errors are
// logged by the ledger and never fail the operation.
type Notifier interface {
	Notify(ctx context.Context, event RideEvent) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, event RideEvent) error

func (f NotifierFunc) Notify(ctx context.Context, event RideEvent) error {
	return f(ctx, event)
}

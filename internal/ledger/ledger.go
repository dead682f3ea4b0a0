package ledger

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chachabrian/ridebook-backend/internal/models"
)

// Store persists ride bookings. Implementations report a missing booking
// with ErrNotFound and a duplicate booking id with ErrConflict.
type Store interface {
	Create(ctx context.Context, ride *models.RideBooking) error
	FindByBookingID(ctx context.Context, bookingID string) (*models.RideBooking, error)
	// History returns rides owned by or shared with userID, newest first,
	// ties in insertion order.
	History(ctx context.Context, userID string) ([]models.RideBooking, error)
	UpdateFeedback(ctx context.Context, bookingID, feedback string) (*models.RideBooking, error)
	UpdateStatus(ctx context.Context, bookingID string, status models.RideStatus) (*models.RideBooking, error)
	// AppendSharedName adds name to the booking's SharedUserNames if it is not
	// already present. It must not touch any other field.
	AppendSharedName(ctx context.Context, bookingID, name string) error
}

// NewBooking is the caller-supplied part of a ride booking.
type NewBooking struct {
	BookingID       string
	From            string
	To              string
	UserID          string
	UserName        string
	Type            string
	Fare            float64
	Distance        *float64
	SharedUserIDs   []string
	SharedUserNames []string
}

// Ledger owns the ride booking lifecycle.
type Ledger struct {
	store     Store
	log       *zap.Logger
	notifiers []Notifier

	mu  sync.Mutex
	rng *rand.Rand

	now          func() time.Time
	newID        func() string
	persistNames bool
}

type Option func(*Ledger)

// WithRand sets the source used for driver and car assignment.
func WithRand(r *rand.Rand) Option {
	return func(l *Ledger) { l.rng = r }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

func WithNotifiers(n ...Notifier) Option {
	return func(l *Ledger) { l.notifiers = append(l.notifiers, n...) }
}

// WithPersistedSharedNames makes History write the owner's name back to the
// store for co-rider views, in addition to returning it.
func WithPersistedSharedNames(enabled bool) Option {
	return func(l *Ledger) { l.persistNames = enabled }
}

func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		log:   zap.NewNop(),
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Create persists a new confirmed booking with a random driver and car.
func (l *Ledger) Create(ctx context.Context, in NewBooking) (*models.RideBooking, error) {
	ride := &models.RideBooking{
		BookingID:       in.BookingID,
		From:            in.From,
		To:              in.To,
		UserID:          in.UserID,
		UserName:        in.UserName,
		Type:            in.Type,
		Fare:            in.Fare,
		Distance:        in.Distance,
		SharedUserIDs:   append([]string{}, in.SharedUserIDs...),
		SharedUserNames: append([]string{}, in.SharedUserNames...),
		Date:            l.now(),
		Status:          models.RideStatusConfirmed,
	}
	if ride.BookingID == "" {
		ride.BookingID = l.newID()
	}

	l.mu.Lock()
	ride.DriverName = PickRandom(l.rng, DriverNames)
	ride.CarName = PickRandom(l.rng, CarNames)
	l.mu.Unlock()

	if err := l.store.Create(ctx, ride); err != nil {
		return nil, wrap("error saving ride booking", err)
	}

	l.log.Info("ride booked",
		zap.String("bookingId", ride.BookingID),
		zap.String("userId", ride.UserID),
		zap.Int("sharedWith", len(ride.SharedUserIDs)))
	l.emit(ctx, EventCreated, ride)
	return ride, nil
}

// Get returns a single booking.
func (l *Ledger) Get(ctx context.Context, bookingID string) (*models.RideBooking, error) {
	ride, err := l.store.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, wrap("error fetching ride", err)
	}
	return ride, nil
}

// History lists every ride userID owns or shares, newest first. On rides
// where userID is a co-rider the owner's name is visible in SharedUserNames.
func (l *Ledger) History(ctx context.Context, userID string) ([]models.RideBooking, error) {
	const op = "error fetching ride history"

	rides, err := l.store.History(ctx, userID)
	if err != nil {
		return nil, wrap(op, err)
	}

	views := make([]models.RideBooking, 0, len(rides))
	for _, ride := range rides {
		view, added := ShowOwnerToCoRider(ride, userID)
		if added && l.persistNames {
			if err := l.store.AppendSharedName(ctx, ride.BookingID, ride.UserName); err != nil {
				return nil, wrap(op, err)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// AddFeedback overwrites the booking's feedback.
func (l *Ledger) AddFeedback(ctx context.Context, bookingID, feedback string) (*models.RideBooking, error) {
	ride, err := l.store.UpdateFeedback(ctx, bookingID, feedback)
	if err != nil {
		return nil, wrap("error adding feedback", err)
	}
	l.emit(ctx, EventFeedback, ride)
	return ride, nil
}

// Cancel marks the booking cancelled regardless of its current status.
func (l *Ledger) Cancel(ctx context.Context, bookingID string) (*models.RideBooking, error) {
	return l.setStatus(ctx, "error cancelling ride", bookingID, models.RideStatusCancelled, EventCancelled)
}

// Complete marks the booking completed regardless of its current status.
func (l *Ledger) Complete(ctx context.Context, bookingID string) (*models.RideBooking, error) {
	return l.setStatus(ctx, "error completing ride", bookingID, models.RideStatusCompleted, EventCompleted)
}

func (l *Ledger) setStatus(ctx context.Context, op, bookingID string, status models.RideStatus, event EventType) (*models.RideBooking, error) {
	ride, err := l.store.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		return nil, wrap(op, err)
	}
	l.log.Info("ride status changed", zap.String("bookingId", bookingID), zap.String("status", string(status)))
	l.emit(ctx, event, ride)
	return ride, nil
}

func (l *Ledger) emit(ctx context.Context, typ EventType, ride *models.RideBooking) {
	if len(l.notifiers) == 0 {
		return
	}
	event := RideEvent{Type: typ, Ride: ride.Clone(), At: l.now()}
	for _, n := range l.notifiers {
		if err := n.Notify(ctx, event); err != nil {
			l.log.Warn("ride event delivery failed",
				zap.String("event", string(typ)),
				zap.String("bookingId", ride.BookingID),
				zap.Error(err))
		}
	}
}

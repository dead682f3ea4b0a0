// Package memory is an in-process ride store for development and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/chachabrian/ridebook-backend/internal/ledger"
	"github.com/chachabrian/ridebook-backend/internal/models"
)

type Store struct {
	mu    sync.RWMutex
	seq   uint
	rides map[string]*models.RideBooking
}

func New() *Store {
	return &Store{rides: make(map[string]*models.RideBooking)}
}

func (s *Store) Create(_ context.Context, ride *models.RideBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rides[ride.BookingID]; ok {
		return fmt.Errorf("%w: %s", ledger.ErrConflict, ride.BookingID)
	}
	s.seq++
	now := time.Now()
	ride.ID = s.seq
	ride.CreatedAt = now
	ride.UpdatedAt = now

	stored := ride.Clone()
	s.rides[ride.BookingID] = &stored
	return nil
}

func (s *Store) FindByBookingID(_ context.Context, bookingID string) (*models.RideBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ride, ok := s.rides[bookingID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	out := ride.Clone()
	return &out, nil
}

func (s *Store) History(_ context.Context, userID string) ([]models.RideBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rides := make([]models.RideBooking, 0)
	for _, ride := range s.rides {
		if ride.UserID == userID || ride.HasCoRider(userID) {
			rides = append(rides, ride.Clone())
		}
	}
	sort.Slice(rides, func(i, j int) bool {
		if !rides[i].Date.Equal(rides[j].Date) {
			return rides[i].Date.After(rides[j].Date)
		}
		return rides[i].ID < rides[j].ID
	})
	return rides, nil
}

func (s *Store) UpdateFeedback(_ context.Context, bookingID, feedback string) (*models.RideBooking, error) {
	return s.update(bookingID, func(r *models.RideBooking) { r.Feedback = feedback })
}

func (s *Store) UpdateStatus(_ context.Context, bookingID string, status models.RideStatus) (*models.RideBooking, error) {
	return s.update(bookingID, func(r *models.RideBooking) { r.Status = status })
}

func (s *Store) AppendSharedName(_ context.Context, bookingID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ride, ok := s.rides[bookingID]
	if !ok {
		return ledger.ErrNotFound
	}
	if !slices.Contains(ride.SharedUserNames, name) {
		ride.SharedUserNames = append(ride.SharedUserNames, name)
	}
	return nil
}

func (s *Store) update(bookingID string, mutate func(*models.RideBooking)) (*models.RideBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ride, ok := s.rides[bookingID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	mutate(ride)
	ride.UpdatedAt = time.Now()
	out := ride.Clone()
	return &out, nil
}

func (s *Store) Close() error {
	return nil
}

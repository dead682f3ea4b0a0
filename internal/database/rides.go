package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chachabrian/ridebook-backend/internal/ledger"
	"github.com/chachabrian/ridebook-backend/internal/models"
)

// RideStore is the Postgres-backed ledger.Store.
type RideStore struct {
	db *gorm.DB
}

func NewRideStore(db *gorm.DB) *RideStore {
	return &RideStore{db: db}
}

func (s *RideStore) Create(ctx context.Context, ride *models.RideBooking) error {
	err := s.db.WithContext(ctx).Create(ride).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ledger.ErrConflict, ride.BookingID)
	}
	return err
}

func (s *RideStore) FindByBookingID(ctx context.Context, bookingID string) (*models.RideBooking, error) {
	var ride models.RideBooking
	err := s.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&ride).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

func (s *RideStore) History(ctx context.Context, userID string) ([]models.RideBooking, error) {
	rides := make([]models.RideBooking, 0)
	if err := historyQuery(s.db.WithContext(ctx), userID).Find(&rides).Error; err != nil {
		return nil, err
	}
	return rides, nil
}

// historyQuery selects rides owned by or shared with userID, newest first.
func historyQuery(tx *gorm.DB, userID string) *gorm.DB {
	return tx.Model(&models.RideBooking{}).
		Where("user_id = ? OR ? = ANY(shared_user_ids)", userID, userID).
		Order("date DESC").
		Order("id ASC")
}

func (s *RideStore) UpdateFeedback(ctx context.Context, bookingID, feedback string) (*models.RideBooking, error) {
	return s.updateColumn(ctx, bookingID, "feedback", feedback)
}

func (s *RideStore) UpdateStatus(ctx context.Context, bookingID string, status models.RideStatus) (*models.RideBooking, error) {
	return s.updateColumn(ctx, bookingID, "status", status)
}

// updateColumn writes one column and reads the row back in a single
// UPDATE ... RETURNING round trip.
func (s *RideStore) updateColumn(ctx context.Context, bookingID, column string, value interface{}) (*models.RideBooking, error) {
	var ride models.RideBooking
	res := s.db.WithContext(ctx).
		Model(&ride).
		Clauses(clause.Returning{}).
		Where("booking_id = ?", bookingID).
		Update(column, value)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ledger.ErrNotFound
	}
	return &ride, nil
}

func (s *RideStore) AppendSharedName(ctx context.Context, bookingID, name string) error {
	return s.db.WithContext(ctx).Exec(
		`UPDATE rides SET shared_user_names = array_append(shared_user_names, ?)
		 WHERE booking_id = ? AND NOT (? = ANY(shared_user_names))`,
		name, bookingID, name,
	).Error
}

func (s *RideStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

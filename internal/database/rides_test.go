package database

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chachabrian/ridebook-backend/internal/ledger"
	"github.com/chachabrian/ridebook-backend/internal/models"
)

// sqlRecorder keeps every statement gorm renders, with bound values inlined.
type sqlRecorder struct {
	mu    sync.Mutex
	stmts []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = append(r.stmts, strings.Join(strings.Fields(sql), " "))
}

func (r *sqlRecorder) last(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.stmts, "no statement rendered")
	return r.stmts[len(r.stmts)-1]
}

// dryRunStore renders SQL without a server. Nothing is executed, so every
// UPDATE reports zero affected rows.
func dryRunStore(t *testing.T) (*RideStore, *gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=postgres dbname=ridebook sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	require.NoError(t, err)
	return NewRideStore(db), db, rec
}

func TestRideStoreHistoryQuery(t *testing.T) {
	store, _, rec := dryRunStore(t)

	rides, err := store.History(context.Background(), "u2")
	require.NoError(t, err)
	assert.Empty(t, rides)

	sql := rec.last(t)
	assert.Contains(t, sql, `FROM "rides"`)
	assert.Contains(t, sql, `user_id = 'u2' OR 'u2' = ANY(shared_user_ids)`)
	assert.Contains(t, sql, `ORDER BY date DESC,id ASC`)
}

func TestRideStoreUpdateStatusReturnsRow(t *testing.T) {
	store, _, rec := dryRunStore(t)

	_, err := store.UpdateStatus(context.Background(), "b1", models.RideStatusCancelled)

	sql := rec.last(t)
	assert.Contains(t, sql, `UPDATE "rides" SET "status"='cancelled'`)
	assert.Contains(t, sql, `WHERE booking_id = 'b1'`)
	assert.Contains(t, sql, `RETURNING *`)

	// zero affected rows means the booking does not exist
	assert.True(t, errors.Is(err, ledger.ErrNotFound), "got %v", err)
}

func TestRideStoreUpdateFeedbackMissingRide(t *testing.T) {
	store, _, rec := dryRunStore(t)

	ride, err := store.UpdateFeedback(context.Background(), "missing", "great")
	assert.Nil(t, ride)
	assert.True(t, errors.Is(err, ledger.ErrNotFound), "got %v", err)
	assert.Contains(t, rec.last(t), `SET "feedback"='great'`)
}

func TestRideStoreAppendSharedNameIsGuarded(t *testing.T) {
	store, _, rec := dryRunStore(t)

	require.NoError(t, store.AppendSharedName(context.Background(), "b1", "Alice"))

	sql := rec.last(t)
	assert.Contains(t, sql, `UPDATE rides SET shared_user_names = array_append(shared_user_names, 'Alice')`)
	assert.Contains(t, sql, `WHERE booking_id = 'b1' AND NOT ('Alice' = ANY(shared_user_names))`)
}

func TestRideStoreCreate(t *testing.T) {
	store, _, rec := dryRunStore(t)

	ride := &models.RideBooking{
		BookingID:     "b1",
		UserID:        "u1",
		UserName:      "Alice",
		SharedUserIDs: []string{"u2"},
		Status:        models.RideStatusConfirmed,
	}
	require.NoError(t, store.Create(context.Background(), ride))
	assert.Contains(t, rec.last(t), `INSERT INTO "rides"`)
}

func TestRideStoreCreateDuplicateConflicts(t *testing.T) {
	store, db, _ := dryRunStore(t)
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:duplicate_key", func(tx *gorm.DB) {
		tx.AddError(gorm.ErrDuplicatedKey)
	}))

	err := store.Create(context.Background(), &models.RideBooking{BookingID: "b1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrConflict), "got %v", err)
	assert.Contains(t, err.Error(), "b1")
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chachabrian/ridebook-backend/internal/ledger"
	"github.com/chachabrian/ridebook-backend/internal/models"
)

func TestReturnedRidesDoNotAliasStorage(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, &models.RideBooking{BookingID: "b1", UserID: "u1", SharedUserNames: []string{"Bob"}}))

	got, err := s.FindByBookingID(ctx, "b1")
	require.NoError(t, err)
	got.SharedUserNames[0] = "Mallory"
	got.Status = models.RideStatusCancelled

	again, err := s.FindByBookingID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, []string(again.SharedUserNames))
	assert.Empty(t, again.Status)
}

func TestAppendSharedName(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, &models.RideBooking{BookingID: "b1", UserID: "u1"}))

	require.NoError(t, s.AppendSharedName(ctx, "b1", "Alice"))
	require.NoError(t, s.AppendSharedName(ctx, "b1", "Alice"))

	got, err := s.FindByBookingID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, []string(got.SharedUserNames))

	assert.ErrorIs(t, s.AppendSharedName(ctx, "missing", "Alice"), ledger.ErrNotFound)
}

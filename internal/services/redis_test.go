package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chachabrian/ridebook-backend/internal/ledger"
	"github.com/chachabrian/ridebook-backend/internal/models"
)

func TestRideUpdatePayload(t *testing.T) {
	at := time.Unix(1700000000, 0)
	event := ledger.RideEvent{
		Type: ledger.EventCancelled,
		Ride: models.RideBooking{
			BookingID:     "b1",
			UserID:        "u1",
			SharedUserIDs: []string{"u2", "u1"},
			Status:        models.RideStatusCancelled,
		},
		At: at,
	}

	raw, err := rideUpdatePayload(event)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "b1", got["rideId"])
	assert.Equal(t, "ride.cancelled", got["event"])
	assert.Equal(t, "cancelled", got["status"])
	assert.Equal(t, []interface{}{"u1", "u2"}, got["riders"])
	assert.EqualValues(t, 1700000000, got["timestamp"])
	assert.Equal(t, "b1", got["data"].(map[string]interface{})["bookingId"])
}

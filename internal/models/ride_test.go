package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRidersOwnerFirstWithoutDuplicates(t *testing.T) {
	ride := RideBooking{UserID: "u1", SharedUserIDs: []string{"u2", "u1", "u3", "u2"}}

	assert.Equal(t, []string{"u1", "u2", "u3"}, ride.Riders())
	assert.True(t, ride.HasCoRider("u3"))
	assert.False(t, ride.HasCoRider("u9"))

	// same methods through a pointer
	ptr := &ride
	assert.Equal(t, ride.Riders(), ptr.Riders())
}

func TestCloneSharesNothing(t *testing.T) {
	d := 4.2
	ride := RideBooking{SharedUserIDs: []string{"u2"}, Distance: &d}

	c := ride.Clone()
	c.SharedUserIDs[0] = "x"
	*c.Distance = 9

	assert.Equal(t, "u2", ride.SharedUserIDs[0])
	assert.Equal(t, 4.2, *ride.Distance)
	assert.NotNil(t, RideBooking{}.Clone().SharedUserNames)
}

package ledger

import (
	"slices"

	"github.com/chachabrian/ridebook-backend/internal/models"
)

// ShowOwnerToCoRider returns ride as seen by viewerID. When the viewer is a
// co-rider the owner's name is appended to SharedUserNames unless it is
// already there. The second result reports whether a name was added.
// ride itself is never modified.
func ShowOwnerToCoRider(ride models.RideBooking, viewerID string) (models.RideBooking, bool) {
	if !ride.HasCoRider(viewerID) || slices.Contains(ride.SharedUserNames, ride.UserName) {
		return ride, false
	}
	view := ride.Clone()
	view.SharedUserNames = append(view.SharedUserNames, ride.UserName)
	return view, true
}

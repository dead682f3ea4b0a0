package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/chachabrian/ridebook-backend/internal/ledger"
)

type BookingInput struct {
	BookingID       string   `json:"bookingId"`
	From            string   `json:"from" binding:"required"`
	To              string   `json:"to" binding:"required"`
	UserID          string   `json:"userId" binding:"required"`
	UserName        string   `json:"userName" binding:"required"`
	Type            string   `json:"type"`
	Fare            *float64 `json:"fare" binding:"required,gte=0"`
	Distance        *float64 `json:"distance" binding:"omitempty,gte=0"`
	SharedUserIDs   []string `json:"sharedUserIds"`
	SharedUserNames []string `json:"sharedUserNames"`
}

func (in BookingInput) toNewBooking() ledger.NewBooking {
	return ledger.NewBooking{
		BookingID:       in.BookingID,
		From:            in.From,
		To:              in.To,
		UserID:          in.UserID,
		UserName:        in.UserName,
		Type:            in.Type,
		Fare:            *in.Fare,
		Distance:        in.Distance,
		SharedUserIDs:   in.SharedUserIDs,
		SharedUserNames: in.SharedUserNames,
	}
}

// CreateBooking handles the creation of a new ride booking
func CreateBooking(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input BookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		ride, err := l.Create(c.Request.Context(), input.toNewBooking())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, ride)
	}
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/chachabrian/ridebook-backend/internal/ledger"
)

// GetRideHistory lists the rides a user owns or shares, newest first
func GetRideHistory(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rides, err := l.History(c.Request.Context(), c.Param("userId"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, rides)
	}
}

// AddFeedback attaches feedback to a ride, replacing any earlier feedback
func AddFeedback(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Feedback string `json:"feedback" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		ride, err := l.AddFeedback(c.Request.Context(), c.Param("rideId"), input.Feedback)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, ride)
	}
}

// CancelRide marks a ride cancelled
func CancelRide(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ride, err := l.Cancel(c.Request.Context(), c.Param("rideId"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, ride)
	}
}

// CompleteRide marks a ride completed
func CompleteRide(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ride, err := l.Complete(c.Request.Context(), c.Param("rideId"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, ride)
	}
}

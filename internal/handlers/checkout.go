package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chachabrian/ridebook-backend/internal/ledger"
	"github.com/chachabrian/ridebook-backend/internal/payments"
)

type CheckoutInput struct {
	From        string  `json:"from" binding:"required"`
	To          string  `json:"to" binding:"required"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	RedirectURL string  `json:"redirectURL" binding:"required"`

	// When the rider is known the booking is recorded under the session id.
	UserID          string   `json:"userId"`
	UserName        string   `json:"userName"`
	Distance        *float64 `json:"distance" binding:"omitempty,gte=0"`
	SharedUserIDs   []string `json:"sharedUserIds"`
	SharedUserNames []string `json:"sharedUserNames"`
}

// CreateCheckoutSession opens a payment session for a cab ride
func CreateCheckoutSession(provider payments.Provider, l *ledger.Ledger, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if provider == nil {
			c.JSON(503, gin.H{"error": "payments are not configured"})
			return
		}

		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		sessionID, err := provider.CreateCheckoutSession(c.Request.Context(), payments.CheckoutRequest{
			From:        input.From,
			To:          input.To,
			Type:        input.Type,
			Amount:      input.Amount,
			RedirectURL: input.RedirectURL,
		})
		if err != nil {
			log.Error("checkout session failed", zap.Error(err))
			_ = c.Error(err)
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		if input.UserID == "" || input.UserName == "" {
			c.JSON(200, gin.H{"id": sessionID})
			return
		}

		ride, err := l.Create(c.Request.Context(), ledger.NewBooking{
			BookingID:       sessionID,
			From:            input.From,
			To:              input.To,
			UserID:          input.UserID,
			UserName:        input.UserName,
			Type:            input.Type,
			Fare:            input.Amount,
			Distance:        input.Distance,
			SharedUserIDs:   input.SharedUserIDs,
			SharedUserNames: input.SharedUserNames,
		})
		if err != nil {
			log.Error("booking after checkout failed", zap.String("sessionId", sessionID), zap.Error(err))
			_ = c.Error(err)
			status := 500
			if ledger.KindOf(err) == ledger.KindConflict {
				status = 409
			}
			c.JSON(status, gin.H{"id": sessionID, "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"id": sessionID, "booking": ride})
	}
}

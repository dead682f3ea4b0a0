package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/chachabrian/ridebook-backend/internal/ledger"
)

// respondError maps a ledger failure to its HTTP status.
func respondError(c *gin.Context, err error) {
	status := 500
	switch ledger.KindOf(err) {
	case ledger.KindNotFound:
		status = 404
	case ledger.KindConflict:
		status = 409
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/chachabrian/ridebook-backend/internal/services"
)

// WebSocketHandler streams ride events for the authenticated user
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		services.HandleWebSocket(hub, c.Writer, c.Request, c.GetString("userId"))
	}
}

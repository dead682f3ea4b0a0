package handlers

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chachabrian/ridebook-backend/internal/authclient"
	"github.com/chachabrian/ridebook-backend/internal/ledger"
	"github.com/chachabrian/ridebook-backend/internal/middleware"
	"github.com/chachabrian/ridebook-backend/internal/payments"
	"github.com/chachabrian/ridebook-backend/internal/services"
)

// Deps are the collaborators the HTTP routes need. Payments and TextGen may
// be nil, in which case their routes answer 503.
type Deps struct {
	Ledger      *ledger.Ledger
	Auth        *authclient.Client
	Payments    payments.Provider
	TextGen     TextGenerator
	Hub         *services.Hub
	Log         *zap.Logger
	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))

	// Configure CORS
	config := cors.DefaultConfig()
	if len(d.CORSOrigins) == 0 || slices.Contains(d.CORSOrigins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = d.CORSOrigins
		config.AllowCredentials = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.MaxAge = 12 * time.Hour
	r.Use(cors.New(config))

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Hello World!")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth proxy
	r.POST("/login", Login(d.Auth))
	r.GET("/me", GetCurrentUser(d.Auth))
	r.GET("/users", ListUsers(d.Auth))
	r.POST("/refresh", RefreshSession(d.Auth))

	r.POST("/create-checkout-session", CreateCheckoutSession(d.Payments, d.Ledger, d.Log))
	r.POST("/generate", GenerateText(d.TextGen))

	// Ride ledger
	r.POST("/bookings", CreateBooking(d.Ledger))
	rides := r.Group("/rides")
	{
		rides.GET("/:userId", GetRideHistory(d.Ledger))
		rides.POST("/:rideId/feedback", AddFeedback(d.Ledger))
		rides.POST("/:rideId/cancel", CancelRide(d.Ledger))
		rides.POST("/:rideId/complete", CompleteRide(d.Ledger))
	}

	// WebSocket connection
	r.GET("/ws", middleware.AuthMiddleware(d.Auth), WebSocketHandler(d.Hub))

	return r
}

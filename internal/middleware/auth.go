package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chachabrian/ridebook-backend/internal/authclient"
	"github.com/chachabrian/ridebook-backend/pkg/utils"
)

// IdentityProvider returns the profile of a bearer token's owner. Only the
// provider holds the signing key, so it is the one that vouches for a token.
type IdentityProvider interface {
	Me(ctx context.Context, accessToken string) (json.RawMessage, error)
}

// BearerToken returns the token from "Authorization: Bearer <token>", or "".
func BearerToken(c *gin.Context) string {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// AuthMiddleware requires a bearer token the provider accepts and stores
// the caller's id in the context under "userId". Malformed or expired
// tokens are turned away without a provider round trip.
func AuthMiddleware(idp IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)

		// WebSocket clients cannot set headers
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization token required"})
			c.Abort()
			return
		}

		if _, err := utils.InspectToken(tokenString, time.Now()); err != nil {
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		profile, err := idp.Me(c.Request.Context(), tokenString)
		if err != nil {
			_ = c.Error(err)
			var upstream *authclient.UpstreamError
			if errors.As(err, &upstream) {
				c.JSON(401, gin.H{"error": "Invalid token"})
			} else {
				c.JSON(502, gin.H{"error": "Failed to verify token"})
			}
			c.Abort()
			return
		}

		userID, username, err := identity(profile)
		if err != nil {
			_ = c.Error(err)
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("userId", userID)
		c.Set("username", username)
		c.Set("accessToken", tokenString)
		c.Next()
	}
}

func identity(profile json.RawMessage) (string, string, error) {
	var me struct {
		ID       interface{} `json:"id"`
		Username string      `json:"username"`
	}
	if err := json.Unmarshal(profile, &me); err != nil {
		return "", "", fmt.Errorf("decode profile: %w", err)
	}

	var userID string
	switch id := me.ID.(type) {
	case float64:
		userID = fmt.Sprintf("%.0f", id)
	case string:
		userID = id
	}
	if userID == "" {
		return "", "", errors.New("profile carries no user id")
	}
	return userID, me.Username, nil
}

package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/chachabrian/ridebook-backend/internal/authclient"
	"github.com/chachabrian/ridebook-backend/internal/middleware"
)

type LoginInput struct {
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required"`
	ExpiresInMins int    `json:"expiresInMins"`
}

type RefreshInput struct {
	RefreshToken  string `json:"refreshToken"`
	ExpiresInMins int    `json:"expiresInMins"`
}

// upstreamFailure relays the provider's status and message, falling back to
// 500 and fallback when the provider was not reached.
func upstreamFailure(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)
	var upstream *authclient.UpstreamError
	if !errors.As(err, &upstream) {
		c.JSON(500, gin.H{"error": fallback})
		return
	}
	msg := upstream.Message
	if msg == "" {
		msg = fallback
	}
	c.JSON(upstream.Status, gin.H{"error": msg})
}

func setSessionCookie(c *gin.Context, name, value string) {
	if value == "" {
		return
	}
	c.SetCookie(name, value, 0, "/", "", false, true)
}

// Login exchanges credentials for provider tokens and stores them in cookies
func Login(auth *authclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if input.ExpiresInMins == 0 {
			input.ExpiresInMins = 1200
		}

		session, err := auth.Login(c.Request.Context(), authclient.LoginRequest(input))
		if err != nil {
			upstreamFailure(c, err, "Login failed")
			return
		}

		setSessionCookie(c, "accessToken", session.Token)
		setSessionCookie(c, "refreshToken", session.RefreshToken)
		c.Data(200, "application/json; charset=utf-8", session.Raw)
	}
}

// GetCurrentUser returns the profile behind the bearer token
func GetCurrentUser(auth *authclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := middleware.BearerToken(c)
		if token == "" {
			c.JSON(401, gin.H{"error": "Authorization token required"})
			return
		}

		me, err := auth.Me(c.Request.Context(), token)
		if err != nil {
			var upstream *authclient.UpstreamError
			if errors.As(err, &upstream) {
				switch upstream.Status {
				case 401:
					c.JSON(401, gin.H{"error": "Unauthorized"})
					return
				case 403:
					c.JSON(403, gin.H{"error": "Forbidden"})
					return
				}
			}
			upstreamFailure(c, err, "Failed to get user info")
			return
		}

		c.Data(200, "application/json; charset=utf-8", me)
	}
}

// ListUsers returns every provider user except the one named in ?username=
func ListUsers(auth *authclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := auth.Users(c.Request.Context(), c.Query("username"))
		if err != nil {
			upstreamFailure(c, err, "Failed to get users")
			return
		}

		c.JSON(200, gin.H{"users": users})
	}
}

// RefreshSession renews the access token, reading the refresh token from
// the body or the refreshToken cookie
func RefreshSession(auth *authclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RefreshInput
		if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if input.RefreshToken == "" {
			input.RefreshToken, _ = c.Cookie("refreshToken")
		}
		if input.ExpiresInMins == 0 {
			input.ExpiresInMins = 60
		}

		session, err := auth.Refresh(c.Request.Context(), authclient.RefreshRequest(input))
		if err != nil {
			upstreamFailure(c, err, "Failed to refresh token")
			return
		}

		setSessionCookie(c, "accessToken", session.Token)
		c.Data(200, "application/json; charset=utf-8", session.Raw)
	}
}

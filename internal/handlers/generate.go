package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
)

type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerateText returns model output for a free-text prompt
func GenerateText(gen TextGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gen == nil {
			c.JSON(503, gin.H{"error": "text generation is not configured"})
			return
		}

		var input struct {
			Prompt string `json:"prompt" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		text, err := gen.Generate(c.Request.Context(), input.Prompt)
		if err != nil {
			_ = c.Error(err)
			c.JSON(502, gin.H{"error": "Failed to generate text"})
			return
		}

		c.JSON(200, gin.H{"text": text})
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gigmarket-backend/internal/shared"
)

// ActorFrom builds the caller identity from the values AuthMiddleware
// stored on the request context. Routes behind the middleware always
// carry both values.
func ActorFrom(c *gin.Context) shared.Actor {
	actor := shared.Actor{}
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uuid.UUID); ok {
			actor.ID = id
		}
	}
	if v, exists := c.Get("role"); exists {
		if role, ok := v.(string); ok {
			actor.Role = role
		}
	}
	return actor
}

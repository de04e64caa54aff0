package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

const actorIDKey = contextKey("actorID")

// ActorHeader names the request header that identifies the acting user for
// audit attribution. Authentication happens upstream of this service; the
// gateway forwards the verified identity here.
const ActorHeader = "X-Actor-ID"

// RequireActor creates a Gin middleware handler that extracts the acting
// user's ID from the actor header and stores it in both the Gin context and
// the request context. Requests without it are rejected: every write path
// stamps created-by/updated-by and audit events from this value.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + ActorHeader + " header"})
			return
		}

		c.Set(string(actorIDKey), actorID)
		ctx := context.WithValue(c.Request.Context(), actorIDKey, actorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting user's ID from the Gin context.
// It returns the ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(actorIDKey)
		if ctxVal != nil {
			return ctxVal.(string), true
		}
		return "", false
	}

	actorID, ok := actorIDVal.(string)
	if !ok {
		return "", false
	}

	return actorID, true
}

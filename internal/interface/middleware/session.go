package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grocerylist-api/pkg/response"
	"grocerylist-api/pkg/session"
)

// SessionRequired resolves the signed session cookie against the Redis
// store and sets "userID" in the context. Requests without a live session
// are rejected with 401.
func SessionRequired(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := sessions.FromRequest(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}

		data, found, err := sessions.Get(c.Request.Context(), id)
		if err != nil {
			response.Error[any](c, http.StatusInternalServerError, "Something went wrong. Please try again later.", nil)
			c.Abort()
			return
		}
		if !found {
			sessions.Clear(c)
			response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}

		c.Set("userID", data.UserID)
		c.Next()
	}
}

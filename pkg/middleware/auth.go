package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/susradar/susradar-server/internal/tokens"
)

const contextKeyUsername = "username"

// Validator is the minimal interface the auth middleware depends on.
type Validator interface {
	Validate(raw string) (string, error)
}

// UsernameFromContext returns the authenticated username set by Auth, or ""
// when the request is unauthenticated.
func UsernameFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyUsername)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Auth returns a middleware that validates the bearer token in the
// Authorization header and short-circuits with 401 on failure. The failure
// kinds carry distinguishing messages but the same status.
func Auth(v Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, err := v.Validate(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authErrorMessage(err)})
			return
		}
		c.Set(contextKeyUsername, username)
		c.Next()
	}
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, tokens.ErrTokenMissing):
		return "Token is missing"
	case errors.Is(err, tokens.ErrTokenExpired):
		return "Token has expired"
	default:
		return "Token is invalid"
	}
}

// Package auth holds the gin middleware that turns a bearer token into the
// caller's user id.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKey is the gin context key the authenticated user id is stored under.
const ContextKey = "userID"

// TokenVerifier checks a token and returns the user id it carries.
type TokenVerifier interface {
	ParseToken(tokenString string) (string, error)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "No token, authorization denied"})
			return
		}

		userID, err := verifier.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		c.Set(ContextKey, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the user id when a valid token is present but
// never rejects the request.
func OptionalAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if userID, err := verifier.ParseToken(tokenString); err == nil {
				c.Set(ContextKey, userID)
			}
		}
		c.Next()
	}
}

// UserID returns the id set by one of the middlewares.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextKey)
	return id, id != ""
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

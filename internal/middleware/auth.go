package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/syedhamza2135/Portfolio-Pulse/internal/auth"
)

// RequireAuth returns a Gin middleware that extracts and verifies the bearer
// token on protected requests. On success the resolved identity is attached
// to the context under "userID" and "email"; everything else is rejected
// with 401. Verification itself is delegated to the token service's pure
// Verify function.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		identity, err := tokens.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", identity.UserID)
		c.Set("email", identity.Email)
		c.Next()
	}
}

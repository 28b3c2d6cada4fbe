package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKeyClaims is the gin context key holding the verified *Claims.
const ContextKeyClaims = "authClaims"

// Middleware extracts and verifies the bearer token from the Authorization
// header. Sets the claims in context when valid; leaves it unset otherwise
// so RequireAuth can reject downstream.
func Middleware(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" {
			if claims, err := m.Verify(header); err == nil {
				c.Set(ContextKeyClaims, claims)
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests that did not present a valid bearer token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextKeyClaims); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Bearer token required. Include 'Authorization: Bearer <token>' header.",
			})
			return
		}
		c.Next()
	}
}

// GetClaims returns the verified claims from context, if any.
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// CityClaim returns the caller's city claim, or nil when unauthenticated or
// when the token carries no city.
func CityClaim(c *gin.Context) *string {
	claims, ok := GetClaims(c)
	if !ok {
		return nil
	}
	return claims.CityClaim()
}

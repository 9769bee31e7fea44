package middleware

import (
	"net/http"

	"securecheck/services"

	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key holding *services.Claims.
const ClaimsKey = "claims"

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := services.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := authService.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole admits requests whose token carries one of roles. It runs
// after AuthRequired.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": services.ErrMissingToken.Error()})
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role " + claims.Role + " may not access this resource"})
	}
}

// Gate returns the handlers guarding a route: none unless required is set,
// otherwise AuthRequired followed by RequireRole when roles are given.
func Gate(required bool, authService *services.AuthService, roles ...string) []gin.HandlerFunc {
	if !required {
		return nil
	}
	chain := []gin.HandlerFunc{AuthRequired(authService)}
	if len(roles) > 0 {
		chain = append(chain, RequireRole(roles...))
	}
	return chain
}

// CurrentClaims returns the claims stored by AuthRequired, if any.
func CurrentClaims(c *gin.Context) (*services.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}

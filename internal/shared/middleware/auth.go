package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oneview/server/internal/module/auth"
	"github.com/oneview/server/internal/shared/metrics"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// ClaimsKey is the context key for validated token claims.
	ClaimsKey = "claims"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// RequireAuth returns a middleware that rejects requests without a valid
// bearer token and stores the claims in the context.
func RequireAuth(validator TokenValidator, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authorization header required",
				},
			})
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			m.RecordAuthEvent("token_invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Invalid or expired token",
				},
			})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole returns a middleware that only admits callers whose token
// carries one of roles. It must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authorization header required",
				},
			})
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient role for this resource",
			},
		})
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if strings.HasPrefix(authHeader, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
	}
	return ""
}

// GetClaims returns the validated claims, or nil for anonymous requests.
func GetClaims(c *gin.Context) *auth.Claims {
	if val, exists := c.Get(ClaimsKey); exists {
		if claims, ok := val.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the caller's user ID, or uuid.Nil.
func GetUserID(c *gin.Context) uuid.UUID {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return uuid.Nil
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/searchly/bff/internal/cache"
	"github.com/searchly/bff/internal/utils"
)

type JWTMiddleware struct {
	sessions    *cache.SessionCache
	rateLimiter *InvalidAuthRateLimiter
}

func NewJWTMiddleware(sessions *cache.SessionCache) *JWTMiddleware {
	return &JWTMiddleware{
		sessions:    sessions,
		rateLimiter: NewInvalidAuthRateLimiter(),
	}
}

// Handle validates the session token and puts the user identity on the
// request context.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.handleAuthError(c, "UNAUTHORIZED", "Missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.handleAuthError(c, "UNAUTHORIZED", "Invalid authorization header")
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			m.handleAuthError(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("email", claims.Email)
		c.Set("name", claims.Name)

		// Activity feeds the favourite sync worker; losing a touch only
		// delays a refresh.
		if m.sessions != nil {
			_ = m.sessions.TouchActive(c.Request.Context(), claims.Email)
		}

		c.Next()
	}
}

func (m *JWTMiddleware) handleAuthError(c *gin.Context, code, message string) {
	// Apply rate limit for invalid auth attempts
	ip := c.ClientIP()
	if !m.rateLimiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	utils.Error(c, 401, code, message)
	c.Abort()
}

// UserEmail returns the authenticated user's email from context.
func UserEmail(c *gin.Context) string {
	return c.GetString("email")
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cars-api-go/internal/auth"
)

const principalKey = "auth_principal"

// JWTAuthMiddleware rejects requests without a valid bearer token.
// When enabled is false every request passes through unauthenticated.
func JWTAuthMiddleware(logger *zap.Logger, enabled bool, validator auth.TokenValidator) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Missing Authorization header")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			unauthorized(c, "Invalid Authorization header format")
			return
		}

		principal, err := validator.ValidateToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			logger.Warn("JWT validation failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", RequestID(c)),
				zap.Error(err),
			)
			unauthorized(c, "Invalid token")
			return
		}

		logger.Debug("JWT auth validated",
			zap.String("path", c.Request.URL.Path),
			zap.String("subject", principal.Subject),
			zap.Duration("auth_duration", time.Since(start)),
		)

		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the caller authenticated by JWTAuthMiddleware.
func PrincipalFrom(c *gin.Context) (*auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*auth.Principal)
	return principal, ok
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="cars"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":  message,
		"status": http.StatusUnauthorized,
	})
}

// Package middleware provides the gin middleware chain shared by all routes.
package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/Lumina-Wellness/service-billing/internal/auth"
	"github.com/Lumina-Wellness/service-billing/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ctxUserIDKey = "user_id"
	ctxRoleKey   = "user_role"

	headerRequestID = "X-Request-ID"
	headerDeviceID  = "X-Device-ID"
)

// RecoveryMiddleware recovers from panics and logs them through zap.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(500, gin.H{"success": false, "error": "internal server error"})
			}
		}()
		c.Next()
	}
}

// LoggerMiddleware logs each request with latency and status.
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(headerRequestID)),
		)
	}
}

// CORSMiddleware allows cross-origin requests from the mobile-web client.
func CORSMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", headerDeviceID, headerRequestID)
	return cors.New(cfg)
}

// RequestIDMiddleware assigns a request ID when the client did not send one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(headerRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// SecurityHeadersMiddleware sets baseline security headers.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// AuthMiddleware requires a valid bearer token and stores the claims.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtManager)
		if !ok {
			response.Unauthorized(c, "missing or invalid token")
			c.Abort()
			return
		}
		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, claims.Role)
		c.Next()
	}
}

// TempIdentityResolver resolves a device to its temporary user identifier.
// Implemented by identity.Resolver; declared here to avoid the import cycle.
type TempIdentityResolver interface {
	Resolve(ctx context.Context, deviceID string) (string, error)
}

// IdentityMiddleware resolves the caller's user identity: an authenticated
// bearer token when present, otherwise a temporary user bound to the
// X-Device-ID header. Requests carrying neither are rejected.
func IdentityMiddleware(jwtManager *auth.JWTManager, resolver TempIdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, jwtManager); ok {
			c.Set(ctxUserIDKey, claims.UserID)
			c.Set(ctxRoleKey, claims.Role)
			c.Next()
			return
		}

		deviceID := strings.TrimSpace(c.GetHeader(headerDeviceID))
		if deviceID == "" {
			response.Unauthorized(c, "authentication or device id required")
			c.Abort()
			return
		}
		userID, err := resolver.Resolve(c.Request.Context(), deviceID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ctxUserIDKey, userID)
		c.Set(ctxRoleKey, auth.RoleMember)
		c.Next()
	}
}

// RequireRole gates a route to callers holding the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRoleKey) != role {
			c.AbortWithStatusJSON(403, gin.H{"success": false, "error": "forbidden"})
			return
		}
		c.Next()
	}
}

// GetUserID returns the resolved user identity for the request.
func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(ctxUserIDKey)
	return id, id != ""
}

func bearerClaims(c *gin.Context, jwtManager *auth.JWTManager) (*auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	claims, err := jwtManager.Validate(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	return claims, true
}

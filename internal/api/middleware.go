package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/logger"
	"github.com/BhautikVekariya21/backend/internal/metrics"
	"github.com/BhautikVekariya21/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
	RequestIDHeader  = "X-Request-ID"
)

// Cookie names. The legacy name is still accepted on requests.
const (
	accessTokenCookie       = "accessToken"
	refreshTokenCookie      = "refreshToken"
	legacyAccessTokenCookie = "access_token"
)

// RequestLogger attaches a request id and a logrus entry to each request,
// recovers panics, and logs the outcome.
func RequestLogger(base *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		entry := base.WithFields(logrus.Fields{
			"request_id":  requestID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_addr": c.ClientIP(),
		})
		c.Request = c.Request.WithContext(logger.WithEntry(c.Request.Context(), entry))

		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(c.Request.Context()).WithField("panic", rec).Error("panic recovered")
				abortWithError(c, http.StatusInternalServerError, "Internal server error")
			}

			status := c.Writer.Status()
			done := logger.FromContext(c.Request.Context()).WithFields(logrus.Fields{
				"status":   status,
				"duration": time.Since(start).String(),
			})
			switch {
			case status >= http.StatusInternalServerError:
				done.Error("request completed")
			case status >= http.StatusBadRequest:
				done.Warn("request completed")
			default:
				done.Info("request completed")
			}
		}()

		c.Next()
	}
}

// CORSMiddleware allows origin to call the API with credentials. Browsers
// refuse credentials with a literal "*", so "*" echoes the caller's Origin.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed := origin
		if origin == "*" {
			allowed = c.GetHeader("Origin")
		}
		if allowed != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", allowed)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+RequestIDHeader)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// MetricsMiddleware records request counts, durations and in-flight requests.
// Routes are labelled by their pattern to keep cardinality bounded.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.RequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Authenticator verifies access tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// AuthMiddleware requires a valid access token from the accessToken cookie,
// the legacy access_token cookie or an Authorization: Bearer header.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := accessTokenFrom(c)
		if err != nil {
			respondError(c, err)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}

		// --- Token is valid ---
		c.Set(ContextUserIDKey, user.ID)
		c.Request = c.Request.WithContext(logger.WithField(c.Request.Context(), "user_id", user.ID.Hex()))

		c.Next()
	}
}

func accessTokenFrom(c *gin.Context) (string, error) {
	for _, name := range []string{accessTokenCookie, legacyAccessTokenCookie} {
		if v, err := c.Cookie(name); err == nil && v != "" {
			return v, nil
		}
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", service.ErrUnauthorized
	}
	// Expecting "Bearer <token>"
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", service.ErrUnauthorized
	}
	return parts[1], nil
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	id, ok := idRaw.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	return id, nil
}

// mustUserID returns the authenticated caller, or aborts with 401.
func mustUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, service.ErrUnauthorized)
		return primitive.NilObjectID, false
	}
	return id, true
}

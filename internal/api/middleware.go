package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"pos-service/internal/auth"
	"pos-service/internal/util"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// extractToken pulls the credential from the Authorization header,
// the x-auth-token header, or the token query parameter (used by the
// live connection upgrade, where custom headers are unavailable).
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if header := c.GetHeader("x-auth-token"); header != "" {
		return header
	}
	return c.Query("token")
}

// authMiddleware verifies the request credential and stores the
// principal on the context
func authMiddleware(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied. No token provided."})
			return
		}
		principal, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token."})
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// requireAction denies the request unless the principal's role is
// granted the action in the permission table
func requireAction(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := principalFrom(c)
		if principal == nil || !auth.Can(principal.Role, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied."})
			return
		}
		c.Next()
	}
}

// principalFrom returns the authenticated principal, or nil when the
// auth middleware did not run
func principalFrom(c *gin.Context) *auth.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, _ := v.(*auth.Principal)
	return principal
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

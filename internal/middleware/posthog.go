package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware tracks successful authenticated API calls with PostHog.
// The event name is derived from the route template, e.g.
// "/api/v1/legs/:legID/reconcile" becomes "api_v1_legs_:legID_reconcile".
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		for _, param := range c.Params {
			props[param.Key] = param.Value
		}

		if err := posthogClient.Enqueue(userID, eventName, props); err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("Failed to enqueue analytics event", slog.String("event", eventName), slog.String("error", err.Error()))
		}
	}
}

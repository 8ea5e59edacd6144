package middleware

import (
	"net/http"
	"time"

	"github.com/deploytestapp/web-app/internal/telemetry"
	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

// Metrics records request count, duration and in-flight gauge.
// Register it outside the error boundary so the final status is seen.
// A nil m disables recording.
func Metrics(m *telemetry.HTTPMetrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		startedAt := time.Now()
		ctx := c.Request.Context()
		method := c.Request.Method
		m.Started(ctx, method)

		defer func() {
			route := c.FullPath()
			if route == "" {
				route = unmatchedRoute
			}

			if recovered := recover(); recovered != nil {
				m.Finished(ctx, method, route, http.StatusInternalServerError, time.Since(startedAt))
				panic(recovered)
			}
			m.Finished(ctx, method, route, c.Writer.Status(), time.Since(startedAt))
		}()

		c.Next()
	}
}

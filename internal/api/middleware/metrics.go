package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octodock/marketplace-api/internal/api/metrics"
)

// Metrics records request count and latency per matched route. Requests
// that matched no route are grouped under "unmatched".
//
// Errors are rendered here through c.Error so the recorded status is the one
// the client receives.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			code := strconv.Itoa(c.Response().Status)
			metrics.HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

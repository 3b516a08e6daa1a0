// Package middleware provides Echo middleware for the FretScout server.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fretscout/fretscout/internal/metrics"
)

// operationalGauge maps an operational route to its up/down gauge. The bool
// also marks the route as excluded from request histograms and counters,
// which covers /metrics itself even though it has no gauge.
func operationalGauge(path string) (prometheus.Gauge, bool) {
	switch path {
	case "/healthz":
		return metrics.HealthzUp, true
	case "/readyz":
		return metrics.ReadyzUp, true
	case "/metrics":
		return nil, true
	default:
		return nil, false
	}
}

// Metrics returns Echo middleware that records request duration and status
// for API and web routes. Health and scrape routes are kept out of the
// histogram and counter series; the health routes instead flip a 0/1 gauge
// based on the response status.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			if gauge, operational := operationalGauge(path); operational {
				err := next(c)
				if gauge != nil {
					setUpDown(gauge, c.Response().Status)
				}
				return err
			}

			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, path, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(c.Request().Method, path, status).
				Inc()

			return err
		}
	}
}

func setUpDown(gauge prometheus.Gauge, status int) {
	if status >= 200 && status < 300 {
		gauge.Set(1)
		return
	}
	gauge.Set(0)
}

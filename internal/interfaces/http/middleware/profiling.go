package middleware

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/carehouse/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths and SkipPathPrefixes get no labels
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// Profiling returns profiling middleware with default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig tags CPU samples taken while a request runs with its
// method, route pattern and resource ("revenue-entries", "payout-rates", ...),
// so Pyroscope can split profiles by endpoint.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	skip := pathSkipper{exact: cfg.SkipPaths, prefixes: cfg.SkipPathPrefixes}

	return func(c *gin.Context) {
		if skip.matches(c.Request.URL.Path) {
			c.Next()
			return
		}
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

type pathSkipper struct {
	exact    []string
	prefixes []string
}

func (s pathSkipper) matches(path string) bool {
	if slices.Contains(s.exact, path) {
		return true
	}
	return slices.ContainsFunc(s.prefixes, func(p string) bool { return strings.HasPrefix(path, p) })
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := map[string]string{telemetry.ProfilingLabelMethod: c.Request.Method}
	route := c.FullPath()
	if route == "" {
		return labels
	}
	labels[telemetry.ProfilingLabelRoute] = route
	if resource := resourceFromRoute(route); resource != "" {
		labels[telemetry.ProfilingLabelResource] = resource
	}
	return labels
}

// resourceFromRoute returns the first static segment after the API prefix:
// "/api/v1/revenue-entries/:id/payouts" -> "revenue-entries"
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		switch {
		case part == "" || part == "api" || isVersionSegment(part):
			continue
		case strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*"):
			return ""
		default:
			return part
		}
	}
	return ""
}

// isVersionSegment matches "v1", "V2" and so on
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	_, err := strconv.ParseUint(segment[1:], 10, 32)
	return err == nil
}

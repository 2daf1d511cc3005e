// Package middleware holds the gin.HandlerFuncs cmd/crossmini-server wraps
// its routes in: permissive CORS and a request-latency monitor backing the
// /metrics endpoint.
package middleware

import (
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CORS allows any origin to call the generation endpoints; this is a
// stateless, unauthenticated API with nothing origin-based to protect.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type endpointMetrics struct {
	count       int64
	totalTime   time.Duration
	minTime     time.Duration
	maxTime     time.Duration
	recentTimes []time.Duration
}

type performanceMetrics struct {
	mu           sync.RWMutex
	requestCount int64
	totalTime    time.Duration
	endpoints    map[string]*endpointMetrics
}

var globalMetrics = &performanceMetrics{
	endpoints: make(map[string]*endpointMetrics),
}

// PerformanceMonitor records per-endpoint request latency and logs requests
// slower than 200ms, skipping /health.
func PerformanceMonitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start)
		if path == "/health" {
			return
		}

		if duration > 200*time.Millisecond {
			log.Printf("[SLOW] %s %s - %v (status: %d)", c.Request.Method, path, duration, c.Writer.Status())
		}
		globalMetrics.record(path, duration)
		c.Header("X-Response-Time", duration.String())
	}
}

func (pm *performanceMetrics) record(path string, duration time.Duration) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.requestCount++
	pm.totalTime += duration

	m, ok := pm.endpoints[path]
	if !ok {
		m = &endpointMetrics{minTime: duration, maxTime: duration}
		pm.endpoints[path] = m
	}
	m.count++
	m.totalTime += duration
	if duration < m.minTime {
		m.minTime = duration
	}
	if duration > m.maxTime {
		m.maxTime = duration
	}
	m.recentTimes = append(m.recentTimes, duration)
	if len(m.recentTimes) > 100 {
		m.recentTimes = m.recentTimes[1:]
	}
}

func (m *endpointMetrics) p95() time.Duration {
	if len(m.recentTimes) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(m.recentTimes))
	copy(sorted, m.recentTimes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)) * 0.95)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// GetMetrics returns a JSON-ready snapshot of accumulated request metrics
// for the /metrics endpoint.
func GetMetrics() map[string]interface{} {
	globalMetrics.mu.RLock()
	defer globalMetrics.mu.RUnlock()

	endpoints := make(map[string]interface{}, len(globalMetrics.endpoints))
	for path, m := range globalMetrics.endpoints {
		avg := time.Duration(0)
		if m.count > 0 {
			avg = m.totalTime / time.Duration(m.count)
		}
		endpoints[path] = map[string]interface{}{
			"count":  m.count,
			"avg_ms": avg.Milliseconds(),
			"min_ms": m.minTime.Milliseconds(),
			"max_ms": m.maxTime.Milliseconds(),
			"p95_ms": m.p95().Milliseconds(),
		}
	}

	avg := time.Duration(0)
	if globalMetrics.requestCount > 0 {
		avg = globalMetrics.totalTime / time.Duration(globalMetrics.requestCount)
	}
	return map[string]interface{}{
		"total_requests":  globalMetrics.requestCount,
		"avg_duration_ms": avg.Milliseconds(),
		"endpoints":       endpoints,
	}
}

// metrics.go — Prometheus HTTP метрики.
// Регистрирует метрики: mo_http_requests_total, mo_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mo_http_requests_total",
			Help: "Общее количество HTTP-запросов",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mo_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик:
			// имена файлов и очередей не должны раздувать кардинальность
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет динамические сегменты пути на шаблоны
// для предотвращения взрывного роста кардинальности метрик.
// /api/v1/queues/certified/files → /api/v1/queues/{queueType}/files
// /api/v1/pdf/letter.pdf → /api/v1/pdf/{filename}
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/api/v1/sync-log",
		"/api/v1/settings",
		"/api/v1/settings/test-maildb",
		"/api/v1/settings/test-path",
		"/api/v1/autosync/status",
		"/api/v1/autosync/run",
		"/api/v1/pdf/removal-request":
		return path
	}

	if rest, ok := strings.CutPrefix(path, "/api/v1/queues/"); ok {
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			switch rest[i:] {
			case "/files":
				return "/api/v1/queues/{queueType}/files"
			case "/sync":
				return "/api/v1/queues/{queueType}/sync"
			}
		}
		return "/api/v1/queues/{queueType}"
	}
	if strings.HasPrefix(path, "/api/v1/pdf/") {
		return "/api/v1/pdf/{filename}"
	}

	return path
}

// Package metrics exposes request and error counters in Prometheus text format.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	vm "github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/petermazzocco/murmur-api/internal/apperr"
)

// Middleware counts requests per route pattern, method and status and records their duration.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		vm.GetOrCreateCounter(fmt.Sprintf(`murmur_http_requests_total{route=%q,method=%q,status="%d"}`, route, r.Method, status)).Inc()
		vm.GetOrCreateSummary(fmt.Sprintf(`murmur_http_request_duration_seconds{route=%q}`, route)).UpdateDuration(start)
	})
}

// ObserveError counts an operation failure by kind.
func ObserveError(kind apperr.Kind) {
	vm.GetOrCreateCounter(fmt.Sprintf(`murmur_errors_total{kind=%q}`, kind.String())).Inc()
}

func Handler(w http.ResponseWriter, _ *http.Request) {
	vm.WritePrometheus(w, true)
}

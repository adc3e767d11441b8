package router

import (
	"net/http"
	"time"

	"fare-tracker-service/internal/interface/httpapi"
	"fare-tracker-service/pkg/logger"
)

// NewRouter mounts the health check, the metrics endpoint and the reporting API
func NewRouter(reports *httpapi.Handler, metrics http.Handler, logger logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	mux.HandleFunc("GET /api/statistics", reports.Statistics)
	mux.HandleFunc("GET /api/entries/last", reports.LastEntries)
	mux.HandleFunc("GET /api/flights", reports.Flights)
	mux.HandleFunc("GET /api/prices/days-before", reports.DaysBefore)
	mux.HandleFunc("GET /api/prices/matrices", reports.Matrices)
	mux.HandleFunc("GET /api/prices/development", reports.Development)

	return withRequestLog(mux, logger)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func withRequestLog(next http.Handler, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fare-tracker-service/internal/domain/repository"
	"fare-tracker-service/pkg/logger"
)

const (
	defaultLastEntries = 15
	maxLastEntries     = 500
)

// Handler serves the reporting aggregates as JSON
type Handler struct {
	reports repository.ReportRepository
	logger  logger.Logger
}

// NewHandler creates a new reporting handler
func NewHandler(reports repository.ReportRepository, logger logger.Logger) *Handler {
	return &Handler{
		reports: reports,
		logger:  logger,
	}
}

// Statistics handles GET /api/statistics
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Statistics(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// LastEntries handles GET /api/entries/last?limit=N
func (h *Handler) LastEntries(w http.ResponseWriter, r *http.Request) {
	limit := defaultLastEntries
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxLastEntries {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and "+strconv.Itoa(maxLastEntries))
			return
		}
		limit = n
	}

	entries, err := h.reports.LastEntries(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Flights handles GET /api/flights
func (h *Handler) Flights(w http.ResponseWriter, r *http.Request) {
	flights, err := h.reports.FlightsWithAveragePrice(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, flights)
}

// DaysBefore handles GET /api/prices/days-before
func (h *Handler) DaysBefore(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.AveragePriceByDaysBefore(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Matrices handles GET /api/prices/matrices
func (h *Handler) Matrices(w http.ResponseWriter, r *http.Request) {
	matrices, err := h.reports.PricingMatrices(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matrices)
}

// Development handles GET /api/prices/development
func (h *Handler) Development(w http.ResponseWriter, r *http.Request) {
	points, err := h.reports.PriceDevelopmentByDow(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("Report query failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "report query failed")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

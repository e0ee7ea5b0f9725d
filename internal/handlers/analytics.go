package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/flotasur/fleet-management/internal/analytics"
)

// AnalyticsHandler serves cost, efficiency, failure and availability figures.
type AnalyticsHandler struct {
	service *analytics.Service
	now     func() time.Time
}

func NewAnalyticsHandler(service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, now: time.Now}
}

func (h *AnalyticsHandler) Costs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	costs, err := h.service.CostSummary(r.Context())
	if err != nil {
		http.Error(w, "Failed to compute cost summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, costs)
}

func (h *AnalyticsHandler) Efficiency(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	stats, err := h.service.FuelEfficiency(r.Context())
	if err != nil {
		http.Error(w, "Failed to compute fuel efficiency", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AnalyticsHandler) Failures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	stats, err := h.service.FailureSummary(r.Context())
	if err != nil {
		http.Error(w, "Failed to compute failure summary", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// MaintenanceTrend serves monthly maintenance spend, ?months= overrides the
// six-month default.
func (h *AnalyticsHandler) MaintenanceTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	months := 6
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 36 {
			http.Error(w, "months must be between 1 and 36", http.StatusBadRequest)
			return
		}
		months = parsed
	}

	trend, err := h.service.MaintenanceTrend(r.Context(), h.now().UTC(), months)
	if err != nil {
		http.Error(w, "Failed to compute maintenance trend", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

func (h *AnalyticsHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rows, err := h.service.Availability(r.Context())
	if err != nil {
		http.Error(w, "Failed to compute availability", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/flotasur/fleet-management/internal/reports"
)

// ReportHandler serves downloadable report files.
type ReportHandler struct {
	exporter *reports.Exporter
	now      func() time.Time
}

func NewReportHandler(exporter *reports.Exporter) *ReportHandler {
	return &ReportHandler{exporter: exporter, now: time.Now}
}

// FleetWorkbook serves the full fleet snapshot as an Excel workbook.
func (h *ReportHandler) FleetWorkbook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := reports.FileName("fleet_report", "xlsx", h.now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if err := h.exporter.FleetWorkbook(r.Context(), w); err != nil {
		http.Error(w, "Failed to build workbook", http.StatusInternalServerError)
	}
}

// MaintenanceCSV serves the maintenance history as CSV.
func (h *ReportHandler) MaintenanceCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := reports.FileName("maintenance", "csv", h.now())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if err := h.exporter.MaintenanceCSV(r.Context(), w); err != nil {
		http.Error(w, "Failed to build CSV", http.StatusInternalServerError)
	}
}

// FuelCSV serves the fuel history as CSV.
func (h *ReportHandler) FuelCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := reports.FileName("fuel", "csv", h.now())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if err := h.exporter.FuelCSV(r.Context(), w); err != nil {
		http.Error(w, "Failed to build CSV", http.StatusInternalServerError)
	}
}

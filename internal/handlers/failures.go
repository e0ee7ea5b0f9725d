package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
)

// FailureHandler handles breakdown recording.
type FailureHandler struct {
	failures db.FailureCollection
	vehicles db.VehicleCollection
}

func NewFailureHandler(failures db.FailureCollection, vehicles db.VehicleCollection) *FailureHandler {
	return &FailureHandler{failures: failures, vehicles: vehicles}
}

func validFailureSeverity(s string) bool {
	switch s {
	case "minor", "moderate", "serious", "critical":
		return true
	default:
		return false
	}
}

// Handle dispatches /api/failures by method.
func (h *FailureHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FailureHandler) get(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if vehicleID := r.URL.Query().Get("vehicle_id"); vehicleID != "" {
		filter["vehicle_id"] = vehicleID
	}
	if severity := r.URL.Query().Get("severity"); severity != "" {
		if !validFailureSeverity(severity) {
			http.Error(w, "Unknown failure severity", http.StatusBadRequest)
			return
		}
		filter["severity"] = severity
	}

	failures, err := h.failures.FindFailures(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to load failure history", http.StatusInternalServerError)
		return
	}
	if failures == nil {
		failures = []models.Failure{}
	}
	writeJSON(w, http.StatusOK, failures)
}

func (h *FailureHandler) create(w http.ResponseWriter, r *http.Request) {
	var failure models.Failure
	if !readJSON(w, r, &failure) {
		return
	}

	if failure.VehicleID == "" || failure.Type == "" {
		http.Error(w, "Vehicle ID and failure type are required", http.StatusBadRequest)
		return
	}
	if failure.Date.IsZero() {
		http.Error(w, "Failure date is required", http.StatusBadRequest)
		return
	}
	if !validFailureSeverity(failure.Severity) {
		http.Error(w, "Unknown failure severity", http.StatusBadRequest)
		return
	}
	if failure.DowntimeHours < 0 || failure.RepairCost < 0 {
		http.Error(w, "Downtime and repair cost cannot be negative", http.StatusBadRequest)
		return
	}

	if _, err := h.vehicles.FindVehicleByID(r.Context(), failure.VehicleID); err != nil {
		if isNotFound(err) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	if err := h.failures.InsertFailure(r.Context(), failure); err != nil {
		http.Error(w, "Failed to record failure", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Failure recorded"})
}

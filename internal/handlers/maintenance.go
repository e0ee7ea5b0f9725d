package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
)

// MaintenanceHandler handles the maintenance history endpoints. Recording a
// service with an odometer reading syncs the vehicle odometer to it.
type MaintenanceHandler struct {
	maintenance db.MaintenanceCollection
	vehicles    db.VehicleCollection
}

func NewMaintenanceHandler(maintenance db.MaintenanceCollection, vehicles db.VehicleCollection) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance, vehicles: vehicles}
}

// Handle dispatches /api/maintenance by method. Deletion takes ?id=.
func (h *MaintenanceHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *MaintenanceHandler) get(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if vehicleID := r.URL.Query().Get("vehicle_id"); vehicleID != "" {
		filter["vehicle_id"] = vehicleID
	}
	if itemType := r.URL.Query().Get("type"); itemType != "" {
		filter["type"] = itemType
	}

	items, err := h.maintenance.FindMaintenance(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to load maintenance history", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.MaintenanceItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MaintenanceHandler) create(w http.ResponseWriter, r *http.Request) {
	var item models.MaintenanceItem
	if !readJSON(w, r, &item) {
		return
	}

	if item.VehicleID == "" || item.Type == "" {
		http.Error(w, "Vehicle ID and maintenance type are required", http.StatusBadRequest)
		return
	}
	if item.Date.IsZero() {
		http.Error(w, "Service date is required", http.StatusBadRequest)
		return
	}
	if item.Cost < 0 {
		http.Error(w, "Cost cannot be negative", http.StatusBadRequest)
		return
	}
	if item.NextDueOdometer != nil && *item.NextDueOdometer <= item.Odometer {
		http.Error(w, "Next due odometer must exceed the service reading", http.StatusBadRequest)
		return
	}
	if item.AlertKm <= 0 {
		item.AlertKm = models.DefaultMaintenanceAlertKm
	}

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), item.VehicleID)
	if err != nil {
		if isNotFound(err) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	if err := h.maintenance.InsertMaintenance(r.Context(), item); err != nil {
		http.Error(w, "Failed to record maintenance", http.StatusInternalServerError)
		return
	}

	// The workshop reading replaces the vehicle odometer, downward
	// corrections included. A zero reading means none was taken.
	if item.Odometer > 0 && item.Odometer != vehicle.Odometer {
		if err := h.vehicles.UpdateVehicleOdometer(r.Context(), item.VehicleID, item.Odometer); err != nil {
			http.Error(w, "Maintenance recorded but odometer update failed", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Maintenance recorded"})
}

func (h *MaintenanceHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Maintenance ID is required", http.StatusBadRequest)
		return
	}

	if err := h.maintenance.DeleteMaintenance(r.Context(), id); err != nil {
		if isNotFound(err) {
			http.Error(w, "Maintenance item not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Maintenance deleted"})
}

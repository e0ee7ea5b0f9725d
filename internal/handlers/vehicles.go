package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
)

// VehicleHandler handles the vehicle registry endpoints.
type VehicleHandler struct {
	vehicles db.VehicleCollection
}

func NewVehicleHandler(vehicles db.VehicleCollection) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// Handle dispatches /api/vehicles by method. Item operations take ?id=.
func (h *VehicleHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *VehicleHandler) get(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
		if err != nil {
			if isNotFound(err) {
				http.Error(w, "Vehicle not found", http.StatusNotFound)
			} else {
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}
		writeJSON(w, http.StatusOK, vehicle)
		return
	}

	filter := bson.M{}
	if state := r.URL.Query().Get("state"); state != "" {
		if !models.IsValidVehicleState(models.VehicleState(state)) {
			http.Error(w, "Unknown vehicle state", http.StatusBadRequest)
			return
		}
		filter["state"] = state
	}
	if depot := r.URL.Query().Get("depot"); depot != "" {
		filter["depot"] = depot
	}

	vehicles, err := h.vehicles.FindVehicles(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to load vehicles", http.StatusInternalServerError)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) create(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	if !readJSON(w, r, &vehicle) {
		return
	}

	if vehicle.Plate == "" {
		http.Error(w, "Plate is required", http.StatusBadRequest)
		return
	}
	if vehicle.State == "" {
		vehicle.State = models.VehicleActive
	}
	if !models.IsValidVehicleState(vehicle.State) {
		http.Error(w, "Unknown vehicle state", http.StatusBadRequest)
		return
	}
	if vehicle.Odometer < 0 {
		http.Error(w, "Odometer cannot be negative", http.StatusBadRequest)
		return
	}

	if err := h.vehicles.InsertVehicle(r.Context(), vehicle); err != nil {
		if db.IsDuplicateKey(err) {
			http.Error(w, "A vehicle with that plate already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Vehicle created"})
}

func (h *VehicleHandler) update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Vehicle ID is required", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if !readJSON(w, r, &vehicle) {
		return
	}
	if vehicle.State != "" && !models.IsValidVehicleState(vehicle.State) {
		http.Error(w, "Unknown vehicle state", http.StatusBadRequest)
		return
	}

	if err := h.vehicles.UpdateVehicle(r.Context(), id, vehicle); err != nil {
		switch {
		case db.IsDuplicateKey(err):
			http.Error(w, "A vehicle with that plate already exists", http.StatusConflict)
		case isNotFound(err):
			http.Error(w, "Vehicle not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle updated"})
}

func (h *VehicleHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Vehicle ID is required", http.StatusBadRequest)
		return
	}

	if err := h.vehicles.DeleteVehicle(r.Context(), id); err != nil {
		if isNotFound(err) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deleted"})
}

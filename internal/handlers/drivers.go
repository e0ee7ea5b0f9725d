package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
)

// DriverHandler handles the driver registry endpoints.
type DriverHandler struct {
	drivers db.DriverCollection
}

func NewDriverHandler(drivers db.DriverCollection) *DriverHandler {
	return &DriverHandler{drivers: drivers}
}

func validDriverState(s models.DriverState) bool {
	switch s {
	case models.DriverActive, models.DriverInactive, models.DriverSuspended:
		return true
	default:
		return false
	}
}

// Handle dispatches /api/drivers by method. Item operations take ?id=.
func (h *DriverHandler) Handle(w http.ResponseWriter, r *http.Request) {
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

func (h *DriverHandler) get(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		driver, err := h.drivers.FindDriverByID(r.Context(), id)
		if err != nil {
			if isNotFound(err) {
				http.Error(w, "Driver not found", http.StatusNotFound)
			} else {
				http.Error(w, err.Error(), http.StatusBadRequest)
			}
			return
		}
		writeJSON(w, http.StatusOK, driver)
		return
	}

	filter := bson.M{}
	if state := r.URL.Query().Get("state"); state != "" {
		if !validDriverState(models.DriverState(state)) {
			http.Error(w, "Unknown driver state", http.StatusBadRequest)
			return
		}
		filter["state"] = state
	}

	drivers, err := h.drivers.FindDrivers(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to load drivers", http.StatusInternalServerError)
		return
	}
	if drivers == nil {
		drivers = []models.Driver{}
	}
	writeJSON(w, http.StatusOK, drivers)
}

func (h *DriverHandler) create(w http.ResponseWriter, r *http.Request) {
	var driver models.Driver
	if !readJSON(w, r, &driver) {
		return
	}

	if driver.Name == "" || driver.NationalID == "" {
		http.Error(w, "Name and national ID are required", http.StatusBadRequest)
		return
	}
	if driver.State == "" {
		driver.State = models.DriverActive
	}
	if !validDriverState(driver.State) {
		http.Error(w, "Unknown driver state", http.StatusBadRequest)
		return
	}

	if err := h.drivers.InsertDriver(r.Context(), driver); err != nil {
		if db.IsDuplicateKey(err) {
			http.Error(w, "A driver with that national ID already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create driver", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Driver created"})
}

func (h *DriverHandler) update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Driver ID is required", http.StatusBadRequest)
		return
	}

	var driver models.Driver
	if !readJSON(w, r, &driver) {
		return
	}
	if driver.State != "" && !validDriverState(driver.State) {
		http.Error(w, "Unknown driver state", http.StatusBadRequest)
		return
	}

	if err := h.drivers.UpdateDriver(r.Context(), id, driver); err != nil {
		switch {
		case db.IsDuplicateKey(err):
			http.Error(w, "A driver with that national ID already exists", http.StatusConflict)
		case isNotFound(err):
			http.Error(w, "Driver not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Driver updated"})
}

func (h *DriverHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Driver ID is required", http.StatusBadRequest)
		return
	}

	if err := h.drivers.DeleteDriver(r.Context(), id); err != nil {
		if isNotFound(err) {
			http.Error(w, "Driver not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Driver deleted"})
}

package handlers

import (
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
)

// FuelHandler handles fuel fill-up recording. Price per liter and km/l
// efficiency are derived server-side from the previous fill-up.
type FuelHandler struct {
	fuel     db.FuelCollection
	vehicles db.VehicleCollection
}

func NewFuelHandler(fuel db.FuelCollection, vehicles db.VehicleCollection) *FuelHandler {
	return &FuelHandler{fuel: fuel, vehicles: vehicles}
}

// FuelResponse is returned for a recorded fill-up. Warning is set when the
// derived efficiency is abnormally low for the vehicle.
type FuelResponse struct {
	Message    string   `json:"message"`
	Efficiency *float64 `json:"efficiency,omitempty"`
	Warning    string   `json:"warning,omitempty"`
}

// Handle dispatches /api/fuel by method.
func (h *FuelHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FuelHandler) get(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if vehicleID := r.URL.Query().Get("vehicle_id"); vehicleID != "" {
		filter["vehicle_id"] = vehicleID
	}

	records, err := h.fuel.FindFuelRecords(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to load fuel history", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.FuelRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *FuelHandler) create(w http.ResponseWriter, r *http.Request) {
	var record models.FuelRecord
	if !readJSON(w, r, &record) {
		return
	}

	if record.VehicleID == "" {
		http.Error(w, "Vehicle ID is required", http.StatusBadRequest)
		return
	}
	if record.Liters <= 0 {
		http.Error(w, "Liters must be positive", http.StatusBadRequest)
		return
	}
	if record.TotalCost <= 0 {
		http.Error(w, "Total cost must be positive", http.StatusBadRequest)
		return
	}
	if record.Odometer < 0 {
		http.Error(w, "Odometer cannot be negative", http.StatusBadRequest)
		return
	}
	if record.Date.IsZero() {
		http.Error(w, "Fill-up date is required", http.StatusBadRequest)
		return
	}

	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), record.VehicleID)
	if err != nil {
		if isNotFound(err) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	record.PricePerLiter = record.TotalCost / record.Liters

	// Efficiency needs a previous fill-up with a lower odometer reading.
	previous, err := h.fuel.LastForVehicle(r.Context(), record.VehicleID)
	if err != nil {
		http.Error(w, "Failed to load previous fill-up", http.StatusInternalServerError)
		return
	}
	var warning string
	if previous != nil && record.Odometer > previous.Odometer {
		efficiency := float64(record.Odometer-previous.Odometer) / record.Liters
		record.Efficiency = &efficiency

		if avg := h.vehicleAverage(r, record.VehicleID); avg > 0 && efficiency < avg*0.7 {
			warning = fmt.Sprintf("Efficiency %.2f km/l is well below the vehicle average of %.2f km/l", efficiency, avg)
		}
	}

	if err := h.fuel.InsertFuelRecord(r.Context(), record); err != nil {
		http.Error(w, "Failed to record fill-up", http.StatusInternalServerError)
		return
	}

	// The entered reading becomes the vehicle odometer even when it is
	// lower than the stored one; fill-ups are how mistyped readings get
	// corrected.
	if record.Odometer != vehicle.Odometer {
		if err := h.vehicles.UpdateVehicleOdometer(r.Context(), record.VehicleID, record.Odometer); err != nil {
			http.Error(w, "Fill-up recorded but odometer update failed", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusCreated, FuelResponse{
		Message:    "Fill-up recorded",
		Efficiency: record.Efficiency,
		Warning:    warning,
	})
}

// vehicleAverage is the mean km/l over the vehicle's measurable fill-ups,
// zero when there are none.
func (h *FuelHandler) vehicleAverage(r *http.Request, vehicleID string) float64 {
	records, err := h.fuel.FindFuelRecords(r.Context(), bson.M{
		"vehicle_id": vehicleID,
		"efficiency": bson.M{"$ne": nil},
	})
	if err != nil {
		return 0
	}

	var sum float64
	var n int
	for _, rec := range records {
		if rec.Efficiency != nil {
			sum += *rec.Efficiency
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

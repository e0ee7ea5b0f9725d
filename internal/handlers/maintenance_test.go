package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/flotasur/fleet-management/internal/models"
)

func maintenanceRequest(t *testing.T, item models.MaintenanceItem) *http.Request {
	t.Helper()
	body, err := json.Marshal(item)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, "/api/maintenance", bytes.NewReader(body))
}

func TestMaintenanceHandler_Create(t *testing.T) {
	vehicle := models.Vehicle{ID: primitive.NewObjectID(), Plate: "AB-123-CD", Odometer: 40000}
	store := &fakeMaintenance{}
	vehicles := &fakeVehicles{vehicles: []models.Vehicle{vehicle}}
	handler := NewMaintenanceHandler(store, vehicles)

	next := 55000
	w := httptest.NewRecorder()
	handler.Handle(w, maintenanceRequest(t, models.MaintenanceItem{
		VehicleID:       vehicle.ID.Hex(),
		Type:            "Oil Change",
		Category:        "preventive",
		Date:            time.Now(),
		Odometer:        45000,
		Cost:            300,
		NextDueOdometer: &next,
	}))

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.inserted, 1)
	// Alert lead defaults when omitted.
	assert.Equal(t, models.DefaultMaintenanceAlertKm, store.inserted[0].AlertKm)
	// A newer workshop reading advances the vehicle odometer.
	assert.Equal(t, 45000, vehicles.odometers[vehicle.ID.Hex()])
}

func TestMaintenanceHandler_LowerReadingCorrectsOdometer(t *testing.T) {
	vehicle := models.Vehicle{ID: primitive.NewObjectID(), Plate: "AB-123-CD", Odometer: 50000}
	vehicles := &fakeVehicles{vehicles: []models.Vehicle{vehicle}}
	handler := NewMaintenanceHandler(&fakeMaintenance{}, vehicles)

	w := httptest.NewRecorder()
	handler.Handle(w, maintenanceRequest(t, models.MaintenanceItem{
		VehicleID: vehicle.ID.Hex(),
		Type:      "Oil Change",
		Date:      time.Now(),
		Odometer:  45000,
	}))

	require.Equal(t, http.StatusCreated, w.Code)
	// The workshop reading wins even below the stored value: that is how a
	// mistyped odometer gets corrected.
	assert.Equal(t, 45000, vehicles.odometers[vehicle.ID.Hex()])
}

func TestMaintenanceHandler_NoReadingLeavesOdometer(t *testing.T) {
	vehicle := models.Vehicle{ID: primitive.NewObjectID(), Plate: "AB-123-CD", Odometer: 50000}
	vehicles := &fakeVehicles{vehicles: []models.Vehicle{vehicle}}
	handler := NewMaintenanceHandler(&fakeMaintenance{}, vehicles)

	w := httptest.NewRecorder()
	handler.Handle(w, maintenanceRequest(t, models.MaintenanceItem{
		VehicleID: vehicle.ID.Hex(),
		Type:      "Tire Rotation",
		Date:      time.Now(),
	}))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, vehicles.odometers, vehicle.ID.Hex())
}

func TestMaintenanceHandler_NextDueMustExceedReading(t *testing.T) {
	vehicle := models.Vehicle{ID: primitive.NewObjectID(), Plate: "AB-123-CD"}
	handler := NewMaintenanceHandler(&fakeMaintenance{}, &fakeVehicles{vehicles: []models.Vehicle{vehicle}})

	next := 45000
	w := httptest.NewRecorder()
	handler.Handle(w, maintenanceRequest(t, models.MaintenanceItem{
		VehicleID:       vehicle.ID.Hex(),
		Type:            "Oil Change",
		Date:            time.Now(),
		Odometer:        45000,
		NextDueOdometer: &next,
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMaintenanceHandler_UnknownVehicle(t *testing.T) {
	handler := NewMaintenanceHandler(&fakeMaintenance{}, &fakeVehicles{})

	w := httptest.NewRecorder()
	handler.Handle(w, maintenanceRequest(t, models.MaintenanceItem{
		VehicleID: primitive.NewObjectID().Hex(),
		Type:      "Oil Change",
		Date:      time.Now(),
	}))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaintenanceHandler_List(t *testing.T) {
	store := &fakeMaintenance{items: []models.MaintenanceItem{
		{VehicleID: primitive.NewObjectID().Hex(), Type: "Oil Change"},
	}}
	handler := NewMaintenanceHandler(store, &fakeVehicles{})

	req := httptest.NewRequest(http.MethodGet, "/api/maintenance", nil)
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.MaintenanceItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

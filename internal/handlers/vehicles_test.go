package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/flotasur/fleet-management/internal/models"
)

func TestVehicleHandler_Create(t *testing.T) {
	store := &fakeVehicles{}
	handler := NewVehicleHandler(store)

	body, _ := json.Marshal(models.Vehicle{Plate: "AB-123-CD", Type: "truck", Odometer: 1000})
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.inserted, 1)
	// State defaults to active when omitted.
	assert.Equal(t, models.VehicleActive, store.inserted[0].State)
}

func TestVehicleHandler_CreateDuplicatePlate(t *testing.T) {
	store := &fakeVehicles{insertErr: duplicateKeyErr}
	handler := NewVehicleHandler(store)

	body, _ := json.Marshal(models.Vehicle{Plate: "AB-123-CD", Type: "truck"})
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestVehicleHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		vehicle models.Vehicle
	}{
		{"missing plate", models.Vehicle{Type: "truck"}},
		{"unknown state", models.Vehicle{Plate: "AB-123-CD", State: "retired"}},
		{"negative odometer", models.Vehicle{Plate: "AB-123-CD", Odometer: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewVehicleHandler(&fakeVehicles{})
			body, _ := json.Marshal(tt.vehicle)
			req := httptest.NewRequest(http.MethodPost, "/api/vehicles", bytes.NewReader(body))
			w := httptest.NewRecorder()
			handler.Handle(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestVehicleHandler_List(t *testing.T) {
	store := &fakeVehicles{vehicles: []models.Vehicle{
		{ID: primitive.NewObjectID(), Plate: "AB-123-CD", State: models.VehicleActive},
		{ID: primitive.NewObjectID(), Plate: "EF-456-GH", State: models.VehicleInRepair},
	}}
	handler := NewVehicleHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.Vehicle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestVehicleHandler_ListBadStateFilter(t *testing.T) {
	handler := NewVehicleHandler(&fakeVehicles{})

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles?state=retired", nil)
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVehicleHandler_GetByID(t *testing.T) {
	vehicle := models.Vehicle{ID: primitive.NewObjectID(), Plate: "AB-123-CD"}
	handler := NewVehicleHandler(&fakeVehicles{vehicles: []models.Vehicle{vehicle}})

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles?id="+vehicle.ID.Hex(), nil)
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got models.Vehicle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "AB-123-CD", got.Plate)
}

func TestVehicleHandler_GetUnknownID(t *testing.T) {
	handler := NewVehicleHandler(&fakeVehicles{})

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles?id="+primitive.NewObjectID().Hex(), nil)
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVehicleHandler_MethodNotAllowed(t *testing.T) {
	handler := NewVehicleHandler(&fakeVehicles{})

	req := httptest.NewRequest(http.MethodPatch, "/api/vehicles", nil)
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

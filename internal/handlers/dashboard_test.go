package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/flotasur/fleet-management/internal/compliance"
	"github.com/flotasur/fleet-management/internal/models"
)

func TestDashboardHandler(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	truck := models.Vehicle{ID: primitive.NewObjectID(), Plate: "AB-123-CD", State: models.VehicleActive}
	stopped := models.Vehicle{ID: primitive.NewObjectID(), Plate: "EF-456-GH", State: models.VehicleStopped, Notes: "clutch"}

	vehicles := &fakeVehicles{vehicles: []models.Vehicle{truck, stopped}}
	documents := &fakeDocuments{documents: []models.ExpiringDocument{{
		VehicleID: truck.ID.Hex(),
		Type:      "insurance",
		DueDate:   now.AddDate(0, 0, 5),
		AlertDays: models.DefaultDocumentAlertDays,
		State:     models.DocumentActive,
	}}}
	source := compliance.NewSource(vehicles, &fakeDrivers{}, documents, &fakeMaintenance{})

	handler := NewDashboardHandler(source, vehicles)
	handler.now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.VehiclesTotal)
	assert.Equal(t, 1, resp.VehicleStates["active"])
	assert.Equal(t, 1, resp.VehicleStates["stopped"])

	// The insurance due in 5 days classifies as urgent.
	assert.Equal(t, 1, resp.Compliance.Totals.Urgent)
	assert.Equal(t, 100.0, resp.Compliance.ComplianceRate)

	require.Len(t, resp.OutOfService, 1)
	assert.Equal(t, "EF-456-GH", resp.OutOfService[0].Plate)
}

func TestDashboardHandler_Board(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	truck := models.Vehicle{ID: primitive.NewObjectID(), Plate: "AB-123-CD", State: models.VehicleActive}
	vehicles := &fakeVehicles{vehicles: []models.Vehicle{truck}}
	documents := &fakeDocuments{documents: []models.ExpiringDocument{{
		VehicleID: truck.ID.Hex(),
		Type:      "insurance",
		DueDate:   now.AddDate(0, 0, -1),
		AlertDays: models.DefaultDocumentAlertDays,
		State:     models.DocumentActive,
	}}}
	source := compliance.NewSource(vehicles, &fakeDrivers{}, documents, &fakeMaintenance{})

	handler := NewDashboardHandler(source, vehicles)
	handler.now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodGet, "/api/compliance/board", nil)
	w := httptest.NewRecorder()
	handler.Board(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var board compliance.Aggregate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Equal(t, 1, board.Totals.Overdue)
	assert.Equal(t, 0.0, board.ComplianceRate)
	require.Len(t, board.Ordered, 1)
	assert.Equal(t, compliance.SeverityOverdue, board.Ordered[0].Severity)
}

func TestDashboardHandler_MethodNotAllowed(t *testing.T) {
	vehicles := &fakeVehicles{}
	source := compliance.NewSource(vehicles, &fakeDrivers{}, &fakeDocuments{}, &fakeMaintenance{})
	handler := NewDashboardHandler(source, vehicles)

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard", nil)
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

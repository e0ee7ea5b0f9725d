package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/flotasur/fleet-management/internal/models"
)

type mockVehicleCollection struct {
	vehicles []models.Vehicle
}

func (m *mockVehicleCollection) InsertVehicle(ctx context.Context, v models.Vehicle) error { return nil }
func (m *mockVehicleCollection) FindVehicles(ctx context.Context, filter bson.M) ([]models.Vehicle, error) {
	return m.vehicles, nil
}
func (m *mockVehicleCollection) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	return nil, nil
}
func (m *mockVehicleCollection) UpdateVehicle(ctx context.Context, id string, v models.Vehicle) error {
	return nil
}
func (m *mockVehicleCollection) UpdateVehicleOdometer(ctx context.Context, id string, odometer int) error {
	return nil
}
func (m *mockVehicleCollection) DeleteVehicle(ctx context.Context, id string) error { return nil }

type mockMaintenanceCollection struct {
	items []models.MaintenanceItem
}

func (m *mockMaintenanceCollection) InsertMaintenance(ctx context.Context, item models.MaintenanceItem) error {
	return nil
}
func (m *mockMaintenanceCollection) FindMaintenance(ctx context.Context, filter bson.M) ([]models.MaintenanceItem, error) {
	return m.items, nil
}
func (m *mockMaintenanceCollection) LatestPerType(ctx context.Context, vehicleIDs []string) ([]models.MaintenanceItem, error) {
	return nil, nil
}
func (m *mockMaintenanceCollection) DeleteMaintenance(ctx context.Context, id string) error {
	return nil
}

type mockFuelCollection struct {
	records []models.FuelRecord
}

func (m *mockFuelCollection) InsertFuelRecord(ctx context.Context, r models.FuelRecord) error {
	return nil
}
func (m *mockFuelCollection) FindFuelRecords(ctx context.Context, filter bson.M) ([]models.FuelRecord, error) {
	return m.records, nil
}
func (m *mockFuelCollection) LastForVehicle(ctx context.Context, vehicleID string) (*models.FuelRecord, error) {
	return nil, nil
}

type mockFailureCollection struct {
	failures []models.Failure
}

func (m *mockFailureCollection) InsertFailure(ctx context.Context, f models.Failure) error {
	return nil
}
func (m *mockFailureCollection) FindFailures(ctx context.Context, filter bson.M) ([]models.Failure, error) {
	return m.failures, nil
}

func newID() primitive.ObjectID { return primitive.NewObjectID() }

func floatPtr(f float64) *float64 { return &f }

func TestCostSummary(t *testing.T) {
	truck := models.Vehicle{ID: newID(), Plate: "AB-123-CD", Type: "truck", State: models.VehicleActive, Odometer: 50000}
	pickup := models.Vehicle{ID: newID(), Plate: "EF-456-GH", Type: "pickup", State: models.VehicleActive, Odometer: 0}

	svc := NewService(
		&mockVehicleCollection{vehicles: []models.Vehicle{pickup, truck}},
		&mockMaintenanceCollection{items: []models.MaintenanceItem{
			{VehicleID: truck.ID.Hex(), Cost: 300},
			{VehicleID: truck.ID.Hex(), Cost: 200},
		}},
		&mockFuelCollection{records: []models.FuelRecord{
			{VehicleID: truck.ID.Hex(), TotalCost: 1500},
		}},
		&mockFailureCollection{failures: []models.Failure{
			{VehicleID: truck.ID.Hex(), RepairCost: 1000},
		}},
	)

	costs, err := svc.CostSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, costs, 2)

	// Ordered by plate.
	assert.Equal(t, "AB-123-CD", costs[0].Plate)
	assert.Equal(t, 500.0, costs[0].MaintenanceCost)
	assert.Equal(t, 1500.0, costs[0].FuelCost)
	assert.Equal(t, 1000.0, costs[0].RepairCost)
	assert.Equal(t, 3000.0, costs[0].TotalCost)
	require.NotNil(t, costs[0].CostPerKm)
	assert.InDelta(t, 0.06, *costs[0].CostPerKm, 0.0001)

	// Zero odometer means no per-km figure.
	assert.Equal(t, "EF-456-GH", costs[1].Plate)
	assert.Nil(t, costs[1].CostPerKm)
}

func TestFuelEfficiency(t *testing.T) {
	good := models.Vehicle{ID: newID(), Plate: "AB-123-CD", State: models.VehicleActive}
	bad := models.Vehicle{ID: newID(), Plate: "EF-456-GH", State: models.VehicleActive}

	svc := NewService(
		&mockVehicleCollection{vehicles: []models.Vehicle{good, bad}},
		&mockMaintenanceCollection{},
		&mockFuelCollection{records: []models.FuelRecord{
			{VehicleID: good.ID.Hex(), Efficiency: floatPtr(10)},
			{VehicleID: good.ID.Hex(), Efficiency: floatPtr(12)},
			{VehicleID: bad.ID.Hex(), Efficiency: floatPtr(5)},
		}},
		&mockFailureCollection{},
	)

	stats, err := svc.FuelEfficiency(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 9.0, stats.FleetAverage, 0.0001)
	require.Len(t, stats.Vehicles, 2)

	assert.Equal(t, "AB-123-CD", stats.Vehicles[0].Plate)
	assert.Equal(t, 2, stats.Vehicles[0].Samples)
	assert.InDelta(t, 11.0, stats.Vehicles[0].Average, 0.0001)
	assert.Equal(t, 12.0, stats.Vehicles[0].Best)
	assert.Equal(t, 10.0, stats.Vehicles[0].Worst)

	// 5 km/l is below 80% of the 9 km/l fleet average.
	require.Len(t, stats.LowPerformers, 1)
	assert.Equal(t, "EF-456-GH", stats.LowPerformers[0].Plate)
}

func TestFuelEfficiencyEmptyHistory(t *testing.T) {
	svc := NewService(&mockVehicleCollection{}, &mockMaintenanceCollection{}, &mockFuelCollection{}, &mockFailureCollection{})

	stats, err := svc.FuelEfficiency(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.FleetAverage)
	assert.Empty(t, stats.Vehicles)
	assert.Empty(t, stats.LowPerformers)
}

func TestFailureSummary(t *testing.T) {
	svc := NewService(&mockVehicleCollection{}, &mockMaintenanceCollection{}, &mockFuelCollection{}, &mockFailureCollection{
		failures: []models.Failure{
			{Type: "electrical", Severity: "minor", DowntimeHours: 2, RepairCost: 150},
			{Type: "electrical", Severity: "serious", DowntimeHours: 24, RepairCost: 2000},
			{Type: "engine", Severity: "critical", DowntimeHours: 72, RepairCost: 8000},
		},
	})

	stats, err := svc.FailureSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByType["electrical"])
	assert.Equal(t, 1, stats.BySeverity["critical"])
	assert.Equal(t, 98, stats.TotalDowntimeHours)
	assert.Equal(t, 10150.0, stats.TotalRepairCost)
}

func TestMaintenanceTrend(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	svc := NewService(&mockVehicleCollection{}, &mockMaintenanceCollection{
		items: []models.MaintenanceItem{
			{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Cost: 300},
			{Date: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), Cost: 100},
			{Date: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), Cost: 250},
		},
	}, &mockFuelCollection{}, &mockFailureCollection{})

	trend, err := svc.MaintenanceTrend(context.Background(), now, 3)
	require.NoError(t, err)
	require.Len(t, trend, 3)

	assert.Equal(t, "2025-04", trend[0].Month)
	assert.Equal(t, 1, trend[0].Count)
	assert.Equal(t, 250.0, trend[0].Cost)

	// May had no activity but still appears.
	assert.Equal(t, "2025-05", trend[1].Month)
	assert.Zero(t, trend[1].Count)

	assert.Equal(t, "2025-06", trend[2].Month)
	assert.Equal(t, 2, trend[2].Count)
	assert.Equal(t, 400.0, trend[2].Cost)
}

func TestAvailability(t *testing.T) {
	svc := NewService(&mockVehicleCollection{vehicles: []models.Vehicle{
		{ID: newID(), Plate: "AB-123-CD", Type: "truck", State: models.VehicleActive},
		{ID: newID(), Plate: "EF-456-GH", Type: "truck", State: models.VehicleInRepair},
		{ID: newID(), Plate: "IJ-789-KL", Type: "pickup", State: models.VehicleActive},
	}}, &mockMaintenanceCollection{}, &mockFuelCollection{}, &mockFailureCollection{})

	rows, err := svc.Availability(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "pickup", rows[0].Type)
	assert.Equal(t, 100.0, rows[0].Rate)

	assert.Equal(t, "truck", rows[1].Type)
	assert.Equal(t, 2, rows[1].Total)
	assert.Equal(t, 1, rows[1].Available)
	assert.Equal(t, 50.0, rows[1].Rate)
}

// Package analytics computes fleet-level cost, efficiency, failure and
// availability figures from the stored history.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
)

// Service aggregates history collections into dashboard figures.
type Service struct {
	Vehicles    db.VehicleCollection
	Maintenance db.MaintenanceCollection
	Fuel        db.FuelCollection
	Failures    db.FailureCollection
}

func NewService(vehicles db.VehicleCollection, maintenance db.MaintenanceCollection, fuel db.FuelCollection, failures db.FailureCollection) *Service {
	return &Service{Vehicles: vehicles, Maintenance: maintenance, Fuel: fuel, Failures: failures}
}

// VehicleCosts is the accumulated spend on one vehicle. CostPerKm is nil when
// the odometer reads zero.
type VehicleCosts struct {
	VehicleID       string   `json:"vehicle_id"`
	Plate           string   `json:"plate"`
	MaintenanceCost float64  `json:"maintenance_cost"`
	FuelCost        float64  `json:"fuel_cost"`
	RepairCost      float64  `json:"repair_cost"`
	TotalCost       float64  `json:"total_cost"`
	Odometer        int      `json:"odometer"`
	CostPerKm       *float64 `json:"cost_per_km,omitempty"`
}

// CostSummary totals maintenance, fuel and repair spend per non-decommissioned
// vehicle, ordered by plate.
func (s *Service) CostSummary(ctx context.Context) ([]VehicleCosts, error) {
	vehicles, err := s.Vehicles.FindVehicles(ctx, bson.M{"state": bson.M{"$ne": models.VehicleDecommissioned}})
	if err != nil {
		return nil, fmt.Errorf("loading vehicles: %w", err)
	}
	maintenance, err := s.Maintenance.FindMaintenance(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("loading maintenance history: %w", err)
	}
	fuel, err := s.Fuel.FindFuelRecords(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("loading fuel history: %w", err)
	}
	failures, err := s.Failures.FindFailures(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("loading failure history: %w", err)
	}

	byID := make(map[string]*VehicleCosts, len(vehicles))
	out := make([]VehicleCosts, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, VehicleCosts{VehicleID: v.ID.Hex(), Plate: v.Plate, Odometer: v.Odometer})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plate < out[j].Plate })
	for i := range out {
		byID[out[i].VehicleID] = &out[i]
	}

	for _, m := range maintenance {
		if c, ok := byID[m.VehicleID]; ok {
			c.MaintenanceCost += m.Cost
		}
	}
	for _, f := range fuel {
		if c, ok := byID[f.VehicleID]; ok {
			c.FuelCost += f.TotalCost
		}
	}
	for _, f := range failures {
		if c, ok := byID[f.VehicleID]; ok {
			c.RepairCost += f.RepairCost
		}
	}

	for i := range out {
		c := &out[i]
		c.TotalCost = c.MaintenanceCost + c.FuelCost + c.RepairCost
		if c.Odometer > 0 {
			perKm := c.TotalCost / float64(c.Odometer)
			c.CostPerKm = &perKm
		}
	}
	return out, nil
}

// EfficiencyStats summarizes the recorded km/l figures of one vehicle.
type EfficiencyStats struct {
	VehicleID string  `json:"vehicle_id"`
	Plate     string  `json:"plate"`
	Samples   int     `json:"samples"`
	Average   float64 `json:"average"`
	Best      float64 `json:"best"`
	Worst     float64 `json:"worst"`
}

// FleetEfficiency is the fleet-wide fuel efficiency picture. LowPerformers
// holds vehicles averaging under 80% of the fleet average.
type FleetEfficiency struct {
	FleetAverage  float64           `json:"fleet_average"`
	Vehicles      []EfficiencyStats `json:"vehicles"`
	LowPerformers []EfficiencyStats `json:"low_performers,omitempty"`
}

// FuelEfficiency computes per-vehicle and fleet fuel efficiency from fill-ups
// that carry a derived km/l value. Vehicles with no measurable fill-up are
// left out.
func (s *Service) FuelEfficiency(ctx context.Context) (*FleetEfficiency, error) {
	vehicles, err := s.Vehicles.FindVehicles(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("loading vehicles: %w", err)
	}
	plates := make(map[string]string, len(vehicles))
	for _, v := range vehicles {
		plates[v.ID.Hex()] = v.Plate
	}

	records, err := s.Fuel.FindFuelRecords(ctx, bson.M{"efficiency": bson.M{"$ne": nil}})
	if err != nil {
		return nil, fmt.Errorf("loading fuel history: %w", err)
	}

	perVehicle := make(map[string]*EfficiencyStats)
	var fleetSum float64
	var fleetSamples int
	for _, r := range records {
		if r.Efficiency == nil {
			continue
		}
		e := *r.Efficiency
		st, ok := perVehicle[r.VehicleID]
		if !ok {
			st = &EfficiencyStats{VehicleID: r.VehicleID, Plate: plates[r.VehicleID], Best: e, Worst: e}
			perVehicle[r.VehicleID] = st
		}
		st.Samples++
		st.Average += e
		if e > st.Best {
			st.Best = e
		}
		if e < st.Worst {
			st.Worst = e
		}
		fleetSum += e
		fleetSamples++
	}

	result := &FleetEfficiency{}
	if fleetSamples > 0 {
		result.FleetAverage = fleetSum / float64(fleetSamples)
	}
	for _, st := range perVehicle {
		st.Average /= float64(st.Samples)
		result.Vehicles = append(result.Vehicles, *st)
	}
	sort.Slice(result.Vehicles, func(i, j int) bool { return result.Vehicles[i].Plate < result.Vehicles[j].Plate })
	for _, st := range result.Vehicles {
		if st.Average < result.FleetAverage*0.8 {
			result.LowPerformers = append(result.LowPerformers, st)
		}
	}
	return result, nil
}

// FailureStats breaks the failure history down by type and severity.
type FailureStats struct {
	Total              int            `json:"total"`
	BySeverity         map[string]int `json:"by_severity"`
	ByType             map[string]int `json:"by_type"`
	TotalDowntimeHours int            `json:"total_downtime_hours"`
	TotalRepairCost    float64        `json:"total_repair_cost"`
}

func (s *Service) FailureSummary(ctx context.Context) (*FailureStats, error) {
	failures, err := s.Failures.FindFailures(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("loading failure history: %w", err)
	}

	stats := &FailureStats{
		BySeverity: make(map[string]int),
		ByType:     make(map[string]int),
	}
	for _, f := range failures {
		stats.Total++
		stats.BySeverity[f.Severity]++
		stats.ByType[f.Type]++
		stats.TotalDowntimeHours += f.DowntimeHours
		stats.TotalRepairCost += f.RepairCost
	}
	return stats, nil
}

// MonthlySpend is one month of maintenance activity.
type MonthlySpend struct {
	Month string  `json:"month"` // "2025-06"
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

// MaintenanceTrend returns maintenance count and spend per month for the
// last `months` calendar months ending at now, oldest first. Months without
// activity appear with zeros.
func (s *Service) MaintenanceTrend(ctx context.Context, now time.Time, months int) ([]MonthlySpend, error) {
	if months <= 0 {
		months = 6
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	items, err := s.Maintenance.FindMaintenance(ctx, bson.M{"date": bson.M{"$gte": start}})
	if err != nil {
		return nil, fmt.Errorf("loading maintenance history: %w", err)
	}

	trend := make([]MonthlySpend, 0, months)
	index := make(map[string]*MonthlySpend, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		trend = append(trend, MonthlySpend{Month: month})
	}
	for i := range trend {
		index[trend[i].Month] = &trend[i]
	}

	for _, item := range items {
		if m, ok := index[item.Date.UTC().Format("2006-01")]; ok {
			m.Count++
			m.Cost += item.Cost
		}
	}
	return trend, nil
}

// AvailabilityRow is the availability of one vehicle type. Decommissioned
// vehicles are outside the denominator.
type AvailabilityRow struct {
	Type      string  `json:"type"`
	Total     int     `json:"total"`
	Available int     `json:"available"`
	Rate      float64 `json:"rate"` // percentage
}

func (s *Service) Availability(ctx context.Context) ([]AvailabilityRow, error) {
	vehicles, err := s.Vehicles.FindVehicles(ctx, bson.M{"state": bson.M{"$ne": models.VehicleDecommissioned}})
	if err != nil {
		return nil, fmt.Errorf("loading vehicles: %w", err)
	}

	byType := make(map[string]*AvailabilityRow)
	for _, v := range vehicles {
		row, ok := byType[v.Type]
		if !ok {
			row = &AvailabilityRow{Type: v.Type}
			byType[v.Type] = row
		}
		row.Total++
		if v.State == models.VehicleActive {
			row.Available++
		}
	}

	rows := make([]AvailabilityRow, 0, len(byType))
	for _, row := range byType {
		if row.Total > 0 {
			row.Rate = float64(row.Available) / float64(row.Total) * 100
		}
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Type < rows[j].Type })
	return rows, nil
}

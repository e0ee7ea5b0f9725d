// Package reports renders fleet data into downloadable Excel workbooks and
// CSV files.
package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
)

// Exporter builds report files from the store.
type Exporter struct {
	Vehicles    db.VehicleCollection
	Documents   db.DocumentCollection
	Maintenance db.MaintenanceCollection
	Fuel        db.FuelCollection
}

func NewExporter(vehicles db.VehicleCollection, documents db.DocumentCollection, maintenance db.MaintenanceCollection, fuel db.FuelCollection) *Exporter {
	return &Exporter{Vehicles: vehicles, Documents: documents, Maintenance: maintenance, Fuel: fuel}
}

// FleetWorkbook writes an Excel workbook with a sheet each for vehicles,
// documents and maintenance history.
func (e *Exporter) FleetWorkbook(ctx context.Context, w io.Writer) error {
	vehicles, err := e.Vehicles.FindVehicles(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("loading vehicles: %w", err)
	}
	documents, err := e.Documents.FindDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	maintenance, err := e.Maintenance.FindMaintenance(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("loading maintenance history: %w", err)
	}

	plates := plateIndex(vehicles)

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "Vehicles", vehicleRows(vehicles)); err != nil {
		return err
	}
	if err := writeSheet(f, "Documents", documentRows(documents, plates)); err != nil {
		return err
	}
	if err := writeSheet(f, "Maintenance", maintenanceRows(maintenance, plates)); err != nil {
		return err
	}

	// Drop excelize's default sheet, keeping ours.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// MaintenanceCSV streams the maintenance history as CSV rows.
func (e *Exporter) MaintenanceCSV(ctx context.Context, w io.Writer) error {
	vehicles, err := e.Vehicles.FindVehicles(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("loading vehicles: %w", err)
	}
	maintenance, err := e.Maintenance.FindMaintenance(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("loading maintenance history: %w", err)
	}
	return writeCSV(w, maintenanceRows(maintenance, plateIndex(vehicles)))
}

// FuelCSV streams the fuel history as CSV rows.
func (e *Exporter) FuelCSV(ctx context.Context, w io.Writer) error {
	vehicles, err := e.Vehicles.FindVehicles(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("loading vehicles: %w", err)
	}
	records, err := e.Fuel.FindFuelRecords(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("loading fuel history: %w", err)
	}
	return writeCSV(w, fuelRows(records, plateIndex(vehicles)))
}

func plateIndex(vehicles []models.Vehicle) map[string]string {
	plates := make(map[string]string, len(vehicles))
	for _, v := range vehicles {
		plates[v.ID.Hex()] = v.Plate
	}
	return plates
}

func vehicleRows(vehicles []models.Vehicle) [][]string {
	rows := [][]string{{"Plate", "Type", "Make", "Model", "Year", "State", "Depot", "Odometer (km)"}}
	for _, v := range vehicles {
		rows = append(rows, []string{
			v.Plate, v.Type, v.Make, v.Model,
			strconv.Itoa(v.Year), string(v.State), v.Depot,
			strconv.Itoa(v.Odometer),
		})
	}
	return rows
}

func documentRows(documents []models.ExpiringDocument, plates map[string]string) [][]string {
	rows := [][]string{{"Vehicle", "Document", "Due date", "Alert days", "State", "Renewal cost"}}
	for _, d := range documents {
		cost := ""
		if d.RenewalCost != nil {
			cost = strconv.FormatFloat(*d.RenewalCost, 'f', 2, 64)
		}
		rows = append(rows, []string{
			plates[d.VehicleID], d.Type,
			d.DueDate.Format("2006-01-02"),
			strconv.Itoa(d.AlertDays),
			string(d.State), cost,
		})
	}
	return rows
}

func maintenanceRows(items []models.MaintenanceItem, plates map[string]string) [][]string {
	rows := [][]string{{"Vehicle", "Type", "Category", "Date", "Odometer (km)", "Cost", "Workshop", "Next due date", "Next due odometer"}}
	for _, m := range items {
		nextDate := ""
		if m.NextDueDate != nil {
			nextDate = m.NextDueDate.Format("2006-01-02")
		}
		nextOdo := ""
		if m.NextDueOdometer != nil {
			nextOdo = strconv.Itoa(*m.NextDueOdometer)
		}
		rows = append(rows, []string{
			plates[m.VehicleID], m.Type, m.Category,
			m.Date.Format("2006-01-02"),
			strconv.Itoa(m.Odometer),
			strconv.FormatFloat(m.Cost, 'f', 2, 64),
			m.Workshop, nextDate, nextOdo,
		})
	}
	return rows
}

func fuelRows(records []models.FuelRecord, plates map[string]string) [][]string {
	rows := [][]string{{"Vehicle", "Date", "Odometer (km)", "Liters", "Total cost", "Price per liter", "Fuel type", "Efficiency (km/l)"}}
	for _, r := range records {
		efficiency := ""
		if r.Efficiency != nil {
			efficiency = strconv.FormatFloat(*r.Efficiency, 'f', 2, 64)
		}
		rows = append(rows, []string{
			plates[r.VehicleID],
			r.Date.Format("2006-01-02"),
			strconv.Itoa(r.Odometer),
			strconv.FormatFloat(r.Liters, 'f', 2, 64),
			strconv.FormatFloat(r.TotalCost, 'f', 2, 64),
			strconv.FormatFloat(r.PricePerLiter, 'f', 3, 64),
			r.FuelType, efficiency,
		})
	}
	return rows
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, rows [][]string) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing row %d in %s: %w", i+1, name, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("writing row %d to %s: %w", i+1, name, err)
		}
	}
	return nil
}

// FileName builds a dated download name like "fleet_report_2025-06-01.xlsx".
func FileName(prefix, extension string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("2006-01-02"), extension)
}

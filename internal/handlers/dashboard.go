package handlers

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/compliance"
	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
)

// DashboardHandler serves the fleet status overview: vehicle counts, the
// classified obligation board and the compliance rate.
type DashboardHandler struct {
	source   *compliance.Source
	vehicles db.VehicleCollection
	now      func() time.Time
}

func NewDashboardHandler(source *compliance.Source, vehicles db.VehicleCollection) *DashboardHandler {
	return &DashboardHandler{source: source, vehicles: vehicles, now: time.Now}
}

// DashboardResponse is the overview payload.
type DashboardResponse struct {
	GeneratedAt   time.Time            `json:"generated_at"`
	VehiclesTotal int                  `json:"vehicles_total"`
	VehicleStates map[string]int       `json:"vehicle_states"`
	Compliance    compliance.Aggregate `json:"compliance"`
	OutOfService  []models.Vehicle     `json:"out_of_service"`
}

// Board serves the classified obligation board on its own, without the
// vehicle KPIs.
func (h *DashboardHandler) Board(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	obligations, err := h.source.AllObligations(r.Context(), h.now().UTC())
	if err != nil {
		http.Error(w, "Failed to evaluate fleet status", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, compliance.NewAggregate(obligations))
}

func (h *DashboardHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := h.now().UTC()

	vehicles, err := h.vehicles.FindVehicles(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Failed to load vehicles", http.StatusInternalServerError)
		return
	}

	obligations, err := h.source.AllObligations(r.Context(), now)
	if err != nil {
		http.Error(w, "Failed to evaluate fleet status", http.StatusInternalServerError)
		return
	}

	outOfService, err := h.source.OutOfServiceVehicles(r.Context())
	if err != nil {
		http.Error(w, "Failed to load out-of-service vehicles", http.StatusInternalServerError)
		return
	}
	if outOfService == nil {
		outOfService = []models.Vehicle{}
	}

	states := make(map[string]int)
	for _, v := range vehicles {
		states[string(v.State)]++
	}

	writeJSON(w, http.StatusOK, DashboardResponse{
		GeneratedAt:   now,
		VehiclesTotal: len(vehicles),
		VehicleStates: states,
		Compliance:    compliance.NewAggregate(obligations),
		OutOfService:  outOfService,
	})
}

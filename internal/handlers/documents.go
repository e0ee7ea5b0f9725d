package handlers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
)

// DocumentHandler handles the expiring-document endpoints.
type DocumentHandler struct {
	documents db.DocumentCollection
	vehicles  db.VehicleCollection
}

func NewDocumentHandler(documents db.DocumentCollection, vehicles db.VehicleCollection) *DocumentHandler {
	return &DocumentHandler{documents: documents, vehicles: vehicles}
}

func validDocumentState(s models.DocumentState) bool {
	switch s {
	case models.DocumentActive, models.DocumentRenewed, models.DocumentExpired:
		return true
	default:
		return false
	}
}

// Handle dispatches /api/documents by method. Item operations take ?id=.
func (h *DocumentHandler) Handle(w http.ResponseWriter, r *http.Request) {
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

func (h *DocumentHandler) get(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if vehicleID := r.URL.Query().Get("vehicle_id"); vehicleID != "" {
		filter["vehicle_id"] = vehicleID
	}
	if state := r.URL.Query().Get("state"); state != "" {
		if !validDocumentState(models.DocumentState(state)) {
			http.Error(w, "Unknown document state", http.StatusBadRequest)
			return
		}
		filter["state"] = state
	}

	documents, err := h.documents.FindDocuments(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to load documents", http.StatusInternalServerError)
		return
	}
	if documents == nil {
		documents = []models.ExpiringDocument{}
	}
	writeJSON(w, http.StatusOK, documents)
}

func (h *DocumentHandler) create(w http.ResponseWriter, r *http.Request) {
	var doc models.ExpiringDocument
	if !readJSON(w, r, &doc) {
		return
	}

	if doc.VehicleID == "" || doc.Type == "" {
		http.Error(w, "Vehicle ID and document type are required", http.StatusBadRequest)
		return
	}
	if doc.DueDate.IsZero() {
		http.Error(w, "Due date is required", http.StatusBadRequest)
		return
	}
	if doc.AlertDays <= 0 {
		doc.AlertDays = models.DefaultDocumentAlertDays
	}
	if doc.State == "" {
		doc.State = models.DocumentActive
	}
	if !validDocumentState(doc.State) {
		http.Error(w, "Unknown document state", http.StatusBadRequest)
		return
	}

	// The document must hang off an existing vehicle.
	if _, err := h.vehicles.FindVehicleByID(r.Context(), doc.VehicleID); err != nil {
		if isNotFound(err) {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	if err := h.documents.InsertDocument(r.Context(), doc); err != nil {
		http.Error(w, "Failed to create document", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Document created"})
}

func (h *DocumentHandler) update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Document ID is required", http.StatusBadRequest)
		return
	}

	var doc models.ExpiringDocument
	if !readJSON(w, r, &doc) {
		return
	}
	if doc.State != "" && !validDocumentState(doc.State) {
		http.Error(w, "Unknown document state", http.StatusBadRequest)
		return
	}

	if err := h.documents.UpdateDocument(r.Context(), id, doc); err != nil {
		if isNotFound(err) {
			http.Error(w, "Document not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document updated"})
}

func (h *DocumentHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Document ID is required", http.StatusBadRequest)
		return
	}

	if err := h.documents.DeleteDocument(r.Context(), id); err != nil {
		if isNotFound(err) {
			http.Error(w, "Document not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}

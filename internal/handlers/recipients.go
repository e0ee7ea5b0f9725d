package handlers

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/db"
	"github.com/flotasur/fleet-management/internal/models"
)

// RecipientHandler handles the alert-recipient endpoints.
type RecipientHandler struct {
	recipients db.RecipientCollection
}

func NewRecipientHandler(recipients db.RecipientCollection) *RecipientHandler {
	return &RecipientHandler{recipients: recipients}
}

// Handle dispatches /api/recipients by method. Item operations take ?id=.
func (h *RecipientHandler) Handle(w http.ResponseWriter, r *http.Request) {
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

func (h *RecipientHandler) get(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.recipients.FindRecipients(r.Context(), bson.M{})
	if err != nil {
		http.Error(w, "Failed to load recipients", http.StatusInternalServerError)
		return
	}
	if recipients == nil {
		recipients = []models.Recipient{}
	}
	writeJSON(w, http.StatusOK, recipients)
}

func (h *RecipientHandler) create(w http.ResponseWriter, r *http.Request) {
	var recipient models.Recipient
	if !readJSON(w, r, &recipient) {
		return
	}

	recipient.Email = strings.TrimSpace(strings.ToLower(recipient.Email))
	if recipient.Name == "" || recipient.Email == "" {
		http.Error(w, "Name and email are required", http.StatusBadRequest)
		return
	}
	if !strings.Contains(recipient.Email, "@") {
		http.Error(w, "Invalid email address", http.StatusBadRequest)
		return
	}

	if err := h.recipients.InsertRecipient(r.Context(), recipient); err != nil {
		if db.IsDuplicateKey(err) {
			http.Error(w, "A recipient with that email already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create recipient", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Recipient created"})
}

func (h *RecipientHandler) update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Recipient ID is required", http.StatusBadRequest)
		return
	}

	var recipient models.Recipient
	if !readJSON(w, r, &recipient) {
		return
	}
	recipient.Email = strings.TrimSpace(strings.ToLower(recipient.Email))

	if err := h.recipients.UpdateRecipient(r.Context(), id, recipient); err != nil {
		switch {
		case db.IsDuplicateKey(err):
			http.Error(w, "A recipient with that email already exists", http.StatusConflict)
		case isNotFound(err):
			http.Error(w, "Recipient not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recipient updated"})
}

func (h *RecipientHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Recipient ID is required", http.StatusBadRequest)
		return
	}

	if err := h.recipients.DeleteRecipient(r.Context(), id); err != nil {
		if isNotFound(err) {
			http.Error(w, "Recipient not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recipient deleted"})
}

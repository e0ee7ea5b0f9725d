package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentState represents the lifecycle state of an expiring document.
type DocumentState string

const (
	DocumentActive  DocumentState = "active"
	DocumentRenewed DocumentState = "renewed"
	DocumentExpired DocumentState = "expired"
)

// DefaultDocumentAlertDays is the default alert lead time for documents.
const DefaultDocumentAlertDays = 30

// ExpiringDocument represents a vehicle document with a due date: roadworthiness
// certificate, insurance, registration, municipal permit, fire extinguisher
// inspection and similar. Type is free text with a recommended set.
type ExpiringDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID   string             `bson:"vehicle_id" json:"vehicle_id"`
	Type        string             `bson:"type" json:"type"`
	DueDate     time.Time          `bson:"due_date" json:"due_date"`
	LastRenewal *time.Time         `bson:"last_renewal,omitempty" json:"last_renewal,omitempty"`
	AlertDays   int                `bson:"alert_days" json:"alert_days"` // lead time in days, default 30
	RenewalCost *float64           `bson:"renewal_cost,omitempty" json:"renewal_cost,omitempty"`
	State       DocumentState      `bson:"state" json:"state"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

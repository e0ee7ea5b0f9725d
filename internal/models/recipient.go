package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipient represents an alert e-mail recipient.
type Recipient struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"` // unique natural key
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Position       string             `bson:"position,omitempty" json:"position,omitempty"`
	CriticalAlerts bool               `bson:"critical_alerts" json:"critical_alerts"`
	WeeklyReports  bool               `bson:"weekly_reports" json:"weekly_reports"`
	Active         bool               `bson:"active" json:"active"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

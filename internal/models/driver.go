package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DriverState represents the employment state of a driver.
type DriverState string

const (
	DriverActive    DriverState = "active"
	DriverInactive  DriverState = "inactive"
	DriverSuspended DriverState = "suspended"
)

// Driver represents a fleet driver. The four credential expiry dates are
// independently nullable; a nil date means the credential was never recorded.
type Driver struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	NationalID         string             `bson:"national_id" json:"national_id"` // unique natural key
	BirthDate          *time.Time         `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	Phone              string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email              string             `bson:"email,omitempty" json:"email,omitempty"`
	LicenseType        string             `bson:"license_type,omitempty" json:"license_type,omitempty"`
	LicenseExpiry      *time.Time         `bson:"license_expiry,omitempty" json:"license_expiry,omitempty"`
	HazmatExpiry       *time.Time         `bson:"hazmat_expiry,omitempty" json:"hazmat_expiry,omitempty"`
	MedicalExamExpiry  *time.Time         `bson:"medical_exam_expiry,omitempty" json:"medical_exam_expiry,omitempty"`
	SafetyCourseExpiry *time.Time         `bson:"safety_course_expiry,omitempty" json:"safety_course_expiry,omitempty"`
	AssignedVehicleID  string             `bson:"assigned_vehicle_id,omitempty" json:"assigned_vehicle_id,omitempty"`
	State              DriverState        `bson:"state" json:"state"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

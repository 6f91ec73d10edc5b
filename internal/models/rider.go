package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Rider struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name" validate:"required"`
	Email            string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone            string             `bson:"phone,omitempty" json:"phone,omitempty"`
	NationalID       string             `bson:"national_id,omitempty" json:"nationalId,omitempty"`
	Status           string             `bson:"status" json:"status"`
	AssignmentStatus string             `bson:"assignment_status" json:"assignmentStatus"`
	VehicleID        string             `bson:"vehicle_id,omitempty" json:"vehicleId,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Constants for rider status
const (
	RiderStatusActive   = "active"
	RiderStatusInactive = "inactive"
)

// Constants for rider assignment status
const (
	AssignmentAssigned   = "assigned"
	AssignmentUnassigned = "unassigned"
)

// IsAssigned reports whether the rider has a vehicle to inspect.
func (r *Rider) IsAssigned() bool {
	return r.AssignmentStatus == AssignmentAssigned && r.VehicleID != ""
}

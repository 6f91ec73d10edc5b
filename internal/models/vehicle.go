package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Vehicle struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlateNumber       string             `bson:"plate_number" json:"plateNumber" validate:"required"`
	Status            string             `bson:"status" json:"status"`
	Odometer          int                `bson:"odometer" json:"odometer"`
	Insurance         InsuranceInfo      `bson:"insurance" json:"insurance"`
	LicenseExpiryDate *time.Time         `bson:"license_expiry_date,omitempty" json:"licenseExpiryDate,omitempty"`
	Make              string             `bson:"make" json:"make"`
	Model             string             `bson:"model" json:"model"`
	Year              int                `bson:"year" json:"year"`
	VIN               string             `bson:"vin,omitempty" json:"vin,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updatedAt"`
}

// InsuranceInfo holds the two policies every fleet vehicle carries.
type InsuranceInfo struct {
	Mandatory     InsurancePolicy `bson:"mandatory" json:"mandatory"`
	Comprehensive InsurancePolicy `bson:"comprehensive" json:"comprehensive"`
}

type InsurancePolicy struct {
	PolicyNumber string     `bson:"policy_number,omitempty" json:"policyNumber,omitempty"`
	Provider     string     `bson:"provider,omitempty" json:"provider,omitempty"`
	ExpiryDate   *time.Time `bson:"expiry_date,omitempty" json:"expiryDate,omitempty"`
}

// Constants for vehicle status
const (
	VehicleStatusActive      = "active"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusInactive    = "inactive"
	VehicleStatusRetired     = "retired"
)

// InServiceStatuses covers vehicles the fleet is still responsible for.
// A vehicle in the shop keeps its insurance and registration obligations.
var InServiceStatuses = []string{VehicleStatusActive, VehicleStatusMaintenance}

// IsOperational reports whether the vehicle can be inspected by its rider.
func (v *Vehicle) IsOperational() bool {
	return v.Status == VehicleStatusActive
}

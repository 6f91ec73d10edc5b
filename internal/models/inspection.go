package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InspectionRecord is one rider/vehicle monthly check obligation. CheckDate is
// always the first day of the month the record covers; RiderID and VehicleID
// never change after creation.
type InspectionRecord struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID        string             `bson:"vehicle_id" json:"vehicleId"`
	RiderID          string             `bson:"rider_id" json:"riderId"`
	CheckDate        time.Time          `bson:"check_date" json:"checkDate"`
	Status           string             `bson:"status" json:"status"`
	Answers          InspectionAnswers  `bson:"answers" json:"answers"`
	OdometerReading  *int               `bson:"odometer_reading,omitempty" json:"odometerReading,omitempty"`
	LastReminderSent *time.Time         `bson:"last_reminder_sent,omitempty" json:"lastReminderSent,omitempty"`
	CompletedAt      *time.Time         `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	CreatedBy        Actor              `bson:"created_by" json:"createdBy"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
	UpdatedBy        Actor              `bson:"updated_by" json:"updatedBy"`
}

// Constants for monthly check status
const (
	CheckStatusPending    = "pending"
	CheckStatusInProgress = "in_progress"
	CheckStatusCompleted  = "completed"
	CheckStatusFailed     = "failed"
)

// IsOpen reports whether the record can still accept a submission.
func (r *InspectionRecord) IsOpen() bool {
	return r.Status == CheckStatusPending || r.Status == CheckStatusInProgress
}

// InspectionAnswers is the closed set of inspection items a rider reports on.
// An empty field means the item was not submitted and is not evaluated. Tire
// pressures are recorded but carry no defect rule.
type InspectionAnswers struct {
	OilCheck            string `bson:"oil_check,omitempty" json:"oilCheck,omitempty" validate:"omitempty,oneof=ok low not_ok"`
	WaterCheck          string `bson:"water_check,omitempty" json:"waterCheck,omitempty" validate:"omitempty,oneof=ok low not_ok"`
	BrakesCondition     string `bson:"brakes_condition,omitempty" json:"brakesCondition,omitempty" validate:"omitempty,oneof=good fair poor"`
	LightsCondition     string `bson:"lights_condition,omitempty" json:"lightsCondition,omitempty" validate:"omitempty,oneof=good fair poor"`
	MirrorsCondition    string `bson:"mirrors_condition,omitempty" json:"mirrorsCondition,omitempty" validate:"omitempty,oneof=good fair poor"`
	HelmetCondition     string `bson:"helmet_condition,omitempty" json:"helmetCondition,omitempty" validate:"omitempty,oneof=good fair poor"`
	BoxScrewsTightening string `bson:"box_screws_tightening,omitempty" json:"boxScrewsTightening,omitempty" validate:"omitempty,oneof=done not_done"`
	BoxRailLubrication  string `bson:"box_rail_lubrication,omitempty" json:"boxRailLubrication,omitempty" validate:"omitempty,oneof=done not_done"`
	ChainLubrication    string `bson:"chain_lubrication,omitempty" json:"chainLubrication,omitempty" validate:"omitempty,oneof=done not_done"`
	TirePressureFront   string `bson:"tire_pressure_front,omitempty" json:"tirePressureFront,omitempty"`
	TirePressureRear    string `bson:"tire_pressure_rear,omitempty" json:"tirePressureRear,omitempty"`
}

// Constants for inspection answer values
const (
	AnswerOK    = "ok"
	AnswerLow   = "low"
	AnswerNotOK = "not_ok"

	ConditionGood = "good"
	ConditionFair = "fair"
	ConditionPoor = "poor"

	ActionDone    = "done"
	ActionNotDone = "not_done"
)

// Actor identifies who performed a write: the system itself (scheduled jobs)
// or a user by id. Replaces the old convention of a magic "system" user id.
type Actor struct {
	System bool   `bson:"system,omitempty" json:"system,omitempty"`
	UserID string `bson:"user_id,omitempty" json:"userId,omitempty"`
}

// SystemActor is the audit identity of the scheduled jobs.
var SystemActor = Actor{System: true}

// UserActor returns the audit identity for a user id.
func UserActor(id string) Actor {
	return Actor{UserID: id}
}

func (a Actor) String() string {
	if a.System {
		return "system"
	}
	return a.UserID
}

// Defect is one inspection item whose submitted value matched the defect rule
// table.
type Defect struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ExpiringItem is a computed entry of the weekly expiry report. It is never
// persisted.
type ExpiringItem struct {
	Kind        string    `json:"kind"`
	SubKind     string    `json:"subKind,omitempty"`
	VehicleID   string    `json:"vehicleId"`
	PlateNumber string    `json:"plateNumber"`
	ExpiryDate  time.Time `json:"expiryDate"`
	DaysLeft    int       `json:"daysLeft"`
}

// Constants for expiring item kinds
const (
	ExpiryKindInsurance    = "insurance"
	ExpiryKindRegistration = "registration"

	InsuranceSubKindMandatory     = "mandatory"
	InsuranceSubKindComprehensive = "comprehensive"
)

package services

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"fleet-compliance/internal/models"
)

// Lookahead windows for the weekly scan. Fixed by policy, not configurable
// per call.
const (
	InsuranceExpiryWindowDays    = 14
	RegistrationExpiryWindowDays = 30
)

// ExpiryService scans in-service vehicles for insurance and registration
// records approaching expiry and sends one consolidated report.
type ExpiryService struct {
	vehicleStore VehicleStore
	notifier     NotificationSender
	reportsEmail string
}

func NewExpiryService(vehicles VehicleStore, notifier NotificationSender, reportsEmail string) *ExpiryService {
	return &ExpiryService{
		vehicleStore: vehicles,
		notifier:     notifier,
		reportsEmail: reportsEmail,
	}
}

type ScanResult struct {
	ItemCount int `json:"itemCount"`
}

// RunWeeklyScan collects every expiry inside its window, most urgent first,
// and sends a single report. Nothing is sent when the fleet is clean; already
// expired items are excluded on purpose, this is an early warning, not a
// delinquency report.
func (s *ExpiryService) RunWeeklyScan(now time.Time) (*ScanResult, error) {
	vehicles, err := s.vehicleStore.FindInService()
	if err != nil {
		return nil, fmt.Errorf("fetching in-service vehicles: %w", err)
	}

	items := CollectExpiringItems(vehicles, now)
	result := &ScanResult{ItemCount: len(items)}

	if len(items) == 0 {
		return result, nil
	}

	if err := s.notifier.SendExpiryReport(s.reportsEmail, items); err != nil {
		log.Printf("Expiry scan: report send failed: %v", err)
		return result, fmt.Errorf("sending expiry report: %w", err)
	}

	return result, nil
}

// CollectExpiringItems evaluates the three expiry fields of each vehicle
// against their windows and returns the matches sorted ascending by days
// left. The sort is stable so same-urgency items keep scan order.
func CollectExpiringItems(vehicles []*models.Vehicle, now time.Time) []models.ExpiringItem {
	var items []models.ExpiringItem

	for _, v := range vehicles {
		appendExpiringItem(&items, now, v, models.ExpiryKindInsurance, models.InsuranceSubKindMandatory,
			v.Insurance.Mandatory.ExpiryDate, InsuranceExpiryWindowDays)
		appendExpiringItem(&items, now, v, models.ExpiryKindInsurance, models.InsuranceSubKindComprehensive,
			v.Insurance.Comprehensive.ExpiryDate, InsuranceExpiryWindowDays)
		appendExpiringItem(&items, now, v, models.ExpiryKindRegistration, "",
			v.LicenseExpiryDate, RegistrationExpiryWindowDays)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DaysLeft < items[j].DaysLeft
	})

	return items
}

func appendExpiringItem(items *[]models.ExpiringItem, now time.Time, v *models.Vehicle, kind, subKind string, expiry *time.Time, windowDays int) {
	if expiry == nil {
		return
	}
	if expiry.Before(now) || expiry.After(now.AddDate(0, 0, windowDays)) {
		return
	}

	*items = append(*items, models.ExpiringItem{
		Kind:        kind,
		SubKind:     subKind,
		VehicleID:   v.ID.Hex(),
		PlateNumber: v.PlateNumber,
		ExpiryDate:  *expiry,
		DaysLeft:    daysLeft(now, *expiry),
	})
}

// daysLeft is the ceiling of the remaining whole-day count.
func daysLeft(now, expiry time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

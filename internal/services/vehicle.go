package services

import (
	"log"
	"time"

	"fleet-compliance/internal/models"
	"fleet-compliance/internal/repository"
	"fleet-compliance/pkg/cache"
)

type VehicleService struct {
	vehicleRepo  *repository.VehicleRepository
	vehicleCache *cache.VehicleCache
}

func NewVehicleService(vehicleRepo *repository.VehicleRepository) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
	}
}

// SetVehicleCache enables the Redis read cache for vehicle lookups.
func (s *VehicleService) SetVehicleCache(vehicleCache *cache.VehicleCache) {
	s.vehicleCache = vehicleCache
}

type CreateVehicleRequest struct {
	PlateNumber                   string     `json:"plateNumber" validate:"required,min=1,max=20"`
	Make                          string     `json:"make,omitempty"`
	Model                         string     `json:"model,omitempty"`
	Year                          int        `json:"year,omitempty" validate:"omitempty,min=1990,max=2035"`
	VIN                           string     `json:"vin,omitempty"`
	Odometer                      int        `json:"odometer,omitempty" validate:"omitempty,min=0"`
	MandatoryInsuranceExpiry      *time.Time `json:"mandatoryInsuranceExpiry,omitempty"`
	ComprehensiveInsuranceExpiry  *time.Time `json:"comprehensiveInsuranceExpiry,omitempty"`
	LicenseExpiryDate             *time.Time `json:"licenseExpiryDate,omitempty"`
	MandatoryPolicyNumber         string     `json:"mandatoryPolicyNumber,omitempty"`
	ComprehensivePolicyNumber     string     `json:"comprehensivePolicyNumber,omitempty"`
}

type UpdateVehicleRequest struct {
	PlateNumber                  string     `json:"plateNumber,omitempty"`
	Status                       string     `json:"status,omitempty" validate:"omitempty,oneof=active maintenance inactive retired"`
	Odometer                     *int       `json:"odometer,omitempty" validate:"omitempty,min=0"`
	MandatoryInsuranceExpiry     *time.Time `json:"mandatoryInsuranceExpiry,omitempty"`
	ComprehensiveInsuranceExpiry *time.Time `json:"comprehensiveInsuranceExpiry,omitempty"`
	LicenseExpiryDate            *time.Time `json:"licenseExpiryDate,omitempty"`
}

func (s *VehicleService) CreateVehicle(req *CreateVehicleRequest) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{
		PlateNumber: req.PlateNumber,
		Status:      models.VehicleStatusActive,
		Odometer:    req.Odometer,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		VIN:         req.VIN,
		Insurance: models.InsuranceInfo{
			Mandatory: models.InsurancePolicy{
				PolicyNumber: req.MandatoryPolicyNumber,
				ExpiryDate:   req.MandatoryInsuranceExpiry,
			},
			Comprehensive: models.InsurancePolicy{
				PolicyNumber: req.ComprehensivePolicyNumber,
				ExpiryDate:   req.ComprehensiveInsuranceExpiry,
			},
		},
		LicenseExpiryDate: req.LicenseExpiryDate,
	}

	created, err := s.vehicleRepo.Create(vehicle)
	if err != nil {
		return nil, err
	}

	s.invalidate(created.ID.Hex())
	return created, nil
}

func (s *VehicleService) GetVehicleByID(id string) (*models.Vehicle, error) {
	if s.vehicleCache != nil {
		if vehicle, err := s.vehicleCache.GetVehicle(id); err == nil {
			return vehicle, nil
		} else if err != cache.ErrCacheMiss {
			log.Printf("Vehicle cache read for %s: %v", id, err)
		}
	}

	vehicle, err := s.vehicleRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if s.vehicleCache != nil {
		if err := s.vehicleCache.SetVehicle(id, vehicle); err != nil {
			log.Printf("Vehicle cache write for %s: %v", id, err)
		}
	}

	return vehicle, nil
}

func (s *VehicleService) GetAllVehicles() ([]*models.Vehicle, error) {
	if s.vehicleCache != nil {
		if vehicles, err := s.vehicleCache.GetVehicleList(); err == nil {
			return vehicles, nil
		} else if err != cache.ErrCacheMiss {
			log.Printf("Vehicle list cache read: %v", err)
		}
	}

	vehicles, err := s.vehicleRepo.FindAll()
	if err != nil {
		return nil, err
	}

	if s.vehicleCache != nil {
		if err := s.vehicleCache.SetVehicleList(vehicles); err != nil {
			log.Printf("Vehicle list cache write: %v", err)
		}
	}

	return vehicles, nil
}

func (s *VehicleService) UpdateVehicle(id string, req *UpdateVehicleRequest) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.PlateNumber != "" {
		vehicle.PlateNumber = req.PlateNumber
	}
	if req.Status != "" {
		vehicle.Status = req.Status
	}
	if req.Odometer != nil {
		vehicle.Odometer = *req.Odometer
	}
	if req.MandatoryInsuranceExpiry != nil {
		vehicle.Insurance.Mandatory.ExpiryDate = req.MandatoryInsuranceExpiry
	}
	if req.ComprehensiveInsuranceExpiry != nil {
		vehicle.Insurance.Comprehensive.ExpiryDate = req.ComprehensiveInsuranceExpiry
	}
	if req.LicenseExpiryDate != nil {
		vehicle.LicenseExpiryDate = req.LicenseExpiryDate
	}

	updated, err := s.vehicleRepo.Update(id, vehicle)
	if err != nil {
		return nil, err
	}

	s.invalidate(id)
	return updated, nil
}

func (s *VehicleService) DeleteVehicle(id string) error {
	if _, err := s.vehicleRepo.FindByID(id); err != nil {
		return err
	}

	if err := s.vehicleRepo.Delete(id); err != nil {
		return err
	}

	s.invalidate(id)
	return nil
}

func (s *VehicleService) invalidate(id string) {
	if s.vehicleCache == nil {
		return
	}
	if err := s.vehicleCache.InvalidateVehicle(id); err != nil {
		log.Printf("Vehicle cache invalidation for %s: %v", id, err)
	}
}

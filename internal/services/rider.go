package services

import (
	"fleet-compliance/internal/models"
	"fleet-compliance/internal/repository"
)

type RiderService struct {
	riderRepo   *repository.RiderRepository
	vehicleRepo *repository.VehicleRepository
}

func NewRiderService(riderRepo *repository.RiderRepository, vehicleRepo *repository.VehicleRepository) *RiderService {
	return &RiderService{
		riderRepo:   riderRepo,
		vehicleRepo: vehicleRepo,
	}
}

type CreateRiderRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty"`
	NationalID string `json:"nationalId,omitempty"`
	VehicleID  string `json:"vehicleId,omitempty"`
}

type UpdateRiderRequest struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  string `json:"phone,omitempty"`
	Status string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (s *RiderService) CreateRider(req *CreateRiderRequest) (*models.Rider, error) {
	rider := &models.Rider{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		NationalID:       req.NationalID,
		Status:           models.RiderStatusActive,
		AssignmentStatus: models.AssignmentUnassigned,
	}

	if req.VehicleID != "" {
		if _, err := s.vehicleRepo.FindByID(req.VehicleID); err != nil {
			return nil, err
		}
		rider.VehicleID = req.VehicleID
		rider.AssignmentStatus = models.AssignmentAssigned
	}

	return s.riderRepo.Create(rider)
}

func (s *RiderService) GetRider(id string) (*models.Rider, error) {
	return s.riderRepo.FindByID(id)
}

func (s *RiderService) GetAllRiders() ([]*models.Rider, error) {
	return s.riderRepo.FindAll()
}

func (s *RiderService) UpdateRider(id string, req *UpdateRiderRequest) (*models.Rider, error) {
	rider, err := s.riderRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		rider.Name = req.Name
	}
	if req.Email != "" {
		rider.Email = req.Email
	}
	if req.Phone != "" {
		rider.Phone = req.Phone
	}
	if req.Status != "" {
		rider.Status = req.Status
	}

	return s.riderRepo.Update(id, rider)
}

// AssignVehicle binds the rider to a vehicle; an empty vehicle id unassigns.
func (s *RiderService) AssignVehicle(riderID, vehicleID string) error {
	if _, err := s.riderRepo.FindByID(riderID); err != nil {
		return err
	}

	if vehicleID != "" {
		if _, err := s.vehicleRepo.FindByID(vehicleID); err != nil {
			return err
		}
	}

	return s.riderRepo.UpdateAssignment(riderID, vehicleID)
}

func (s *RiderService) DeleteRider(id string) error {
	if _, err := s.riderRepo.FindByID(id); err != nil {
		return err
	}
	return s.riderRepo.Delete(id)
}

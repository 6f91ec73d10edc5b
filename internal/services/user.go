package services

import (
	"errors"

	"fleet-compliance/internal/models"
	"fleet-compliance/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=admin manager operator"`
}

type UpdateUserRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=admin manager operator"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
}

func (s *UserService) CreateUser(req *CreateUserRequest) (*models.User, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, errors.New("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      req.Role,
		Status:    "active",
	}

	created, err := s.userRepo.Create(user)
	if err != nil {
		return nil, err
	}

	created.Password = ""
	return created, nil
}

func (s *UserService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) GetAllUsers() ([]*models.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		user.Password = ""
	}
	return users, nil
}

func (s *UserService) UpdateUser(id string, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Status != "" {
		user.Status = req.Status
	}

	updated, err := s.userRepo.Update(id, user)
	if err != nil {
		return nil, err
	}

	updated.Password = ""
	return updated, nil
}

func (s *UserService) DeleteUser(id string) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return err
	}
	return s.userRepo.Delete(id)
}

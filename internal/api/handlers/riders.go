package handlers

import (
	"errors"
	"net/http"

	"fleet-compliance/internal/repository"
	"fleet-compliance/internal/services"
	"fleet-compliance/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RiderHandler struct {
	riderService *services.RiderService
	validator    *validator.Validate
}

func NewRiderHandler(riderService *services.RiderService) *RiderHandler {
	return &RiderHandler{
		riderService: riderService,
		validator:    validator.New(),
	}
}

// GetRiders retrieves all riders
func (h *RiderHandler) GetRiders(c *gin.Context) {
	riders, err := h.riderService.GetAllRiders()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve riders", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Riders retrieved successfully", riders)
}

// GetRider retrieves a specific rider by ID
func (h *RiderHandler) GetRider(c *gin.Context) {
	riderID := c.Param("id")
	if riderID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Rider ID is required", nil)
		return
	}

	rider, err := h.riderService.GetRider(riderID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Rider not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Rider retrieved successfully", rider)
}

// CreateRider creates a new rider
func (h *RiderHandler) CreateRider(c *gin.Context) {
	var req services.CreateRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	rider, err := h.riderService.CreateRider(&req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to create rider", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Rider created successfully", rider)
}

// UpdateRider updates an existing rider
func (h *RiderHandler) UpdateRider(c *gin.Context) {
	riderID := c.Param("id")
	if riderID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Rider ID is required", nil)
		return
	}

	var req services.UpdateRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	rider, err := h.riderService.UpdateRider(riderID, &req)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to update rider", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Rider updated successfully", rider)
}

// AssignVehicle assigns a vehicle to a rider, or unassigns with an empty ID
func (h *RiderHandler) AssignVehicle(c *gin.Context) {
	riderID := c.Param("id")
	if riderID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Rider ID is required", nil)
		return
	}

	var req struct {
		VehicleID string `json:"vehicleId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.riderService.AssignVehicle(riderID, req.VehicleID); err != nil {
		if errors.Is(err, repository.ErrRiderNotFound) || errors.Is(err, repository.ErrVehicleNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Assignment target not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to assign vehicle", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle assignment updated successfully", nil)
}

// DeleteRider deletes a rider
func (h *RiderHandler) DeleteRider(c *gin.Context) {
	riderID := c.Param("id")
	if riderID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Rider ID is required", nil)
		return
	}

	if err := h.riderService.DeleteRider(riderID); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to delete rider", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Rider deleted successfully", nil)
}

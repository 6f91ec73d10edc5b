package handlers

import (
	"errors"
	"net/http"
	"time"

	"fleet-compliance/internal/models"
	"fleet-compliance/internal/repository"
	"fleet-compliance/internal/services"
	"fleet-compliance/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type InspectionHandler struct {
	inspectionService *services.InspectionService
	validator         *validator.Validate
}

func NewInspectionHandler(inspectionService *services.InspectionService) *InspectionHandler {
	return &InspectionHandler{
		inspectionService: inspectionService,
		validator:         validator.New(),
	}
}

// SubmitInspectionRequest carries the rider's completed checklist.
type SubmitInspectionRequest struct {
	Answers         models.InspectionAnswers `json:"answers" validate:"required"`
	OdometerReading *int                     `json:"odometerReading" validate:"omitempty,gte=0"`
}

// BulkCreateRequest names the riders to generate checks for.
type BulkCreateRequest struct {
	RiderIDs []string `json:"riderIds" validate:"required,min=1"`
}

// GetChecks lists inspection records, filtered by period, status and rider
func (h *InspectionHandler) GetChecks(c *gin.Context) {
	var period *time.Time
	if p := c.Query("period"); p != "" {
		parsed, err := h.inspectionService.ParsePeriod(p)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid period format, expected YYYY-MM", err)
			return
		}
		period = &parsed
	}

	checks, err := h.inspectionService.ListChecks(period, c.Query("status"), c.Query("riderId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve inspection records", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Inspection records retrieved successfully", checks)
}

// GetCheck retrieves a single inspection record
func (h *InspectionHandler) GetCheck(c *gin.Context) {
	check, err := h.inspectionService.GetCheck(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Inspection record not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Inspection record retrieved successfully", check)
}

// BulkCreate generates pending checks for the given riders
func (h *InspectionHandler) BulkCreate(c *gin.Context) {
	var req BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	actor := models.UserActor(c.GetString("user_id"))
	result, err := h.inspectionService.CreateChecksForRiders(req.RiderIDs, actor, time.Now())
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to create inspection records", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Inspection records created", result)
}

// Start moves a pending check to in progress
func (h *InspectionHandler) Start(c *gin.Context) {
	actor := models.UserActor(c.GetString("user_id"))

	err := h.inspectionService.StartInspection(c.Param("id"), actor)
	if err != nil {
		h.writeTransitionError(c, err, "Failed to start inspection")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Inspection started", nil)
}

// Submit completes an open check with the rider's answers
func (h *InspectionHandler) Submit(c *gin.Context) {
	var req SubmitInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	actor := models.UserActor(c.GetString("user_id"))
	result, err := h.inspectionService.SubmitInspection(c.Param("id"), req.Answers, req.OdometerReading, actor)
	if err != nil {
		h.writeTransitionError(c, err, "Failed to submit inspection")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Inspection submitted successfully", result)
}

// Fail marks an open check as failed
func (h *InspectionHandler) Fail(c *gin.Context) {
	actor := models.UserActor(c.GetString("user_id"))

	err := h.inspectionService.FailInspection(c.Param("id"), actor)
	if err != nil {
		h.writeTransitionError(c, err, "Failed to mark inspection as failed")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Inspection marked as failed", nil)
}

// Remind sends a reminder for a pending check immediately
func (h *InspectionHandler) Remind(c *gin.Context) {
	err := h.inspectionService.SendReminderNow(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCheckNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, "Inspection record not found", err)
		case errors.Is(err, services.ErrNotPending):
			utils.ErrorResponse(c, http.StatusPreconditionFailed, "Reminders only apply to pending inspections", err)
		case errors.Is(err, services.ErrNoContactAddress):
			utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Rider has no contact address", err)
		default:
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to send reminder", err)
		}
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reminder sent successfully", nil)
}

// DeleteCheck removes an inspection record
func (h *InspectionHandler) DeleteCheck(c *gin.Context) {
	if err := h.inspectionService.DeleteCheck(c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrCheckNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Inspection record not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to delete inspection record", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Inspection record deleted successfully", nil)
}

func (h *InspectionHandler) writeTransitionError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, repository.ErrCheckNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Inspection record not found", err)
	case errors.Is(err, services.ErrCheckNotOpen), errors.Is(err, services.ErrNotPending):
		utils.ErrorResponse(c, http.StatusConflict, message, err)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}

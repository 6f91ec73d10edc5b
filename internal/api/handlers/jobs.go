package handlers

import (
	"net/http"

	"fleet-compliance/internal/scheduler"
	"fleet-compliance/pkg/utils"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	scheduler *scheduler.Process
}

func NewJobHandler(sched *scheduler.Process) *JobHandler {
	return &JobHandler{scheduler: sched}
}

// RunJob triggers a scheduled job by name, outside its normal schedule
func (h *JobHandler) RunJob(c *gin.Context) {
	name := c.Param("name")

	if err := h.scheduler.RunNow(name); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to run job", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job completed successfully", gin.H{"job": name})
}

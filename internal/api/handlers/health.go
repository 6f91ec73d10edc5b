package handlers

import (
	"net/http"

	"fleet-compliance/pkg/database"
	redispkg "fleet-compliance/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthHandler struct {
	db          *mongo.Database
	redisClient *redispkg.Client
}

func NewHealthHandler(db *mongo.Database, redisClient *redispkg.Client) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
	}
}

// Health reports liveness of the service and its dependencies
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	mongoStatus := "ok"

	if err := database.Health(h.db); err != nil {
		mongoStatus = err.Error()
		status = http.StatusServiceUnavailable
	}

	redisStatus := "ok"
	if h.redisClient != nil {
		if rs := h.redisClient.HealthCheck(); !rs.IsConnected {
			redisStatus = rs.Error
		}
	} else {
		redisStatus = "not configured"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status": overall,
		"checks": gin.H{
			"mongodb": mongoStatus,
			"redis":   redisStatus,
		},
	})
}

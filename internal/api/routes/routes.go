package routes

import (
	"fleet-compliance/internal/api/handlers"
	"fleet-compliance/internal/api/middleware"
	"fleet-compliance/internal/models"
	"fleet-compliance/internal/scheduler"
	"fleet-compliance/internal/services"
	"fleet-compliance/pkg/jwt"
	"fleet-compliance/pkg/ratelimit"
	redispkg "fleet-compliance/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deps carries everything the route tree needs. Services are built in
// main because the compliance services share wiring with the scheduler.
type Deps struct {
	DB          *mongo.Database
	RedisClient *redispkg.Client
	JWTUtil     *jwt.JWTUtil
	RateLimiter *ratelimit.Limiter

	AuthService       *services.AuthService
	UserService       *services.UserService
	RiderService      *services.RiderService
	VehicleService    *services.VehicleService
	InspectionService *services.InspectionService
	Scheduler         *scheduler.Process
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.UserService)
	riderHandler := handlers.NewRiderHandler(deps.RiderService)
	vehicleHandler := handlers.NewVehicleHandler(deps.VehicleService)
	userHandler := handlers.NewUserHandler(deps.UserService)
	inspectionHandler := handlers.NewInspectionHandler(deps.InspectionService)
	jobHandler := handlers.NewJobHandler(deps.Scheduler)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.RedisClient)

	router.GET("/health", healthHandler.Health)

	// API routes
	api := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(deps.RateLimiter))
	}

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/register", authHandler.Register)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.JWTUtil))
	{
		protected.GET("/auth/profile", authHandler.Profile)

		// Riders
		riders := protected.Group("/riders")
		{
			riders.GET("", riderHandler.GetRiders)
			riders.POST("", riderHandler.CreateRider)
			riders.GET("/:id", riderHandler.GetRider)
			riders.PATCH("/:id", riderHandler.UpdateRider)
			riders.PATCH("/:id/assign", riderHandler.AssignVehicle)
			riders.DELETE("/:id", riderHandler.DeleteRider)
		}

		// Vehicles
		vehicles := protected.Group("/vehicles")
		{
			vehicles.GET("", vehicleHandler.GetVehicles)
			vehicles.POST("", vehicleHandler.CreateVehicle)
			vehicles.GET("/:id", vehicleHandler.GetVehicle)
			vehicles.PATCH("/:id", vehicleHandler.UpdateVehicle)
			vehicles.DELETE("/:id", vehicleHandler.DeleteVehicle)
		}

		// Monthly inspection checks
		checks := protected.Group("/monthly-checks")
		{
			checks.GET("", inspectionHandler.GetChecks)
			checks.GET("/:id", inspectionHandler.GetCheck)
			checks.POST("/bulk", inspectionHandler.BulkCreate)
			checks.PATCH("/:id/start", inspectionHandler.Start)
			checks.PATCH("/:id/submit", inspectionHandler.Submit)
			checks.POST("/:id/remind", inspectionHandler.Remind)
			checks.PATCH("/:id/fail", inspectionHandler.Fail)
		}

		// Admin-only operations
		admin := protected.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.DELETE("/monthly-checks/:id", inspectionHandler.DeleteCheck)
			admin.POST("/admin/jobs/:name/run", jobHandler.RunJob)

			users := admin.Group("/users")
			{
				users.GET("", userHandler.GetUsers)
				users.GET("/:id", userHandler.GetUser)
				users.PATCH("/:id", userHandler.UpdateUser)
				users.DELETE("/:id", userHandler.DeleteUser)
			}
		}
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-compliance/internal/api/routes"
	"fleet-compliance/internal/config"
	"fleet-compliance/internal/repository"
	"fleet-compliance/internal/scheduler"
	"fleet-compliance/internal/services"
	"fleet-compliance/pkg/cache"
	"fleet-compliance/pkg/database"
	"fleet-compliance/pkg/email"
	"fleet-compliance/pkg/jwt"
	"fleet-compliance/pkg/ratelimit"
	redispkg "fleet-compliance/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to MongoDB
	db, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Disconnect(db.Client())

	// Initialize Redis client
	redisClient := redispkg.NewClient(cfg.Redis)
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	riderRepo := repository.NewRiderRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)

	// Services
	jwtUtil := jwt.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiry)
	emailService := email.NewEmailService(cfg.SMTP)
	loc := cfg.Location()

	authService := services.NewAuthService(userRepo, jwtUtil)
	userService := services.NewUserService(userRepo)
	riderService := services.NewRiderService(riderRepo, vehicleRepo)
	vehicleService := services.NewVehicleService(vehicleRepo)
	if redisClient.IsConnected() {
		vehicleService.SetVehicleCache(cache.NewVehicleCache(redisClient.GetClient()))
	}

	inspectionService := services.NewInspectionService(
		riderRepo, vehicleRepo, inspectionRepo, emailService, cfg.ManagementEmail, loc)
	expiryService := services.NewExpiryService(vehicleRepo, emailService, cfg.ReportsEmail)

	// Compliance scheduler
	sched := scheduler.New(scheduler.Config{
		Location:      loc,
		MonthlyDay:    cfg.Scheduler.MonthlyDay,
		MonthlyHour:   cfg.Scheduler.MonthlyHour,
		DailyHour:     cfg.Scheduler.DailyHour,
		WeeklyWeekday: time.Weekday(cfg.Scheduler.WeeklyWeekday),
		WeeklyHour:    cfg.Scheduler.WeeklyHour,
	}, inspectionService, expiryService)
	go sched.Start()

	// Setup Gin router
	router := gin.Default()

	// CORS middleware
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}

	router.Use(cors.New(corsConfig))

	// Rate limiter is skipped when disabled or Redis is unavailable
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled && redisClient.IsConnected() {
		limiter = ratelimit.NewLimiter(redisClient.GetClient(), cfg.RateLimit.RequestsPerMinute, time.Minute)
	}

	routes.SetupRoutes(router, routes.Deps{
		DB:                db,
		RedisClient:       redisClient,
		JWTUtil:           jwtUtil,
		RateLimiter:       limiter,
		AuthService:       authService,
		UserService:       userService,
		RiderService:      riderService,
		VehicleService:    vehicleService,
		InspectionService: inspectionService,
		Scheduler:         sched,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

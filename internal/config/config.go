package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	MongoURI       string
	JWTSecret      string
	JWTExpiry      string
	AllowedOrigins []string

	ManagementEmail string
	ReportsEmail    string

	SMTP      SMTPConfig
	Scheduler SchedulerConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type SMTPConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type SchedulerConfig struct {
	Timezone      string
	MonthlyDay    int
	MonthlyHour   int
	DailyHour     int
	WeeklyWeekday int // 0 = Sunday
	WeeklyHour    int
}

type RedisConfig struct {
	URL          string
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
}

func Load() *Config {
	// .env is optional outside local development
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI environment variable is not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}

	return &Config{
		Port:           port,
		MongoURI:       mongoURI,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      os.Getenv("JWT_EXPIRY"),
		AllowedOrigins: strings.Split(allowedOrigins, ","),

		ManagementEmail: getEnv("MANAGEMENT_EMAIL", "fleet-management@localhost"),
		ReportsEmail:    getEnv("REPORTS_EMAIL", "fleet-reports@localhost"),

		SMTP: SMTPConfig{
			Host:      os.Getenv("SMTP_HOST"),
			Port:      getEnv("SMTP_PORT", "587"),
			Username:  os.Getenv("SMTP_USERNAME"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			FromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@localhost"),
			FromName:  getEnv("SMTP_FROM_NAME", "Fleet Compliance"),
		},

		Scheduler: SchedulerConfig{
			Timezone:      getEnv("SCHEDULER_TIMEZONE", "UTC"),
			MonthlyDay:    getEnvInt("MONTHLY_CYCLE_DAY", 1),
			MonthlyHour:   getEnvInt("MONTHLY_CYCLE_HOUR", 6),
			DailyHour:     getEnvInt("DAILY_REMINDER_HOUR", 9),
			WeeklyWeekday: getEnvInt("EXPIRY_SCAN_WEEKDAY", 1),
			WeeklyHour:    getEnvInt("EXPIRY_SCAN_HOUR", 8),
		},

		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},

		RateLimit: RateLimitConfig{
			Enabled:           getEnv("RATE_LIMIT_ENABLED", "true") == "true",
			RequestsPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		},
	}
}

// Location resolves the operational time zone all jobs share.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		log.Printf("Invalid SCHEDULER_TIMEZONE %q, using UTC: %v", c.Scheduler.Timezone, err)
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %v", key, value, fallback)
		return fallback
	}
	return d
}

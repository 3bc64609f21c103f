package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	ServerPort  string
	Environment string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis configuration
	RedisAddress string
	CacheTTL     time.Duration

	// Object storage: "local" serves files from UploadsDir, "gcs" uses GCSBucket
	StorageBackend string
	GCSBucket      string
	UploadsDir     string
	PublicBaseURL  string

	MaxUploadBytes int64
	WorkerPoolSize int

	FrontendAddress string
}

// Global application configuration
var AppConfig Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Find .env file
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Try to find .env in parent directories
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	// Load .env file if it exists
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	port := GetEnv("PORT", "8080")

	AppConfig = Config{
		ServerPort:      port,
		Environment:     GetEnv("ENV", "development"),
		DBHost:          GetEnv("DB_HOST", "localhost"),
		DBPort:          GetEnv("DB_PORT", "5432"),
		DBUser:          GetEnv("DB_USER", "postgres"),
		DBPassword:      GetEnv("DB_PASSWORD", "postgres"),
		DBName:          GetEnv("DB_NAME", "resume_reviewer"),
		RedisAddress:    GetEnv("REDIS_ADDRESS", "localhost:6379"),
		CacheTTL:        GetEnvDuration("CACHE_TTL", 10*time.Minute),
		StorageBackend:  GetEnv("STORAGE_BACKEND", "local"),
		GCSBucket:       GetEnv("GCS_BUCKET", ""),
		UploadsDir:      GetEnv("UPLOADS_DIR", "./uploads"),
		PublicBaseURL:   GetEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		MaxUploadBytes:  int64(GetEnvInt("MAX_UPLOAD_MB", 10)) << 20,
		WorkerPoolSize:  GetEnvInt("WORKER_POOL_SIZE", 4),
		FrontendAddress: GetEnv("FRONTEND_ADDRESS", "https://production-frontend.com"),
	}
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ClassifierConfig holds settings for the external classification service.
// MaxAttempts is the orchestrator's per-document attempt budget; 1 means no
// retry. The breaker settings gate the circuit breaker around the client.
type ClassifierConfig struct {
	BaseURL             string
	TimeoutSec          int
	MaxAttempts         int
	BreakerEnabled      bool
	BreakerMaxFailures  int
	BreakerOpenTimeoutS int
}

// UploadConfig bounds a single ingestion batch.
type UploadConfig struct {
	MaxBatchSize int
	AllowedTypes []string
}

// AnalyticsConfig holds limits for the derived read views.
type AnalyticsConfig struct {
	RecentLimit int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	Database   DatabaseConfig
	MinIO      MinIOConfig
	Classifier ClassifierConfig
	Upload     UploadConfig
	Analytics  AnalyticsConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Classifier: ClassifierConfig{
			BaseURL:             getEnv("CLASSIFIER_URL", "http://localhost:8000"),
			TimeoutSec:          getEnvInt("CLASSIFIER_TIMEOUT_SEC", 30),
			MaxAttempts:         getEnvInt("CLASSIFIER_MAX_ATTEMPTS", 1),
			BreakerEnabled:      getEnvBool("CLASSIFIER_BREAKER_ENABLED", false),
			BreakerMaxFailures:  getEnvInt("CLASSIFIER_BREAKER_MAX_FAILURES", 5),
			BreakerOpenTimeoutS: getEnvInt("CLASSIFIER_BREAKER_OPEN_TIMEOUT_SEC", 30),
		},
		Upload: UploadConfig{
			MaxBatchSize: getEnvInt("UPLOAD_MAX_BATCH", 10),
			AllowedTypes: getEnvList("UPLOAD_ALLOWED_TYPES", []string{"txt", "pdf", "doc", "docx", "png", "jpg", "jpeg"}),
		},
		Analytics: AnalyticsConfig{
			RecentLimit: getEnvInt("ANALYTICS_RECENT_LIMIT", 10),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

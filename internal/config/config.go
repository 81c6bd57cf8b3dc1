package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Gemini     GeminiConfig
	Storage    StorageConfig
	Derivation DerivationConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// Enabled reports whether an upload registry database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// StorageMode selects how the object storage client connects. It is decided
// once in Load and never re-derived afterwards.
type StorageMode string

const (
	// StorageModeRegional uses the regional endpoint with ambient credentials.
	StorageModeRegional StorageMode = "regional"
	// StorageModeS3Compatible uses a custom endpoint, path-style addressing and static keys.
	StorageModeS3Compatible StorageMode = "s3-compatible"
)

type StorageConfig struct {
	Mode        StorageMode
	Bucket      string
	Region      string
	Endpoint    string
	AccessKey   string
	SecretKey   string
	MaxFileSize int64
}

// Validate checks that the selected mode has everything it needs.
func (s StorageConfig) Validate() error {
	if s.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}

	switch s.Mode {
	case StorageModeRegional:
		if s.Region == "" {
			return fmt.Errorf("storage region is required in %s mode", s.Mode)
		}
	case StorageModeS3Compatible:
		if s.Endpoint == "" {
			return fmt.Errorf("storage endpoint is required in %s mode", s.Mode)
		}
		if s.AccessKey == "" || s.SecretKey == "" {
			return fmt.Errorf("storage access and secret keys are required in %s mode", s.Mode)
		}
	default:
		return fmt.Errorf("unknown storage mode: %q", s.Mode)
	}

	if s.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}

	return nil
}

type DerivationConfig struct {
	Currency string
}

const defaultMaxFileSize = "10MB"

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "rcruit_flow"),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout: getEnvAsDuration("GEMINI_TIMEOUT", "60s"),
		},
		Storage: loadStorage(),
		Derivation: DerivationConfig{
			Currency: getEnv("SALARY_CURRENCY", "€"),
		},
	}
}

func loadStorage() StorageConfig {
	storage := StorageConfig{
		Mode:        StorageModeRegional,
		Bucket:      getEnv("S3_BUCKET", "cv-uploads"),
		Region:      getEnv("S3_REGION", "eu-central-1"),
		Endpoint:    getEnv("S3_ENDPOINT", ""),
		AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		SecretKey:   getEnv("S3_SECRET_KEY", ""),
		MaxFileSize: getEnvAsSize("MAX_FILE_SIZE", defaultMaxFileSize),
	}

	if storage.Endpoint != "" {
		storage.Mode = StorageModeS3Compatible
	}

	return storage
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsSize accepts raw byte counts ("10485760") or human sizes ("10MB", "512KiB").
// Sizes are binary: 10MB is 10485760 bytes.
func getEnvAsSize(key string, defaultValue string) int64 {
	valueStr := getEnv(key, defaultValue)
	if size, err := units.RAMInBytes(valueStr); err == nil && size > 0 {
		return size
	}
	size, _ := units.RAMInBytes(defaultValue)
	return size
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

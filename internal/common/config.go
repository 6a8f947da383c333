package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Extract ExtractConfig
	Adapter AdapterConfig
	Batch   BatchConfig
	Ledger  LedgerConfig
	Log     LogConfig
}

// ExtractConfig holds entity-extraction inputs
type ExtractConfig struct {
	GazetteerPath       string
	ContactPatternsFile string
}

// AdapterConfig holds document-to-text configuration
type AdapterConfig struct {
	TextArchiveDir  string
	ConversionDir   string
	OfficeBin       string
	DocumentTimeout time.Duration
	MaxFileSize     int64
}

// BatchConfig holds orchestrator configuration
type BatchConfig struct {
	Workers       int
	KeepArtifacts bool
}

// LedgerConfig holds run-ledger database configuration
type LedgerConfig struct {
	DSN         string
	MaxConns    int32
	DialTimeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is applied first; variables already
// set in the environment win.
func LoadConfig() *Config {
	// missing or malformed .env: the process environment still applies
	_ = godotenv.Load()
	return &Config{
		Extract: ExtractConfig{
			GazetteerPath:       getEnv("GAZETTEER_PATH", "names.txt"),
			ContactPatternsFile: getEnv("CONTACT_PATTERNS_FILE", ""),
		},
		Adapter: AdapterConfig{
			TextArchiveDir:  getEnv("TEXT_ARCHIVE_DIR", "./txts"),
			ConversionDir:   getEnv("CONVERSION_DIR", "./doc2docx"),
			OfficeBin:       getEnv("OFFICE_BIN", "soffice"),
			DocumentTimeout: getEnvAsDuration("DOCUMENT_TIMEOUT", 2*time.Minute),
			MaxFileSize:     getEnvAsInt64("MAX_FILE_SIZE", 50<<20),
		},
		Batch: BatchConfig{
			Workers:       getEnvAsInt("WORKERS", 1),
			KeepArtifacts: getEnvAsBool("KEEP_ARTIFACTS", false),
		},
		Ledger: LedgerConfig{
			DSN:         getEnv("LEDGER_DSN", ""),
			MaxConns:    int32(getEnvAsInt("LEDGER_MAX_CONNS", 4)),
			DialTimeout: getEnvAsDuration("LEDGER_DIAL_TIMEOUT", 3*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", LogLevelInfo),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("GAZETTEER_PATH", c.Extract.GazetteerPath, Required).
		Field("TEXT_ARCHIVE_DIR", c.Adapter.TextArchiveDir, Required).
		Field("CONVERSION_DIR", c.Adapter.ConversionDir, Required).
		Field("OFFICE_BIN", c.Adapter.OfficeBin, Required).
		Field("WORKERS", c.Batch.Workers, Positive).
		Field("LOG_LEVEL", c.Log.Level, OneOf(LogLevelInfo, LogLevelDebug))
	return ValidateAndReturnError(v)
}

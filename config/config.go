package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, the NBP rate-service client, and report output.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	NBP_BASE_URL=http://api.nbp.pl/api
//	NBP_TIMEOUT_SECONDS=10
//	RATE_MAX_LOOKBACK_DAYS=14
//	OUTPUT_DIR=./data/output
type Config struct {
	Server ServerConfig // HTTP server configuration
	NBP    NBPConfig    // NBP exchange-rate API client settings
	Report ReportConfig // Report output settings
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// NBPConfig defines how the NBP (Narodowy Bank Polski) exchange-rate API is reached.
//
// Fields:
//   - BaseURL: API root, e.g. "http://api.nbp.pl/api". Table-A rate paths are appended to it.
//   - Timeout: per-request timeout for rate lookups.
//   - MaxLookbackDays: how many calendar days before a trade date the resolver may
//     walk back searching for a published rate before giving up.
type NBPConfig struct {
	BaseURL         string
	Timeout         time.Duration
	MaxLookbackDays int
}

// ReportConfig holds settings for the generated xlsx artifacts.
type ReportConfig struct {
	OutputDir string // Directory where CLI-mode reports are written
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all required fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Calls validateConfig() to ensure required fields are present.
//
// Fatal exit:
//   - If required variables are missing or out of range, validateConfig() will
//     terminate the app with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("NBP_BASE_URL", "http://api.nbp.pl/api")
	viper.SetDefault("NBP_TIMEOUT_SECONDS", 10)
	viper.SetDefault("RATE_MAX_LOOKBACK_DAYS", 14)

	viper.SetDefault("OUTPUT_DIR", "./data/output")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		NBP: NBPConfig{
			BaseURL:         viper.GetString("NBP_BASE_URL"),
			Timeout:         time.Duration(viper.GetInt("NBP_TIMEOUT_SECONDS")) * time.Second,
			MaxLookbackDays: viper.GetInt("RATE_MAX_LOOKBACK_DAYS"),
		},
		Report: ReportConfig{
			OutputDir: viper.GetString("OUTPUT_DIR"),
		},
	}

	// Validate critical fields
	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// This avoids unexpected runtime failures due to incomplete configuration.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Collects missing ones in a slice.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.NBP.BaseURL == "" {
		missing = append(missing, "NBP_BASE_URL")
	}
	if AppConfig.NBP.Timeout <= 0 {
		missing = append(missing, "NBP_TIMEOUT_SECONDS")
	}
	if AppConfig.NBP.MaxLookbackDays < 1 {
		missing = append(missing, fmt.Sprintf("RATE_MAX_LOOKBACK_DAYS (got %d, need >= 1)", AppConfig.NBP.MaxLookbackDays))
	}
	if AppConfig.Report.OutputDir == "" {
		missing = append(missing, "OUTPUT_DIR")
	}

	if len(missing) > 0 {
		log.Fatalf("Missing or invalid required environment variables: %v\n", missing)
	}
}

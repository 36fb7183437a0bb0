package config

import "time"

// Application constants shared across commands and the server.
const (
	// Application Info
	AppName    = "ChurnLens"
	AppID      = "churnlens"
	AppVersion = "1.0.0"

	// Environment variable prefix (CHURN_SERVER_PORT, CHURN_DATASET_PATH, ...)
	EnvPrefix = "CHURN"

	// Server defaults
	DefaultServerPort = 8080

	// Rate Limiting
	DefaultRateLimitRPS   = 100.0 // requests per second
	DefaultRateLimitBurst = 50

	// File Paths (relative to executable)
	DefaultExportsDir = "exports"
	DefaultLogsDir    = "logs"

	// File Names
	DefaultConfigFile = "config.yaml"
	DefaultLogFile    = "churnlens.log"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Log output destinations
	LogOutputConsole = "console"
	LogOutputFile    = "file"
	LogOutputBoth    = "both"

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second
)

// API Endpoints (internal)
const (
	APIBasePath       = "/api"
	AnalyticsBasePath = "/api/analytics"
	DatasetEndpoint   = "/api/dataset"
	ExportEndpoint    = "/api/export"
	HealthEndpoint    = "/api/health"
	VersionEndpoint   = "/api/version"
	MetricsEndpoint   = "/metrics"
)

// Package config provides centralized configuration management for the
// churn analytics service. It handles loading configuration from
// multiple sources, validation, and path resolution relative to the
// executable.
//
// # Configuration Sources
//
// Configuration is assembled from the following layers, lowest
// precedence first:
//
//	1. Built-in defaults (Default)
//	2. A YAML config file (config.yaml, configs/config.yaml, or an
//	   explicit path passed to Load)
//	3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CHURN_<SECTION>_<FIELD>:
//
//	CHURN_SERVER_PORT=9090
//	CHURN_DATASET_PATH=/srv/churn/customers.csv
//	CHURN_DATASET_STRICT=true
//	CHURN_LOGGING_LEVEL=debug
//	CHURN_SECURITY_ALLOWED_ORIGINS=http://localhost:3000,http://localhost:8080
//
// The dataset path is the only setting without a usable default: the
// server refuses to start until one is provided via the config file,
// the environment, or the -dataset flag. Everything else has a
// documented default.
//
// # Path Management
//
// The package also resolves executable-relative directories through the
// Paths type so exports and log files stay next to the binary:
//
//	paths, err := config.GetPaths()
//	exportPath := paths.GetExportPath("churn_export_20250601_153000.csv")
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

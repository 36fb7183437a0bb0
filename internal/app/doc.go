// Package app provides application initialization and lifecycle management
// for the ChurnLens server. It wires configuration, logging, observability,
// the dataset load, the analytics services and the HTTP router together at
// startup, and handles graceful shutdown.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from file and CHURN_* environment variables
//	2. Initialize logging and OpenTelemetry
//	3. Load the customer dataset (once; it is immutable afterwards)
//	4. Initialize the analytics, export and health services
//	5. Set up HTTP handlers and middleware
//	6. Configure and start the HTTP server
//	7. Set up graceful shutdown handlers
//
// # Usage
//
// The main entry point is typically:
//
//	app, err := app.NewApplication(configFile, datasetPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM signals to ensure active requests
// complete, telemetry is flushed and the log file is closed. All
// initialization errors are returned to the caller; the package never calls
// os.Exit directly.
package app

// Package services implements the business logic layer between the HTTP
// handlers and the churn analytics engine.
//
// # Architecture
//
// Services follow these principles:
//
//	1. Context propagation on every operation for cancellation and tracing
//	2. Dependency injection (*slog.Logger, *BusinessMetrics) for loose coupling
//	3. Domain sentinel errors from internal/errors, mapped to problem
//	   documents at the transport boundary via errors.Is
//	4. The dataset is an explicitly passed read-only value, never a
//	   module-level singleton
//
// # Available Services
//
//	- AnalyticsService: filtered analytics queries and export snapshots
//	  over the immutable dataset loaded at startup
//	- HealthService: liveness, readiness, version, and runtime statistics
//	  for the probe endpoints
//
// # Error Handling
//
// Analytics operations distinguish three failure shapes:
//
//	- ErrNoMatchingRecords: the filter excluded every record; transport
//	  answers with the no-data envelope, not a 5xx
//	- ErrUnknownSegment / ErrUnknownField: the request named a dimension
//	  or field outside the fixed vocabulary
//	- load-time errors (ErrDatasetMissing, ErrDatasetEmpty,
//	  ErrMalformedDataset): surfaced by LoadDataset; the process refuses
//	  to start without a usable dataset
//
// # Concurrency
//
// The dataset is immutable after LoadDataset returns, so AnalyticsService
// methods are safe for unlimited concurrent callers without locking. No
// service starts a goroutine.
package services

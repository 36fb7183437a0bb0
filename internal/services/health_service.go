package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"churnlens/internal/infrastructure"
	"churnlens/pkg/contracts/domain"
)

// HealthService answers the probe endpoints. Readiness means the dataset
// is loaded and the export directory is usable; liveness is process-level
// only.
type HealthService struct {
	version   string
	buildTime string
	buildID   string
	dataset   *domain.Dataset
	exportDir string
	collector *infrastructure.SystemMetricsCollector
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the response shape shared by the probe endpoints.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth is one dependency's readiness line.
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service without build stamp metadata.
func NewHealthService(version string, dataset *domain.Dataset, exportDir string, collector *infrastructure.SystemMetricsCollector, logger *slog.Logger) *HealthService {
	return NewHealthServiceWithBuildInfo(version, "", "", dataset, exportDir, collector, logger)
}

// NewHealthServiceWithBuildInfo creates a health service carrying build
// stamp information for the version endpoint.
func NewHealthServiceWithBuildInfo(version, buildTime, buildID string, dataset *domain.Dataset, exportDir string, collector *infrastructure.SystemMetricsCollector, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "health_service")

	logger.Info("health service initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("build_id", buildID))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		buildID:   buildID,
		dataset:   dataset,
		exportDir: exportDir,
		collector: collector,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns the overall health status.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether the service can answer analytics and
// export requests right now.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["dataset"] = hs.checkDatasetHealth()
	status.Services["exports"] = hs.checkExportsHealth()

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	return status
}

// LivenessCheck reports process-level liveness.
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns build and runtime version information.
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.buildID != "" {
		result["build_id"] = hs.buildID
	}

	return result
}

// SystemStats samples runtime statistics and merges in dataset provenance.
// Each sample refreshes the OTel gauges, so polling the stats endpoint
// keeps the Prometheus view current without a background loop.
func (hs *HealthService) SystemStats(ctx context.Context) (map[string]interface{}, error) {
	if hs.collector == nil {
		return nil, fmt.Errorf("system metrics collector not configured")
	}

	stats := hs.collector.GetCurrentStats(ctx).FormatStats()
	if hs.dataset != nil {
		info := hs.dataset.Info()
		stats["dataset"] = map[string]interface{}{
			"source":       info.Source,
			"rows":         info.Rows,
			"dropped_rows": info.DroppedRows,
			"loaded_at":    info.LoadedAt.Format(time.RFC3339),
		}
	}

	return stats, nil
}

// checkDatasetHealth verifies the dataset was loaded and holds records.
func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	if hs.dataset == nil || hs.dataset.Len() == 0 {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "dataset not loaded",
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d records from %s", hs.dataset.Len(), hs.dataset.Source),
		Uptime:  time.Since(hs.startTime).String(),
	}
}

// checkExportsHealth verifies the export directory exists or can be created.
func (hs *HealthService) checkExportsHealth() ServiceHealth {
	if hs.exportDir == "" {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "export directory not configured",
		}
	}

	if err := os.MkdirAll(hs.exportDir, 0755); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("export directory unavailable: %v", err),
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: "export directory available",
	}
}

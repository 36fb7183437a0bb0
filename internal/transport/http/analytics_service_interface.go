package http

import (
	"context"

	"churnlens/internal/exporter"
	"churnlens/pkg/contracts/domain"
)

// AnalyticsServiceInterface defines the analytics operations the handlers
// depend on. Every read takes the caller's filter; option and provenance
// lookups always describe the full dataset.
type AnalyticsServiceInterface interface {
	GetOverview(ctx context.Context, filter domain.FilterState) (domain.OverallMetrics, error)
	GetSegmentBreakdown(ctx context.Context, key domain.SegmentKey, filter domain.FilterState) (domain.SummaryTable, error)
	GetGeoRollup(ctx context.Context, filter domain.FilterState) ([]domain.GeoMetrics, error)
	GetCorrelation(ctx context.Context, x, y domain.NumericField, filter domain.FilterState) (domain.CorrelationResult, error)
	GetCorrelationMatrix(ctx context.Context, fields []domain.NumericField, filter domain.FilterState) (domain.CorrelationMatrix, error)
	GetChurnReasons(ctx context.Context, filter domain.FilterState) ([]domain.ReasonCount, error)
	GetAtRisk(ctx context.Context, filter domain.FilterState) (domain.AtRiskMetrics, error)
	GetSummary(ctx context.Context, filter domain.FilterState) (domain.ExecutiveSummary, error)
	GetFilterOptions(ctx context.Context) domain.FilterOptions
	GetDatasetInfo(ctx context.Context) domain.DatasetInfo

	// BuildExportSnapshot never fails on an empty subset; an export of a
	// filter that matches nothing is a valid file with zeroed aggregates.
	BuildExportSnapshot(ctx context.Context, filter domain.FilterState) exporter.Snapshot
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"churnlens/internal/churn"
	"churnlens/internal/config"
	apperrors "churnlens/internal/errors"
	"churnlens/internal/exporter"
	"churnlens/internal/infrastructure"
	"churnlens/internal/validation"
	"churnlens/pkg/contracts/domain"
)

// AnalyticsService answers every dashboard and export question from the
// dataset loaded at startup. The record slice is immutable after
// construction, so all methods read it concurrently without locking.
type AnalyticsService struct {
	dataset *domain.Dataset
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// NewAnalyticsService creates an analytics service over a loaded dataset
// without metric instrumentation.
func NewAnalyticsService(dataset *domain.Dataset, logger *slog.Logger) *AnalyticsService {
	return NewAnalyticsServiceWithMetrics(dataset, logger, nil)
}

// NewAnalyticsServiceWithMetrics creates an analytics service that records
// query counts and latencies through the shared OTel instruments.
func NewAnalyticsServiceWithMetrics(dataset *domain.Dataset, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "analytics_service")

	logger.Info("analytics service ready",
		slog.String("source", dataset.Source),
		slog.Int("rows", dataset.Len()),
		slog.Int("dropped_rows", dataset.DroppedRows))

	return &AnalyticsService{
		dataset: dataset,
		logger:  logger,
		metrics: metrics,
	}
}

// LoadDataset reads, validates, and cleans the configured dataset file.
// It runs once at startup; a failure here means the process refuses to
// start rather than serving an empty dashboard.
func LoadDataset(ctx context.Context, cfg config.DatasetConfig, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) (*domain.Dataset, error) {
	start := time.Now()

	if err := validation.NewDatasetFileValidator(logger).ValidateDatasetFile(cfg.Path); err != nil {
		return nil, fmt.Errorf("validate dataset: %w", err)
	}

	loader := churn.NewLoader(logger)
	loader.SetStrict(cfg.Strict)

	ds, err := loader.Load(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	infrastructure.RecordDatasetLoad(ctx, metrics, ds.Source, ds.Len(), ds.DroppedRows, time.Since(start))
	return ds, nil
}

// GetOverview returns the headline metrics for the filtered view.
func (s *AnalyticsService) GetOverview(ctx context.Context, filter domain.FilterState) (domain.OverallMetrics, error) {
	start := time.Now()

	records, err := s.subset(ctx, filter)
	if err != nil {
		s.observe(ctx, "overview", 0, start, err)
		return domain.OverallMetrics{}, err
	}

	overall := churn.Overall(records)
	s.observe(ctx, "overview", len(records), start, nil)
	return overall, nil
}

// GetSegmentBreakdown returns the per-segment table for one dimension of
// the filtered view. An unknown key is reported before the filter is
// evaluated, so callers get a not-found rather than a no-data answer.
func (s *AnalyticsService) GetSegmentBreakdown(ctx context.Context, key domain.SegmentKey, filter domain.FilterState) (domain.SummaryTable, error) {
	start := time.Now()

	if !key.IsValid() {
		err := fmt.Errorf("%w: %q", apperrors.ErrUnknownSegment, key)
		s.observe(ctx, "segments", 0, start, err)
		return domain.SummaryTable{}, err
	}

	records, err := s.subset(ctx, filter)
	if err != nil {
		s.observe(ctx, "segments", 0, start, err)
		return domain.SummaryTable{}, err
	}

	table, err := churn.Breakdown(records, key)
	if err != nil {
		s.observe(ctx, "segments", 0, start, err)
		return domain.SummaryTable{}, err
	}

	s.observe(ctx, "segments", len(records), start, nil)
	return table, nil
}

// GetGeoRollup returns the per-region rollup for the map view.
func (s *AnalyticsService) GetGeoRollup(ctx context.Context, filter domain.FilterState) ([]domain.GeoMetrics, error) {
	start := time.Now()

	records, err := s.subset(ctx, filter)
	if err != nil {
		s.observe(ctx, "geo", 0, start, err)
		return nil, err
	}

	rollup := churn.GeoRollup(records)
	s.observe(ctx, "geo", len(records), start, nil)
	return rollup, nil
}

// GetCorrelation returns the Pearson coefficient between two numeric
// fields over the filtered view. The coefficient is NaN when either field
// has zero variance; the transport layer serializes that as null.
func (s *AnalyticsService) GetCorrelation(ctx context.Context, x, y domain.NumericField, filter domain.FilterState) (domain.CorrelationResult, error) {
	start := time.Now()

	for _, field := range []domain.NumericField{x, y} {
		if !field.IsValid() {
			err := fmt.Errorf("%w: %q", apperrors.ErrUnknownField, field)
			s.observe(ctx, "correlation", 0, start, err)
			return domain.CorrelationResult{}, err
		}
	}

	records, err := s.subset(ctx, filter)
	if err != nil {
		s.observe(ctx, "correlation", 0, start, err)
		return domain.CorrelationResult{}, err
	}

	result := churn.Correlate(records, x, y)
	s.observe(ctx, "correlation", len(records), start, nil)
	return result, nil
}

// GetCorrelationMatrix returns the pairwise Pearson grid for the heat
// table. With no fields requested the default dashboard set is used.
func (s *AnalyticsService) GetCorrelationMatrix(ctx context.Context, fields []domain.NumericField, filter domain.FilterState) (domain.CorrelationMatrix, error) {
	start := time.Now()

	if len(fields) == 0 {
		fields = churn.DefaultMatrixFields()
	}
	for _, field := range fields {
		if !field.IsValid() {
			err := fmt.Errorf("%w: %q", apperrors.ErrUnknownField, field)
			s.observe(ctx, "correlation_matrix", 0, start, err)
			return domain.CorrelationMatrix{}, err
		}
	}

	records, err := s.subset(ctx, filter)
	if err != nil {
		s.observe(ctx, "correlation_matrix", 0, start, err)
		return domain.CorrelationMatrix{}, err
	}

	matrix := churn.Matrix(records, fields...)
	s.observe(ctx, "correlation_matrix", len(records), start, nil)
	return matrix, nil
}

// GetChurnReasons returns stated churn reason counts for the filtered view.
func (s *AnalyticsService) GetChurnReasons(ctx context.Context, filter domain.FilterState) ([]domain.ReasonCount, error) {
	start := time.Now()

	records, err := s.subset(ctx, filter)
	if err != nil {
		s.observe(ctx, "reasons", 0, start, err)
		return nil, err
	}

	reasons := churn.ChurnReasons(records)
	s.observe(ctx, "reasons", len(records), start, nil)
	return reasons, nil
}

// GetAtRisk returns the descriptive at-risk thresholds for the filtered
// view. These are counts over observed fields, not model predictions.
func (s *AnalyticsService) GetAtRisk(ctx context.Context, filter domain.FilterState) (domain.AtRiskMetrics, error) {
	start := time.Now()

	records, err := s.subset(ctx, filter)
	if err != nil {
		s.observe(ctx, "at_risk", 0, start, err)
		return domain.AtRiskMetrics{}, err
	}

	atRisk := churn.AtRisk(records)
	s.observe(ctx, "at_risk", len(records), start, nil)
	return atRisk, nil
}

// GetSummary returns the executive digest for the filtered view. Load
// provenance always describes the full dataset, not the subset.
func (s *AnalyticsService) GetSummary(ctx context.Context, filter domain.FilterState) (domain.ExecutiveSummary, error) {
	start := time.Now()

	records, err := s.subset(ctx, filter)
	if err != nil {
		s.observe(ctx, "summary", 0, start, err)
		return domain.ExecutiveSummary{}, err
	}

	summary := churn.Summary(records, s.dataset.Info())
	s.observe(ctx, "summary", len(records), start, nil)
	return summary, nil
}

// GetFilterOptions returns the observed filter vocabulary. Options always
// come from the full dataset so the widgets keep every choice visible
// while a filter is active.
func (s *AnalyticsService) GetFilterOptions(ctx context.Context) domain.FilterOptions {
	start := time.Now()

	options := churn.Options(s.dataset.Records)
	s.observe(ctx, "filter_options", s.dataset.Len(), start, nil)
	return options
}

// GetDatasetInfo returns the load provenance shown on the dashboard.
func (s *AnalyticsService) GetDatasetInfo(ctx context.Context) domain.DatasetInfo {
	return s.dataset.Info()
}

// BuildExportSnapshot assembles everything an export file carries for the
// filtered view. An empty subset is not an error here: exporting a filter
// that matches nothing produces a valid file with headers and zeroed
// aggregates.
func (s *AnalyticsService) BuildExportSnapshot(ctx context.Context, filter domain.FilterState) exporter.Snapshot {
	start := time.Now()

	filter.Normalize()
	records := churn.Apply(s.dataset.Records, filter)

	snap := exporter.BuildSnapshot(records, s.dataset.Info(), filter)
	s.observe(ctx, "export_snapshot", len(records), start, nil)
	return snap
}

// subset applies the filter to the immutable records. A filter matching
// nothing is reported as ErrNoMatchingRecords so the transport layer can
// degrade to the no-data envelope instead of a hard failure.
func (s *AnalyticsService) subset(ctx context.Context, filter domain.FilterState) ([]domain.CustomerRecord, error) {
	filter.Normalize()
	records := churn.Apply(s.dataset.Records, filter)
	if len(records) == 0 {
		s.logger.DebugContext(ctx, "filter matched no records",
			slog.String("filter", filter.Describe()))
		return nil, fmt.Errorf("%w (%s)", apperrors.ErrNoMatchingRecords, filter.Describe())
	}
	return records, nil
}

// observe records one analytics query against the shared instruments.
func (s *AnalyticsService) observe(ctx context.Context, query string, rows int, start time.Time, err error) {
	infrastructure.RecordAnalyticsQuery(ctx, s.metrics, query, rows, time.Since(start), err)
}

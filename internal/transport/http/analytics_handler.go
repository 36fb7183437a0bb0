package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "churnlens/internal/errors"
	custommw "churnlens/internal/middleware"
	api "churnlens/pkg/contracts/api/v1"
	"churnlens/pkg/contracts/domain"
)

// AnalyticsHandler handles analytics HTTP requests with RFC 7807 compliance
type AnalyticsHandler struct {
	service      AnalyticsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validation   *custommw.ValidationMiddleware
}

// NewAnalyticsHandler creates a new analytics handler with RFC 7807 error handling
func NewAnalyticsHandler(service AnalyticsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
		validation:   custommw.NewValidationMiddleware(logger, errorHandler),
	}
}

// Routes returns the analytics routes with proper Chi patterns
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Use render for consistent JSON responses
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// Resource routes following REST patterns
	r.Get("/overview", h.GetOverview)
	r.Get("/geo", h.GetGeo)
	r.Get("/correlation", h.GetCorrelation)
	r.Get("/correlation/matrix", h.GetCorrelationMatrix)
	r.Get("/reasons", h.GetReasons)
	r.Get("/at-risk", h.GetAtRisk)
	r.Get("/summary", h.GetSummary)
	r.Get("/filters", h.GetFilterOptions)

	// Sub-resource routes
	r.Route("/segments/{key}", func(r chi.Router) {
		r.Use(h.SegmentCtx) // Reject empty segment keys early
		r.Get("/", h.GetSegmentBreakdown)
	})

	return r
}

// SegmentCtx middleware validates the segment key parameter
func (h *AnalyticsHandler) SegmentCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if strings.TrimSpace(key) == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("key", "Segment key is required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetOverview handles GET /api/analytics/overview with RFC 7807 errors
func (h *AnalyticsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	filter, ok := h.filterFromQuery(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "computing overview",
		slog.String("request_id", reqID),
		slog.String("filter", filter.Describe()),
	)

	overview, err := h.service.GetOverview(r.Context(), filter)
	if err != nil {
		h.respondAnalyticsError(w, r, "overview", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   overview,
		"count":  overview.TotalCustomers,
	})
}

// GetSegmentBreakdown handles GET /api/analytics/segments/{key} with RFC 7807 errors
func (h *AnalyticsHandler) GetSegmentBreakdown(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	key := chi.URLParam(r, "key")

	filterReq, ok := h.filterRequestFromQuery(w, r)
	if !ok {
		return
	}
	req := api.SegmentBreakdownRequest{FilterRequest: filterReq, Key: key}

	h.logger.InfoContext(r.Context(), "computing segment breakdown",
		slog.String("request_id", reqID),
		slog.String("key", req.Key),
		slog.String("filter", filterReq.FilterState().Describe()),
	)

	// The key is a path resource: an unknown dimension maps to a 404
	// problem in respondAnalyticsError, not a validation failure.
	table, err := h.service.GetSegmentBreakdown(r.Context(), domain.SegmentKey(req.Key), req.FilterState())
	if err != nil {
		h.respondAnalyticsError(w, r, "segments", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   table,
		"count":  len(table.Rows),
	})
}

// GetGeo handles GET /api/analytics/geo with RFC 7807 errors
func (h *AnalyticsHandler) GetGeo(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	filter, ok := h.filterFromQuery(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "computing geo rollup",
		slog.String("request_id", reqID),
		slog.String("filter", filter.Describe()),
	)

	rollup, err := h.service.GetGeoRollup(r.Context(), filter)
	if err != nil {
		h.respondAnalyticsError(w, r, "geo", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rollup,
		"count":  len(rollup),
	})
}

// GetCorrelation handles GET /api/analytics/correlation?x=&y= with RFC 7807 errors
func (h *AnalyticsHandler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	filterReq, ok := h.filterRequestFromQuery(w, r)
	if !ok {
		return
	}

	req := api.CorrelationRequest{
		FilterRequest: filterReq,
		FieldX:        strings.TrimSpace(r.URL.Query().Get("x")),
		FieldY:        strings.TrimSpace(r.URL.Query().Get("y")),
	}
	if err := h.validation.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "computing correlation",
		slog.String("request_id", reqID),
		slog.String("field_x", req.FieldX),
		slog.String("field_y", req.FieldY),
	)

	result, err := h.service.GetCorrelation(r.Context(), domain.NumericField(req.FieldX), domain.NumericField(req.FieldY), req.FilterState())
	if err != nil {
		h.respondAnalyticsError(w, r, "correlation", err)
		return
	}

	// NaN has no JSON encoding; the payload carries it as null.
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   api.NewCorrelationPayload(result),
		"count":  result.Samples,
	})
}

// GetCorrelationMatrix handles GET /api/analytics/correlation/matrix with RFC 7807 errors
func (h *AnalyticsHandler) GetCorrelationMatrix(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	filterReq, ok := h.filterRequestFromQuery(w, r)
	if !ok {
		return
	}

	req := api.CorrelationMatrixRequest{
		FilterRequest: filterReq,
		Fields:        splitFieldList(r.URL.Query().Get("fields")),
	}
	if err := h.validation.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	fields := make([]domain.NumericField, len(req.Fields))
	for i, f := range req.Fields {
		fields[i] = domain.NumericField(f)
	}

	h.logger.InfoContext(r.Context(), "computing correlation matrix",
		slog.String("request_id", reqID),
		slog.Int("fields", len(fields)),
	)

	matrix, err := h.service.GetCorrelationMatrix(r.Context(), fields, req.FilterState())
	if err != nil {
		h.respondAnalyticsError(w, r, "correlation_matrix", err)
		return
	}

	payload := api.NewCorrelationMatrixPayload(matrix)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   payload,
		"count":  len(payload.Fields),
	})
}

// GetReasons handles GET /api/analytics/reasons with RFC 7807 errors
func (h *AnalyticsHandler) GetReasons(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	filter, ok := h.filterFromQuery(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "counting churn reasons",
		slog.String("request_id", reqID),
		slog.String("filter", filter.Describe()),
	)

	reasons, err := h.service.GetChurnReasons(r.Context(), filter)
	if err != nil {
		h.respondAnalyticsError(w, r, "reasons", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   reasons,
		"count":  len(reasons),
	})
}

// GetAtRisk handles GET /api/analytics/at-risk with RFC 7807 errors
func (h *AnalyticsHandler) GetAtRisk(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	filter, ok := h.filterFromQuery(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "computing at-risk thresholds",
		slog.String("request_id", reqID),
		slog.String("filter", filter.Describe()),
	)

	atRisk, err := h.service.GetAtRisk(r.Context(), filter)
	if err != nil {
		h.respondAnalyticsError(w, r, "at_risk", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   atRisk,
		"count":  atRisk.AtRiskCustomers,
	})
}

// GetSummary handles GET /api/analytics/summary with RFC 7807 errors
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	filter, ok := h.filterFromQuery(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "building executive summary",
		slog.String("request_id", reqID),
		slog.String("filter", filter.Describe()),
	)

	summary, err := h.service.GetSummary(r.Context(), filter)
	if err != nil {
		h.respondAnalyticsError(w, r, "summary", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
		"count":  summary.Overall.TotalCustomers,
	})
}

// GetFilterOptions handles GET /api/analytics/filters with RFC 7807 errors.
// Options always describe the full dataset so widgets keep every choice
// visible while a filter is active; no filter parameters are read here.
func (h *AnalyticsHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "listing filter options",
		slog.String("request_id", reqID),
	)

	options := h.service.GetFilterOptions(r.Context())

	count := len(options.Regions) + len(options.Devices) + len(options.Plans) + len(options.Genders)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   options,
		"count":  count,
	})
}

// GetDatasetInfo handles GET /api/dataset
func (h *AnalyticsHandler) GetDatasetInfo(w http.ResponseWriter, r *http.Request) {
	info := h.service.GetDatasetInfo(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   info,
		"count":  info.Rows,
	})
}

// respondAnalyticsError maps service errors to the wire. An empty subset is
// not a failure: the dashboard gets a 200 no-data envelope and shows its
// empty state. Everything else renders as an RFC 7807 problem.
func (h *AnalyticsHandler) respondAnalyticsError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	reqID := middleware.GetReqID(r.Context())

	if errors.Is(err, apierrors.ErrNoMatchingRecords) {
		h.logger.InfoContext(r.Context(), "filter matched no records",
			slog.String("request_id", reqID),
			slog.String("endpoint", endpoint),
		)
		render.JSON(w, r, map[string]interface{}{
			"status":  "no_data",
			"message": "No records match the active filter. Relax the filter to see results.",
			"data":    nil,
			"count":   0,
		})
		return
	}

	h.logger.ErrorContext(r.Context(), "analytics request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("endpoint", endpoint),
	)

	switch {
	case errors.Is(err, apierrors.ErrUnknownSegment),
		errors.Is(err, apierrors.ErrUnknownField),
		errors.Is(err, apierrors.ErrUnsupportedFormat),
		errors.Is(err, apierrors.ErrDatasetMissing),
		errors.Is(err, apierrors.ErrDatasetEmpty),
		errors.Is(err, apierrors.ErrMalformedDataset):
		render.Render(w, r, apierrors.MapDatasetError(err, reqID))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// filterFromQuery parses and validates the shared filter parameters,
// returning the normalized domain filter. A false return means the error
// response has already been written.
func (h *AnalyticsHandler) filterFromQuery(w http.ResponseWriter, r *http.Request) (domain.FilterState, bool) {
	req, ok := h.filterRequestFromQuery(w, r)
	if !ok {
		return domain.FilterState{}, false
	}
	return req.FilterState(), true
}

// filterRequestFromQuery builds the filter DTO from query parameters and
// runs struct validation on the bounds.
func (h *AnalyticsHandler) filterRequestFromQuery(w http.ResponseWriter, r *http.Request) (api.FilterRequest, bool) {
	return parseFilterRequest(w, r, h.validation, h.errorHandler)
}

package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "churnlens/internal/errors"
	"churnlens/internal/exporter"
	"churnlens/internal/infrastructure"
	custommw "churnlens/internal/middleware"
	api "churnlens/pkg/contracts/api/v1"
)

// ExportHandler streams the filtered view as a downloadable file. The body
// is assembled in memory before any byte reaches the client, so a failed
// export still produces a clean RFC 7807 problem instead of a truncated
// download.
type ExportHandler struct {
	service      AnalyticsServiceInterface
	exporter     *exporter.Exporter
	metrics      *infrastructure.BusinessMetrics
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validation   *custommw.ValidationMiddleware
}

// NewExportHandler creates a new export handler with RFC 7807 error handling
func NewExportHandler(service AnalyticsServiceInterface, exp *exporter.Exporter, metrics *infrastructure.BusinessMetrics, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		exporter:     exp,
		metrics:      metrics,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
		validation:   custommw.NewValidationMiddleware(logger, errorHandler),
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Download)
	return r
}

// Download handles GET /api/export?format=csv|xlsx|json with RFC 7807 errors.
// An empty subset is still a valid export: the file carries headers and
// zeroed aggregates rather than failing.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	start := time.Now()

	filterReq, ok := parseFilterRequest(w, r, h.validation, h.errorHandler)
	if !ok {
		return
	}

	req := api.ExportRequest{
		FilterRequest: filterReq,
		Format:        r.URL.Query().Get("format"),
	}
	if err := h.validation.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format, err := exporter.ParseFormat(req.Format)
	if err != nil {
		render.Render(w, r, apierrors.MapDatasetError(err, reqID))
		return
	}

	filter := req.FilterState()
	h.logger.InfoContext(r.Context(), "exporting filtered view",
		slog.String("request_id", reqID),
		slog.String("format", format.String()),
		slog.String("filter", filter.Describe()),
	)

	snap := h.service.BuildExportSnapshot(r.Context(), filter)

	var buf bytes.Buffer
	err = h.exporter.Export(&buf, format, snap)
	infrastructure.RecordExport(r.Context(), h.metrics, format.String(), int64(buf.Len()), time.Since(start), err)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("format", format.String()),
		)
		h.errorHandler.HandleError(w, r, apierrors.ExportFailedError(format.String(), err))
		return
	}

	filename := fmt.Sprintf("churn_analytics_%s.%s", snap.GeneratedAt.Format("20060102_150405"), format)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		// Headers are gone; nothing left to do but log the broken pipe.
		h.logger.WarnContext(r.Context(), "export download interrupted",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		return
	}

	h.logger.InfoContext(r.Context(), "export complete",
		slog.String("request_id", reqID),
		slog.String("format", format.String()),
		slog.String("filename", filename),
		slog.Int("rows", len(snap.Records)),
		slog.Duration("duration", time.Since(start)),
	)
}

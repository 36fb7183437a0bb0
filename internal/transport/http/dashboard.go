package http

import (
	_ "embed"
	"log/slog"
	"net/http"
	"strconv"
)

// The dashboard ships inside the binary so a single executable serves the
// whole product; there is no web directory to deploy alongside it.
//
//go:embed dashboard.html
var dashboardHTML []byte

// DashboardHandler serves the embedded single-page dashboard.
type DashboardHandler struct {
	logger *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		logger: logger.With(slog.String("handler", "dashboard")),
	}
}

// ServeDashboard handles GET / and returns the dashboard page. Any other
// path falls through to the API's not-found handler.
func (h *DashboardHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(dashboardHTML)))
	w.Header().Set("Cache-Control", "no-cache")

	if _, err := w.Write(dashboardHTML); err != nil {
		h.logger.WarnContext(r.Context(), "dashboard write interrupted",
			slog.String("error", err.Error()))
	}
}

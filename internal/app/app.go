package app

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"churnlens/internal/config"
	"churnlens/internal/errors"
	"churnlens/internal/exporter"
	"churnlens/internal/infrastructure"
	customMiddleware "churnlens/internal/middleware"
	"churnlens/internal/services"
	handlers "churnlens/internal/transport/http"
	"churnlens/pkg/contracts/domain"
)

var (
	// BuildTime is set at compile time via -ldflags
	BuildTime = time.Now().Format(time.RFC3339)
	// BuildID is a unique identifier for this build
	BuildID = generateBuildID()
)

func generateBuildID() string {
	h := sha256.New()
	h.Write([]byte(config.AppVersion))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application is the main application container. It owns the loaded
// dataset, every service built on top of it, and the HTTP server that
// exposes them.
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Dataset       *domain.Dataset
	Analytics     *services.AnalyticsService
	Health        *services.HealthService
	Exporter      *exporter.Exporter
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics

	noBrowser bool
}

// Option customizes application construction.
type Option func(*options)

type options struct {
	port      int
	noBrowser bool
}

// WithPort overrides the configured listen port.
func WithPort(port int) Option {
	return func(o *options) { o.port = port }
}

// WithoutBrowser suppresses opening the dashboard in the local browser
// after startup.
func WithoutBrowser() Option {
	return func(o *options) { o.noBrowser = true }
}

// NewApplication creates a new application instance with dependency
// injection. configFile may be empty (well-known locations are probed);
// datasetPath, when non-empty, overrides the configured dataset location.
func NewApplication(configFile, datasetPath string, opts ...Option) (*Application, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if datasetPath != "" {
		cfg.Dataset.Path = datasetPath
	}
	if o.port > 0 {
		cfg.Server.Port = o.port
	}
	if err := cfg.CheckDataset(); err != nil {
		return nil, err
	}

	// Initialize the single infrastructure logger
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("dataset", cfg.Dataset.Path))

	// Validate and log all paths at startup for debugging
	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution()

	// Initialize OpenTelemetry
	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Observability), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		noBrowser:     o.noBrowser,
	}

	// Initialize services in order
	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Setup router
	app.setupRouter()

	// Create HTTP server
	app.createServer()

	return app, nil
}

// initializeServices loads the dataset and wires all services.
func (a *Application) initializeServices() error {
	metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create business metrics: %w", err)
	}
	a.Metrics = metrics

	// The dataset is loaded once and shared read-only by every request.
	ctx := context.Background()
	dataset, err := services.LoadDataset(ctx, a.Config.Dataset, a.Logger, metrics)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	a.Dataset = dataset

	a.Analytics = services.NewAnalyticsServiceWithMetrics(dataset, a.Logger, metrics)
	a.Exporter = exporter.New(a.Logger)

	collector, err := infrastructure.NewSystemMetricsCollector(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create system metrics collector: %w", err)
	}
	a.Health = services.NewHealthServiceWithBuildInfo(
		config.AppVersion,
		BuildTime,
		BuildID,
		dataset,
		a.Config.ResolvedExportDir(),
		collector,
		a.Logger,
	)

	return nil
}

// setupRouter configures the HTTP router with all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Middleware ordering: RequestID -> RealIP -> OTel -> Logger -> Recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
	} else {
		r.Use(otelMiddleware.Handler)
	}
	r.Use(customMiddleware.BusinessMetricsMiddleware(a.Metrics))

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.DefaultSecureHeaders().Handler)
	r.Use(customMiddleware.CORS(a.getCORSConfig()))

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	a.setupAPIRoutes(r)

	// The dashboard page is embedded in the binary; everything it needs
	// comes from /api.
	dashboardHandler := handlers.NewDashboardHandler(a.Logger)
	r.Get("/", dashboardHandler.ServeDashboard)

	// Prometheus metrics endpoint, outside the JSON content-type group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints.
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := errors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		// Health handler
		healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/health/system", healthHandler.SystemStats)
		r.Get("/version", healthHandler.Version)

		// Analytics handler
		analyticsHandler := handlers.NewAnalyticsHandler(a.Analytics, a.Logger, errorHandler)
		r.Mount("/analytics", analyticsHandler.Routes())
		r.Get("/dataset", analyticsHandler.GetDatasetInfo)

		// Export handler
		exportHandler := handlers.NewExportHandler(a.Analytics, a.Exporter, a.Metrics, a.Logger, errorHandler)
		r.Mount("/export", exportHandler.Routes())
	})
}

// getCORSConfig returns the CORS configuration. Same-origin is always
// allowed; extra origins come from configuration.
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedOrigins: []string{
			fmt.Sprintf("http://localhost:%d", a.Config.Server.Port),
			fmt.Sprintf("http://127.0.0.1:%d", a.Config.Server.Port),
		},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: false,
		MaxAge:           300,
		Logger:           a.Logger,
	}

	if a.Config.Security.EnableCORS && len(a.Config.Security.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, a.Config.Security.AllowedOrigins...)
	}

	return cfg
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.ListenAddr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server and, once it answers health checks,
// opens the dashboard in the default browser.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("addr", a.Config.ListenAddr()),
		slog.Int("customers", a.Dataset.Len()),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			// Signal shutdown through context instead of os.Exit
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	url := fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)
	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", url))

	if !a.noBrowser {
		go a.openBrowserWhenReady(ctx, url)
	}

	return nil
}

// openBrowserWhenReady polls the health endpoint until the server
// answers, then opens the dashboard.
func (a *Application) openBrowserWhenReady(ctx context.Context, url string) {
	healthURL := url + config.HealthEndpoint

	const maxRetries = 10
	for i := 0; i < maxRetries; i++ {
		select {
		case <-ctx.Done():
			a.Logger.InfoContext(ctx, "Browser opening cancelled - application shutting down")
			return
		default:
		}

		resp, err := http.Get(healthURL)
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			if err := openBrowser(url); err != nil {
				a.Logger.WarnContext(ctx, "Failed to open browser",
					slog.String("error", err.Error()),
					slog.String("url", url))
				fmt.Printf("\n========================================\n")
				fmt.Printf("%s is running!\n", config.AppName)
				fmt.Printf("Open your browser and navigate to:\n")
				fmt.Printf("  %s\n", url)
				fmt.Printf("========================================\n\n")
			}
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}

	a.Logger.ErrorContext(ctx, "Server did not become ready for browser opening",
		slog.String("url", url),
		slog.Int("max_retries", maxRetries))
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	// Graceful shutdown
	return a.Stop(context.Background())
}

// performStartupHealthCheck verifies critical directories are writable.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	var warnings []string

	directories := map[string]string{
		"Exports": a.Config.ResolvedExportDir(),
		"Logs":    a.Paths.LogsDir,
	}

	for name, dir := range directories {
		testFile := filepath.Join(dir, ".write_test")
		if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s directory not writable: %s", name, dir))
		} else {
			os.Remove(testFile)
		}
	}

	if !config.FileExists(a.Config.Dataset.Path) {
		warnings = append(warnings, fmt.Sprintf("dataset file missing: %s", a.Config.Dataset.Path))
	}

	if len(warnings) > 0 {
		return fmt.Errorf("startup health check warnings: %s", strings.Join(warnings, "; "))
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}

// openBrowser opens the default browser to the specified URL with retry logic.
func openBrowser(url string) error {
	var lastErr error

	methods := getBrowserOpenMethods(url)

	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		for _, method := range methods {
			cmd := exec.Command(method.cmd, method.args...)
			if err := cmd.Start(); err != nil {
				lastErr = err
				continue
			}

			// Give the browser a moment to start
			time.Sleep(500 * time.Millisecond)
			return nil
		}
	}

	return fmt.Errorf("failed to open browser after all attempts: %w", lastErr)
}

// browserMethod represents a method to open the browser
type browserMethod struct {
	name string
	cmd  string
	args []string
}

// getBrowserOpenMethods returns platform-specific browser opening methods
func getBrowserOpenMethods(url string) []browserMethod {
	switch runtime.GOOS {
	case "windows":
		return []browserMethod{
			{name: "start_command", cmd: "cmd", args: []string{"/c", "start", "", url}},
			{name: "rundll32", cmd: "rundll32", args: []string{"url.dll,FileProtocolHandler", url}},
		}
	case "darwin":
		return []browserMethod{
			{name: "open", cmd: "open", args: []string{url}},
		}
	default: // Linux and others
		return []browserMethod{
			{name: "xdg-open", cmd: "xdg-open", args: []string{url}},
			{name: "sensible-browser", cmd: "sensible-browser", args: []string{url}},
		}
	}
}

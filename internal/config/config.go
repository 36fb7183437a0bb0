package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config holds the complete runtime configuration for the application.
type Config struct {
	Server        ServerConfig        `yaml:"server" envconfig:"SERVER"`
	Dataset       DatasetConfig       `yaml:"dataset" envconfig:"DATASET"`
	Export        ExportConfig        `yaml:"export" envconfig:"EXPORT"`
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Security      SecurityConfig      `yaml:"security" envconfig:"SECURITY"`
	Observability ObservabilityConfig `yaml:"observability" envconfig:"OBSERVABILITY"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"min=1"`
}

// DatasetConfig points the application at the customer dataset.
type DatasetConfig struct {
	// Path is the CSV file holding the customer records. It is the one
	// setting without a usable default; see CheckDataset.
	Path string `yaml:"path" envconfig:"PATH"`
	// Strict makes the loader fail on the first malformed row instead
	// of dropping it.
	Strict bool `yaml:"strict" envconfig:"STRICT"`
}

// ExportConfig controls where generated export files are written.
type ExportConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" validate:"required"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// SecurityConfig contains CORS and rate limiting configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains request rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// ObservabilityConfig toggles metrics and tracing.
type ObservabilityConfig struct {
	ServiceName      string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	MetricsEnabled   bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
	TracingEnabled   bool    `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	TraceSampleRatio float64 `yaml:"trace_sample_ratio" envconfig:"TRACE_SAMPLE_RATIO" validate:"min=0,max=1"`
}

// Load builds the runtime configuration. Precedence from lowest to
// highest: built-in defaults, the YAML config file, CHURN_* environment
// variables. configFile may be empty, in which case well-known
// locations are probed and a missing file is not an error.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := loadFromFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration with default values. It is the
// single source of defaults; the file and environment layers only
// override what they set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            DefaultServerPort,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
		},
		Dataset: DatasetConfig{
			Path:   "",
			Strict: false,
		},
		Export: ExportConfig{
			Dir: DefaultExportsDir,
		},
		Logging: LoggingConfig{
			Level:       DefaultLogLevel,
			Format:      DefaultLogFormat,
			Output:      LogOutputBoth,
			FilePath:    filepath.Join(DefaultLogsDir, DefaultLogFile),
			Development: false,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimitRPS,
				Burst:   DefaultRateLimitBurst,
			},
		},
		Observability: ObservabilityConfig{
			ServiceName:      AppID,
			MetricsEnabled:   true,
			TracingEnabled:   false,
			TraceSampleRatio: 1.0,
		},
	}
}

// loadFromFile overlays the YAML file at path onto cfg. Keys absent
// from the file keep their current values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	return nil
}

// findConfigFile probes well-known locations for a config file and
// returns the first match, or an empty string.
func findConfigFile() string {
	candidates := []string{
		DefaultConfigFile,
		filepath.Join("configs", DefaultConfigFile),
	}
	if paths, err := GetPaths(); err == nil {
		candidates = append(candidates, filepath.Join(paths.ExecutableDir, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if FileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// validate checks the assembled configuration for values that would
// break the server at runtime.
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%s failed %q validation", strings.ToLower(first.Namespace()), first.Tag())
		}
		return err
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("security.allowed_origins must list at least one origin when CORS is enabled")
	}
	if c.Security.RateLimit.Enabled {
		if c.Security.RateLimit.RPS <= 0 {
			return fmt.Errorf("security.rate_limit.rps must be positive")
		}
		if c.Security.RateLimit.Burst < 1 {
			return fmt.Errorf("security.rate_limit.burst must be at least 1")
		}
	}
	if c.Logging.Output != LogOutputConsole && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required when logging to a file")
	}

	return nil
}

// CheckDataset verifies that a dataset path has been configured. The
// file itself is validated when the loader opens it.
func (c *Config) CheckDataset() error {
	if strings.TrimSpace(c.Dataset.Path) == "" {
		return fmt.Errorf("dataset path not configured: set dataset.path in %s, %s_DATASET_PATH, or the -dataset flag", DefaultConfigFile, EnvPrefix)
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds to. An empty
// host binds all interfaces.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ResolvedExportDir returns the export directory as an absolute path.
// Relative directories are anchored to the executable so exports stay
// next to the binary regardless of the working directory.
func (c *Config) ResolvedExportDir() string {
	if filepath.IsAbs(c.Export.Dir) {
		return c.Export.Dir
	}
	paths, err := GetPaths()
	if err != nil {
		return c.Export.Dir
	}
	return filepath.Join(paths.ExecutableDir, c.Export.Dir)
}

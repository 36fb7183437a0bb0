package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains the file system locations the application manages.
// Directories are resolved relative to the executable, never the
// current working directory, so the binary, its exports and its logs
// travel together as one folder.
type Paths struct {
	ExecutableDir string
	ExportsDir    string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable
// location.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	exeDir := filepath.Dir(exe)
	return &Paths{
		ExecutableDir: exeDir,
		ExportsDir:    filepath.Join(exeDir, DefaultExportsDir),
		LogsDir:       filepath.Join(exeDir, DefaultLogsDir),
	}, nil
}

// EnsureDirectories creates the managed directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.ExportsDir,
		p.LogsDir,
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}

	return nil
}

// GetExportPath returns the path for a named export file.
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetLogPath returns the path for a log file.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetRelativePath returns a path relative to the executable directory.
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// ExportFileName builds a timestamped export file name, e.g.
// churn_export_20250601_153000.csv.
func ExportFileName(format string, t time.Time) string {
	return fmt.Sprintf("churn_export_%s.%s", t.Format("20060102_150405"), format)
}

// LogPathResolution logs the resolved paths for debugging.
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("exports", p.ExportsDir),
			slog.String("logs", p.LogsDir),
		))
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

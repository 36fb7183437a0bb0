// Package validation performs pre-flight checks on dataset and export
// paths before the loader or exporter touches them, so path mistakes
// surface as one clear error instead of a parse failure halfway in.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "churnlens/internal/errors"
)

// datasetExtensions lists the file extensions the loader understands.
var datasetExtensions = map[string]bool{
	".csv": true,
}

// DatasetFileValidator checks dataset files and export directories.
type DatasetFileValidator struct {
	logger *slog.Logger
}

// NewDatasetFileValidator creates a validator. A nil logger falls back
// to slog.Default.
func NewDatasetFileValidator(logger *slog.Logger) *DatasetFileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetFileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateDatasetFile checks that path names a readable, non-empty file
// with a dataset extension the loader accepts.
func (v *DatasetFileValidator) ValidateDatasetFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Dataset file does not exist",
			slog.String("file", path))
		return fmt.Errorf("%w: %s", apperrors.ErrDatasetMissing, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat dataset file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Dataset path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%w: %s is a directory, not a file", apperrors.ErrMalformedDataset, path)
	}
	if info.Size() == 0 {
		v.logger.Error("Dataset file is empty",
			slog.String("file", path))
		return fmt.Errorf("%w: %s is empty", apperrors.ErrDatasetEmpty, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !datasetExtensions[ext] {
		v.logger.Error("Dataset file has an unsupported extension",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("%w: unsupported extension %q (expected .csv)", apperrors.ErrMalformedDataset, ext)
	}

	// Spreadsheet applications leave ~$ lock files next to open documents.
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("%w: %s is a temporary lock file", apperrors.ErrMalformedDataset, path)
	}

	// Check the file is actually readable, not just present.
	f, err := os.Open(path)
	if err != nil {
		v.logger.Error("Dataset file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("dataset file %s is not readable: %w", path, err)
	}
	f.Close()

	v.logger.Debug("Dataset file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExportDir ensures the export directory exists (creating it if
// needed) and is writable.
func (v *DatasetFileValidator) ValidateExportDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create export directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	f, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Export directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("export directory %s is not writable: %w", dir, err)
	}
	f.Close()
	os.Remove(testFile)

	return nil
}

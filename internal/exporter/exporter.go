package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	apperrors "churnlens/internal/errors"
)

// Exporter serializes analysis snapshots into downloadable files. It is
// stateless apart from its logger and safe for concurrent use.
type Exporter struct {
	logger *slog.Logger
}

// New creates an exporter. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		logger: logger.With(slog.String("component", "exporter")),
	}
}

// Export writes the snapshot to w in the requested format. Unsupported
// formats return an error wrapping ErrUnsupportedFormat.
func (e *Exporter) Export(w io.Writer, format Format, snap Snapshot) error {
	start := time.Now()

	var err error
	switch format {
	case FormatCSV:
		err = writeRecordsCSV(w, snap.Records, true)
	case FormatXLSX:
		err = writeWorkbook(w, snap)
	case FormatJSON:
		err = writeSnapshotJSON(w, snap)
	default:
		return fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	e.logger.Debug("snapshot exported",
		slog.String("format", string(format)),
		slog.Int("records", len(snap.Records)),
		slog.Int("tables", len(snap.Tables)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// ExportFile writes the snapshot to the named file, creating parent
// directories as needed. The file is removed again when serialization
// fails partway, so a failed export never leaves a truncated artifact.
func (e *Exporter) ExportFile(path string, format Format, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := e.Export(f, format, snap); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	e.logger.Info("export file written",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("records", len(snap.Records)))
	return nil
}

// writeSnapshotJSON writes the whole snapshot as indented JSON.
func writeSnapshotJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

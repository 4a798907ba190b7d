package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bikeshare/internal/config"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/views"
	"bikeshare/pkg/contracts/domain"
)

// Exporter writes a full dashboard to disk
type Exporter struct {
	csv    *CSVWriter
	paths  *config.Paths
	logger *slog.Logger
}

// NewExporter creates an exporter writing under paths.ExportDir by default
func NewExporter(paths *config.Paths, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		csv:    NewCSVWriter(paths, logger),
		paths:  paths,
		logger: logger,
	}
}

// ExportAll writes every view as <name>.csv and the workbook as
// config.DefaultWorkbookName into dir. An empty dir means the export directory.
// It returns the written file paths.
func (e *Exporter) ExportAll(ctx context.Context, dir string, v *domain.Views, k domain.KPIs) ([]string, error) {
	if dir == "" && e.paths != nil {
		dir = e.paths.ExportDir
	}
	if dir == "" {
		return nil, apierrors.NewConfigError("no export directory configured", nil)
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve export directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apierrors.NewStorageError("failed to create export directory", err).WithContext("dir", dir)
	}

	files := make([]string, 0, len(domain.ViewNames)+1)
	for _, table := range views.Tables(v) {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		path := filepath.Join(dir, table.Name+".csv")
		if err := e.csv.WriteCSV(path, WriteOptions{
			Headers:   table.Columns,
			Records:   formatRecords(table.Rows),
			BOMPrefix: true,
		}); err != nil {
			return files, fmt.Errorf("failed to export %s: %w", table.Name, err)
		}
		files = append(files, path)
	}

	path := filepath.Join(dir, config.DefaultWorkbookName)
	f, err := os.Create(path)
	if err != nil {
		return files, apierrors.NewStorageError("failed to create workbook", err).WithContext("path", path)
	}
	if err := WriteWorkbook(f, v, k); err != nil {
		f.Close()
		return files, err
	}
	if err := f.Close(); err != nil {
		return files, fmt.Errorf("failed to close workbook: %w", err)
	}
	files = append(files, path)

	e.logger.Info("Dashboard exported",
		slog.String("dir", dir),
		slog.Int("files", len(files)))
	return files, nil
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the resolved absolute locations the dashboard reads and writes
type Paths struct {
	WorkingDir string
	Dataset    string
	DatasetDir string
	ExportDir  string
	LogsDir    string
	LogFile    string
}

// ResolvePaths turns the configured, possibly relative, paths into absolute ones.
// Relative paths are resolved against the current working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(wd, p)
	}

	dataset := abs(c.Dataset.Path)
	return &Paths{
		WorkingDir: wd,
		Dataset:    dataset,
		DatasetDir: filepath.Dir(dataset),
		ExportDir:  abs(c.Paths.ExportDir),
		LogsDir:    abs(c.Paths.LogsDir),
		LogFile:    abs(c.Logging.FilePath),
	}, nil
}

// EnsureDirectories creates the directories the dashboard writes into
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ExportDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetExportPath returns the path for a file inside the export directory
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LogPathResolution logs resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved paths",
		slog.String("working_dir", p.WorkingDir),
		slog.String("dataset", p.Dataset),
		slog.Bool("dataset_exists", FileExists(p.Dataset)),
		slog.String("export_dir", p.ExportDir),
		slog.String("logs_dir", p.LogsDir))
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/danieljhkim/projdash/internal/config"
	"github.com/danieljhkim/projdash/internal/engine"
	"github.com/danieljhkim/projdash/internal/logger"
)

// newEngine creates a new engine over the default data root, with the global
// logger writing to the log file at the configured level.
func newEngine() (*engine.Engine, error) {
	// Get default paths
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	// Ensure directories exist
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	level := logger.ParseLevel(config.DefaultLogLevel)
	if settings, err := config.LoadSettings(paths.Config); err == nil {
		level = logger.ParseLevel(settings.LogLevel)
	}
	if err := logger.Init(level, paths.Log); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return engine.Open(paths, logger.Global())
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

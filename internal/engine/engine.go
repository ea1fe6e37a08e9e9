// Package engine provides the operations behind the projdash CLI.
//
// The engine package acts as the orchestration layer between CLI commands and
// the recent-tracking core. It selects the state backend from the settings,
// reads the editor session file and runs the change watcher.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - ListRecents/Remove/Reset: Query and edit the shared recent list
//   - Refresh: One-shot refresh from the session file
//   - Watch: Debounced refreshes plus polling for other processes' writes
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/danieljhkim/projdash/internal/clock"
	"github.com/danieljhkim/projdash/internal/config"
	"github.com/danieljhkim/projdash/internal/fsops"
	"github.com/danieljhkim/projdash/internal/host"
	"github.com/danieljhkim/projdash/internal/logger"
	"github.com/danieljhkim/projdash/internal/recent"
	"github.com/danieljhkim/projdash/internal/state"
)

// Engine orchestrates all projdash operations.
// It is the main API surface called by the CLI.
type Engine struct {
	store    state.Store
	fs       fsops.FS
	session  *host.Session
	settings recent.Settings
	clock    clock.Clock
	timings  recent.WatcherConfig
	log      *logger.Logger
	manager  *recent.Manager
}

// New creates a new Engine with the given dependencies.
func New(
	store state.Store,
	fs fsops.FS,
	session *host.Session,
	settings recent.Settings,
	clk clock.Clock,
	timings recent.WatcherConfig,
	log *logger.Logger,
) *Engine {
	// Several editor windows may share one log file.
	log = logger.OrGlobal(log).WithPrefix(instanceID())

	return &Engine{
		store:    store,
		fs:       fs,
		session:  session,
		settings: settings,
		clock:    clk,
		timings:  timings,
		log:      log,
		manager:  recent.NewManager(store, fs, session, session, settings, log),
	}
}

// Open creates an Engine backed by the real filesystem under paths, using
// the store backend and timings from the settings file.
func Open(paths *config.Paths, log *logger.Logger) (*Engine, error) {
	log = logger.OrGlobal(log)

	settings, err := config.LoadSettings(paths.Config)
	if err != nil {
		// Refresh still sees the error through the settings source and
		// records nothing.
		log.Warn("using default settings: %v", err)
		settings = config.DefaultSettings()
	}

	fs := fsops.NewRealFS()
	store, err := NewStore(settings.StoreBackend, fs, paths)
	if err != nil {
		return nil, err
	}

	return New(
		store,
		fs,
		host.NewSession(fs, paths.Session, log),
		config.NewFileSource(paths.Config),
		&clock.RealClock{},
		recent.WatcherConfig{
			Debounce:     settings.Debounce,
			PollInterval: settings.PollInterval,
		},
		log,
	), nil
}

// NewStore returns the state store named by backend.
func NewStore(backend string, fs fsops.FS, paths *config.Paths) (state.Store, error) {
	switch backend {
	case config.BackendFile, "":
		return state.NewFileStore(fs, paths.State), nil
	case config.BackendBolt:
		return state.NewBoltStore(paths.Bolt, state.DefaultBoltTimeout), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Close releases the state store.
func (e *Engine) Close() error {
	if err := e.store.Close(); err != nil {
		return fmt.Errorf("failed to close state store: %w", err)
	}
	return nil
}

func instanceID() string {
	return uuid.NewString()[:8]
}

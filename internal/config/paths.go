// Package config manages projdash configuration and filesystem paths.
//
// All projdash data lives under one root directory, ~/.projdash/ by default,
// which can be moved with the PROJDASH_ROOT environment variable. The root
// holds the state store, the YAML settings file, the session file written by
// the editor integration and the log file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv overrides the data root directory.
const RootEnv = "PROJDASH_ROOT"

// Paths contains all the filesystem paths used by projdash.
type Paths struct {
	// Root is the base directory for all projdash data (default: ~/.projdash)
	Root string

	// State is the directory used by the file state backend
	State string

	// Bolt is the database file used by the bolt state backend
	Bolt string

	// Config is the path to the settings file
	Config string

	// Session is the session file written by the editor integration
	Session string

	// Log is the log file
	Log string
}

// DefaultPaths returns the default paths for projdash.
// Paths can be overridden with environment variables:
// - PROJDASH_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnv)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".projdash")
	}
	return PathsFor(root), nil
}

// PathsFor returns the layout rooted at root.
func PathsFor(root string) *Paths {
	return &Paths{
		Root:    root,
		State:   filepath.Join(root, "state"),
		Bolt:    filepath.Join(root, "projdash.db"),
		Config:  filepath.Join(root, "config.yaml"),
		Session: filepath.Join(root, "session.json"),
		Log:     filepath.Join(root, "logs", "projdash.log"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.State,
		filepath.Dir(p.Log),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

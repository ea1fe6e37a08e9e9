package engine

import (
	"github.com/danieljhkim/projdash/internal/fsops"
)

// RecentItem is a recent entry annotated for display.
type RecentItem struct {
	// Path is the absolute path of the entry
	Path string `json:"path"`

	// Name is the display name
	Name string `json:"name"`

	// Kind is folder, file, workspace or missing, computed at listing time
	Kind fsops.PathType `json:"kind"`
}

// ListResult represents the current recent list.
type ListResult struct {
	// Recents is ordered most recently added first
	Recents []RecentItem `json:"recents"`

	// Fingerprint is the stored fingerprint (nil when the list is empty)
	Fingerprint *uint32 `json:"fingerprint,omitempty"`
}

// RemoveRequest represents a request to remove an entry.
type RemoveRequest struct {
	// Path is the path to remove. Relative paths are resolved against CWD.
	Path string

	// CWD is the current working directory
	CWD string
}

// RemoveResult represents the result of removing an entry.
type RemoveResult struct {
	// Path is the resolved path that was looked up
	Path string `json:"path"`

	// Removed is false when the path was not tracked
	Removed bool `json:"removed"`
}

// ResetResult represents the result of clearing the list.
type ResetResult struct {
	// Cleared is the number of entries that were removed
	Cleared int `json:"cleared"`
}

// RefreshRequest represents a one-shot refresh from the session file.
type RefreshRequest struct {
	// FilesOnly skips workspace folders
	FilesOnly bool
}

// RefreshResult represents the result of a refresh.
type RefreshResult struct {
	// Enabled is false when showRecentGroup is off or unreadable
	Enabled bool `json:"enabled"`

	// Added lists the entries the refresh recorded
	Added []RecentItem `json:"added"`
}

// FingerprintResult represents the stored fingerprint.
type FingerprintResult struct {
	// Fingerprint is the stored value; nil when the list is empty
	Fingerprint *uint32 `json:"fingerprint"`

	// Entries is the length of the stored list
	Entries int `json:"entries"`
}

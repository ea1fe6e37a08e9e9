package recent

import (
	"path/filepath"

	"github.com/danieljhkim/projdash/internal/hash"
)

// StateKey is the store key the recent list is persisted under.
const StateKey = "recentList"

// Entry is one recently opened folder, file or workspace.
type Entry struct {
	// Path is the absolute path and the identity of the entry.
	Path string `json:"path"`

	// Name is the label shown on the dashboard.
	Name string `json:"name"`
}

// NewEntry creates an Entry, defaulting the name to the last path component.
func NewEntry(path, name string) Entry {
	if name == "" {
		name = filepath.Base(path)
	}
	return Entry{Path: path, Name: name}
}

// State is the persisted form of the recent list.
type State struct {
	// Fingerprint is Fingerprint(Recents); nil when Recents is empty.
	Fingerprint *uint32 `json:"fingerprint,omitempty"`

	// Recents is ordered most recently added first.
	Recents []Entry `json:"recents"`
}

// NewState builds a State for entries with its fingerprint filled in.
func NewState(entries []Entry) *State {
	if entries == nil {
		entries = []Entry{}
	}
	st := &State{Recents: entries}
	if sum, ok := Fingerprint(entries); ok {
		st.Fingerprint = &sum
	}
	return st
}

// Sum returns the stored fingerprint and whether one is present.
func (s *State) Sum() (uint32, bool) {
	if s.Fingerprint == nil {
		return 0, false
	}
	return *s.Fingerprint, true
}

// Fingerprint computes the order-sensitive fingerprint of entries. Only paths
// and positions contribute; names do not. The boolean is false for an empty
// list.
func Fingerprint(entries []Entry) (uint32, bool) {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return hash.Ordered(paths)
}

func indexOf(entries []Entry, match func(Entry) bool) int {
	for i, e := range entries {
		if match(e) {
			return i
		}
	}
	return -1
}

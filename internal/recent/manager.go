// Package recent tracks the list of recently opened folders, files and
// workspaces shared by every running editor window.
//
// Manager owns the persisted list: it records paths reported by the host,
// removes and resets entries, and notifies listeners of changes. Watcher
// debounces the host's workspace signals into refreshes and polls the shared
// store to notice writes made by other processes.
//
// The list is read through on every query; nothing is cached in memory. This
// costs one store read per query but means a process never serves a list it
// knows to be stale.
package recent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/danieljhkim/projdash/internal/event"
	"github.com/danieljhkim/projdash/internal/host"
	"github.com/danieljhkim/projdash/internal/logger"
	"github.com/danieljhkim/projdash/internal/state"
)

// PathChecker reports whether a path exists.
type PathChecker interface {
	Exists(path string) (bool, error)
}

// ExternalFileSource lists open files that lie outside every workspace folder.
type ExternalFileSource interface {
	ExternalFiles() ([]string, error)
}

// FolderSource lists the open workspace folders.
type FolderSource interface {
	Folders() ([]host.Folder, error)
}

// Settings exposes the feature flag that turns recent tracking on.
type Settings interface {
	ShowRecentGroup() (bool, error)
}

// Manager maintains the persisted recent list.
type Manager struct {
	store    state.Store
	paths    PathChecker
	files    ExternalFileSource
	folders  FolderSource
	settings Settings
	log      *logger.Logger

	// mu serialises read-modify-write cycles within this process.
	mu      sync.Mutex
	changed event.Registry

	// written is the fingerprint of this manager's latest write, kept until
	// a watcher observes it in the store.
	writtenMu sync.Mutex
	written   localWrite
}

type localWrite struct {
	sum uint32
	ok  bool
	set bool
}

// NewManager creates a Manager with the given dependencies.
func NewManager(
	store state.Store,
	paths PathChecker,
	files ExternalFileSource,
	folders FolderSource,
	settings Settings,
	log *logger.Logger,
) *Manager {
	return &Manager{
		store:    store,
		paths:    paths,
		files:    files,
		folders:  folders,
		settings: settings,
		log:      logger.OrGlobal(log).WithPrefix("recent"),
	}
}

// Recents returns the current list, most recently added first. It never
// fails: an absent or unreadable list is returned as empty.
func (m *Manager) Recents(ctx context.Context) []Entry {
	st, err := m.load(ctx)
	if err != nil {
		m.log.Warn("%v, using empty list", err)
		return []Entry{}
	}
	return st.Recents
}

// Fingerprint returns the fingerprint currently persisted in the store. An
// unreadable list has none.
func (m *Manager) Fingerprint(ctx context.Context) (uint32, bool) {
	sum, ok, err := m.storedSum(ctx)
	if err != nil {
		m.log.Warn("%v", err)
	}
	return sum, ok
}

func (m *Manager) storedSum(ctx context.Context) (uint32, bool, error) {
	st, err := m.load(ctx)
	if err != nil {
		return 0, false, err
	}
	sum, ok := st.Sum()
	return sum, ok, nil
}

// OnChanged registers fn to be called after every change to the list,
// whether made by this process or detected in another one.
func (m *Manager) OnChanged(fn func()) *event.Subscription {
	return m.changed.Subscribe(fn)
}

func (m *Manager) notify() {
	m.changed.Emit()
}

// load reads the persisted state. Missing and malformed state read as the
// empty list. A failed read is an error, so that no caller writes back a list
// it could not see.
func (m *Manager) load(ctx context.Context) (*State, error) {
	data, err := m.store.Get(ctx, StateKey)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return NewState(nil), nil
		}
		return nil, fmt.Errorf("failed to read recent list: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		m.log.Warn("recent list is malformed, using empty list: %v", err)
		return NewState(nil), nil
	}
	if st.Recents == nil {
		st.Recents = []Entry{}
	}
	return &st, nil
}

func (m *Manager) save(ctx context.Context, entries []Entry) error {
	st := NewState(entries)
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal recent list: %w", err)
	}

	// Marked before the write lands so a poll running meanwhile sees it.
	sum, ok := st.Sum()
	m.writtenMu.Lock()
	prev := m.written
	m.written = localWrite{sum: sum, ok: ok, set: true}
	m.writtenMu.Unlock()

	if err := m.store.Set(ctx, StateKey, data); err != nil {
		m.writtenMu.Lock()
		m.written = prev
		m.writtenMu.Unlock()
		return fmt.Errorf("failed to save recent list: %w", err)
	}
	return nil
}

// wroteLocally reports whether sum is the fingerprint of this manager's
// latest write that no watcher has observed yet.
func (m *Manager) wroteLocally(sum uint32, ok bool) bool {
	m.writtenMu.Lock()
	defer m.writtenMu.Unlock()
	return m.written == localWrite{sum: sum, ok: ok, set: true}
}

// observedLocally forgets the latest write once sum shows it in the store.
func (m *Manager) observedLocally(sum uint32, ok bool) {
	m.writtenMu.Lock()
	defer m.writtenMu.Unlock()
	if m.written == (localWrite{sum: sum, ok: ok, set: true}) {
		m.written = localWrite{}
	}
}

// add records path unless it is already tracked or does not exist. A tracked
// path keeps its position. It reports whether the list changed.
func (m *Manager) add(ctx context.Context, path, name string) bool {
	entry := NewEntry(path, name)

	m.mu.Lock()
	added := m.addLocked(ctx, entry)
	m.mu.Unlock()

	if added {
		m.notify()
	}
	return added
}

func (m *Manager) addLocked(ctx context.Context, entry Entry) bool {
	st, err := m.load(ctx)
	if err != nil {
		m.log.Error("not recording %s: %v", entry.Path, err)
		return false
	}
	recents := st.Recents
	if indexOf(recents, func(e Entry) bool { return e.Path == entry.Path }) >= 0 {
		return false
	}

	exists, err := m.paths.Exists(entry.Path)
	if err != nil {
		m.log.Debug("cannot check %s, skipping: %v", entry.Path, err)
		return false
	}
	if !exists {
		return false
	}

	next := make([]Entry, 0, len(recents)+1)
	next = append(next, entry)
	next = append(next, recents...)
	if err := m.save(ctx, next); err != nil {
		m.log.Error("failed to record %s: %v", entry.Path, err)
		return false
	}
	m.log.Debug("recorded %s", entry.Path)
	return true
}

// Remove deletes the entry whose path matches path, ignoring surrounding
// whitespace on either side. Removing an untracked path does nothing.
func (m *Manager) Remove(ctx context.Context, path string) error {
	want := strings.TrimSpace(path)

	m.mu.Lock()
	st, err := m.load(ctx)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	recents := st.Recents
	i := indexOf(recents, func(e Entry) bool { return strings.TrimSpace(e.Path) == want })
	if i < 0 {
		m.mu.Unlock()
		return nil
	}
	next := append(recents[:i:i], recents[i+1:]...)
	err = m.save(ctx, next)
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.notify()
	return nil
}

// Reset empties the list. Listeners are notified even if it was already
// empty.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	err := m.save(ctx, nil)
	m.mu.Unlock()

	if err != nil {
		return err
	}
	m.notify()
	return nil
}

// Refresh records the external files open in the editor and, when
// includeFoldersAndGroups is set, the open workspace folders. It does nothing
// when recent tracking is disabled or the setting cannot be read.
func (m *Manager) Refresh(ctx context.Context, includeFoldersAndGroups bool) {
	enabled, err := m.settings.ShowRecentGroup()
	if err != nil {
		m.log.Warn("cannot read showRecentGroup, skipping refresh: %v", err)
		return
	}
	if !enabled {
		return
	}

	files, err := m.files.ExternalFiles()
	if err != nil {
		m.log.Debug("cannot list external files: %v", err)
		files = nil
	}
	for _, f := range files {
		m.add(ctx, f, "")
	}

	if !includeFoldersAndGroups {
		return
	}

	folders, err := m.folders.Folders()
	if err != nil {
		m.log.Debug("cannot list workspace folders: %v", err)
		return
	}
	for _, f := range folders {
		m.add(ctx, f.Path, f.Name)
	}
}

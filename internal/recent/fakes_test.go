package recent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danieljhkim/projdash/internal/clock"
	"github.com/danieljhkim/projdash/internal/config"
	"github.com/danieljhkim/projdash/internal/event"
	"github.com/danieljhkim/projdash/internal/fsops"
	"github.com/danieljhkim/projdash/internal/host"
	"github.com/danieljhkim/projdash/internal/logger"
	"github.com/danieljhkim/projdash/internal/state"
)

// --- Collaborator fakes ---

type fakeFiles struct {
	files []string
	err   error
	calls int
}

func (f *fakeFiles) ExternalFiles() ([]string, error) {
	f.calls++
	return f.files, f.err
}

type fakeFolders struct {
	folders []host.Folder
	err     error
	calls   int

	// hook, if set, runs on every call before returning.
	hook func()
}

func (f *fakeFolders) Folders() ([]host.Folder, error) {
	f.calls++
	if f.hook != nil {
		f.hook()
	}
	return f.folders, f.err
}

type fakeSignals struct {
	folders event.Registry
	editors event.Registry
}

func (s *fakeSignals) OnFoldersChanged(fn func()) *event.Subscription {
	return s.folders.Subscribe(fn)
}

func (s *fakeSignals) OnVisibleEditorsChanged(fn func()) *event.Subscription {
	return s.editors.Subscribe(fn)
}

// countingStore records reads so tests can assert that nothing touched the
// store. failNext makes the next read fail; afterSet runs once a write has
// been stored.
type countingStore struct {
	*state.MemStore
	gets     int
	failNext error
	afterSet func()
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.gets++
	if err := s.failNext; err != nil {
		s.failNext = nil
		return nil, err
	}
	return s.MemStore.Get(ctx, key)
}

func (s *countingStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.MemStore.Set(ctx, key, value); err != nil {
		return err
	}
	if s.afterSet != nil {
		s.afterSet()
	}
	return nil
}

// failingStore fails every write.
type failingStore struct {
	*state.MemStore
}

var (
	errDiskFull   = errors.New("disk full")
	errPermission = errors.New("permission denied")
)

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errDiskFull
}

// --- Fixture ---

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	store    *countingStore
	fs       *fsops.FakeFS
	files    *fakeFiles
	folders  *fakeFolders
	settings *config.Static
	signals  *fakeSignals
	clock    *clock.FakeClock
	manager  *Manager
	changes  int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    &countingStore{MemStore: state.NewMemStore()},
		fs:       fsops.NewFakeFS(),
		files:    &fakeFiles{},
		folders:  &fakeFolders{},
		settings: &config.Static{Enabled: true},
		signals:  &fakeSignals{},
		clock:    clock.NewFakeClock(epoch),
	}
	f.manager = NewManager(f.store, f.fs, f.files, f.folders, f.settings, logger.Discard())
	f.manager.OnChanged(func() { f.changes++ })
	return f
}

// peer returns a second manager sharing the fixture's store, standing in for
// another editor window.
func (f *fixture) peer() *Manager {
	return NewManager(f.store.MemStore, f.fs, &fakeFiles{}, &fakeFolders{}, &config.Static{Enabled: true}, logger.Discard())
}

func (f *fixture) paths(ctx context.Context) []string {
	var out []string
	for _, e := range f.manager.Recents(ctx) {
		out = append(out, e.Path)
	}
	return out
}

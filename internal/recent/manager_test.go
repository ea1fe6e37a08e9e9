package recent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danieljhkim/projdash/internal/config"
	"github.com/danieljhkim/projdash/internal/host"
	"github.com/danieljhkim/projdash/internal/logger"
	"github.com/danieljhkim/projdash/internal/state"
)

func TestManager_Recents(t *testing.T) {
	ctx := context.Background()

	t.Run("empty when nothing persisted", func(t *testing.T) {
		f := newFixture(t)
		got := f.manager.Recents(ctx)
		if got == nil || len(got) != 0 {
			t.Errorf("Recents() = %#v, want empty non-nil slice", got)
		}
		if _, ok := f.manager.Fingerprint(ctx); ok {
			t.Error("empty list should have no fingerprint")
		}
	})

	t.Run("malformed state reads as empty", func(t *testing.T) {
		f := newFixture(t)
		_ = f.store.Set(ctx, StateKey, []byte("{not json"))

		if got := f.manager.Recents(ctx); len(got) != 0 {
			t.Errorf("Recents() = %v, want empty", got)
		}

		f.fs.AddDir("/src/api")
		if !f.manager.add(ctx, "/src/api", "") {
			t.Fatal("add after malformed state should succeed")
		}
		if diff := cmp.Diff([]string{"/src/api"}, f.paths(ctx)); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("read failure reads as empty", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/a")
		f.manager.add(ctx, "/a", "")

		f.store.failNext = errPermission
		if got := f.manager.Recents(ctx); got == nil || len(got) != 0 {
			t.Errorf("Recents() = %#v, want empty non-nil slice", got)
		}
		f.store.failNext = errPermission
		if _, ok := f.manager.Fingerprint(ctx); ok {
			t.Error("unreadable list should have no fingerprint")
		}
	})

	t.Run("reads through on every call", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/src/api")
		before := f.store.gets

		f.manager.Recents(ctx)
		f.manager.Recents(ctx)

		if f.store.gets-before != 2 {
			t.Errorf("store reads = %d, want 2", f.store.gets-before)
		}
	})

	t.Run("sees writes from another manager", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/src/api")
		f.peer().add(ctx, "/src/api", "api")

		if diff := cmp.Diff([]string{"/src/api"}, f.paths(ctx)); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestManager_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("prepends and defaults the name", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/src/api", "/src/web")

		f.manager.add(ctx, "/src/api", "")
		f.manager.add(ctx, "/src/web", "Website")

		want := []Entry{
			{Path: "/src/web", Name: "Website"},
			{Path: "/src/api", Name: "api"},
		}
		if diff := cmp.Diff(want, f.manager.Recents(ctx)); diff != "" {
			t.Errorf("Recents mismatch (-want +got):\n%s", diff)
		}
		if f.changes != 2 {
			t.Errorf("changes = %d, want 2", f.changes)
		}
	})

	t.Run("adding a tracked path is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/src/api", "/src/web")
		f.manager.add(ctx, "/src/api", "")
		f.manager.add(ctx, "/src/web", "")
		writes, changes := f.store.Writes(), f.changes

		if f.manager.add(ctx, "/src/api", "renamed") {
			t.Error("add of tracked path reported a change")
		}

		if diff := cmp.Diff([]string{"/src/web", "/src/api"}, f.paths(ctx)); diff != "" {
			t.Errorf("order changed (-want +got):\n%s", diff)
		}
		if f.manager.Recents(ctx)[1].Name != "api" {
			t.Error("tracked entry was renamed")
		}
		if f.store.Writes() != writes || f.changes != changes {
			t.Error("no-op add wrote or notified")
		}
	})

	t.Run("path identity is case sensitive", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/src/API", "/src/api")
		f.manager.add(ctx, "/src/api", "")
		f.manager.add(ctx, "/src/API", "")

		if got := len(f.manager.Recents(ctx)); got != 2 {
			t.Errorf("len = %d, want 2", got)
		}
	})

	t.Run("nonexistent path is rejected silently", func(t *testing.T) {
		f := newFixture(t)

		if f.manager.add(ctx, "/gone", "") {
			t.Error("add of missing path reported a change")
		}
		if len(f.manager.Recents(ctx)) != 0 || f.changes != 0 || f.store.Writes() != 0 {
			t.Error("missing path changed state or notified")
		}
	})

	t.Run("existence check failure counts as missing", func(t *testing.T) {
		f := newFixture(t)
		f.fs.FailOn("/root/private", errors.New("permission denied"))

		if f.manager.add(ctx, "/root/private", "") {
			t.Error("add of unreadable path reported a change")
		}
		if f.changes != 0 {
			t.Error("unreadable path notified")
		}
	})

	t.Run("store write failure is swallowed", func(t *testing.T) {
		fs := newFixture(t).fs
		fs.AddDir("/src/api")
		m := NewManager(&failingStore{state.NewMemStore()}, fs, &fakeFiles{}, &fakeFolders{}, config.Static{Enabled: true}, logger.Discard())
		changes := 0
		m.OnChanged(func() { changes++ })

		if m.add(ctx, "/src/api", "") {
			t.Error("failed write reported a change")
		}
		if changes != 0 {
			t.Error("failed write notified")
		}
	})

	t.Run("store read failure leaves the list untouched", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/a", "/b", "/c")
		f.manager.add(ctx, "/a", "")
		f.manager.add(ctx, "/b", "")
		writes, changes := f.store.Writes(), f.changes

		f.store.failNext = errPermission
		if f.manager.add(ctx, "/c", "") {
			t.Error("add after a failed read reported a change")
		}
		if f.store.Writes() != writes || f.changes != changes {
			t.Error("add after a failed read wrote or notified")
		}
		if diff := cmp.Diff([]string{"/b", "/a"}, f.paths(ctx)); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}

		if !f.manager.add(ctx, "/c", "") {
			t.Error("add did not recover once the store was readable")
		}
		if diff := cmp.Diff([]string{"/c", "/b", "/a"}, f.paths(ctx)); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("persisted fingerprint matches the list", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/a", "/b", "/c")
		for _, p := range []string{"/a", "/b", "/c"} {
			f.manager.add(ctx, p, "")
		}

		got, ok := f.manager.Fingerprint(ctx)
		want, _ := Fingerprint(f.manager.Recents(ctx))
		if !ok || got != want {
			t.Errorf("Fingerprint() = %d, %v; want %d, true", got, ok, want)
		}
	})
}

func TestManager_PersistedLayout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fs.AddDir("/src/api")
	f.manager.add(ctx, "/src/api", "")

	raw, err := f.store.Get(ctx, StateKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("persisted state is not a JSON object: %v", err)
	}
	if _, ok := doc["fingerprint"]; !ok {
		t.Error("persisted state lacks fingerprint")
	}
	if !strings.Contains(string(doc["recents"]), `{"path":"/src/api","name":"api"}`) {
		t.Errorf("recents = %s", doc["recents"])
	}
}

func TestManager_Remove(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *fixture {
		f := newFixture(t)
		f.fs.AddDir("/a", "/b", "/c")
		for _, p := range []string{"/a", "/b", "/c"} {
			f.manager.add(ctx, p, "")
		}
		f.changes = 0
		return f
	}

	t.Run("removes the entry and notifies", func(t *testing.T) {
		f := setup(t)
		if err := f.manager.Remove(ctx, "/b"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}

		if diff := cmp.Diff([]string{"/c", "/a"}, f.paths(ctx)); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
		if f.changes != 1 {
			t.Errorf("changes = %d, want 1", f.changes)
		}
		got, _ := f.manager.Fingerprint(ctx)
		want, _ := Fingerprint(f.manager.Recents(ctx))
		if got != want {
			t.Errorf("fingerprint not recomputed: %d != %d", got, want)
		}
	})

	t.Run("matches ignoring surrounding whitespace", func(t *testing.T) {
		f := setup(t)
		if err := f.manager.Remove(ctx, "  /a \n"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		for _, p := range f.paths(ctx) {
			if p == "/a" {
				t.Error("/a still present")
			}
		}
	})

	t.Run("untracked path is a silent no-op", func(t *testing.T) {
		f := setup(t)
		writes := f.store.Writes()

		if err := f.manager.Remove(ctx, "/zzz"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if f.changes != 0 || f.store.Writes() != writes {
			t.Error("removing an untracked path wrote or notified")
		}
	})

	t.Run("removing the last entry drops the fingerprint", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/only")
		f.manager.add(ctx, "/only", "")

		if err := f.manager.Remove(ctx, "/only"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if _, ok := f.manager.Fingerprint(ctx); ok {
			t.Error("empty list still has a fingerprint")
		}
	})

	t.Run("read failure is returned without writing", func(t *testing.T) {
		f := setup(t)
		writes := f.store.Writes()

		f.store.failNext = errPermission
		if err := f.manager.Remove(ctx, "/b"); !errors.Is(err, errPermission) {
			t.Errorf("Remove error = %v, want %v", err, errPermission)
		}
		if f.store.Writes() != writes || f.changes != 0 {
			t.Error("failed read wrote or notified")
		}
		if diff := cmp.Diff([]string{"/c", "/b", "/a"}, f.paths(ctx)); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("write failure is returned", func(t *testing.T) {
		mem := state.NewMemStore()
		fs := newFixture(t).fs
		fs.AddDir("/a")
		NewManager(mem, fs, &fakeFiles{}, &fakeFolders{}, config.Static{Enabled: true}, logger.Discard()).add(ctx, "/a", "")

		m := NewManager(&failingStore{mem}, fs, &fakeFiles{}, &fakeFolders{}, config.Static{Enabled: true}, logger.Discard())
		if err := m.Remove(ctx, "/a"); !errors.Is(err, errDiskFull) {
			t.Errorf("Remove error = %v, want %v", err, errDiskFull)
		}
	})
}

func TestManager_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("clears and notifies", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/a")
		f.manager.add(ctx, "/a", "")
		f.changes = 0

		if err := f.manager.Reset(ctx); err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
		if len(f.manager.Recents(ctx)) != 0 {
			t.Error("list not empty after reset")
		}
		if _, ok := f.manager.Fingerprint(ctx); ok {
			t.Error("fingerprint present after reset")
		}
		if f.changes != 1 {
			t.Errorf("changes = %d, want 1", f.changes)
		}
	})

	t.Run("notifies even when already empty", func(t *testing.T) {
		f := newFixture(t)
		if err := f.manager.Reset(ctx); err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
		if err := f.manager.Reset(ctx); err != nil {
			t.Fatalf("Reset failed: %v", err)
		}
		if f.changes != 2 {
			t.Errorf("changes = %d, want 2", f.changes)
		}
	})

	t.Run("writes an empty list rather than deleting", func(t *testing.T) {
		f := newFixture(t)
		_ = f.manager.Reset(ctx)

		raw, err := f.store.Get(ctx, StateKey)
		if err != nil {
			t.Fatalf("state missing after reset: %v", err)
		}
		if string(raw) != `{"recents":[]}` {
			t.Errorf("persisted = %s", raw)
		}
	})
}

func TestManager_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled setting touches nothing", func(t *testing.T) {
		f := newFixture(t)
		f.settings.Enabled = false
		f.fs.AddDir("/src/api")
		f.folders.folders = []host.Folder{{Name: "api", Path: "/src/api"}}

		f.manager.Refresh(ctx, true)

		if f.store.gets != 0 || f.store.Writes() != 0 {
			t.Errorf("store touched: gets=%d writes=%d", f.store.gets, f.store.Writes())
		}
		if f.files.calls != 0 || f.folders.calls != 0 {
			t.Error("sources queried while disabled")
		}
	})

	t.Run("setting read failure is treated as disabled", func(t *testing.T) {
		f := newFixture(t)
		f.settings.Err = errors.New("bad yaml")
		f.manager.Refresh(ctx, true)

		if f.store.Writes() != 0 || f.files.calls != 0 {
			t.Error("refresh ran despite unreadable settings")
		}
	})

	t.Run("setting is read on every call", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/src/api")
		f.folders.folders = []host.Folder{{Name: "api", Path: "/src/api"}}

		f.settings.Enabled = false
		f.manager.Refresh(ctx, true)
		f.settings.Enabled = true
		f.manager.Refresh(ctx, true)

		if len(f.manager.Recents(ctx)) != 1 {
			t.Error("re-enabled setting was not picked up")
		}
	})

	t.Run("files only", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/src/api")
		f.fs.AddFile("/etc/hosts", nil)
		f.files.files = []string{"/etc/hosts"}
		f.folders.folders = []host.Folder{{Name: "api", Path: "/src/api"}}

		f.manager.Refresh(ctx, false)

		if diff := cmp.Diff([]string{"/etc/hosts"}, f.paths(ctx)); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
		if f.folders.calls != 0 {
			t.Error("folders queried on a files-only refresh")
		}
	})

	t.Run("files then folders with folder names", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/src/api", "/src/web")
		f.fs.AddFile("/etc/hosts", nil)
		f.files.files = []string{"/etc/hosts", "/tmp/deleted"}
		f.folders.folders = []host.Folder{
			{Name: "API Server", Path: "/src/api"},
			{Name: "web", Path: "/src/web"},
		}

		f.manager.Refresh(ctx, true)

		want := []Entry{
			{Path: "/src/web", Name: "web"},
			{Path: "/src/api", Name: "API Server"},
			{Path: "/etc/hosts", Name: "hosts"},
		}
		if diff := cmp.Diff(want, f.manager.Recents(ctx)); diff != "" {
			t.Errorf("Recents mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("tab enumeration failure still records folders", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/src/api")
		f.files.err = errors.New("tabs unavailable")
		f.folders.folders = []host.Folder{{Name: "api", Path: "/src/api"}}

		f.manager.Refresh(ctx, true)

		if diff := cmp.Diff([]string{"/src/api"}, f.paths(ctx)); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("repeated refresh is stable", func(t *testing.T) {
		f := newFixture(t)
		f.fs.AddDir("/src/api")
		f.folders.folders = []host.Folder{{Name: "api", Path: "/src/api"}}

		f.manager.Refresh(ctx, true)
		writes := f.store.Writes()
		f.manager.Refresh(ctx, true)

		if f.store.Writes() != writes {
			t.Error("second refresh rewrote an unchanged list")
		}
	})
}

func TestManager_OnChanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fs.AddDir("/a", "/b")

	other := 0
	sub := f.manager.OnChanged(func() { other++ })

	f.manager.add(ctx, "/a", "")
	sub.Dispose()
	sub.Dispose()
	f.manager.add(ctx, "/b", "")

	if other != 1 {
		t.Errorf("disposed listener called %d times, want 1", other)
	}
	if f.changes != 2 {
		t.Errorf("remaining listener called %d times, want 2", f.changes)
	}
}

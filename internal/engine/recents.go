package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/danieljhkim/projdash/internal/fsops"
	"github.com/danieljhkim/projdash/internal/recent"
)

// ListRecents returns the recent list with each entry's current kind.
func (e *Engine) ListRecents(ctx context.Context) *ListResult {
	entries := e.manager.Recents(ctx)

	result := &ListResult{Recents: e.annotate(entries)}
	if sum, ok := recent.Fingerprint(entries); ok {
		result.Fingerprint = &sum
	}
	return result
}

func (e *Engine) annotate(entries []recent.Entry) []RecentItem {
	items := make([]RecentItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, RecentItem{
			Path: entry.Path,
			Name: entry.Name,
			Kind: fsops.TypeOf(e.fs, entry.Path),
		})
	}
	return items
}

// Remove removes an entry from the recent list. Removing a path that is not
// tracked is not an error; the result reports it.
func (e *Engine) Remove(ctx context.Context, req *RemoveRequest) (*RemoveResult, error) {
	path, err := resolveUserPath(req.Path, req.CWD)
	if err != nil {
		return nil, err
	}

	result := &RemoveResult{Path: path}
	for _, entry := range e.manager.Recents(ctx) {
		if strings.TrimSpace(entry.Path) == path {
			result.Removed = true
			break
		}
	}
	if !result.Removed {
		return result, nil
	}

	if err := e.manager.Remove(ctx, path); err != nil {
		return nil, fmt.Errorf("failed to remove %s: %w", path, err)
	}
	e.log.Info("removed %s", path)
	return result, nil
}

// Reset clears the recent list.
func (e *Engine) Reset(ctx context.Context) (*ResetResult, error) {
	cleared := len(e.manager.Recents(ctx))
	if err := e.manager.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset recent list: %w", err)
	}
	e.log.Info("reset recent list (%d entries)", cleared)
	return &ResetResult{Cleared: cleared}, nil
}

// Refresh records the session's external files and, unless FilesOnly is set,
// its workspace folders.
func (e *Engine) Refresh(ctx context.Context, req *RefreshRequest) (*RefreshResult, error) {
	enabled, err := e.settings.ShowRecentGroup()
	if err != nil {
		e.log.Warn("cannot read settings: %v", err)
		enabled = false
	}
	result := &RefreshResult{Enabled: enabled, Added: []RecentItem{}}
	if !enabled {
		return result, nil
	}

	before := make(map[string]bool)
	for _, entry := range e.manager.Recents(ctx) {
		before[entry.Path] = true
	}

	e.manager.Refresh(ctx, !req.FilesOnly)

	var added []recent.Entry
	for _, entry := range e.manager.Recents(ctx) {
		if !before[entry.Path] {
			added = append(added, entry)
		}
	}
	result.Added = e.annotate(added)
	return result, nil
}

// Fingerprint returns the fingerprint stored alongside the list.
func (e *Engine) Fingerprint(ctx context.Context) *FingerprintResult {
	result := &FingerprintResult{Entries: len(e.manager.Recents(ctx))}
	if sum, ok := e.manager.Fingerprint(ctx); ok {
		result.Fingerprint = &sum
	}
	return result
}

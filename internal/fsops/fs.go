// Package fsops provides the filesystem operations projdash depends on.
//
// Everything that touches the disk goes through the FS interface: the
// existence checks behind the recent list, the file-backed state store and
// the session file reader. Tests substitute FakeFS.
//
// Key features:
//   - Atomic writes using temp file + rename
//   - Path classification (folder, file, workspace file)
//   - Identifier validation for store keys
package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WorkspaceFileExt is the extension of editor multi-root workspace files.
const WorkspaceFileExt = ".code-workspace"

// PathType classifies an existing path.
type PathType string

const (
	// PathMissing means the path does not exist or could not be inspected.
	PathMissing PathType = "missing"

	// PathFolder is a directory.
	PathFolder PathType = "folder"

	// PathFile is a regular file.
	PathFile PathType = "file"

	// PathWorkspace is an editor workspace file.
	PathWorkspace PathType = "workspace"
)

// FS provides an abstraction for filesystem operations.
type FS interface {
	// Stat returns file info, following symlinks.
	Stat(path string) (os.FileInfo, error)

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// Exists reports whether path names an existing file or directory.
	Exists(path string) (bool, error)

	// ValidateIdentifier validates an identifier for safety.
	ValidateIdentifier(id string) error
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// Stat returns file info, following symlinks.
func (fs *RealFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	// Create temp file in the same directory as target
	tmpFile, err := os.CreateTemp(dir, ".projdash-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	// Atomically rename temp file to target
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	tmpFile = nil
	return nil
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists reports whether path names an existing file or directory.
// Symlinks are followed; a dangling link does not exist.
func (fs *RealFS) Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.IsDir() || info.Mode().IsRegular(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ValidateIdentifier validates an identifier (e.g. a state key) for safety.
// Returns an error if the identifier contains invalid characters or path traversal attempts.
func (fs *RealFS) ValidateIdentifier(id string) error {
	return validateIdentifier(id)
}

func validateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("invalid identifier: empty")
	}

	if strings.Contains(id, string(filepath.Separator)) || strings.Contains(id, "/") || strings.Contains(id, "\\") {
		return fmt.Errorf("invalid identifier: must not contain path separators")
	}

	if id == "." || id == ".." || (strings.HasPrefix(id, ".") && len(id) > 1 && id[1] == '.') {
		return fmt.Errorf("invalid identifier: path traversal not allowed")
	}

	return nil
}

// TypeOf classifies path using fs. Any error inspecting the path is reported
// as PathMissing.
func TypeOf(fs FS, path string) PathType {
	info, err := fs.Stat(path)
	if err != nil {
		return PathMissing
	}
	if info.IsDir() {
		return PathFolder
	}
	if strings.HasSuffix(strings.ToLower(path), WorkspaceFileExt) {
		return PathWorkspace
	}
	return PathFile
}

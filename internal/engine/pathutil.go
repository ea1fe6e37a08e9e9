package engine

import (
	"path/filepath"
	"strings"
)

// resolveUserPath turns a user-provided path into the form entries are stored
// in. Absolute paths are kept as given, apart from surrounding whitespace, so
// that they match entries recorded verbatim from the editor. Relative paths
// (including "." and "..") are joined to cwd and cleaned.
func resolveUserPath(userPath, cwd string) (string, error) {
	p := strings.TrimSpace(userPath)
	if p == "" {
		return "", ErrEmptyPath
	}
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Clean(filepath.Join(cwd, p)), nil
}

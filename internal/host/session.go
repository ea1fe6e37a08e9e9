// Package host adapts an editor window to the recent-tracking core.
//
// The editor integration describes its window in a session file: the open
// workspace folders, the open tabs and the visible editors. Session answers
// the core's queries from that file and SessionWatcher turns edits to it into
// folders-changed and visible-editors-changed signals.
package host

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/projdash/internal/fsops"
	"github.com/danieljhkim/projdash/internal/logger"
)

// Tab kinds reported by the editor. Only text and notebook tabs can name an
// external file; diff, webview and terminal tabs are ignored.
const (
	TabText     = "text"
	TabNotebook = "notebook"
)

// SchemeUntitled marks an unsaved buffer.
const SchemeUntitled = "untitled"

// Folder is an open workspace folder.
type Folder struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Tab is an open editor tab.
type Tab struct {
	Path   string `json:"path"`
	Scheme string `json:"scheme"`
	Kind   string `json:"kind"`
}

// SessionFile is the JSON document written by the editor integration.
type SessionFile struct {
	Folders        []Folder `json:"folders"`
	Tabs           []Tab    `json:"tabs"`
	VisibleEditors []string `json:"visibleEditors"`
}

// ExternalFiles returns the paths of tabs that name a saved file outside
// every folder. With no folders open, every saved file tab is external.
func ExternalFiles(folders []Folder, tabs []Tab) []string {
	var external []string
	for _, tab := range tabs {
		if tab.Kind != TabText && tab.Kind != TabNotebook {
			continue
		}
		if tab.Scheme == "" || tab.Scheme == SchemeUntitled {
			continue
		}
		if insideAny(folders, tab.Path) {
			continue
		}
		external = append(external, tab.Path)
	}
	return external
}

func insideAny(folders []Folder, path string) bool {
	for _, f := range folders {
		if isWithin(f.Path, path) {
			return true
		}
	}
	return false
}

// isWithin reports whether path is root or lies below it.
func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Session reads the session file on demand.
type Session struct {
	fs   fsops.FS
	path string
	log  *logger.Logger
}

// NewSession creates a Session for the file at path.
func NewSession(fs fsops.FS, path string, log *logger.Logger) *Session {
	return &Session{
		fs:   fs,
		path: path,
		log:  logger.OrGlobal(log).WithPrefix("session"),
	}
}

// Path returns the session file path.
func (s *Session) Path() string {
	return s.path
}

// Load reads the session file. A missing or malformed file reads as an empty
// session; the error is only logged.
func (s *Session) Load() *SessionFile {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Debug("failed to read session file %s: %v", s.path, err)
		}
		return &SessionFile{}
	}

	var sf SessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		s.log.Warn("ignoring malformed session file %s: %v", s.path, err)
		return &SessionFile{}
	}
	for i := range sf.Folders {
		if sf.Folders[i].Name == "" {
			sf.Folders[i].Name = filepath.Base(sf.Folders[i].Path)
		}
	}
	return &sf
}

// Folders returns the open workspace folders.
func (s *Session) Folders() ([]Folder, error) {
	return s.Load().Folders, nil
}

// ExternalFiles returns the open tabs that lie outside every workspace folder.
func (s *Session) ExternalFiles() ([]string, error) {
	sf := s.Load()
	return ExternalFiles(sf.Folders, sf.Tabs), nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

// Defaults applied when the settings file omits a value.
const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultPollInterval = time.Second
	DefaultLogLevel     = "info"
)

// Settings is the contents of config.yaml.
type Settings struct {
	// ShowRecentGroup enables recent tracking. Nil means the default (true).
	ShowRecentGroup *bool `yaml:"showRecentGroup,omitempty"`

	// StoreBackend selects the state store ("file" or "bolt").
	StoreBackend string `yaml:"storeBackend,omitempty"`

	// LogLevel is one of debug, info, warn, error, none.
	LogLevel string `yaml:"logLevel,omitempty"`

	// Debounce is the quiet period applied to workspace signals.
	Debounce time.Duration `yaml:"debounce,omitempty"`

	// PollInterval is how often the shared state is checked for writes by
	// other processes.
	PollInterval time.Duration `yaml:"pollInterval,omitempty"`
}

// DefaultSettings returns Settings with every default filled in.
func DefaultSettings() *Settings {
	show := true
	return &Settings{
		ShowRecentGroup: &show,
		StoreBackend:    BackendFile,
		LogLevel:        DefaultLogLevel,
		Debounce:        DefaultDebounce,
		PollInterval:    DefaultPollInterval,
	}
}

// RecentGroupEnabled reports whether recent tracking is on.
func (s *Settings) RecentGroupEnabled() bool {
	return s.ShowRecentGroup == nil || *s.ShowRecentGroup
}

func (s *Settings) applyDefaults() {
	d := DefaultSettings()
	if s.ShowRecentGroup == nil {
		s.ShowRecentGroup = d.ShowRecentGroup
	}
	if s.StoreBackend == "" {
		s.StoreBackend = d.StoreBackend
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	if s.Debounce <= 0 {
		s.Debounce = d.Debounce
	}
	if s.PollInterval <= 0 {
		s.PollInterval = d.PollInterval
	}
}

// LoadSettings reads settings from path. A missing file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	s.applyDefaults()
	return &s, nil
}

// FileSource reads the settings file afresh on every query, so edits take
// effect without restarting.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the settings file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// ShowRecentGroup reports the current value of showRecentGroup.
func (s *FileSource) ShowRecentGroup() (bool, error) {
	settings, err := LoadSettings(s.path)
	if err != nil {
		return false, err
	}
	return settings.RecentGroupEnabled(), nil
}

// Static is a fixed settings source.
type Static struct {
	Enabled bool
	Err     error
}

// ShowRecentGroup returns the fixed value.
func (s Static) ShowRecentGroup() (bool, error) {
	return s.Enabled, s.Err
}

package fsops

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FakeFS implements FS in memory for testing.
type FakeFS struct {
	mu     sync.Mutex
	files  map[string][]byte
	dirs   map[string]bool
	errors map[string]error
}

// NewFakeFS creates an empty FakeFS.
func NewFakeFS() *FakeFS {
	return &FakeFS{
		files:  make(map[string][]byte),
		dirs:   make(map[string]bool),
		errors: make(map[string]error),
	}
}

// AddDir marks paths as existing directories.
func (fs *FakeFS) AddDir(paths ...string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, p := range paths {
		fs.dirs[p] = true
	}
}

// AddFile creates a file with the given contents.
func (fs *FakeFS) AddFile(path string, data []byte) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = append([]byte(nil), data...)
}

// FailOn makes every operation on path return err.
func (fs *FakeFS) FailOn(path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.errors[path] = err
}

// Stat returns fake file info for known paths.
func (fs *FakeFS) Stat(path string) (os.FileInfo, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.errors[path]; err != nil {
		return nil, err
	}
	if fs.dirs[path] {
		return &fakeFileInfo{name: filepath.Base(path), isDir: true}, nil
	}
	if data, ok := fs.files[path]; ok {
		return &fakeFileInfo{name: filepath.Base(path), size: int64(len(data))}, nil
	}
	return nil, os.ErrNotExist
}

// AtomicWrite stores data at path.
func (fs *FakeFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.errors[path]; err != nil {
		return err
	}
	fs.files[path] = append([]byte(nil), data...)
	return nil
}

// ReadFile returns the contents stored at path.
func (fs *FakeFS) ReadFile(path string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.errors[path]; err != nil {
		return nil, err
	}
	data, ok := fs.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

// Exists reports whether path is a known file or directory.
func (fs *FakeFS) Exists(path string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.errors[path]; err != nil {
		return false, err
	}
	_, isFile := fs.files[path]
	return isFile || fs.dirs[path], nil
}

// ValidateIdentifier applies the same rules as RealFS.
func (fs *FakeFS) ValidateIdentifier(id string) error {
	return validateIdentifier(id)
}

type fakeFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (fi *fakeFileInfo) Name() string       { return fi.name }
func (fi *fakeFileInfo) Size() int64        { return fi.size }
func (fi *fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (fi *fakeFileInfo) IsDir() bool        { return fi.isDir }
func (fi *fakeFileInfo) Sys() interface{}   { return nil }

func (fi *fakeFileInfo) Mode() os.FileMode {
	if fi.isDir {
		return os.ModeDir | 0755
	}
	return 0644
}

package credstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Persistence reads and writes whole files.
type Persistence interface {
	ReadBytes(path string) ([]byte, error)
	WriteBytes(path string, data []byte) error
	Exists(path string) bool
}

var (
	_ Persistence = FileSystem{}
	_ Persistence = (*Memory)(nil)
)

// FileSystem is Persistence on the local disk. Writes go to a temporary file
// in the target directory which is synced and renamed over the target.
type FileSystem struct{}

func (FileSystem) ReadBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 path comes from configuration
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrConfigMissing
	}
	return data, err
}

func (FileSystem) WriteBytes(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	// delete partial file on error
	fail := func(err error) error {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if _, err := f.Write(data); err != nil {
		return fail(err)
	}
	if err := f.Sync(); err != nil {
		return fail(err)
	}
	if err := f.Chmod(0o600); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (FileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Memory is an in-process Persistence, used by tests and dry runs.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
	// WriteError, when set, fails every write.
	WriteError error
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) ReadBytes(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, ErrConfigMissing
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) WriteBytes(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteError != nil {
		return m.WriteError
	}
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

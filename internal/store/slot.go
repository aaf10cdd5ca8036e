package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Slot is a single synchronous durable value.
type Slot interface {
	// Load returns the stored bytes; ok is false when nothing was saved yet.
	Load() (data []byte, ok bool, err error)
	// Save replaces the stored bytes.
	Save(data []byte) error
}

// FileSlot persists a value in one file.
type FileSlot struct {
	path string
}

// NewFileSlot returns a slot backed by path. The file is created on first Save.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Path returns the backing file path.
func (f *FileSlot) Path() string {
	return f.path
}

// Load implements Slot.
func (f *FileSlot) Load() ([]byte, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Save implements Slot. The file is replaced atomically.
func (f *FileSlot) Save(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, filepath.Base(f.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", f.path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", f.path, err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}

// MemorySlot keeps a value in process memory. LoadErr and SaveErr, when set,
// are returned by the corresponding calls.
type MemorySlot struct {
	mu      sync.Mutex
	data    []byte
	ok      bool
	saves   int
	LoadErr error
	SaveErr error
}

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// NewMemorySlotWith returns an in-memory slot preloaded with data.
func NewMemorySlotWith(data []byte) *MemorySlot {
	return &MemorySlot{data: append([]byte(nil), data...), ok: true}
}

// Load implements Slot.
func (m *MemorySlot) Load() ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, false, m.LoadErr
	}
	if !m.ok {
		return nil, false, nil
	}
	return append([]byte(nil), m.data...), true, nil
}

// Save implements Slot.
func (m *MemorySlot) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = append([]byte(nil), data...)
	m.ok = true
	m.saves++
	return nil
}

// Saves returns how many successful saves happened.
func (m *MemorySlot) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

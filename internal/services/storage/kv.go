package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// KV is a flat key/value persistence slot
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// ErrInvalidKey is returned for keys that cannot be mapped to a file name
var ErrInvalidKey = errors.New("invalid key")

// FileKV stores each key as <dir>/<key>.json through a Storage
type FileKV struct {
	store *Storage
	dir   string
}

// NewFileKV returns a KV rooted at dir, which should live under the storage base dir
// so that encryption migrations include it
func NewFileKV(store *Storage, dir string) *FileKV {
	return &FileKV{store: store, dir: dir}
}

func (kv *FileKV) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(kv.dir, key+".json"), nil
}

// Get returns the stored bytes or ErrNotFound
func (kv *FileKV) Get(key string) ([]byte, error) {
	p, err := kv.path(key)
	if err != nil {
		return nil, err
	}
	return kv.store.ReadFile(p)
}

// Set overwrites the value at key
func (kv *FileKV) Set(key string, value []byte) error {
	p, err := kv.path(key)
	if err != nil {
		return err
	}
	return kv.store.WriteFile(p, value, 0600)
}

// Delete removes key
func (kv *FileKV) Delete(key string) error {
	p, err := kv.path(key)
	if err != nil {
		return err
	}
	return kv.store.Remove(p)
}

// MemoryKV keeps values in a map. Setting Fail makes every call return it.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
	Fail error
}

// NewMemoryKV returns an empty in-memory KV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

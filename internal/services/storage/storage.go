// Package storage persists application data under a single directory,
// optionally sealed with a scrypt passphrase.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"filippo.io/age"
)

const (
	// ageHeader is the prefix of Age-encrypted files
	ageHeader = "age-encryption.org"

	// markerFile indicates encryption is enabled
	markerFile = ".encrypted"

	// verifyFile is used to validate the password
	verifyFile = ".encryption-verify"

	// verifyMagic is the expected plaintext of the verify file
	verifyMagic = `{"magic":"financetracker-encryption-verify","version":1}`

	minPasswordLen = 8
)

var (
	// ErrNotFound is returned when a key or file does not exist
	ErrNotFound = errors.New("not found")

	// ErrLocked is returned when encrypted data is accessed before Unlock
	ErrLocked = errors.New("storage is locked")

	// ErrWrongPassword is returned when the passphrase does not open the verify file
	ErrWrongPassword = errors.New("incorrect password")
)

// Storage provides transparent encrypted/unencrypted file access rooted at baseDir
type Storage struct {
	baseDir   string
	encrypted bool
	identity  *age.ScryptIdentity
	recipient *age.ScryptRecipient
	mu        sync.RWMutex
}

// New opens storage for baseDir, creating the directory if needed
func New(baseDir string) (*Storage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Storage{baseDir: baseDir}
	if _, err := os.Stat(filepath.Join(baseDir, markerFile)); err == nil {
		s.encrypted = true
	}
	return s, nil
}

// BaseDir returns the base directory
func (s *Storage) BaseDir() string {
	return s.baseDir
}

// IsEncrypted returns true if the data directory is encrypted
func (s *Storage) IsEncrypted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encrypted
}

// IsUnlocked returns true if the storage is readable and writable
func (s *Storage) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.encrypted || s.identity != nil
}

// Unlock verifies password against the verify file and keeps the key in memory
func (s *Storage) Unlock(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return nil
	}

	identity, recipient, err := s.checkPassword(password)
	if err != nil {
		return err
	}
	s.identity = identity
	s.recipient = recipient
	return nil
}

// Lock clears the encryption key from memory
func (s *Storage) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.recipient = nil
}

// ReadFile reads path, decrypting it when it is sealed
func (s *Storage) ReadFile(path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !isAgeEncrypted(data) {
		return data, nil
	}
	if s.identity == nil {
		return nil, ErrLocked
	}
	plain, err := open(data, s.identity)
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", filepath.Base(path), err)
	}
	return plain, nil
}

// WriteFile writes path atomically, sealing it when encryption is enabled
func (s *Storage) WriteFile(path string, data []byte, perm os.FileMode) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.encrypted && !s.skipEncryption(path) {
		if s.recipient == nil {
			return ErrLocked
		}
		sealed, err := seal(data, s.recipient)
		if err != nil {
			return fmt.Errorf("encrypt %s: %w", filepath.Base(path), err)
		}
		data = sealed
	}

	return atomicWrite(path, data, perm)
}

// Remove deletes path. A missing file is not an error.
func (s *Storage) Remove(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// checkPassword derives the age key pair and confirms it opens the verify file.
// Callers hold s.mu.
func (s *Storage) checkPassword(password string) (*age.ScryptIdentity, *age.ScryptRecipient, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create identity: %w", err)
	}

	sealed, err := os.ReadFile(filepath.Join(s.baseDir, verifyFile))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read verification file: %w", err)
	}

	plain, err := open(sealed, identity)
	if err != nil || string(plain) != verifyMagic {
		return nil, nil, ErrWrongPassword
	}

	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create recipient: %w", err)
	}
	return identity, recipient, nil
}

// skipEncryption reports files that stay plaintext even when encryption is on
func (s *Storage) skipEncryption(path string) bool {
	base := filepath.Base(path)
	if base == markerFile || base == verifyFile {
		return true
	}
	return strings.HasSuffix(base, ".tmp")
}

// atomicWrite writes to a temp file and renames it into place
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// isAgeEncrypted checks if data starts with the Age encryption header
func isAgeEncrypted(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}

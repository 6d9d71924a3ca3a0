// Package file provides a durable local key-value store backed by a single
// JSON document on disk. It is the default home for session state on a
// device without a Redis instance.
package file

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/adrian5517/nagaclean-client/internal/core/ports"
)

// Store persists keys in one JSON file. Writes go through a temp file and
// rename, so a crash mid-write never corrupts the previous state. When a seal
// key is configured the document is encrypted at rest; the session token is
// the main thing living here.
type Store struct {
	path    string
	sealKey []byte // nil = plaintext

	mu   sync.Mutex
	data map[string]string
}

// Open loads (or initializes) the store at path. sealKeyHex, when non-empty,
// must be a 64-character hex string (32 bytes).
func Open(path string, sealKeyHex string) (*Store, error) {
	s := &Store{path: path, data: make(map[string]string)}

	if sealKeyHex != "" {
		key, err := hex.DecodeString(sealKeyHex)
		if err != nil {
			return nil, fmt.Errorf("storage: seal key is not valid hex: %w", err)
		}
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("storage: seal key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
		}
		s.sealKey = key
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ports.ErrKeyNotFound, key)
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.flush()
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.data, k)
	}
	return s.flush()
}

// Ping reports whether the backing directory is writable. Used by the
// readiness probe.
func (s *Store) Ping(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

func (s *Store) load() error {
	blob, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: read %s: %w", s.path, err)
	}

	if s.sealKey != nil {
		blob, err = s.unseal(blob)
		if err != nil {
			return fmt.Errorf("storage: unseal %s: %w", s.path, err)
		}
	}

	if err := json.Unmarshal(blob, &s.data); err != nil {
		return fmt.Errorf("storage: parse %s: %w", s.path, err)
	}
	return nil
}

// flush writes the current document atomically. Caller holds s.mu.
func (s *Store) flush() error {
	blob, err := json.Marshal(s.data)
	if err != nil {
		return err
	}

	if s.sealKey != nil {
		blob, err = s.seal(blob)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) seal(plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.sealKey)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plain, nil), nil
}

func (s *Store) unseal(blob []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.sealKey)
	if err != nil {
		return nil, err
	}
	if len(blob) < aead.NonceSize() {
		return nil, errors.New("sealed document too short")
	}
	return aead.Open(nil, blob[:aead.NonceSize()], blob[aead.NonceSize():], nil)
}

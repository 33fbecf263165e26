// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package localkey

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/99designs/keyring"
)

// KeyringStorage is a [SecureStorage] on top of the OS keychain abstraction
// provided by keyring.
type KeyringStorage struct {
	ring  keyring.Keyring
	label string
}

// KeyringConfig selects the backend for [OpenKeyring].
type KeyringConfig struct {
	ServiceName string
	Backend     string
	FileDir     string
	Password    string
}

// ErrUnprotectedKeyring is returned when the file backend is requested
// without a password.
var ErrUnprotectedKeyring = errors.New("file keyring requires a password")

// OpenKeyring opens a keyring. An empty Backend lets keyring pick the best
// available backend on the platform; "file" forces the encrypted file
// backend protected by Password. The file backend is never used without a
// password.
func OpenKeyring(cfg KeyringConfig) (keyring.Keyring, error) {
	kcfg := keyring.Config{
		ServiceName:      cfg.ServiceName,
		FileDir:          cfg.FileDir,
		FilePasswordFunc: keyring.FixedStringPrompt(cfg.Password),
	}
	switch {
	case cfg.Backend == string(keyring.FileBackend) && cfg.Password == "":
		return nil, fmt.Errorf("open keyring %q: %w", cfg.ServiceName, ErrUnprotectedKeyring)
	case cfg.Backend != "":
		kcfg.AllowedBackends = []keyring.BackendType{keyring.BackendType(cfg.Backend)}
	case cfg.Password == "":
		kcfg.AllowedBackends = withoutFileBackend(keyring.AvailableBackends())
	}

	ring, err := keyring.Open(kcfg)
	if err != nil {
		return nil, fmt.Errorf("open keyring %q: %w", cfg.ServiceName, err)
	}
	return ring, nil
}

func withoutFileBackend(backends []keyring.BackendType) []keyring.BackendType {
	out := make([]keyring.BackendType, 0, len(backends))
	for _, b := range backends {
		if b != keyring.FileBackend {
			out = append(out, b)
		}
	}
	return out
}

// NewKeyringStorage wraps an opened keyring.
func NewKeyringStorage(ring keyring.Keyring, label string) *KeyringStorage {
	return &KeyringStorage{ring: ring, label: label}
}

func (s *KeyringStorage) Get(_ context.Context, name string) ([]byte, error) {
	item, err := s.ring.Get(name)
	if err != nil {
		if isKeyringNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("keyring get %q: %w", name, err)
	}
	return item.Data, nil
}

func (s *KeyringStorage) Set(_ context.Context, name string, data []byte) error {
	err := s.ring.Set(keyring.Item{
		Key:   name,
		Data:  data,
		Label: s.label,
	})
	if err != nil {
		return fmt.Errorf("keyring set %q: %w", name, err)
	}
	return nil
}

func (s *KeyringStorage) Delete(_ context.Context, name string) error {
	if err := s.ring.Remove(name); err != nil {
		if isKeyringNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("keyring remove %q: %w", name, err)
	}
	return nil
}

func isKeyringNotFound(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, fs.ErrNotExist)
}

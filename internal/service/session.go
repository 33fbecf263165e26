// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/models"
)

// Session holds the key material of the logged-in user. It is owned by the
// application and cleared on logout.
type Session struct {
	mu       sync.RWMutex
	userKeys crypto.UserKeySet
	loaded   bool
}

func NewSession() *Session {
	return &Session{}
}

// SetUserKeys installs the user keys of a new session.
func (s *Session) SetUserKeys(keys crypto.UserKeySet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userKeys = keys
	s.loaded = true
}

// UserKeys returns the session's user keys or ErrNoSession.
func (s *Session) UserKeys() (crypto.UserKeySet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return crypto.UserKeySet{}, ErrNoSession
	}
	return s.userKeys, nil
}

// Clear forgets the user keys.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userKeys = crypto.UserKeySet{}
	s.loaded = false
}

// LoadUserKeysFile reads a JSON array of user keys and pairs every key with
// passphrase.
func LoadUserKeysFile(path, passphrase string) (crypto.UserKeySet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return crypto.UserKeySet{}, fmt.Errorf("read user keys: %w", err)
	}

	var keys []models.UserKey
	if err = json.Unmarshal(raw, &keys); err != nil {
		return crypto.UserKeySet{}, fmt.Errorf("decode user keys: %w", err)
	}

	passphrases := make(map[string]string, len(keys))
	for _, k := range keys {
		passphrases[k.KeyID] = passphrase
	}
	return crypto.NewUserKeySet(keys, passphrases), nil
}

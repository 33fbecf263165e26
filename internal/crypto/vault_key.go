// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"github.com/MKhiriev/vaultsync/models"
)

// VaultKey is an unwrapped vault key of one rotation of one share.
type VaultKey struct {
	ShareID  string
	Rotation int64
	Key      []byte
}

// LatestVaultKey returns the key with the highest rotation. Writes always
// use it. ok is false when keys is empty.
func LatestVaultKey(keys []VaultKey) (VaultKey, bool) {
	var (
		latest VaultKey
		found  bool
	)
	for _, k := range keys {
		if !found || k.Rotation > latest.Rotation {
			latest = k
			found = true
		}
	}
	return latest, found
}

// FindVaultKey returns the key of the given rotation, or a
// [*KeysNotFoundError] when it is not among keys.
func FindVaultKey(keys []VaultKey, shareID string, rotation int64) (VaultKey, error) {
	for _, k := range keys {
		if k.ShareID == shareID && k.Rotation == rotation {
			return k, nil
		}
	}
	return VaultKey{}, &KeysNotFoundError{ShareID: shareID, Rotation: rotation}
}

// UserKeySet is the set of user keys of the session together with the
// passphrases that unlock them, indexed by key id.
type UserKeySet struct {
	order       []string
	keys        map[string]models.UserKey
	passphrases map[string]string
}

// NewUserKeySet builds a set from keys and their passphrases.
func NewUserKeySet(keys []models.UserKey, passphrases map[string]string) UserKeySet {
	set := UserKeySet{
		keys:        make(map[string]models.UserKey, len(keys)),
		passphrases: make(map[string]string, len(passphrases)),
	}
	for _, k := range keys {
		if _, dup := set.keys[k.KeyID]; !dup {
			set.order = append(set.order, k.KeyID)
		}
		set.keys[k.KeyID] = k
	}
	for id, p := range passphrases {
		set.passphrases[id] = p
	}
	return set
}

// Key returns the user key with the given id.
func (s UserKeySet) Key(keyID string) (models.UserKey, bool) {
	k, ok := s.keys[keyID]
	return k, ok
}

// Passphrase returns the passphrase of the given key id.
func (s UserKeySet) Passphrase(keyID string) (string, bool) {
	p, ok := s.passphrases[keyID]
	return p, ok && p != ""
}

// Primary returns the first active key, used to address new share keys.
func (s UserKeySet) Primary() (models.UserKey, bool) {
	for _, id := range s.order {
		if k := s.keys[id]; k.Active {
			return k, true
		}
	}
	return models.UserKey{}, false
}

// Len returns the number of keys in the set.
func (s UserKeySet) Len() int {
	return len(s.keys)
}

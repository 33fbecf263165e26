// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/models"
)

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession()

	_, err := s.UserKeys()
	require.ErrorIs(t, err, ErrNoSession)

	s.SetUserKeys(crypto.NewUserKeySet([]models.UserKey{{KeyID: "k", Active: true}}, nil))
	keys, err := s.UserKeys()
	require.NoError(t, err)
	assert.Equal(t, 1, keys.Len())

	s.Clear()
	_, err = s.UserKeys()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestLoadUserKeysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.json")

	raw, err := json.Marshal([]models.UserKey{
		{KeyID: "a", AddressID: "addr", Active: true},
		{KeyID: "b", AddressID: "addr"},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	set, err := LoadUserKeysFile(path, "secret")
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	p, ok := set.Passphrase("b")
	assert.True(t, ok)
	assert.Equal(t, "secret", p)

	primary, ok := set.Primary()
	require.True(t, ok)
	assert.Equal(t, "a", primary.KeyID)

	_, err = LoadUserKeysFile(filepath.Join(dir, "missing.json"), "x")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadUserKeysFile(path, "x")
	assert.Error(t, err)
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(ErrConflict))
	assert.False(t, IsConflict(ErrReadOnlyShare))
	assert.False(t, IsConflict(nil))
}

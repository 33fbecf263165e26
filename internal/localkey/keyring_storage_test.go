// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package localkey

import (
	"context"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vaultsync/internal/logger"
)

func openFileKeyring(t *testing.T) *KeyringStorage {
	t.Helper()
	ring, err := OpenKeyring(KeyringConfig{
		ServiceName: "vaultsync-test",
		Backend:     "file",
		FileDir:     t.TempDir(),
		Password:    "test-password",
	})
	require.NoError(t, err)
	return NewKeyringStorage(ring, "vaultsync test")
}

func TestKeyringStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openFileKeyring(t)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "entry", []byte{1, 2, 3}))
	got, err := s.Get(ctx, "entry")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	require.NoError(t, s.Delete(ctx, "entry"))
	_, err = s.Get(ctx, "entry")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "entry"), ErrNotFound)
}

func TestKeyringStorage_BacksProvider(t *testing.T) {
	ctx := context.Background()
	storage := openFileKeyring(t)
	mainKeys := NewStorageMainKeyProvider(storage, true)

	k1, err := NewProvider(storage, mainKeys, logger.Nop()).GetLocalKey(ctx)
	require.NoError(t, err)

	k2, err := NewProvider(storage, mainKeys, logger.Nop()).GetLocalKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestOpenKeyring_FileBackendRequiresPassword(t *testing.T) {
	_, err := OpenKeyring(KeyringConfig{
		ServiceName: "vaultsync-test",
		Backend:     "file",
		FileDir:     t.TempDir(),
	})
	assert.ErrorIs(t, err, ErrUnprotectedKeyring)
}

func TestWithoutFileBackend(t *testing.T) {
	got := withoutFileBackend([]keyring.BackendType{
		keyring.SecretServiceBackend,
		keyring.FileBackend,
		keyring.PassBackend,
	})
	assert.Equal(t, []keyring.BackendType{keyring.SecretServiceBackend, keyring.PassBackend}, got)
}

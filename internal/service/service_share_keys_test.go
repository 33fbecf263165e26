// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/models"
)

func TestShareKeyService_FetchesOnceThenServesLocally(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.UpsertShares(f.ctx, testShare("s1")))

	f.remote.EXPECT().GetShareKeys(gomock.Any(), "s1").
		Return([]models.ShareKey{f.shareKey("s1", 1), f.shareKey("s1", 2)}, nil).
		Times(1)

	keys, err := f.keys.GetVaultKeys(f.ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	latest, err := f.keys.LatestVaultKey(f.ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), latest.Rotation)
	assert.Equal(t, f.vaultKey("s1", 2).Key, latest.Key)

	k1, err := f.keys.VaultKeyFor(f.ctx, "s1", 1)
	require.NoError(t, err)
	assert.Equal(t, f.vaultKey("s1", 1).Key, k1.Key)
}

func TestShareKeyService_RefreshIsAppendOnly(t *testing.T) {
	f := newFixture(t)
	first := f.shareKey("s1", 1)

	f.remote.EXPECT().GetShareKeys(gomock.Any(), "s1").Return([]models.ShareKey{first}, nil)
	_, err := f.keys.RefreshKeys(f.ctx, "s1")
	require.NoError(t, err)

	// a tampered copy of rotation 1 must not overwrite the stored one
	tampered := first
	tampered.Key = []byte("garbage")
	f.remote.EXPECT().GetShareKeys(gomock.Any(), "s1").Return([]models.ShareKey{tampered, f.shareKey("s1", 2)}, nil)
	keys, err := f.keys.RefreshKeys(f.ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	stored, err := f.store.GetShareKey(f.ctx, "s1", 1)
	require.NoError(t, err)
	assert.Equal(t, first.Key, stored.Key)
}

func TestShareKeyService_MissingRotation(t *testing.T) {
	f := newFixture(t)
	f.remote.EXPECT().GetShareKeys(gomock.Any(), "s1").Return([]models.ShareKey{f.shareKey("s1", 1)}, nil)

	_, err := f.keys.VaultKeyFor(f.ctx, "s1", 5)
	require.ErrorIs(t, err, crypto.ErrKeysNotFound)

	var notFound *crypto.KeysNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(5), notFound.Rotation)
}

func TestShareKeyService_SkipsKeysOfOtherUsers(t *testing.T) {
	f := newFixture(t)

	stranger, err := f.ecm.GenerateUserKey("uk-other", "addr-2", "other")
	require.NoError(t, err)
	foreign, err := f.ecm.WrapVaultKey("s1", 1, f.vaultKey("s1", 1).Key, stranger)
	require.NoError(t, err)

	f.remote.EXPECT().GetShareKeys(gomock.Any(), "s1").Return([]models.ShareKey{foreign, f.shareKey("s1", 2)}, nil)

	keys, err := f.keys.RefreshKeys(f.ctx, "s1")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, int64(2), keys[0].Rotation)
}

func TestShareKeyService_NoSession(t *testing.T) {
	f := newFixture(t)
	keys := NewShareKeyService(f.store, f.remote, f.ecm, NewSession(), logger.Nop())

	f.remote.EXPECT().GetShareKeys(gomock.Any(), "s1").Return([]models.ShareKey{f.shareKey("s1", 1)}, nil)

	_, err := keys.GetVaultKeys(f.ctx, "s1")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestShareKeyService_Reset(t *testing.T) {
	f := newFixture(t)
	f.remote.EXPECT().GetShareKeys(gomock.Any(), "s1").Return([]models.ShareKey{f.shareKey("s1", 1)}, nil)

	_, err := f.keys.VaultKeyFor(f.ctx, "s1", 1)
	require.NoError(t, err)

	f.keys.Reset()
	f.session.Clear()

	// the share key is still stored, but nothing can open it any more
	_, err = f.keys.VaultKeyFor(f.ctx, "s1", 1)
	require.ErrorIs(t, err, ErrNoSession)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/vaultsync/internal/config"
	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/internal/events"
	"github.com/MKhiriev/vaultsync/internal/localkey"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/internal/mock"
	"github.com/MKhiriev/vaultsync/internal/store"
	"github.com/MKhiriev/vaultsync/models"
)

const testPassphrase = "correct horse battery staple"

// fixture wires the services against a real sqlite store, real crypto and a
// mocked backend.
type fixture struct {
	t   *testing.T
	ctx context.Context

	store   store.Store
	remote  *mock.MockRemoteAPI
	ecm     crypto.EnvelopeCrypto
	cipher  *localkey.Provider
	session *Session
	keys    ShareKeyService
	engine  *syncEngine
	items   ItemService
	sub     *events.Subscription

	userKey   models.UserKey
	vaultKeys map[string]map[int64][]byte
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	st, err := store.NewStore(ctx, config.Storage{DSN: filepath.Join(t.TempDir(), "vault.db")}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ecm := crypto.NewEnvelopeCrypto(crypto.WithArgon2Params(1, 64, 1))
	userKey, err := ecm.GenerateUserKey("uk-1", "addr-1", testPassphrase)
	require.NoError(t, err)

	session := NewSession()
	session.SetUserKeys(crypto.NewUserKeySet([]models.UserKey{userKey}, map[string]string{"uk-1": testPassphrase}))

	mainKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	cipher := localkey.NewProvider(localkey.NewMemoryStorage(), localkey.StaticMainKey(mainKey), logger.Nop())

	bus := events.NewBus(256)
	sub := bus.Subscribe()
	t.Cleanup(sub.Close)

	remote := mock.NewMockRemoteAPI(ctrl)
	keys := NewShareKeyService(st, remote, ecm, session, logger.Nop())
	engine := NewSyncEngine(st, remote, keys, ecm, cipher, bus, config.Workers{
		SyncConcurrency: 2,
		BackoffBase:     time.Minute,
		BackoffMax:      time.Hour,
	}, logger.Nop()).(*syncEngine)

	return &fixture{
		t:         t,
		ctx:       ctx,
		store:     st,
		remote:    remote,
		ecm:       ecm,
		cipher:    cipher,
		session:   session,
		keys:      keys,
		engine:    engine,
		items:     NewItemService(st, remote, keys, ecm, cipher, bus, logger.Nop()),
		sub:       sub,
		userKey:   userKey,
		vaultKeys: make(map[string]map[int64][]byte),
	}
}

func testShare(shareID string) models.Share {
	return models.Share{
		ShareID:    shareID,
		VaultID:    "vault-" + shareID,
		TargetID:   "vault-" + shareID,
		TargetType: models.TargetTypeVault,
		Permission: models.PermissionRead | models.PermissionWrite,
		Owner:      true,
		CreateTime: 1_700_000_000,
	}
}

func (f *fixture) vaultKey(shareID string, rotation int64) crypto.VaultKey {
	f.t.Helper()
	if f.vaultKeys[shareID] == nil {
		f.vaultKeys[shareID] = make(map[int64][]byte)
	}
	raw, ok := f.vaultKeys[shareID][rotation]
	if !ok {
		var err error
		raw, err = crypto.GenerateKey()
		require.NoError(f.t, err)
		f.vaultKeys[shareID][rotation] = raw
	}
	return crypto.VaultKey{ShareID: shareID, Rotation: rotation, Key: raw}
}

func (f *fixture) shareKey(shareID string, rotation int64) models.ShareKey {
	f.t.Helper()
	sk, err := f.ecm.WrapVaultKey(shareID, rotation, f.vaultKey(shareID, rotation).Key, f.userKey)
	require.NoError(f.t, err)
	return sk
}

func (f *fixture) item(shareID, itemID string, revision, rotation int64, content models.ItemContent) models.Item {
	f.t.Helper()
	encrypted, err := f.ecm.EncryptItemContent(content, f.vaultKey(shareID, rotation))
	require.NoError(f.t, err)
	return models.Item{
		ItemID:               itemID,
		ShareID:              shareID,
		Revision:             revision,
		ContentFormatVersion: 1,
		KeyRotation:          rotation,
		Content:              encrypted,
		State:                models.ItemStateActive,
		CreateTime:           1_700_000_000,
		ModifyTime:           1_700_000_000 + revision,
		RevisionTime:         1_700_000_000 + revision,
	}
}

func loginContent(name, username string, urls ...string) models.ItemContent {
	return models.ItemContent{
		Name: name,
		Data: models.LoginData{Username: username, Password: "pw-" + name, URLs: urls},
	}
}

func noteContent(name string) models.ItemContent {
	return models.ItemContent{Name: name, Note: "secret note", Data: models.NoteData{}}
}

// seed runs a full refresh of share through the engine so that the store
// holds its keys, items and a cursor at eventID.
func (f *fixture) seed(share models.Share, eventID string, keys []models.ShareKey, items ...models.Item) {
	f.t.Helper()
	f.remote.EXPECT().GetLastEventID(gomock.Any(), share.ShareID).Return(eventID, nil)
	f.remote.EXPECT().GetShareKeys(gomock.Any(), share.ShareID).Return(keys, nil)
	f.remote.EXPECT().GetItems(gomock.Any(), share.ShareID).Return(items, nil)
	require.NoError(f.t, f.engine.RefreshShare(f.ctx, share))
	f.drain()
}

// drain returns every notification published so far.
func (f *fixture) drain() []events.ItemsChanged {
	var out []events.ItemsChanged
	for {
		select {
		case ev := <-f.sub.C():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func (f *fixture) cursor(shareID string) string {
	f.t.Helper()
	c, err := f.store.GetCursor(f.ctx, shareID)
	require.NoError(f.t, err)
	return c.LastEventID
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/models"
)

// LocalCipher encrypts plaintext kept in the local store with the
// device-local key.
type LocalCipher interface {
	Seal(ctx context.Context, plaintext, additionalData []byte) ([]byte, error)
	Open(ctx context.Context, blob, additionalData []byte) ([]byte, error)
}

// ShareKeyService resolves the unwrapped vault keys of a share, fetching
// share keys from the backend when a rotation is not known locally.
type ShareKeyService interface {
	// GetVaultKeys returns every vault key of the share that the session
	// can open. Keys are refetched when none is stored locally.
	GetVaultKeys(ctx context.Context, shareID string) ([]crypto.VaultKey, error)

	// RefreshKeys fetches the share keys from the backend, stores the new
	// rotations and returns the resulting vault keys.
	RefreshKeys(ctx context.Context, shareID string) ([]crypto.VaultKey, error)

	// VaultKeyFor returns the vault key of one rotation. A rotation missing
	// locally triggers one refetch; if it is still missing the error
	// matches crypto.ErrKeysNotFound.
	VaultKeyFor(ctx context.Context, shareID string, rotation int64) (crypto.VaultKey, error)

	// LatestVaultKey returns the key of the highest known rotation, the
	// one every write uses.
	LatestVaultKey(ctx context.Context, shareID string) (crypto.VaultKey, error)

	// Reset drops cached vault keys.
	Reset()
}

// SyncEngine reconciles the local store with the backend's change streams.
type SyncEngine interface {
	// Sync runs one cycle over every remote share. Per-share failures are
	// reported in the result; the returned error is only set when the
	// share list itself could not be reconciled.
	Sync(ctx context.Context) (models.SyncReport, error)

	// Pull applies the pending events of one share and reports whether
	// anything changed.
	Pull(ctx context.Context, share models.Share) (bool, error)

	// RefreshShare drops the share's cursor and refetches its keys and items.
	RefreshShare(ctx context.Context, share models.Share) error

	// State returns the current sync state of a share.
	State(shareID string) models.ShareSyncState
}

// ItemService is the write path: every change goes to the backend first,
// and the server's answer is persisted locally.
type ItemService interface {
	Create(ctx context.Context, shareID string, content models.ItemContent) (models.DecryptedItem, error)
	Update(ctx context.Context, shareID, itemID string, lastRevision int64, content models.ItemContent) (models.DecryptedItem, error)
	Trash(ctx context.Context, shareID string, items ...models.ItemRevision) error
	Untrash(ctx context.Context, shareID string, items ...models.ItemRevision) error
	Delete(ctx context.Context, shareID string, items ...models.ItemRevision) error
	Get(ctx context.Context, shareID, itemID string) (models.DecryptedItem, error)
	List(ctx context.Context, shareID string, state models.ItemState) ([]models.DecryptedItem, error)
	ActiveCredentials(ctx context.Context) ([]models.AutoFillCredential, error)
}

// SyncJob runs [SyncEngine.Sync] periodically in the background.
type SyncJob interface {
	// Start stops any running job and launches a new one ticking every
	// interval. The first cycle runs immediately.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the job and blocks until its goroutine has exited.
	Stop()
}

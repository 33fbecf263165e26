// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/vaultsync/models"
)

// ShareRepository persists the shares visible to the user.
type ShareRepository interface {
	UpsertShares(ctx context.Context, shares ...models.Share) error
	GetShares(ctx context.Context) ([]models.Share, error)
	GetShare(ctx context.Context, shareID string) (models.Share, error)
	// DeleteShare removes the share together with its keys, items and cursor.
	DeleteShare(ctx context.Context, shareID string) error
}

// ShareKeyRepository is the append-only table of share key rotations.
type ShareKeyRepository interface {
	// InsertShareKeys stores new rotations; already known (share, rotation)
	// pairs are left untouched.
	InsertShareKeys(ctx context.Context, keys ...models.ShareKey) error
	GetShareKeys(ctx context.Context, shareID string) ([]models.ShareKey, error)
	GetShareKey(ctx context.Context, shareID string, rotation int64) (models.ShareKey, error)
	DeleteShareKeys(ctx context.Context, shareID string) error
}

// ItemRepository holds encrypted items together with their locally
// re-encrypted plaintext.
type ItemRepository interface {
	// UpsertItems stores items whose revision is newer than the local one
	// and returns exactly those.
	UpsertItems(ctx context.Context, items ...models.LocalItem) ([]models.LocalItem, error)
	GetItem(ctx context.Context, shareID, itemID string) (models.LocalItem, error)
	GetItems(ctx context.Context, shareID string, state models.ItemState) ([]models.LocalItem, error)
	GetActiveLoginItems(ctx context.Context) ([]models.LocalItem, error)
	TrashItems(ctx context.Context, shareID string, revisions ...models.ItemRevision) error
	UntrashItems(ctx context.Context, shareID string, revisions ...models.ItemRevision) error
	// DeleteItems physically removes items and returns the rows removed.
	DeleteItems(ctx context.Context, shareID string, itemIDs ...string) ([]models.LocalItem, error)
	DeleteAllItems(ctx context.Context, shareID string) error
	// UpdateLastUseTimes moves last-use times forward only and returns the
	// keys of the items that changed.
	UpdateLastUseTimes(ctx context.Context, shareID string, uses ...models.LastUseItem) ([]models.ItemKey, error)
}

// CursorRepository stores per-share event stream positions.
type CursorRepository interface {
	GetCursor(ctx context.Context, shareID string) (models.EventCursor, error)
	// AdvanceCursor moves the cursor forward and returns [ErrStaleCursor]
	// if eventID is not newer than the stored one.
	AdvanceCursor(ctx context.Context, shareID, eventID string) error
	// ResetCursor sets the cursor unconditionally.
	ResetCursor(ctx context.Context, shareID, eventID string) error
}

// Store is the local Key & Share Store.
type Store interface {
	ShareRepository
	ShareKeyRepository
	ItemRepository
	CursorRepository

	// WithTx runs fn against a transactional view of the store. Calls on tx
	// made inside fn commit or roll back together; nested WithTx calls join
	// the outer transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Close() error
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport-layer client of the vault backend.
//
// The primary abstraction is [RemoteAPI], which decouples the sync engine
// from the wire protocol. The package ships a JSON-over-HTTPS implementation
// ([NewHTTPRemoteAPI]).
//
// HTTP failures are mapped to the sentinel errors in errors.go by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrNotLatestRevision] for a stale update).
package adapter

import (
	"context"

	"github.com/MKhiriev/vaultsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_api_mock.go -package=mock

// RemoteAPI is the backend as seen by the client. The backend only ever
// handles ciphertext.
type RemoteAPI interface {
	// SetToken installs the bearer session token used by every request.
	SetToken(token string) error
	// Token returns the current session token, if any.
	Token() string
	// UserID returns the subject of the session token.
	UserID() string

	GetShares(ctx context.Context) ([]models.Share, error)
	GetShareKeys(ctx context.Context, shareID string) ([]models.ShareKey, error)

	// GetItems returns every item of a share, following pagination.
	GetItems(ctx context.Context, shareID string) ([]models.Item, error)
	GetItem(ctx context.Context, shareID, itemID string) (models.Item, error)
	CreateItem(ctx context.Context, shareID string, req models.CreateItemRequest) (models.Item, error)
	// UpdateItem returns an error matching [ErrNotLatestRevision] when
	// req.LastRevision is stale.
	UpdateItem(ctx context.Context, shareID, itemID string, req models.UpdateItemRequest) (models.Item, error)
	TrashItems(ctx context.Context, shareID string, items []models.ItemRevision) ([]models.ItemRevision, error)
	UntrashItems(ctx context.Context, shareID string, items []models.ItemRevision) ([]models.ItemRevision, error)
	DeleteItems(ctx context.Context, shareID string, items []models.ItemRevision) error

	// GetLastEventID returns the head of the share's change stream.
	GetLastEventID(ctx context.Context, shareID string) (string, error)
	// GetEvents returns the page of changes following lastEventID.
	GetEvents(ctx context.Context, shareID, lastEventID string) (models.SyncEvents, error)
}

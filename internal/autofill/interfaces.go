// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package autofill projects decrypted login credentials into a platform
// credential store so that other applications can offer them for autofill.
package autofill

import (
	"context"

	"github.com/MKhiriev/vaultsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/identity_store_mock.go -package=mock

// StoreState is what the platform store currently allows.
type StoreState struct {
	IsEnabled                  bool
	SupportsIncrementalUpdates bool
}

// IdentityStore is a platform credential store. Records are keyed by the
// credential's item and URL; saving an existing record updates its rank.
type IdentityStore interface {
	State(ctx context.Context) (StoreState, error)

	// Save adds or updates credentials. Only valid on incremental stores.
	Save(ctx context.Context, credentials []models.AutoFillCredential) error

	// Replace swaps the whole content of the store for credentials.
	Replace(ctx context.Context, credentials []models.AutoFillCredential) error

	// Remove drops every credential projected from the given items.
	Remove(ctx context.Context, items []models.ItemKey) error

	RemoveAll(ctx context.Context) error

	// Count returns the number of stored credentials.
	Count(ctx context.Context) (int, error)
}

// CredentialSource yields the credentials of every active login item.
type CredentialSource interface {
	ActiveCredentials(ctx context.Context) ([]models.AutoFillCredential, error)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package localkey

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/vaultsync/internal/crypto"
)

// MainKeyEntry is the secure storage name of the device main key.
const MainKeyEntry = "vaultsync.main-key"

// StorageMainKeyProvider keeps the main key in a [SecureStorage], normally
// a keyring separate from the one holding the wrapped local key.
//
// With provision enabled a missing main key is created on first use, which
// is what a fresh installation needs. Without it a missing key is reported
// as [ErrMainKeyNotFound].
type StorageMainKeyProvider struct {
	storage   SecureStorage
	provision bool
}

func NewStorageMainKeyProvider(storage SecureStorage, provision bool) *StorageMainKeyProvider {
	return &StorageMainKeyProvider{storage: storage, provision: provision}
}

func (m *StorageMainKeyProvider) MainKey(ctx context.Context) ([]byte, error) {
	key, err := m.storage.Get(ctx, MainKeyEntry)
	switch {
	case err == nil:
		return key, nil
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("%w: %v", ErrMainKeyNotFound, err)
	case !m.provision:
		return nil, ErrMainKeyNotFound
	}

	key, err = crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate main key: %w", err)
	}
	if err = m.storage.Set(ctx, MainKeyEntry, key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMainKeyNotFound, err)
	}
	return key, nil
}

// StaticMainKey is a [MainKeyProvider] returning a fixed key.
type StaticMainKey []byte

func (k StaticMainKey) MainKey(context.Context) ([]byte, error) {
	if len(k) == 0 {
		return nil, ErrMainKeyNotFound
	}
	return clone(k), nil
}

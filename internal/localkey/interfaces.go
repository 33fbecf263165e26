// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package localkey

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/localkey_mock.go -package=mock

// SecureStorage persists small secrets in the device's secure key storage.
// Implementations return [ErrNotFound] for missing entries.
type SecureStorage interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

// MainKeyProvider gives access to the device-level main key that wraps the
// local symmetric key. It returns [ErrMainKeyNotFound] while the key is not
// reachable.
type MainKeyProvider interface {
	MainKey(ctx context.Context) ([]byte, error)
}

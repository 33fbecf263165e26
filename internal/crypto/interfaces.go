// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"github.com/MKhiriev/vaultsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/envelope_crypto_mock.go -package=mock

// EnvelopeCrypto unwraps the key chain user key → vault key → item content
// and encrypts item content under a given rotation.
//
// It knows nothing about the network, the database or the session: every
// method is a pure function of the key material it is handed.
type EnvelopeCrypto interface {
	// GenerateUserKey creates a new X25519 keypair whose private part is
	// locked with passphrase.
	GenerateUserKey(keyID, addressID, passphrase string) (models.UserKey, error)

	// UnlockUserKey opens the private part of key with passphrase.
	// Fails with ErrMissingPassphrase on an empty passphrase,
	// ErrInactiveUserKey on an inactive key and ErrWrongPassphrase when the
	// passphrase does not open it.
	UnlockUserKey(key models.UserKey, passphrase string) ([]byte, error)

	// WrapVaultKey seals vaultKey to the public part of userKey, producing
	// the share key of the given rotation.
	WrapVaultKey(shareID string, rotation int64, vaultKey []byte, userKey models.UserKey) (models.ShareKey, error)

	// UnwrapVaultKey opens a share key with the matching user key from
	// keys. Fails with ErrMissingUserKey, ErrInactiveUserKey or
	// ErrMissingPassphrase.
	UnwrapVaultKey(shareKey models.ShareKey, keys UserKeySet) (VaultKey, error)

	// DecryptItem returns the plaintext content of item. The item's rotation
	// must equal key.Rotation, otherwise ErrUnmatchedRotationID is returned
	// without attempting decryption.
	DecryptItem(item models.Item, key VaultKey) ([]byte, error)

	// EncryptItem encrypts plaintext with key for the given rotation, which
	// must be key's rotation.
	EncryptItem(plaintext []byte, key VaultKey, rotation int64) (string, error)

	// DecryptItemContent decrypts item and decodes the tagged content.
	DecryptItemContent(item models.Item, key VaultKey) (models.ItemContent, error)

	// EncryptItemContent encodes and encrypts content with key.
	EncryptItemContent(content models.ItemContent, key VaultKey) (string, error)

	// DecryptShareContent decrypts the vault metadata of share with key.
	DecryptShareContent(share models.Share, key VaultKey) ([]byte, error)

	// EncryptShareContent encrypts vault metadata with key.
	EncryptShareContent(plaintext []byte, key VaultKey) (string, error)
}

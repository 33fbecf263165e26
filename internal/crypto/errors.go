// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"errors"
	"fmt"
)

// Sentinel crypto errors. Every one of them is recoverable by the caller:
// refetch keys, ask for re-authentication, or skip the single offending item.
var (
	// ErrMissingPassphrase is returned when no passphrase is known for the
	// user key that has to be unlocked.
	ErrMissingPassphrase = errors.New("missing passphrase for user key")

	// ErrMissingUserKey is returned when a share key is addressed to a user
	// key that the session does not hold.
	ErrMissingUserKey = errors.New("missing user key")

	// ErrInactiveUserKey is returned when the addressed user key is marked
	// inactive, typically after a password reset.
	ErrInactiveUserKey = errors.New("inactive user key")

	// ErrUnmatchedRotationID is returned when an item is decrypted with a
	// vault key of another rotation. No cipher operation is attempted.
	ErrUnmatchedRotationID = errors.New("unmatched rotation id")

	// ErrUnmatchedShareID is returned when an item or share content is
	// decrypted with the vault key of a different share.
	ErrUnmatchedShareID = errors.New("unmatched share id")

	// ErrKeysNotFound is returned when no local share key exists for the
	// (share, rotation) an item is pinned to.
	ErrKeysNotFound = errors.New("share keys not found")

	// ErrWrongPassphrase is returned when a user key cannot be unlocked
	// with the supplied passphrase.
	ErrWrongPassphrase = errors.New("wrong passphrase for user key")

	// ErrDecryptionFailed is returned when authenticated decryption fails:
	// wrong key or tampered ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrCorruptedContent is returned when an encrypted blob cannot even be
	// decoded (bad base64, truncated nonce).
	ErrCorruptedContent = errors.New("corrupted encrypted content")

	// ErrInvalidKeyLength is returned for keys that are not 32 bytes long.
	ErrInvalidKeyLength = errors.New("invalid key length")
)

// UnmatchedRotationError carries both rotations of a rejected decryption.
// It matches [ErrUnmatchedRotationID] with errors.Is.
type UnmatchedRotationError struct {
	ItemRotation int64
	KeyRotation  int64
}

func (e *UnmatchedRotationError) Error() string {
	return fmt.Sprintf("unmatched rotation id: item=%d key=%d", e.ItemRotation, e.KeyRotation)
}

func (e *UnmatchedRotationError) Is(target error) bool {
	return target == ErrUnmatchedRotationID
}

// KeysNotFoundError names the share and rotation whose key is missing
// locally. It matches [ErrKeysNotFound] with errors.Is.
type KeysNotFoundError struct {
	ShareID  string
	Rotation int64
}

func (e *KeysNotFoundError) Error() string {
	return fmt.Sprintf("share keys not found: share=%s rotation=%d", e.ShareID, e.Rotation)
}

func (e *KeysNotFoundError) Is(target error) bool {
	return target == ErrKeysNotFound
}

// IsRecoverable reports whether err belongs to the crypto taxonomy, i.e. the
// caller can recover by refetching keys, re-authenticating, or skipping the
// offending item.
func IsRecoverable(err error) bool {
	for _, target := range []error{
		ErrMissingPassphrase,
		ErrMissingUserKey,
		ErrInactiveUserKey,
		ErrUnmatchedRotationID,
		ErrUnmatchedShareID,
		ErrKeysNotFound,
		ErrWrongPassphrase,
		ErrDecryptionFailed,
		ErrCorruptedContent,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// NeedsKeyRefresh reports whether err is cured by refetching share keys.
func NeedsKeyRefresh(err error) bool {
	return errors.Is(err, ErrKeysNotFound) || errors.Is(err, ErrUnmatchedRotationID)
}

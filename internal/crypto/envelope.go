// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/crypto/nacl/box"

	"github.com/MKhiriev/vaultsync/models"
)

// Additional-data tags bind a ciphertext to its purpose and rotation.
const (
	itemContentTag  = "vaultsync.item.v1:"
	shareContentTag = "vaultsync.share.v1:"
	userKeyTag      = "vaultsync.userkey.v1:"
)

// Option tunes an [EnvelopeCrypto] built by [NewEnvelopeCrypto].
type Option func(*envelopeCrypto)

// WithArgon2Params overrides the Argon2id cost parameters used to lock user
// keys. Mobile targets and tests use cheaper values than desktops.
func WithArgon2Params(time, memoryKiB uint32, threads uint8) Option {
	return func(e *envelopeCrypto) {
		e.argon.time = time
		e.argon.memory = memoryKiB
		e.argon.threads = threads
	}
}

// envelopeCrypto is the private implementation of [EnvelopeCrypto].
type envelopeCrypto struct {
	argon argonParams
}

// NewEnvelopeCrypto constructs an [EnvelopeCrypto] with the default Argon2id
// parameters.
func NewEnvelopeCrypto(opts ...Option) EnvelopeCrypto {
	e := &envelopeCrypto{argon: defaultArgonParams}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateUserKey implements [EnvelopeCrypto].
func (e *envelopeCrypto) GenerateUserKey(keyID, addressID, passphrase string) (models.UserKey, error) {
	if passphrase == "" {
		return models.UserKey{}, ErrMissingPassphrase
	}

	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return models.UserKey{}, fmt.Errorf("generate keypair: %w", err)
	}

	salt, err := RandomBytes(16)
	if err != nil {
		return models.UserKey{}, fmt.Errorf("generate salt: %w", err)
	}

	kek := deriveKEK(e.argon, passphrase, salt)
	locked, err := Seal(kek, priv[:], []byte(userKeyTag+keyID))
	if err != nil {
		return models.UserKey{}, fmt.Errorf("lock private key: %w", err)
	}

	return models.UserKey{
		KeyID:      keyID,
		AddressID:  addressID,
		PublicKey:  pub[:],
		PrivateKey: locked,
		Salt:       salt,
		Active:     true,
	}, nil
}

// UnlockUserKey implements [EnvelopeCrypto].
func (e *envelopeCrypto) UnlockUserKey(key models.UserKey, passphrase string) ([]byte, error) {
	if !key.Active {
		return nil, fmt.Errorf("%w: %s", ErrInactiveUserKey, key.KeyID)
	}
	if passphrase == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingPassphrase, key.KeyID)
	}

	kek := deriveKEK(e.argon, passphrase, key.Salt)
	priv, err := Open(kek, key.PrivateKey, []byte(userKeyTag+key.KeyID))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWrongPassphrase, key.KeyID, err)
	}
	if len(priv) != KeySize {
		return nil, fmt.Errorf("%w: private key of %s", ErrInvalidKeyLength, key.KeyID)
	}
	return priv, nil
}

// WrapVaultKey implements [EnvelopeCrypto].
func (e *envelopeCrypto) WrapVaultKey(shareID string, rotation int64, vaultKey []byte, userKey models.UserKey) (models.ShareKey, error) {
	if len(vaultKey) != KeySize {
		return models.ShareKey{}, fmt.Errorf("%w: vault key", ErrInvalidKeyLength)
	}
	pub, err := toKey(userKey.PublicKey)
	if err != nil {
		return models.ShareKey{}, fmt.Errorf("public key of %s: %w", userKey.KeyID, err)
	}

	sealed, err := box.SealAnonymous(nil, vaultKey, pub, rand.Reader)
	if err != nil {
		return models.ShareKey{}, fmt.Errorf("seal vault key: %w", err)
	}

	return models.ShareKey{
		ShareID:     shareID,
		KeyRotation: rotation,
		Key:         sealed,
		UserKeyID:   userKey.KeyID,
	}, nil
}

// UnwrapVaultKey implements [EnvelopeCrypto].
func (e *envelopeCrypto) UnwrapVaultKey(shareKey models.ShareKey, keys UserKeySet) (VaultKey, error) {
	userKey, ok := keys.Key(shareKey.UserKeyID)
	if !ok {
		return VaultKey{}, fmt.Errorf("%w: %s (share %s rotation %d)",
			ErrMissingUserKey, shareKey.UserKeyID, shareKey.ShareID, shareKey.KeyRotation)
	}
	if !userKey.Active {
		return VaultKey{}, fmt.Errorf("%w: %s", ErrInactiveUserKey, userKey.KeyID)
	}
	passphrase, ok := keys.Passphrase(userKey.KeyID)
	if !ok {
		return VaultKey{}, fmt.Errorf("%w: %s", ErrMissingPassphrase, userKey.KeyID)
	}

	privBytes, err := e.UnlockUserKey(userKey, passphrase)
	if err != nil {
		return VaultKey{}, err
	}
	priv, err := toKey(privBytes)
	if err != nil {
		return VaultKey{}, err
	}
	pub, err := toKey(userKey.PublicKey)
	if err != nil {
		return VaultKey{}, err
	}

	vaultKey, ok := box.OpenAnonymous(nil, shareKey.Key, pub, priv)
	if !ok {
		return VaultKey{}, fmt.Errorf("%w: share key %s rotation %d",
			ErrDecryptionFailed, shareKey.ShareID, shareKey.KeyRotation)
	}
	if len(vaultKey) != KeySize {
		return VaultKey{}, fmt.Errorf("%w: vault key of %s", ErrInvalidKeyLength, shareKey.ShareID)
	}

	return VaultKey{ShareID: shareKey.ShareID, Rotation: shareKey.KeyRotation, Key: vaultKey}, nil
}

// DecryptItem implements [EnvelopeCrypto].
func (e *envelopeCrypto) DecryptItem(item models.Item, key VaultKey) ([]byte, error) {
	if item.KeyRotation != key.Rotation {
		return nil, &UnmatchedRotationError{ItemRotation: item.KeyRotation, KeyRotation: key.Rotation}
	}
	if key.ShareID != "" && item.ShareID != "" && item.ShareID != key.ShareID {
		return nil, fmt.Errorf("%w: item %s of share %s, key of share %s",
			ErrUnmatchedShareID, item.ItemID, item.ShareID, key.ShareID)
	}

	plaintext, err := OpenString(key.Key, item.Content, rotationAD(itemContentTag, item.KeyRotation))
	if err != nil {
		return nil, fmt.Errorf("decrypt item %s: %w", item.ItemID, err)
	}
	return plaintext, nil
}

// EncryptItem implements [EnvelopeCrypto].
func (e *envelopeCrypto) EncryptItem(plaintext []byte, key VaultKey, rotation int64) (string, error) {
	if rotation != key.Rotation {
		return "", &UnmatchedRotationError{ItemRotation: rotation, KeyRotation: key.Rotation}
	}

	content, err := SealString(key.Key, plaintext, rotationAD(itemContentTag, rotation))
	if err != nil {
		return "", fmt.Errorf("encrypt item: %w", err)
	}
	return content, nil
}

// DecryptItemContent implements [EnvelopeCrypto].
func (e *envelopeCrypto) DecryptItemContent(item models.Item, key VaultKey) (models.ItemContent, error) {
	plaintext, err := e.DecryptItem(item, key)
	if err != nil {
		return models.ItemContent{}, err
	}

	var content models.ItemContent
	if err = json.Unmarshal(plaintext, &content); err != nil {
		return models.ItemContent{}, fmt.Errorf("%w: item %s: %v", ErrCorruptedContent, item.ItemID, err)
	}
	return content, nil
}

// EncryptItemContent implements [EnvelopeCrypto].
func (e *envelopeCrypto) EncryptItemContent(content models.ItemContent, key VaultKey) (string, error) {
	plaintext, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("marshal item content: %w", err)
	}
	return e.EncryptItem(plaintext, key, key.Rotation)
}

// DecryptShareContent implements [EnvelopeCrypto].
func (e *envelopeCrypto) DecryptShareContent(share models.Share, key VaultKey) ([]byte, error) {
	if share.ContentKeyRotation == nil {
		return nil, nil
	}
	if *share.ContentKeyRotation != key.Rotation {
		return nil, &UnmatchedRotationError{ItemRotation: *share.ContentKeyRotation, KeyRotation: key.Rotation}
	}
	if share.ShareID != key.ShareID {
		return nil, fmt.Errorf("%w: share %s, key of share %s", ErrUnmatchedShareID, share.ShareID, key.ShareID)
	}

	plaintext, err := OpenString(key.Key, share.Content, rotationAD(shareContentTag, key.Rotation))
	if err != nil {
		return nil, fmt.Errorf("decrypt share %s content: %w", share.ShareID, err)
	}
	return plaintext, nil
}

// EncryptShareContent implements [EnvelopeCrypto].
func (e *envelopeCrypto) EncryptShareContent(plaintext []byte, key VaultKey) (string, error) {
	return SealString(key.Key, plaintext, rotationAD(shareContentTag, key.Rotation))
}

func rotationAD(tag string, rotation int64) []byte {
	return []byte(tag + strconv.FormatInt(rotation, 10))
}

func toKey(b []byte) (*[KeySize]byte, error) {
	if len(b) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(b))
	}
	var k [KeySize]byte
	copy(k[:], b)
	return &k, nil
}

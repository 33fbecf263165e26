// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package localkey owns the local symmetric key: the device-local key that
// re-encrypts vault plaintext before it reaches the on-disk store, so that a
// copy of the database alone does not expose item contents.
//
// The key is generated once per installation, wrapped with the device main
// key (NaCl secretbox) and kept in secure storage. A [Provider] is created
// once per session and reset on logout.
package localkey

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/internal/logger"
)

const (
	// CurrentEntry is the secure storage name of the wrapped key:
	// secretbox(raw key), nonce prepended.
	CurrentEntry = "vaultsync.local-key.v2"

	// LegacyEntry is the name used by older installations, which stored
	// secretbox(JSON string of base64(key)).
	LegacyEntry = "vaultsync.symmetric-key"

	nonceSize = 24
)

// Provider is the single owner of the cached local key. All access goes
// through one mutex, which also serializes first-time generation so that
// concurrent callers can never create two different keys.
type Provider struct {
	storage  SecureStorage
	mainKeys MainKeyProvider
	logger   *logger.Logger

	mu     sync.Mutex
	cached []byte
}

// NewProvider constructs a Provider. Nothing is read until the first
// [Provider.GetLocalKey] call.
func NewProvider(storage SecureStorage, mainKeys MainKeyProvider, log *logger.Logger) *Provider {
	return &Provider{storage: storage, mainKeys: mainKeys, logger: log}
}

// GetLocalKey returns the local symmetric key, materializing it on first
// use: legacy entries are migrated, an existing wrapped key is opened, and
// only when none exists a fresh key is generated, wrapped and persisted.
// The returned slice is a copy.
func (p *Provider) GetLocalKey(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return clone(p.cached), nil
	}

	if err := p.migrateLegacyKeyLocked(ctx); err != nil {
		return nil, err
	}

	key, err := p.loadOrCreateLocked(ctx)
	if err != nil {
		return nil, err
	}

	p.cached = key
	return clone(key), nil
}

// MigrateLegacyKeyIfPresent converts a legacy entry to the current format
// and removes it. It is a no-op once migrated and safe to call on every
// cold start; [Provider.GetLocalKey] runs it implicitly.
func (p *Provider) MigrateLegacyKeyIfPresent(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.migrateLegacyKeyLocked(ctx)
}

// Reset drops the cached key. Called on logout or session switch.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.cached {
		p.cached[i] = 0
	}
	p.cached = nil
}

// Seal encrypts plaintext with the local key for storage at rest.
func (p *Provider) Seal(ctx context.Context, plaintext, additionalData []byte) ([]byte, error) {
	key, err := p.GetLocalKey(ctx)
	if err != nil {
		return nil, err
	}
	return crypto.Seal(key, plaintext, additionalData)
}

// Open decrypts a blob produced by [Provider.Seal].
func (p *Provider) Open(ctx context.Context, blob, additionalData []byte) ([]byte, error) {
	key, err := p.GetLocalKey(ctx)
	if err != nil {
		return nil, err
	}
	return crypto.Open(key, blob, additionalData)
}

func (p *Provider) loadOrCreateLocked(ctx context.Context) ([]byte, error) {
	wrapped, err := p.storage.Get(ctx, CurrentEntry)
	switch {
	case err == nil:
		mainKey, err := p.mainKey(ctx)
		if err != nil {
			return nil, err
		}
		key, err := unwrap(wrapped, mainKey)
		if err != nil {
			return nil, err
		}
		if len(key) != crypto.KeySize {
			return nil, fmt.Errorf("%w: unexpected length %d", ErrCorruptedLocalKey, len(key))
		}
		return key, nil

	case errors.Is(err, ErrNotFound):
		return p.createLocked(ctx)

	default:
		return nil, fmt.Errorf("read local key: %w", err)
	}
}

func (p *Provider) createLocked(ctx context.Context) ([]byte, error) {
	mainKey, err := p.mainKey(ctx)
	if err != nil {
		return nil, err
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate local key: %w", err)
	}

	wrapped, err := wrap(key, mainKey)
	if err != nil {
		return nil, err
	}
	if err = p.storage.Set(ctx, CurrentEntry, wrapped); err != nil {
		return nil, fmt.Errorf("persist local key: %w", err)
	}

	p.logger.Info().Str("func", "Provider.createLocked").Msg("generated new local symmetric key")
	return key, nil
}

func (p *Provider) migrateLegacyKeyLocked(ctx context.Context) error {
	legacy, err := p.storage.Get(ctx, LegacyEntry)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read legacy local key: %w", err)
	}

	// a crash after writing the current entry leaves both behind
	_, err = p.storage.Get(ctx, CurrentEntry)
	switch {
	case err == nil:
		return p.deleteLegacy(ctx)
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("read local key: %w", err)
	}

	mainKey, err := p.mainKey(ctx)
	if err != nil {
		return err
	}

	key, err := unwrapLegacy(legacy, mainKey)
	if err != nil {
		return err
	}

	wrapped, err := wrap(key, mainKey)
	if err != nil {
		return err
	}
	if err = p.storage.Set(ctx, CurrentEntry, wrapped); err != nil {
		return fmt.Errorf("persist migrated local key: %w", err)
	}

	p.logger.Info().Str("func", "Provider.migrateLegacyKeyLocked").Msg("migrated legacy local key")
	return p.deleteLegacy(ctx)
}

func (p *Provider) deleteLegacy(ctx context.Context) error {
	if err := p.storage.Delete(ctx, LegacyEntry); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete legacy local key: %w", err)
	}
	return nil
}

func (p *Provider) mainKey(ctx context.Context) (*[crypto.KeySize]byte, error) {
	raw, err := p.mainKeys.MainKey(ctx)
	if err != nil {
		if errors.Is(err, ErrMainKeyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMainKeyNotFound, err)
	}
	if len(raw) != crypto.KeySize {
		return nil, fmt.Errorf("%w: main key has %d bytes", ErrMainKeyNotFound, len(raw))
	}

	var k [crypto.KeySize]byte
	copy(k[:], raw)
	return &k, nil
}

func wrap(key []byte, mainKey *[crypto.KeySize]byte) ([]byte, error) {
	nonceBytes, err := crypto.RandomBytes(nonceSize)
	if err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], nonceBytes)
	return secretbox.Seal(nonce[:], key, &nonce, mainKey), nil
}

func unwrap(wrapped []byte, mainKey *[crypto.KeySize]byte) ([]byte, error) {
	if len(wrapped) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: wrapped key too short", ErrCorruptedLocalKey)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], wrapped[:nonceSize])

	key, ok := secretbox.Open(nil, wrapped[nonceSize:], &nonce, mainKey)
	if !ok {
		return nil, fmt.Errorf("%w: cannot open with main key", ErrCorruptedLocalKey)
	}
	return key, nil
}

// unwrapLegacy opens the double-encoded legacy format.
func unwrapLegacy(wrapped []byte, mainKey *[crypto.KeySize]byte) ([]byte, error) {
	inner, err := unwrap(wrapped, mainKey)
	if err != nil {
		return nil, err
	}

	var encoded string
	if err = json.Unmarshal(inner, &encoded); err != nil {
		return nil, fmt.Errorf("%w: legacy key is not a json string: %v", ErrCorruptedLocalKey, err)
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: legacy key is not base64: %v", ErrCorruptedLocalKey, err)
	}
	if len(key) != crypto.KeySize {
		return nil, fmt.Errorf("%w: legacy key has %d bytes", ErrCorruptedLocalKey, len(key))
	}
	return key, nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/vaultsync/internal/adapter"
	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/internal/store"
	"github.com/MKhiriev/vaultsync/models"
)

type shareKeyService struct {
	store   store.Store
	remote  adapter.RemoteAPI
	crypto  crypto.EnvelopeCrypto
	session *Session

	mu    sync.Mutex
	cache map[string]map[int64]crypto.VaultKey

	logger *logger.Logger
}

func NewShareKeyService(st store.Store, remote adapter.RemoteAPI, ecm crypto.EnvelopeCrypto, session *Session, log *logger.Logger) ShareKeyService {
	return &shareKeyService{
		store:   st,
		remote:  remote,
		crypto:  ecm,
		session: session,
		cache:   make(map[string]map[int64]crypto.VaultKey),
		logger:  log,
	}
}

func (s *shareKeyService) GetVaultKeys(ctx context.Context, shareID string) ([]crypto.VaultKey, error) {
	shareKeys, err := s.store.GetShareKeys(ctx, shareID)
	if err != nil {
		return nil, fmt.Errorf("get local share keys: %w", err)
	}
	if len(shareKeys) == 0 {
		return s.RefreshKeys(ctx, shareID)
	}
	return s.unwrapAll(shareID, shareKeys)
}

func (s *shareKeyService) RefreshKeys(ctx context.Context, shareID string) ([]crypto.VaultKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	remoteKeys, err := s.remote.GetShareKeys(ctx, shareID)
	if err != nil {
		return nil, fmt.Errorf("fetch share keys: %w", err)
	}
	if err = s.store.InsertShareKeys(ctx, remoteKeys...); err != nil {
		return nil, fmt.Errorf("store share keys: %w", err)
	}

	shareKeys, err := s.store.GetShareKeys(ctx, shareID)
	if err != nil {
		return nil, fmt.Errorf("get local share keys: %w", err)
	}

	s.logger.Debug().
		Str("func", "shareKeyService.RefreshKeys").
		Str("share_id", shareID).
		Int("keys", len(shareKeys)).
		Msg("share keys refreshed")

	return s.unwrapAll(shareID, shareKeys)
}

func (s *shareKeyService) VaultKeyFor(ctx context.Context, shareID string, rotation int64) (crypto.VaultKey, error) {
	if key, ok := s.cached(shareID, rotation); ok {
		return key, nil
	}

	shareKey, err := s.store.GetShareKey(ctx, shareID, rotation)
	switch {
	case err == nil:
		return s.unwrap(shareKey)
	case !errors.Is(err, store.ErrShareKeyNotFound):
		return crypto.VaultKey{}, fmt.Errorf("get local share key: %w", err)
	}

	s.logger.Info().
		Str("func", "shareKeyService.VaultKeyFor").
		Str("share_id", shareID).
		Int64("rotation", rotation).
		Msg("share key rotation missing locally, refetching")

	keys, err := s.RefreshKeys(ctx, shareID)
	if err != nil {
		return crypto.VaultKey{}, err
	}
	return crypto.FindVaultKey(keys, shareID, rotation)
}

func (s *shareKeyService) LatestVaultKey(ctx context.Context, shareID string) (crypto.VaultKey, error) {
	keys, err := s.GetVaultKeys(ctx, shareID)
	if err != nil {
		return crypto.VaultKey{}, err
	}

	latest, ok := crypto.LatestVaultKey(keys)
	if !ok {
		return crypto.VaultKey{}, &crypto.KeysNotFoundError{ShareID: shareID}
	}
	return latest, nil
}

func (s *shareKeyService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]map[int64]crypto.VaultKey)
}

// unwrapAll opens every share key the session can open. Keys addressed to
// user keys the session lacks are skipped; it fails only when none opens.
func (s *shareKeyService) unwrapAll(shareID string, shareKeys []models.ShareKey) ([]crypto.VaultKey, error) {
	var (
		keys    []crypto.VaultKey
		lastErr error
	)
	for _, sk := range shareKeys {
		key, err := s.unwrap(sk)
		if err != nil {
			if !crypto.IsRecoverable(err) && !errors.Is(err, ErrNoSession) {
				return nil, err
			}
			s.logger.Warn().Err(err).
				Str("func", "shareKeyService.unwrapAll").
				Str("share_id", shareID).
				Int64("rotation", sk.KeyRotation).
				Msg("skipping share key")
			lastErr = err
			continue
		}
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("no share key could be opened: %w", lastErr)
		}
		return nil, &crypto.KeysNotFoundError{ShareID: shareID}
	}
	return keys, nil
}

func (s *shareKeyService) unwrap(sk models.ShareKey) (crypto.VaultKey, error) {
	if key, ok := s.cached(sk.ShareID, sk.KeyRotation); ok {
		return key, nil
	}

	userKeys, err := s.session.UserKeys()
	if err != nil {
		return crypto.VaultKey{}, err
	}

	key, err := s.crypto.UnwrapVaultKey(sk, userKeys)
	if err != nil {
		return crypto.VaultKey{}, fmt.Errorf("unwrap share key %s/%d: %w", sk.ShareID, sk.KeyRotation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache[sk.ShareID] == nil {
		s.cache[sk.ShareID] = make(map[int64]crypto.VaultKey)
	}
	s.cache[sk.ShareID][sk.KeyRotation] = key
	return key, nil
}

func (s *shareKeyService) cached(shareID string, rotation int64) (crypto.VaultKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.cache[shareID][rotation]
	return key, ok
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/models"
)

func (s *sqlStore) InsertShareKeys(ctx context.Context, keys ...models.ShareKey) error {
	if len(keys) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildInsertShareKeysQuery(keys)
	if err != nil {
		log.Err(err).Str("func", "sqlStore.InsertShareKeys").Msg("failed to build insert share keys query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.q.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "sqlStore.InsertShareKeys").
			Str("share_id", keys[0].ShareID).
			Int("count", len(keys)).
			Msg("failed to insert share keys")
		return fmt.Errorf("%w: insert share keys: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqlStore) GetShareKeys(ctx context.Context, shareID string) ([]models.ShareKey, error) {
	return s.selectShareKeys(ctx, shareID, nil)
}

func (s *sqlStore) GetShareKey(ctx context.Context, shareID string, rotation int64) (models.ShareKey, error) {
	keys, err := s.selectShareKeys(ctx, shareID, &rotation)
	if err != nil {
		return models.ShareKey{}, err
	}
	if len(keys) == 0 {
		return models.ShareKey{}, fmt.Errorf("%w: share %s rotation %d", ErrShareKeyNotFound, shareID, rotation)
	}
	return keys[0], nil
}

func (s *sqlStore) DeleteShareKeys(ctx context.Context, shareID string) error {
	return s.deleteByShare(ctx, tableShareKeys, shareID)
}

func (s *sqlStore) selectShareKeys(ctx context.Context, shareID string, rotation *int64) ([]models.ShareKey, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectShareKeysQuery(shareID, rotation)
	if err != nil {
		log.Err(err).Str("func", "sqlStore.selectShareKeys").Msg("failed to build select share keys query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sqlStore.selectShareKeys").
			Str("share_id", shareID).
			Msg("failed to query share keys")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var keys []models.ShareKey
	for rows.Next() {
		var key models.ShareKey
		if scanErr := rows.Scan(&key.ShareID, &key.KeyRotation, &key.Key, &key.UserKeyID, &key.CreateTime); scanErr != nil {
			log.Err(scanErr).
				Str("func", "sqlStore.selectShareKeys").
				Str("share_id", shareID).
				Msg("skipping unreadable share key row")
			continue
		}
		keys = append(keys, key)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return keys, nil
}

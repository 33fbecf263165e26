// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/models"
)

func (s *sqlStore) UpsertShares(ctx context.Context, shares ...models.Share) error {
	log := logger.FromContext(ctx)

	for _, share := range shares {
		query, args, err := buildUpsertShareQuery(share)
		if err != nil {
			log.Err(err).Str("func", "sqlStore.UpsertShares").Msg("failed to build upsert share query")
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if _, err = s.q.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "sqlStore.UpsertShares").
				Str("share_id", share.ShareID).
				Msg("failed to upsert share")
			return fmt.Errorf("%w: upsert share %s: %w", ErrExecutingStatement, share.ShareID, err)
		}
	}

	return nil
}

func (s *sqlStore) GetShares(ctx context.Context) ([]models.Share, error) {
	return s.selectShares(ctx, "")
}

func (s *sqlStore) GetShare(ctx context.Context, shareID string) (models.Share, error) {
	shares, err := s.selectShares(ctx, shareID)
	if err != nil {
		return models.Share{}, err
	}
	if len(shares) == 0 {
		return models.Share{}, fmt.Errorf("%w: %s", ErrShareNotFound, shareID)
	}
	return shares[0], nil
}

func (s *sqlStore) DeleteShare(ctx context.Context, shareID string) error {
	return s.WithTx(ctx, func(ctx context.Context, tx Store) error {
		txs := tx.(*sqlStore)
		for _, table := range []string{tableItems, tableShareKeys, tableCursors, tableShares} {
			if err := txs.deleteByShare(ctx, table, shareID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *sqlStore) selectShares(ctx context.Context, shareID string) ([]models.Share, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectSharesQuery(shareID)
	if err != nil {
		log.Err(err).Str("func", "sqlStore.selectShares").Msg("failed to build select shares query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "sqlStore.selectShares").Msg("failed to query shares")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var (
			share      models.Share
			rotation   sql.NullInt64
			expireTime sql.NullInt64
		)
		scanErr := rows.Scan(
			&share.ShareID,
			&share.VaultID,
			&share.AddressID,
			&share.TargetID,
			&share.TargetType,
			&share.Permission,
			&share.Owner,
			&rotation,
			&share.Content,
			&expireTime,
			&share.CreateTime,
		)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "sqlStore.selectShares").Msg("skipping unreadable share row")
			continue
		}
		share.ContentKeyRotation = nullableInt64(rotation)
		share.ExpireTime = nullableInt64(expireTime)
		shares = append(shares, share)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "sqlStore.selectShares").Msg("error iterating share rows")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return shares, nil
}

func (s *sqlStore) deleteByShare(ctx context.Context, table, shareID string) error {
	query, args, err := buildDeleteByShareQuery(table, shareID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.q.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqlStore.deleteByShare").
			Str("table", table).
			Str("share_id", shareID).
			Msg("failed to delete rows of share")
		return fmt.Errorf("%w: delete from %s: %w", ErrExecutingStatement, table, err)
	}
	return nil
}

func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

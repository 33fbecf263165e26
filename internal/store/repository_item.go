// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/models"
)

func (s *sqlStore) UpsertItems(ctx context.Context, items ...models.LocalItem) ([]models.LocalItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var applied []models.LocalItem
	err := s.WithTx(ctx, func(ctx context.Context, tx Store) error {
		txs := tx.(*sqlStore)
		log := logger.FromContext(ctx)

		for _, item := range items {
			query, args, err := buildUpsertItemQuery(item)
			if err != nil {
				log.Err(err).Str("func", "sqlStore.UpsertItems").Msg("failed to build upsert item query")
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}

			res, err := txs.q.ExecContext(ctx, query, args...)
			if err != nil {
				log.Err(err).
					Str("func", "sqlStore.UpsertItems").
					Str("share_id", item.ShareID).
					Str("item_id", item.ItemID).
					Msg("failed to upsert item")
				return fmt.Errorf("%w: upsert item %s: %w", ErrExecutingStatement, item.ItemID, err)
			}

			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("%w: rows affected: %w", ErrExecutingStatement, err)
			}
			if n > 0 {
				applied = append(applied, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return applied, nil
}

func (s *sqlStore) GetItem(ctx context.Context, shareID, itemID string) (models.LocalItem, error) {
	items, err := s.selectItems(ctx, ItemFilter{ShareID: shareID, ItemIDs: []string{itemID}})
	if err != nil {
		return models.LocalItem{}, err
	}
	if len(items) == 0 {
		return models.LocalItem{}, fmt.Errorf("%w: share %s item %s", ErrItemNotFound, shareID, itemID)
	}
	return items[0], nil
}

func (s *sqlStore) GetItems(ctx context.Context, shareID string, state models.ItemState) ([]models.LocalItem, error) {
	return s.selectItems(ctx, ItemFilter{ShareID: shareID, State: state})
}

func (s *sqlStore) GetActiveLoginItems(ctx context.Context) ([]models.LocalItem, error) {
	return s.selectItems(ctx, ItemFilter{State: models.ItemStateActive, LoginOnly: true})
}

func (s *sqlStore) TrashItems(ctx context.Context, shareID string, revisions ...models.ItemRevision) error {
	return s.setItemsState(ctx, shareID, models.ItemStateTrashed, revisions)
}

func (s *sqlStore) UntrashItems(ctx context.Context, shareID string, revisions ...models.ItemRevision) error {
	return s.setItemsState(ctx, shareID, models.ItemStateActive, revisions)
}

func (s *sqlStore) DeleteItems(ctx context.Context, shareID string, itemIDs ...string) ([]models.LocalItem, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	var removed []models.LocalItem
	err := s.WithTx(ctx, func(ctx context.Context, tx Store) error {
		txs := tx.(*sqlStore)

		existing, err := txs.selectItems(ctx, ItemFilter{ShareID: shareID, ItemIDs: itemIDs})
		if err != nil {
			return err
		}

		query, args, err := buildDeleteItemsQuery(shareID, itemIDs)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = txs.q.ExecContext(ctx, query, args...); err != nil {
			logger.FromContext(ctx).Err(err).
				Str("func", "sqlStore.DeleteItems").
				Str("share_id", shareID).
				Strs("item_ids", itemIDs).
				Msg("failed to delete items")
			return fmt.Errorf("%w: delete items: %w", ErrExecutingStatement, err)
		}

		removed = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}

func (s *sqlStore) DeleteAllItems(ctx context.Context, shareID string) error {
	return s.deleteByShare(ctx, tableItems, shareID)
}

func (s *sqlStore) UpdateLastUseTimes(ctx context.Context, shareID string, uses ...models.LastUseItem) ([]models.ItemKey, error) {
	log := logger.FromContext(ctx)

	var changed []models.ItemKey
	for _, use := range uses {
		query, args, err := buildUpdateLastUseTimeQuery(shareID, use)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		res, err := s.q.ExecContext(ctx, query, args...)
		if err != nil {
			log.Err(err).
				Str("func", "sqlStore.UpdateLastUseTimes").
				Str("share_id", shareID).
				Str("item_id", use.ItemID).
				Msg("failed to update last use time")
			return nil, fmt.Errorf("%w: update last use time: %w", ErrExecutingStatement, err)
		}

		if n, _ := res.RowsAffected(); n > 0 {
			changed = append(changed, models.ItemKey{ShareID: shareID, ItemID: use.ItemID})
		}
	}

	return changed, nil
}

func (s *sqlStore) setItemsState(ctx context.Context, shareID string, state models.ItemState, revisions []models.ItemRevision) error {
	if len(revisions) == 0 {
		return nil
	}

	return s.WithTx(ctx, func(ctx context.Context, tx Store) error {
		txs := tx.(*sqlStore)
		for _, rev := range revisions {
			query, args, err := buildSetItemStateQuery(shareID, rev, state)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}

			if _, err = txs.q.ExecContext(ctx, query, args...); err != nil {
				logger.FromContext(ctx).Err(err).
					Str("func", "sqlStore.setItemsState").
					Str("share_id", shareID).
					Str("item_id", rev.ItemID).
					Stringer("state", state).
					Msg("failed to change item state")
				return fmt.Errorf("%w: set item state: %w", ErrExecutingStatement, err)
			}
		}
		return nil
	})
}

func (s *sqlStore) selectItems(ctx context.Context, f ItemFilter) ([]models.LocalItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectItemsQuery(f)
	if err != nil {
		log.Err(err).Str("func", "sqlStore.selectItems").Msg("failed to build select items query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "sqlStore.selectItems").
			Str("share_id", f.ShareID).
			Msg("failed to query items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var items []models.LocalItem
	for rows.Next() {
		var (
			item        models.LocalItem
			lastUseTime sql.NullInt64
		)
		scanErr := rows.Scan(
			&item.ShareID,
			&item.ItemID,
			&item.Revision,
			&item.ContentFormatVersion,
			&item.KeyRotation,
			&item.Content,
			&item.State,
			&item.Pinned,
			&item.CreateTime,
			&item.ModifyTime,
			&lastUseTime,
			&item.RevisionTime,
			&item.SymmetricContent,
			&item.IsLogin,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "sqlStore.selectItems").
				Str("share_id", item.ShareID).
				Str("item_id", item.ItemID).
				Msg("skipping unreadable item row")
			continue
		}
		item.LastUseTime = nullableInt64(lastUseTime)
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "sqlStore.selectItems").Msg("error iterating item rows")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return items, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/models"
)

func (s *sqlStore) GetCursor(ctx context.Context, shareID string) (models.EventCursor, error) {
	query, args, err := buildSelectCursorQuery(shareID)
	if err != nil {
		return models.EventCursor{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		cursor    models.EventCursor
		updatedAt int64
	)
	err = s.q.QueryRowContext(ctx, query, args...).Scan(&cursor.ShareID, &cursor.LastEventID, &updatedAt)
	if isNoRows(err) {
		return models.EventCursor{}, fmt.Errorf("%w: %s", ErrCursorNotFound, shareID)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqlStore.GetCursor").
			Str("share_id", shareID).
			Msg("failed to read event cursor")
		return models.EventCursor{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	cursor.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return cursor, nil
}

func (s *sqlStore) AdvanceCursor(ctx context.Context, shareID, eventID string) error {
	return s.WithTx(ctx, func(ctx context.Context, tx Store) error {
		current, err := tx.GetCursor(ctx, shareID)
		switch {
		case errors.Is(err, ErrCursorNotFound):
		case err != nil:
			return err
		case !eventIsNewer(eventID, current.LastEventID):
			return fmt.Errorf("%w: share %s at %q, got %q", ErrStaleCursor, shareID, current.LastEventID, eventID)
		}

		return tx.(*sqlStore).writeCursor(ctx, shareID, eventID)
	})
}

func (s *sqlStore) ResetCursor(ctx context.Context, shareID, eventID string) error {
	return s.writeCursor(ctx, shareID, eventID)
}

func (s *sqlStore) writeCursor(ctx context.Context, shareID, eventID string) error {
	query, args, err := buildUpsertCursorQuery(models.EventCursor{
		ShareID:     shareID,
		LastEventID: eventID,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.q.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "sqlStore.writeCursor").
			Str("share_id", shareID).
			Str("event_id", eventID).
			Msg("failed to write event cursor")
		return fmt.Errorf("%w: write cursor: %w", ErrExecutingStatement, err)
	}
	return nil
}

// eventIsNewer orders numeric event ids; opaque ids only have to differ.
func eventIsNewer(next, current string) bool {
	if next == "" {
		return false
	}
	n, errN := strconv.ParseInt(next, 10, 64)
	c, errC := strconv.ParseInt(current, 10, 64)
	if errN == nil && errC == nil {
		return n > c
	}
	return next != current
}

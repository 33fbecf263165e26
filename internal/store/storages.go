// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/vaultsync/internal/config"
	"github.com/MKhiriev/vaultsync/internal/logger"
)

// sqlStore implements [Store]. q is either the pool or an open transaction.
type sqlStore struct {
	db     *DB
	q      DBTX
	inTx   bool
	logger *logger.Logger
}

// NewStore opens the SQLite database from cfg, runs pending migrations and
// returns a ready [Store].
func NewStore(ctx context.Context, cfg config.Storage, log *logger.Logger) (Store, error) {
	log.Info().Msg("opening local store...")

	db, err := NewConnectSQLite(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newSQLStore(db), nil
}

func newSQLStore(db *DB) *sqlStore {
	return &sqlStore{db: db, q: db.DB, logger: db.logger}
}

func (s *sqlStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	return WithTx(ctx, s.db, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, &sqlStore{db: s.db, q: tx, inTx: true, logger: s.logger})
	})
}

func (s *sqlStore) Close() error {
	if s.inTx {
		return nil
	}
	return s.db.Close()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/migrations"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by the repositories, so the
// same code runs inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger

	// busy retries of a whole transaction
	txRetries uint64
	txBackoff time.Duration
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// WithTx runs fn inside a single transaction. fn's error or panic rolls the
// transaction back; a panic is re-raised after the rollback. Transactions
// that fail with a retryable driver error (database busy or locked) are run
// again from scratch with exponential backoff.
func WithTx(ctx context.Context, db *DB, fn func(ctx context.Context, tx DBTX) error) error {
	backoff := retry.WithMaxRetries(db.txRetries, retry.NewExponential(db.backoffBase()))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := runTx(ctx, db, fn)
		if err != nil && db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable {
			db.logger.Warn().Err(err).Str("func", "store.WithTx").Msg("database busy, retrying transaction")
			return retry.RetryableError(err)
		}
		return err
	})
}

func runTx(ctx context.Context, db *DB, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func (db *DB) backoffBase() time.Duration {
	if db.txBackoff <= 0 {
		return 20 * time.Millisecond
	}
	return db.txBackoff
}

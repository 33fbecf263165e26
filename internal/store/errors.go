// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrShareNotFound is returned when no share with the requested id is
	// stored locally.
	ErrShareNotFound = errors.New("share was not found")

	// ErrShareKeyNotFound is returned when the (share, rotation) pair has no
	// stored key.
	ErrShareKeyNotFound = errors.New("share key was not found")

	// ErrItemNotFound is returned when a query targets an item that does not
	// exist in the database or whose row is unreadable.
	ErrItemNotFound = errors.New("item was not found")

	// ErrCursorNotFound is returned when a share has never been synced.
	ErrCursorNotFound = errors.New("event cursor was not found")

	// ErrStaleCursor is returned by AdvanceCursor when the new event id is
	// equal to or older than the stored one.
	ErrStaleCursor = errors.New("event cursor would not advance")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/vaultsync/internal/adapter"
)

var (
	// ErrConflict is returned by item writes that were based on a stale
	// revision. The local copy has already been replaced by the server's
	// latest revision; the caller must re-apply its edit on top of it.
	ErrConflict = errors.New("item was changed on another device")

	ErrNoSession        = errors.New("no session: user keys are not loaded")
	ErrReadOnlyShare    = errors.New("share does not allow writes")
	ErrShareNotFound    = errors.New("share not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrEmptyItemContent = errors.New("item content is empty")
	ErrInvalidItem      = errors.New("invalid item")
)

// IsConflict reports whether err is a revision conflict, either resolved
// locally ([ErrConflict]) or straight from the backend.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, adapter.ErrNotLatestRevision)
}

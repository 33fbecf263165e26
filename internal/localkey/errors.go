// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package localkey

import "errors"

var (
	// ErrNotFound is returned by a [SecureStorage] when no entry exists
	// under the requested name.
	ErrNotFound = errors.New("secure storage entry not found")

	// ErrMainKeyNotFound is returned when the device main key is
	// unavailable: the device is locked or the hardware-backed key was
	// invalidated. Callers retry once the device is unlocked; it never
	// means the local data is lost.
	ErrMainKeyNotFound = errors.New("main key not found")

	// ErrCorruptedLocalKey is returned when a wrapped local key exists but
	// cannot be opened with the current main key.
	ErrCorruptedLocalKey = errors.New("corrupted local key")
)

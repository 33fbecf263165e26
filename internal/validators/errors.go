// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyName          = errors.New("item name is required")
	ErrEmptyData          = errors.New("item data is required")
	ErrInvalidURL         = errors.New("invalid login url")
	ErrInvalidTOTP        = errors.New("invalid totp uri")
	ErrInvalidExpiration  = errors.New("invalid card expiration date")
	ErrInvalidItemID      = errors.New("invalid item id")
	ErrInvalidRevision    = errors.New("invalid revision")
	ErrEmptyItemRevisions = errors.New("item revisions list cannot be empty")
)

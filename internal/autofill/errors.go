// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package autofill

import "errors"

var (
	ErrNoSource         = errors.New("no credential source configured")
	ErrCorruptedStore   = errors.New("credential store file is corrupted")
	ErrIncrementalWrite = errors.New("store does not support incremental updates")
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks user input before it is encrypted and sent to
// the backend.
//
// A Validator accepts a value and, optionally, the names of the fields to
// check; without field names a default set is validated.
package validators

import "context"

// Validator validates arbitrary input values, optionally restricted to the
// named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}

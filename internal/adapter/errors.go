// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors mapped from HTTP responses by mapHTTPError.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")

	// ErrNotLatestRevision is returned when an update was based on a
	// revision the server has already moved past.
	ErrNotLatestRevision = errors.New("item revision is not the latest")

	// ErrInvalidToken is returned by SetToken for tokens whose claims
	// cannot be read.
	ErrInvalidToken = errors.New("invalid session token")
)

// CodeNotLatestRevision is the API error code for a stale item revision.
const CodeNotLatestRevision = 2001

// APIError carries the code and message of a backend error body. It wraps
// the sentinel matching the HTTP status.
type APIError struct {
	Status  int
	Code    int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%v: api code %d: %s", e.kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%v: %s", e.kind, e.Message)
}

func (e *APIError) Unwrap() []error {
	if e.Code == CodeNotLatestRevision || errors.Is(e.kind, ErrConflict) {
		return []error{e.kind, ErrNotLatestRevision}
	}
	return []error{e.kind}
}

// IsRetryable reports whether a failed request may succeed when sent again
// later: throttling, server-side failures and transport errors are; client
// errors and cancellation are not.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return errors.Is(err, ErrTooManyRequests) ||
			errors.Is(err, ErrInternalServerError) ||
			errors.Is(err, ErrBadGateway) ||
			errors.Is(err, ErrServiceUnavailable) ||
			apiErr.Status >= 500
	}

	// transport error
	return true
}

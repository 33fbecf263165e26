// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the long-lived background loops of the daemon: the
// periodic sync job and the autofill projection of item changes.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx is done or the worker
// fails; a nil error means a clean shutdown.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}

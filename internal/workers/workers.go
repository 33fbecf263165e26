// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/vaultsync/internal/autofill"
	"github.com/MKhiriev/vaultsync/internal/config"
	"github.com/MKhiriev/vaultsync/internal/events"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/internal/service"
)

// Workers runs a set of workers together.
type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker and blocks until all of them returned. The first
// failure cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}
	return g.Wait()
}

// ── Sync ────────────────────────────────────────────────────────────────────

type syncWorker struct {
	job      service.SyncJob
	interval time.Duration
}

// NewSyncWorker runs job every cfg.SyncInterval for as long as the worker
// is running.
func NewSyncWorker(job service.SyncJob, cfg config.Workers) Worker {
	return &syncWorker{job: job, interval: cfg.SyncInterval}
}

func (w *syncWorker) Run(ctx context.Context) error {
	w.job.Start(ctx, w.interval)
	<-ctx.Done()
	w.job.Stop()
	return nil
}

// ── Autofill ────────────────────────────────────────────────────────────────

type autofillWorker struct {
	projector *autofill.Projector
	source    autofill.CredentialSource
	sub       *events.Subscription
	logger    *logger.Logger
}

// NewAutofillWorker subscribes to item changes right away, so nothing
// published between construction and Run is lost. On start the store is
// populated from source if it is empty.
func NewAutofillWorker(projector *autofill.Projector, source autofill.CredentialSource, subscriber events.Subscriber, log *logger.Logger) Worker {
	return &autofillWorker{
		projector: projector,
		source:    source,
		sub:       subscriber.Subscribe(),
		logger:    log,
	}
}

func (w *autofillWorker) Run(ctx context.Context) error {
	defer w.sub.Close()

	if err := w.projector.InsertAll(ctx, w.source, false); err != nil {
		w.logger.Err(err).Str("func", "autofillWorker.Run").Msg("initial credential projection failed")
	}
	w.projector.Run(ctx, w.sub)
	return nil
}

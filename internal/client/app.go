// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"

	"github.com/MKhiriev/vaultsync/internal/adapter"
	"github.com/MKhiriev/vaultsync/internal/autofill"
	"github.com/MKhiriev/vaultsync/internal/config"
	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/internal/events"
	"github.com/MKhiriev/vaultsync/internal/localkey"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/internal/service"
	"github.com/MKhiriev/vaultsync/internal/store"
	"github.com/MKhiriev/vaultsync/internal/workers"
)

// eventBuffer is the per-subscriber notification buffer.
const eventBuffer = 64

type App struct {
	services  *service.Services
	localKeys *localkey.Provider
	store     store.Store
	workers   *workers.Workers

	cfg    *config.StructuredConfig
	logger *logger.Logger
}

// NewApp opens every dependency described by cfg and loads the session.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	ring, err := localkey.OpenKeyring(localkey.KeyringConfig{
		ServiceName: cfg.Keyring.ServiceName,
		Backend:     cfg.Keyring.Backend,
		FileDir:     cfg.Keyring.FileDir,
		Password:    cfg.Keyring.Password,
	})
	if err != nil {
		return nil, err
	}
	secure := localkey.NewKeyringStorage(ring, cfg.Keyring.ServiceName)
	localKeys := localkey.NewProvider(secure, localkey.NewStorageMainKeyProvider(secure, true), log)
	if err = localKeys.MigrateLegacyKeyIfPresent(ctx); err != nil {
		return nil, fmt.Errorf("migrate legacy local key: %w", err)
	}

	remote, err := adapter.NewHTTPRemoteAPI(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("create remote api: %w", err)
	}
	if err = remote.SetToken(cfg.App.Token); err != nil {
		return nil, fmt.Errorf("install session token: %w", err)
	}

	userKeys, err := service.LoadUserKeysFile(cfg.App.UserKeysPath, cfg.App.KeyPassphrase)
	if err != nil {
		return nil, err
	}

	localStore, err := store.NewStore(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	bus := events.NewBus(eventBuffer)
	services := service.NewServices(localStore, remote, crypto.NewEnvelopeCrypto(), localKeys, bus, cfg.Workers, log)
	services.Session.SetUserKeys(userKeys)

	background := []workers.Worker{workers.NewSyncWorker(services.SyncJob, cfg.Workers)}
	if !cfg.Autofill.Disabled {
		credentials, err := autofill.OpenFileIdentityStore(cfg.Autofill.StorePath, autofill.StoreState{
			IsEnabled:                  true,
			SupportsIncrementalUpdates: !cfg.Autofill.FullReplace,
		})
		if err != nil {
			_ = localStore.Close()
			return nil, fmt.Errorf("open credential store: %w", err)
		}
		projector := autofill.NewProjector(credentials, services.ItemService, log)
		background = append(background, workers.NewAutofillWorker(projector, services.ItemService, bus, log))
	}

	return &App{
		services:  services,
		localKeys: localKeys,
		store:     localStore,
		workers:   workers.NewWorkers(background...),
		cfg:       cfg,
		logger:    log,
	}, nil
}

// Run blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info().
		Str("base_url", a.cfg.Adapter.BaseURL).
		Dur("sync_interval", a.cfg.Workers.SyncInterval).
		Bool("autofill", !a.cfg.Autofill.Disabled).
		Msg("vaultsync client started")

	if err := a.workers.Run(logger.WithContext(ctx, a.logger)); err != nil {
		return fmt.Errorf("worker failed: %w", err)
	}

	a.logger.Info().Msg("vaultsync client stopped")
	return nil
}

func (a *App) Close() error {
	a.services.Logout()
	a.localKeys.Reset()
	return a.store.Close()
}

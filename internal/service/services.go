// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/vaultsync/internal/adapter"
	"github.com/MKhiriev/vaultsync/internal/config"
	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/internal/events"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/internal/store"
)

type Services struct {
	Session     *Session
	ShareKeys   ShareKeyService
	SyncEngine  SyncEngine
	ItemService ItemService
	SyncJob     SyncJob
}

func NewServices(
	st store.Store,
	remote adapter.RemoteAPI,
	ecm crypto.EnvelopeCrypto,
	cipher LocalCipher,
	publisher events.Publisher,
	cfg config.Workers,
	log *logger.Logger,
) *Services {
	session := NewSession()
	keys := NewShareKeyService(st, remote, ecm, session, log)
	engine := NewSyncEngine(st, remote, keys, ecm, cipher, publisher, cfg, log)

	return &Services{
		Session:     session,
		ShareKeys:   keys,
		SyncEngine:  engine,
		ItemService: NewItemService(st, remote, keys, ecm, cipher, publisher, log),
		SyncJob:     NewSyncJob(engine, log),
	}
}

// Logout stops background sync and forgets every piece of session key
// material held in memory.
func (s *Services) Logout() {
	s.SyncJob.Stop()
	s.ShareKeys.Reset()
	s.Session.Clear()
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/vaultsync/internal/adapter"
	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/internal/events"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/internal/store"
	"github.com/MKhiriev/vaultsync/internal/validators"
	"github.com/MKhiriev/vaultsync/models"
)

const itemContentFormatVersion = 1

type itemService struct {
	store     store.Store
	remote    adapter.RemoteAPI
	keys      ShareKeyService
	crypto    crypto.EnvelopeCrypto
	codec     itemCodec
	publisher events.Publisher
	validator validators.Validator

	logger *logger.Logger
}

func NewItemService(
	st store.Store,
	remote adapter.RemoteAPI,
	keys ShareKeyService,
	ecm crypto.EnvelopeCrypto,
	cipher LocalCipher,
	publisher events.Publisher,
	log *logger.Logger,
) ItemService {
	return &itemService{
		store:     st,
		remote:    remote,
		keys:      keys,
		crypto:    ecm,
		codec:     itemCodec{keys: keys, crypto: ecm, cipher: cipher},
		publisher: publisher,
		validator: validators.NewItemValidator(),
		logger:    log,
	}
}

func (s *itemService) Create(ctx context.Context, shareID string, content models.ItemContent) (models.DecryptedItem, error) {
	if err := s.validateContent(ctx, content); err != nil {
		return models.DecryptedItem{}, err
	}
	if err := s.checkWritable(ctx, shareID); err != nil {
		return models.DecryptedItem{}, err
	}

	key, err := s.keys.LatestVaultKey(ctx, shareID)
	if err != nil {
		return models.DecryptedItem{}, fmt.Errorf("latest vault key: %w", err)
	}
	encrypted, err := s.crypto.EncryptItemContent(content, key)
	if err != nil {
		return models.DecryptedItem{}, fmt.Errorf("encrypt item: %w", err)
	}

	created, err := s.remote.CreateItem(ctx, shareID, models.CreateItemRequest{
		KeyRotation:          key.Rotation,
		ContentFormatVersion: itemContentFormatVersion,
		Content:              encrypted,
	})
	if err != nil {
		return models.DecryptedItem{}, fmt.Errorf("create item: %w", err)
	}
	created.ShareID = shareID

	return s.persist(ctx, created, content)
}

func (s *itemService) Update(ctx context.Context, shareID, itemID string, lastRevision int64, content models.ItemContent) (models.DecryptedItem, error) {
	if err := s.validateContent(ctx, content); err != nil {
		return models.DecryptedItem{}, err
	}
	if err := s.checkWritable(ctx, shareID); err != nil {
		return models.DecryptedItem{}, err
	}

	key, err := s.keys.LatestVaultKey(ctx, shareID)
	if err != nil {
		return models.DecryptedItem{}, fmt.Errorf("latest vault key: %w", err)
	}
	encrypted, err := s.crypto.EncryptItemContent(content, key)
	if err != nil {
		return models.DecryptedItem{}, fmt.Errorf("encrypt item: %w", err)
	}

	updated, err := s.remote.UpdateItem(ctx, shareID, itemID, models.UpdateItemRequest{
		KeyRotation:          key.Rotation,
		LastRevision:         lastRevision,
		ContentFormatVersion: itemContentFormatVersion,
		Content:              encrypted,
	})
	if err != nil {
		if errors.Is(err, adapter.ErrNotLatestRevision) {
			return models.DecryptedItem{}, s.resolveConflict(ctx, shareID, itemID, err)
		}
		return models.DecryptedItem{}, fmt.Errorf("update item: %w", err)
	}
	updated.ShareID = shareID

	return s.persist(ctx, updated, content)
}

func (s *itemService) Trash(ctx context.Context, shareID string, items ...models.ItemRevision) error {
	if len(items) == 0 {
		return nil
	}

	if err := s.validator.Validate(ctx, items); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	revisions, err := s.remote.TrashItems(ctx, shareID, items)
	if err != nil {
		return s.revisionsFailed(ctx, shareID, items, "trash items", err)
	}
	if err = s.store.TrashItems(ctx, shareID, revisions...); err != nil {
		return fmt.Errorf("trash local items: %w", err)
	}

	s.publish(ctx, events.ItemsChanged{Removed: itemKeys(shareID, revisions)})
	return nil
}

func (s *itemService) Untrash(ctx context.Context, shareID string, items ...models.ItemRevision) error {
	if len(items) == 0 {
		return nil
	}

	if err := s.validator.Validate(ctx, items); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	revisions, err := s.remote.UntrashItems(ctx, shareID, items)
	if err != nil {
		return s.revisionsFailed(ctx, shareID, items, "untrash items", err)
	}
	if err = s.store.UntrashItems(ctx, shareID, revisions...); err != nil {
		return fmt.Errorf("untrash local items: %w", err)
	}

	var notify events.ItemsChanged
	for _, r := range revisions {
		local, err := s.store.GetItem(ctx, shareID, r.ItemID)
		if err != nil {
			s.logger.Err(err).
				Str("func", "itemService.Untrash").
				Str("share_id", shareID).
				Str("item_id", r.ItemID).
				Msg("failed to load untrashed item for autofill")
			continue
		}
		notify.Inserted = append(notify.Inserted, s.codec.credentials(ctx, []models.LocalItem{local})...)
	}
	s.publish(ctx, notify)
	return nil
}

func (s *itemService) Delete(ctx context.Context, shareID string, items ...models.ItemRevision) error {
	if len(items) == 0 {
		return nil
	}

	if err := s.validator.Validate(ctx, items); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	if err := s.remote.DeleteItems(ctx, shareID, items); err != nil {
		return s.revisionsFailed(ctx, shareID, items, "delete items", err)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ItemID)
	}
	deleted, err := s.store.DeleteItems(ctx, shareID, ids...)
	if err != nil {
		return fmt.Errorf("delete local items: %w", err)
	}

	s.publish(ctx, events.ItemsChanged{Removed: loginKeys(deleted)})
	return nil
}

func (s *itemService) Get(ctx context.Context, shareID, itemID string) (models.DecryptedItem, error) {
	local, err := s.store.GetItem(ctx, shareID, itemID)
	if errors.Is(err, store.ErrItemNotFound) {
		return models.DecryptedItem{}, fmt.Errorf("%w: %s/%s", ErrItemNotFound, shareID, itemID)
	}
	if err != nil {
		return models.DecryptedItem{}, fmt.Errorf("get local item: %w", err)
	}
	return s.codec.open(ctx, local)
}

// List returns the readable items of a share; state 0 lists every state.
func (s *itemService) List(ctx context.Context, shareID string, state models.ItemState) ([]models.DecryptedItem, error) {
	locals, err := s.store.GetItems(ctx, shareID, state)
	if err != nil {
		return nil, fmt.Errorf("list local items: %w", err)
	}

	items := make([]models.DecryptedItem, 0, len(locals))
	for _, local := range locals {
		item, err := s.codec.open(ctx, local)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("func", "itemService.List").
				Str("share_id", shareID).
				Str("item_id", local.ItemID).
				Msg("skipping unreadable item")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// ActiveCredentials projects every cached, non-trashed login item. It is the
// source the autofill projector rebuilds from.
func (s *itemService) ActiveCredentials(ctx context.Context) ([]models.AutoFillCredential, error) {
	logins, err := s.store.GetActiveLoginItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active login items: %w", err)
	}
	return s.codec.credentials(ctx, logins), nil
}

func (s *itemService) validateContent(ctx context.Context, content models.ItemContent) error {
	if content.Data == nil {
		return ErrEmptyItemContent
	}
	if err := s.validator.Validate(ctx, content); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}
	return nil
}

func (s *itemService) checkWritable(ctx context.Context, shareID string) error {
	share, err := s.store.GetShare(ctx, shareID)
	if errors.Is(err, store.ErrShareNotFound) {
		return fmt.Errorf("%w: %s", ErrShareNotFound, shareID)
	}
	if err != nil {
		return fmt.Errorf("get share: %w", err)
	}
	if !share.CanWrite() {
		return fmt.Errorf("%w: %s", ErrReadOnlyShare, shareID)
	}
	return nil
}

// persist stores the server's version of a written item. The content is
// the plaintext that was just encrypted, so no decryption round trip is
// needed.
func (s *itemService) persist(ctx context.Context, item models.Item, content models.ItemContent) (models.DecryptedItem, error) {
	local, err := s.codec.seal(ctx, item, content)
	if err != nil {
		return models.DecryptedItem{}, err
	}
	applied, err := s.store.UpsertItems(ctx, local)
	if err != nil {
		return models.DecryptedItem{}, fmt.Errorf("store item: %w", err)
	}

	decrypted := models.DecryptedItem{Item: item, Data: content}
	s.publish(ctx, loginChanges(applied, map[models.ItemKey]models.DecryptedItem{item.Key(): decrypted}))
	return decrypted, nil
}

// resolveConflict replaces the local copy of an item with the server's
// latest revision and reports the conflict to the caller.
func (s *itemService) resolveConflict(ctx context.Context, shareID, itemID string, cause error) error {
	log := s.logger.ForShare(shareID)

	latest, err := s.remote.GetItem(ctx, shareID, itemID)
	if err != nil {
		log.Err(err).
			Str("func", "itemService.resolveConflict").
			Str("item_id", itemID).
			Msg("failed to refetch conflicting item")
		return fmt.Errorf("%w: %w", ErrConflict, cause)
	}
	latest.ShareID = shareID

	local, decrypted, err := s.codec.decrypt(ctx, latest)
	if err != nil {
		log.Err(err).
			Str("func", "itemService.resolveConflict").
			Str("item_id", itemID).
			Msg("failed to decrypt conflicting item")
		return fmt.Errorf("%w: %w", ErrConflict, cause)
	}

	applied, err := s.store.UpsertItems(ctx, local)
	if err != nil {
		return fmt.Errorf("%w: store latest revision: %w", ErrConflict, err)
	}
	s.publish(ctx, loginChanges(applied, map[models.ItemKey]models.DecryptedItem{latest.Key(): decrypted}))

	log.Info().
		Str("func", "itemService.resolveConflict").
		Str("item_id", itemID).
		Int64("revision", latest.Revision).
		Msg("local copy replaced by latest revision")

	return fmt.Errorf("%w: item %s is at revision %d: %w", ErrConflict, itemID, latest.Revision, cause)
}

// revisionsFailed refreshes the local copies of items whose state change
// was refused for a stale revision.
func (s *itemService) revisionsFailed(ctx context.Context, shareID string, items []models.ItemRevision, op string, err error) error {
	if !errors.Is(err, adapter.ErrNotLatestRevision) {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, it := range items {
		_ = s.resolveConflict(ctx, shareID, it.ItemID, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
}

func (s *itemService) publish(ctx context.Context, notify events.ItemsChanged) {
	if s.publisher == nil || notify.IsEmpty() {
		return
	}
	if err := s.publisher.Publish(ctx, notify); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "itemService.publish").
			Msg("items changed notification dropped")
	}
}

func itemKeys(shareID string, revisions []models.ItemRevision) []models.ItemKey {
	keys := make([]models.ItemKey, 0, len(revisions))
	for _, r := range revisions {
		keys = append(keys, models.ItemKey{ShareID: shareID, ItemID: r.ItemID})
	}
	return keys
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/vaultsync/internal/crypto"
	"github.com/MKhiriev/vaultsync/internal/logger"
	"github.com/MKhiriev/vaultsync/models"
)

// itemCodec moves item content between the three encodings: vault-key
// ciphertext from the backend, local-key ciphertext in the store and the
// decoded content.
type itemCodec struct {
	keys   ShareKeyService
	crypto crypto.EnvelopeCrypto
	cipher LocalCipher
}

func itemAD(shareID, itemID string) []byte {
	return []byte("vaultsync.item:" + shareID + ":" + itemID)
}

// decrypt opens a backend item with the vault key of its rotation and
// re-encrypts the plaintext for the local store.
func (c itemCodec) decrypt(ctx context.Context, item models.Item) (models.LocalItem, models.DecryptedItem, error) {
	key, err := c.keys.VaultKeyFor(ctx, item.ShareID, item.KeyRotation)
	if err != nil {
		return models.LocalItem{}, models.DecryptedItem{}, err
	}

	content, err := c.crypto.DecryptItemContent(item, key)
	if err != nil {
		return models.LocalItem{}, models.DecryptedItem{}, fmt.Errorf("decrypt item %s: %w", item.ItemID, err)
	}

	local, err := c.seal(ctx, item, content)
	if err != nil {
		return models.LocalItem{}, models.DecryptedItem{}, err
	}
	return local, models.DecryptedItem{Item: item, Data: content}, nil
}

func (c itemCodec) seal(ctx context.Context, item models.Item, content models.ItemContent) (models.LocalItem, error) {
	plaintext, err := json.Marshal(content)
	if err != nil {
		return models.LocalItem{}, fmt.Errorf("encode item content: %w", err)
	}

	sealed, err := c.cipher.Seal(ctx, plaintext, itemAD(item.ShareID, item.ItemID))
	if err != nil {
		return models.LocalItem{}, fmt.Errorf("seal item %s for local cache: %w", item.ItemID, err)
	}

	return models.LocalItem{
		Item:             item,
		SymmetricContent: sealed,
		IsLogin:          content.Kind() == models.KindLogin,
	}, nil
}

// open decodes the locally cached content of an item.
func (c itemCodec) open(ctx context.Context, local models.LocalItem) (models.DecryptedItem, error) {
	if len(local.SymmetricContent) == 0 {
		return models.DecryptedItem{}, fmt.Errorf("%w: %s/%s", ErrEmptyItemContent, local.ShareID, local.ItemID)
	}

	plaintext, err := c.cipher.Open(ctx, local.SymmetricContent, itemAD(local.ShareID, local.ItemID))
	if err != nil {
		return models.DecryptedItem{}, fmt.Errorf("open cached item %s: %w", local.ItemID, err)
	}

	var content models.ItemContent
	if err = json.Unmarshal(plaintext, &content); err != nil {
		return models.DecryptedItem{}, fmt.Errorf("decode cached item %s: %w", local.ItemID, err)
	}
	return models.DecryptedItem{Item: local.Item, Data: content}, nil
}

// credentials projects cached login items. Items that cannot be opened are
// logged and left out.
func (c itemCodec) credentials(ctx context.Context, items []models.LocalItem) []models.AutoFillCredential {
	log := logger.FromContext(ctx)

	var creds []models.AutoFillCredential
	for _, local := range items {
		if !local.IsLogin {
			continue
		}
		item, err := c.open(ctx, local)
		if err != nil {
			log.Warn().Err(err).
				Str("func", "itemCodec.credentials").
				Str("share_id", local.ShareID).
				Str("item_id", local.ItemID).
				Msg("skipping unreadable login item")
			continue
		}
		creds = append(creds, models.CredentialsFromItem(item)...)
	}
	return creds
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// AutoFillCredential is the minimal projection of a login item that the
// platform credential store needs. It is never a source of truth and can be
// rebuilt from the decrypted items at any time.
type AutoFillCredential struct {
	ShareID     string `json:"shareId"`
	ItemID      string `json:"itemId"`
	Username    string `json:"username"`
	URL         string `json:"url"`
	LastUseTime int64  `json:"lastUseTime"`
}

// IDs returns the identifier pair the credential was projected from.
func (c AutoFillCredential) IDs() ItemKey {
	return ItemKey{ShareID: c.ShareID, ItemID: c.ItemID}
}

// RecordIdentifier serializes the (shareId, itemId) pair into the opaque
// string stored alongside the platform identity.
func (c AutoFillCredential) RecordIdentifier() string {
	b, _ := json.Marshal(c.IDs())
	return base64.StdEncoding.EncodeToString(b)
}

// ParseRecordIdentifier reverses [AutoFillCredential.RecordIdentifier].
func ParseRecordIdentifier(id string) (ItemKey, error) {
	raw, err := base64.StdEncoding.DecodeString(id)
	if err != nil {
		return ItemKey{}, fmt.Errorf("decode record identifier: %w", err)
	}

	var key ItemKey
	if err = json.Unmarshal(raw, &key); err != nil {
		return ItemKey{}, fmt.Errorf("unmarshal record identifier: %w", err)
	}
	return key, nil
}

// CredentialsFromItem projects a decrypted item into one credential per
// login URL. Non-login items and logins without URLs project to nothing.
func CredentialsFromItem(item DecryptedItem) []AutoFillCredential {
	login, ok := item.Data.Login()
	if !ok || item.IsTrashed() {
		return nil
	}

	var lastUse int64
	if item.LastUseTime != nil {
		lastUse = *item.LastUseTime
	}

	creds := make([]AutoFillCredential, 0, len(login.URLs))
	for _, url := range login.URLs {
		if url == "" {
			continue
		}
		creds = append(creds, AutoFillCredential{
			ShareID:     item.ShareID,
			ItemID:      item.ItemID,
			Username:    login.AutofillUsername(),
			URL:         url,
			LastUseTime: lastUse,
		})
	}
	return creds
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/vaultsync/models"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func validLogin() models.ItemContent {
	return models.ItemContent{
		Name: "shop",
		Data: models.LoginData{
			Username: "alice",
			Password: "pw",
			URLs:     []string{"https://shop.example", ""},
			TOTPURI:  "otpauth://totp/shop?secret=ABC",
		},
	}
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestItemValidator_Dispatch(t *testing.T) {
	v := NewItemValidator()
	ctx := context.Background()
	content := validLogin()
	rev := models.ItemRevision{ItemID: "i1", Revision: 1}

	assert.NoError(t, v.Validate(ctx, content))
	assert.NoError(t, v.Validate(ctx, &content))
	assert.NoError(t, v.Validate(ctx, rev))
	assert.NoError(t, v.Validate(ctx, &rev))
	assert.NoError(t, v.Validate(ctx, []models.ItemRevision{rev}))
	assert.ErrorIs(t, v.Validate(ctx, "nope"), ErrUnsupportedType)
}

// ---------------------------------------------------------------------------
// Item content
// ---------------------------------------------------------------------------

func TestItemValidator_Content(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *models.ItemContent)
		fields  []string
		wantErr error
	}{
		{name: "valid login", mutate: func(*models.ItemContent) {}},
		{name: "blank name", mutate: func(c *models.ItemContent) { c.Name = "  " }, wantErr: ErrEmptyName},
		{name: "no data", mutate: func(c *models.ItemContent) { c.Data = nil }, wantErr: ErrEmptyData},
		{
			name: "relative url",
			mutate: func(c *models.ItemContent) {
				login, _ := c.Login()
				login.URLs = []string{"shop.example/login"}
				c.Data = login
			},
			wantErr: ErrInvalidURL,
		},
		{
			name: "bad totp",
			mutate: func(c *models.ItemContent) {
				login, _ := c.Login()
				login.TOTPURI = "ABCDEF"
				c.Data = login
			},
			wantErr: ErrInvalidTOTP,
		},
		{
			name:   "only name checked",
			mutate: func(c *models.ItemContent) { c.Data = nil },
			fields: []string{FieldName},
		},
		{
			name:   "note ignores login fields",
			mutate: func(c *models.ItemContent) { c.Data = models.NoteData{} },
		},
		{
			name:    "bad card expiration",
			mutate:  func(c *models.ItemContent) { c.Data = models.CreditCardData{Number: "4111", ExpirationDate: "12/30"} },
			wantErr: ErrInvalidExpiration,
		},
		{
			name: "card expiration",
			mutate: func(c *models.ItemContent) {
				c.Data = &models.CreditCardData{Number: "4111", ExpirationDate: "2030-12"}
			},
		},
		{
			name:    "unknown field",
			mutate:  func(*models.ItemContent) {},
			fields:  []string{"color"},
			wantErr: ErrUnknownField,
		},
	}

	v := NewItemValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := validLogin()
			tt.mutate(&content)

			err := v.Validate(context.Background(), content, tt.fields...)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ---------------------------------------------------------------------------
// Item revisions
// ---------------------------------------------------------------------------

func TestItemValidator_Revisions(t *testing.T) {
	v := NewItemValidator()
	ctx := context.Background()

	assert.ErrorIs(t, v.Validate(ctx, []models.ItemRevision{}), ErrEmptyItemRevisions)
	assert.ErrorIs(t, v.Validate(ctx, []models.ItemRevision{{ItemID: "i1", Revision: 1}, {ItemID: "", Revision: 1}}), ErrInvalidItemID)
	assert.ErrorIs(t, v.Validate(ctx, []models.ItemRevision{{ItemID: "i1", Revision: 0}}), ErrInvalidRevision)
	assert.NoError(t, v.Validate(ctx, []models.ItemRevision{{ItemID: "i1", Revision: 0}}, FieldItemRevisions, FieldItemID))
	assert.NoError(t, v.Validate(ctx, []models.ItemRevision{}, FieldItemID))
	assert.ErrorIs(t, v.Validate(ctx, models.ItemRevision{ItemID: "i1", Revision: 1}, FieldItemRevisions), ErrUnknownField)
}

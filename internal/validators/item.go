// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/vaultsync/models"
)

// Field names accepted by [ItemValidator].
const (
	FieldName       = "name"
	FieldData       = "data"
	FieldURLs       = "urls"
	FieldTOTP       = "totp"
	FieldExpiration = "expiration"

	FieldItemID        = "item_id"
	FieldRevision      = "revision"
	FieldItemRevisions = "item_revisions"
)

// ItemValidator validates item contents and revision references:
//   - models.ItemContent / *models.ItemContent
//   - models.ItemRevision / *models.ItemRevision
//   - []models.ItemRevision
type ItemValidator struct{}

func NewItemValidator() Validator {
	return &ItemValidator{}
}

func (v *ItemValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ItemContent:
		return v.validateContent(ctx, value, fields...)
	case *models.ItemContent:
		return v.validateContent(ctx, *value, fields...)

	case models.ItemRevision:
		return v.validateRevision(ctx, value, fields...)
	case *models.ItemRevision:
		return v.validateRevision(ctx, *value, fields...)

	case []models.ItemRevision:
		return v.validateRevisions(ctx, value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *ItemValidator) validateContent(_ context.Context, content models.ItemContent, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldData, FieldURLs, FieldTOTP, FieldExpiration}
	}

	login, isLogin := content.Login()
	for _, f := range fields {
		switch f {
		case FieldName:
			if strings.TrimSpace(content.Name) == "" {
				return ErrEmptyName
			}
		case FieldData:
			if content.Data == nil {
				return ErrEmptyData
			}
		case FieldURLs:
			if !isLogin {
				continue
			}
			for _, raw := range login.URLs {
				if err := validateURL(raw); err != nil {
					return err
				}
			}
		case FieldTOTP:
			if isLogin && login.TOTPURI != "" && !strings.HasPrefix(login.TOTPURI, "otpauth://") {
				return ErrInvalidTOTP
			}
		case FieldExpiration:
			card, ok := creditCard(content.Data)
			if !ok || card.ExpirationDate == "" {
				continue
			}
			if _, err := time.Parse("2006-01", card.ExpirationDate); err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidExpiration, card.ExpirationDate)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return nil
}

func (v *ItemValidator) validateRevision(_ context.Context, rev models.ItemRevision, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldItemID, FieldRevision}
	}

	for _, f := range fields {
		switch f {
		case FieldItemID:
			if strings.TrimSpace(rev.ItemID) == "" {
				return ErrInvalidItemID
			}
		case FieldRevision:
			if rev.Revision <= 0 {
				return fmt.Errorf("%w: item %s revision %d", ErrInvalidRevision, rev.ItemID, rev.Revision)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return nil
}

func (v *ItemValidator) validateRevisions(ctx context.Context, revs []models.ItemRevision, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldItemRevisions, FieldItemID, FieldRevision}
	}

	var itemFields []string
	for _, f := range fields {
		switch f {
		case FieldItemRevisions:
			if len(revs) == 0 {
				return ErrEmptyItemRevisions
			}
		case FieldItemID, FieldRevision:
			itemFields = append(itemFields, f)
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	if len(itemFields) == 0 {
		return nil
	}
	for _, rev := range revs {
		if err := v.validateRevision(ctx, rev, itemFields...); err != nil {
			return err
		}
	}
	return nil
}

// validateURL accepts absolute URLs with a host. Empty entries are ignored
// by the credential projection and pass.
func validateURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

func creditCard(data models.ItemContentData) (models.CreditCardData, bool) {
	switch d := data.(type) {
	case models.CreditCardData:
		return d, true
	case *models.CreditCardData:
		if d != nil {
			return *d, true
		}
	}
	return models.CreditCardData{}, false
}

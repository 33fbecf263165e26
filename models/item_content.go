// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ContentKind defines the semantic type of a decrypted item.
// The value determines which [ItemContentData] variant the payload holds.
type ContentKind string

const (
	// KindLogin represents authentication credentials
	// such as username, password, URLs, and optional TOTP secret.
	KindLogin ContentKind = "login"

	// KindAlias represents an e-mail alias.
	KindAlias ContentKind = "alias"

	// KindNote represents arbitrary textual data
	// stored as a secure note.
	KindNote ContentKind = "note"

	// KindCreditCard represents payment card information.
	KindCreditCard ContentKind = "creditCard"

	// KindIdentity represents personal identity details.
	KindIdentity ContentKind = "identity"
)

// ErrUnknownContentKind is returned when decoding a payload whose type tag
// has no matching variant.
var ErrUnknownContentKind = errors.New("unknown item content kind")

// ItemContentData is the sum type of item payloads. Exactly one variant
// struct implements it per [ContentKind].
type ItemContentData interface {
	Kind() ContentKind
}

// ItemContent is the decrypted content of an item: common metadata plus one
// variant payload.
type ItemContent struct {
	Name         string          `json:"name"`
	Note         string          `json:"note,omitempty"`
	ItemUUID     string          `json:"itemUuid,omitempty"`
	Data         ItemContentData `json:"-"`
	CustomFields []CustomField   `json:"customFields,omitempty"`
}

// CustomField is a user-defined extra field attached to an item.
type CustomField struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Kind returns the variant tag of the content, or "" when Data is nil.
func (c ItemContent) Kind() ContentKind {
	if c.Data == nil {
		return ""
	}
	return c.Data.Kind()
}

// Login returns the login payload and true when the content is a login.
func (c ItemContent) Login() (LoginData, bool) {
	switch d := c.Data.(type) {
	case LoginData:
		return d, true
	case *LoginData:
		if d != nil {
			return *d, true
		}
	}
	return LoginData{}, false
}

// LoginData represents decrypted login credentials.
type LoginData struct {
	// Username is the login identifier used for authentication.
	Username string `json:"username"`

	// Email is the e-mail used for the account, if different from Username.
	Email string `json:"email,omitempty"`

	// Password is the secret credential associated with the username.
	Password string `json:"password"`

	// URLs lists the resources where the credentials apply.
	URLs []string `json:"urls,omitempty"`

	// TOTPURI contains an optional otpauth:// URI used for 2FA codes.
	TOTPURI string `json:"totpUri,omitempty"`
}

// Kind implements [ItemContentData].
func (LoginData) Kind() ContentKind { return KindLogin }

// AutofillUsername returns the identifier shown in credential pickers:
// the username when present, the e-mail otherwise.
func (l LoginData) AutofillUsername() string {
	if l.Username != "" {
		return l.Username
	}
	return l.Email
}

// AliasData represents an e-mail alias item. The alias address itself lives
// in the item name.
type AliasData struct{}

// Kind implements [ItemContentData].
func (AliasData) Kind() ContentKind { return KindAlias }

// NoteData represents a secure note. The text is kept in ItemContent.Note.
type NoteData struct{}

// Kind implements [ItemContentData].
func (NoteData) Kind() ContentKind { return KindNote }

// CreditCardData represents decrypted payment card information.
type CreditCardData struct {
	// CardholderName is the name printed on the card.
	CardholderName string `json:"cardholderName"`

	// Number is the primary account number (PAN) of the card.
	Number string `json:"number"`

	// ExpirationDate is the card expiration in YYYY-MM form.
	ExpirationDate string `json:"expirationDate"`

	// VerificationNumber is the card security code (CVV/CVC).
	VerificationNumber string `json:"verificationNumber"`

	// PIN is the card PIN, if stored.
	PIN string `json:"pin,omitempty"`
}

// Kind implements [ItemContentData].
func (CreditCardData) Kind() ContentKind { return KindCreditCard }

// IdentityData represents personal identity details.
type IdentityData struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Kind implements [ItemContentData].
func (IdentityData) Kind() ContentKind { return KindIdentity }

// itemContentEnvelope is the serialized form: metadata plus a tagged payload.
type itemContentEnvelope struct {
	Name         string          `json:"name"`
	Note         string          `json:"note,omitempty"`
	ItemUUID     string          `json:"itemUuid,omitempty"`
	Type         ContentKind     `json:"type"`
	Data         json.RawMessage `json:"data"`
	CustomFields []CustomField   `json:"customFields,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c ItemContent) MarshalJSON() ([]byte, error) {
	if c.Data == nil {
		return nil, fmt.Errorf("marshal item content %q: %w", c.Name, ErrUnknownContentKind)
	}

	data, err := json.Marshal(c.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", c.Data.Kind(), err)
	}

	return json.Marshal(itemContentEnvelope{
		Name:         c.Name,
		Note:         c.Note,
		ItemUUID:     c.ItemUUID,
		Type:         c.Data.Kind(),
		Data:         data,
		CustomFields: c.CustomFields,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ItemContent) UnmarshalJSON(b []byte) error {
	var env itemContentEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	data, err := decodeContentData(env.Type, env.Data)
	if err != nil {
		return err
	}

	*c = ItemContent{
		Name:         env.Name,
		Note:         env.Note,
		ItemUUID:     env.ItemUUID,
		Data:         data,
		CustomFields: env.CustomFields,
	}
	return nil
}

func decodeContentData(kind ContentKind, raw json.RawMessage) (ItemContentData, error) {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}

	switch kind {
	case KindLogin:
		var d LoginData
		err := json.Unmarshal(raw, &d)
		return d, err
	case KindAlias:
		return AliasData{}, nil
	case KindNote:
		return NoteData{}, nil
	case KindCreditCard:
		var d CreditCardData
		err := json.Unmarshal(raw, &d)
		return d, err
	case KindIdentity:
		var d IdentityData
		err := json.Unmarshal(raw, &d)
		return d, err
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownContentKind, kind)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ItemState is the lifecycle state of an item.
type ItemState int

const (
	ItemStateActive  ItemState = 1
	ItemStateTrashed ItemState = 2
)

// String implements fmt.Stringer.
func (s ItemState) String() string {
	switch s {
	case ItemStateActive:
		return "active"
	case ItemStateTrashed:
		return "trashed"
	default:
		return "unknown"
	}
}

// Item is an encrypted record belonging to a share.
//
// KeyRotation pins the share key needed to decrypt Content. Revision is
// assigned by the server and grows on every accepted change; it is the only
// thing used to order concurrent writers.
type Item struct {
	ItemID               string    `json:"ItemID"`
	ShareID              string    `json:"ShareID"`
	Revision             int64     `json:"Revision"`
	ContentFormatVersion int64     `json:"ContentFormatVersion"`
	KeyRotation          int64     `json:"KeyRotation"`
	Content              string    `json:"Content"`
	State                ItemState `json:"State"`
	Pinned               bool      `json:"Pinned"`
	CreateTime           int64     `json:"CreateTime"`
	ModifyTime           int64     `json:"ModifyTime"`
	LastUseTime          *int64    `json:"LastUseTime,omitempty"`
	RevisionTime         int64     `json:"RevisionTime"`
}

// IsTrashed reports whether the item is in the trash.
func (i Item) IsTrashed() bool {
	return i.State == ItemStateTrashed
}

// ItemKey identifies an item globally.
type ItemKey struct {
	ShareID string `json:"shareId"`
	ItemID  string `json:"itemId"`
}

// Key returns the item's identifier.
func (i Item) Key() ItemKey {
	return ItemKey{ShareID: i.ShareID, ItemID: i.ItemID}
}

// ItemRevision is the (id, revision) pair used by trash/untrash requests.
type ItemRevision struct {
	ItemID   string `json:"ItemID"`
	Revision int64  `json:"Revision"`
}

// LastUseItem reports that an item was used for autofill on some device.
type LastUseItem struct {
	ItemID      string `json:"ItemID"`
	LastUseTime int64  `json:"LastUseTime"`
}

// LocalItem is an item as held in the local store: the server envelope plus
// the plaintext content re-encrypted with the device-local key.
type LocalItem struct {
	Item
	SymmetricContent []byte
	IsLogin          bool
}

// DecryptedItem is an item whose content has been opened.
type DecryptedItem struct {
	Item
	Data ItemContent
}

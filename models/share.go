// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// TargetType tells what a share grants access to.
type TargetType int

const (
	// TargetTypeVault grants access to a whole vault.
	TargetTypeVault TargetType = 1
	// TargetTypeItem grants access to a single item.
	TargetTypeItem TargetType = 2
)

// Permission is the bitmask of actions allowed on a share.
type Permission int64

const (
	PermissionRead   Permission = 1 << 0
	PermissionWrite  Permission = 1 << 1
	PermissionManage Permission = 1 << 2
	PermissionAdmin  Permission = 1 << 3
)

// Has reports whether every bit of want is set.
func (p Permission) Has(want Permission) bool {
	return p&want == want
}

// Share is a grant of access to a vault or to an item.
//
// ContentKeyRotation is nil for item-only shares, which carry no vault
// metadata. Content is the vault metadata blob, still encrypted with the
// vault key of ContentKeyRotation.
type Share struct {
	ShareID            string     `json:"ShareID"`
	VaultID            string     `json:"VaultID"`
	AddressID          string     `json:"AddressID"`
	TargetID           string     `json:"TargetID"`
	TargetType         TargetType `json:"TargetType"`
	Permission         Permission `json:"Permission"`
	Owner              bool       `json:"Owner"`
	ContentKeyRotation *int64     `json:"ContentKeyRotation,omitempty"`
	Content            string     `json:"Content,omitempty"`
	ExpireTime         *int64     `json:"ExpireTime,omitempty"`
	CreateTime         int64      `json:"CreateTime"`
}

// IsVault reports whether the share targets a vault.
func (s Share) IsVault() bool {
	return s.TargetType == TargetTypeVault
}

// CanWrite reports whether items of the share may be created or edited.
func (s Share) CanWrite() bool {
	return s.Owner || s.Permission.Has(PermissionWrite)
}

// Expired reports whether the share has an expiration time at or before now
// (unix seconds).
func (s Share) Expired(now int64) bool {
	return s.ExpireTime != nil && *s.ExpireTime <= now
}

// Equal compares the fields that the server may change on an existing share.
// Remote shares are the source of truth, so any difference means the local
// copy has to be replaced.
func (s Share) Equal(other Share) bool {
	return s.ShareID == other.ShareID &&
		s.VaultID == other.VaultID &&
		s.Permission == other.Permission &&
		s.Owner == other.Owner &&
		s.Content == other.Content &&
		equalInt64Ptr(s.ContentKeyRotation, other.ContentKeyRotation) &&
		equalInt64Ptr(s.ExpireTime, other.ExpireTime)
}

func equalInt64Ptr(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ShareKey is the envelope of one vault key rotation.
//
// Key is the vault key sealed to the public part of the user key UserKeyID.
// Share keys are append-only: a new rotation adds a row, older rotations stay
// because items may still be encrypted with them.
type ShareKey struct {
	ShareID     string `json:"ShareID"`
	KeyRotation int64  `json:"KeyRotation"`
	Key         []byte `json:"Key"`
	UserKeyID   string `json:"UserKeyID"`
	CreateTime  int64  `json:"CreateTime"`
}

// LatestRotation returns the highest rotation in keys, or 0 when keys is empty.
func LatestRotation(keys []ShareKey) int64 {
	var latest int64
	for _, k := range keys {
		if k.KeyRotation > latest {
			latest = k.KeyRotation
		}
	}
	return latest
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// UserKey is an asymmetric keypair bound to one of the user's addresses.
//
// PrivateKey is never stored in the clear: it holds nonce ‖ AES-GCM
// ciphertext of the raw X25519 private key, sealed with a key derived from
// the key passphrase and Salt. A key becomes inactive after a password reset;
// share keys addressed to it can no longer be opened.
type UserKey struct {
	KeyID      string `json:"KeyID"`
	AddressID  string `json:"AddressID"`
	PublicKey  []byte `json:"PublicKey"`
	PrivateKey []byte `json:"PrivateKey"`
	Salt       []byte `json:"Salt"`
	Active     bool   `json:"Active"`
}

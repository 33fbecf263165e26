// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// KeySize is the length of every symmetric key handled by the package
// (AES-256 and NaCl keys alike).
const KeySize = 32

// argonParams tunes the Argon2id derivation of passphrase keys.
type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
}

// defaultArgonParams are the OWASP (2024) recommended parameters:
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
var defaultArgonParams = argonParams{
	time:    1,
	memory:  64 * 1024,
	threads: 4,
	keyLen:  KeySize,
}

// RandomBytes reads n bytes from the OS CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateKey returns a fresh random 256-bit symmetric key.
func GenerateKey() ([]byte, error) {
	return RandomBytes(KeySize)
}

// deriveKEK derives a 256-bit key-encryption key from passphrase and salt
// with Argon2id. The result only ever lives in memory.
func deriveKEK(p argonParams, passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, p.time, p.memory, p.threads, p.keyLen)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// Seal encrypts plaintext with key using AES-256-GCM. A random nonce is
// prepended to the ciphertext: blob = nonce ‖ ciphertext. additionalData is
// authenticated but not encrypted and must be presented again to [Open].
func Seal(key, plaintext, additionalData []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open reverses [Seal]. It returns [ErrCorruptedContent] when the blob is
// shorter than a nonce and [ErrDecryptionFailed] when authentication fails,
// which almost always means a wrong key.
func Open(key, blob, additionalData []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize+gcm.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrCorruptedContent)
	}

	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// SealString is [Seal] with a Base64 (standard encoding) result, the form
// items travel in.
func SealString(key, plaintext, additionalData []byte) (string, error) {
	blob, err := Seal(key, plaintext, additionalData)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

// OpenString reverses [SealString].
func OpenString(key []byte, encoded string, additionalData []byte) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", ErrCorruptedContent, err)
	}
	return Open(key, blob, additionalData)
}

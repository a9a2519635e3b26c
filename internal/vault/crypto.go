// SPDX-License-Identifier: MIT

// Package vault is an encrypted blob store: values are sealed with
// ChaCha20-Poly1305 under a key derived from a passphrase and persisted in
// Badger. A wrong passphrase is detected on open, not on first read.
package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyBytes   = 32
	saltBytes  = 16
	pbkdf2Iter = 100_000
)

// deriveKey stretches the passphrase into a 32-byte AEAD key.
func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iter, keyBytes, sha256.New)
}

// newSalt returns a fresh random salt.
func newSalt() ([]byte, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Hash returns the hex SHA-256 digest of data. Used for integrity
// fingerprints of stored blobs.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// zero wipes b. Derived keys do not outlive their use.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

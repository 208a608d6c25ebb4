// Package crypto implements the integrity codec: key derivation, payload
// sealing and checksums for recovery snapshots.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// Argon2id parameters for deriving the process-wide key from a passphrase.
const (
	KeyLen = 32

	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 1
)

// Rand returns n cryptographically secure random bytes.
func Rand(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// DeriveKey derives the process-wide snapshot key from passphrase and salt
// using Argon2id. Called once at startup; the key is read-only afterwards.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, KeyLen)
}

// DeriveSnapshotKey derives a per-snapshot subkey via HKDF-SHA256 using the
// recovery point ID as info. Ciphertext sealed for one point cannot be
// replayed under another point's ID.
func DeriveSnapshotKey(master []byte, pointID uuid.UUID) ([]byte, error) {
	r := hkdf.New(sha256.New, master, nil, pointID.Bytes())
	key := make([]byte, KeyLen)
	_, err := r.Read(key)
	return key, err
}

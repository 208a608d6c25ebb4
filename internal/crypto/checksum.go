package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/SirGunnerB/recruitment-suite/internal/model"
)

// Canonical serializes a payload with reproducible byte output.
// encoding/json sorts map keys, so structurally equal payloads serialize
// identically regardless of construction order.
func Canonical(p model.Payload) ([]byte, error) {
	return json.Marshal(p)
}

// Checksum returns the hex SHA-256 digest of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

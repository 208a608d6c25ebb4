package crypto

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/SirGunnerB/recruitment-suite/internal/errs"
)

// Seal encrypts data with XChaCha20-Poly1305 under key using a random nonce.
// The nonce is prepended to the ciphertext.
func Seal(key, data []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce, err := Rand(chacha20poly1305.NonceSizeX)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(data)+aead.Overhead())
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, data, nil)...)
	return out, nil
}

// Open decrypts a blob produced by Seal. Any malformed input or key mismatch
// surfaces as errs.ErrDecryption; corrupted plaintext is never returned.
func Open(key, blob []byte) ([]byte, error) {
	if len(blob) < chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("blob too short: %w", errs.ErrDecryption)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := blob[:chacha20poly1305.NonceSizeX]
	ct := blob[chacha20poly1305.NonceSizeX:]
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrDecryption)
	}
	return pt, nil
}

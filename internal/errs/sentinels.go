// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState indicates an operation against an entity whose status disallows it.
	ErrInvalidState = errors.New("invalid state")

	// ErrIntegrity indicates a checksum mismatch after decryption (corruption or tampering).
	ErrIntegrity = errors.New("integrity check failed")

	// ErrDecryption indicates ciphertext could not be decrypted with the current key.
	ErrDecryption = errors.New("decryption failed")

	// ErrValidation indicates one or more records failed schema validation.
	ErrValidation = errors.New("validation failed")

	// ErrRestore indicates the restore write-back transaction failed.
	ErrRestore = errors.New("restore failed")

	// ErrSnapshot indicates a snapshot creation failure after the point was persisted.
	ErrSnapshot = errors.New("snapshot failed")
)

// ValidationError aggregates schema validation failures per collection.
type ValidationError struct {
	// Collections maps a collection name to the validation messages of its records.
	Collections map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Collections))
	for name := range e.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// Unwrap makes errors.Is(err, ErrValidation) hold for ValidationError values.
func (e *ValidationError) Unwrap() error { return ErrValidation }

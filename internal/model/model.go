// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Collection identifies one named set of records in the store.
// The set of collections is fixed at compile time; the store maps each
// identifier to its physical table.
type Collection string

// Known collections of the suite.
const (
	CollectionCandidates Collection = "candidates"
	CollectionJobs       Collection = "jobs"
	CollectionClients    Collection = "clients"
	CollectionInvoices   Collection = "invoices"
	CollectionUsers      Collection = "users"
	CollectionAuditLogs  Collection = "auditLogs"
	CollectionSettings   Collection = "settings"
)

// Collections returns all known collections in canonical enumeration order.
func Collections() []Collection {
	return []Collection{
		CollectionCandidates,
		CollectionJobs,
		CollectionClients,
		CollectionInvoices,
		CollectionUsers,
		CollectionAuditLogs,
		CollectionSettings,
	}
}

// Record is a single stored document.
type Record = map[string]any

// Payload is the full snapshot content: every captured collection with its records.
type Payload = map[Collection][]Record

// PointStatus is the lifecycle state of a recovery point.
type PointStatus string

const (
	StatusPending   PointStatus = "pending"
	StatusCompleted PointStatus = "completed"
	StatusFailed    PointStatus = "failed"
)

// PointKind is the snapshot kind. Only full snapshots are produced;
// incremental is reserved and never written by this code.
type PointKind string

const (
	KindFull PointKind = "full"
)

// PointMetadata describes what a snapshot captured.
type PointMetadata struct {
	SchemaVersion string             `json:"schemaVersion"`
	Collections   []Collection       `json:"collections"`
	RecordCounts  map[Collection]int `json:"recordCounts"`
}

// RecoveryPoint describes one snapshot. Rows are immutable once written,
// except Status which moves pending -> completed|failed exactly once.
type RecoveryPoint struct {
	ID          uuid.UUID
	Timestamp   time.Time
	Kind        PointKind
	Description string
	SizeBytes   int64  // length of the canonical serialization, pre-encryption
	Checksum    string // hex SHA-256 of the canonical serialization
	Status      PointStatus
	Metadata    PointMetadata
}

// RecoveryData is the encrypted payload of exactly one recovery point.
type RecoveryData struct {
	RecoveryPointID uuid.UUID
	Payload         []byte // ciphertext, nonce-prefixed
	Timestamp       time.Time
}

// RestoreOptions tunes a restore.
type RestoreOptions struct {
	// Collections limits the restore to a subset of the snapshot's
	// collections. Nil or empty means every collection in the payload.
	Collections []Collection
	// Validate runs schema validation over every record before any write.
	Validate bool
	// PreserveAuditTrail leaves the live auditLogs collection untouched.
	PreserveAuditTrail bool
}

// RestoreResult reports a completed restore.
type RestoreResult struct {
	PointID             uuid.UUID
	SafetyPointID       uuid.UUID // automatic pre-restore snapshot
	RestoredCollections []Collection
	Timestamp           time.Time
}

// AuditEvent is a single audit trail entry.
type AuditEvent struct {
	ID        uuid.UUID
	UserID    uuid.UUID // uuid.Nil means system actor
	Action    string
	Resource  string
	Details   map[string]any
	IP        string
	UserAgent string
	Timestamp time.Time
}

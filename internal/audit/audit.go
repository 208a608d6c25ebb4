// Package audit defines the audit sink interface and a store-backed implementation.
package audit

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/SirGunnerB/recruitment-suite/internal/model"
	"github.com/SirGunnerB/recruitment-suite/internal/repository"
)

// Sink records audit events. Implementations must not silently drop events;
// callers log locally if the sink itself fails.
type Sink interface {
	Log(ctx context.Context, ev model.AuditEvent) error
}

// StoreSink writes audit events as records of the auditLogs collection.
type StoreSink struct {
	store repository.CollectionStore
}

// NewStoreSink constructs a sink backed by the collection store.
func NewStoreSink(store repository.CollectionStore) *StoreSink {
	return &StoreSink{store: store}
}

// Log appends one audit record.
func (s *StoreSink) Log(ctx context.Context, ev model.AuditEvent) error {
	if ev.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		ev.ID = id
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	rec := model.Record{
		"id":        ev.ID.String(),
		"userId":    ev.UserID.String(),
		"action":    ev.Action,
		"resource":  ev.Resource,
		"details":   ev.Details,
		"ip":        ev.IP,
		"userAgent": ev.UserAgent,
		"timestamp": ev.Timestamp.Format(time.RFC3339Nano),
	}
	return s.store.BulkInsert(ctx, model.CollectionAuditLogs, []model.Record{rec})
}

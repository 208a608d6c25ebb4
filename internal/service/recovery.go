// Package service contains the recovery manager orchestrating snapshot
// creation and transactional restore.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/SirGunnerB/recruitment-suite/internal/audit"
	"github.com/SirGunnerB/recruitment-suite/internal/authn"
	pkgcrypto "github.com/SirGunnerB/recruitment-suite/internal/crypto"
	"github.com/SirGunnerB/recruitment-suite/internal/errs"
	"github.com/SirGunnerB/recruitment-suite/internal/model"
	"github.com/SirGunnerB/recruitment-suite/internal/repository"
	"github.com/SirGunnerB/recruitment-suite/internal/schema"
)

// SchemaVersion is recorded in snapshot metadata.
const SchemaVersion = "1.0"

// PreRestoreDescription marks the automatic safety snapshot taken before a restore.
const PreRestoreDescription = "automatic pre-restore snapshot"

// RecoveryService defines snapshot and restore operations.
type RecoveryService interface {
	// CreateSnapshot captures every collection into an encrypted recovery point.
	CreateSnapshot(ctx context.Context, description string) (*model.RecoveryPoint, error)
	// RestoreFromPoint restores the store to a completed recovery point.
	RestoreFromPoint(ctx context.Context, id uuid.UUID, opts model.RestoreOptions) (*model.RestoreResult, error)
	// ListRecoveryPoints returns all points, newest first.
	ListRecoveryPoints(ctx context.Context) ([]model.RecoveryPoint, error)
	// DeleteRecoveryPoint removes a point and its data atomically.
	DeleteRecoveryPoint(ctx context.Context, id uuid.UUID) error
}

// RecoveryServiceImpl implements RecoveryService. One instance holds the
// process-wide encryption key; there is no ambient global state.
type RecoveryServiceImpl struct {
	store     repository.CollectionStore
	catalog   repository.RecoveryCatalog
	validator schema.Validator
	sink      audit.Sink
	key       []byte // read-only after construction, never logged
	log       *zap.Logger
}

// NewRecoveryService constructs the recovery manager with its collaborators.
func NewRecoveryService(
	store repository.CollectionStore,
	catalog repository.RecoveryCatalog,
	validator schema.Validator,
	sink audit.Sink,
	key []byte,
	log *zap.Logger,
) *RecoveryServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecoveryServiceImpl{
		store:     store,
		catalog:   catalog,
		validator: validator,
		sink:      sink,
		key:       key,
		log:       log,
	}
}

// CreateSnapshot reads every collection, seals the canonical payload and
// persists it as a completed recovery point.
//
// The read phase is not atomic across collections: a snapshot taken while
// writers are active may observe a state that never existed at one instant.
// Callers needing strict point-in-time consistency must pause writers.
func (s *RecoveryServiceImpl) CreateSnapshot(ctx context.Context, description string) (*model.RecoveryPoint, error) {
	cols, err := s.store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	payload := make(model.Payload, len(cols))
	counts := make(map[model.Collection]int, len(cols))
	for _, c := range cols {
		recs, err := s.store.ReadAll(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("read collection %s: %w", c, err)
		}
		if recs == nil {
			recs = []model.Record{}
		}
		payload[c] = recs
		counts[c] = len(recs)
	}

	raw, err := pkgcrypto.Canonical(payload)
	if err != nil {
		return nil, fmt.Errorf("serialize payload: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	point := &model.RecoveryPoint{
		ID:          id,
		Timestamp:   time.Now().UTC(),
		Kind:        model.KindFull,
		Description: description,
		SizeBytes:   int64(len(raw)),
		Checksum:    pkgcrypto.Checksum(raw),
		Status:      model.StatusPending,
		Metadata: model.PointMetadata{
			SchemaVersion: SchemaVersion,
			Collections:   cols,
			RecordCounts:  counts,
		},
	}
	if err := s.catalog.AddPoint(ctx, point); err != nil {
		// Nothing persisted yet, no failed point to leave behind.
		return nil, fmt.Errorf("persist recovery point: %w", err)
	}

	subkey, err := pkgcrypto.DeriveSnapshotKey(s.key, id)
	if err != nil {
		return nil, s.failSnapshot(ctx, id, fmt.Errorf("derive snapshot key: %w", err))
	}
	ciphertext, err := pkgcrypto.Seal(subkey, raw)
	if err != nil {
		return nil, s.failSnapshot(ctx, id, fmt.Errorf("seal payload: %w", err))
	}
	data := &model.RecoveryData{
		RecoveryPointID: id,
		Payload:         ciphertext,
		Timestamp:       time.Now().UTC(),
	}
	if err := s.catalog.AddData(ctx, data); err != nil {
		return nil, s.failSnapshot(ctx, id, fmt.Errorf("persist recovery data: %w", err))
	}

	if err := s.catalog.UpdatePointStatus(ctx, id, model.StatusCompleted); err != nil {
		return nil, s.failSnapshot(ctx, id, fmt.Errorf("complete recovery point: %w", err))
	}
	point.Status = model.StatusCompleted

	s.emitAudit(ctx, "backup.create", id.String(), map[string]any{
		"description": description,
		"sizeBytes":   point.SizeBytes,
		"checksum":    point.Checksum,
	})
	s.log.Info("snapshot created",
		zap.String("pointID", id.String()),
		zap.Int64("sizeBytes", point.SizeBytes),
	)
	return point, nil
}

// failSnapshot marks a persisted point as failed and wraps the cause as a
// snapshot error. The failed point stays visible for diagnostics but the
// restore path refuses it.
func (s *RecoveryServiceImpl) failSnapshot(ctx context.Context, id uuid.UUID, cause error) error {
	if err := s.catalog.UpdatePointStatus(ctx, id, model.StatusFailed); err != nil {
		s.log.Error("mark recovery point failed",
			zap.String("pointID", id.String()),
			zap.Error(err),
		)
	}
	return fmt.Errorf("%w: %w", errs.ErrSnapshot, cause)
}

// RestoreFromPoint decrypts and verifies a completed snapshot, takes a safety
// snapshot, and writes the payload back in one transaction. The live store is
// untouched unless every gate before the transaction passes.
func (s *RecoveryServiceImpl) RestoreFromPoint(
	ctx context.Context, id uuid.UUID, opts model.RestoreOptions,
) (*model.RestoreResult, error) {
	point, err := s.catalog.GetPoint(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("recovery point %s: %w", id, errs.ErrNotFound)
		}
		return nil, err
	}
	if point.Status != model.StatusCompleted {
		return nil, fmt.Errorf("recovery point %s has status %q: %w", id, point.Status, errs.ErrInvalidState)
	}

	data, err := s.catalog.GetData(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			// A completed point always has data; this is a catalog invariant violation.
			s.log.Error("recovery catalog invariant violated: completed point has no data",
				zap.String("pointID", id.String()),
			)
			return nil, fmt.Errorf("recovery data for point %s: %w", id, errs.ErrNotFound)
		}
		return nil, err
	}

	subkey, err := pkgcrypto.DeriveSnapshotKey(s.key, id)
	if err != nil {
		return nil, err
	}
	raw, err := pkgcrypto.Open(subkey, data.Payload)
	if err != nil {
		return nil, fmt.Errorf("recovery point %s: %w", id, err)
	}

	if sum := pkgcrypto.Checksum(raw); sum != point.Checksum {
		return nil, fmt.Errorf("recovery point %s checksum mismatch: %w", id, errs.ErrIntegrity)
	}

	var payload model.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("recovery point %s payload decode: %w", id, errs.ErrIntegrity)
	}

	targets, err := resolveTargets(point, payload, opts)
	if err != nil {
		return nil, err
	}

	if opts.Validate {
		if verr := s.validatePayload(payload); verr != nil {
			return nil, verr
		}
	}

	safety, err := s.CreateSnapshot(ctx, PreRestoreDescription)
	if err != nil {
		// Restoring without a rollback point is disallowed.
		return nil, fmt.Errorf("pre-restore snapshot: %w", err)
	}

	restored := make([]model.Collection, 0, len(targets))
	err = s.store.WithTransaction(ctx, targets, func(tx repository.CollectionTx) error {
		for _, c := range targets {
			if opts.PreserveAuditTrail && c == model.CollectionAuditLogs {
				continue
			}
			if err := tx.Clear(ctx, c); err != nil {
				return fmt.Errorf("clear %s: %w", c, err)
			}
			if err := tx.BulkInsert(ctx, c, payload[c]); err != nil {
				return fmt.Errorf("insert %s: %w", c, err)
			}
			restored = append(restored, c)
		}
		return nil
	})
	if err != nil {
		// The transaction rolled back; the live store is unchanged.
		return nil, fmt.Errorf("%w: %w", errs.ErrRestore, err)
	}

	s.emitAudit(ctx, "backup.restore", id.String(), map[string]any{
		"recoveryPointId":      id.String(),
		"preRestoreSnapshotId": safety.ID.String(),
		"collections":          collectionNames(targets),
		"validate":             opts.Validate,
		"preserveAuditTrail":   opts.PreserveAuditTrail,
	})
	s.log.Info("restore completed",
		zap.String("pointID", id.String()),
		zap.String("safetyPointID", safety.ID.String()),
		zap.Int("collections", len(restored)),
	)
	return &model.RestoreResult{
		PointID:             id,
		SafetyPointID:       safety.ID,
		RestoredCollections: restored,
		Timestamp:           time.Now().UTC(),
	}, nil
}

// ListRecoveryPoints returns all recovery points, newest first.
func (s *RecoveryServiceImpl) ListRecoveryPoints(ctx context.Context) ([]model.RecoveryPoint, error) {
	return s.catalog.ListPoints(ctx)
}

// DeleteRecoveryPoint removes a point and its data atomically.
// Deleting an absent point returns errs.ErrNotFound.
func (s *RecoveryServiceImpl) DeleteRecoveryPoint(ctx context.Context, id uuid.UUID) error {
	if err := s.catalog.DeletePoint(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("recovery point %s: %w", id, errs.ErrNotFound)
		}
		return err
	}
	s.emitAudit(ctx, "backup.delete", id.String(), map[string]any{
		"recoveryPointId": id.String(),
	})
	return nil
}

// resolveTargets returns the collections to restore, in snapshot metadata
// order. Explicitly requested collections must exist in the payload.
func resolveTargets(point *model.RecoveryPoint, payload model.Payload, opts model.RestoreOptions) ([]model.Collection, error) {
	if len(opts.Collections) > 0 {
		for _, c := range opts.Collections {
			if _, ok := payload[c]; !ok {
				return nil, fmt.Errorf("collection %s not present in snapshot: %w", c, errs.ErrNotFound)
			}
		}
		return opts.Collections, nil
	}
	targets := make([]model.Collection, 0, len(payload))
	for _, c := range point.Metadata.Collections {
		if _, ok := payload[c]; ok {
			targets = append(targets, c)
		}
	}
	return targets, nil
}

// validatePayload runs schema validation over every record of every
// collection in the payload. All failures are collected before returning.
func (s *RecoveryServiceImpl) validatePayload(payload model.Payload) error {
	failures := make(map[string][]string)
	for c, recs := range payload {
		for i, rec := range recs {
			res := s.validator.Validate(c, rec)
			if res.Success {
				continue
			}
			for _, msg := range res.Errors {
				failures[string(c)] = append(failures[string(c)], fmt.Sprintf("record[%d]: %s", i, msg))
			}
		}
	}
	if len(failures) > 0 {
		return &errs.ValidationError{Collections: failures}
	}
	return nil
}

// emitAudit sends an audit event; sink failures are logged locally and never
// fail the operation.
func (s *RecoveryServiceImpl) emitAudit(ctx context.Context, action, resource string, details map[string]any) {
	ev := model.AuditEvent{
		UserID:    authn.ActorFromCtx(ctx),
		Action:    action,
		Resource:  resource,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
	if err := s.sink.Log(ctx, ev); err != nil {
		s.log.Error("audit sink failure",
			zap.String("action", action),
			zap.String("resource", resource),
			zap.Error(err),
		)
	}
}

func collectionNames(cols []model.Collection) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = string(c)
	}
	return out
}

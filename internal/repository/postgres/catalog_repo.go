package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/SirGunnerB/recruitment-suite/internal/errs"
	"github.com/SirGunnerB/recruitment-suite/internal/model"
)

// CatalogRepo implements RecoveryCatalog using PostgreSQL.
type CatalogRepo struct{ db *DB }

// NewCatalogRepo constructs a recovery catalog repository.
func NewCatalogRepo(db *DB) *CatalogRepo { return &CatalogRepo{db: db} }

// AddPoint inserts a new recovery point row.
func (r *CatalogRepo) AddPoint(ctx context.Context, p *model.RecoveryPoint) error {
	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return err
	}
	const ins = `
INSERT INTO recovery_points (id, ts, kind, description, size_bytes, checksum, status, metadata)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err = r.db.Pool.Exec(ctx, ins,
		p.ID, p.Timestamp, string(p.Kind), p.Description, p.SizeBytes, p.Checksum, string(p.Status), meta)
	if isUniqueViolation(err) {
		return fmt.Errorf("point %s already exists: %w", p.ID, err)
	}
	return err
}

// UpdatePointStatus transitions a point's status.
func (r *CatalogRepo) UpdatePointStatus(ctx context.Context, id uuid.UUID, status model.PointStatus) error {
	const upd = `UPDATE recovery_points SET status=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, upd, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// GetPoint loads a single recovery point by ID.
func (r *CatalogRepo) GetPoint(ctx context.Context, id uuid.UUID) (*model.RecoveryPoint, error) {
	const q = `
SELECT id, ts, kind, description, size_bytes, checksum, status, metadata
FROM recovery_points WHERE id=$1`
	p, err := scanPoint(r.db.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// AddData inserts the encrypted payload for a point.
func (r *CatalogRepo) AddData(ctx context.Context, d *model.RecoveryData) error {
	const ins = `INSERT INTO recovery_data (recovery_point_id, payload, ts) VALUES ($1,$2,$3)`
	_, err := r.db.Pool.Exec(ctx, ins, d.RecoveryPointID, d.Payload, d.Timestamp)
	if isUniqueViolation(err) {
		return fmt.Errorf("data for point %s already exists: %w", d.RecoveryPointID, err)
	}
	return err
}

// GetData loads the encrypted payload of a point.
func (r *CatalogRepo) GetData(ctx context.Context, pointID uuid.UUID) (*model.RecoveryData, error) {
	const q = `SELECT recovery_point_id, payload, ts FROM recovery_data WHERE recovery_point_id=$1`
	var d model.RecoveryData
	err := r.db.Pool.QueryRow(ctx, q, pointID).Scan(&d.RecoveryPointID, &d.Payload, &d.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListPoints returns every recovery point, newest first.
func (r *CatalogRepo) ListPoints(ctx context.Context) ([]model.RecoveryPoint, error) {
	const q = `
SELECT id, ts, kind, description, size_bytes, checksum, status, metadata
FROM recovery_points
ORDER BY ts DESC, id DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RecoveryPoint
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// DeletePoint removes a point and its data atomically.
func (r *CatalogRepo) DeletePoint(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM recovery_data WHERE recovery_point_id=$1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM recovery_points WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		err = errs.ErrNotFound
		return err
	}
	return nil
}

// scanPoint reads one recovery point row from pgx.Row or pgx.Rows.
func scanPoint(row pgx.Row) (*model.RecoveryPoint, error) {
	var (
		p      model.RecoveryPoint
		kind   string
		status string
		ts     time.Time
		meta   []byte
	)
	if err := row.Scan(&p.ID, &ts, &kind, &p.Description, &p.SizeBytes, &p.Checksum, &status, &meta); err != nil {
		return nil, err
	}
	p.Timestamp = ts
	p.Kind = model.PointKind(kind)
	p.Status = model.PointStatus(status)
	if err := json.Unmarshal(meta, &p.Metadata); err != nil {
		return nil, err
	}
	return &p, nil
}

package repository

import (
	"context"

	"github.com/SirGunnerB/recruitment-suite/internal/model"
	"github.com/gofrs/uuid/v5"
)

// RecoveryCatalog persists recovery points and their encrypted payloads.
type RecoveryCatalog interface {
	// AddPoint inserts a new recovery point row.
	AddPoint(ctx context.Context, p *model.RecoveryPoint) error

	// UpdatePointStatus transitions a point's status. Returns errs.ErrNotFound
	// if the point does not exist.
	UpdatePointStatus(ctx context.Context, id uuid.UUID, status model.PointStatus) error

	// GetPoint loads a point by ID. Returns errs.ErrNotFound if absent.
	GetPoint(ctx context.Context, id uuid.UUID) (*model.RecoveryPoint, error)

	// AddData inserts the encrypted payload of a point (one row per point).
	AddData(ctx context.Context, d *model.RecoveryData) error

	// GetData loads the encrypted payload of a point. Returns errs.ErrNotFound if absent.
	GetData(ctx context.Context, pointID uuid.UUID) (*model.RecoveryData, error)

	// ListPoints returns all points ordered by timestamp descending.
	ListPoints(ctx context.Context) ([]model.RecoveryPoint, error)

	// DeletePoint removes a point and its data in one transaction: both rows
	// are removed or neither is. Returns errs.ErrNotFound if the point is absent.
	DeletePoint(ctx context.Context, id uuid.UUID) error
}

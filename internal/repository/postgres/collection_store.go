package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SirGunnerB/recruitment-suite/internal/model"
	"github.com/SirGunnerB/recruitment-suite/internal/repository"
)

// collectionTables maps every known collection to its physical table.
// Lookup through this table is the only way SQL identifiers are built;
// unknown collections are rejected before any query runs.
var collectionTables = map[model.Collection]string{
	model.CollectionCandidates: "candidates",
	model.CollectionJobs:       "jobs",
	model.CollectionClients:    "clients",
	model.CollectionInvoices:   "invoices",
	model.CollectionUsers:      "users",
	model.CollectionAuditLogs:  "audit_logs",
	model.CollectionSettings:   "settings",
}

func tableFor(c model.Collection) (string, error) {
	t, ok := collectionTables[c]
	if !ok {
		return "", fmt.Errorf("unknown collection %q", c)
	}
	return t, nil
}

// CollectionStore implements repository.CollectionStore using PostgreSQL.
// Each collection is a table of (pos bigserial, doc jsonb) rows; record order
// is insertion order.
type CollectionStore struct{ db *DB }

// NewCollectionStore constructs a collection store.
func NewCollectionStore(db *DB) *CollectionStore { return &CollectionStore{db: db} }

// ListCollections enumerates the known collections in canonical order.
func (s *CollectionStore) ListCollections(_ context.Context) ([]model.Collection, error) {
	return model.Collections(), nil
}

// ReadAll returns every record of a collection in insertion order.
func (s *CollectionStore) ReadAll(ctx context.Context, c model.Collection) ([]model.Record, error) {
	t, err := tableFor(c)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Pool.Query(ctx, fmt.Sprintf(`SELECT doc FROM %s ORDER BY pos ASC`, t))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		var raw []byte
		if err = rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec model.Record
		if err = json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("collection %s: %w", c, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of records in a collection.
func (s *CollectionStore) Count(ctx context.Context, c model.Collection) (int64, error) {
	t, err := tableFor(c)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.Pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Clear removes all records of a collection.
func (s *CollectionStore) Clear(ctx context.Context, c model.Collection) error {
	t, err := tableFor(c)
	if err != nil {
		return err
	}
	_, err = s.db.Pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, t))
	return err
}

// BulkInsert appends records to a collection.
func (s *CollectionStore) BulkInsert(ctx context.Context, c model.Collection, recs []model.Record) error {
	t, err := tableFor(c)
	if err != nil {
		return err
	}
	return bulkInsert(ctx, s.db.Pool, t, c, recs)
}

// WithTransaction takes an access-exclusive lock on every target table in
// stable order, runs fn, and commits only if fn succeeds. Concurrent
// overlapping transactions serialize on the locks.
func (s *CollectionStore) WithTransaction(
	ctx context.Context, cols []model.Collection, fn func(tx repository.CollectionTx) error,
) (err error) {
	tables := make([]string, 0, len(cols))
	for _, c := range cols {
		t, terr := tableFor(c)
		if terr != nil {
			return terr
		}
		tables = append(tables, t)
	}
	sort.Strings(tables)

	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{})
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

	for _, t := range tables {
		if _, err = tx.Exec(ctx, fmt.Sprintf(`LOCK TABLE %s IN ACCESS EXCLUSIVE MODE`, t)); err != nil {
			return err
		}
	}
	err = fn(&collectionTx{tx: tx})
	return err
}

// execer covers both PgxPool and pgx.Tx for shared statement helpers.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func bulkInsert(ctx context.Context, e execer, table string, c model.Collection, recs []model.Record) error {
	ins := fmt.Sprintf(`INSERT INTO %s (doc) VALUES ($1)`, table)
	for i, rec := range recs {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("collection %s record[%d]: %w", c, i, err)
		}
		if _, err := e.Exec(ctx, ins, raw); err != nil {
			return err
		}
	}
	return nil
}

// collectionTx applies mutations through an open pgx transaction.
type collectionTx struct{ tx pgx.Tx }

func (t *collectionTx) Clear(ctx context.Context, c model.Collection) error {
	table, err := tableFor(c)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, table))
	return err
}

func (t *collectionTx) BulkInsert(ctx context.Context, c model.Collection, recs []model.Record) error {
	table, err := tableFor(c)
	if err != nil {
		return err
	}
	return bulkInsert(ctx, t.tx, table, c, recs)
}
